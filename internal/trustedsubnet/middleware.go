// Package trustedsubnet restricts access to clients whose address, taken from
// X-Real-IP (HTTP) or x-real-ip metadata (gRPC), lies in a trusted CIDR.
package trustedsubnet

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	httpHeader  = "X-Real-IP"
	metadataKey = "x-real-ip"
)

// check reports whether realIP is allowed. An empty address is allowed; the
// subnet only restricts clients that identify themselves.
func check(ipNet *net.IPNet, realIP string) error {
	if realIP == "" {
		return nil
	}
	clientIP := net.ParseIP(realIP)
	if clientIP == nil {
		return fmt.Errorf("invalid IP address %q", realIP)
	}
	if !ipNet.Contains(clientIP) {
		return fmt.Errorf("IP %s is not in trusted subnet", clientIP)
	}
	return nil
}

// TrustedSubnetMiddleware checks X-Real-IP against trustedSubnet. With an
// empty subnet every request passes.
func TrustedSubnetMiddleware(trustedSubnet string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if trustedSubnet == "" {
			return next
		}

		_, ipNet, err := net.ParseCIDR(trustedSubnet)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err != nil {
				http.Error(w, "Internal server error: invalid trusted subnet configuration", http.StatusInternalServerError)
				return
			}
			if err := check(ipNet, r.Header.Get(httpHeader)); err != nil {
				http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UnaryServerInterceptor is the gRPC counterpart of TrustedSubnetMiddleware.
func UnaryServerInterceptor(trustedSubnet string) (grpc.UnaryServerInterceptor, error) {
	if trustedSubnet == "" {
		return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			return handler(ctx, req)
		}, nil
	}

	_, ipNet, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		return nil, fmt.Errorf("parse trusted subnet: %w", err)
	}

	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var realIP string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(metadataKey); len(values) > 0 {
				realIP = values[0]
			}
		}
		if err := check(ipNet, realIP); err != nil {
			return nil, status.Error(codes.PermissionDenied, err.Error())
		}
		return handler(ctx, req)
	}, nil
}

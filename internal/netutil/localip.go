// Package netutil finds the address the client reports in X-Real-IP.
package netutil

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoAddress is returned when the host has no usable IPv4 address.
var ErrNoAddress = errors.New("no suitable local IP address found")

// GetOutboundIP returns the local address of the preferred outbound route.
// Dialing UDP sends no packets; it only selects an interface.
func GetOutboundIP() (net.IP, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil, fmt.Errorf("determine outbound IP: %w", err)
	}
	defer conn.Close()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected address type: %T", conn.LocalAddr())
	}
	return localAddr.IP, nil
}

// GetLocalIP returns the first non-loopback IPv4 address of the host.
func GetLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("get interface addresses: %w", err)
	}
	return firstIPv4(addrs)
}

// LocalIP tries the outbound route first and falls back to the interface list.
func LocalIP() (string, error) {
	if ip, err := GetOutboundIP(); err == nil {
		return ip.String(), nil
	}
	return GetLocalIP()
}

func firstIPv4(addrs []net.Addr) (string, error) {
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	return "", ErrNoAddress
}

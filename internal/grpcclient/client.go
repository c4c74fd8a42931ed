// Package grpcclient is the gRPC transport of the command line client.
package grpcclient

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"huffpress/internal/wire"
)

const (
	callTimeout = time.Minute
	maxMsgSize  = 1<<30 + 64<<10
)

type Client struct {
	conn    *grpc.ClientConn
	client  wire.CompressorClient
	localIP string
}

// NewClient connects to addr. localIP, when set, is sent as x-real-ip.
func NewClient(addr string, localIP string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMsgSize),
			grpc.MaxCallSendMsgSize(maxMsgSize),
		),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:    conn,
		client:  wire.NewCompressorClient(conn),
		localIP: localIP,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Compress sends data for compression and returns the artifact.
func (c *Client) Compress(ctx context.Context, filename string, data []byte, percentage string) (*wire.CompressReply, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	return c.client.Compress(ctx, &wire.CompressRequest{
		Filename:   filename,
		Data:       data,
		Percentage: percentage,
	})
}

// Decompress sends an artifact and returns the restored bytes.
func (c *Client) Decompress(ctx context.Context, filename string, data []byte) (*wire.DecompressReply, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	return c.client.Decompress(ctx, &wire.DecompressRequest{
		Filename: filename,
		Data:     data,
	})
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.localIP != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-real-ip", c.localIP)
	}
	return context.WithTimeout(ctx, callTimeout)
}

package wire

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName          = "huffpress.Compressor"
	CompressFullMethod   = "/" + ServiceName + "/Compress"
	DecompressFullMethod = "/" + ServiceName + "/Decompress"
)

// CompressorServer is the server API for the Compressor service.
type CompressorServer interface {
	Compress(context.Context, *CompressRequest) (*CompressReply, error)
	Decompress(context.Context, *DecompressRequest) (*DecompressReply, error)
}

// RegisterCompressorServer registers srv on s. The server must be created
// with grpc.ForceServerCodec(Codec{}).
func RegisterCompressorServer(s grpc.ServiceRegistrar, srv CompressorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the Compressor service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CompressorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compress", Handler: compressHandler},
		{MethodName: "Decompress", Handler: decompressHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "huffpress.proto",
}

func compressHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompressRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompressorServer).Compress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CompressFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompressorServer).Compress(ctx, req.(*CompressRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func decompressHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DecompressRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompressorServer).Decompress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DecompressFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompressorServer).Decompress(ctx, req.(*DecompressRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CompressorClient is the client API for the Compressor service.
type CompressorClient interface {
	Compress(ctx context.Context, in *CompressRequest, opts ...grpc.CallOption) (*CompressReply, error)
	Decompress(ctx context.Context, in *DecompressRequest, opts ...grpc.CallOption) (*DecompressReply, error)
}

type compressorClient struct {
	cc grpc.ClientConnInterface
}

// NewCompressorClient returns a client that always uses Codec.
func NewCompressorClient(cc grpc.ClientConnInterface) CompressorClient {
	return &compressorClient{cc: cc}
}

func (c *compressorClient) Compress(ctx context.Context, in *CompressRequest, opts ...grpc.CallOption) (*CompressReply, error) {
	out := new(CompressReply)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := c.cc.Invoke(ctx, CompressFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *compressorClient) Decompress(ctx context.Context, in *DecompressRequest, opts ...grpc.CallOption) (*DecompressReply, error) {
	out := new(DecompressReply)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := c.cc.Invoke(ctx, DecompressFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

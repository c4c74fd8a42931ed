// Package grpcserver exposes the compression service over gRPC.
package grpcserver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"huffpress/internal/api/compressdto"
	"huffpress/internal/codecerr"
	"huffpress/internal/service"
	"huffpress/internal/storage"
	"huffpress/internal/trustedsubnet"
	"huffpress/internal/wire"
)

// messageOverhead covers the non-payload fields of a request.
const messageOverhead = 64 << 10

// Service is the part of service.Service the gRPC server needs.
type Service interface {
	Compress(ctx context.Context, up service.Upload, rawPercentage string) (compressdto.CompressResponse, error)
	Decompress(ctx context.Context, up service.Upload) (compressdto.DecompressResponse, error)
}

// CompressorServer implements wire.CompressorServer on top of Service.
type CompressorServer struct {
	service Service
	log     *zap.SugaredLogger
}

func NewCompressorServer(svc Service, log *zap.SugaredLogger) *CompressorServer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CompressorServer{service: svc, log: log}
}

// Compress compresses the request data and returns the artifact it produced.
func (s *CompressorServer) Compress(ctx context.Context, req *wire.CompressRequest) (*wire.CompressReply, error) {
	resp, err := s.service.Compress(ctx, service.Upload{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Data:        req.Data,
	}, req.Percentage)
	if err != nil {
		return nil, s.statusError(err)
	}

	return &wire.CompressReply{
		OriginalFilename:      resp.OriginalFilename,
		CompressedFilename:    resp.CompressedFilename,
		OriginalSize:          resp.OriginalSize,
		CompressedSize:        resp.CompressedSize,
		CompressionPercentage: resp.CompressionPercentage,
		RequestedPercentage:   int64(resp.RequestedPercentage),
		Path:                  resp.Path,
		Format:                resp.Format,
		MergedSymbols:         int64(resp.MergedSymbols),
		Artifact:              resp.Artifact,
	}, nil
}

// Decompress restores the request artifact and returns the original bytes.
func (s *CompressorServer) Decompress(ctx context.Context, req *wire.DecompressRequest) (*wire.DecompressReply, error) {
	resp, err := s.service.Decompress(ctx, service.Upload{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Data:        req.Data,
	})
	if err != nil {
		return nil, s.statusError(err)
	}

	return &wire.DecompressReply{
		OriginalFilename:     resp.OriginalFilename,
		DecompressedFilename: resp.DecompressedFilename,
		Size:                 resp.Size,
		Path:                 resp.Path,
		Format:               resp.Format,
		Data:                 resp.Data,
	}, nil
}

func (s *CompressorServer) statusError(err error) error {
	code := codeFor(err)
	if code == codes.Internal {
		s.log.Errorw("grpc request failed", "error", err)
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, service.ErrInvalidFilename):
		return codes.InvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		return codes.NotFound
	}

	switch kind := codecerr.KindOf(err); {
	case kind.IsInput():
		return codes.InvalidArgument
	case kind != codecerr.KindUnknown:
		return codes.DataLoss
	}
	return codes.Internal
}

// NewServer builds a gRPC server with the Compressor service registered.
// maxUpload bounds request messages; trustedSubnet may be empty.
func NewServer(svc Service, log *zap.SugaredLogger, maxUpload int64, trustedSubnet string) (*grpc.Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	subnet, err := trustedsubnet.UnaryServerInterceptor(trustedSubnet)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer(
		grpc.ForceServerCodec(wire.Codec{}),
		grpc.MaxRecvMsgSize(int(maxUpload)+messageOverhead),
		grpc.MaxSendMsgSize(int(maxUpload)+messageOverhead),
		grpc.ChainUnaryInterceptor(loggingInterceptor(log), subnet),
	)
	wire.RegisterCompressorServer(srv, NewCompressorServer(svc, log))
	return srv, nil
}

func loggingInterceptor(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Infow("grpc request served",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

package grpcserver

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"huffpress/internal/engine"
	"huffpress/internal/service"
	"huffpress/internal/storage"
	"huffpress/internal/wire"
)

// overwrittenStore replaces every saved file right after saving it, as a
// concurrent request for the same name would.
type overwrittenStore struct {
	*storage.MemStorage
}

func (s overwrittenStore) Save(ctx context.Context, name string, data []byte) error {
	if err := s.MemStorage.Save(ctx, name, data); err != nil {
		return err
	}
	return s.MemStorage.Save(ctx, name, []byte("written by another request"))
}

func startServer(t *testing.T, trustedSubnet string) wire.CompressorClient {
	t.Helper()

	return startServerWith(t, storage.NewMemStorage(), trustedSubnet)
}

type artifactStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

func startServerWith(t *testing.T, artifacts artifactStore, trustedSubnet string) wire.CompressorClient {
	t.Helper()

	eng, err := engine.New()
	require.NoError(t, err)

	mem := storage.NewMemStorage()
	svc, err := service.NewService(artifacts, mem, eng, service.Config{})
	require.NoError(t, err)

	srv, err := NewServer(svc, nil, 1<<20, trustedSubnet)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return wire.NewCompressorClient(conn)
}

func TestCompressorServer_RoundTrip(t *testing.T) {
	client := startServer(t, "")
	ctx := context.Background()

	comp, err := client.Compress(ctx, &wire.CompressRequest{
		Filename:   "notes.txt",
		Data:       []byte("aaaabbbccd"),
		Percentage: "50",
	})
	require.NoError(t, err)
	assert.Equal(t, "compressed_notes.txt.huffman", comp.CompressedFilename)
	assert.Equal(t, "huffman", comp.Path)
	assert.Equal(t, int64(10), comp.OriginalSize)
	assert.Equal(t, int64(50), comp.RequestedPercentage)
	assert.Equal(t, int64(1), comp.MergedSymbols)
	assert.Equal(t, comp.CompressedSize, int64(len(comp.Artifact)))

	dec, err := client.Decompress(ctx, &wire.DecompressRequest{
		Filename: comp.CompressedFilename,
		Data:     comp.Artifact,
	})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", dec.DecompressedFilename)
	assert.Equal(t, []byte("aaaabbbcc?"), dec.Data)
}

func TestCompressorServer_RepliesWithOwnBytes(t *testing.T) {
	client := startServerWith(t, overwrittenStore{storage.NewMemStorage()}, "")
	ctx := context.Background()
	data := []byte("aaaabbbccd")

	comp, err := client.Compress(ctx, &wire.CompressRequest{Filename: "shared.txt", Data: data, Percentage: "10"})
	require.NoError(t, err)
	assert.Equal(t, comp.CompressedSize, int64(len(comp.Artifact)))
	assert.NotEqual(t, []byte("written by another request"), comp.Artifact)

	dec, err := client.Decompress(ctx, &wire.DecompressRequest{Filename: comp.CompressedFilename, Data: comp.Artifact})
	require.NoError(t, err)
	assert.Equal(t, data, dec.Data)
	assert.Equal(t, int64(len(data)), dec.Size)
}

func TestCompressorServer_Errors(t *testing.T) {
	client := startServer(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{
			name: "empty input",
			call: func() error {
				_, err := client.Compress(ctx, &wire.CompressRequest{Filename: "a.txt"})
				return err
			},
			want: codes.InvalidArgument,
		},
		{
			name: "bad percentage",
			call: func() error {
				_, err := client.Compress(ctx, &wire.CompressRequest{Filename: "a.txt", Data: []byte("x"), Percentage: "abc"})
				return err
			},
			want: codes.InvalidArgument,
		},
		{
			name: "bad filename",
			call: func() error {
				_, err := client.Compress(ctx, &wire.CompressRequest{Filename: "../", Data: []byte("x")})
				return err
			},
			want: codes.InvalidArgument,
		},
		{
			name: "malformed artifact",
			call: func() error {
				_, err := client.Decompress(ctx, &wire.DecompressRequest{Filename: "junk.bin", Data: []byte("junk")})
				return err
			},
			want: codes.DataLoss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestCompressorServer_TrustedSubnet(t *testing.T) {
	client := startServer(t, "10.0.0.0/8")
	req := &wire.CompressRequest{Filename: "a.txt", Data: []byte("abc")}

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "192.168.1.1")
	_, err := client.Compress(ctx, req)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	ctx = metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "10.1.2.3")
	_, err = client.Compress(ctx, req)
	assert.NoError(t, err)
}

func TestNewServerBadSubnet(t *testing.T) {
	_, err := NewServer(nil, nil, 1, "not-a-cidr")
	assert.Error(t, err)
}

// Package main is the command line client. It sends files to the server for
// compression or restoration and saves the results locally.
//
// Usage:
//
//	client [-a host:port] [-g host:port] [-p percentage] [-o dir] [-k key] [-r retries] [-d] file...
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"huffpress/configs"
	"huffpress/internal/clientconfig"
	"huffpress/internal/grpcclient"
	"huffpress/internal/logger"
	"huffpress/internal/netutil"
	"huffpress/internal/uploader"
)

type processor interface {
	Process(ctx context.Context, path string, decompress bool, percentage, outDir string) (string, error)
}

func main() {
	if err := run(); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func run() error {
	cfg, err := clientconfig.ParseFlags()
	if err != nil {
		return err
	}

	newLogger, err := logger.CreateLoggerRequest("info")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer newLogger.Sync()
	newLogger.Debug(configs.BuildVerPrint())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	localIP, err := netutil.LocalIP()
	if err != nil {
		newLogger.Warnw("cannot determine local IP", "error", err)
	}

	var p processor
	if cfg.GRPCAddr != "" {
		c, err := grpcclient.NewClient(cfg.GRPCAddr, localIP)
		if err != nil {
			return fmt.Errorf("connect gRPC: %w", err)
		}
		defer c.Close()
		p = grpcProcessor{client: c}
	} else {
		p = uploader.New(cfg.Addr.URL(), cfg.Key, cfg.Retries, newLogger.SugaredLogger).WithRealIP(localIP)
	}

	var failed int
	for _, path := range cfg.Files {
		dst, err := p.Process(ctx, path, cfg.Decompress, cfg.Percentage, cfg.OutputDir)
		if err != nil {
			failed++
			newLogger.Errorw("file failed", "file", path, "error", err)
			continue
		}
		fmt.Println(dst)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(cfg.Files))
	}
	return nil
}

// grpcProcessor saves the bytes returned inline by the gRPC service.
type grpcProcessor struct {
	client *grpcclient.Client
}

func (g grpcProcessor) Process(ctx context.Context, path string, decompress bool, percentage, outDir string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	name := filepath.Base(path)

	var result string
	var out []byte
	if decompress {
		reply, err := g.client.Decompress(ctx, name, data)
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", name, err)
		}
		result, out = reply.DecompressedFilename, reply.Data
	} else {
		reply, err := g.client.Compress(ctx, name, data, percentage)
		if err != nil {
			return "", fmt.Errorf("compress %s: %w", name, err)
		}
		result, out = reply.CompressedFilename, reply.Artifact
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	dst := filepath.Join(outDir, filepath.Base(result))
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return dst, nil
}

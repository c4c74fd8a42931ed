// Package main is the entry point of the compression server. It wires
// configuration, logging, storage, the codec engine and the HTTP and gRPC
// transports, then runs until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"huffpress/configs"
	myCompress "huffpress/internal/compress"
	"huffpress/internal/db"
	"huffpress/internal/engine"
	"huffpress/internal/grpcserver"
	"huffpress/internal/handlers"
	"huffpress/internal/limits"
	"huffpress/internal/logger"
	"huffpress/internal/persist"
	"huffpress/internal/retry"
	"huffpress/internal/serverconfig"
	"huffpress/internal/service"
	"huffpress/internal/signature"
	"huffpress/internal/storage"
	"huffpress/internal/trustedsubnet"
)

type artifactStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
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
	fmt.Println(configs.BuildVerPrint())

	// 1. Configuration
	f := serverconfig.InitialFlags()
	if err := f.ParseFlags(); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if f.StoreInter < 0 {
		return fmt.Errorf("STORE_INTERVAL must be >= 0, got %d", f.StoreInter)
	}

	// 2. Logger
	newLogger, err := logger.CreateLoggerRequest(f.LogLevel)
	if err != nil {
		return fmt.Errorf("init request logger: %w", err)
	}
	defer newLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(err error, attempt int, delay time.Duration) {
		newLogger.Warnf("retry attempt %d failed: %v; next retry in %v", attempt, err, delay)
	}

	// 3. Storage. Artifacts live on disk when a directory is configured.
	// Job history priority: Database > File > Memory.
	mem := storage.NewMemStorage()
	var (
		artifacts artifactStore = mem
		pstore    *persist.PersistStorage
		dbStore   *db.DBStorage
	)

	if f.StorageDir != "" {
		pstore, err = retry.Do(ctx, retryCfg, func(context.Context) (*persist.PersistStorage, error) {
			return persist.NewPersistStorage(f.StorageDir, f.StoreInter)
		})
		if err != nil {
			return fmt.Errorf("init persist storage: %w", err)
		}
		artifacts = pstore
	}

	if f.DatabaseDSN != "" {
		newLogger.Infow("attempting DB connection")
		dbStore, err = retry.Do(ctx, retryCfg, func(ctx context.Context) (*db.DBStorage, error) {
			return db.CreateConnection(ctx, "postgres", f.DatabaseDSN)
		})
		if err != nil {
			return fmt.Errorf("DB conn error: %w", err)
		}
	}

	var newService *service.Service
	svcCfg := service.Config{
		CacheSize:         f.CacheSize,
		DefaultPercentage: f.DefaultPercentage,
		Logger:            newLogger.SugaredLogger,
	}

	// 4. Engine and service
	eng, err := engine.New(engine.WithLogger(newLogger.SugaredLogger), engine.WithLossless(f.LosslessCodec))
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	switch {
	case dbStore != nil:
		newService, err = service.NewService(artifacts, dbStore, eng, svcCfg)
	case pstore != nil:
		newService, err = service.NewService(artifacts, pstore, eng, svcCfg)
	default:
		newService, err = service.NewService(artifacts, mem, eng, svcCfg)
	}
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	// A database keeps the history, but the artifact directory still needs closing.
	if dbStore != nil && pstore != nil {
		defer pstore.Close()
	}

	maxUpload, err := limits.UploadLimit(f.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("upload limit: %w", err)
	}
	newLogger.Infow("server configured",
		"lossless", eng.Lossless(),
		"storage_dir", f.StorageDir,
		"database", dbStore != nil,
		"max_upload", maxUpload,
	)

	// 5. HTTP router and middleware
	newMux := chi.NewMux()
	newMux.Use(newLogger.WithLogging)
	newMux.Use(myCompress.GzipHandleWriter)
	newMux.Use(trustedsubnet.TrustedSubnetMiddleware(f.TrustedSubnet))
	if f.Key != "" && f.Key != "none" {
		newMux.Use(signature.SignatureHandler(f.Key))
	}
	newMux.Use(myCompress.GzipHandleReader)
	newMux.Mount("/debug", middleware.Profiler())

	newHandler := handlers.NewHandlerService(newService, newMux, maxUpload, newLogger.SugaredLogger)
	newHandler.CreateHandlers()

	srv := &http.Server{
		Addr:    f.GetAddr(),
		Handler: newHandler.GetRouter(),
	}

	// Bound before any task starts so a bad gRPC setup returns at once.
	gs, lis, err := listenGRPC(f.GRPCAddr, newService, newLogger.SugaredLogger, maxUpload, f.TrustedSubnet)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup

	// Task A: periodic job history flush
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := newService.LoopFlushWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
			newLogger.Errorf("flush loop: %v", err)
		}
	}()

	// Task B: HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()
		newLogger.Infoln("Starting HTTP server on", f.GetAddr())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			newLogger.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	// Task C: gRPC server
	if gs != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			newLogger.Infoln("Starting gRPC server on", f.GRPCAddr)
			if err := gs.Serve(lis); err != nil {
				newLogger.Errorf("gRPC server error: %v", err)
				cancel()
			}
		}()
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-quit:
		newLogger.Infof("Received signal %v, initiating graceful shutdown...", sig)
	case <-ctx.Done():
		newLogger.Info("Context cancelled, shutting down...")
	}

	// Step 1: stop accepting new requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		newLogger.Errorf("HTTP server shutdown error: %v", err)
	}
	if gs != nil {
		gs.GracefulStop()
	}

	// Step 2: stop background tasks
	cancel()
	wg.Wait()

	// Step 3: close storage, which flushes buffered history
	if err := newService.StorageCloser(); err != nil {
		newLogger.Errorf("Storage close error: %v", err)
	}

	newLogger.Info("Server exited successfully")
	return nil
}

// listenGRPC builds the gRPC server and binds its listener. Both are nil
// when addr is empty.
func listenGRPC(addr string, svc grpcserver.Service, log *zap.SugaredLogger, maxUpload int64, trustedSubnet string) (*grpc.Server, net.Listener, error) {
	if addr == "" {
		return nil, nil, nil
	}

	gs, err := grpcserver.NewServer(svc, log, maxUpload, trustedSubnet)
	if err != nil {
		return nil, nil, fmt.Errorf("init gRPC server: %w", err)
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		gs.Stop()
		return nil, nil, fmt.Errorf("listen gRPC: %w", err)
	}
	return gs, lis, nil
}

// Package service implements the compress/decompress use cases on top of the
// engine. It acts as an intermediary between the transports (HTTP, gRPC) and
// the storage layers (memory/file/DB).
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"huffpress/internal/api/compressdto"
	"huffpress/internal/engine"
	"huffpress/internal/huffman"
	"huffpress/internal/storage"
)

// ErrInvalidFilename is returned when nothing usable is left of a file name
// after sanitising it.
var ErrInvalidFilename = errors.New("invalid filename")

// artifactStore keeps compressed artifacts and restored files by name.
type artifactStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// jobStore keeps the job history (memory, file or DB).
type jobStore interface {
	RecordJob(ctx context.Context, job compressdto.Job) (compressdto.Job, error)
	RecentJobs(ctx context.Context, limit int) ([]compressdto.Job, error)
	Ping(ctx context.Context) error
	Close() error
}

// flusher is implemented by job stores that buffer writes.
type flusher interface {
	Flush() error
	GetLoopTime() int
}

// Service aggregates the engine, the artifact store and the job history.
type Service struct {
	artifacts         artifactStore
	jobs              jobStore
	engine            *engine.Engine
	cache             *lru.Cache[string, []byte]
	log               *zap.SugaredLogger
	defaultPercentage int
}

// Config tunes a Service.
type Config struct {
	// CacheSize is the number of artifacts kept in the read cache; 0 disables it.
	CacheSize int
	// DefaultPercentage is used when a request carries no percentage.
	DefaultPercentage int
	Logger            *zap.SugaredLogger
}

// NewService creates a new Service instance with the provided backends.
func NewService(artifacts artifactStore, jobs jobStore, eng *engine.Engine, cfg Config) (*Service, error) {
	s := &Service{
		artifacts:         artifacts,
		jobs:              jobs,
		engine:            eng,
		log:               cfg.Logger,
		defaultPercentage: cfg.DefaultPercentage,
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	if s.defaultPercentage == 0 {
		s.defaultPercentage = huffman.DefaultPercentage
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create artifact cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Upload is a file received by a transport.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Compress compresses the upload, stores the artifact as
// compressed_<name>.<format> and records the job. rawPercentage may be empty.
func (s *Service) Compress(ctx context.Context, up Upload, rawPercentage string) (compressdto.CompressResponse, error) {
	name := SecureFilename(up.Filename)
	if name == "" {
		return compressdto.CompressResponse{}, fmt.Errorf("compress %q: %w", up.Filename, ErrInvalidFilename)
	}

	percentage := s.defaultPercentage
	if strings.TrimSpace(rawPercentage) != "" {
		p, err := engine.ParsePercentage(rawPercentage)
		if err != nil {
			return compressdto.CompressResponse{}, err
		}
		percentage = p
	}

	res, err := s.engine.Compress(up.Data, percentage, contentHint(name, up.ContentType))
	if err != nil {
		return compressdto.CompressResponse{}, err
	}

	artifactName := ArtifactName(name, res.Format)
	if err := s.store(ctx, artifactName, res.Artifact); err != nil {
		return compressdto.CompressResponse{}, err
	}

	s.record(ctx, compressdto.Job{
		Operation:          compressdto.OperationCompress,
		Filename:           name,
		ResultFilename:     artifactName,
		Path:               res.Path.String(),
		Format:             res.Format.String(),
		OriginalSize:       int64(res.OriginalSize),
		ResultSize:         int64(res.CompressedSize),
		Percentage:         res.Percentage,
		AchievedPercentage: res.AchievedPercentage,
	})

	s.log.Infow("file compressed",
		"filename", name,
		"artifact", artifactName,
		"path", res.Path.String(),
		"original_size", res.OriginalSize,
		"compressed_size", res.CompressedSize,
		"ratio", res.AchievedPercentage,
	)

	return compressdto.CompressResponse{
		OriginalFilename:      name,
		CompressedFilename:    artifactName,
		OriginalSize:          int64(res.OriginalSize),
		CompressedSize:        int64(res.CompressedSize),
		CompressionPercentage: res.AchievedPercentage,
		RequestedPercentage:   res.Percentage,
		Path:                  res.Path.String(),
		Format:                res.Format.String(),
		MergedSymbols:         len(res.Filter.Dropped),
		Artifact:              res.Artifact,
	}, nil
}

// Decompress restores an uploaded artifact and stores the result under the
// original file name when it can be recovered from the artifact name.
func (s *Service) Decompress(ctx context.Context, up Upload) (compressdto.DecompressResponse, error) {
	name := SecureFilename(up.Filename)
	if name == "" {
		return compressdto.DecompressResponse{}, fmt.Errorf("decompress %q: %w", up.Filename, ErrInvalidFilename)
	}

	dec, err := s.engine.Decompress(up.Data, contentHint(name, up.ContentType))
	if err != nil {
		return compressdto.DecompressResponse{}, err
	}

	restored := RestoredName(name, dec.Format)
	if err := s.store(ctx, restored, dec.Data); err != nil {
		return compressdto.DecompressResponse{}, err
	}

	s.record(ctx, compressdto.Job{
		Operation:      compressdto.OperationDecompress,
		Filename:       name,
		ResultFilename: restored,
		Path:           dec.Path.String(),
		Format:         dec.Format.String(),
		OriginalSize:   int64(len(up.Data)),
		ResultSize:     int64(len(dec.Data)),
	})

	s.log.Infow("file decompressed", "filename", name, "restored", restored, "size", len(dec.Data))

	return compressdto.DecompressResponse{
		OriginalFilename:     name,
		DecompressedFilename: restored,
		Size:                 int64(len(dec.Data)),
		Path:                 dec.Path.String(),
		Format:               dec.Format.String(),
		Data:                 dec.Data,
	}, nil
}

// Download returns a stored file. Names are sanitised the same way uploads
// are, so a name that does not survive sanitising is never found.
func (s *Service) Download(ctx context.Context, filename string) ([]byte, error) {
	name := SecureFilename(filename)
	if name == "" || name != filename {
		return nil, fmt.Errorf("download %q: %w", filename, storage.ErrNotFound)
	}

	if s.cache != nil {
		if data, ok := s.cache.Get(name); ok {
			return data, nil
		}
	}

	data, err := s.artifacts.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", name, err)
	}
	if s.cache != nil {
		s.cache.Add(name, data)
	}
	return data, nil
}

// Remove deletes a stored file.
func (s *Service) Remove(ctx context.Context, filename string) error {
	if name := SecureFilename(filename); name == "" || name != filename {
		return fmt.Errorf("remove %q: %w", filename, storage.ErrNotFound)
	}
	if s.cache != nil {
		s.cache.Remove(filename)
	}
	if err := s.artifacts.Delete(ctx, filename); err != nil {
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}

// Files lists stored file names.
func (s *Service) Files(ctx context.Context) ([]string, error) {
	names, err := s.artifacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return names, nil
}

// Jobs returns up to limit recent jobs, newest first. limit <= 0 means all.
func (s *Service) Jobs(ctx context.Context, limit int) ([]compressdto.Job, error) {
	jobs, err := s.jobs.RecentJobs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent jobs: %w", err)
	}
	return jobs, nil
}

// Ping checks the availability of the job store (e.g., database connection).
func (s *Service) Ping(ctx context.Context) error {
	return s.jobs.Ping(ctx)
}

// StorageCloser closes the job store.
func (s *Service) StorageCloser() error {
	if s.jobs == nil {
		return nil
	}
	if err := s.jobs.Close(); err != nil {
		return fmt.Errorf("close job store: %w", err)
	}
	return nil
}

// LoopFlushWithContext periodically flushes a buffering job store until ctx
// is cancelled. It returns nil at once for stores that write through.
func (s *Service) LoopFlushWithContext(ctx context.Context) error {
	f, ok := s.jobs.(flusher)
	if !ok || f.GetLoopTime() <= 0 {
		return nil
	}

	ticker := time.NewTicker(time.Duration(f.GetLoopTime()) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.Flush(); err != nil {
				return fmt.Errorf("flush job store: %w", err)
			}
		}
	}
}

func (s *Service) store(ctx context.Context, name string, data []byte) error {
	if err := s.artifacts.Save(ctx, name, data); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	if s.cache != nil {
		s.cache.Add(name, data)
	}
	return nil
}

// record writes the job history entry. A failing history never fails the
// request that produced the file.
func (s *Service) record(ctx context.Context, job compressdto.Job) {
	if _, err := s.jobs.RecordJob(ctx, job); err != nil {
		s.log.Warnw("record job failed", "operation", job.Operation, "filename", job.Filename, "error", err)
	}
}

// contentHint prefers an explicit PDF content type and falls back to the
// file name, which DetectPath inspects for a .pdf extension.
func contentHint(name, contentType string) string {
	if engine.DetectPath(nil, contentType) == engine.PathLossless {
		return contentType
	}
	return name
}

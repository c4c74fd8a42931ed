// Package storage keeps artifacts and the job history in memory. It is the
// default backend when no storage directory or database is configured.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"huffpress/internal/api/compressdto"
)

var ErrNotFound = errors.New("resource was not found")

type MemStorage struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	jobs      []compressdto.Job
	nextID    int64
	now       func() time.Time
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		artifacts: make(map[string][]byte),
		now:       time.Now,
	}
}

// Save stores a copy of data under name, replacing any previous artifact.
func (storage *MemStorage) Save(_ context.Context, name string, data []byte) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.artifacts[name] = append([]byte(nil), data...)
	return nil
}

func (storage *MemStorage) Load(_ context.Context, name string) ([]byte, error) {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	data, ok := storage.artifacts[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (storage *MemStorage) Delete(_ context.Context, name string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	if _, ok := storage.artifacts[name]; !ok {
		return ErrNotFound
	}
	delete(storage.artifacts, name)
	return nil
}

// List returns the stored artifact names in lexical order.
func (storage *MemStorage) List(_ context.Context) ([]string, error) {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	names := make([]string, 0, len(storage.artifacts))
	for name := range storage.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// RecordJob appends job to the history, assigning its ID and, when unset,
// its creation time.
func (storage *MemStorage) RecordJob(_ context.Context, job compressdto.Job) (compressdto.Job, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.nextID++
	job.ID = storage.nextID
	if job.CreatedAt.IsZero() {
		job.CreatedAt = storage.now().UTC()
	}
	storage.jobs = append(storage.jobs, job)
	return job, nil
}

// RecentJobs returns up to limit jobs, newest first. A limit <= 0 returns
// all of them.
func (storage *MemStorage) RecentJobs(_ context.Context, limit int) ([]compressdto.Job, error) {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	n := len(storage.jobs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]compressdto.Job, 0, n)
	for i := len(storage.jobs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, storage.jobs[i])
	}
	return out, nil
}

func (storage *MemStorage) Ping(context.Context) error {
	return nil
}

func (storage *MemStorage) Close() error {
	return nil
}

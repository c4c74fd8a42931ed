// Package persist stores artifacts as files in a directory and appends the
// job history to a JSON lines file next to them.
package persist

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	easyjson "github.com/mailru/easyjson"

	"huffpress/internal/api/compressdto"
	"huffpress/internal/storage"
)

const (
	artifactDir = "artifacts"
	jobsFile    = "jobs.jsonl"
	tmpPrefix   = ".tmp-"
)

var ErrInvalidName = errors.New("invalid artifact name")

type PersistStorage struct {
	mu         sync.Mutex
	dir        string
	file       *os.File
	writer     *bufio.Writer
	lastID     int64
	storeInter int
}

// NewPersistStorage opens (creating when needed) the storage under dirPath.
// With storeInter == 0 every job is flushed to disk as it is recorded;
// otherwise the caller flushes periodically.
func NewPersistStorage(dirPath string, storeInter int) (*PersistStorage, error) {
	mode := os.FileMode(0o755)
	if err := os.MkdirAll(filepath.Join(dirPath, artifactDir), mode); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dirPath, jobsFile), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open job history: %w", err)
	}

	pstorage := &PersistStorage{
		dir:        dirPath,
		file:       file,
		writer:     bufio.NewWriter(file),
		storeInter: storeInter,
	}

	jobs, err := pstorage.importJobs()
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	for _, job := range jobs {
		pstorage.lastID = max(pstorage.lastID, job.ID)
	}
	return pstorage, nil
}

func (pstorage *PersistStorage) artifactPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." ||
		strings.HasPrefix(name, tmpPrefix) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(pstorage.dir, artifactDir, name), nil
}

// Save writes data to a temporary file and renames it over name, so readers
// never observe a partial artifact.
func (pstorage *PersistStorage) Save(_ context.Context, name string, data []byte) error {
	path, err := pstorage.artifactPath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (pstorage *PersistStorage) Load(_ context.Context, name string) ([]byte, error) {
	path, err := pstorage.artifactPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

func (pstorage *PersistStorage) Delete(_ context.Context, name string) error {
	path, err := pstorage.artifactPath(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, storage.ErrNotFound)
	}
	return err
}

func (pstorage *PersistStorage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(pstorage.dir, artifactDir))
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), tmpPrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RecordJob appends job as one JSON line.
func (pstorage *PersistStorage) RecordJob(_ context.Context, job compressdto.Job) (compressdto.Job, error) {
	pstorage.mu.Lock()
	defer pstorage.mu.Unlock()

	job.ID = pstorage.lastID + 1
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	line, err := easyjson.Marshal(job)
	if err != nil {
		return job, fmt.Errorf("encode job: %w", err)
	}
	if _, err := pstorage.writer.Write(line); err != nil {
		return job, err
	}
	if err := pstorage.writer.WriteByte('\n'); err != nil {
		return job, err
	}
	if pstorage.storeInter == 0 {
		if err := pstorage.writer.Flush(); err != nil {
			return job, err
		}
	}

	pstorage.lastID = job.ID
	return job, nil
}

// RecentJobs flushes pending jobs and returns up to limit of them, newest
// first.
func (pstorage *PersistStorage) RecentJobs(_ context.Context, limit int) ([]compressdto.Job, error) {
	pstorage.mu.Lock()
	defer pstorage.mu.Unlock()

	if err := pstorage.writer.Flush(); err != nil {
		return nil, err
	}
	jobs, err := pstorage.importJobs()
	if err != nil {
		return nil, err
	}

	n := len(jobs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]compressdto.Job, 0, n)
	for i := len(jobs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, jobs[i])
	}
	return out, nil
}

func (pstorage *PersistStorage) importJobs() ([]compressdto.Job, error) {
	if _, err := pstorage.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var jobs []compressdto.Job
	scanner := bufio.NewScanner(pstorage.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var job compressdto.Job
		if err := easyjson.Unmarshal(line, &job); err != nil {
			out := string(line)
			if len(out) > 256 {
				out = out[:256]
			}
			return nil, fmt.Errorf("decode job history line %d: %w\npayload: %q", lineNo, err, out)
		}
		jobs = append(jobs, job)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read job history: %w", err)
	}
	return jobs, nil
}

func (pstorage *PersistStorage) Ping(context.Context) error {
	if _, err := pstorage.file.Stat(); err != nil {
		return err
	}
	_, err := os.Stat(filepath.Join(pstorage.dir, artifactDir))
	return err
}

func (pstorage *PersistStorage) GetLoopTime() int {
	return pstorage.storeInter
}

func (pstorage *PersistStorage) Flush() error {
	pstorage.mu.Lock()
	defer pstorage.mu.Unlock()
	return pstorage.writer.Flush()
}

func (pstorage *PersistStorage) Close() error {
	if pstorage == nil {
		return nil
	}

	pstorage.mu.Lock()
	defer pstorage.mu.Unlock()

	var errFlush error
	if pstorage.writer != nil {
		errFlush = pstorage.writer.Flush()
	}
	if pstorage.file == nil {
		return errFlush
	}
	return errors.Join(errFlush, pstorage.file.Close())
}

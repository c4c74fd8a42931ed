// Package limits derives the largest upload the server accepts.
package limits

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

const (
	// MinUpload is the floor applied to a limit derived from host memory.
	MinUpload int64 = 1 << 20
	// MaxUpload caps a limit derived from host memory.
	MaxUpload int64 = 1 << 30

	// memoryShare is the fraction (1/memoryShare) of available memory one
	// upload may take; the engine holds several copies of it at once.
	memoryShare = 8
)

// availableMemory is replaced in tests.
var availableMemory = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// UploadLimit returns configured when it is positive. Otherwise the limit is
// an eighth of the available memory, kept within [MinUpload, MaxUpload].
func UploadLimit(configured int64) (int64, error) {
	if configured > 0 {
		return configured, nil
	}

	avail, err := availableMemory()
	if err != nil {
		return 0, fmt.Errorf("read available memory: %w", err)
	}
	return FromAvailable(avail), nil
}

// FromAvailable applies the memory share and bounds to avail bytes.
func FromAvailable(avail uint64) int64 {
	limit := avail / memoryShare
	switch {
	case limit < uint64(MinUpload):
		return MinUpload
	case limit > uint64(MaxUpload):
		return MaxUpload
	default:
		return int64(limit)
	}
}

// Package compressdto holds the JSON bodies of the HTTP API and the job
// history record shared by the storage backends.
package compressdto

import "time"

//go:generate easyjson -all .

// Operation names stored in the job history.
const (
	OperationCompress   = "compress"
	OperationDecompress = "decompress"
)

//easyjson:json
type CompressResponse struct {
	OriginalFilename      string  `json:"original_filename"`
	CompressedFilename    string  `json:"compressed_filename"`
	OriginalSize          int64   `json:"original_size"`
	CompressedSize        int64   `json:"compressed_size"`
	CompressionPercentage float64 `json:"compression_percentage"` // achieved, may be negative
	RequestedPercentage   int     `json:"requested_percentage"`   // after clamping
	Path                  string  `json:"path"`                   // "huffman" | "lossless"
	Format                string  `json:"format"`
	MergedSymbols         int     `json:"merged_symbols"`

	// Artifact is the stored container, for transports that return it inline.
	Artifact []byte `json:"-"`
}

//easyjson:json
type DecompressResponse struct {
	OriginalFilename     string `json:"original_filename"` // uploaded artifact
	DecompressedFilename string `json:"decompressed_filename"`
	Size                 int64  `json:"size"`
	Path                 string `json:"path"`
	Format               string `json:"format"`

	// Data is the restored file, for transports that return it inline.
	Data []byte `json:"-"`
}

//easyjson:json
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Job is one entry of the job history.
//
//easyjson:json
type Job struct {
	ID                 int64     `json:"id"`
	Operation          string    `json:"operation"`
	Filename           string    `json:"filename"`
	ResultFilename     string    `json:"result_filename"`
	Path               string    `json:"path"`
	Format             string    `json:"format"`
	OriginalSize       int64     `json:"original_size"`
	ResultSize         int64     `json:"result_size"`
	Percentage         int       `json:"percentage"`
	AchievedPercentage float64   `json:"achieved_percentage"`
	CreatedAt          time.Time `json:"created_at"`
}

//easyjson:json
type JobList struct {
	Jobs []Job `json:"jobs"`
}

//easyjson:json
type FileList struct {
	Files []string `json:"files"`
}

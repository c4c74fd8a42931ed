package compressdto

import (
	"encoding/json"
	"testing"
	"time"

	easyjson "github.com/mailru/easyjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressResponseFieldNames(t *testing.T) {
	b, err := easyjson.Marshal(CompressResponse{
		OriginalFilename:      "notes.txt",
		CompressedFilename:    "compressed_notes.txt.huffman",
		OriginalSize:          10,
		CompressedSize:        24,
		CompressionPercentage: -140,
		RequestedPercentage:   50,
		Path:                  "huffman",
		Format:                "huffman",
		MergedSymbols:         1,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"original_filename": "notes.txt",
		"compressed_filename": "compressed_notes.txt.huffman",
		"original_size": 10,
		"compressed_size": 24,
		"compression_percentage": -140,
		"requested_percentage": 50,
		"path": "huffman",
		"format": "huffman",
		"merged_symbols": 1
	}`, string(b))
}

func TestErrorResponseOmitsEmptyKind(t *testing.T) {
	b, err := easyjson.Marshal(ErrorResponse{Error: "No file uploaded"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, string(b))

	b, err = easyjson.Marshal(ErrorResponse{Error: "bad", Kind: "truncated_stream"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"bad","kind":"truncated_stream"}`, string(b))
}

func TestJobListDecodesWithStandardLibrary(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	in := JobList{Jobs: []Job{{
		ID:                 7,
		Operation:          OperationCompress,
		Filename:           "a.pdf",
		ResultFilename:     "compressed_a.pdf.deflate",
		Path:               "lossless",
		Format:             "deflate",
		OriginalSize:       2048,
		ResultSize:         1024,
		Percentage:         50,
		AchievedPercentage: 50,
		CreatedAt:          created,
	}}}

	b, err := easyjson.Marshal(in)
	require.NoError(t, err)

	var out JobList
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out.Jobs, 1)
	assert.True(t, created.Equal(out.Jobs[0].CreatedAt))
	assert.Equal(t, in.Jobs[0].ResultFilename, out.Jobs[0].ResultFilename)

	var empty JobList
	require.NoError(t, easyjson.Unmarshal([]byte(`{"jobs":[],"extra":{"x":1}}`), &empty))
	assert.NotNil(t, empty.Jobs)
	assert.Empty(t, empty.Jobs)
}

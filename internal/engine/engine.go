// Package engine drives the two compression paths: a lossy, percentage
// filtered Huffman coder for generic content and a lossless transform for
// PDF content. Both produce a self-describing container artifact.
//
// An Engine holds only immutable options and is safe for concurrent use.
// Every call works on its own buffers and keeps no references to them.
package engine

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"huffpress/internal/codecerr"
	"huffpress/internal/container"
	"huffpress/internal/huffman"
	"huffpress/internal/lossless"
)

// AutoLossless makes the lossless path try every transform and keep the
// smallest payload.
const AutoLossless = "auto"

// Engine compresses and decompresses in-memory buffers.
type Engine struct {
	log       *zap.SugaredLogger
	lossless  []lossless.Transform
	preferred string
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger used for pipeline transitions. A nil logger
// keeps the default no-op logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) error {
		if log != nil {
			e.log = log
		}
		return nil
	}
}

// WithLossless selects the transform of the lossless path by name
// (deflate, zstd, brotli, lz4, snappy) or AutoLossless.
func WithLossless(name string) Option {
	return func(e *Engine) error {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == AutoLossless {
			e.lossless = e.lossless[:0]
			for _, n := range lossless.Names() {
				t, err := lossless.ByName(n)
				if err != nil {
					return err
				}
				e.lossless = append(e.lossless, t)
			}
			e.preferred = AutoLossless
			return nil
		}

		t, err := lossless.ByName(name)
		if err != nil {
			return fmt.Errorf("with lossless: %w", err)
		}
		e.lossless = []lossless.Transform{t}
		e.preferred = t.Format().String()
		return nil
	}
}

// New creates an Engine. Without options it logs nothing and uses deflate
// for the lossless path.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{log: zap.NewNop().Sugar()}
	if err := WithLossless(lossless.DefaultName)(e); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Lossless returns the name of the configured lossless transform.
func (e *Engine) Lossless() string {
	return e.preferred
}

// Result describes a compressed artifact.
type Result struct {
	Artifact       []byte
	OriginalSize   int
	CompressedSize int
	// AchievedPercentage is (1 - compressed/original) * 100 rounded to two
	// decimals. It is negative when the artifact is larger than the input.
	AchievedPercentage float64
	// Percentage is the clamped percentage the call ran with.
	Percentage int
	Path       Path
	Format     container.Format
	// Filter is empty for the lossless path.
	Filter huffman.FilterReport
}

// Decoded is the output of Decompress.
type Decoded struct {
	Data   []byte
	Path   Path
	Format container.Format
}

// Compress encodes data into an artifact. The path is chosen once from the
// content and the hint (a MIME type or a file name). The percentage is
// clamped to [10, 90]. Any failure is returned as a *codecerr.Error and no
// artifact is produced.
func (e *Engine) Compress(data []byte, percentage int, contentHint string) (*Result, error) {
	r := newRun("compress", e.log)

	if len(data) == 0 {
		return nil, r.fail(fmt.Errorf("compress: %w", codecerr.ErrEmptyInput))
	}

	r.enter(StateAnalyzingContent)
	p := huffman.ClampPercentage(percentage)
	path := DetectPath(data, contentHint)
	e.log.Debugw("content analyzed", "size", len(data), "hint", contentHint, "path", path, "percentage", p)

	var (
		c      *container.Container
		report huffman.FilterReport
		err    error
	)
	switch path {
	case PathLossless:
		r.enter(StateLossless)
		c, err = e.compressLossless(data, p)
	default:
		r.enter(StateLossyHuffman)
		c, report, err = compressHuffman(data, p)
	}
	if err != nil {
		return nil, r.fail(err)
	}

	artifact, err := container.Encode(c)
	if err != nil {
		return nil, r.fail(err)
	}
	r.enter(StatePackaged)

	res := &Result{
		Artifact:           artifact,
		OriginalSize:       len(data),
		CompressedSize:     len(artifact),
		AchievedPercentage: achieved(len(data), len(artifact)),
		Percentage:         p,
		Path:               path,
		Format:             c.Format,
		Filter:             report,
	}
	e.log.Debugw("artifact packaged",
		"format", res.Format,
		"original_size", res.OriginalSize,
		"compressed_size", res.CompressedSize,
		"achieved_percentage", res.AchievedPercentage,
		"merged_symbols", len(report.Dropped),
	)

	r.enter(StateDone)
	return res, nil
}

func compressHuffman(data []byte, percentage int) (*container.Container, huffman.FilterReport, error) {
	reduced, report := huffman.Filter(huffman.Analyze(data), percentage)

	tree, err := huffman.BuildTree(reduced)
	if err != nil {
		return nil, report, err
	}
	ct, err := huffman.NewCodeTable(tree)
	if err != nil {
		return nil, report, err
	}

	payload, padding, err := huffman.Pack(huffman.Substitute(data, report), ct)
	if err != nil {
		return nil, report, err
	}

	return &container.Container{
		Format:         container.FormatHuffman,
		OriginalLength: uint64(len(data)),
		Padding:        padding,
		Table:          ct,
		Payload:        payload,
	}, report, nil
}

func (e *Engine) compressLossless(data []byte, percentage int) (*container.Container, error) {
	var best *container.Container
	for _, t := range e.lossless {
		payload, err := t.Encode(data, percentage)
		if err != nil {
			return nil, err
		}
		e.log.Debugw("lossless candidate", "format", t.Format(), "size", len(payload))

		if best == nil || len(payload) < len(best.Payload) {
			best = &container.Container{
				Format:         t.Format(),
				OriginalLength: uint64(len(data)),
				Payload:        payload,
			}
		}
	}
	return best, nil
}

// Decompress decodes an artifact produced by Compress. The container tag
// selects the decoder; the hint is only logged.
func (e *Engine) Decompress(artifact []byte, contentHint string) (*Decoded, error) {
	r := newRun("decompress", e.log)

	r.enter(StateAnalyzingContent)
	c, err := container.Decode(artifact)
	if err != nil {
		return nil, r.fail(err)
	}
	e.log.Debugw("container parsed",
		"format", c.Format,
		"original_length", c.OriginalLength,
		"payload", len(c.Payload),
		"hint", contentHint,
	)

	out := &Decoded{Format: c.Format}
	if c.Format == container.FormatHuffman {
		r.enter(StateLossyHuffman)
		out.Path = PathLossyHuffman
		out.Data, err = huffman.Unpack(c.Payload, c.Table.Trie(), c.OriginalLength)
	} else {
		r.enter(StateLossless)
		out.Path = PathLossless
		t, ok := lossless.ForFormat(c.Format)
		if !ok {
			return nil, r.fail(fmt.Errorf("decompress: no transform for %v: %w", c.Format, codecerr.ErrMalformedContainer))
		}
		out.Data, err = t.Decode(c.Payload, c.OriginalLength)
	}
	if err != nil {
		return nil, r.fail(err)
	}
	r.enter(StatePackaged)

	r.enter(StateDone)
	return out, nil
}

func achieved(original, compressed int) float64 {
	ratio := (1 - float64(compressed)/float64(original)) * 100
	return math.Round(ratio*100) / 100
}

package engine

import (
	"go.uber.org/zap"

	"huffpress/internal/codecerr"
)

// State is a pipeline stage. A call moves Idle -> AnalyzingContent -> one of
// LossyHuffman or Lossless -> Packaged -> Done, or ends in Failed.
type State int

const (
	StateIdle State = iota
	StateAnalyzingContent
	StateLossyHuffman
	StateLossless
	StatePackaged
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzingContent:
		return "analyzing_content"
	case StateLossyHuffman:
		return "lossy_huffman"
	case StateLossless:
		return "lossless"
	case StatePackaged:
		return "packaged"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// run tracks the state of a single Compress or Decompress call.
type run struct {
	op    string
	state State
	log   *zap.SugaredLogger
}

func newRun(op string, log *zap.SugaredLogger) *run {
	return &run{op: op, state: StateIdle, log: log}
}

func (r *run) enter(s State) {
	r.log.Debugw("pipeline transition", "op", r.op, "from", r.state, "to", s)
	r.state = s
}

// fail moves the run to Failed and classifies err.
func (r *run) fail(err error) *codecerr.Error {
	failedIn := r.state
	r.enter(StateFailed)

	kind := codecerr.KindOf(err)
	r.log.Debugw("pipeline failed", "op", r.op, "state", failedIn, "kind", kind, "error", err)
	return codecerr.New(kind, r.op, err)
}

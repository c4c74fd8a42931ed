package engine

import "errors"

var ErrNotReady = errors.New("not ready")

var errClosed = errors.New("closed")

var defaultLevel = 5 // want "package-level variable defaultLevel in codec package engine"

var (
	cache   = map[string][]byte{} // want "package-level variable cache in codec package engine"
	ErrCode = 3                   // want "package-level variable ErrCode in codec package engine"
)

type Engine struct{ level int }

var _ = Engine{}

func New() *Engine {
	var local = defaultLevel
	_ = errClosed
	_ = cache
	_ = ErrCode
	return &Engine{level: local}
}

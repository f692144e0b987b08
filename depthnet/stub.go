//go:build !cgo
// +build !cgo

// This is a stub file for non-CGO builds where ONNX Runtime is not available.
package depthnet

import (
	"context"
	"errors"
)

// ErrCGORequired is returned when depth inference is attempted without CGO support.
var ErrCGORequired = errors.New("depthnet requires CGO support; rebuild with CGO_ENABLED=1")

// Engine runs depth inference against a loaded ONNX model.
type Engine struct {
	opts Options
}

// New returns an engine for the given options.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Load returns an error indicating CGO is required.
func (e *Engine) Load(ctx context.Context) error {
	return ErrCGORequired
}

// Close is a no-op in non-CGO builds.
func (e *Engine) Close() error { return nil }

// Infer returns an error indicating CGO is required.
func (e *Engine) Infer(ctx context.Context, tensor []float32) ([]float32, error) {
	return nil, ErrCGORequired
}

// InputWidth returns the fixed network input width.
func (e *Engine) InputWidth() int { return e.opts.InputWidth }

// InputHeight returns the fixed network input height.
func (e *Engine) InputHeight() int { return e.opts.InputHeight }

// Options returns a copy of the engine's configuration.
func (e *Engine) Options() Options { return e.opts }

// Backend reports the configured execution provider.
func (e *Engine) Backend() string {
	if e.opts.Backend == "" {
		return "cpu"
	}
	return e.opts.Backend
}

//go:build cgo
// +build cgo

package depthnet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	ort "github.com/yalue/onnxruntime_go"
)

// Engine runs depth inference against a loaded ONNX model. Load must be
// called before Infer; Close releases the runtime environment. The engine is
// safe to reuse across frames but not across concurrent runs.
type Engine struct {
	opts   Options
	loaded bool
}

// New returns an engine for the given options. No runtime state is touched
// until Load.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Load initializes the ONNX runtime environment and verifies the model file
// exists. Safe to call again after Close.
func (e *Engine) Load(ctx context.Context) error {
	if e.loaded {
		return nil
	}
	if e.opts.ModelPath == "" {
		return errors.New("depth model path not configured")
	}
	if _, err := os.Stat(e.opts.ModelPath); err != nil {
		return fmt.Errorf("depth model not found: %w", err)
	}
	if e.opts.InputWidth <= 0 || e.opts.InputHeight <= 0 {
		return fmt.Errorf("invalid network input size %dx%d", e.opts.InputWidth, e.opts.InputHeight)
	}

	if e.opts.ORTSharedLibraryPath != "" {
		ort.SetSharedLibraryPath(e.opts.ORTSharedLibraryPath)
	} else if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	e.loaded = true
	log.Printf("depthnet: loaded %s (input %q, output %q, %dx%d, backend %s)",
		e.opts.ModelPath, e.opts.InputName, e.opts.OutputName,
		e.opts.InputWidth, e.opts.InputHeight, e.Backend())
	return nil
}

// Close destroys the runtime environment.
func (e *Engine) Close() error {
	if !e.loaded {
		return nil
	}
	e.loaded = false
	return ort.DestroyEnvironment()
}

// Infer runs the network on a standardized planar tensor of shape
// (3, InputHeight, InputWidth) and returns the raw single-channel depth
// buffer of length InputWidth*InputHeight.
func (e *Engine) Infer(ctx context.Context, tensor []float32) ([]float32, error) {
	if !e.loaded {
		return nil, errors.New("depth engine not loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := e.opts.InputWidth
	h := e.opts.InputHeight
	if len(tensor) != 3*w*h {
		return nil, fmt.Errorf("tensor length %d, want %d", len(tensor), 3*w*h)
	}

	inShape := ort.NewShape(1, 3, int64(h), int64(w))
	input, err := ort.NewTensor(inShape, tensor)
	if err != nil {
		return nil, err
	}
	defer input.Destroy()

	outShape := ort.NewShape(1, int64(h), int64(w))
	output, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, err
	}
	defer output.Destroy()

	session, err := ort.NewAdvancedSession(
		e.opts.ModelPath,
		[]string{e.opts.InputName},
		[]string{e.opts.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		return nil, err
	}
	defer session.Destroy()

	if err := session.Run(); err != nil {
		return nil, err
	}

	// The output buffer is freed on Destroy; hand back a copy.
	data := output.GetData()
	depth := make([]float32, len(data))
	copy(depth, data)
	return depth, nil
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

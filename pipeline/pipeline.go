// Package pipeline orchestrates monoscopic to side-by-side stereoscopic
// video conversion: frame extraction, per-frame depth inference, right-eye
// synthesis, and final stacked re-encoding.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stevecastle/parallax/depthnet"
	"github.com/stevecastle/parallax/framestore"
	"github.com/stevecastle/parallax/runlog"
	"github.com/stevecastle/parallax/warp"
)

// FrameCodec is the video decode/encode collaborator.
type FrameCodec interface {
	Load(ctx context.Context) error
	ExtractFrames(ctx context.Context, src, framesDir string, fps, maxWidth int) error
	EncodeStacked(ctx context.Context, leftDir, rightDir string, fps int, outPath string) error
}

// DepthEstimator is the depth-inference collaborator. Infer accepts a
// standardized planar tensor and returns a raw depth buffer whose length must
// equal the network resolution's pixel count.
type DepthEstimator interface {
	Load(ctx context.Context) error
	Infer(ctx context.Context, tensor []float32) ([]float32, error)
	Options() depthnet.Options
	Backend() string
}

// Sink receives progress, status, and log lines for one run. Calls are
// fire-and-forget; implementations must not block the pipeline.
type Sink interface {
	Progress(fraction float64)
	Status(text string)
	Log(line string)
}

// NopSink discards all reports.
type NopSink struct{}

func (NopSink) Progress(float64) {}
func (NopSink) Status(string)    {}
func (NopSink) Log(string)       {}

// Options wires an Orchestrator's collaborators.
type Options struct {
	Codec FrameCodec
	Depth DepthEstimator
	Store *framestore.Store
	Sink  Sink
	// History records run outcomes; optional.
	History *runlog.Store
	// WarpWorkers bounds per-frame warp parallelism; 0 means GOMAXPROCS.
	WarpWorkers int
}

// Result is the artifact of a completed run.
type Result struct {
	RunID           string
	OutputPath      string
	Video           []byte
	FramesProcessed int
}

// Orchestrator sequences one conversion run at a time through
// Idle -> LoadingEngines -> ExtractingFrames -> ProcessingFrames ->
// EncodingOutput -> Complete, with Failed reachable from any non-terminal
// state. At most one run is active; Run returns ErrRunActive otherwise.
type Orchestrator struct {
	codec       FrameCodec
	depth       DepthEstimator
	store       *framestore.Store
	sink        Sink
	history     *runlog.Store
	warpWorkers int

	mu      sync.Mutex
	state   State
	running bool
}

// New creates an orchestrator. Codec, Depth, and Store are required; a nil
// Sink is replaced with NopSink.
func New(opts Options) *Orchestrator {
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}
	return &Orchestrator{
		codec:       opts.Codec,
		depth:       opts.Depth,
		store:       opts.Store,
		sink:        sink,
		history:     opts.History,
		warpWorkers: opts.WarpWorkers,
	}
}

// State returns the current run state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run executes one full conversion of the video at sourcePath. The artifact
// is returned in the Result and also left at the store's output path; the
// caller owns delivery. Any collaborator error fails the run; a new run may
// be started afterward.
func (o *Orchestrator) Run(ctx context.Context, sourcePath string, cfg Config) (*Result, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrRunActive
	}
	o.running = true
	o.state = StateIdle
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	cfg = cfg.Clamped()
	runID := uuid.New().String()
	o.recordStart(runID, sourcePath, cfg)
	o.sink.Log(fmt.Sprintf("run %s: %s", runID, sourcePath))

	// LoadingEngines
	o.setState(StateLoadingEngines)
	o.sink.Status("loading engines")
	if err := o.codec.Load(ctx); err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrEngineLoad, err))
	}
	if err := o.depth.Load(ctx); err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrEngineLoad, err))
	}
	o.sink.Log(fmt.Sprintf("depth backend: %s", o.depth.Backend()))
	o.sink.Progress(0.05)

	// ExtractingFrames. The pre-run reset is best-effort for deletions; only
	// workspace creation can fail it.
	o.setState(StateExtractingFrames)
	o.sink.Status("extracting frames")
	if err := o.store.Reset(); err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrIO, err))
	}
	if err := o.codec.ExtractFrames(ctx, sourcePath, o.store.FramesDir(), cfg.TargetFPS, cfg.MaxFrameWidth); err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrDecode, err))
	}
	o.sink.Progress(0.10)

	// ProcessingFrames
	o.setState(StateProcessingFrames)
	frames, err := o.store.ListFrames()
	if err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrIO, err))
	}
	if len(frames) == 0 {
		return nil, o.fail(runID, fmt.Errorf("%w: no frames extracted", ErrDecode))
	}
	if len(frames) > cfg.MaxFrames {
		frames = frames[:cfg.MaxFrames]
	}

	netOpts := o.depth.Options()
	netW, netH := netOpts.InputWidth, netOpts.InputHeight
	wantLen := netW * netH
	n := len(frames)
	for i, fr := range frames {
		img, err := o.store.ReadFrame(fr.Name)
		if err != nil {
			return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrIO, err))
		}
		tensor, err := depthnet.Preprocess(img, netOpts)
		if err != nil {
			return nil, o.fail(runID, err)
		}
		raw, err := o.depth.Infer(ctx, tensor)
		if err != nil {
			return nil, o.fail(runID, err)
		}
		if len(raw) != wantLen {
			return nil, o.fail(runID, fmt.Errorf("%w: got %d, want %d", ErrInferenceShape, len(raw), wantLen))
		}
		depth := depthnet.Smooth3x3(depthnet.Normalize(raw), netW, netH)
		right := warp.SynthesizeRight(img, depth, netW, netH, warp.Options{
			StrengthPx: float64(cfg.DisparityStrengthPx),
			Workers:    o.warpWorkers,
		})
		if err := o.store.WriteLeft(fr.Name, img); err != nil {
			return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrIO, err))
		}
		if err := o.store.WriteRight(fr.Name, right); err != nil {
			return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrIO, err))
		}
		done := i + 1
		o.sink.Progress(0.10 + 0.70*float64(done)/float64(n))
		o.sink.Status(fmt.Sprintf("frame %d/%d", done, n))
	}

	// EncodingOutput
	o.setState(StateEncodingOutput)
	o.sink.Status("encoding output")
	if err := o.codec.EncodeStacked(ctx, o.store.LeftDir(), o.store.RightDir(), cfg.TargetFPS, o.store.OutputPath()); err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrEncode, err))
	}

	video, err := o.store.ReadOutput()
	if err != nil {
		return nil, o.fail(runID, fmt.Errorf("%w: %v", ErrIO, err))
	}

	o.setState(StateComplete)
	o.sink.Progress(1.0)
	o.sink.Status("complete")
	o.recordFinish(runID, StateComplete, nil)
	return &Result{
		RunID:           runID,
		OutputPath:      o.store.OutputPath(),
		Video:           video,
		FramesProcessed: n,
	}, nil
}

// fail transitions to Failed, reports the failure through the sink, records
// it, and returns the error for the caller.
func (o *Orchestrator) fail(runID string, err error) error {
	o.setState(StateFailed)
	o.sink.Status("conversion failed")
	o.sink.Log(err.Error())
	o.recordFinish(runID, StateFailed, err)
	return err
}

func (o *Orchestrator) recordStart(runID, sourcePath string, cfg Config) {
	if o.history == nil {
		return
	}
	cfgJSON, _ := json.Marshal(cfg)
	err := o.history.Start(runlog.Run{
		ID:        runID,
		Source:    sourcePath,
		Config:    string(cfgJSON),
		State:     StateIdle.String(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		// History is advisory; never fail a run over it.
		log.Printf("pipeline: record run start: %v", err)
	}
}

func (o *Orchestrator) recordFinish(runID string, s State, runErr error) {
	if o.history == nil {
		return
	}
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	if err := o.history.Finish(runID, s.String(), msg); err != nil {
		log.Printf("pipeline: record run finish: %v", err)
	}
}

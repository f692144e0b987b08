package pipeline

import "errors"

// Error taxonomy for a conversion run. Every error aborts the run
// immediately and transitions the orchestrator to Failed; classify with
// errors.Is. Cleanup errors during the pre-run workspace reset are the only
// suppressed failures.
var (
	// ErrEngineLoad indicates a collaborator failed to initialize.
	ErrEngineLoad = errors.New("engine load failed")
	// ErrDecode indicates frame extraction exited non-zero or produced nothing.
	ErrDecode = errors.New("frame extraction failed")
	// ErrInferenceShape indicates the depth buffer length did not match the
	// network resolution.
	ErrInferenceShape = errors.New("unexpected depth buffer length")
	// ErrEncode indicates the stacked re-encode exited non-zero.
	ErrEncode = errors.New("stereo encode failed")
	// ErrIO indicates an intermediate storage read/write failed.
	ErrIO = errors.New("intermediate storage failure")

	// ErrRunActive is returned when a run is started while another run is
	// still processing or encoding.
	ErrRunActive = errors.New("a conversion run is already active")
)

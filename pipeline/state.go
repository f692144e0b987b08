package pipeline

import "encoding/json"

// State represents the current phase of a conversion run.
type State int

const (
	StateIdle State = iota
	StateLoadingEngines
	StateExtractingFrames
	StateProcessingFrames
	StateEncodingOutput
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoadingEngines:
		return "LoadingEngines"
	case StateExtractingFrames:
		return "ExtractingFrames"
	case StateProcessingFrames:
		return "ProcessingFrames"
	case StateEncodingOutput:
		return "EncodingOutput"
	case StateComplete:
		return "Complete"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// MarshalJSON serializes State as a lowercase string for JSON.
func (s State) MarshalJSON() ([]byte, error) {
	var str string
	switch s {
	case StateIdle:
		str = "idle"
	case StateLoadingEngines:
		str = "loading_engines"
	case StateExtractingFrames:
		str = "extracting_frames"
	case StateProcessingFrames:
		str = "processing_frames"
	case StateEncodingOutput:
		str = "encoding_output"
	case StateComplete:
		str = "complete"
	case StateFailed:
		str = "failed"
	default:
		str = "unknown"
	}
	return json.Marshal(str)
}

// UnmarshalJSON deserializes State from a string.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	switch str {
	case "loading_engines":
		*s = StateLoadingEngines
	case "extracting_frames":
		*s = StateExtractingFrames
	case "processing_frames":
		*s = StateProcessingFrames
	case "encoding_output":
		*s = StateEncodingOutput
	case "complete":
		*s = StateComplete
	case "failed":
		*s = StateFailed
	default:
		*s = StateIdle
	}
	return nil
}

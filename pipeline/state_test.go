package pipeline

import (
	"encoding/json"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateLoadingEngines, "LoadingEngines"},
		{StateExtractingFrames, "ExtractingFrames"},
		{StateProcessingFrames, "ProcessingFrames"},
		{StateEncodingOutput, "EncodingOutput"},
		{StateComplete, "Complete"},
		{StateFailed, "Failed"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q; want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, `"idle"`},
		{StateLoadingEngines, `"loading_engines"`},
		{StateExtractingFrames, `"extracting_frames"`},
		{StateProcessingFrames, `"processing_frames"`},
		{StateEncodingOutput, `"encoding_output"`},
		{StateComplete, `"complete"`},
		{StateFailed, `"failed"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.state)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", tt.state, err)
		}
		if string(data) != tt.want {
			t.Errorf("Marshal(%v) = %s; want %s", tt.state, data, tt.want)
		}
		var back State
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if back != tt.state {
			t.Errorf("round trip of %v = %v", tt.state, back)
		}
	}
}

func TestStateUnmarshalUnknown(t *testing.T) {
	var s State
	if err := json.Unmarshal([]byte(`"bogus"`), &s); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if s != StateIdle {
		t.Errorf("unknown state decoded to %v; want %v", s, StateIdle)
	}
}

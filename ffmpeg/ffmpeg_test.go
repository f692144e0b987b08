package ffmpeg

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "release build",
			output: "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers",
			want:   "6.1.1",
		},
		{
			name:   "git build",
			output: "ffmpeg version n7.0-dev-123-gabcdef Copyright (c) 2000-2024",
			want:   "n7.0-dev-123-gabcdef",
		},
		{
			name:   "garbage",
			output: "command not found",
			want:   "unknown",
		},
		{
			name:   "empty",
			output: "",
			want:   "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseVersion(tt.output); got != tt.want {
				t.Errorf("parseVersion(%q) = %q; want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestExtractArgs(t *testing.T) {
	got := extractArgs("in.mp4", "/work/frames", 10, 960)
	want := []string{
		"-y",
		"-i", "in.mp4",
		"-vf", "fps=10,scale=w=min(960\\,iw):h=-2",
		filepath.Join("/work/frames", "%05d.png"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractArgs() = %v; want %v", got, want)
	}
}

func TestStackArgs(t *testing.T) {
	got := stackArgs("/work/L", "/work/R", 8, "/work/out.mp4")
	want := []string{
		"-y",
		"-framerate", "8",
		"-i", filepath.Join("/work/L", "%05d.png"),
		"-framerate", "8",
		"-i", filepath.Join("/work/R", "%05d.png"),
		"-filter_complex", "hstack=inputs=2",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"/work/out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stackArgs() = %v; want %v", got, want)
	}
}

func TestRunRequiresLoad(t *testing.T) {
	e := &Engine{}
	if err := e.ExtractFrames(context.Background(), "in.mp4", "/tmp/frames", 10, 960); err == nil {
		t.Error("ExtractFrames before Load succeeded; want error")
	}
}

func TestLoadMissingOverride(t *testing.T) {
	e := &Engine{PathOverride: filepath.Join(t.TempDir(), "no-such-ffmpeg")}
	if err := e.Load(context.Background()); err == nil {
		t.Error("Load with missing binary succeeded; want error")
	}
}

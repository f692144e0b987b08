package depthnet

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNetworkConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"input_name": "pixel_values",
		"output_name": "predicted_depth",
		"input_size": [3, 384, 384],
		"mean": [0.5, 0.5, 0.5],
		"std": [0.5, 0.5, 0.5],
		"interpolation": "bicubic"
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	nc, err := LoadNetworkConfig(path)
	if err != nil {
		t.Fatalf("LoadNetworkConfig() error = %v", err)
	}

	opts := DefaultOptions()
	nc.ApplyToOptions(&opts)

	if opts.InputName != "pixel_values" {
		t.Errorf("InputName = %q; want %q", opts.InputName, "pixel_values")
	}
	if opts.OutputName != "predicted_depth" {
		t.Errorf("OutputName = %q; want %q", opts.OutputName, "predicted_depth")
	}
	if opts.InputWidth != 384 || opts.InputHeight != 384 {
		t.Errorf("input size = %dx%d; want 384x384", opts.InputWidth, opts.InputHeight)
	}
	if opts.NormalizeMeanRGB != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("mean = %v; want [0.5 0.5 0.5]", opts.NormalizeMeanRGB)
	}
	if opts.Interpolation != "bicubic" {
		t.Errorf("Interpolation = %q; want %q", opts.Interpolation, "bicubic")
	}
}

func TestApplyToOptionsPartial(t *testing.T) {
	nc := &NetworkConfig{InputName: "x"}
	opts := DefaultOptions()
	nc.ApplyToOptions(&opts)
	if opts.InputName != "x" {
		t.Errorf("InputName = %q; want %q", opts.InputName, "x")
	}
	// unset fields keep their defaults
	if opts.OutputName != "output" {
		t.Errorf("OutputName = %q; want %q", opts.OutputName, "output")
	}
	if opts.InputWidth != 256 || opts.InputHeight != 256 {
		t.Errorf("input size = %dx%d; want 256x256", opts.InputWidth, opts.InputHeight)
	}
}

func TestLoadNetworkConfigMissing(t *testing.T) {
	_, err := LoadNetworkConfig(filepath.Join(t.TempDir(), "nope.json"))
	if !os.IsNotExist(err) {
		t.Errorf("LoadNetworkConfig on missing file: err = %v; want IsNotExist", err)
	}
}

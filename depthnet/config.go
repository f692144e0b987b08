package depthnet

import (
	"encoding/json"
	"os"
)

// NetworkConfig maps the model's config.json to the subset we need.
type NetworkConfig struct {
	InputName  string `json:"input_name"`
	OutputName string `json:"output_name"`
	// InputSize is [C,H,W].
	InputSize     []int     `json:"input_size"`
	Mean          []float32 `json:"mean"`
	Std           []float32 `json:"std"`
	Interpolation string    `json:"interpolation"`
}

// LoadNetworkConfig reads and parses a model config.json file.
func LoadNetworkConfig(path string) (*NetworkConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	var cfg NetworkConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyToOptions maps NetworkConfig settings into Options, leaving fields the
// config does not set at their current values.
func (nc *NetworkConfig) ApplyToOptions(opts *Options) {
	if nc == nil || opts == nil {
		return
	}
	if nc.InputName != "" {
		opts.InputName = nc.InputName
	}
	if nc.OutputName != "" {
		opts.OutputName = nc.OutputName
	}
	if len(nc.InputSize) == 3 {
		// [C,H,W]
		opts.InputHeight = nc.InputSize[1]
		opts.InputWidth = nc.InputSize[2]
	}
	if len(nc.Mean) == 3 {
		opts.NormalizeMeanRGB = [3]float32{nc.Mean[0], nc.Mean[1], nc.Mean[2]}
	}
	if len(nc.Std) == 3 {
		opts.NormalizeStddevRGB = [3]float32{nc.Std[0], nc.Std[1], nc.Std[2]}
	}
	if nc.Interpolation != "" {
		opts.Interpolation = nc.Interpolation
	}
}

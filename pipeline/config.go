package pipeline

// Config holds the per-run parameters. Values are read once at run start and
// immutable afterward. Out-of-range values are clamped, never rejected.
type Config struct {
	// TargetFPS is the extraction and encode frame rate, clamped to [1,30].
	TargetFPS int `json:"targetFps"`
	// MaxFrameWidth is the maximum extracted frame width in pixels, clamped
	// to [240,1920]. Height scales proportionally to an even integer.
	MaxFrameWidth int `json:"maxFrameWidth"`
	// DisparityStrengthPx is the maximum horizontal parallax in pixels,
	// clamped to [1,40].
	DisparityStrengthPx int `json:"disparityStrengthPx"`
	// MaxFrames limits how many extracted frames are processed, clamped to
	// [1,9999].
	MaxFrames int `json:"maxFrames"`
}

// DefaultConfig returns the default run parameters.
func DefaultConfig() Config {
	return Config{
		TargetFPS:           10,
		MaxFrameWidth:       960,
		DisparityStrengthPx: 12,
		MaxFrames:           900,
	}
}

// Clamped returns a copy with every field coerced into its documented range.
func (c Config) Clamped() Config {
	c.TargetFPS = clampInt(c.TargetFPS, 1, 30)
	c.MaxFrameWidth = clampInt(c.MaxFrameWidth, 240, 1920)
	c.DisparityStrengthPx = clampInt(c.DisparityStrengthPx, 1, 40)
	c.MaxFrames = clampInt(c.MaxFrames, 1, 9999)
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

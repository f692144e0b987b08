// Package depthnet runs monocular depth estimation with an ONNX network and
// provides the tensor preprocessing and depth post-processing around it.
package depthnet

// Options configures the depth estimation engine.
type Options struct {
	// Path to the onnxruntime shared library (.dll/.so/.dylib). If empty, the
	// environment variable ONNXRUNTIME_SHARED_LIBRARY_PATH will be respected.
	ORTSharedLibraryPath string

	// Path to the depth model graph (.onnx).
	ModelPath string

	// Input and output tensor names in the model graph.
	InputName  string
	OutputName string

	// Fixed network input resolution. The model expects float32 input with
	// shape [1, 3, InputHeight, InputWidth] and produces a single-channel
	// depth map of the same spatial size.
	InputWidth  int
	InputHeight int

	// Per-channel standardization constants, channel order R,G,B.
	NormalizeMeanRGB   [3]float32
	NormalizeStddevRGB [3]float32

	// Interpolation filter name: "bicubic", "bilinear", "nearest", or "catmullrom".
	Interpolation string

	// Backend names the execution provider the runtime was configured with
	// ("cpu", "cuda", "coreml", ...). Informational only; the pipeline logs
	// it but never branches on it.
	Backend string
}

// DefaultOptions returns the configuration for a MiDaS-style small depth
// network: 256x256 input, ImageNet normalization constants.
func DefaultOptions() Options {
	return Options{
		InputName:          "input",
		OutputName:         "output",
		InputWidth:         256,
		InputHeight:        256,
		NormalizeMeanRGB:   [3]float32{0.485, 0.456, 0.406},
		NormalizeStddevRGB: [3]float32{0.229, 0.224, 0.225},
		Interpolation:      "bilinear",
		Backend:            "cpu",
	}
}

package depthnet

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	resize "github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Preprocess resamples a frame to the network input resolution and converts
// it to a standardized planar float32 tensor of shape (3, H, W): all R
// samples, then all G, then all B, row-major within each channel. Each sample
// is scaled to [0,1] and standardized as (value - mean) / stddev.
func Preprocess(img image.Image, opts Options) ([]float32, error) {
	if opts.InputWidth <= 0 || opts.InputHeight <= 0 {
		return nil, fmt.Errorf("invalid input size %dx%d", opts.InputWidth, opts.InputHeight)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", b.Dx(), b.Dy())
	}

	// Resize to target size with the chosen resampling; use true Bicubic to
	// match PIL when requested.
	var dst image.Image
	if strings.EqualFold(strings.TrimSpace(opts.Interpolation), "bicubic") {
		dst = resize.Resize(uint(opts.InputWidth), uint(opts.InputHeight), img, resize.Bicubic)
	} else {
		rgba := image.NewRGBA(image.Rect(0, 0, opts.InputWidth, opts.InputHeight))
		scaler := chooseScaler(opts.Interpolation)
		scaler.Scale(rgba, rgba.Bounds(), img, img.Bounds(), draw.Over, nil)
		dst = rgba
	}

	stdR := opts.NormalizeStddevRGB[0]
	stdG := opts.NormalizeStddevRGB[1]
	stdB := opts.NormalizeStddevRGB[2]
	// Avoid division by zero
	if stdR == 0 {
		stdR = 1
	}
	if stdG == 0 {
		stdG = 1
	}
	if stdB == 0 {
		stdB = 1
	}

	numPixels := opts.InputWidth * opts.InputHeight
	data := make([]float32, 3*numPixels)
	rOff := 0
	gOff := numPixels
	bOff := 2 * numPixels
	idx := 0
	for y := 0; y < opts.InputHeight; y++ {
		for x := 0; x < opts.InputWidth; x++ {
			c := color.RGBAModel.Convert(dst.At(x, y)).(color.RGBA)
			r := float32(c.R) / 255.0
			g := float32(c.G) / 255.0
			bl := float32(c.B) / 255.0
			data[rOff+idx] = (r - opts.NormalizeMeanRGB[0]) / stdR
			data[gOff+idx] = (g - opts.NormalizeMeanRGB[1]) / stdG
			data[bOff+idx] = (bl - opts.NormalizeMeanRGB[2]) / stdB
			idx++
		}
	}
	return data, nil
}

func chooseScaler(name string) draw.Scaler {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return draw.NearestNeighbor
	case "catmullrom":
		return draw.CatmullRom
	case "bilinear":
		fallthrough
	default:
		return draw.BiLinear
	}
}

// Package warp synthesizes a right-eye view from a left-eye frame and a
// normalized depth map by horizontally displacing source pixels.
package warp

import (
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"
)

// Options controls right-eye synthesis.
type Options struct {
	// StrengthPx is the maximum horizontal parallax in pixels, applied to the
	// most distant content.
	StrengthPx float64
	// Workers is the number of row-sharded goroutines; defaults to GOMAXPROCS.
	Workers int
}

// MapToDepth maps a frame coordinate (x,y) in a w*h frame onto the index grid
// of a dw*dh depth map using nearest-neighbor scaling. Kept separate so the
// frame/native resolution mismatch is handled in exactly one place.
func MapToDepth(x, y, w, h, dw, dh int) (int, int) {
	var u, v float64
	if w > 1 {
		u = float64(x) / float64(w-1)
	}
	if h > 1 {
		v = float64(y) / float64(h-1)
	}
	dx := int(math.Floor(u * float64(dw-1)))
	dy := int(math.Floor(v * float64(dh-1)))
	return dx, dy
}

// Disparity converts a normalized depth value into a horizontal shift in
// pixels. Larger depth values are treated as nearer content and shift less:
// d=1 yields zero shift, d=0 yields the full strength. This direction sets
// the perceived convergence plane and must match on both synthesis paths, so
// do not invert it here.
func Disparity(d float64, strengthPx float64) float64 {
	return (1 - d) * strengthPx
}

// SynthesizeRight builds the right-eye frame for a left-eye frame at native
// resolution and a smoothed normalized depth map at network resolution
// (dw x dh). Every destination pixel samples a horizontally displaced source
// column on the same row; no occlusion handling, disoccluded regions simply
// repeat source pixels. Output alpha is fully opaque.
func SynthesizeRight(left *image.RGBA, depth []float32, dw, dh int, opts Options) *image.RGBA {
	w, h := left.Bounds().Dx(), left.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 || dw <= 0 || dh <= 0 || len(depth) < dw*dh {
		return out
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rows := splitRows(h, workers)
	var wg sync.WaitGroup
	for _, r := range rows {
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					mx, my := MapToDepth(x, y, w, h, dw, dh)
					d := float64(depth[my*dw+mx])
					disp := Disparity(d, opts.StrengthPx)
					sx := int(math.Round(float64(x) + disp))
					if sx < 0 {
						sx = 0
					}
					if sx > w-1 {
						sx = w - 1
					}
					si := y*left.Stride + sx*4
					di := y*out.Stride + x*4
					out.Pix[di+0] = left.Pix[si+0]
					out.Pix[di+1] = left.Pix[si+1]
					out.Pix[di+2] = left.Pix[si+2]
					out.Pix[di+3] = 255
				}
			}
		}(r[0], r[1])
	}
	wg.Wait()
	return out
}

// SideBySide composes a left/right pair into one double-width frame.
func SideBySide(left, right *image.RGBA) *image.RGBA {
	w, h := left.Bounds().Dx(), left.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w*2, h))
	draw.Draw(out, image.Rect(0, 0, w, h), left, left.Bounds().Min, draw.Src)
	draw.Draw(out, image.Rect(w, 0, w*2, h), right, right.Bounds().Min, draw.Src)
	return out
}

// ToRGBA returns img as *image.RGBA without copying when possible.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func splitRows(h, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > h {
		workers = h
	}
	rows := make([][2]int, 0, workers)
	step := h / workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + step
		if i == workers-1 {
			end = h
		}
		rows = append(rows, [2]int{start, end})
		start = end
	}
	return rows
}

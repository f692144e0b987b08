// Command sbsframe turns one still image plus a grayscale depth map into a
// side-by-side stereo frame. Useful for eyeballing warp settings without
// running a full video conversion.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"

	_ "golang.org/x/image/webp"

	"github.com/stevecastle/parallax/depthnet"
	"github.com/stevecastle/parallax/warp"
)

func main() {
	in := flag.String("in", "", "source image (png, jpeg, gif, webp)")
	depthPath := flag.String("depth", "", "grayscale depth map image (bright = near)")
	out := flag.String("out", "sbs.png", "output side-by-side PNG")
	strength := flag.Float64("strength", 12, "disparity strength in pixels")
	flag.Parse()

	if *in == "" || *depthPath == "" {
		fmt.Fprintln(os.Stderr, "usage: sbsframe -in <image> -depth <image> [-out sbs.png] [-strength 12]")
		os.Exit(2)
	}

	left, err := decodeRGBA(*in)
	if err != nil {
		log.Fatalf("read source: %v", err)
	}
	depth, dw, dh, err := decodeDepth(*depthPath)
	if err != nil {
		log.Fatalf("read depth map: %v", err)
	}

	right := warp.SynthesizeRight(left, depth, dw, dh, warp.Options{StrengthPx: *strength})
	sbs := warp.SideBySide(left, right)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, sbs); err != nil {
		log.Fatalf("encode output: %v", err)
	}
	log.Printf("wrote %s (%dx%d)", *out, sbs.Bounds().Dx(), sbs.Bounds().Dy())
}

func decodeRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return warp.ToRGBA(img), nil
}

// decodeDepth loads a depth map image as a normalized float buffer, taking
// the luma of each pixel and rescaling the result to the full [0,1] range.
func decodeDepth(path string) ([]float32, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	raw := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			raw[y*w+x] = float32(g.Y) / 255
		}
	}
	return depthnet.Normalize(raw), w, h, nil
}

package depthnet

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestNormalizeRescalesToUnitRange(t *testing.T) {
	raw := []float32{2, 4, 6, 10}
	got := Normalize(raw)
	want := []float32{0, 0.25, 0.5, 1}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("Normalize(%v)[%d] = %v; want %v", raw, i, got[i], want[i])
		}
	}
	// input must not be mutated
	if raw[0] != 2 || raw[3] != 10 {
		t.Errorf("Normalize mutated its input: %v", raw)
	}
}

func TestNormalizeConstantBuffer(t *testing.T) {
	for _, v := range []float32{0, -3.5, 1000} {
		raw := []float32{v, v, v}
		got := Normalize(raw)
		for i := range got {
			if got[i] != 0 {
				t.Errorf("Normalize(const %v)[%d] = %v; want 0", v, i, got[i])
			}
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []float32{-5, 0, 5, 15}
	first := Normalize(raw)
	second := Normalize(first)
	for i := range first {
		if !almostEqual(first[i], second[i]) {
			t.Errorf("Normalize not idempotent at %d: %v then %v", i, first[i], second[i])
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("Normalize(nil) = %v; want empty", got)
	}
}

func TestSmooth3x3InteriorMean(t *testing.T) {
	// 3x3 buffer: the center cell is the mean of all nine values.
	depth := []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	got := Smooth3x3(depth, 3, 3)
	if want := float32(45.0 / 9.0); !almostEqual(got[4], want) {
		t.Errorf("Smooth3x3 center = %v; want %v", got[4], want)
	}
	// corner divisor is 4: cells 0,1,3,4
	if want := float32((1 + 2 + 4 + 5) / 4.0); !almostEqual(got[0], want) {
		t.Errorf("Smooth3x3 corner = %v; want %v", got[0], want)
	}
	// edge divisor is 6: cells 0,1,2,3,4,5
	if want := float32((1 + 2 + 3 + 4 + 5 + 6) / 6.0); !almostEqual(got[1], want) {
		t.Errorf("Smooth3x3 edge = %v; want %v", got[1], want)
	}
}

func TestSmooth3x3SinglePixel(t *testing.T) {
	got := Smooth3x3([]float32{0.7}, 1, 1)
	if !almostEqual(got[0], 0.7) {
		t.Errorf("Smooth3x3 1x1 = %v; want 0.7", got[0])
	}
}

func TestSmooth3x3MismatchedLength(t *testing.T) {
	depth := []float32{1, 2, 3}
	got := Smooth3x3(depth, 4, 4)
	for i := range depth {
		if got[i] != depth[i] {
			t.Errorf("Smooth3x3 with bad dims changed value %d: %v; want %v", i, got[i], depth[i])
		}
	}
}

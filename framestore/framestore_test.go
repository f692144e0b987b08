package framestore

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	return s
}

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 60), 200, 255})
		}
	}
	return img
}

func TestResetIdempotent(t *testing.T) {
	s := New(t.TempDir())
	for i := 0; i < 3; i++ {
		if err := s.Reset(); err != nil {
			t.Fatalf("Reset() #%d error = %v", i+1, err)
		}
	}
	for _, dir := range []string{s.FramesDir(), s.LeftDir(), s.RightDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Stat(%s) error = %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestResetClearsPreviousRun(t *testing.T) {
	s := newTestStore(t)
	name := fmt.Sprintf(Pattern, 1)
	if err := s.WriteLeft(name, testFrame()); err != nil {
		t.Fatalf("WriteLeft() error = %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.LeftDir(), name)); !os.IsNotExist(err) {
		t.Errorf("stale frame survived Reset(): err = %v", err)
	}
}

func TestListFramesSortedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	// write out of order, plus files that must be ignored
	for _, i := range []int{3, 1, 2, 10} {
		path := filepath.Join(s.FramesDir(), fmt.Sprintf(Pattern, i))
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	for _, junk := range []string{"notes.txt", "frame.jpg", ".hidden"} {
		if err := os.WriteFile(filepath.Join(s.FramesDir(), junk), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	frames, err := s.ListFrames()
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("len(frames) = %d; want 4", len(frames))
	}
	wantIdx := []int{1, 2, 3, 10}
	for i, fr := range frames {
		if fr.Index != wantIdx[i] {
			t.Errorf("frames[%d].Index = %d; want %d", i, fr.Index, wantIdx[i])
		}
		if fr.Name != fmt.Sprintf(Pattern, wantIdx[i]) {
			t.Errorf("frames[%d].Name = %q; want %q", i, fr.Name, fmt.Sprintf(Pattern, wantIdx[i]))
		}
	}
}

func TestListFramesEmpty(t *testing.T) {
	s := newTestStore(t)
	frames, err := s.ListFrames()
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("len(frames) = %d; want 0", len(frames))
	}
}

func TestFrameRoundTrip(t *testing.T) {
	s := newTestStore(t)
	src := testFrame()
	name := fmt.Sprintf(Pattern, 42)
	if err := s.WriteLeft(name, src); err != nil {
		t.Fatalf("WriteLeft() error = %v", err)
	}
	// read it back through the frames dir path used for extraction output
	data, err := os.ReadFile(filepath.Join(s.LeftDir(), name))
	if err != nil {
		t.Fatalf("read written frame: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.FramesDir(), name), data, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadFrame(name)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v; want %v", got.Bounds(), src.Bounds())
	}
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("Pix[%d] = %d; want %d", i, got.Pix[i], src.Pix[i])
		}
	}
}

func TestReadOutput(t *testing.T) {
	s := newTestStore(t)
	want := []byte("encoded video bytes")
	if err := os.WriteFile(s.OutputPath(), want, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadOutput()
	if err != nil {
		t.Fatalf("ReadOutput() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("ReadOutput() = %q; want %q", got, want)
	}
}

func TestPatternZeroPadding(t *testing.T) {
	if got := fmt.Sprintf(Pattern, 7); got != "00007.png" {
		t.Errorf("Pattern(7) = %q; want %q", got, "00007.png")
	}
	if got := fmt.Sprintf(Pattern, 12345); got != "12345.png" {
		t.Errorf("Pattern(12345) = %q; want %q", got, "12345.png")
	}
}

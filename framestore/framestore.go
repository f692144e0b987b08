// Package framestore manages the on-disk workspace for one conversion run:
// extracted source frames plus the left/right sequences handed to the
// encoder, addressed by zero-padded sequence names.
package framestore

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/stevecastle/parallax/warp"
)

// Pattern is the sequence name pattern used for extracted and written frames.
const Pattern = "%05d.png"

// Frame identifies one stored frame by its zero-padded sequence name and the
// monotonic index parsed from it.
type Frame struct {
	Name  string
	Index int
}

// Store is a run workspace rooted at a single directory with three
// subdirectories: frames/ (decoded source), L/ and R/ (the stereo pair
// sequences). Exactly one run owns the workspace at a time.
type Store struct {
	root string
}

// New returns a store rooted at dir. The directories are created by Reset.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the workspace root directory.
func (s *Store) Root() string { return s.root }

// FramesDir returns the extracted-frames directory.
func (s *Store) FramesDir() string { return filepath.Join(s.root, "frames") }

// LeftDir returns the left-eye sequence directory.
func (s *Store) LeftDir() string { return filepath.Join(s.root, "L") }

// RightDir returns the right-eye sequence directory.
func (s *Store) RightDir() string { return filepath.Join(s.root, "R") }

// OutputPath returns the path the encoded video is written to.
func (s *Store) OutputPath() string { return filepath.Join(s.root, "out.mp4") }

// Reset clears any residual state from a previous run and recreates the
// workspace layout. Deletion is best-effort: the paths may legitimately not
// exist, so removal errors are swallowed. Creation errors are not.
func (s *Store) Reset() error {
	_ = os.RemoveAll(s.root)
	for _, dir := range []string{s.FramesDir(), s.LeftDir(), s.RightDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create workspace dir %s: %w", dir, err)
		}
	}
	return nil
}

// ListFrames enumerates extracted frames in name-sorted (sequence-index)
// order. Non-frame files are ignored.
func (s *Store) ListFrames() ([]Frame, error) {
	entries, err := os.ReadDir(s.FramesDir())
	if err != nil {
		return nil, err
	}
	var frames []Frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		idx, ok := parseIndex(name)
		if !ok {
			continue
		}
		frames = append(frames, Frame{Name: name, Index: idx})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Name < frames[j].Name })
	return frames, nil
}

// ReadFrame decodes one extracted frame into an RGBA buffer.
func (s *Store) ReadFrame(name string) (*image.RGBA, error) {
	f, err := os.Open(filepath.Join(s.FramesDir(), name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", name, err)
	}
	return warp.ToRGBA(img), nil
}

// WriteLeft persists the untouched left-eye frame under its sequence name.
func (s *Store) WriteLeft(name string, img image.Image) error {
	return writePNG(filepath.Join(s.LeftDir(), name), img)
}

// WriteRight persists the synthesized right-eye frame under its sequence name.
func (s *Store) WriteRight(name string, img image.Image) error {
	return writePNG(filepath.Join(s.RightDir(), name), img)
}

// ReadOutput reads back the encoded video bytes.
func (s *Store) ReadOutput() ([]byte, error) {
	return os.ReadFile(s.OutputPath())
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseIndex(name string) (int, bool) {
	if !strings.HasSuffix(name, ".png") {
		return 0, false
	}
	base := strings.TrimSuffix(name, ".png")
	idx, err := strconv.Atoi(base)
	if err != nil {
		return 0, false
	}
	return idx, true
}

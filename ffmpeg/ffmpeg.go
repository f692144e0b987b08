// Package ffmpeg drives an external ffmpeg binary for frame extraction and
// side-by-side re-encoding.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/stevecastle/parallax/framestore"
)

// Fixed encode settings. Quality and speed are not part of the pipeline's
// public configuration.
const (
	encodeCodec  = "libx264"
	encodePreset = "veryfast"
	encodeCRF    = "23"
	encodePixFmt = "yuv420p"
)

var versionRe = regexp.MustCompile(`ffmpeg version (\S+)`)

// Engine locates and invokes ffmpeg. Load must succeed before the extract
// and encode calls are used.
type Engine struct {
	// PathOverride points at a specific ffmpeg binary. If empty, PATH is searched.
	PathOverride string
	// LogFn receives one line per ffmpeg output line. Defaults to the stdlib logger.
	LogFn func(string)

	path    string
	version string
}

// Load resolves the ffmpeg binary and verifies it runs by invoking
// `ffmpeg -version` with a short timeout.
func (e *Engine) Load(ctx context.Context) error {
	path := e.PathOverride
	if path == "" {
		p, err := exec.LookPath("ffmpeg")
		if err != nil {
			return fmt.Errorf("ffmpeg not found on PATH: %w", err)
		}
		path = p
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", path, err)
	}

	versionCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(versionCtx, path, "-version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg version check failed: %w", err)
	}
	e.path = path
	e.version = parseVersion(string(out))
	log.Printf("ffmpeg: using %s (version %s)", path, e.version)
	return nil
}

// Version returns the version string discovered by Load.
func (e *Engine) Version() string { return e.version }

// ExtractFrames decodes the source video into a zero-padded PNG sequence at
// the target frame rate, scaled so width does not exceed maxWidth with the
// height kept proportional and even.
func (e *Engine) ExtractFrames(ctx context.Context, src, framesDir string, fps, maxWidth int) error {
	return e.run(ctx, extractArgs(src, framesDir, fps, maxWidth))
}

// EncodeStacked re-encodes the left and right PNG sequences into one
// horizontally stacked video at the target frame rate.
func (e *Engine) EncodeStacked(ctx context.Context, leftDir, rightDir string, fps int, outPath string) error {
	return e.run(ctx, stackArgs(leftDir, rightDir, fps, outPath))
}

func (e *Engine) run(ctx context.Context, args []string) error {
	if e.path == "" {
		return fmt.Errorf("ffmpeg engine not loaded")
	}
	logf := e.LogFn
	if logf == nil {
		logf = func(line string) { log.Printf("ffmpeg: %s", line) }
	}

	cmd := exec.CommandContext(ctx, e.path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg failed to start: %w", err)
	}

	doneErr := make(chan struct{})
	go func() {
		s := bufio.NewScanner(stderr)
		for s.Scan() {
			logf(s.Text())
		}
		close(doneErr)
	}()
	scan := bufio.NewScanner(stdout)
	for scan.Scan() {
		logf(scan.Text())
	}
	<-doneErr

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited: %w", err)
	}
	return nil
}

// extractArgs builds the frame extraction invocation. The scale filter clamps
// width to maxWidth without upscaling; h=-2 keeps the height proportional and
// even, which the encoder requires later.
func extractArgs(src, framesDir string, fps, maxWidth int) []string {
	vf := fmt.Sprintf("fps=%d,scale=w=min(%d\\,iw):h=-2", fps, maxWidth)
	return []string{
		"-y",
		"-i", src,
		"-vf", vf,
		filepath.Join(framesDir, framestore.Pattern),
	}
}

// stackArgs builds the side-by-side encode invocation. Both sequences must be
// gap-free and strictly sequence-ordered.
func stackArgs(leftDir, rightDir string, fps int, outPath string) []string {
	fpsArg := fmt.Sprintf("%d", fps)
	return []string{
		"-y",
		"-framerate", fpsArg,
		"-i", filepath.Join(leftDir, framestore.Pattern),
		"-framerate", fpsArg,
		"-i", filepath.Join(rightDir, framestore.Pattern),
		"-filter_complex", "hstack=inputs=2",
		"-c:v", encodeCodec,
		"-preset", encodePreset,
		"-crf", encodeCRF,
		"-pix_fmt", encodePixFmt,
		outPath,
	}
}

// parseVersion extracts the version number from ffmpeg's -version output.
func parseVersion(output string) string {
	matches := versionRe.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}
	return "unknown"
}

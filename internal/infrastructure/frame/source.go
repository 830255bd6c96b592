package frame

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/disintegration/imaging"
)

// Source returns one raw encoded image per call.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
}

// FileSource re-reads a still image on every call. For bench setups.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("FileSource - Read - os.ReadFile: %w", err)
	}

	return data, nil
}

// CommandSource runs a capture program that writes one image to stdout,
// e.g. "libcamera-still -n -o -".
type CommandSource struct {
	name    string
	args    []string
	timeout time.Duration
}

func NewCommandSource(name string, args []string, timeout time.Duration) *CommandSource {
	return &CommandSource{name: name, args: args, timeout: timeout}
}

func (s *CommandSource) Read(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, s.name, s.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("CommandSource - Read - %s: %w (%s)", s.name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("CommandSource - Read - %s produced no output", s.name)
	}

	return stdout.Bytes(), nil
}

// SyntheticSource renders a test pattern whose shade changes per call.
type SyntheticSource struct {
	width, height int
	n             atomic.Uint32
}

func NewSyntheticSource(width, height int) *SyntheticSource {
	return &SyntheticSource{width: width, height: height}
}

func (s *SyntheticSource) Read(_ context.Context) ([]byte, error) {
	shade := uint8(s.n.Add(1) * 37) //nolint:gosec // wraps on purpose
	img := imaging.New(s.width, s.height, color.NRGBA{R: shade, G: 128, B: 255 - shade, A: 255})

	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.JPEG)
	if err != nil {
		return nil, fmt.Errorf("SyntheticSource - Read - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Camera reads from a Source and normalises the frame.
type Camera struct {
	src   Source
	proc  *Processor
	clock clock.Clock
}

func NewCamera(src Source, proc *Processor, c clock.Clock) *Camera {
	return &Camera{src: src, proc: proc, clock: c}
}

func (c *Camera) Capture(ctx context.Context) ([]byte, error) {
	raw, err := c.src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("Camera - Capture - c.src.Read: %w", err)
	}

	jpeg, err := c.proc.Normalize(raw, c.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("Camera - Capture - c.proc.Normalize: %w", err)
	}

	return jpeg, nil
}

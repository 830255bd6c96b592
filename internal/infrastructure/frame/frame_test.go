package frame

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/disintegration/imaging"
)

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{R: 200, A: 255}), imaging.PNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeFitsAndEncodesJPEG(t *testing.T) {
	p := NewProcessor(Size(320, 240), Quality(70))

	out, err := p.Normalize(pngImage(t, 1280, 960), time.Now())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	info, err := Inspect(out)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Format != "jpeg" || info.Width != 320 || info.Height != 240 {
		t.Errorf("info = %+v", info)
	}
}

func TestNormalizeDoesNotUpscale(t *testing.T) {
	out, err := NewProcessor().Normalize(pngImage(t, 64, 48), time.Now())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	info, _ := Inspect(out)
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("size = %dx%d", info.Width, info.Height)
	}
}

func TestNormalizeTimestampChangesPixels(t *testing.T) {
	src := pngImage(t, 320, 240)
	at := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

	plain, err := NewProcessor().Normalize(src, at)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	stamped, err := NewProcessor(Timestamp(true)).Normalize(src, at)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if bytes.Equal(plain, stamped) {
		t.Error("timestamp did not change the frame")
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := NewProcessor().Normalize([]byte("not an image"), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCameraWithFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	if err := os.WriteFile(path, pngImage(t, 100, 80), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cam := NewCamera(NewFileSource(path), NewProcessor(), clock.Real())

	out, err := cam.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if info, err := Inspect(out); err != nil || info.Format != "jpeg" {
		t.Errorf("Inspect = %+v, %v", info, err)
	}
}

func TestCameraMissingFile(t *testing.T) {
	cam := NewCamera(NewFileSource(filepath.Join(t.TempDir(), "nope.jpg")), NewProcessor(), clock.Real())

	if _, err := cam.Capture(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSyntheticSourceVaries(t *testing.T) {
	s := NewSyntheticSource(32, 24)

	a, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	b, _ := s.Read(context.Background())
	if bytes.Equal(a, b) {
		t.Error("consecutive frames are identical")
	}
}

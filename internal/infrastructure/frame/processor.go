package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // DecodeConfig
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	_defaultWidth   = 1024
	_defaultHeight  = 768
	_defaultQuality = 85

	_stampLayout = "2006-01-02 15:04:05"
)

// Processor turns whatever the sensor produced into a JPEG no larger than
// width x height.
type Processor struct {
	width     int
	height    int
	quality   int
	timestamp bool
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		width:   _defaultWidth,
		height:  _defaultHeight,
		quality: _defaultQuality,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Processor) Normalize(raw []byte, at time.Time) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("Processor - Normalize - imaging.Decode: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > p.width || b.Dy() > p.height {
		img = imaging.Fit(img, p.width, p.height, imaging.Lanczos)
	}

	if p.timestamp {
		img = stamp(img, at.UTC().Format(_stampLayout))
	}

	var buf bytes.Buffer
	err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality))
	if err != nil {
		return nil, fmt.Errorf("Processor - Normalize - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}

// stamp draws text in the bottom right corner on a dark strip.
func stamp(img image.Image, text string) image.Image {
	rgba := imaging.Clone(img)

	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}

	bounds := rgba.Bounds()
	textWidth := d.MeasureString(text).Round()

	strip := image.Rect(bounds.Max.X-textWidth-14, bounds.Max.Y-22, bounds.Max.X, bounds.Max.Y).Intersect(bounds)
	backdrop := imaging.New(strip.Dx(), strip.Dy(), color.NRGBA{A: 160})
	rgba = imaging.Overlay(rgba, backdrop, strip.Min, 1.0)

	d.Dst = rgba
	d.Dot = fixed.P(bounds.Max.X-textWidth-7, bounds.Max.Y-7)
	d.DrawString(text)

	return rgba
}

type Info struct {
	Format string
	Width  int
	Height int
	Size   int
}

// Inspect reads only the image header.
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("frame - Inspect - image.DecodeConfig: %w", err)
	}

	return Info{Format: format, Width: cfg.Width, Height: cfg.Height, Size: len(data)}, nil
}

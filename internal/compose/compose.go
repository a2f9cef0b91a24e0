// Package compose scales, thresholds and places coverage bitmaps onto
// fixed-size canvases, and derives the strikeout variant of a canvas.
package compose

import (
	"image"
	"strings"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/DabuXIX/T/internal/bitfont"
)

// ErrEmptyGlyph is returned when a visible character has no pixels to
// place.
var ErrEmptyGlyph = errors.New("compose: glyph has zero width or height")

// VAlign positions a glyph vertically within the canvas.
type VAlign int

const (
	Top VAlign = iota
	Middle
	Bottom
	// Baseline keeps the glyph at its rasterized height and anchors it
	// to the last row.
	Baseline
)

// HAlign positions a glyph horizontally within the canvas.
type HAlign int

const (
	Left HAlign = iota
	Center
	Right
)

// ParseVAlign accepts top, center (or middle), bottom and baseline.
func ParseVAlign(s string) (VAlign, error) {
	switch strings.ToLower(s) {
	case "top":
		return Top, nil
	case "center", "middle":
		return Middle, nil
	case "bottom":
		return Bottom, nil
	case "baseline", "native":
		return Baseline, nil
	}
	return 0, errors.Errorf("compose: unknown vertical alignment %q", s)
}

// ParseHAlign accepts left, center and right.
func ParseHAlign(s string) (HAlign, error) {
	switch strings.ToLower(s) {
	case "left":
		return Left, nil
	case "center", "middle":
		return Center, nil
	case "right":
		return Right, nil
	}
	return 0, errors.Errorf("compose: unknown horizontal alignment %q", s)
}

// Override changes how a specific character is scaled and placed.
type Override struct {
	HeightScale float64 // fraction of the nominal height, 0 means 1
	WidthScale  float64 // extra factor on the proportional width, 0 means 1
	VAlign      *VAlign // nil keeps the compositor default
}

// Options configures a Compositor.
type Options struct {
	Width, Height int // canvas size

	Threshold uint8 // coverage strictly above this is set
	MaxWidth  int   // 0 means the canvas width

	PaddingTop    int
	PaddingBottom int

	VAlign VAlign
	HAlign HAlign

	Overrides map[rune]Override
}

// Compositor turns coverage bitmaps into canvases.
type Compositor struct {
	opts Options
}

func New(opts Options) *Compositor {
	return &Compositor{opts: opts}
}

// Options returns the compositor configuration.
func (c *Compositor) Options() Options {
	return c.opts
}

// Blank returns an empty canvas of the configured size.
func (c *Compositor) Blank() *bitfont.Canvas {
	return bitfont.NewCanvas(c.opts.Width, c.opts.Height)
}

// Compose scales cov for character ch to the nominal height, thresholds
// it and places it on a new canvas.
func (c *Compositor) Compose(ch rune, cov *image.Gray, nominal int) (*bitfont.Canvas, error) {
	if ch == ' ' {
		return c.Blank(), nil
	}
	if cov == nil || cov.Bounds().Dx() == 0 || cov.Bounds().Dy() == 0 {
		return nil, errors.Wrapf(ErrEmptyGlyph, "%q", ch)
	}

	ov := c.opts.Overrides[ch]
	valign := c.opts.VAlign
	if ov.VAlign != nil {
		valign = *ov.VAlign
	}

	srcW, srcH := cov.Bounds().Dx(), cov.Bounds().Dy()
	h := nominal
	if ov.HeightScale > 0 {
		h = int(float64(nominal) * ov.HeightScale)
	}
	if valign == Baseline {
		h = srcH
	}
	if h < 1 {
		h = 1
	}
	w := float64(h) * float64(srcW) / float64(srcH)
	if ov.WidthScale > 0 {
		w *= ov.WidthScale
	}
	gw := clamp(int(w), 1, c.maxWidth())

	glyph := threshold(scale(cov, gw, h), c.opts.Threshold)

	canvas := c.Blank()
	x0, y0 := c.offsets(gw, h, valign)
	for y := 0; y < h; y++ {
		for x := 0; x < gw; x++ {
			canvas.Set(x0+x, y0+y, glyph[y*gw+x])
		}
	}
	return canvas, nil
}

func (c *Compositor) maxWidth() int {
	m := c.opts.MaxWidth
	if m <= 0 || m > c.opts.Width {
		m = c.opts.Width
	}
	return m
}

func (c *Compositor) offsets(gw, gh int, valign VAlign) (x, y int) {
	switch c.opts.HAlign {
	case Center:
		x = (c.opts.Width - gw) / 2
	case Right:
		x = c.opts.Width - gw
	}
	switch valign {
	case Top:
		y = c.opts.PaddingTop
	case Middle:
		y = (c.opts.Height - gh) / 2
	case Bottom, Baseline:
		y = c.opts.Height - gh - c.opts.PaddingBottom
	}
	return x, y
}

// scale resamples src to w x h. Same-size requests return src untouched.
func scale(src *image.Gray, w, h int) *image.Gray {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func threshold(img *image.Gray, t uint8) []uint8 {
	b := img.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y > t {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package bitfont holds the monochrome glyph types shared by every stage
// of the font ROM pipeline.
package bitfont

import (
	"image"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoGlyph is returned by a Source that has no glyph for a character.
var ErrNoGlyph = errors.New("bitfont: no glyph for character")

// Source supplies grayscale coverage bitmaps for a character at a nominal
// pixel height. A zero-sized result means the glyph is empty.
type Source interface {
	Rasterize(ch rune, height int) (*image.Gray, error)
}

// Variant selects one rendering of a character at a given height.
type Variant int

const (
	Normal Variant = iota
	Strikeout
)

func (v Variant) String() string {
	switch v {
	case Normal:
		return "normal"
	case Strikeout:
		return "strikeout"
	}
	return "unknown"
}

// ParseVariant is the inverse of Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "strikeout", "strike":
		return Strikeout, nil
	}
	return 0, errors.Errorf("bitfont: unknown variant %q", s)
}

// VariantKey identifies one canvas: a character at a height in a variant.
type VariantKey struct {
	Char    rune
	Height  int
	Variant Variant
}

// Canvas is a fixed-size binary bitmap. Pix holds one 0/1 value per pixel,
// row-major.
type Canvas struct {
	Width, Height int
	Pix           []uint8
}

// NewCanvas returns a blank canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

func (c *Canvas) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Pix[y*c.Width+x]
}

// Set stores v (normalized to 0 or 1) at x, y. Out of range writes are
// dropped.
func (c *Canvas) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	if v != 0 {
		v = 1
	}
	c.Pix[y*c.Width+x] = v
}

// Row returns row y. The slice aliases the canvas.
func (c *Canvas) Row(y int) []uint8 {
	return c.Pix[y*c.Width : (y+1)*c.Width]
}

func (c *Canvas) Clone() *Canvas {
	pix := make([]uint8, len(c.Pix))
	copy(pix, c.Pix)
	return &Canvas{Width: c.Width, Height: c.Height, Pix: pix}
}

func (c *Canvas) Equal(o *Canvas) bool {
	if c.Width != o.Width || c.Height != o.Height {
		return false
	}
	for i, v := range c.Pix {
		if v != o.Pix[i] {
			return false
		}
	}
	return true
}

// Empty reports whether no pixel is set.
func (c *Canvas) Empty() bool {
	for _, v := range c.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// RowString renders row y with 'X' for set pixels and ' ' otherwise.
func (c *Canvas) RowString(y int) string {
	var sb strings.Builder
	for _, v := range c.Row(y) {
		if v != 0 {
			sb.WriteByte('X')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Coverage converts the canvas into a coverage bitmap with set pixels at
// full intensity.
func (c *Canvas) Coverage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.Width, c.Height))
	for i, v := range c.Pix {
		if v != 0 {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// Font is a set of same-sized canvases keyed by character. Width and
// Height are the largest glyph dimensions.
type Font struct {
	Width, Height int
	Glyphs        map[rune]*Canvas
}

// Rasterize implements Source. Stored glyphs are already bitmaps, so the
// requested height is ignored and scaling is left to the compositor.
func (f *Font) Rasterize(ch rune, height int) (*image.Gray, error) {
	g, ok := f.Glyphs[ch]
	if !ok {
		return nil, errors.Wrapf(ErrNoGlyph, "%q", ch)
	}
	return g.Coverage(), nil
}

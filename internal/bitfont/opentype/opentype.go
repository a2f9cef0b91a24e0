// Package opentype rasterizes TrueType and OpenType glyphs into coverage
// bitmaps.
package opentype

import (
	"image"
	"io/ioutil"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/DabuXIX/T/internal/bitfont"
)

// DefaultOversample is the ratio between the rendering size and the
// nominal height. Glyphs are drawn large and scaled down by the
// compositor.
const DefaultOversample = 2

// Source renders glyphs from one parsed font. Faces are created lazily,
// one per pixel size, and released by Close.
type Source struct {
	Oversample float64

	font  *opentype.Font
	faces map[int]font.Face
	buf   sfnt.Buffer
}

var _ bitfont.Source = (*Source)(nil)

// Parse parses font data.
func Parse(data []byte) (*Source, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "opentype: failed to parse font")
	}
	return &Source{
		Oversample: DefaultOversample,
		font:       f,
		faces:      make(map[int]font.Face),
	}, nil
}

// Open reads and parses a font file.
func Open(path string) (*Source, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opentype: reading font")
	}
	s, err := Parse(data)
	return s, errors.Wrap(err, path)
}

// Name returns the font's full name, if it has one.
func (s *Source) Name() string {
	name, err := s.font.Name(&s.buf, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}

func (s *Source) face(size int) (font.Face, error) {
	if f, ok := s.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opentype: creating %dpx face", size)
	}
	s.faces[size] = f
	return f, nil
}

// Rasterize renders ch at height times Oversample pixels and returns its
// ink bounding box. Glyphs without ink, such as spaces, come back with a
// zero size.
func (s *Source) Rasterize(ch rune, height int) (*image.Gray, error) {
	idx, err := s.font.GlyphIndex(&s.buf, ch)
	if err != nil {
		return nil, errors.Wrapf(err, "opentype: looking up %q", ch)
	}
	if idx == 0 {
		return nil, errors.Wrapf(bitfont.ErrNoGlyph, "%q", ch)
	}

	oversample := s.Oversample
	if oversample <= 0 {
		oversample = 1
	}
	face, err := s.face(int(float64(height) * oversample))
	if err != nil {
		return nil, err
	}

	bounds, _, ok := face.GlyphBounds(ch)
	if !ok {
		return nil, errors.Wrapf(bitfont.ErrNoGlyph, "%q", ch)
	}
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return image.NewGray(image.Rectangle{}), nil
	}

	dst := image.NewGray(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(-minX, -minY),
	}
	d.DrawString(string(ch))
	return dst, nil
}

// Close releases every face created so far.
func (s *Source) Close() error {
	var first error
	for size, f := range s.faces {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.faces, size)
	}
	return first
}

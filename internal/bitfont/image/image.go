// Package image extracts glyphs from a pre-rendered strip image: one row
// of characters on a solid background, separated by at least one blank
// column, in alphabet order.
package image

import (
	"image"
	"image/color"
	"io"
	"unicode/utf8"

	// decoders for the strip image
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
)

type Options struct {
	// Offset and Size select a window of the image; a zero Size extends
	// the window to the image edge.
	Offset image.Point
	Size   image.Point
}

// Decode reads an image and splits it into glyphs named by alphabet.
func Decode(r io.Reader, alphabet string, options *Options) (*bitfont.Font, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "image: decoding glyph strip")
	}
	return Extract(img, alphabet, options), nil
}

// Extract splits an already decoded image into glyphs.
func Extract(img image.Image, alphabet string, options *Options) *bitfont.Font {
	var offset, size image.Point
	if options != nil {
		offset = options.Offset
		size = options.Size
	}

	bounds := img.Bounds()
	bounds.Min = bounds.Min.Add(offset)
	if size.X != 0 {
		bounds.Max.X = bounds.Min.X + size.X
	}
	if size.Y != 0 {
		bounds.Max.Y = bounds.Min.Y + size.Y
	}
	bounds = bounds.Intersect(img.Bounds())

	isInk := inkClassifier(img)
	height := bounds.Dy()
	font := &bitfont.Font{Height: height, Glyphs: make(map[rune]*bitfont.Canvas)}

	// scan across the window saving columns as we go. A column without ink
	// closes the current glyph and moves on to the next alphabet letter.
	var cols [][]uint8
	emit := func() {
		if len(cols) == 0 || len(alphabet) == 0 {
			cols = nil
			return
		}
		g := bitfont.NewCanvas(len(cols), height)
		for x, col := range cols {
			for y, v := range col {
				g.Set(x, y, v)
			}
		}
		ch, n := utf8.DecodeRuneInString(alphabet)
		alphabet = alphabet[n:]
		font.Glyphs[ch] = g
		if g.Width > font.Width {
			font.Width = g.Width
		}
		cols = nil
	}

	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		col := make([]uint8, height)
		empty := true
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			if isInk(img.At(x, y)) {
				col[y-bounds.Min.Y] = 1
				empty = false
			}
		}
		if empty {
			emit()
			continue
		}
		cols = append(cols, col)
	}
	// the last glyph may run to the window edge
	emit()

	bitfont.Logger().Debug("glyph strip extracted", "glyphs", len(font.Glyphs), "width", font.Width, "height", height)
	return font
}

// inkClassifier builds a greyscale histogram of the whole image and
// returns a predicate that treats rare shades as ink. The background is
// assumed to be fairly solid, so its shades occur far more often than
// the font's.
func inkClassifier(img image.Image) func(color.Color) bool {
	b := img.Bounds()
	pxc := 0
	clrs := make(map[uint8]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gc := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			clrs[gc.Y]++
			pxc++
		}
	}

	// halve the count threshold until the shades above it cover at least
	// half of the image
	pxt := pxc
	pxd := 0
	for pxd < (pxc/2) && pxt > 0 {
		pxt /= 2
		pxd = 0
		for _, n := range clrs {
			if n > pxt {
				pxd += n
			}
		}
	}

	return func(c color.Color) bool {
		gc := color.GrayModel.Convert(c).(color.Gray)
		return clrs[gc.Y] <= pxt
	}
}

package main

import (
	"image"
	"os"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	bimage "github.com/DabuXIX/T/internal/bitfont/image"
	"github.com/DabuXIX/T/internal/bitfont/opentype"
	btext "github.com/DabuXIX/T/internal/bitfont/text"
)

// openSource picks the glyph source from -ttf, -img or -txt. The returned
// func releases it.
func openSource() (bitfont.Source, func(), error) {
	nop := func() {}
	switch {
	case *fontName != "":
		s, err := opentype.Open(*fontName)
		if err != nil {
			return nil, nop, err
		}
		bitfont.Logger().Info("rasterizing font", "file", *fontName, "name", s.Name())
		return s, func() { s.Close() }, nil

	case *imageName != "":
		f, err := os.Open(*imageName)
		if err != nil {
			return nil, nop, errors.Wrap(err, "opening glyph image")
		}
		defer f.Close()
		opts := &bimage.Options{
			Offset: image.Pt(*startX, *startY),
			Size:   image.Pt(*width, *height),
		}
		font, err := bimage.Decode(f, *alphabet, opts)
		return font, nop, errors.Wrap(err, *imageName)

	case *textName != "":
		f, err := os.Open(*textName)
		if err != nil {
			return nil, nop, errors.Wrap(err, "opening glyph text")
		}
		defer f.Close()
		font, err := btext.Decode(f)
		return font, nop, errors.Wrap(err, *textName)
	}
	return nil, nop, errors.New("-ttf, -img or -txt should be provided")
}

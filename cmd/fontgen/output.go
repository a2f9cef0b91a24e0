package main

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	btext "github.com/DabuXIX/T/internal/bitfont/text"
	"github.com/DabuXIX/T/internal/config"
	"github.com/DabuXIX/T/internal/mif"
	"github.com/DabuXIX/T/internal/pipeline"
	"github.com/DabuXIX/T/internal/rom"
	"github.com/DabuXIX/T/internal/xbm"
)

// writeOutputs writes the MIF, binary and optional XBM files and returns
// the names of those created.
func writeOutputs(base string, cfg *config.Config, res *pipeline.Result) ([]string, error) {
	var created []string

	doc, err := mif.FromImage(res.Image, cfg.WordBytes())
	if err != nil {
		return created, err
	}
	if *title != "" {
		doc.Banner = mif.Banner(*title)
	}
	if err := writeFile(base+".mif", func(w io.Writer) error { return mif.Encode(w, doc) }); err != nil {
		return created, err
	}
	created = append(created, base+".mif")

	if err := writeFile(base+".bin", func(w io.Writer) error { return rom.WriteBinary(w, res.Image) }); err != nil {
		return created, err
	}
	created = append(created, base+".bin")

	if *xbmOut {
		if err := writeFile(base+".xbm", func(w io.Writer) error { return xbm.Encode(w, res.Canvases) }); err != nil {
			return created, err
		}
		created = append(created, base+".xbm")
	}
	return created, nil
}

func writeFile(name string, fn func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := fn(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	return errors.Wrapf(f.Close(), "closing %s", name)
}

// dumpGlyphs prints the normal variant of every glyph, one height after
// another.
func dumpGlyphs(w io.Writer, res *pipeline.Result) error {
	var keys []bitfont.VariantKey
	for k := range res.Canvases {
		if k.Variant == bitfont.Normal {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Height != keys[j].Height {
			return keys[i].Height < keys[j].Height
		}
		return keys[i].Char < keys[j].Char
	})
	for _, k := range keys {
		if err := btext.Encode(w, k.Char, res.Canvases[k]); err != nil {
			return err
		}
	}
	return nil
}

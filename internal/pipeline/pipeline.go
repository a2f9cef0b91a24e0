// Package pipeline runs a font ROM build: rasterize every character at
// every configured height, compose and strike the canvases, pack them and
// assemble the sealed ROM image.
package pipeline

import (
	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/compose"
	"github.com/DabuXIX/T/internal/config"
	"github.com/DabuXIX/T/internal/pack"
	"github.com/DabuXIX/T/internal/report"
	"github.com/DabuXIX/T/internal/rom"
)

// Glyphs is the packed data of one run, keyed by character, height and
// variant.
type Glyphs = rom.Glyphs

// Result is everything a run produced.
type Result struct {
	Layout   rom.Layout
	Canvases map[bitfont.VariantKey]*bitfont.Canvas
	Glyphs   Glyphs
	Image    *rom.Image
	Checksum uint16
	Report   report.List
}

// Run builds the ROM described by cfg from src. Characters that cannot
// be rendered are reported and left out; the error return is reserved
// for an invalid configuration.
func Run(src bitfont.Source, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := bitfont.Logger()
	log.Info("building font ROM", "config", cfg.String())

	res := &Result{
		Layout:   cfg.Layout(),
		Canvases: make(map[bitfont.VariantKey]*bitfont.Canvas),
		Glyphs:   make(Glyphs),
	}
	strike := len(cfg.Variants()) > 1

	for _, h := range cfg.Heights {
		comp := compose.New(cfg.Compose(h))
		for _, ch := range cfg.Charset {
			canvas, err := render(src, comp, ch, h.Height)
			if err != nil {
				res.Report.Add(log, ch, report.RasterizationFailure, "height %d: %v", h.Height, err)
				continue
			}
			res.add(bitfont.VariantKey{Char: ch, Height: h.Height, Variant: bitfont.Normal}, canvas, cfg.BitOrder)
			if strike {
				res.add(bitfont.VariantKey{Char: ch, Height: h.Height, Variant: bitfont.Strikeout},
					compose.Strike(canvas, cfg.StrikeStyle), cfg.BitOrder)
			}
		}
		log.Debug("height rendered", "height", h.Height, "glyphs", len(res.Glyphs))
	}

	img, rep, err := rom.Assemble(res.Layout, cfg.Charset, res.Glyphs)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: assembling image")
	}
	res.Report.Merge(rep)
	res.Image = img
	res.Checksum = img.Seal()
	log.Info("font ROM sealed", "slots", len(img.Slots), "checksum", res.Checksum, "warnings", len(res.Report))
	return res, nil
}

func render(src bitfont.Source, comp *compose.Compositor, ch rune, height int) (*bitfont.Canvas, error) {
	if ch == ' ' {
		return comp.Blank(), nil
	}
	cov, err := src.Rasterize(ch, height)
	if err != nil {
		return nil, err
	}
	return comp.Compose(ch, cov, height)
}

func (r *Result) add(key bitfont.VariantKey, c *bitfont.Canvas, order pack.BitOrder) {
	r.Canvases[key] = c
	r.Glyphs[key] = pack.Pack(c, order)
}

package rom

import (
	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/report"
)

// Glyphs maps each rendered canvas to its packed bytes. It is built once
// per run and only read afterwards.
type Glyphs map[bitfont.VariantKey][]byte

// Get returns the packed bytes stored for key.
func (g Glyphs) Get(key bitfont.VariantKey) ([]byte, bool) {
	data, ok := g[key]
	return data, ok
}

// Assemble writes glyphs into a new image following the layout, section
// by section, characters in the order given. Characters without data are
// skipped without consuming a slot; once a character does not fit, it and
// every later character with data is reported and left out of its section. The checksum trailer is left zero.
func Assemble(layout Layout, chars []rune, glyphs Glyphs) (*Image, report.List, error) {
	if err := layout.Validate(); err != nil {
		return nil, nil, err
	}
	log := bitfont.Logger()

	img := NewImage(layout.Depth)
	limit := layout.Limit()

	var rep report.List
	for si, s := range layout.Sections {
		end := s.End
		if limit < end {
			end = limit
		}
		cursor := s.Start
		full := false
		for _, ch := range chars {
			key := bitfont.VariantKey{Char: ch, Height: s.Height, Variant: s.Variant}
			data, ok := glyphs.Get(key)
			if !ok {
				rep.Add(log, ch, report.MissingData, "no data for height %d %s", s.Height, s.Variant)
				continue
			}
			if full || cursor+s.BytesPerChar > end {
				full = true
				rep.Add(log, ch, report.SectionCapacityExceeded,
					"section %v full at %#04x (%d characters)", s, cursor, s.Capacity(limit))
				continue
			}
			if len(data) > s.BytesPerChar {
				rep.Add(log, ch, report.GlyphTruncated,
					"%d bytes stored in a %d byte slot", len(data), s.BytesPerChar)
				data = data[:s.BytesPerChar]
			}
			copy(img.Data[cursor:cursor+s.BytesPerChar], data)
			img.Slots = append(img.Slots, Slot{Key: key, Addr: cursor, Len: s.BytesPerChar, SectionIdx: si})
			cursor += s.BytesPerChar
		}
		log.Debug("section assembled", "section", s.String(), "used", cursor-s.Start)
	}
	return img, rep, nil
}

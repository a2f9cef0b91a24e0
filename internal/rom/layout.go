// Package rom assembles packed glyphs into a fixed-size font ROM image
// and computes its checksum trailer.
package rom

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
)

// TrailerSize is the number of bytes reserved at the end of every image
// for the checksum.
const TrailerSize = 2

// Section reserves the byte range [Start, End) for one (height, variant)
// combination.
type Section struct {
	Start, End   int
	Height       int
	Variant      bitfont.Variant
	BytesPerChar int
}

func (s Section) String() string {
	return fmt.Sprintf("[%#04x,%#04x) height %d %s", s.Start, s.End, s.Height, s.Variant)
}

// Capacity returns how many characters fit below limit.
func (s Section) Capacity(limit int) int {
	end := s.End
	if limit < end {
		end = limit
	}
	if s.BytesPerChar <= 0 || end <= s.Start {
		return 0
	}
	return (end - s.Start) / s.BytesPerChar
}

// Layout is the static section table of a ROM of Depth bytes.
type Layout struct {
	Depth    int
	Sections []Section
}

// Limit returns the first address data may not reach: the start of the
// checksum trailer.
func (l Layout) Limit() int {
	return l.Depth - TrailerSize
}

// Validate checks that sections are ascending, non-overlapping and lie
// inside the image.
func (l Layout) Validate() error {
	if l.Depth <= TrailerSize {
		return errors.Errorf("rom: depth %d leaves no room for data", l.Depth)
	}
	prevEnd := 0
	for i, s := range l.Sections {
		switch {
		case s.BytesPerChar <= 0:
			return errors.Errorf("rom: section %d %v: bytes per char must be positive", i, s)
		case s.Start < 0 || s.End > l.Depth:
			return errors.Errorf("rom: section %d %v: outside the %d byte image", i, s, l.Depth)
		case s.End-s.Start < s.BytesPerChar:
			return errors.Errorf("rom: section %d %v: too small for one character", i, s)
		case s.Start < prevEnd:
			return errors.Errorf("rom: section %d %v: overlaps or precedes the previous section", i, s)
		}
		prevEnd = s.End
	}
	return nil
}

// Overlaps reports whether two sections share an address.
func Overlaps(a, b Section) bool {
	return a.Start < b.End && b.Start < a.End
}

// StandardLayout splits depth into equal sections, one per height and
// variant, heights outermost:
//
//	depth 0x2000, heights 13 14, variants normal strikeout
//	[0x0000,0x0800) 13 normal    [0x0800,0x1000) 13 strikeout
//	[0x1000,0x1800) 14 normal    [0x1800,0x2000) 14 strikeout
func StandardLayout(depth int, heights []int, variants []bitfont.Variant, bytesPerChar int) Layout {
	n := len(heights) * len(variants)
	l := Layout{Depth: depth}
	if n == 0 {
		return l
	}
	size := depth / n
	addr := 0
	for _, h := range heights {
		for _, v := range variants {
			l.Sections = append(l.Sections, Section{
				Start:        addr,
				End:          addr + size,
				Height:       h,
				Variant:      v,
				BytesPerChar: bytesPerChar,
			})
			addr += size
		}
	}
	return l
}

// Keys returns the distinct (height, variant) pairs the layout stores,
// sorted by height then variant.
func (l Layout) Keys() []bitfont.VariantKey {
	seen := make(map[bitfont.VariantKey]bool)
	var keys []bitfont.VariantKey
	for _, s := range l.Sections {
		k := bitfont.VariantKey{Height: s.Height, Variant: s.Variant}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Height != keys[j].Height {
			return keys[i].Height < keys[j].Height
		}
		return keys[i].Variant < keys[j].Variant
	})
	return keys
}

package mif

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/runenames"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/rom"
)

// Describe names a glyph slot for comments.
func Describe(key bitfont.VariantKey) string {
	name := runenames.Name(key.Char)
	if name == "" {
		name = "UNNAMED"
	}
	return fmt.Sprintf("%q U+%04X %s, height %d, %s", key.Char, key.Char, name, key.Height, key.Variant)
}

// FromImage builds a document holding every occupied slot of img followed
// by the checksum trailer. Words are wordBytes wide.
func FromImage(img *rom.Image, wordBytes int) (*Document, error) {
	n := len(img.Data)
	if wordBytes <= 0 || n%wordBytes != 0 {
		return nil, errors.Errorf("mif: %d byte image does not divide into %d byte words", n, wordBytes)
	}
	doc := &Document{Depth: n / wordBytes, Width: 8 * wordBytes}

	for _, s := range img.Slots {
		if s.Addr%wordBytes != 0 || s.Len%wordBytes != 0 {
			return nil, errors.Errorf("mif: slot %s at %#x is not aligned to %d byte words",
				Describe(s.Key), s.Addr, wordBytes)
		}
		doc.Blocks = append(doc.Blocks, Block{
			Comment: Describe(s.Key),
			Addr:    s.Addr / wordBytes,
			Words:   words(img.Data[s.Addr:s.Addr+s.Len], wordBytes),
		})
	}

	start := (n - rom.TrailerSize) / wordBytes * wordBytes
	doc.Blocks = append(doc.Blocks, Block{
		Comment: fmt.Sprintf("checksum %#04x", img.Trailer()),
		Addr:    start / wordBytes,
		Words:   words(img.Data[start:], wordBytes),
	})
	return doc, nil
}

func words(data []byte, wb int) [][]byte {
	out := make([][]byte, 0, len(data)/wb)
	for i := 0; i+wb <= len(data); i += wb {
		out = append(out, data[i:i+wb])
	}
	return out
}

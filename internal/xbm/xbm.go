// Package xbm writes canvases as X bitmap (XBM) C source, one array per
// glyph, for inclusion in firmware or viewing with X tools.
package xbm

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/pack"
)

const perLine = 12

// Name returns the C identifier prefix for a glyph, e.g. U0041_normal_13.
func Name(key bitfont.VariantKey) string {
	return fmt.Sprintf("U%04X_%s_%d", key.Char, key.Variant, key.Height)
}

// Encode writes every canvas, ordered by height, variant and character.
// XBM stores the leftmost pixel in the least significant bit, whatever
// order the ROM uses.
func Encode(w io.Writer, canvases map[bitfont.VariantKey]*bitfont.Canvas) error {
	keys := make([]bitfont.VariantKey, 0, len(canvases))
	for k := range canvases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		return a.Char < b.Char
	})

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		writeOne(bw, Name(k), canvases[k])
	}
	return bw.Flush()
}

func writeOne(w *bufio.Writer, name string, c *bitfont.Canvas) {
	fmt.Fprintf(w, "#define %s_width %d\n", name, c.Width)
	fmt.Fprintf(w, "#define %s_height %d\n", name, c.Height)
	fmt.Fprintf(w, "static unsigned char %s_bits[] = {", name)
	data := pack.Pack(c, pack.LSBFirst)
	for i, b := range data {
		if i%perLine == 0 {
			w.WriteString("\n   ")
		} else {
			w.WriteString(" ")
		}
		fmt.Fprintf(w, "0x%02x", b)
		if i < len(data)-1 {
			w.WriteString(",")
		}
	}
	w.WriteString(" };\n\n")
}

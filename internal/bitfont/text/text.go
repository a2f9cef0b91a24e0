// Package text reads and writes glyphs in a plain text form, one pixel
// row per line, prefixed by the character:
//
//	A  [ XXX  ]
//	A  [X   X ]
//
// 'X' marks a set pixel, anything else a clear one.
package text

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
)

// Decode reads glyphs in text form. Consecutive lines with the same
// leading character form one glyph.
func Decode(r io.Reader) (*bitfont.Font, error) {
	font := &bitfont.Font{Glyphs: make(map[rune]*bitfont.Canvas)}

	var order []rune
	rows := make(map[rune][]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, pixoffs := utf8.DecodeRuneInString(line)
		open := strings.IndexByte(line[pixoffs:], '[')
		if open < 0 {
			return nil, errors.Errorf("text: line %d: missing '['", lineNo)
		}
		pixoffs += open + 1
		ww := strings.IndexRune(line[pixoffs:], ']')
		if ww < 0 {
			return nil, errors.Errorf("text: line %d: missing ']'", lineNo)
		}

		if _, seen := rows[c]; !seen {
			order = append(order, c)
		}
		rows[c] = append(rows[c], line[pixoffs:pixoffs+ww])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "text: reading glyphs")
	}

	for _, c := range order {
		g := rowsToCanvas(rows[c])
		font.Glyphs[c] = g
		if g.Width > font.Width {
			font.Width = g.Width
		}
		if g.Height > font.Height {
			font.Height = g.Height
		}
	}
	return font, nil
}

func rowsToCanvas(rows []string) *bitfont.Canvas {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	g := bitfont.NewCanvas(w, len(rows))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] == 'X' {
				g.Set(x, y, 1)
			}
		}
	}
	return g
}

// Encode writes one glyph in text form.
func Encode(w io.Writer, ch rune, g *bitfont.Canvas) error {
	for y := 0; y < g.Height; y++ {
		if _, err := fmt.Fprintf(w, "%c  [%s]\n", ch, g.RowString(y)); err != nil {
			return errors.Wrap(err, "text: writing glyph")
		}
	}
	return nil
}

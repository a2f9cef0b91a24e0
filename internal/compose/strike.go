package compose

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
)

// StrikeStyle selects how many rows the strikeout bar covers.
type StrikeStyle int

const (
	// StrikeSingle sets row height/2.
	StrikeSingle StrikeStyle = iota
	// StrikeTriple sets rows height/2-1 through height/2+1.
	StrikeTriple
)

func (s StrikeStyle) String() string {
	if s == StrikeTriple {
		return "triple"
	}
	return "single"
}

func ParseStrikeStyle(s string) (StrikeStyle, error) {
	switch strings.ToLower(s) {
	case "single", "1":
		return StrikeSingle, nil
	case "triple", "3":
		return StrikeTriple, nil
	}
	return 0, errors.Errorf("compose: unknown strike style %q", s)
}

// StrikeRows returns the rows a strike of the given style covers on a
// canvas of the given height, clipped to the canvas.
func StrikeRows(height int, style StrikeStyle) []int {
	mid := height / 2
	lo, hi := mid, mid
	if style == StrikeTriple {
		lo, hi = mid-1, mid+1
	}
	var rows []int
	for y := lo; y <= hi; y++ {
		if y >= 0 && y < height {
			rows = append(rows, y)
		}
	}
	return rows
}

// Strike returns a copy of c with the strike rows fully set. c is not
// modified.
func Strike(c *bitfont.Canvas, style StrikeStyle) *bitfont.Canvas {
	out := c.Clone()
	for _, y := range StrikeRows(c.Height, style) {
		row := out.Row(y)
		for x := range row {
			row[x] = 1
		}
	}
	return out
}

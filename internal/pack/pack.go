// Package pack converts canvas rows to bytes and back.
//
// Within each byte bit 7 holds the leftmost column of its 8-column group,
// and groups map to consecutive bytes left to right. Targets that expect
// the leftmost pixel in bit 0 select LSBFirst, which reverses every byte
// after packing:
//
//	columns   X X X . . . . .
//	MSBFirst  0b11100000 == 0xe0
//	LSBFirst  0b00000111 == 0x07
package pack

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
)

// BitOrder selects where the leftmost pixel of a group lands.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

func (o BitOrder) String() string {
	if o == LSBFirst {
		return "lsb"
	}
	return "msb"
}

// ParseBitOrder accepts "msb" or "lsb" (as well as "reversed").
func ParseBitOrder(s string) (BitOrder, error) {
	switch strings.ToLower(s) {
	case "msb", "msbfirst", "":
		return MSBFirst, nil
	case "lsb", "lsbfirst", "reversed", "reverse":
		return LSBFirst, nil
	}
	return 0, errors.Errorf("pack: unknown bit order %q", s)
}

// Reverse mirrors the bits of b. Reverse(Reverse(b)) == b.
func Reverse(b byte) byte {
	return bits.Reverse8(b)
}

// RowBytes returns the packed size of a row of width pixels.
func RowBytes(width int) int {
	return (width + 7) / 8
}

// PackRow packs a row of 0/1 values. Rows whose width is not a multiple
// of 8 are padded with zero columns on the right.
func PackRow(row []uint8, order BitOrder) []byte {
	out := make([]byte, RowBytes(len(row)))
	for x, v := range row {
		if v != 0 {
			out[x>>3] |= 0x80 >> uint(x&7)
		}
	}
	if order == LSBFirst {
		for i, b := range out {
			out[i] = Reverse(b)
		}
	}
	return out
}

// UnpackRow inverts PackRow for a row of width pixels. Missing trailing
// bytes read as zero.
func UnpackRow(data []byte, width int, order BitOrder) []uint8 {
	row := make([]uint8, width)
	for x := range row {
		i := x >> 3
		if i >= len(data) {
			break
		}
		b := data[i]
		if order == LSBFirst {
			b = Reverse(b)
		}
		row[x] = (b >> (7 - uint(x&7))) & 1
	}
	return row
}

// Pack packs every row of c, top to bottom.
func Pack(c *bitfont.Canvas, order BitOrder) []byte {
	stride := RowBytes(c.Width)
	out := make([]byte, 0, stride*c.Height)
	for y := 0; y < c.Height; y++ {
		out = append(out, PackRow(c.Row(y), order)...)
	}
	return out
}

// Unpack rebuilds a width x height canvas from packed rows.
func Unpack(data []byte, width, height int, order BitOrder) *bitfont.Canvas {
	c := bitfont.NewCanvas(width, height)
	stride := RowBytes(width)
	for y := 0; y < height; y++ {
		start := y * stride
		if start >= len(data) {
			break
		}
		end := start + stride
		if end > len(data) {
			end = len(data)
		}
		copy(c.Row(y), UnpackRow(data[start:end], width, order))
	}
	return c
}

// Package mif reads and writes Memory Initialization Files, the text
// format FPGA tools use to preload ROM contents:
//
//	DEPTH = 8192;
//	WIDTH = 8;
//	ADDRESS_RADIX = HEX;
//	DATA_RADIX = HEX;
//	CONTENT BEGIN
//	-- 'A' U+0041 LATIN CAPITAL LETTER A, height 13, normal
//	0410 : 38;
//	...
//	END;
//
// Addresses count words of WIDTH bits. Lines starting with "--" are
// comments and may appear anywhere.
package mif

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pbnjay/pixfont"
	"github.com/pkg/errors"
)

// Block is a run of consecutive words, optionally introduced by a comment.
type Block struct {
	Comment string
	Addr    int
	Words   [][]byte
}

// Document is the content of a MIF file.
type Document struct {
	Depth      int // words
	Width      int // bits per word
	AddrDigits int // 0 picks 3 or 4 digits from Depth
	Banner     []string
	Blocks     []Block
}

// WordBytes returns the number of bytes in one word.
func (d *Document) WordBytes() int {
	return (d.Width + 7) / 8
}

func (d *Document) addrDigits() int {
	if d.AddrDigits > 0 {
		return d.AddrDigits
	}
	n := len(fmt.Sprintf("%X", maxInt(d.Depth-1, 0)))
	if n < 3 {
		n = 3
	}
	return n
}

// Encode writes doc in MIF syntax.
func Encode(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	for _, line := range doc.Banner {
		fmt.Fprintf(bw, "-- %s\n", line)
	}
	fmt.Fprintf(bw, "DEPTH = %d;\n", doc.Depth)
	fmt.Fprintf(bw, "WIDTH = %d;\n", doc.Width)
	fmt.Fprintf(bw, "ADDRESS_RADIX = HEX;\n")
	fmt.Fprintf(bw, "DATA_RADIX = HEX;\n")
	fmt.Fprintf(bw, "CONTENT BEGIN\n")

	ad, wb := doc.addrDigits(), doc.WordBytes()
	for _, b := range doc.Blocks {
		if b.Comment != "" {
			fmt.Fprintf(bw, "-- %s\n", b.Comment)
		}
		for i, word := range b.Words {
			if len(word) != wb {
				return errors.Errorf("mif: word at %#x has %d bytes, expected %d", b.Addr+i, len(word), wb)
			}
			fmt.Fprintf(bw, "%0*X : %X;\n", ad, b.Addr+i, word)
		}
	}
	fmt.Fprintf(bw, "END;\n")
	return errors.Wrap(bw.Flush(), "mif: writing document")
}

// Banner renders title with the built-in pixel font, one string per row,
// for use as a comment header.
func Banner(title string) []string {
	sd := &pixfont.StringDrawable{}
	pixfont.DrawString(sd, 0, 0, title, nil)
	var lines []string
	for _, line := range strings.Split(sd.PrefixString(""), "\n") {
		line = strings.TrimRight(line, " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

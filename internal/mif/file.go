package mif

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/pack"
	"github.com/DabuXIX/T/internal/report"
	"github.com/DabuXIX/T/internal/rom"
)

// WordBytes returns the number of bytes per address. Files without a
// WIDTH header are assumed to hold one byte per address.
func (f *File) WordBytes() int {
	if f.Width <= 0 {
		return 1
	}
	return (f.Width + 7) / 8
}

// Byte returns the byte at a byte address; byte addr lives in word
// addr/WordBytes.
func (f *File) Byte(addr int) (byte, bool) {
	if addr < 0 {
		return 0, false
	}
	wb := f.WordBytes()
	w, ok := f.Words[addr/wb]
	if !ok || addr%wb >= len(w) {
		return 0, false
	}
	return w[addr%wb], true
}

// Canvas rebuilds a width x height canvas whose packed rows start at byte
// address start. A row with any absent byte is left blank and reported.
func (f *File) Canvas(start, width, height int, order pack.BitOrder) (*bitfont.Canvas, report.List) {
	log := bitfont.Logger()
	stride := pack.RowBytes(width)
	c := bitfont.NewCanvas(width, height)

	var rep report.List
	for y := 0; y < height; y++ {
		row := make([]byte, stride)
		missing := -1
		for i := range row {
			addr := start + y*stride + i
			b, ok := f.Byte(addr)
			if !ok {
				missing = addr
				break
			}
			row[i] = b
		}
		if missing >= 0 {
			rep.Add(log, 0, report.MissingAddress, "byte %#04x (row %d of glyph at %#04x) not in file", missing, y, start)
			continue
		}
		copy(c.Row(y), pack.UnpackRow(row, width, order))
	}
	return c, rep
}

// size returns the image size in bytes: the declared depth, or enough to
// cover the highest address present.
func (f *File) size() int {
	words := f.Depth
	if words == 0 {
		for a := range f.Words {
			if a+1 > words {
				words = a + 1
			}
		}
	}
	return words * f.WordBytes()
}

// Image flattens the file into a ROM image; absent addresses are zero.
func (f *File) Image() *rom.Image {
	img := rom.NewImage(f.size())
	wb := f.WordBytes()
	for a, w := range f.Words {
		off := a * wb
		if off >= len(img.Data) {
			continue
		}
		copy(img.Data[off:], w)
	}
	return img
}

// Verify recomputes the checksum and compares it with the trailer. A
// mismatch, or a trailer absent from the file, is reported, not failed.
func (f *File) Verify() (bool, report.List) {
	log := bitfont.Logger()
	var rep report.List

	n := f.size()
	if n < rom.TrailerSize {
		rep.Add(log, 0, report.ChecksumMismatch, "image of %d bytes has no trailer", n)
		return false, rep
	}
	for _, addr := range []int{n - 2, n - 1} {
		if _, ok := f.Byte(addr); !ok {
			rep.Add(log, 0, report.ChecksumMismatch, "trailer byte %#04x not in file", addr)
			return false, rep
		}
	}
	stored, computed, ok := f.Image().Verify()
	if !ok {
		rep.Add(log, 0, report.ChecksumMismatch, "stored %#04x, computed %#04x", stored, computed)
	}
	return ok, rep
}

// Document converts the file back into blocks of consecutive addresses.
// Labels become block comments.
func (f *File) Document() *Document {
	doc := &Document{Depth: f.Depth, Width: f.WordBytes() * 8}
	addrs := make([]int, 0, len(f.Words))
	for a := range f.Words {
		addrs = append(addrs, a)
	}
	sort.Ints(addrs)

	for _, a := range addrs {
		label, labeled := f.Labels[a]
		n := len(doc.Blocks)
		if n == 0 || labeled || doc.Blocks[n-1].Addr+len(doc.Blocks[n-1].Words) != a {
			doc.Blocks = append(doc.Blocks, Block{Comment: label, Addr: a})
			n++
		}
		doc.Blocks[n-1].Words = append(doc.Blocks[n-1].Words, f.Words[a])
	}
	if doc.Depth == 0 && len(addrs) > 0 {
		doc.Depth = addrs[len(addrs)-1] + 1
	}
	return doc
}

// Split divides every word of doc into its high and low halves, giving
// two documents of half the width over the same addresses. A 32 bit ROM
// becomes the two 16 bit ROMs that hold its upper and lower columns.
func Split(doc *Document) (high, low *Document, err error) {
	wb := doc.WordBytes()
	if wb < 2 || wb%2 != 0 {
		return nil, nil, errors.Errorf("mif: cannot split %d bit words", doc.Width)
	}
	half := wb / 2
	high = &Document{Depth: doc.Depth, Width: doc.Width / 2, AddrDigits: doc.AddrDigits, Banner: doc.Banner}
	low = &Document{Depth: doc.Depth, Width: doc.Width / 2, AddrDigits: doc.AddrDigits, Banner: doc.Banner}
	for _, b := range doc.Blocks {
		hb := Block{Comment: b.Comment, Addr: b.Addr}
		lb := Block{Comment: b.Comment, Addr: b.Addr}
		for _, w := range b.Words {
			if len(w) != wb {
				return nil, nil, errors.Errorf("mif: word at %#x has %d bytes, expected %d", b.Addr, len(w), wb)
			}
			hb.Words = append(hb.Words, w[:half])
			lb.Words = append(lb.Words, w[half:])
		}
		high.Blocks = append(high.Blocks, hb)
		low.Blocks = append(low.Blocks, lb)
	}
	return high, low, nil
}

// NewFile wraps a ROM image as a file of wordBytes wide words, for
// inspecting binary images with the same tools as MIF files.
func NewFile(img *rom.Image, wordBytes int) *File {
	if wordBytes <= 0 {
		wordBytes = 1
	}
	f := &File{
		Depth:  len(img.Data) / wordBytes,
		Width:  8 * wordBytes,
		Words:  make(map[int][]byte),
		Labels: make(map[int]string),
	}
	for a := 0; a < f.Depth; a++ {
		f.Words[a] = img.Data[a*wordBytes : (a+1)*wordBytes]
	}
	for _, s := range img.Slots {
		f.Labels[s.Addr/wordBytes] = Describe(s.Key)
	}
	return f
}

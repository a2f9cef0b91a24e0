package mif

import (
	"bytes"
	"strings"
	"testing"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/pack"
	"github.com/DabuXIX/T/internal/report"
	"github.com/DabuXIX/T/internal/rom"
)

func canvasFromRows(rows ...string) *bitfont.Canvas {
	c := bitfont.NewCanvas(len(rows[0]), len(rows))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] == 'X' {
				c.Set(x, y, 1)
			}
		}
	}
	return c
}

func encode(t *testing.T, doc *Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestEncodeHeaderAndLines(t *testing.T) {
	doc := &Document{Depth: 4096, Width: 8, Blocks: []Block{
		{Comment: "first", Addr: 0x10, Words: [][]byte{{0x38}, {0x0a}}},
	}}
	want := `DEPTH = 4096;
WIDTH = 8;
ADDRESS_RADIX = HEX;
DATA_RADIX = HEX;
CONTENT BEGIN
-- first
010 : 38;
011 : 0A;
END;
`
	if got := encode(t, doc); got != want {
		t.Errorf("unexpected encoding:\n%s", got)
	}

	doc = &Document{Depth: 8192, Width: 16, Blocks: []Block{{Addr: 0x1ff, Words: [][]byte{{0xab, 0x01}}}}}
	if got := encode(t, doc); !strings.Contains(got, "\n01FF : AB01;\n") {
		t.Errorf("expected 4 address digits and 4 data digits:\n%s", got)
	}
}

func TestEncodeRejectsWrongWordSize(t *testing.T) {
	doc := &Document{Depth: 16, Width: 16, Blocks: []Block{{Words: [][]byte{{0x01}}}}}
	if err := Encode(&bytes.Buffer{}, doc); err == nil {
		t.Error("expected error for a short word")
	}
}

func TestImageRoundTrip(t *testing.T) {
	for _, order := range []pack.BitOrder{pack.MSBFirst, pack.LSBFirst} {
		glyph := canvasFromRows(
			"  XXX   ",
			" X   X  ",
			" XXXXX  ",
			" X   X  ",
		)
		layout := rom.Layout{Depth: 0x40, Sections: []rom.Section{
			{Start: 0x00, End: 0x20, Height: 4, Variant: bitfont.Normal, BytesPerChar: 16},
		}}
		glyphs := rom.Glyphs{{Char: 'A', Height: 4, Variant: bitfont.Normal}: pack.Pack(glyph, order)}
		img, _, err := rom.Assemble(layout, []rune{'A'}, glyphs)
		if err != nil {
			t.Fatal(err)
		}
		img.Seal()

		doc, err := FromImage(img, 1)
		if err != nil {
			t.Fatal(err)
		}
		text := encode(t, doc)
		if !strings.Contains(text, "LATIN CAPITAL LETTER A") {
			t.Errorf("comment should name the character:\n%s", text)
		}

		f, rep, err := Decode(strings.NewReader(text))
		if err != nil {
			t.Fatal(err)
		}
		if len(rep) != 0 {
			t.Fatalf("unexpected report:\n%s", rep)
		}
		if f.Depth != 0x40 || f.Width != 8 {
			t.Errorf("unexpected header %d %d", f.Depth, f.Width)
		}
		got, rep := f.Canvas(0, 8, 4, order)
		if len(rep) != 0 {
			t.Errorf("unexpected report:\n%s", rep)
		}
		if !got.Equal(glyph) {
			t.Errorf("%v: decoded glyph differs", order)
		}
		if ok, rep := f.Verify(); !ok {
			t.Errorf("checksum should verify:\n%s", rep)
		}
		if !bytes.Equal(f.Image().Data, img.Data) {
			t.Error("flattened image differs from the original")
		}
	}
}

func TestDecodeSkipsMalformedLines(t *testing.T) {
	doc := `-- generated
DEPTH = 16;
WIDTH = 8;
ADDRESS_RADIX = HEX;
DATA_RADIX = HEX;
CONTENT BEGIN

-- 'A'
000 : FF;
001   81;
002 : ZZ;
003 : 123;
004 : 81; -- trailing comment
[005..006] : 7E;
007 : 01 02;
END;
00A : 55;
`
	f, rep, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if n := rep.Count(report.ParseError); n != 3 {
		t.Errorf("expected 3 parse errors, got %d:\n%s", n, rep)
	}
	want := map[int]byte{0: 0xff, 4: 0x81, 5: 0x7e, 6: 0x7e, 7: 0x01, 8: 0x02}
	if len(f.Words) != len(want) {
		t.Errorf("expected %d words, got %d", len(want), len(f.Words))
	}
	for a, b := range want {
		if w, ok := f.Words[a]; !ok || w[0] != b {
			t.Errorf("address %d: expected %#02x got %v", a, b, w)
		}
	}
	if f.Labels[0] != "'A'" {
		t.Errorf("unexpected label %q", f.Labels[0])
	}
}

func TestDecodeWithoutWidth(t *testing.T) {
	f, rep, err := Decode(strings.NewReader("CONTENT BEGIN\n0 : 0F;\nEND;\n"))
	if err != nil || len(rep) != 0 {
		t.Fatal(err, rep)
	}
	if b, ok := f.Byte(0); !ok || b != 0x0f {
		t.Errorf("got %#02x %v", b, ok)
	}
}

func TestCanvasMissingRows(t *testing.T) {
	f, _, err := Decode(strings.NewReader("WIDTH = 8;\nCONTENT BEGIN\n000 : F0;\n002 : 0F;\nEND;\n"))
	if err != nil {
		t.Fatal(err)
	}
	c, rep := f.Canvas(0, 8, 3, pack.MSBFirst)
	if rep.Count(report.MissingAddress) != 1 {
		t.Errorf("expected one missing address:\n%s", rep)
	}
	for y, want := range []string{"XXXX    ", "        ", "    XXXX"} {
		if got := c.RowString(y); got != want {
			t.Errorf("row %d: expected [%s] got [%s]", y, want, got)
		}
	}
}

func TestWideWordsAddressBytes(t *testing.T) {
	f, _, err := Decode(strings.NewReader("WIDTH = 16;\nCONTENT BEGIN\n000 : 8001;\n001 : FFFF;\nEND;\n"))
	if err != nil {
		t.Fatal(err)
	}
	c, rep := f.Canvas(0, 16, 2, pack.MSBFirst)
	if len(rep) != 0 {
		t.Fatal(rep)
	}
	if c.RowString(0) != "X              X" || c.RowString(1) != strings.Repeat("X", 16) {
		t.Errorf("unexpected rows [%s] [%s]", c.RowString(0), c.RowString(1))
	}
}

func TestVerifyReportsMismatch(t *testing.T) {
	f, _, _ := Decode(strings.NewReader("DEPTH = 4;\nWIDTH = 8;\nCONTENT BEGIN\n0 : 01;\n1 : 02;\n2 : 00;\n3 : 04;\nEND;\n"))
	ok, rep := f.Verify()
	if ok || rep.Count(report.ChecksumMismatch) != 1 {
		t.Errorf("expected a checksum mismatch, got %v\n%s", ok, rep)
	}

	f, _, _ = Decode(strings.NewReader("DEPTH = 4;\nWIDTH = 8;\nCONTENT BEGIN\n0 : 01;\nEND;\n"))
	if ok, rep := f.Verify(); ok || len(rep) != 1 {
		t.Errorf("absent trailer should be reported, got %v\n%s", ok, rep)
	}
}

func TestSplit(t *testing.T) {
	doc := &Document{Depth: 2, Width: 32, Blocks: []Block{
		{Comment: "c", Addr: 0, Words: [][]byte{{0x12, 0x34, 0x56, 0x78}, {0xde, 0xad, 0xbe, 0xef}}},
	}}
	high, low, err := Split(doc)
	if err != nil {
		t.Fatal(err)
	}
	if high.Width != 16 || low.Width != 16 {
		t.Errorf("unexpected widths %d %d", high.Width, low.Width)
	}
	if got := encode(t, high); !strings.Contains(got, "000 : 1234;\n001 : DEAD;") {
		t.Errorf("unexpected high half:\n%s", got)
	}
	if got := encode(t, low); !strings.Contains(got, "000 : 5678;\n001 : BEEF;") {
		t.Errorf("unexpected low half:\n%s", got)
	}
	if _, _, err := Split(&Document{Width: 8}); err == nil {
		t.Error("8 bit words should not split")
	}
}

func TestFileDocument(t *testing.T) {
	src := "DEPTH = 16;\nWIDTH = 8;\nCONTENT BEGIN\n-- one\n000 : 01;\n001 : 02;\n-- two\n002 : 03;\n008 : 04;\nEND;\n"
	f, _, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	doc := f.Document()
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Comment != "one" || len(doc.Blocks[0].Words) != 2 {
		t.Errorf("unexpected first block %+v", doc.Blocks[0])
	}
	if doc.Blocks[2].Addr != 8 {
		t.Errorf("unexpected third block %+v", doc.Blocks[2])
	}
}

func TestBannerIsComment(t *testing.T) {
	lines := Banner("ROM")
	if len(lines) == 0 {
		t.Fatal("empty banner")
	}
	doc := &Document{Depth: 4, Width: 8, Banner: lines}
	f, rep, err := Decode(strings.NewReader(encode(t, doc)))
	if err != nil || len(rep) != 0 || f.Depth != 4 {
		t.Errorf("banner should not disturb the header: %v %v %d", err, rep, f.Depth)
	}
}

func TestNewFileFromBinary(t *testing.T) {
	img := rom.NewImage(8)
	img.Data[2] = 0x12
	img.Data[3] = 0x34
	img.Slots = []rom.Slot{{Key: bitfont.VariantKey{Char: 'A', Height: 2}, Addr: 2, Len: 2}}
	img.Seal()

	f := NewFile(img, 2)
	if f.Depth != 4 || f.Width != 16 {
		t.Fatalf("depth %d width %d", f.Depth, f.Width)
	}
	if !bytes.Equal(f.Words[1], []byte{0x12, 0x34}) {
		t.Errorf("word 1 = % x", f.Words[1])
	}
	if !strings.Contains(f.Labels[1], "LATIN CAPITAL LETTER A") {
		t.Errorf("label %q", f.Labels[1])
	}
	if ok, rep := f.Verify(); !ok {
		t.Errorf("verify failed:\n%v", rep)
	}
	c, rep := f.Canvas(2, 8, 2, pack.MSBFirst)
	if len(rep) != 0 || c.RowString(0) != "   X  X " {
		t.Errorf("row 0 %q, report %v", c.RowString(0), rep)
	}
}

func TestDecodeRejectsAddressesPastDepth(t *testing.T) {
	doc := "DEPTH = 16;\nWIDTH = 8;\nCONTENT BEGIN\n" +
		"[0..FFFFF] : AA;\n" +
		"[0..FFFFFFFF] : 00;\n" +
		"0400 : 55;\n" +
		"00F : 01 02;\n" +
		"[0..3] : 11;\n" +
		"00F : 22;\n" +
		"END;\n"
	f, rep, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if n := rep.Count(report.ParseError); n != 4 {
		t.Errorf("expected 4 parse errors, got %d:\n%s", n, rep)
	}
	if len(f.Words) != 5 {
		t.Errorf("expected 5 words, got %d", len(f.Words))
	}
	if w := f.Words[0xf]; len(w) != 1 || w[0] != 0x22 {
		t.Errorf("last word %v", w)
	}
}

func TestDecodeBoundsUndeclaredRanges(t *testing.T) {
	f, rep, err := Decode(strings.NewReader("CONTENT BEGIN\n[0..FFFFFFFF] : 00;\n1 : 0F;\nEND;\n"))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Count(report.ParseError) != 1 || len(f.Words) != 1 {
		t.Errorf("words %d, report:\n%s", len(f.Words), rep)
	}
}

func TestByteNegativeAddress(t *testing.T) {
	f, _, err := Decode(strings.NewReader("WIDTH = 16;\nCONTENT BEGIN\n000 : 8001;\nEND;\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Byte(-1); ok {
		t.Error("negative address should be absent")
	}
	c, rep := f.Canvas(-1, 8, 1, pack.MSBFirst)
	if rep.Count(report.MissingAddress) != 1 || !c.Empty() {
		t.Errorf("expected a blank row and one missing address, got [%s]:\n%s", c.RowString(0), rep)
	}
}

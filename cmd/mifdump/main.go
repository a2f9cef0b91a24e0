// mifdump inspects font ROM images written by fontgen, either as MIF text
// or as raw binary:
//
//	./mifdump -mif font.mif -addr 0x0410      # one glyph
//	./mifdump -mif font.mif -all              # every labeled glyph
//	./mifdump -bin font.bin -verify           # check the checksum trailer
//	./mifdump -mif wide.mif -split wide       # wide_high.mif and wide_low.mif
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	btext "github.com/DabuXIX/T/internal/bitfont/text"
	"github.com/DabuXIX/T/internal/mif"
	"github.com/DabuXIX/T/internal/pack"
	"github.com/DabuXIX/T/internal/report"
	"github.com/DabuXIX/T/internal/rom"
)

var (
	mifName = flag.String("mif", "", "MIF file to read")
	binName = flag.String("bin", "", "binary image to read")
	words   = flag.Int("wb", 1, "bytes per word for -bin")
	addr    = flag.String("addr", "", "byte address of a glyph to draw (0x prefix for hex)")
	width   = flag.Int("w", 8, "glyph canvas width")
	height  = flag.Int("h", 16, "glyph canvas height")
	order   = flag.String("order", "msb", "bit order within each byte: msb or lsb")
	all     = flag.Bool("all", false, "draw every labeled glyph")
	verify  = flag.Bool("verify", false, "check the checksum trailer")
	split   = flag.String("split", "", "write <prefix>_high.mif and <prefix>_low.mif with the word halves")
	verbose = flag.Bool("v", false, "log progress to stderr")
)

func load() (*mif.File, report.List, error) {
	switch {
	case *mifName != "":
		f, err := os.Open(*mifName)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return mif.Decode(f)
	case *binName != "":
		f, err := os.Open(*binName)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		img, err := rom.ReadBinary(f)
		if err != nil {
			return nil, nil, err
		}
		return mif.NewFile(img, *words), nil, nil
	}
	return nil, nil, errors.New("-mif or -bin should be provided")
}

// labelRune recovers the character from a glyph comment ("'A' U+0041 ...").
func labelRune(label string) rune {
	_, rest, ok := strings.Cut(label, "U+")
	if !ok {
		return '?'
	}
	hex, _, _ := strings.Cut(rest, " ")
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return '?'
	}
	return rune(n)
}

func drawGlyph(w io.Writer, file *mif.File, start int, label string, bo pack.BitOrder) report.List {
	c, rep := file.Canvas(start, *width, *height, bo)
	fmt.Fprintf(w, "-- %#04x %s\n", start, label)
	if err := btext.Encode(w, labelRune(label), c); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return rep
}

func writeSplit(prefix string, file *mif.File) error {
	hi, lo, err := mif.Split(file.Document())
	if err != nil {
		return err
	}
	for name, doc := range map[string]*mif.Document{prefix + "_high.mif": hi, prefix + "_low.mif": lo} {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := mif.Encode(f, doc); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Created file:", name)
	}
	return nil
}

func main() {
	flag.Parse()

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	bitfont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	bo, err := pack.ParseBitOrder(*order)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	file, rep, err := load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("depth %d, width %d, %d words\n", file.Depth, file.Width, len(file.Words))

	if *addr != "" {
		start, err := strconv.ParseInt(*addr, 0, 32)
		if err == nil && start < 0 {
			err = errors.Errorf("negative address %d", start)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad address:", err)
			os.Exit(1)
		}
		label := file.Labels[int(start)/file.WordBytes()]
		rep.Merge(drawGlyph(os.Stdout, file, int(start), label, bo))
	}

	if *all {
		addrs := make([]int, 0, len(file.Labels))
		for a := range file.Labels {
			addrs = append(addrs, a)
		}
		sort.Ints(addrs)
		limit := len(file.Image().Data) - rom.TrailerSize
		for _, a := range addrs {
			if a*file.WordBytes() >= limit {
				continue
			}
			rep.Merge(drawGlyph(os.Stdout, file, a*file.WordBytes(), file.Labels[a], bo))
		}
	}

	if *verify {
		ok, vrep := file.Verify()
		rep.Merge(vrep)
		stored, computed, _ := file.Image().Verify()
		fmt.Printf("checksum stored %#04x computed %#04x ok=%v\n", stored, computed, ok)
	}

	if *split != "" {
		if err := writeSplit(*split, file); err != nil {
			fmt.Fprintln(os.Stderr, "split failed:", err)
			os.Exit(1)
		}
	}

	if len(rep) > 0 {
		fmt.Fprintf(os.Stderr, "%d warnings:\n%v", len(rep), rep)
	}
}

// fontgen is a commandline tool for building character generator ROMs for
// FPGA text displays. Glyphs come from a TrueType/OpenType font, a
// pre-rendered strip image or a text glyph file:
//
//	./fontgen -ttf DejaVuSansMono.ttf -o font
//	./fontgen -img strip.png -a "ABC..." -o font
//	./fontgen -txt glyphs.txt -o font
//
// Each character is drawn at every configured height into a fixed size
// canvas, optionally struck through, packed one byte per eight pixels and
// laid out in fixed address sections with a 16-bit checksum trailer. The
// result is written as font.mif (with a comment per glyph) and font.bin,
// plus font.xbm when -xbm is given.
//
// Layout settings come from defaults, then the file named by -env and
// FONTROM_* environment variables, then flags. Without -o the composed
// glyphs are dumped to stdout in text form.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/config"
	"github.com/DabuXIX/T/internal/pipeline"
)

var (
	fontName  = flag.String("ttf", "", "TrueType or OpenType font to rasterize")
	imageName = flag.String("img", "", "image file to extract glyphs from")
	startY    = flag.Int("y", 0, "starting Y position")
	height    = flag.Int("h", 0, "chop height")
	startX    = flag.Int("x", 0, "starting X position")
	width     = flag.Int("w", 0, "chop width")
	alphabet  = flag.String("a", "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789", "alphabet to extract")
	textName  = flag.String("txt", "", "text file to extract glyphs from")

	outName  = flag.String("o", "", "output base name (writes <name>.mif and <name>.bin)")
	xbmOut   = flag.Bool("xbm", false, "also write <name>.xbm")
	title    = flag.String("title", "", "banner drawn at the top of the MIF file")
	envName  = flag.String("env", "", "dotenv file with FONTROM_* settings")
	verbose  = flag.Bool("v", false, "log progress to stderr")
	settings = map[string]*string{}
)

func init() {
	def := config.Default()
	keys := make([]string, 0, len(config.Keys))
	for k := range config.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		usage := fmt.Sprintf("%s (%s)", config.Keys[k], config.EnvKey(k))
		settings[k] = flag.String(k, "", usage)
	}
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags]\n\ndefaults: %v\n\n", os.Args[0], def)
		flag.PrintDefaults()
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := cfg.LoadEnv(*envName); err != nil {
		return nil, err
	}
	var err error
	flag.Visit(func(f *flag.Flag) {
		if _, ok := settings[f.Name]; ok && err == nil {
			err = cfg.Set(f.Name, f.Value.String())
		}
	})
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	bitfont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(1)
	}

	src, closeSrc, err := openSource()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}
	defer closeSrc()

	res, err := pipeline.Run(src, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build failed:", err)
		os.Exit(1)
	}

	if *outName == "" {
		// dump a text representation of the glyphs to stdout
		if err := dumpGlyphs(os.Stdout, res); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		files, err := writeOutputs(*outName, cfg, res)
		for _, name := range files {
			fmt.Fprintln(os.Stderr, "Created file:", name)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if len(res.Report) > 0 {
		fmt.Fprintf(os.Stderr, "%d warnings:\n%v", len(res.Report), res.Report)
	}
	fmt.Fprintf(os.Stderr, "checksum %#04x\n", res.Checksum)
}

// Package config gathers every variation point of a font ROM build into
// one value. Settings come from defaults, then a dotenv file and the
// process environment (FONTROM_* keys), then command-line flags, each
// overriding the last.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/compose"
	"github.com/DabuXIX/T/internal/pack"
	"github.com/DabuXIX/T/internal/rom"
)

// EnvPrefix starts every environment key.
const EnvPrefix = "FONTROM_"

// Height is one nominal glyph height with its vertical padding.
type Height struct {
	Height        int
	PaddingTop    int
	PaddingBottom int
}

type Config struct {
	CanvasWidth, CanvasHeight int
	Heights                   []Height

	Threshold int
	MaxWidth  int
	VAlign    compose.VAlign
	HAlign    compose.HAlign

	Punctuation      []rune
	PunctuationScale float64
	Narrow           []rune
	NarrowScale      float64

	Strike      bool
	StrikeStyle compose.StrikeStyle
	BitOrder    pack.BitOrder

	Depth        int
	BytesPerChar int
	Charset      []rune

	// Sections replaces the equal per height and variant split when set.
	Sections []rom.Section
}

// Default returns the dual height 8x16 ROM: heights 13 and 14, normal
// and strikeout, 16 bytes per character in an 8 KiB image.
func Default() *Config {
	chars, _ := ParseCharset("0x20-0x7E")
	return &Config{
		CanvasWidth:  8,
		CanvasHeight: 16,
		Heights: []Height{
			{Height: 13, PaddingTop: 1, PaddingBottom: 2},
			{Height: 14, PaddingTop: 1, PaddingBottom: 1},
		},
		Threshold:        128,
		MaxWidth:         7,
		VAlign:           compose.Top,
		HAlign:           compose.Center,
		Punctuation:      []rune(".,"),
		PunctuationScale: 0.25,
		NarrowScale:      0.5,
		Strike:           true,
		StrikeStyle:      compose.StrikeSingle,
		BitOrder:         pack.MSBFirst,
		Depth:            0x2000,
		BytesPerChar:     16,
		Charset:          chars,
	}
}

// Keys lists the setting names accepted by Set, with their usage text.
var Keys = map[string]string{
	"canvas":       "canvas size in pixels, WIDTHxHEIGHT",
	"heights":      "nominal heights, comma separated HEIGHT[:TOP[:BOTTOM]] with padding",
	"threshold":    "coverage threshold 0-255; pixels above it are set",
	"maxw":         "maximum scaled glyph width",
	"valign":       "vertical alignment: top, center, bottom or baseline",
	"halign":       "horizontal alignment: left, center or right",
	"punct":        "characters drawn at a fraction of the height, bottom aligned",
	"punct-scale":  "height fraction for punctuation",
	"narrow":       "characters drawn narrower than their proportional width",
	"narrow-scale": "width factor for narrow characters",
	"strike":       "strikeout variant: none, single or triple",
	"order":        "bit order within each byte: msb or lsb (reversed)",
	"depth":        "ROM size in bytes",
	"bpc":          "bytes reserved per character",
	"chars":        "character set, comma separated codepoints and ranges (0x20-0x7E)",
}

// Set applies one named setting.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "canvas":
		c.CanvasWidth, c.CanvasHeight, err = ParseSize(value)
	case "heights":
		c.Heights, err = ParseHeights(value)
	case "threshold":
		c.Threshold, err = strconv.Atoi(value)
	case "maxw":
		c.MaxWidth, err = strconv.Atoi(value)
	case "valign":
		c.VAlign, err = compose.ParseVAlign(value)
	case "halign":
		c.HAlign, err = compose.ParseHAlign(value)
	case "punct":
		c.Punctuation = []rune(value)
	case "punct-scale":
		c.PunctuationScale, err = strconv.ParseFloat(value, 64)
	case "narrow":
		c.Narrow = []rune(value)
	case "narrow-scale":
		c.NarrowScale, err = strconv.ParseFloat(value, 64)
	case "strike":
		if strings.EqualFold(value, "none") || strings.EqualFold(value, "false") {
			c.Strike = false
			break
		}
		c.Strike = true
		c.StrikeStyle, err = compose.ParseStrikeStyle(value)
	case "order":
		c.BitOrder, err = pack.ParseBitOrder(value)
	case "depth":
		var n int64
		n, err = strconv.ParseInt(value, 0, 32)
		c.Depth = int(n)
	case "bpc":
		c.BytesPerChar, err = strconv.Atoi(value)
	case "chars":
		c.Charset, err = ParseCharset(value)
	default:
		return errors.Errorf("config: unknown setting %q", key)
	}
	return errors.Wrapf(err, "config: %s=%q", key, value)
}

// EnvKey returns the environment variable naming a setting.
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// LoadEnv applies settings from a dotenv file, if path is not empty, and
// from the process environment, which takes precedence.
func (c *Config) LoadEnv(path string) error {
	vars := map[string]string{}
	if path != "" {
		var err error
		vars, err = godotenv.Read(path)
		if err != nil {
			return errors.Wrapf(err, "config: reading %s", path)
		}
	}
	names := make([]string, 0, len(Keys))
	for key := range Keys {
		names = append(names, key)
	}
	sort.Strings(names)

	log := bitfont.Logger()
	for _, key := range names {
		value, ok := vars[EnvKey(key)]
		if env, set := os.LookupEnv(EnvKey(key)); set {
			value, ok = env, true
		}
		if !ok {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return err
		}
		log.Debug("setting from environment", "key", EnvKey(key), "value", value)
	}
	return nil
}

// HeightValues returns the nominal heights in order.
func (c *Config) HeightValues() []int {
	hs := make([]int, len(c.Heights))
	for i, h := range c.Heights {
		hs[i] = h.Height
	}
	return hs
}

// Variants returns the variants stored in the ROM.
func (c *Config) Variants() []bitfont.Variant {
	if c.Strike {
		return []bitfont.Variant{bitfont.Normal, bitfont.Strikeout}
	}
	return []bitfont.Variant{bitfont.Normal}
}

// Layout returns the section table: Sections when given, otherwise one
// equal section per height and variant.
func (c *Config) Layout() rom.Layout {
	if len(c.Sections) > 0 {
		return rom.Layout{Depth: c.Depth, Sections: c.Sections}
	}
	return rom.StandardLayout(c.Depth, c.HeightValues(), c.Variants(), c.BytesPerChar)
}

// WordBytes is the MIF word size: one packed canvas row.
func (c *Config) WordBytes() int {
	return pack.RowBytes(c.CanvasWidth)
}

// Compose returns compositor options for one height.
func (c *Config) Compose(h Height) compose.Options {
	bottom := compose.Bottom
	overrides := make(map[rune]compose.Override)
	for _, r := range c.Narrow {
		overrides[r] = compose.Override{WidthScale: c.NarrowScale}
	}
	for _, r := range c.Punctuation {
		ov := overrides[r]
		ov.HeightScale = c.PunctuationScale
		ov.VAlign = &bottom
		overrides[r] = ov
	}
	return compose.Options{
		Width:         c.CanvasWidth,
		Height:        c.CanvasHeight,
		Threshold:     uint8(c.Threshold),
		MaxWidth:      c.MaxWidth,
		PaddingTop:    h.PaddingTop,
		PaddingBottom: h.PaddingBottom,
		VAlign:        c.VAlign,
		HAlign:        c.HAlign,
		Overrides:     overrides,
	}
}

// Validate checks the settings against each other.
func (c *Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return errors.Errorf("config: bad canvas %dx%d", c.CanvasWidth, c.CanvasHeight)
	case c.Threshold < 0 || c.Threshold > 255:
		return errors.Errorf("config: threshold %d outside 0-255", c.Threshold)
	case len(c.Heights) == 0:
		return errors.New("config: no heights")
	case len(c.Charset) == 0:
		return errors.New("config: empty character set")
	}
	seen := make(map[int]bool)
	for _, h := range c.Heights {
		if h.Height <= 0 || h.Height+h.PaddingTop > c.CanvasHeight || h.Height+h.PaddingBottom > c.CanvasHeight {
			return errors.Errorf("config: height %d with padding %d/%d does not fit a %d row canvas",
				h.Height, h.PaddingTop, h.PaddingBottom, c.CanvasHeight)
		}
		if seen[h.Height] {
			return errors.Errorf("config: height %d listed twice", h.Height)
		}
		seen[h.Height] = true
	}
	if need := c.WordBytes() * c.CanvasHeight; need > c.BytesPerChar {
		return errors.Errorf("config: a %dx%d canvas needs %d bytes, only %d reserved per character",
			c.CanvasWidth, c.CanvasHeight, need, c.BytesPerChar)
	}
	layout := c.Layout()
	if err := layout.Validate(); err != nil {
		return err
	}
	wb := c.WordBytes()
	for _, s := range layout.Sections {
		if s.Start%wb != 0 || s.BytesPerChar%wb != 0 {
			return errors.Errorf("config: section %v is not aligned to %d byte words", s, wb)
		}
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("canvas %dx%d heights %v threshold %d order %s strike %v depth %#x bpc %d chars %d",
		c.CanvasWidth, c.CanvasHeight, c.HeightValues(), c.Threshold, c.BitOrder, c.Strike,
		c.Depth, c.BytesPerChar, len(c.Charset))
}

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/compose"
	"github.com/DabuXIX/T/internal/pack"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	l := c.Layout()
	if len(l.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(l.Sections))
	}
	want := []struct {
		start, height int
		variant       bitfont.Variant
	}{
		{0x0000, 13, bitfont.Normal},
		{0x0800, 13, bitfont.Strikeout},
		{0x1000, 14, bitfont.Normal},
		{0x1800, 14, bitfont.Strikeout},
	}
	for i, w := range want {
		s := l.Sections[i]
		if s.Start != w.start || s.Height != w.height || s.Variant != w.variant {
			t.Errorf("section %d: got %v", i, s)
		}
	}
	if len(c.Charset) != 0x7F-0x20 {
		t.Errorf("default charset has %d characters", len(c.Charset))
	}
}

func TestParseCharset(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want []rune
	}{
		{"0x41-0x43", []rune("ABC")},
		{"U+0041, 66 ,C", []rune("ABC")},
		{"A,0x41,B", []rune("AB")},
		{"0xB0", []rune{0xB0}},
	} {
		got, err := ParseCharset(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: got %q want %q", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "0x43-0x41", "zz", "0x41-qq"} {
		if _, err := ParseCharset(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseHeights(t *testing.T) {
	got, err := ParseHeights("13:1:2, 14")
	if err != nil {
		t.Fatal(err)
	}
	want := []Height{{13, 1, 2}, {14, 0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
	for _, bad := range []string{"", "a", "13:1:2:3"} {
		if _, err := ParseHeights(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := ParseSize("16X32")
	if err != nil || w != 16 || h != 32 {
		t.Errorf("got %d %d %v", w, h, err)
	}
	if _, _, err := ParseSize("16"); err == nil {
		t.Error("expected error")
	}
}

func TestSet(t *testing.T) {
	c := Default()
	for key, value := range map[string]string{
		"canvas":    "16x32",
		"heights":   "28:2:2",
		"order":     "lsb",
		"strike":    "triple",
		"valign":    "baseline",
		"depth":     "0x4000",
		"bpc":       "64",
		"threshold": "70",
	} {
		if err := c.Set(key, value); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
	}
	if c.CanvasWidth != 16 || c.CanvasHeight != 32 || c.BitOrder != pack.LSBFirst ||
		c.StrikeStyle != compose.StrikeTriple || c.VAlign != compose.Baseline ||
		c.Depth != 0x4000 || c.BytesPerChar != 64 || c.Threshold != 70 {
		t.Errorf("unexpected config %v", c)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
	if c.WordBytes() != 2 {
		t.Errorf("word bytes %d", c.WordBytes())
	}

	if err := c.Set("strike", "none"); err != nil || c.Strike {
		t.Errorf("strike none: %v %v", err, c.Strike)
	}
	if len(c.Variants()) != 1 {
		t.Errorf("variants %v", c.Variants())
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Error("expected unknown key error")
	}
	if err := c.Set("threshold", "x"); err == nil {
		t.Error("expected number error")
	}
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Config){
		"canvas":    func(c *Config) { c.CanvasWidth = 0 },
		"threshold": func(c *Config) { c.Threshold = 300 },
		"tall":      func(c *Config) { c.Heights = []Height{{Height: 16, PaddingTop: 1}} },
		"twice":     func(c *Config) { c.Heights = []Height{{Height: 13}, {Height: 13}} },
		"bpc":       func(c *Config) { c.BytesPerChar = 8 },
		"chars":     func(c *Config) { c.Charset = nil },
	} {
		c := Default()
		mod(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestComposeOverrides(t *testing.T) {
	c := Default()
	c.Narrow = []rune("I.")
	opts := c.Compose(c.Heights[0])
	if opts.PaddingTop != 1 || opts.PaddingBottom != 2 || opts.Width != 8 || opts.Height != 16 {
		t.Errorf("unexpected options %+v", opts)
	}
	if ov := opts.Overrides['I']; ov.WidthScale != 0.5 || ov.VAlign != nil {
		t.Errorf("I override %+v", ov)
	}
	ov := opts.Overrides['.']
	if ov.WidthScale != 0.5 || ov.HeightScale != 0.25 || ov.VAlign == nil || *ov.VAlign != compose.Bottom {
		t.Errorf(". override %+v", ov)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rom.env")
	data := "FONTROM_CANVAS=16x32\nFONTROM_HEIGHTS=28:2:2\nFONTROM_BPC=64\nFONTROM_ORDER=msb\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FONTROM_ORDER", "lsb")

	c := Default()
	if err := c.LoadEnv(path); err != nil {
		t.Fatal(err)
	}
	if c.CanvasWidth != 16 || c.CanvasHeight != 32 || c.BytesPerChar != 64 {
		t.Errorf("file settings not applied: %v", c)
	}
	if c.BitOrder != pack.LSBFirst {
		t.Error("environment should override the file")
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}

	if err := Default().LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("punct-scale"); got != "FONTROM_PUNCT_SCALE" {
		t.Errorf("got %s", got)
	}
}

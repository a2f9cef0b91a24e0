package config

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ParseSize parses "WIDTHxHEIGHT".
func ParseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	if w, err = strconv.Atoi(strings.TrimSpace(ws)); err != nil {
		return 0, 0, errors.Wrap(err, "width")
	}
	if h, err = strconv.Atoi(strings.TrimSpace(hs)); err != nil {
		return 0, 0, errors.Wrap(err, "height")
	}
	return w, h, nil
}

// ParseHeights parses "13:1:2,14" into heights with optional top and
// bottom padding (zero when omitted).
func ParseHeights(s string) ([]Height, error) {
	var out []Height
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) > 3 {
			return nil, errors.Errorf("height %q has too many fields", item)
		}
		var vals [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, errors.Errorf("height %q: bad number %q", item, p)
			}
			vals[i] = n
		}
		out = append(out, Height{Height: vals[0], PaddingTop: vals[1], PaddingBottom: vals[2]})
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no heights in %q", s)
	}
	return out, nil
}

// ParseCharset parses a comma separated list of codepoints and inclusive
// ranges. Codepoints are written 0x41, U+0041, 65 or as the character
// itself. Duplicates keep their first position.
func ParseCharset(s string) ([]rune, error) {
	var out []rune
	seen := make(map[rune]bool)
	add := func(r rune) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if utf8.RuneCountInString(item) == 1 {
			r, _ := utf8.DecodeRuneInString(item)
			add(r)
			continue
		}
		lo, hi, isRange := strings.Cut(item, "-")
		from, err := parseCodepoint(lo)
		if err != nil {
			return nil, err
		}
		to := from
		if isRange {
			if to, err = parseCodepoint(hi); err != nil {
				return nil, err
			}
		}
		if to < from {
			return nil, errors.Errorf("range %q runs backwards", item)
		}
		for r := from; r <= to; r++ {
			add(r)
		}
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no characters in %q", s)
	}
	return out, nil
}

func parseCodepoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		s = "0x" + s[2:]
	}
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil || n < 0 || n > utf8.MaxRune {
		return 0, errors.Errorf("bad codepoint %q", s)
	}
	return rune(n), nil
}

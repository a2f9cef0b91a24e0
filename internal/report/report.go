// Package report collects the conditions a run recovers from so that they
// can be returned to the caller instead of being printed and forgotten.
package report

import (
	"fmt"
	"log/slog"
	"strings"
)

// Kind classifies a recovered condition.
type Kind int

const (
	RasterizationFailure Kind = iota
	MissingData
	SectionCapacityExceeded
	GlyphTruncated
	ParseError
	MissingAddress
	ChecksumMismatch
)

var kindNames = [...]string{
	RasterizationFailure:    "rasterization failure",
	MissingData:             "missing data",
	SectionCapacityExceeded: "section capacity exceeded",
	GlyphTruncated:          "glyph truncated",
	ParseError:              "parse error",
	MissingAddress:          "missing address",
	ChecksumMismatch:        "checksum mismatch",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Entry is one recovered condition. Char is zero when the condition is
// not tied to a character (a malformed line, a checksum).
type Entry struct {
	Char    rune
	Kind    Kind
	Context string
}

func (e Entry) String() string {
	if e.Char == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %q (U+%04X) %s", e.Kind, e.Char, e.Char, e.Context)
}

// List is an ordered collection of entries.
type List []Entry

// Add appends an entry and logs it at warn level.
func (l *List) Add(log *slog.Logger, ch rune, kind Kind, format string, args ...interface{}) {
	e := Entry{Char: ch, Kind: kind, Context: fmt.Sprintf(format, args...)}
	*l = append(*l, e)
	if log != nil {
		log.Warn(e.Kind.String(), "char", string(ch), "context", e.Context)
	}
}

// Merge appends every entry of o.
func (l *List) Merge(o List) {
	*l = append(*l, o...)
}

// Count returns how many entries are of kind k.
func (l List) Count(k Kind) int {
	n := 0
	for _, e := range l {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Filter returns the entries of kind k.
func (l List) Filter(k Kind) List {
	var out List
	for _, e := range l {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func (l List) String() string {
	var sb strings.Builder
	for _, e := range l {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

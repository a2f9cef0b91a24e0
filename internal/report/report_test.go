package report

import (
	"strings"
	"testing"
)

func TestListAddAndFilter(t *testing.T) {
	var l List
	l.Add(nil, 'A', MissingData, "height %d %s", 13, "normal")
	l.Add(nil, 0, ParseError, "line %d", 7)
	l.Add(nil, 'B', MissingData, "height %d %s", 14, "strikeout")

	if len(l) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(l))
	}
	if n := l.Count(MissingData); n != 2 {
		t.Errorf("expected 2 missing data entries, got %d", n)
	}
	if f := l.Filter(ParseError); len(f) != 1 || f[0].Context != "line 7" {
		t.Errorf("unexpected filter result %v", f)
	}
	if !strings.Contains(l[0].String(), "U+0041") {
		t.Errorf("entry string should name the codepoint: %s", l[0])
	}
	if got := l[1].String(); got != "parse error: line 7" {
		t.Errorf("unexpected entry string %q", got)
	}
}

func TestKindString(t *testing.T) {
	if SectionCapacityExceeded.String() != "section capacity exceeded" {
		t.Error(SectionCapacityExceeded.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Error(Kind(99).String())
	}
}

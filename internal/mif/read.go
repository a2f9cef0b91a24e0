package mif

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/DabuXIX/T/internal/bitfont"
	"github.com/DabuXIX/T/internal/report"
)

// File is a decoded MIF: words keyed by address.
type File struct {
	Depth int // as declared; 0 if the header omitted it
	Width int // as declared; 0 if the header omitted it

	Words map[int][]byte
	// Labels holds the last comment seen before a data line, keyed by
	// that line's address.
	Labels map[int]string
}

type scanState int

const (
	inHeader scanState = iota
	inContent
)

// Decode reads a MIF. Malformed lines are reported and skipped; only read
// failures are returned as errors.
func Decode(r io.Reader) (*File, report.List, error) {
	log := bitfont.Logger()
	f := &File{Words: make(map[int][]byte), Labels: make(map[int]string)}

	var rep report.List
	state := inHeader
	label := ""
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "--") {
			label = strings.TrimSpace(strings.TrimPrefix(line, "--"))
			continue
		}
		if i := strings.Index(line, "--"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		if state == inHeader {
			if strings.HasPrefix(line, "CONTENT BEGIN") {
				state = inContent
				label = ""
				continue
			}
			if err := f.parseHeader(line); err != nil {
				rep.Add(log, 0, report.ParseError, "line %d: %v", lineNo, err)
			}
			continue
		}

		if strings.HasPrefix(line, "END;") {
			break
		}
		addrs, data, err := f.parseData(line)
		if err != nil {
			rep.Add(log, 0, report.ParseError, "line %d: %v", lineNo, err)
			continue
		}
		for i, a := range addrs {
			f.Words[a] = data[i%len(data)]
		}
		if label != "" {
			f.Labels[addrs[0]] = label
			label = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, rep, errors.Wrap(err, "mif: reading")
	}
	return f, rep, nil
}

func (f *File) parseHeader(line string) error {
	key, value, ok := strings.Cut(strings.TrimSuffix(line, ";"), "=")
	if !ok {
		return errors.Errorf("unexpected header line %q", line)
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	switch key {
	case "DEPTH", "WIDTH":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return errors.Errorf("bad %s value %q", key, value)
		}
		if key == "DEPTH" {
			f.Depth = n
		} else {
			f.Width = n
		}
	case "ADDRESS_RADIX", "DATA_RADIX":
		if value != "HEX" {
			return errors.Errorf("unsupported %s %q", key, value)
		}
	}
	return nil
}

// parseData handles "addr : data;", "addr : d0 d1 ...;" and
// "[lo..hi] : data;" lines.
func (f *File) parseData(line string) ([]int, [][]byte, error) {
	a, d, ok := strings.Cut(line, ":")
	if !ok {
		return nil, nil, errors.Errorf("missing ':' in %q", line)
	}
	a = strings.TrimSpace(a)
	d = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(d), ";"))

	var data [][]byte
	for _, field := range strings.Fields(d) {
		w, err := f.parseWord(field)
		if err != nil {
			return nil, nil, err
		}
		data = append(data, w)
	}
	if len(data) == 0 {
		return nil, nil, errors.Errorf("no data in %q", line)
	}

	if strings.HasPrefix(a, "[") {
		lo, hi, ok := strings.Cut(strings.Trim(a, "[]"), "..")
		if !ok {
			return nil, nil, errors.Errorf("bad address range %q", a)
		}
		from, err1 := parseHex(lo)
		to, err2 := parseHex(hi)
		if err1 != nil || err2 != nil || to < from {
			return nil, nil, errors.Errorf("bad address range %q", a)
		}
		if err := f.checkSpan(from, to); err != nil {
			return nil, nil, err
		}
		addrs := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			addrs = append(addrs, i)
		}
		return addrs, data, nil
	}

	addr, err := parseHex(a)
	if err != nil {
		return nil, nil, err
	}
	if err := f.checkSpan(addr, addr+len(data)-1); err != nil {
		return nil, nil, err
	}
	addrs := make([]int, len(data))
	for i := range addrs {
		addrs[i] = addr + i
	}
	return addrs, data, nil
}

// parseWord decodes a hex word to WIDTH/8 bytes, left padding short
// values. Without a declared width the digits decide the size.
func (f *File) parseWord(s string) ([]byte, error) {
	wb := (f.Width + 7) / 8
	if wb == 0 {
		wb = (len(s) + 1) / 2
	}
	if len(s) > wb*2 {
		s = strings.TrimLeft(s, "0")
		if len(s) > wb*2 {
			return nil, errors.Errorf("data %q wider than %d bits", s, wb*8)
		}
	}
	s = strings.Repeat("0", wb*2-len(s)) + s
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Errorf("bad hex data %q", s)
	}
	return b, nil
}

// maxSpan bounds the words one line may fill when DEPTH is not declared.
const maxSpan = 1 << 20

// checkSpan rejects a line filling addresses from..to that run past the
// declared depth, or that cover more than maxSpan words.
func (f *File) checkSpan(from, to int) error {
	if f.Depth > 0 && to >= f.Depth {
		return errors.Errorf("address %#x past DEPTH %d", to, f.Depth)
	}
	if to-from+1 > maxSpan {
		return errors.Errorf("range %#x..%#x covers more than %d words", from, to, maxSpan)
	}
	return nil
}

func parseHex(s string) (int, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 32)
	if err != nil {
		return 0, errors.Errorf("bad hex address %q", s)
	}
	return int(v), nil
}

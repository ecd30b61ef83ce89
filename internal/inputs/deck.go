package inputs

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed marks an input deck that could not be parsed.
var ErrMalformed = errors.New("malformed input deck")

type line struct {
	no   int
	text string
}

// deck walks the value lines of a "value ! comment" input file. The first
// line is a header; blank lines and === separators are skipped.
type deck struct {
	path  string
	lines []line
	pos   int
}

func readDeck(path string) (*deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := &deck{path: path}
	sc := bufio.NewScanner(f)
	no := 0
	for sc.Scan() {
		no++
		if no == 1 {
			continue
		}
		text := sc.Text()
		if i := strings.IndexByte(text, '!'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "===") {
			continue
		}
		d.lines = append(d.lines, line{no: no, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", d.path, err)
	}
	return d, nil
}

func (d *deck) next(what string) (line, error) {
	if d.pos >= len(d.lines) {
		return line{}, fmt.Errorf("%s: %w: unexpected end of file reading %s", d.path, ErrMalformed, what)
	}
	l := d.lines[d.pos]
	d.pos++
	return l, nil
}

func (d *deck) errorf(l line, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", d.path, l.no, ErrMalformed, fmt.Sprintf(format, args...))
}

func (d *deck) int(what string) (int, error) {
	l, err := d.next(what)
	if err != nil {
		return 0, err
	}
	s := strings.Fields(l.text)[0]
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// Decks written by hand sometimes carry "1." for integers.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, d.errorf(l, "%s: expected integer, got %q", what, s)
	}
	return int(f), nil
}

func (d *deck) float(what string) (float64, error) {
	l, err := d.next(what)
	if err != nil {
		return 0, err
	}
	s := strings.Fields(l.text)[0]
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, d.errorf(l, "%s: expected number, got %q", what, s)
	}
	return f, nil
}

// floats reads every number on the next line; at least min are required.
func (d *deck) floats(what string, min int) ([]float64, error) {
	l, err := d.next(what)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(l.text)
	vals := make([]float64, 0, len(fields))
	for _, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, d.errorf(l, "%s: expected number, got %q", what, s)
		}
		vals = append(vals, f)
	}
	if len(vals) < min {
		return nil, d.errorf(l, "%s: expected %d values, got %d", what, min, len(vals))
	}
	return vals, nil
}

func (d *deck) word(what string) (string, error) {
	l, err := d.next(what)
	if err != nil {
		return "", err
	}
	return strings.Fields(l.text)[0], nil
}

func (d *deck) positive(what string) (int, error) {
	n, err := d.int(what)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, d.errorf(d.lines[d.pos-1], "%s must be positive, got %d", what, n)
	}
	return n, nil
}

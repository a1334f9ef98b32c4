// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FormatList renders a colour list in the interchange text format, one entry
// per line between brackets, sorted by descending weight:
//
//	[
//	    ([171, 162, 157], 0.2150),
//	    ([84, 33, 35], 0.1820),
//	]
func FormatList(l List) string {
	sorted := l.Clone()
	sorted.SortByWeight()

	var b strings.Builder
	b.WriteString("[\n")
	for _, w := range sorted {
		fmt.Fprintf(&b, "    ([%d, %d, %d], %.4f),\n", w.R, w.G, w.B, w.Weight)
	}
	b.WriteString("]")
	return b.String()
}

// listSeparators maps the punctuation of the bracketed entry format to
// spaces so that both "([R, G, B], W)" and bare "R G B W" lines reduce to
// four fields.
var listSeparators = strings.NewReplacer("(", " ", ")", " ", "[", " ", "]", " ", ",", " ")

// ParseList reads a colour list from its interchange text format. Both the
// bracketed form produced by FormatList and bare "R G B weight" lines are
// accepted. Blank lines and lone brackets are ignored. Malformed entries
// report the offending line number.
func ParseList(r io.Reader) (List, error) {
	var list List

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "[" || line == "]" {
			continue
		}

		fields := strings.Fields(listSeparators.Replace(line))
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: want R G B weight, got %q: %w", lineNo, line, ErrInvalidInput)
		}

		var channels [3]uint8
		for i, field := range fields[:3] {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad channel value %q: %w", lineNo, field, ErrInvalidInput)
			}
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("line %d: channel value %d outside [0, 255]: %w", lineNo, v, ErrInvalidInput)
			}
			channels[i] = uint8(v)
		}

		weight, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad weight %q: %w", lineNo, fields[3], ErrInvalidInput)
		}
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("line %d: weight %f outside [0, 1]: %w", lineNo, weight, ErrInvalidInput)
		}

		list = append(list, Weighted{
			RGB:    RGB{R: channels[0], G: channels[1], B: channels[2]},
			Weight: weight,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading colour list: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no colour entries found: %w", ErrInvalidInput)
	}

	return list, nil
}

// ParseHex parses a "#rrggbb" or "rrggbb" hex string into an RGB colour.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("hex colour %q: want 6 digits: %w", s, ErrInvalidInput)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("hex colour %q: %w", s, ErrInvalidInput)
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

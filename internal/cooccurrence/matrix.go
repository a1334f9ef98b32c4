// Package cooccurrence computes how often colours from a fixed list appear
// together in the same image across a folder.
package cooccurrence

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/code-soul/chromapath/internal/colour"
)

// symmetryTolerance bounds the difference allowed between mirrored entries
// when validating parsed matrices.
const symmetryTolerance = 1e-9

// Matrix is a square, symmetric co-occurrence matrix. Entry (i, j) is the
// fraction of images that contain both colour i and colour j; the diagonal
// is fixed at 0.
type Matrix [][]float64

// NewMatrix returns a zeroed n x n matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Size returns the matrix dimension.
func (m Matrix) Size() int {
	return len(m)
}

// ValidateShape checks that the matrix is square and symmetric. Arbitrary
// non-negative weight grids, such as network input, only need the shape.
func (m Matrix) ValidateShape() error {
	n := len(m)
	if n == 0 {
		return fmt.Errorf("matrix is empty: %w", colour.ErrInvalidInput)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, colour.ErrInvalidInput)
		}
		for j, v := range row {
			if diff := v - m[j][i]; diff > symmetryTolerance || diff < -symmetryTolerance {
				return fmt.Errorf("matrix not symmetric at (%d, %d): %f vs %f: %w", i, j, v, m[j][i], colour.ErrInvalidInput)
			}
		}
	}
	return nil
}

// Validate checks that the matrix is a normalized co-occurrence result:
// square, symmetric, entries in [0, 1].
func (m Matrix) Validate() error {
	if err := m.ValidateShape(); err != nil {
		return err
	}
	for i, row := range m {
		for j, v := range row {
			if v < 0 || v > 1 {
				return fmt.Errorf("entry (%d, %d) = %f outside [0, 1]: %w", i, j, v, colour.ErrInvalidInput)
			}
		}
	}
	return nil
}

// Format renders the matrix as the bracketed interchange grid, one row per
// line:
//
//	[
//	    [0.00, 0.50],
//	    [0.50, 0.00],
//	]
//
// A precision below zero falls back to two decimal places.
func (m Matrix) Format(precision int) string {
	if precision < 0 {
		precision = 2
	}

	var b strings.Builder
	b.WriteString("[\n")
	for _, row := range m {
		b.WriteString("    [")
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%.*f", precision, v)
		}
		b.WriteString("],\n")
	}
	b.WriteString("]")
	return b.String()
}

// matrixSeparators maps the punctuation of the bracketed grid to spaces so
// that both "[0.00, 0.50]," rows and bare "0.00 0.50" rows reduce to plain
// numeric fields.
var matrixSeparators = strings.NewReplacer("[", " ", "]", " ", ",", " ")

// ParseMatrix reads a matrix from its interchange text form. Both the
// bracketed grid produced by Format and bare whitespace-delimited rows are
// accepted. The result must be square and symmetric; callers expecting a
// normalized co-occurrence matrix additionally run Validate.
func ParseMatrix(r io.Reader) (Matrix, error) {
	var m Matrix

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "[" || line == "]" {
			continue
		}

		fields := strings.Fields(matrixSeparators.Replace(line))
		if len(fields) == 0 {
			continue
		}

		row := make([]float64, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad matrix value %q: %w", lineNo, field, colour.ErrInvalidInput)
			}
			row = append(row, v)
		}
		m = append(m, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}

	if err := m.ValidateShape(); err != nil {
		return nil, err
	}
	return m, nil
}

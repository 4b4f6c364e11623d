package planar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"

	"doseprofiler/internal/models"
)

// DefaultDelimiter separates cells in planning-system exports.
const DefaultDelimiter = ','

// ValidDelimiter returns ErrInvalidArgument unless delim can separate
// cells. Quotes, line breaks and invalid runes cannot.
func ValidDelimiter(delim rune) error {
	if delim == '"' || delim == '\r' || delim == '\n' || delim == 0 || !utf8.ValidRune(delim) || delim == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q: %w", delim, models.ErrInvalidArgument)
	}
	return nil
}

// Parse reads a planar dose table from r. Trailing empty cells, left by
// exporters that end every line with the delimiter, are dropped. Every row
// must then have the same number of cells, and the table needs at least two
// rows and two columns including the coordinate headers.
func Parse(r io.Reader, delim rune) (*Grid, error) {
	if err := ValidDelimiter(delim); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%v: %w", err, models.ErrMalformedFile)
		}
		return nil, fmt.Errorf("failed to read planar dose: %w: %w", models.ErrIO, err)
	}

	for i, rec := range records {
		records[i] = trimTrailingEmpty(rec)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("planar dose has %d rows, need at least 2: %w", len(records), models.ErrMalformedFile)
	}
	width := len(records[0])
	if width < 2 {
		return nil, fmt.Errorf("planar dose has %d columns, need at least 2: %w", width, models.ErrMalformedFile)
	}

	nr, nc := len(records)-1, width-1
	g := &Grid{
		rows:   make([]float64, nr),
		cols:   make([]float64, nc),
		values: mat.NewDense(nr, nc, nil),
	}

	for c := 0; c < nc; c++ {
		if g.cols[c], err = parseCell(records[0][c+1], 1, c+2); err != nil {
			return nil, err
		}
	}
	for r, rec := range records[1:] {
		line := r + 2
		if len(rec) != width {
			return nil, fmt.Errorf("line %d has %d cells, header has %d: %w", line, len(rec), width, models.ErrMalformedFile)
		}
		if g.rows[r], err = parseCell(rec[0], line, 1); err != nil {
			return nil, err
		}
		for c := 0; c < nc; c++ {
			val, err := parseCell(rec[c+1], line, c+2)
			if err != nil {
				return nil, err
			}
			g.values.Set(r, c, val)
		}
	}
	return g, nil
}

func trimTrailingEmpty(rec []string) []string {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	n := len(rec)
	for n > 0 && rec[n-1] == "" {
		n--
	}
	return rec[:n]
}

func parseCell(s string, line, col int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d, column %d: %q is not a number: %w", line, col, s, models.ErrMalformedFile)
	}
	return v, nil
}

// Load reads the planar dose table at path.
func Load(path string, delim rune) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open planar dose: %w: %w", models.ErrIO, err)
	}
	defer file.Close()

	g, err := Parse(file, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Write writes g in the layout Parse reads. Values are formatted with the
// shortest representation that parses back to the same float64.
func (g *Grid) Write(w io.Writer, delim rune) error {
	if err := ValidDelimiter(delim); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = delim

	header := make([]string, 1, len(g.cols)+1)
	for _, c := range g.cols {
		header = append(header, format(c))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write planar header: %w: %w", models.ErrIO, err)
	}

	rec := make([]string, len(g.cols)+1)
	for r, y := range g.rows {
		rec[0] = format(y)
		for c := range g.cols {
			rec[c+1] = format(g.values.At(r, c))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write planar row %d: %w: %w", r, models.ErrIO, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush planar dose: %w: %w", models.ErrIO, err)
	}
	return nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

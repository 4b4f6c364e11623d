package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"doseprofiler/internal/models"
)

// ReadColumns reads a measured profile from column-oriented text such as a
// water-tank scan or a Monte-Carlo tally. The first skipRows lines are
// ignored, as are blank lines and lines starting with '#'. Columns may be
// separated by whitespace, commas or semicolons.
func ReadColumns(r io.Reader, xCol, yCol, skipRows int) (*Profile, error) {
	if xCol < 0 || yCol < 0 {
		return nil, fmt.Errorf("negative column index: %w", models.ErrInvalidArgument)
	}

	var pos, val []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if line <= skipRows {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == ';'
		})
		if xCol >= len(fields) || yCol >= len(fields) {
			return nil, fmt.Errorf("line %d has %d columns: %w", line, len(fields), models.ErrMalformedFile)
		}
		x, err := strconv.ParseFloat(fields[xCol], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, models.ErrMalformedFile)
		}
		y, err := strconv.ParseFloat(fields[yCol], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, models.ErrMalformedFile)
		}
		pos = append(pos, x)
		val = append(val, y)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile: %w: %w", models.ErrIO, err)
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("no samples found: %w", models.ErrMalformedFile)
	}
	return FromPairs(pos, val)
}

// LoadColumns opens path and reads it with ReadColumns.
func LoadColumns(path string, xCol, yCol, skipRows int) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile file: %w: %w", models.ErrIO, err)
	}
	defer file.Close()

	p, err := ReadColumns(file, xCol, yCol, skipRows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

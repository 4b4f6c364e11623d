// Package export writes profiles to disk for comparison with measured data
// in other tools: delimited text that plotting scripts and spreadsheets
// read directly, and NumPy .npy arrays.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/profile"
)

// Format names a profile file format.
type Format string

const (
	Text Format = "text" // tab separated
	CSV  Format = "csv"
	Npy  Format = "npy"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, CSV, Npy:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (must be text, csv, or npy): %w", s, models.ErrInvalidArgument)
}

// Ext returns the conventional file extension for f.
func (f Format) Ext() string {
	switch f {
	case CSV:
		return ".csv"
	case Npy:
		return ".npy"
	}
	return ".txt"
}

// WriteText writes one "position<delim>value" line per sample, in the
// column layout profile.ReadColumns reads.
func WriteText(w io.Writer, p *profile.Profile, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	pos, val := p.Positions(), p.Values()
	for i := range pos {
		rec := []string{
			strconv.FormatFloat(pos[i], 'g', -1, 64),
			strconv.FormatFloat(val[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write sample %d: %w: %w", i, models.ErrIO, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush profile: %w: %w", models.ErrIO, err)
	}
	return nil
}

// WriteProfile writes p to path in the given format.
func WriteProfile(path string, p *profile.Profile, format Format) error {
	switch format {
	case Npy:
		return WriteNpy(path, p)
	case Text, CSV:
	default:
		return fmt.Errorf("unknown format %q: %w", format, models.ErrInvalidArgument)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w: %w", models.ErrIO, err)
	}
	defer file.Close()

	delim := '\t'
	if format == CSV {
		delim = ','
	}
	if err := WriteText(file, p, delim); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close profile file: %w: %w", models.ErrIO, err)
	}
	return nil
}

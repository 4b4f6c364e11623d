package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/profile"
)

// WriteNpy writes p as an N x 2 float64 array: column 0 positions,
// column 1 values.
func WriteNpy(path string, p *profile.Profile) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create npy file: %w: %w", models.ErrIO, err)
	}
	// gonpy closes the file after a successful write only
	defer file.Close()

	w, err := gonpy.NewWriter(file)
	if err != nil {
		return fmt.Errorf("failed to create npy writer: %w: %w", models.ErrIO, err)
	}
	w.Shape = []int{p.Len(), 2}
	w.Version = 2

	pos, val := p.Positions(), p.Values()
	data := make([]float64, 0, 2*len(pos))
	for i := range pos {
		data = append(data, pos[i], val[i])
	}
	if err := w.WriteFloat64(data); err != nil {
		return fmt.Errorf("failed to write npy file %s: %w: %w", path, models.ErrIO, err)
	}
	return nil
}

// ReadNpy reads an N x 2 (or wider) float64 array written by WriteNpy or
// numpy.save into a profile.
func ReadNpy(path string) (*profile.Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open npy file: %w: %w", models.ErrIO, err)
	}
	defer file.Close()

	r, err := gonpy.NewReader(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, models.ErrMalformedFile)
	}
	if len(r.Shape) != 2 || r.Shape[0] < 1 || r.Shape[1] < 2 {
		return nil, fmt.Errorf("%s: npy shape %v is not N x 2: %w", path, r.Shape, models.ErrMalformedFile)
	}
	data, err := r.GetFloat64()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, models.ErrMalformedFile)
	}

	rows, cols := r.Shape[0], r.Shape[1]
	var m mat.Matrix = mat.NewDense(rows, cols, data)
	if r.ColumnMajor {
		m = mat.NewDense(cols, rows, data).T()
	}
	return profile.FromMatrix(m)
}

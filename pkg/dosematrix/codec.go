package dosematrix

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"doseprofiler/internal/models"
)

// Binary dose-matrix layout, all little-endian:
//
//	float64  totalHistories
//	float32  weight
//	int32    nx, ny, nz
//	float32  originX, originY, originZ
//	float32  spacingX, spacingY, spacingZ
//	float32  dose[nx*ny*nz]         x fastest
//	float32  uncertainty[nx*ny*nz]  x fastest
//
// The format always carries both arrays.

// EncodedSize returns the file size of a volume with header h.
func EncodedSize(h models.Header) int64 {
	return models.HeaderSize + 2*4*int64(h.VoxelCount())
}

// Load reads a binary dose-matrix file. The file must hold at least the
// header plus both voxel arrays; trailing bytes are ignored.
func Load(path string) (*DoseVolume, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dose file: %w: %w", models.ErrIO, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat dose file: %w: %w", models.ErrIO, err)
	}

	v, err := decode(bufio.NewReader(file), info.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Decode reads a dose matrix from r.
func Decode(r io.Reader) (*DoseVolume, error) {
	return decode(r, -1)
}

// decode reads a volume from r. When size is not negative it is the number
// of bytes available and is checked against the header before any voxel
// array is allocated.
func decode(r io.Reader, size int64) (*DoseVolume, error) {
	if size >= 0 && size < models.HeaderSize {
		return nil, fmt.Errorf("%d bytes is shorter than the %d byte header: %w",
			size, models.HeaderSize, models.ErrMalformedFile)
	}

	var h models.Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, readError("header", err)
	}

	n := h.VoxelCount()
	if n == 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%dx%d: %w", h.NX, h.NY, h.NZ, models.ErrMalformedFile)
	}
	if size >= 0 {
		if want := EncodedSize(h); size < want {
			return nil, fmt.Errorf("%dx%dx%d grid needs %d bytes, file has %d: %w",
				h.NX, h.NY, h.NZ, want, size, models.ErrMalformedFile)
		}
	}

	v := fromHeader(h)
	var err error
	if v.dose, err = readFloats(r, n); err != nil {
		return nil, readError("dose array", err)
	}
	if v.unc, err = readFloats(r, n); err != nil {
		return nil, readError("uncertainty array", err)
	}
	return v, nil
}

// readChunk caps the number of voxels readFloats buffers before the data
// has arrived. The result grows only as values are read.
const readChunk = 1 << 16

func readFloats(r io.Reader, n int) ([]float64, error) {
	out := make([]float64, 0, min(n, readChunk))
	raw := make([]float32, min(n, readChunk))
	for len(out) < n {
		buf := raw[:min(n-len(out), len(raw))]
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, err
		}
		for _, f := range buf {
			out = append(out, float64(f))
		}
	}
	return out, nil
}

// readError classifies a failed read: running out of data means the file is
// truncated, anything else is an I/O failure.
func readError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("truncated %s: %w", what, models.ErrMalformedFile)
	}
	return fmt.Errorf("failed to read %s: %w: %w", what, models.ErrIO, err)
}

// Encode writes v to w in the binary dose-matrix layout. A volume without
// uncertainty is written with a zero uncertainty array.
func Encode(w io.Writer, v *DoseVolume) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, v.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w: %w", models.ErrIO, err)
	}
	if err := writeFloats(bw, v.dose); err != nil {
		return fmt.Errorf("failed to write dose array: %w: %w", models.ErrIO, err)
	}
	unc := v.unc
	if unc == nil {
		unc = make([]float64, len(v.dose))
	}
	if err := writeFloats(bw, unc); err != nil {
		return fmt.Errorf("failed to write uncertainty array: %w: %w", models.ErrIO, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w: %w", models.ErrIO, err)
	}
	return nil
}

func writeFloats(w io.Writer, data []float64) error {
	raw := make([]float32, len(data))
	for i, f := range data {
		raw[i] = float32(f)
	}
	return binary.Write(w, binary.LittleEndian, raw)
}

// Save writes v to path. The data goes to a temporary file in the same
// directory which then replaces path, so a failed save never leaves a
// partial dose file behind.
func Save(path string, v *DoseVolume) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create dose file: %w: %w", models.ErrIO, err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := Encode(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Chmod(0644); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to set dose file mode: %w: %w", models.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close dose file: %w: %w", models.ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace dose file: %w: %w", models.ErrIO, err)
	}
	return nil
}

package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kshedden/gonpy"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/profile"
)

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.NewUniform(5, 0.5, -1, []float64{10, 40, 100, 40, 10})
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	p.YScale = 0.01
	return p
}

func sameSamples(t *testing.T, want, got *profile.Profile) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("Expected %d samples, got %d", want.Len(), got.Len())
	}
	wp, gp := want.Positions(), got.Positions()
	wv, gv := want.Values(), got.Values()
	for i := range wp {
		if wp[i] != gp[i] || wv[i] != gv[i] {
			t.Errorf("Sample %d: expected (%v, %v), got (%v, %v)", i, wp[i], wv[i], gp[i], gv[i])
		}
	}
}

func TestWriteText(t *testing.T) {
	p := testProfile(t)
	var buf bytes.Buffer
	if err := WriteText(&buf, p, '\t'); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	back, err := profile.ReadColumns(&buf, 0, 1, 0)
	if err != nil {
		t.Fatalf("ReadColumns: %v", err)
	}
	sameSamples(t, p, back)
}

func TestWriteProfileFormats(t *testing.T) {
	p := testProfile(t)
	dir := t.TempDir()

	for _, f := range []Format{Text, CSV} {
		path := filepath.Join(dir, "profile"+f.Ext())
		if err := WriteProfile(path, p, f); err != nil {
			t.Fatalf("WriteProfile(%s): %v", f, err)
		}
		back, err := profile.LoadColumns(path, 0, 1, 0)
		if err != nil {
			t.Fatalf("LoadColumns(%s): %v", f, err)
		}
		sameSamples(t, p, back)
	}

	if err := WriteProfile(filepath.Join(dir, "x"), p, Format("xml")); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestNpyRoundTrip(t *testing.T) {
	p := testProfile(t)
	path := filepath.Join(t.TempDir(), "profile.npy")

	if err := WriteProfile(path, p, Npy); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}
	back, err := ReadNpy(path)
	if err != nil {
		t.Fatalf("ReadNpy: %v", err)
	}
	sameSamples(t, p, back)
}

func TestReadNpyMissing(t *testing.T) {
	if _, err := ReadNpy(filepath.Join(t.TempDir(), "missing.npy")); !errors.Is(err, models.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
}

// openFiles counts the descriptors held by the test process.
func openFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("descriptor count unavailable: %v", err)
	}
	return len(entries)
}

func TestReadNpyReleasesFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "profile.npy")
	if err := WriteNpy(good, testProfile(t)); err != nil {
		t.Fatalf("WriteNpy: %v", err)
	}

	// A one-dimensional array is rejected after the file has been opened
	flat := filepath.Join(dir, "flat.npy")
	w, err := gonpy.NewFileWriter(flat)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	w.Shape = []int{3}
	if err := w.WriteFloat64([]float64{1, 2, 3}); err != nil {
		t.Fatalf("WriteFloat64: %v", err)
	}

	garbage := filepath.Join(dir, "garbage.npy")
	if err := os.WriteFile(garbage, []byte("not numpy"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	before := openFiles(t)
	for i := 0; i < 20; i++ {
		if _, err := ReadNpy(good); err != nil {
			t.Fatalf("ReadNpy: %v", err)
		}
		if _, err := ReadNpy(flat); !errors.Is(err, models.ErrMalformedFile) {
			t.Fatalf("Expected ErrMalformedFile for 1-D array, got %v", err)
		}
		if _, err := ReadNpy(garbage); !errors.Is(err, models.ErrMalformedFile) {
			t.Fatalf("Expected ErrMalformedFile for garbage, got %v", err)
		}
	}
	if after := openFiles(t); after > before {
		t.Errorf("Expected no leaked descriptors, went from %d to %d", before, after)
	}

	if err := os.Remove(flat); err != nil {
		t.Errorf("Expected rejected file to be removable, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "csv", "npy"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("json"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

package models

import (
	"errors"
	"testing"
)

func TestHeaderSizeMatchesLayout(t *testing.T) {
	if HeaderSize != 48 {
		t.Errorf("Expected header size 48, got %d", HeaderSize)
	}
}

func TestVoxelCount(t *testing.T) {
	h := Header{NX: 2, NY: 3, NZ: 4}
	if got := h.VoxelCount(); got != 24 {
		t.Errorf("Expected 24 voxels, got %d", got)
	}
	h.NY = 0
	if got := h.VoxelCount(); got != 0 {
		t.Errorf("Expected 0 voxels for empty dimension, got %d", got)
	}
}

func TestParseAxis(t *testing.T) {
	for s, want := range map[string]Axis{"x": AxisX, "Y": AxisY, "z": AxisZ} {
		got, err := ParseAxis(s)
		if err != nil {
			t.Fatalf("ParseAxis(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("Expected %v for %q, got %v", want, s, got)
		}
	}
	if _, err := ParseAxis("w"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseChannel(t *testing.T) {
	if c, err := ParseChannel("U"); err != nil || c != Uncertainty {
		t.Errorf("Expected Uncertainty, got %v (%v)", c, err)
	}
	if _, err := ParseChannel("X"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestFixedPoint(t *testing.T) {
	tests := []struct {
		axis Axis
		want Point
	}{
		{AxisX, Point{X: 0, Y: 1, Z: 2}},
		{AxisY, Point{X: 1, Y: 0, Z: 2}},
		{AxisZ, Point{X: 1, Y: 2, Z: 0}},
	}
	for _, tt := range tests {
		if got := FixedPoint(tt.axis, 1, 2); got != tt.want {
			t.Errorf("FixedPoint(%v): expected %+v, got %+v", tt.axis, tt.want, got)
		}
	}
}

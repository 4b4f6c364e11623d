package models

import "fmt"

// Axis selects one of the three physical axes of a dose grid.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the valid axes in ascending order.
var Axes = []Axis{AxisX, AxisY, AxisZ}

// Valid reports whether a is one of AxisX, AxisY or AxisZ.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Others returns the two remaining axes in ascending order.
func (a Axis) Others() (Axis, Axis) {
	switch a {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// ParseAxis accepts "x", "y", "z" in either case.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q (must be x, y, or z): %w", s, ErrInvalidArgument)
}

// Channel selects which voxel array is sampled.
type Channel int

const (
	Dose Channel = iota
	Uncertainty
)

func (c Channel) String() string {
	switch c {
	case Dose:
		return "dose"
	case Uncertainty:
		return "uncertainty"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// ParseChannel accepts the long names as well as the "D"/"U" shorthands.
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "dose", "D", "d":
		return Dose, nil
	case "uncertainty", "U", "u":
		return Uncertainty, nil
	}
	return 0, fmt.Errorf("invalid channel %q (must be dose or uncertainty): %w", s, ErrInvalidArgument)
}

// Point is a physical position in grid space.
type Point struct {
	X, Y, Z float64
}

// Coord returns the component of p along a.
func (p Point) Coord(a Axis) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// With returns a copy of p with the component along a replaced by v.
func (p Point) With(a Axis, v float64) Point {
	switch a {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	case AxisZ:
		p.Z = v
	}
	return p
}

// FixedPoint builds the point for a profile along a whose two other axes are
// fixed at off1 and off2, assigned to the remaining axes in ascending order.
func FixedPoint(a Axis, off1, off2 float64) Point {
	first, second := a.Others()
	return Point{}.With(first, off1).With(second, off2)
}

package calcexpr

import (
	"fmt"
	"math"
	"strings"
)

// AngleMode selects the unit of angles given to and returned by
// trigonometric functions.
type AngleMode int8

const (
	// Degrees measures angles in degrees. It is the default.
	Degrees AngleMode = iota
	// Radians measures angles in radians.
	Radians
)

// String returns "deg" or "rad".
func (m AngleMode) String() string {
	switch m {
	case Degrees:
		return "deg"
	case Radians:
		return "rad"
	default:
		return fmt.Sprintf("AngleMode(%d)", int8(m))
	}
}

// ParseAngleMode parses the text form of an angle mode. It accepts deg,
// degrees, rad, and radians in any case.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	default:
		return Degrees, fmt.Errorf("unknown angle mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AngleMode) MarshalText() ([]byte, error) {
	switch m {
	case Degrees, Radians:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("invalid angle mode %d", int8(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AngleMode) UnmarshalText(text []byte) error {
	v, err := ParseAngleMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// turn is the size of a full turn in the mode's unit.
func (m AngleMode) turn() float64 {
	if m == Radians {
		return 2 * math.Pi
	}
	return 360
}

// radians converts an angle in the mode's unit to radians.
func (m AngleMode) radians(x float64) float64 {
	if m == Radians {
		return x
	}
	return x * math.Pi / 180
}

// fromRadians converts an angle in radians to the mode's unit.
func (m AngleMode) fromRadians(x float64) float64 {
	if m == Radians {
		return x
	}
	return x * 180 / math.Pi
}

// piFrac gives the angle num/den·π in the mode's unit.
func (m AngleMode) piFrac(num, den float64) float64 {
	if m == Radians {
		return num * math.Pi / den
	}
	return 180 * num / den
}

package geometry

import "math"

// Kind classifies a metric by the power of length it carries, which decides how it
// is normalised.
type Kind int

const (
	// Area metrics carry length^2 (CSA)
	Area Kind = iota
	// SecondMoment metrics carry length^4 about an in-plane axis (I)
	SecondMoment
	// Modulus metrics carry length^3 about an in-plane axis (Z)
	Modulus
	// PolarMoment is the polar second moment (Jz), length^4
	PolarMoment
	// PolarModulus is the polar section modulus (Zpol), length^3
	PolarModulus
)

// Doube removes the length scale from a physical metric: the matching root of the
// value divided by the segment length. Area takes the square root, second moments the
// fourth root and moduli the cube root. A non-positive length yields 0.
func Doube(kind Kind, value, length float64) float64 {
	if length <= 0 || value <= 0 {
		return 0
	}
	switch kind {
	case Area:
		return math.Sqrt(value) / length
	case SecondMoment, PolarMoment:
		return math.Pow(value, 1.0/4) / length
	default:
		return math.Cbrt(value) / length
	}
}

// CircleReference returns the metric of a solid circle whose area equals csa.
func CircleReference(kind Kind, csa float64) float64 {
	if csa <= 0 {
		return 0
	}
	r := math.Sqrt(csa / math.Pi)
	switch kind {
	case Area:
		return csa
	case SecondMoment:
		return math.Pi * math.Pow(r, 4) / 4
	case Modulus:
		return math.Pi * r * r * r / 4
	case PolarMoment:
		return math.Pi * math.Pow(r, 4) / 2
	default:
		return math.Pi * r * r * r / 2
	}
}

// Summers divides a physical metric by the same metric of a solid circle with the same
// cross-sectional area. The ratio is 1 for a solid circle and grows as material moves
// away from the centroid. A zero area yields 0.
func Summers(kind Kind, value, csa float64) float64 {
	ref := CircleReference(kind, csa)
	if ref == 0 {
		return 0
	}
	return value / ref
}

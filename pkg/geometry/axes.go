package geometry

import "math"

// PrincipalAxes holds the section properties about the principal axes of a slice.
//
// Theta is the angle in radians, in (-pi/2, pi/2], between the x axis and the axis
// carrying the larger second moment Imajor. Iminor is taken about the orthogonal axis.
// R values are the largest distances of a pixel centre from the respective axis and Z
// values the matching section moduli. Jz is the polar moment, Rmax the largest radial
// distance from the centroid and Zpol the polar section modulus.
type PrincipalAxes struct {
	Theta          float64
	Imajor, Iminor float64
	Rmajor, Rminor float64
	Zmajor, Zminor float64
	Jz, Zpol, Rmax float64
}

// CustomAxes holds section properties about a caller-supplied neutral axis at Angle
// (radians) and the loading axis orthogonal to it.
type CustomAxes struct {
	Angle    float64
	Ina, Ila float64
	Rna, Rla float64
	Zna, Zla float64
}

// SolvePrincipal diagonalises the moment tensor of a slice and evaluates the section
// properties about both principal axes. An empty pixel set yields all zeros.
func SolvePrincipal(points PixelSet, c Centroid, m CentralMoments) PrincipalAxes {
	if len(points) == 0 {
		return PrincipalAxes{}
	}

	theta := 0.0
	if m.Ixy != 0 {
		d := m.Ix - m.Iy
		theta = math.Atan((d + math.Sqrt(d*d+4*m.Ixy*m.Ixy)) / (2 * m.Ixy))
	}

	axes := PrincipalAxes{Theta: theta}
	axes.Imajor, axes.Rmajor, axes.Iminor, axes.Rminor = project(points, c, theta)

	// The arctan root can land on the axis of the smaller moment, so the ordering
	// is enforced here rather than trusted.
	if axes.Imajor < axes.Iminor {
		axes.Imajor, axes.Iminor = axes.Iminor, axes.Imajor
		axes.Rmajor, axes.Rminor = axes.Rminor, axes.Rmajor
		axes.Theta = rotateQuarter(theta)
	}
	axes.Zmajor = modulus(axes.Imajor, axes.Rmajor)
	axes.Zminor = modulus(axes.Iminor, axes.Rminor)

	for _, p := range points {
		dx := float64(p.X) - c.X
		dy := float64(p.Y) - c.Y
		axes.Rmax = math.Max(axes.Rmax, math.Sqrt(dx*dx+dy*dy))
	}
	axes.Jz = m.Jz
	axes.Zpol = modulus(m.Jz, axes.Rmax)

	return axes
}

// ProjectCustom evaluates section properties about the neutral axis at angle (radians,
// same convention as PrincipalAxes.Theta) and about its orthogonal loading axis.
func ProjectCustom(points PixelSet, c Centroid, angle float64) CustomAxes {
	axes := CustomAxes{Angle: angle}
	if len(points) == 0 {
		return axes
	}
	axes.Ina, axes.Rna, axes.Ila, axes.Rla = project(points, c, angle)
	axes.Zna = modulus(axes.Ina, axes.Rna)
	axes.Zla = modulus(axes.Ila, axes.Rla)
	return axes
}

// project returns the second moment and extreme fibre distance about the axis at
// theta through c (ia, ra) and about the axis orthogonal to it (ib, rb).
func project(points PixelSet, c Centroid, theta float64) (ia, ra, ib, rb float64) {
	sin, cos := math.Sincos(theta)
	for _, p := range points {
		dx := float64(p.X) - c.X
		dy := float64(p.Y) - c.Y

		a := dy*cos - dx*sin
		ia += pixelInertia + a*a
		ra = math.Max(ra, math.Abs(a))

		b := dx*cos + dy*sin
		ib += pixelInertia + b*b
		rb = math.Max(rb, math.Abs(b))
	}
	return ia, ra, ib, rb
}

// modulus divides a moment by its extreme fibre distance. A zero distance (single
// pixel or degenerate line) returns the moment unchanged.
func modulus(i, r float64) float64 {
	if r == 0 {
		return i
	}
	return i / r
}

// rotateQuarter turns an axis angle by pi/2 and folds it back into (-pi/2, pi/2].
func rotateQuarter(theta float64) float64 {
	theta += math.Pi / 2
	if theta > math.Pi/2 {
		theta -= math.Pi
	}
	return theta
}

// Scale converts the principal axis properties to physical units. Theta is unchanged.
func (a PrincipalAxes) Scale(size PixelSize) PrincipalAxes {
	i, z := size.SecondMoment(), size.Modulus()
	return PrincipalAxes{
		Theta:  a.Theta,
		Imajor: a.Imajor * i,
		Iminor: a.Iminor * i,
		Rmajor: a.Rmajor * size.Width,
		Rminor: a.Rminor * size.Width,
		Zmajor: a.Zmajor * z,
		Zminor: a.Zminor * z,
		Jz:     a.Jz * i,
		Zpol:   a.Zpol * z,
		Rmax:   a.Rmax * size.Width,
	}
}

// Scale converts the custom axis properties to physical units. Angle is unchanged.
func (a CustomAxes) Scale(size PixelSize) CustomAxes {
	i, z := size.SecondMoment(), size.Modulus()
	return CustomAxes{
		Angle: a.Angle,
		Ina:   a.Ina * i,
		Ila:   a.Ila * i,
		Rna:   a.Rna * size.Width,
		Rla:   a.Rla * size.Width,
		Zna:   a.Zna * z,
		Zla:   a.Zla * z,
	}
}

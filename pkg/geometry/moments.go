package geometry

// pixelInertia is the second moment of a unit square about its own centroid.
// Every pixel is treated as a finite unit cell rather than a point mass.
const pixelInertia = 1.0 / 12.0

// RawMoments holds the zeroth and first raw moments of a pixel set
type RawMoments struct {
	// N is the pixel count (Sn)
	N int

	// SumX and SumY are the coordinate sums (Sx, Sy)
	SumX, SumY float64
}

// AccumulateRaw reduces a pixel set to its count and coordinate sums in one pass.
func AccumulateRaw(points PixelSet) RawMoments {
	var raw RawMoments
	for _, p := range points {
		raw.N++
		raw.SumX += float64(p.X)
		raw.SumY += float64(p.Y)
	}
	return raw
}

// Centroid is the mean pixel position of a slice in pixel coordinates
type Centroid struct {
	X, Y float64
}

// Centroid returns the centroid, or ok=false for an empty set
func (r RawMoments) Centroid() (c Centroid, ok bool) {
	if r.N == 0 {
		return Centroid{}, false
	}
	n := float64(r.N)
	return Centroid{X: r.SumX / n, Y: r.SumY / n}, true
}

// CentralMoments are the second moments of area about the centroid.
//
// Ix is taken about the horizontal axis through the centroid (it sums squared y
// offsets), Iy about the vertical one. Ixy is the product moment and Jz the polar
// moment, accumulated from squared radial offsets only.
type CentralMoments struct {
	Ix, Iy, Ixy, Jz float64
}

// ResolveCentral accumulates the central moments of points about c.
// An empty set yields all zeros.
func ResolveCentral(points PixelSet, c Centroid) CentralMoments {
	var m CentralMoments
	for _, p := range points {
		dx := c.X - float64(p.X)
		dy := c.Y - float64(p.Y)
		m.Ix += pixelInertia + dy*dy
		m.Iy += pixelInertia + dx*dx
		m.Ixy += dx * dy
		m.Jz += dx*dx + dy*dy
	}
	return m
}

// Scale converts the moments to mm^4
func (m CentralMoments) Scale(size PixelSize) CentralMoments {
	f := size.SecondMoment()
	return CentralMoments{
		Ix:  m.Ix * f,
		Iy:  m.Iy * f,
		Ixy: m.Ixy * f,
		Jz:  m.Jz * f,
	}
}

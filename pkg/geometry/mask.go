// Package geometry computes beam-theory cross-section properties of a single binary
// slice: area, centroid, second moments of area, section moduli, principal and custom
// axes, perimeter, circularity and maximum Feret diameter.
//
// All routines take the pixel data they need and return new values. Results are in
// pixel units unless a method says otherwise; the Scale methods convert them to
// physical units using the slice PixelSize.
package geometry

// PixelSize is the physical extent of one slice pixel in mm.
type PixelSize struct {
	// Depth is the pixel size along the sweep axis (the slice thickness)
	Depth float64

	// Height is the pixel size along the in-plane y direction
	Height float64

	// Width is the pixel size along the in-plane x direction
	Width float64
}

// Area returns the physical area of one pixel in mm^2
func (s PixelSize) Area() float64 {
	return s.Height * s.Width
}

// SecondMoment returns the factor converting a pixel-unit second moment to mm^4
func (s PixelSize) SecondMoment() float64 {
	return s.Height * s.Height * s.Width * s.Width
}

// Modulus returns the factor converting a pixel-unit section modulus to mm^3
func (s PixelSize) Modulus() float64 {
	if s.Width == 0 {
		return 0
	}
	return s.SecondMoment() / s.Width
}

// Point is an integer lattice coordinate of a mask pixel. X is the column, Y the row.
type Point struct {
	X, Y int
}

// PixelSet is the list of coordinates where a mask is true, in row-major order
type PixelSet []Point

// PixelMask is a 2D binary grid for one slice.
type PixelMask struct {
	// Width and Height are the grid dimensions in pixels
	Width, Height int

	// Pixels holds Width*Height values in row-major order (index y*Width+x)
	Pixels []bool

	// Size is the physical pixel size
	Size PixelSize
}

// NewPixelMask allocates an empty mask
func NewPixelMask(width, height int, size PixelSize) *PixelMask {
	return &PixelMask{
		Width:  width,
		Height: height,
		Pixels: make([]bool, width*height),
		Size:   size,
	}
}

// At reports whether pixel (x, y) is set. Coordinates outside the grid are unset.
func (m *PixelMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pixels[y*m.Width+x]
}

// Set assigns pixel (x, y). Coordinates outside the grid are ignored.
func (m *PixelMask) Set(x, y int, value bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pixels[y*m.Width+x] = value
}

// Count returns the number of set pixels
func (m *PixelMask) Count() int {
	n := 0
	for _, p := range m.Pixels {
		if p {
			n++
		}
	}
	return n
}

// Points returns the coordinates of all set pixels, scanning rows from y=0 upward
func (m *PixelMask) Points() PixelSet {
	points := make(PixelSet, 0, m.Count())
	for y := 0; y < m.Height; y++ {
		row := m.Pixels[y*m.Width : (y+1)*m.Width]
		for x, set := range row {
			if set {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return points
}

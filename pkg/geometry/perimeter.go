package geometry

import "math"

// heading is one of the eight compass directions of a boundary step. North is +y.
type heading int

const (
	north heading = iota
	northEast
	east
	southEast
	south
	southWest
	west
	northWest
)

var headingSteps = [...]Point{
	north:     {0, 1},
	northEast: {1, 1},
	east:      {1, 0},
	southEast: {1, -1},
	south:     {0, -1},
	southWest: {-1, -1},
	west:      {-1, 0},
	northWest: {-1, 1},
}

// probeOrders lists, per quadrant of the previous heading, the order in which the
// neighbours of the current boundary pixel are tried. The first set neighbour wins.
// Starting each sweep behind-left of the heading keeps the tracer on the outer
// boundary of re-entrant shapes.
var probeOrders = [5][8]heading{
	// N
	{west, northWest, north, northEast, east, southEast, south, southWest},
	// NE, E
	{northWest, north, northEast, east, southEast, south, southWest, west},
	// SE, S
	{northEast, east, southEast, south, southWest, west, northWest, north},
	// SW
	{southEast, south, southWest, west, northWest, north, northEast, east},
	// W, NW
	{southWest, west, northWest, north, northEast, east, southEast, south},
}

func quadrant(h heading) int {
	switch h {
	case north:
		return 0
	case northEast, east:
		return 1
	case southEast, south:
		return 2
	case southWest:
		return 3
	default:
		return 4
	}
}

// Contour is the traced outer boundary of a slice.
type Contour struct {
	// Points is the ordered boundary, starting and (for shapes larger than one
	// pixel) ending at the start pixel.
	Points []Point

	// Length is the perimeter in pixel widths
	Length float64
}

// TracePerimeter follows the outer boundary of the mask with 8-connected
// Moore-neighbour tracing.
//
// The start pixel is the one with the smallest x, and among those the largest y. The
// trace ends when it steps back onto the start pixel. An empty mask returns a zero
// Contour; a single pixel has a perimeter of 4 by convention.
func TracePerimeter(mask *PixelMask) Contour {
	start, ok := traceStart(mask)
	if !ok {
		return Contour{}
	}

	points := []Point{start}
	pos := start
	dir := north
	// Each pixel can be passed at most once from each of its 8 neighbours.
	limit := 8*mask.Count() + 8

	for step := 0; step < limit; step++ {
		moved := false
		for _, h := range probeOrders[quadrant(dir)] {
			d := headingSteps[h]
			next := Point{X: pos.X + d.X, Y: pos.Y + d.Y}
			if mask.At(next.X, next.Y) {
				pos, dir, moved = next, h, true
				points = append(points, next)
				break
			}
		}
		if !moved || pos == start {
			break
		}
	}

	return Contour{Points: points, Length: contourLength(points)}
}

// traceStart finds the minimum-x pixel, breaking ties on maximum y
func traceStart(mask *PixelMask) (Point, bool) {
	for x := 0; x < mask.Width; x++ {
		for y := mask.Height - 1; y >= 0; y-- {
			if mask.At(x, y) {
				return Point{X: x, Y: y}, true
			}
		}
	}
	return Point{}, false
}

// contourLength sums the step lengths of a closed contour, including the segment
// from the last point back to the first.
func contourLength(points []Point) float64 {
	if len(points) == 1 {
		return 4
	}
	var length float64
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		length += math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
	}
	return length
}

// Perimeter returns the physical boundary length of the mask in mm.
// The in-plane pixel width is used for both directions.
func Perimeter(mask *PixelMask) float64 {
	return TracePerimeter(mask).Length * mask.Size.Width
}

// Circularity returns 4*pi*area/perimeter^2 for an area in mm^2 and perimeter in mm.
//
// The traced boundary runs through pixel centres, which under-reports the perimeter of
// small blocky shapes, so the result is capped at 1. A zero perimeter yields 0.
func Circularity(area, perimeter float64) float64 {
	if perimeter <= 0 {
		return 0
	}
	return math.Min(1, 4*math.Pi*area/(perimeter*perimeter))
}

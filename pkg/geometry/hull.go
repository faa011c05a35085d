package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// ConvexHull returns the vertices of the convex hull of points in counter-clockwise
// order using Andrew's monotone chain. Collinear and duplicate points are dropped, so
// a collinear input yields its two end points. The input slice is not modified.
func ConvexHull(points []r2.Vec) []r2.Vec {
	sorted := make([]r2.Vec, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	if len(sorted) < 3 {
		return sorted
	}

	hull := make([]r2.Vec, 0, 2*len(sorted))
	// lower chain
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// upper chain
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// turn is positive when a, b, c make a counter-clockwise turn
func turn(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// FeretDiameter returns the maximum caliper diameter of a pixel set in mm, measured
// between pixel centres and scaled by the in-plane pixel width.
//
// Empty sets give 0 and a single pixel gives one pixel width. Sets whose pixels all
// share one column or one row are measured directly; only sets spanning more than one
// distinct x and y go through the convex hull.
func FeretDiameter(points PixelSet, pixelWidth float64) float64 {
	switch len(points) {
	case 0:
		return 0
	case 1:
		return pixelWidth
	case 2:
		return distance(points[0], points[1]) * pixelWidth
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if minX == maxX {
		return float64(maxY-minY) * pixelWidth
	}
	if minY == maxY {
		return float64(maxX-minX) * pixelWidth
	}

	vecs := make([]r2.Vec, len(points))
	for i, p := range points {
		vecs[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}
	hull := ConvexHull(vecs)

	var diameter float64
	for i := range hull {
		for j := i + 1; j < len(hull); j++ {
			diameter = math.Max(diameter, r2.Norm(r2.Sub(hull[i], hull[j])))
		}
	}
	return diameter * pixelWidth
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

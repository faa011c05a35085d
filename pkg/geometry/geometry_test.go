package geometry

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

var unitPixel = PixelSize{Depth: 1, Height: 1, Width: 1}

// discMask creates a filled disc of the given radius (in pixels) centred in the grid
func discMask(radius int, size PixelSize) *PixelMask {
	dim := 2*radius + 5
	c := dim / 2
	m := NewPixelMask(dim, dim, size)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= radius*radius {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// ellipseMask creates a filled ellipse with semi-axes a and b rotated by angle radians
func ellipseMask(a, b, angle float64) *PixelMask {
	dim := int(2*math.Max(a, b)) + 5
	c := float64(dim / 2)
	sin, cos := math.Sincos(angle)
	m := NewPixelMask(dim, dim, unitPixel)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			u := dx*cos + dy*sin
			v := -dx*sin + dy*cos
			if (u*u)/(a*a)+(v*v)/(b*b) <= 1 {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// randomMask creates a reproducible blob of set pixels
func randomMask(seed int64, width, height int, fill float64) *PixelMask {
	rng := rand.New(rand.NewSource(seed))
	m := NewPixelMask(width, height, unitPixel)
	for i := range m.Pixels {
		m.Pixels[i] = rng.Float64() < fill
	}
	return m
}

func analyse(m *PixelMask) (PixelSet, Centroid, CentralMoments, PrincipalAxes) {
	points := m.Points()
	c, _ := AccumulateRaw(points).Centroid()
	cm := ResolveCentral(points, c)
	return points, c, cm, SolvePrincipal(points, c, cm)
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}

// TestRawMoments verifies count, sums and centroid on a small known set
func TestRawMoments(t *testing.T) {
	points := PixelSet{{0, 0}, {2, 0}, {2, 4}, {0, 4}}
	raw := AccumulateRaw(points)
	if raw.N != 4 || raw.SumX != 4 || raw.SumY != 8 {
		t.Fatalf("Expected N=4 Sx=4 Sy=8, got %+v", raw)
	}
	c, ok := raw.Centroid()
	if !ok || c.X != 1 || c.Y != 2 {
		t.Errorf("Expected centroid (1, 2), got %+v (ok=%v)", c, ok)
	}

	empty := AccumulateRaw(nil)
	if _, ok := empty.Centroid(); ok || empty.N != 0 {
		t.Errorf("Expected empty set to have no centroid, got %+v", empty)
	}
}

// TestCentralMomentsSinglePixel checks the unit-square correction term
func TestCentralMomentsSinglePixel(t *testing.T) {
	points := PixelSet{{3, 7}}
	c, _ := AccumulateRaw(points).Centroid()
	m := ResolveCentral(points, c)
	if m.Ix != 1.0/12 || m.Iy != 1.0/12 {
		t.Errorf("Expected Ix=Iy=1/12, got Ix=%f Iy=%f", m.Ix, m.Iy)
	}
	if m.Ixy != 0 || m.Jz != 0 {
		t.Errorf("Expected Ixy=Jz=0, got Ixy=%f Jz=%f", m.Ixy, m.Jz)
	}

	if got := ResolveCentral(nil, Centroid{}); got != (CentralMoments{}) {
		t.Errorf("Expected zero moments for empty set, got %+v", got)
	}
}

// TestDiscProperties compares a rasterised disc against the closed-form solid circle
func TestDiscProperties(t *testing.T) {
	radius := 40
	m := discMask(radius, unitPixel)
	points, _, _, axes := analyse(m)

	r := float64(radius)
	csa := float64(len(points))
	if e := relErr(csa, math.Pi*r*r); e > 0.01 {
		t.Errorf("CSA error %.4f too large (got %f)", e, csa)
	}

	wantI := math.Pi * math.Pow(r, 4) / 4
	if e := relErr(axes.Imajor, wantI); e > 0.02 {
		t.Errorf("Imajor error %.4f too large (got %f, expected %f)", e, axes.Imajor, wantI)
	}
	if e := relErr(axes.Iminor, wantI); e > 0.02 {
		t.Errorf("Iminor error %.4f too large (got %f, expected %f)", e, axes.Iminor, wantI)
	}

	wantZ := math.Pi * r * r * r / 4
	if e := relErr(axes.Zmajor, wantZ); e > 0.02 {
		t.Errorf("Zmajor error %.4f too large (got %f, expected %f)", e, axes.Zmajor, wantZ)
	}
	if e := relErr(axes.Zminor, wantZ); e > 0.02 {
		t.Errorf("Zminor error %.4f too large (got %f, expected %f)", e, axes.Zminor, wantZ)
	}

	if e := relErr(axes.Jz, math.Pi*math.Pow(r, 4)/2); e > 0.02 {
		t.Errorf("Jz error %.4f too large (got %f)", e, axes.Jz)
	}
	if axes.Rmax != r {
		t.Errorf("Expected Rmax %f, got %f", r, axes.Rmax)
	}
}

// TestDiscConvergence verifies the discretisation error shrinks with finer pixels
func TestDiscConvergence(t *testing.T) {
	physical := 10.0
	var prev float64 = math.Inf(1)
	for _, px := range []float64{1, 0.5, 0.25} {
		size := PixelSize{Depth: px, Height: px, Width: px}
		m := discMask(int(physical/px), size)
		_, _, _, axes := analyse(m)
		scaled := axes.Scale(size)
		e := relErr(scaled.Imajor, math.Pi*math.Pow(physical, 4)/4)
		if e > prev {
			t.Errorf("Expected error to shrink at pixel size %.2f, got %.5f after %.5f", px, e, prev)
		}
		prev = e
	}
}

// TestMajorNotBelowMinor checks the ordering invariant on many irregular shapes
func TestMajorNotBelowMinor(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		m := randomMask(seed, 12, 9, 0.45)
		_, _, _, axes := analyse(m)
		if axes.Imajor < axes.Iminor {
			t.Errorf("seed %d: Imajor %f < Iminor %f", seed, axes.Imajor, axes.Iminor)
		}
		if axes.Theta <= -math.Pi/2 || axes.Theta > math.Pi/2 {
			t.Errorf("seed %d: Theta %f outside (-pi/2, pi/2]", seed, axes.Theta)
		}
	}
}

// TestPrincipalMatchesEigen cross-checks the closed form against a symmetric eigensolver
func TestPrincipalMatchesEigen(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m := randomMask(seed, 15, 11, 0.5)
		_, _, cm, axes := analyse(m)

		tensor := mat.NewSymDense(2, []float64{cm.Ix, -cm.Ixy, -cm.Ixy, cm.Iy})
		var eig mat.EigenSym
		if ok := eig.Factorize(tensor, false); !ok {
			t.Fatalf("seed %d: eigen decomposition failed", seed)
		}
		values := eig.Values(nil)
		if math.Abs(values[1]-axes.Imajor) > 1e-6*values[1] {
			t.Errorf("seed %d: Expected Imajor %f, got %f", seed, values[1], axes.Imajor)
		}
		if math.Abs(values[0]-axes.Iminor) > 1e-6*values[1] {
			t.Errorf("seed %d: Expected Iminor %f, got %f", seed, values[0], axes.Iminor)
		}
	}
}

// TestEllipseOrientation verifies Theta points along the axis of largest moment
func TestEllipseOrientation(t *testing.T) {
	// Long along x: the largest moment is about the vertical axis.
	_, _, _, axes := analyse(ellipseMask(30, 10, 0))
	if math.Abs(axes.Theta-math.Pi/2) > 1e-9 {
		t.Errorf("Expected Theta pi/2 for x-elongated ellipse, got %f", axes.Theta)
	}
	if axes.Rmajor <= axes.Rminor {
		t.Errorf("Expected Rmajor > Rminor, got %f <= %f", axes.Rmajor, axes.Rminor)
	}

	// Long along y = x: the largest moment is about y = -x.
	_, _, _, axes = analyse(ellipseMask(30, 10, math.Pi/4))
	if math.Abs(axes.Theta+math.Pi/4) > 0.02 {
		t.Errorf("Expected Theta -pi/4 for diagonal ellipse, got %f", axes.Theta)
	}
}

// TestCustomAxisMatchesPrincipal checks the projector reproduces the principal values
// when handed the principal angle, and the horizontal values for a zero angle.
func TestCustomAxisMatchesPrincipal(t *testing.T) {
	m := ellipseMask(25, 12, 0.3)
	points, c, cm, axes := analyse(m)

	custom := ProjectCustom(points, c, axes.Theta)
	if math.Abs(custom.Ina-axes.Imajor) > 1e-6 || math.Abs(custom.Ila-axes.Iminor) > 1e-6 {
		t.Errorf("Expected Ina/Ila %f/%f, got %f/%f", axes.Imajor, axes.Iminor, custom.Ina, custom.Ila)
	}
	if math.Abs(custom.Zna-axes.Zmajor) > 1e-6 || math.Abs(custom.Zla-axes.Zminor) > 1e-6 {
		t.Errorf("Expected Zna/Zla %f/%f, got %f/%f", axes.Zmajor, axes.Zminor, custom.Zna, custom.Zla)
	}

	horizontal := ProjectCustom(points, c, 0)
	if math.Abs(horizontal.Ina-cm.Ix) > 1e-6 || math.Abs(horizontal.Ila-cm.Iy) > 1e-6 {
		t.Errorf("Expected Ina=Ix %f and Ila=Iy %f, got %f and %f", cm.Ix, cm.Iy, horizontal.Ina, horizontal.Ila)
	}
}

// TestEmptySlice checks every routine degrades to zero on an empty mask
func TestEmptySlice(t *testing.T) {
	m := NewPixelMask(8, 8, unitPixel)
	points, c, cm, axes := analyse(m)
	if axes != (PrincipalAxes{}) {
		t.Errorf("Expected zero principal axes, got %+v", axes)
	}
	if custom := ProjectCustom(points, c, 1); custom.Ina != 0 || custom.Zla != 0 {
		t.Errorf("Expected zero custom axes, got %+v", custom)
	}
	if cm != (CentralMoments{}) {
		t.Errorf("Expected zero central moments, got %+v", cm)
	}
	if p := Perimeter(m); p != 0 {
		t.Errorf("Expected zero perimeter, got %f", p)
	}
	if d := FeretDiameter(points, 1); d != 0 {
		t.Errorf("Expected zero Feret diameter, got %f", d)
	}
}

// TestSinglePixel checks the single-pixel conventions
func TestSinglePixel(t *testing.T) {
	size := PixelSize{Depth: 0.5, Height: 0.5, Width: 0.5}
	m := NewPixelMask(3, 3, size)
	m.Set(1, 1, true)

	contour := TracePerimeter(m)
	if contour.Length != 4 || len(contour.Points) != 1 {
		t.Errorf("Expected perimeter 4 with one contour point, got %f with %d", contour.Length, len(contour.Points))
	}
	perimeter := Perimeter(m)
	if perimeter != 2 {
		t.Errorf("Expected physical perimeter 2, got %f", perimeter)
	}
	circ := Circularity(size.Area(), perimeter)
	if math.Abs(circ-math.Pi/4) > 1e-12 {
		t.Errorf("Expected circularity %f, got %f", math.Pi/4, circ)
	}
	if d := FeretDiameter(m.Points(), size.Width); d != 0.5 {
		t.Errorf("Expected Feret diameter 0.5, got %f", d)
	}

	_, _, _, axes := analyse(m)
	if axes.Zmajor != axes.Imajor || axes.Zpol != axes.Jz {
		t.Errorf("Expected moduli to fall back to moments on a single pixel, got %+v", axes)
	}
}

// TestPerimeterShapes checks traced perimeters of simple shapes
func TestPerimeterShapes(t *testing.T) {
	square := NewPixelMask(5, 5, unitPixel)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			square.Set(x, y, true)
		}
	}
	contour := TracePerimeter(square)
	if contour.Length != 8 {
		t.Errorf("Expected 3x3 square perimeter 8, got %f", contour.Length)
	}
	if contour.Points[0] != (Point{1, 3}) {
		t.Errorf("Expected trace to start at (1, 3), got %v", contour.Points[0])
	}
	if last := contour.Points[len(contour.Points)-1]; last != contour.Points[0] {
		t.Errorf("Expected contour to close on its start, ended at %v", last)
	}

	line := NewPixelMask(7, 3, unitPixel)
	for x := 1; x <= 5; x++ {
		line.Set(x, 1, true)
	}
	if got := TracePerimeter(line).Length; got != 8 {
		t.Errorf("Expected row of 5 to have perimeter 8, got %f", got)
	}

	diagonal := NewPixelMask(4, 4, unitPixel)
	for i := 0; i < 4; i++ {
		diagonal.Set(i, i, true)
	}
	if got := TracePerimeter(diagonal).Length; math.Abs(got-6*math.Sqrt2) > 1e-9 {
		t.Errorf("Expected diagonal perimeter %f, got %f", 6*math.Sqrt2, got)
	}

	// A U shape must be traced around its outside without cutting across the notch.
	u := NewPixelMask(7, 7, unitPixel)
	for y := 1; y <= 5; y++ {
		u.Set(1, y, true)
		u.Set(5, y, true)
	}
	for x := 1; x <= 5; x++ {
		u.Set(x, 1, true)
	}
	contour = TracePerimeter(u)
	visited := make(map[Point]bool)
	for _, p := range contour.Points {
		visited[p] = true
	}
	if len(visited) != u.Count() {
		t.Errorf("Expected every pixel of the U to lie on the boundary, visited %d of %d", len(visited), u.Count())
	}
}

// TestDiscCircularity checks the circularity of a large disc is close to but below 1
func TestDiscCircularity(t *testing.T) {
	m := discMask(40, unitPixel)
	perimeter := Perimeter(m)
	if e := relErr(perimeter, 2*math.Pi*40); e > 0.1 {
		t.Errorf("Disc perimeter error %.3f too large (got %f)", e, perimeter)
	}
	circ := Circularity(float64(m.Count()), perimeter)
	if circ < 0.8 || circ > 1 {
		t.Errorf("Expected disc circularity in [0.8, 1], got %f", circ)
	}

	for seed := int64(1); seed <= 20; seed++ {
		r := randomMask(seed, 10, 10, 0.7)
		if c := Circularity(float64(r.Count()), Perimeter(r)); c > 1 {
			t.Errorf("seed %d: circularity %f exceeds 1", seed, c)
		}
	}
}

// TestConvexHull checks hull vertices of simple point sets
func TestConvexHull(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	hull := ConvexHull(square)
	if len(hull) != 4 {
		t.Errorf("Expected 4 hull vertices, got %d: %v", len(hull), hull)
	}

	line := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	hull = ConvexHull(line)
	if len(hull) != 2 {
		t.Errorf("Expected collinear input to reduce to 2 points, got %d: %v", len(hull), hull)
	}
}

// TestFeretSpecialCases checks the branches taken before the hull
func TestFeretSpecialCases(t *testing.T) {
	if d := FeretDiameter(PixelSet{{0, 0}, {3, 4}}, 2); d != 10 {
		t.Errorf("Expected two-point diameter 10, got %f", d)
	}
	vertical := PixelSet{{2, 1}, {2, 2}, {2, 3}, {2, 6}}
	if d := FeretDiameter(vertical, 0.5); d != 2.5 {
		t.Errorf("Expected vertical diameter 2.5, got %f", d)
	}
	horizontal := PixelSet{{1, 4}, {3, 4}, {8, 4}}
	if d := FeretDiameter(horizontal, 1); d != 7 {
		t.Errorf("Expected horizontal diameter 7, got %f", d)
	}
}

// TestFeretMatchesBruteForce compares the hull-based diameter with all pixel pairs
func TestFeretMatchesBruteForce(t *testing.T) {
	shapes := []*PixelMask{discMask(9, unitPixel), ellipseMask(14, 5, 0.7)}
	for seed := int64(1); seed <= 10; seed++ {
		shapes = append(shapes, randomMask(seed, 13, 8, 0.3))
	}
	for i, m := range shapes {
		points := m.Points()
		var brute float64
		for a := range points {
			for b := a + 1; b < len(points); b++ {
				brute = math.Max(brute, distance(points[a], points[b]))
			}
		}
		if got := FeretDiameter(points, 1); math.Abs(got-brute) > 1e-9 {
			t.Errorf("shape %d: Expected Feret %f, got %f", i, brute, got)
		}
	}
}

// TestSummersReferenceCircle checks a solid circle normalises to exactly 1
func TestSummersReferenceCircle(t *testing.T) {
	r := 3.7
	csa := math.Pi * r * r
	cases := map[Kind]float64{
		SecondMoment: math.Pi * math.Pow(r, 4) / 4,
		Modulus:      math.Pi * r * r * r / 4,
		PolarMoment:  math.Pi * math.Pow(r, 4) / 2,
		PolarModulus: math.Pi * r * r * r / 2,
	}
	for kind, value := range cases {
		if got := Summers(kind, value, csa); math.Abs(got-1) > 1e-12 {
			t.Errorf("kind %d: Expected 1, got %.15f", kind, got)
		}
	}
	if got := Summers(SecondMoment, 10, 0); got != 0 {
		t.Errorf("Expected 0 for zero area, got %f", got)
	}

	// A rasterised disc should land close to 1 as well.
	size := PixelSize{Depth: 0.1, Height: 0.1, Width: 0.1}
	m := discMask(50, size)
	_, _, _, axes := analyse(m)
	scaled := axes.Scale(size)
	csa = float64(m.Count()) * size.Area()
	if got := Summers(SecondMoment, scaled.Imajor, csa); math.Abs(got-1) > 0.01 {
		t.Errorf("Expected rasterised disc Summers Imajor near 1, got %f", got)
	}
}

// TestDoube checks the root-and-divide length normalisation
func TestDoube(t *testing.T) {
	if got := Doube(Area, 16, 2); got != 2 {
		t.Errorf("Expected sqrt(16)/2 = 2, got %f", got)
	}
	if got := Doube(SecondMoment, 81, 3); math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected 81^(1/4)/3 = 1, got %f", got)
	}
	if got := Doube(PolarModulus, 27, 3); math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected 27^(1/3)/3 = 1, got %f", got)
	}
	if got := Doube(Modulus, 27, 0); got != 0 {
		t.Errorf("Expected 0 for zero length, got %f", got)
	}
}

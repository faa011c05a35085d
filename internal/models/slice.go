package models

import (
	"fmt"
	"strings"
)

// Axis identifies one of the three voxel-grid axes a volume can be swept along.
type Axis int

const (
	// AxisRow sweeps along the first voxel index (I, "R" in RAS terms).
	AxisRow Axis = iota
	// AxisColumn sweeps along the second voxel index (J, "A").
	AxisColumn
	// AxisSlice sweeps along the third voxel index (K, "S").
	AxisSlice
)

// String returns the canonical name of the axis
func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "row"
	case AxisColumn:
		return "column"
	case AxisSlice:
		return "slice"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is one of the three voxel axes
func (a Axis) Valid() bool {
	return a >= AxisRow && a <= AxisSlice
}

// ParseAxis accepts the names used in configuration files and on the command line:
// "row"/"r"/"i"/"0", "column"/"a"/"j"/"1", "slice"/"s"/"k"/"2".
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "row", "r", "i", "0":
		return AxisRow, nil
	case "column", "a", "j", "1":
		return AxisColumn, nil
	case "slice", "s", "k", "2":
		return AxisSlice, nil
	}
	return 0, fmt.Errorf("invalid axis: %q (must be row, column or slice)", name)
}

// Spacing holds the physical size of a voxel in mm along each voxel axis
type Spacing struct {
	X, Y, Z float64
}

// Isotropic reports whether all three spacing components are equal
func (s Spacing) Isotropic() bool {
	return s.X == s.Y && s.Y == s.Z
}

// Valid reports whether every component is strictly positive
func (s Spacing) Valid() bool {
	return s.X > 0 && s.Y > 0 && s.Z > 0
}

// PixelDims returns the slice pixel depth, height and width in mm for a sweep axis.
//
// The depth is the spacing along the sweep axis itself; height and width are the two
// remaining in-plane components, ordered the way Grid.SliceDims lays slices out.
func (s Spacing) PixelDims(axis Axis) (depth, height, width float64) {
	switch axis {
	case AxisRow:
		return s.X, s.Z, s.Y
	case AxisColumn:
		return s.Y, s.Z, s.X
	default:
		return s.Z, s.Y, s.X
	}
}

// Grid holds the voxel dimensions of a volume stored x fastest, then y, then z
type Grid struct {
	// Width is the number of voxels along X (the row axis)
	Width int

	// Height is the number of voxels along Y (the column axis)
	Height int

	// Depth is the number of voxels along Z (the slice axis)
	Depth int
}

// Len returns the number of voxels
func (g Grid) Len() int {
	return g.Width * g.Height * g.Depth
}

// Index returns the flat offset of voxel (x, y, z)
func (g Grid) Index(x, y, z int) int {
	return z*g.Width*g.Height + y*g.Width + x
}

// Contains reports whether (x, y, z) lies inside the grid
func (g Grid) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Width && y < g.Height && z < g.Depth
}

// Count returns the number of slices along axis
func (g Grid) Count(axis Axis) int {
	switch axis {
	case AxisRow:
		return g.Width
	case AxisColumn:
		return g.Height
	default:
		return g.Depth
	}
}

// SliceDims returns the in-plane width and height of a slice taken along axis
func (g Grid) SliceDims(axis Axis) (width, height int) {
	switch axis {
	case AxisRow:
		return g.Height, g.Depth
	case AxisColumn:
		return g.Width, g.Depth
	default:
		return g.Width, g.Height
	}
}

// VoxelAt maps in-plane pixel (u, w) of the slice at position along axis back to
// volume coordinates. u runs along the slice width and w along its height.
func (g Grid) VoxelAt(axis Axis, position, u, w int) (x, y, z int) {
	switch axis {
	case AxisRow:
		return position, u, w
	case AxisColumn:
		return u, position, w
	default:
		return u, w, position
	}
}

// Volume represents a 3D labelmap of one segment
type Volume struct {
	// Data is the labelmap as a 1D array laid out by Grid.
	// Any non-zero value marks a voxel inside the segment.
	Data []uint8

	Grid

	// Spacing is the physical size of each voxel in mm
	Spacing Spacing
}

// NewVolume allocates an empty labelmap with the given dimensions
func NewVolume(width, height, depth int, spacing Spacing) *Volume {
	grid := Grid{Width: width, Height: height, Depth: depth}
	return &Volume{
		Data:    make([]uint8, grid.Len()),
		Grid:    grid,
		Spacing: spacing,
	}
}

// At reports whether voxel (x, y, z) is inside the segment. Out-of-range voxels are outside.
func (v *Volume) At(x, y, z int) bool {
	if !v.Contains(x, y, z) {
		return false
	}
	return v.Data[v.Index(x, y, z)] != 0
}

// Set marks voxel (x, y, z) as inside or outside the segment
func (v *Volume) Set(x, y, z int, inside bool) {
	var value uint8
	if inside {
		value = 1
	}
	v.Data[v.Index(x, y, z)] = value
}

// Intensity is a grey-value volume aligned voxel for voxel with a labelmap
type Intensity struct {
	// Data holds one value per voxel laid out by Grid
	Data []float64

	Grid
}

// NewIntensity allocates a zero intensity volume
func NewIntensity(width, height, depth int) *Intensity {
	grid := Grid{Width: width, Height: height, Depth: depth}
	return &Intensity{Data: make([]float64, grid.Len()), Grid: grid}
}

// Slice is one 2D image of a stack
type Slice struct {
	// Index is the position of this slice along the sweep axis
	Index int

	// Axis is the sweep axis the slice was taken along
	Axis Axis

	// Width and Height are the in-plane dimensions in pixels
	Width, Height int

	// Values holds Width*Height grey values in row-major order, scaled to 0-255
	Values []float64

	// Filename is the image file the slice was loaded from, if any
	Filename string
}

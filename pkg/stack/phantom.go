package stack

import (
	"math"

	"github.com/pkg/errors"

	"segmentgeometry/internal/models"
)

// phantomMargin is the number of empty voxels left around a phantom on every side
const phantomMargin = 2

// Sphere builds a labelmap of a solid sphere of the given radius in mm. A voxel is
// inside when its centre lies within the radius.
func Sphere(radius float64, spacing models.Spacing) (*models.Volume, error) {
	if radius <= 0 || !spacing.Valid() {
		return nil, errors.Errorf("invalid sphere radius %g or spacing %+v", radius, spacing)
	}
	vol, centre := centredVolume([3]float64{radius, radius, radius}, spacing)
	fill(vol, func(p [3]float64) bool {
		dx, dy, dz := p[0]-centre[0], p[1]-centre[1], p[2]-centre[2]
		return dx*dx+dy*dy+dz*dz <= radius*radius
	})
	return vol, nil
}

// Cylinder builds a labelmap of a solid circular cylinder whose long axis runs along
// axis. Radius and length are in mm.
func Cylinder(radius, length float64, axis models.Axis, spacing models.Spacing) (*models.Volume, error) {
	return Tube(radius, 0, length, axis, spacing)
}

// Tube builds a labelmap of a thick-walled circular tube (inner radius 0 gives a solid
// cylinder) whose long axis runs along axis.
func Tube(outer, inner, length float64, axis models.Axis, spacing models.Spacing) (*models.Volume, error) {
	if outer <= 0 || inner < 0 || inner >= outer || length <= 0 || !spacing.Valid() || !axis.Valid() {
		return nil, errors.Errorf("invalid tube outer %g inner %g length %g axis %d spacing %+v",
			outer, inner, length, int(axis), spacing)
	}
	half := [3]float64{outer, outer, outer}
	half[axis] = length / 2
	vol, centre := centredVolume(half, spacing)

	// the two in-plane axes
	a, b := (int(axis)+1)%3, (int(axis)+2)%3
	fill(vol, func(p [3]float64) bool {
		if math.Abs(p[axis]-centre[axis]) > length/2 {
			return false
		}
		da, db := p[a]-centre[a], p[b]-centre[b]
		r2 := da*da + db*db
		return r2 <= outer*outer && r2 >= inner*inner
	})
	return vol, nil
}

// centredVolume allocates a volume covering [-half, half] mm around its centre on
// every axis plus a margin, and returns the physical centre of the grid.
func centredVolume(half [3]float64, spacing models.Spacing) (*models.Volume, [3]float64) {
	sp := [3]float64{spacing.X, spacing.Y, spacing.Z}
	var dims [3]int
	var centre [3]float64
	for i := range dims {
		dims[i] = 2*int(math.Ceil(half[i]/sp[i])) + 1 + 2*phantomMargin
		centre[i] = float64(dims[i]/2) * sp[i]
	}
	return models.NewVolume(dims[0], dims[1], dims[2], spacing), centre
}

// fill sets every voxel whose centre position (in mm) satisfies inside
func fill(vol *models.Volume, inside func(p [3]float64) bool) {
	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				p := [3]float64{
					float64(x) * vol.Spacing.X,
					float64(y) * vol.Spacing.Y,
					float64(z) * vol.Spacing.Z,
				}
				if inside(p) {
					vol.Set(x, y, z, true)
				}
			}
		}
	}
}

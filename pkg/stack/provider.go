// Package stack holds segment labelmaps in memory and serves them to the measurement
// pipeline slice by slice along any voxel axis.
//
// Volumes come from directories of 2D mask images (one file per slice along the
// slice axis) or from the synthetic phantom generators, and can be re-sliced and
// written back out as image sequences.
package stack

import (
	"github.com/pkg/errors"

	"segmentgeometry/internal/models"
	"segmentgeometry/pkg/geometry"
)

// ErrSliceRange is returned for a slice index outside the volume
var ErrSliceRange = errors.New("slice index out of range")

// Provider serves the slices of one labelmap volume
type Provider struct {
	volume *models.Volume
}

// NewProvider wraps a labelmap volume
func NewProvider(volume *models.Volume) *Provider {
	return &Provider{volume: volume}
}

// Volume returns the underlying labelmap
func (p *Provider) Volume() *models.Volume {
	return p.volume
}

// SliceCount returns the number of slices along axis
func (p *Provider) SliceCount(axis models.Axis) (int, error) {
	if !axis.Valid() {
		return 0, errors.Errorf("invalid axis %d", int(axis))
	}
	return p.volume.Count(axis), nil
}

// Spacing returns the voxel spacing in mm
func (p *Provider) Spacing() models.Spacing {
	return p.volume.Spacing
}

// SliceMask extracts the binary mask of slice index along axis. The mask width runs
// along the first remaining voxel axis and its height along the second, and the
// pixel size follows models.Spacing.PixelDims.
func (p *Provider) SliceMask(axis models.Axis, index int) (*geometry.PixelMask, error) {
	if err := checkSlice(p.volume.Grid, axis, index); err != nil {
		return nil, err
	}
	depth, height, width := p.volume.Spacing.PixelDims(axis)
	w, h := p.volume.SliceDims(axis)
	mask := geometry.NewPixelMask(w, h, geometry.PixelSize{Depth: depth, Height: height, Width: width})
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			x, y, z := p.volume.VoxelAt(axis, index, u, v)
			mask.Pixels[v*w+u] = p.volume.Data[p.volume.Index(x, y, z)] != 0
		}
	}
	return mask, nil
}

// IntensityProvider serves grey values from an intensity volume, laid out like the
// masks of a Provider over a volume of the same dimensions.
type IntensityProvider struct {
	intensity *models.Intensity
}

// NewIntensityProvider wraps an intensity volume
func NewIntensityProvider(intensity *models.Intensity) *IntensityProvider {
	return &IntensityProvider{intensity: intensity}
}

// SliceIntensity extracts the grey values of slice index along axis
func (p *IntensityProvider) SliceIntensity(axis models.Axis, index int) ([]float64, error) {
	g := p.intensity.Grid
	if err := checkSlice(g, axis, index); err != nil {
		return nil, err
	}
	w, h := g.SliceDims(axis)
	values := make([]float64, w*h)
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			x, y, z := g.VoxelAt(axis, index, u, v)
			values[v*w+u] = p.intensity.Data[g.Index(x, y, z)]
		}
	}
	return values, nil
}

func checkSlice(g models.Grid, axis models.Axis, index int) error {
	if !axis.Valid() {
		return errors.Errorf("invalid axis %d", int(axis))
	}
	if n := g.Count(axis); index < 0 || index >= n {
		return errors.Wrapf(ErrSliceRange, "index %d along %s axis with %d slices", index, axis, n)
	}
	return nil
}

// Bounds is an inclusive voxel bounding box
type Bounds struct {
	Min, Max [3]int
}

// SegmentBounds returns the bounding box of all voxels inside the segment, or
// ok=false for an empty volume.
func SegmentBounds(v *models.Volume) (b Bounds, ok bool) {
	for z := 0; z < v.Depth; z++ {
		for y := 0; y < v.Height; y++ {
			for x := 0; x < v.Width; x++ {
				if v.Data[v.Index(x, y, z)] == 0 {
					continue
				}
				p := [3]int{x, y, z}
				if !ok {
					b.Min, b.Max, ok = p, p, true
					continue
				}
				for i := range p {
					b.Min[i] = min(b.Min[i], p[i])
					b.Max[i] = max(b.Max[i], p[i])
				}
			}
		}
	}
	return b, ok
}

// Crop returns a copy of the volume trimmed to the segment's bounding box, so the
// slice count along each axis equals the segment's extent. An empty volume is
// returned unchanged.
func Crop(v *models.Volume) *models.Volume {
	b, ok := SegmentBounds(v)
	if !ok {
		return v
	}
	out := models.NewVolume(b.Max[0]-b.Min[0]+1, b.Max[1]-b.Min[1]+1, b.Max[2]-b.Min[2]+1, v.Spacing)
	for z := 0; z < out.Depth; z++ {
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Data[out.Index(x, y, z)] = v.Data[v.Index(x+b.Min[0], y+b.Min[1], z+b.Min[2])]
			}
		}
	}
	return out
}

// CropIntensity trims an intensity volume to the same bounding box as Crop applies
// to the labelmap it belongs to.
func CropIntensity(in *models.Intensity, labelmap *models.Volume) (*models.Intensity, error) {
	if in.Grid != labelmap.Grid {
		return nil, errors.Errorf("intensity volume %dx%dx%d does not match labelmap %dx%dx%d",
			in.Width, in.Height, in.Depth, labelmap.Width, labelmap.Height, labelmap.Depth)
	}
	b, ok := SegmentBounds(labelmap)
	if !ok {
		return in, nil
	}
	out := models.NewIntensity(b.Max[0]-b.Min[0]+1, b.Max[1]-b.Min[1]+1, b.Max[2]-b.Min[2]+1)
	for z := 0; z < out.Depth; z++ {
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Data[out.Index(x, y, z)] = in.Data[in.Index(x+b.Min[0], y+b.Min[1], z+b.Min[2])]
			}
		}
	}
	return out, nil
}

// CropCompanion trims a second labelmap on the same grid to the bounding box of
// labelmap, keeping the slices of both segments aligned after Crop.
func CropCompanion(companion, labelmap *models.Volume) (*models.Volume, error) {
	if companion.Grid != labelmap.Grid {
		return nil, errors.Errorf("companion volume %dx%dx%d does not match labelmap %dx%dx%d",
			companion.Width, companion.Height, companion.Depth, labelmap.Width, labelmap.Height, labelmap.Depth)
	}
	b, ok := SegmentBounds(labelmap)
	if !ok {
		return companion, nil
	}
	out := models.NewVolume(b.Max[0]-b.Min[0]+1, b.Max[1]-b.Min[1]+1, b.Max[2]-b.Min[2]+1, companion.Spacing)
	for z := 0; z < out.Depth; z++ {
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Data[out.Index(x, y, z)] = companion.Data[companion.Index(x+b.Min[0], y+b.Min[1], z+b.Min[2])]
			}
		}
	}
	return out, nil
}

package pipeline

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"segmentgeometry/pkg/geometry"
	"segmentgeometry/pkg/metrics"
	"segmentgeometry/pkg/sampling"
)

// SliceRecord holds the requested values of one sampled slice.
type SliceRecord struct {
	// Index is the slice position along the sweep axis
	Index int

	// Percent is the slice position as a percentage of the segment length
	Percent float64

	// Values maps each computed column to its value. Columns that were not requested
	// are absent.
	Values map[metrics.Name]float64
}

// Get returns the value of column n and whether it was computed
func (r SliceRecord) Get(n metrics.Name) (float64, bool) {
	v, ok := r.Values[n]
	return v, ok
}

// Compactness returns csa over the companion's total csa, clamped to at most 1.
// A zero total yields 0.
func Compactness(csa, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(1, csa/total)
}

// measure computes the record of one slice. It also returns the slice Feret diameter
// in mm, which the aspect-ratio advisory needs whether or not Feret was requested.
func (p *Pipeline) measure(index, n int, length float64) (SliceRecord, float64, error) {
	axis := p.params.Axis
	rec := SliceRecord{
		Index:   index,
		Percent: sampling.Percent(index, n),
		Values:  make(map[metrics.Name]float64, len(p.enabled)),
	}
	put := func(name metrics.Name, v float64) {
		if p.enabled[name] {
			rec.Values[name] = v
		}
	}

	mask, err := p.provider.SliceMask(axis, index)
	if err != nil {
		return rec, 0, errors.Wrapf(err, "failed to read slice %d", index)
	}
	points := mask.Points()
	centroid, ok := geometry.AccumulateRaw(points).Centroid()
	if !ok {
		for name := range p.enabled {
			rec.Values[name] = 0
		}
		delete(rec.Values, metrics.SliceIndex)
		delete(rec.Values, metrics.Percent)
		put(metrics.LengthMM, length)
		return rec, 0, nil
	}

	size := mask.Size
	csa := float64(len(points)) * size.Area()
	feret := geometry.FeretDiameter(points, size.Width)

	put(metrics.LengthMM, length)
	put(metrics.CSAMM2, csa)
	put(metrics.FeretMM, feret)
	put(metrics.Cx, centroid.X)
	put(metrics.Cy, centroid.Y)

	if p.enabled[metrics.PerimeterMM] || p.enabled[metrics.CircularityRatio] {
		perimeter := geometry.Perimeter(mask)
		put(metrics.PerimeterMM, perimeter)
		put(metrics.CircularityRatio, geometry.Circularity(csa, perimeter))
	}

	if p.enabled[metrics.CompactnessRatio] {
		companion, err := p.companion.SliceMask(axis, index)
		if err != nil {
			return rec, 0, errors.Wrapf(err, "failed to read companion slice %d", index)
		}
		total := float64(companion.Count()) * companion.Size.Area()
		put(metrics.TotalCSAMM2, total)
		put(metrics.CompactnessRatio, Compactness(csa, total))
	}

	if p.enabled[metrics.MeanBrightness] {
		mean, err := p.meanIntensity(mask, index)
		if err != nil {
			return rec, 0, err
		}
		put(metrics.MeanBrightness, mean)
	}

	central := geometry.ResolveCentral(points, centroid)
	principal := geometry.SolvePrincipal(points, centroid, central).Scale(size)
	put(metrics.ThetaDeg, principal.Theta*180/math.Pi)
	put(metrics.Imajor, principal.Imajor)
	put(metrics.Iminor, principal.Iminor)
	put(metrics.Zmajor, principal.Zmajor)
	put(metrics.Zminor, principal.Zminor)
	put(metrics.Rmajor, principal.Rmajor)
	put(metrics.Rminor, principal.Rminor)
	put(metrics.Jz, principal.Jz)
	put(metrics.Zpol, principal.Zpol)
	put(metrics.Rmax, principal.Rmax)

	put(metrics.CSALenNorm, geometry.Doube(geometry.Area, csa, length))
	put(metrics.ImajorLenNorm, geometry.Doube(geometry.SecondMoment, principal.Imajor, length))
	put(metrics.IminorLenNorm, geometry.Doube(geometry.SecondMoment, principal.Iminor, length))
	put(metrics.ZmajorLenNorm, geometry.Doube(geometry.Modulus, principal.Zmajor, length))
	put(metrics.ZminorLenNorm, geometry.Doube(geometry.Modulus, principal.Zminor, length))
	put(metrics.JzLenNorm, geometry.Doube(geometry.PolarMoment, principal.Jz, length))
	put(metrics.ZpolLenNorm, geometry.Doube(geometry.PolarModulus, principal.Zpol, length))

	put(metrics.ImajorMatNorm, geometry.Summers(geometry.SecondMoment, principal.Imajor, csa))
	put(metrics.IminorMatNorm, geometry.Summers(geometry.SecondMoment, principal.Iminor, csa))
	put(metrics.ZmajorMatNorm, geometry.Summers(geometry.Modulus, principal.Zmajor, csa))
	put(metrics.ZminorMatNorm, geometry.Summers(geometry.Modulus, principal.Zminor, csa))
	put(metrics.JzMatNorm, geometry.Summers(geometry.PolarMoment, principal.Jz, csa))
	put(metrics.ZpolMatNorm, geometry.Summers(geometry.PolarModulus, principal.Zpol, csa))

	if p.params.Metrics.Has(metrics.CustomAxis) {
		angle := p.params.NeutralAxisAngle * math.Pi / 180
		custom := geometry.ProjectCustom(points, centroid, angle).Scale(size)
		put(metrics.Ina, custom.Ina)
		put(metrics.Ila, custom.Ila)
		put(metrics.Zna, custom.Zna)
		put(metrics.Zla, custom.Zla)
		put(metrics.Rna, custom.Rna)
		put(metrics.Rla, custom.Rla)

		put(metrics.InaLenNorm, geometry.Doube(geometry.SecondMoment, custom.Ina, length))
		put(metrics.IlaLenNorm, geometry.Doube(geometry.SecondMoment, custom.Ila, length))
		put(metrics.ZnaLenNorm, geometry.Doube(geometry.Modulus, custom.Zna, length))
		put(metrics.ZlaLenNorm, geometry.Doube(geometry.Modulus, custom.Zla, length))

		put(metrics.InaMatNorm, geometry.Summers(geometry.SecondMoment, custom.Ina, csa))
		put(metrics.IlaMatNorm, geometry.Summers(geometry.SecondMoment, custom.Ila, csa))
		put(metrics.ZnaMatNorm, geometry.Summers(geometry.Modulus, custom.Zna, csa))
		put(metrics.ZlaMatNorm, geometry.Summers(geometry.Modulus, custom.Zla, csa))
	}

	return rec, feret, nil
}

// meanIntensity averages the non-zero grey values under the mask. A slice with no
// such values yields 0.
func (p *Pipeline) meanIntensity(mask *geometry.PixelMask, index int) (float64, error) {
	values, err := p.intensity.SliceIntensity(p.params.Axis, index)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read intensity slice %d", index)
	}
	if len(values) != len(mask.Pixels) {
		return 0, errors.Errorf("intensity slice %d has %d values, mask has %d", index, len(values), len(mask.Pixels))
	}

	var inside []float64
	for i, set := range mask.Pixels {
		if set && values[i] != 0 {
			inside = append(inside, values[i])
		}
	}
	if len(inside) == 0 {
		return 0, nil
	}
	return stat.Mean(inside, nil), nil
}

// Package pipeline sweeps a segmented volume slice by slice along one voxel axis and
// produces an ordered table of cross-section properties.
//
// The pipeline consists of the following steps:
// 1. Validating inputs and collaborators (fatal errors are raised before any slice is read)
// 2. Selecting the slices to evaluate
// 3. Measuring every selected slice in parallel
// 4. Computing the aspect-ratio advisory over the ordered results
package pipeline

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"segmentgeometry/internal/models"
	"segmentgeometry/pkg/geometry"
	"segmentgeometry/pkg/metrics"
	"segmentgeometry/pkg/sampling"
)

// MaskProvider serves the binary masks of one segment.
type MaskProvider interface {
	// SliceMask returns the mask of slice index along axis. The mask carries the
	// physical pixel size of that slice.
	SliceMask(axis models.Axis, index int) (*geometry.PixelMask, error)

	// SliceCount returns the number of slices along axis
	SliceCount(axis models.Axis) (int, error)

	// Spacing returns the voxel spacing in mm
	Spacing() models.Spacing
}

// IntensityProvider serves grey values aligned with the slices of a MaskProvider.
// Values are laid out like PixelMask.Pixels.
type IntensityProvider interface {
	SliceIntensity(axis models.Axis, index int) ([]float64, error)
}

var (
	// ErrNoProvider is returned when no primary mask provider was supplied
	ErrNoProvider = errors.New("no mask provider")

	// ErrNoCompanion is returned when compactness is requested without a companion segment
	ErrNoCompanion = errors.New("compactness requires a companion segment")

	// ErrNoIntensity is returned when mean intensity is requested without an intensity source
	ErrNoIntensity = errors.New("mean intensity requires an intensity volume")

	// ErrAnisotropic is returned when a custom or transformed orientation is combined
	// with unequal voxel spacing
	ErrAnisotropic = errors.New("custom or transformed orientations require isotropic voxel spacing")

	// ErrCompanionMismatch is returned when the companion segment has a different
	// number of slices than the primary one
	ErrCompanionMismatch = errors.New("companion segment slice count differs from primary segment")

	// ErrInvalidAxis is returned for an axis outside row, column and slice
	ErrInvalidAxis = errors.New("invalid sweep axis")
)

// Params holds the run configuration.
type Params struct {
	// Axis is the voxel axis the segment is swept along
	Axis models.Axis

	// Interval is the sampling step in percent of the segment length.
	// 0 evaluates every slice.
	Interval float64

	// NeutralAxisAngle is the custom neutral axis angle in degrees, measured like Theta.
	// Only used when metrics.CustomAxis is selected.
	NeutralAxisAngle float64

	// NumCores is the number of slices measured concurrently. Values below 1 run
	// sequentially.
	NumCores int

	// Metrics selects the values each SliceRecord carries
	Metrics metrics.Set

	// Transformed marks a segment whose volume was resampled into a rotated frame.
	// Such volumes must have isotropic spacing.
	Transformed bool
}

// Option configures optional collaborators of a Pipeline
type Option func(*Pipeline)

// WithCompanion sets the segment used as the denominator of compactness
func WithCompanion(companion MaskProvider) Option {
	return func(p *Pipeline) {
		p.companion = companion
	}
}

// WithIntensity sets the grey-value source for mean intensity
func WithIntensity(intensity IntensityProvider) Option {
	return func(p *Pipeline) {
		p.intensity = intensity
	}
}

// WithLogger replaces the default logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// Result is the output of one run.
type Result struct {
	// Records holds one entry per sampled slice, in increasing index order
	Records []SliceRecord

	// Axis is the sweep axis of the run
	Axis models.Axis

	// SampledSlices lists the evaluated slice indices
	SampledSlices []int

	// Length is the segment length in mm (slice count times slice thickness)
	Length float64

	// AspectRatio is Length over the smallest Feret diameter of the central slices,
	// or 0 when no central slice has a diameter
	AspectRatio float64

	// Advisory is non-empty when the segment is too stubby for beam theory
	Advisory string
}

// Pipeline measures one segment.
// A Pipeline holds no state between runs, so Process may be called repeatedly.
type Pipeline struct {
	params    Params
	provider  MaskProvider
	companion MaskProvider
	intensity IntensityProvider
	log       logrus.FieldLogger

	// enabled caches which report columns the metric set produces
	enabled map[metrics.Name]bool
}

// New creates a pipeline for the segment served by provider
func New(params Params, provider MaskProvider, opts ...Option) *Pipeline {
	p := &Pipeline{
		params:   params,
		provider: provider,
		log:      logrus.StandardLogger(),
		enabled:  make(map[metrics.Name]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, c := range metrics.Columns(params.Metrics) {
		p.enabled[c.Name] = true
	}
	return p
}

// Process runs the complete pipeline. A cancelled context stops the run before the
// next slice and no partial result is returned.
func (p *Pipeline) Process(ctx context.Context) (*Result, error) {
	// Step 1: Validate inputs
	n, err := p.validate()
	if err != nil {
		return nil, err
	}

	// Step 2: Select slices
	indices, err := sampling.Indices(n, p.params.Interval)
	if err != nil {
		return nil, err
	}
	depth, _, _ := p.provider.Spacing().PixelDims(p.params.Axis)
	length := float64(n) * depth

	log := p.log.WithFields(logrus.Fields{
		"axis":    p.params.Axis,
		"slices":  n,
		"sampled": len(indices),
	})
	log.Infof("Measuring %d of %d slices, segment length %.2f mm", len(indices), n, length)

	// Step 3: Measure slices
	records, ferets, err := p.measureInParallel(ctx, indices, n, length)
	if err != nil {
		return nil, err
	}

	// Step 4: Aspect ratio advisory
	result := &Result{
		Records:       records,
		Axis:          p.params.Axis,
		SampledSlices: indices,
		Length:        length,
	}
	result.AspectRatio, result.Advisory = aspectRatio(indices, ferets, length)
	if result.Advisory != "" {
		log.Warn(result.Advisory)
	} else {
		log.Infof("Aspect ratio %.2f", result.AspectRatio)
	}
	p.logSummary(log, records)

	return result, nil
}

// validate performs every fatal check and returns the primary slice count
func (p *Pipeline) validate() (int, error) {
	if p.provider == nil {
		return 0, ErrNoProvider
	}
	if !p.params.Axis.Valid() {
		return 0, errors.Wrapf(ErrInvalidAxis, "axis %d", int(p.params.Axis))
	}
	if p.params.Interval < 0 || p.params.Interval > 100 || math.IsNaN(p.params.Interval) {
		return 0, errors.Wrapf(sampling.ErrInterval, "got %g", p.params.Interval)
	}

	set := p.params.Metrics
	if set.Has(metrics.Compactness) && p.companion == nil {
		return 0, ErrNoCompanion
	}
	if set.Has(metrics.MeanIntensity) && p.intensity == nil {
		return 0, ErrNoIntensity
	}
	spacing := p.provider.Spacing()
	if (set.Has(metrics.CustomAxis) || p.params.Transformed) && !spacing.Isotropic() {
		return 0, errors.Wrapf(ErrAnisotropic, "spacing %.3f x %.3f x %.3f mm", spacing.X, spacing.Y, spacing.Z)
	}

	n, err := p.provider.SliceCount(p.params.Axis)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count slices")
	}
	if set.Has(metrics.Compactness) {
		m, err := p.companion.SliceCount(p.params.Axis)
		if err != nil {
			return 0, errors.Wrap(err, "failed to count companion slices")
		}
		if m != n {
			return 0, errors.Wrapf(ErrCompanionMismatch, "%d vs %d", m, n)
		}
	}
	return n, nil
}

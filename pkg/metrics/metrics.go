// Package metrics defines which cross-section properties a run computes and the names
// under which each value is reported.
//
// A run is configured with a single Set of Metric selections. Each selection unlocks
// one or more named columns; some columns (the custom axis and normalized variants)
// need two selections at once, following the table layout of the slice report.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Metric is one selectable group of per-slice properties
type Metric uint

const (
	// Length reports the segment length along the sweep axis
	Length Metric = iota
	// CSA is the cross-sectional area
	CSA
	// Centroid reports the centroid in slice pixel coordinates
	Centroid
	// Theta is the principal axis angle
	Theta
	// SecondMoment covers Imajor and Iminor
	SecondMoment
	// SectionModulus covers Zmajor and Zminor
	SectionModulus
	// Distance covers the extreme fibre distances Rmajor and Rminor
	Distance
	// PolarMoment is Jz
	PolarMoment
	// PolarModulus is Zpol (and Rmax when Distance is also selected)
	PolarModulus
	// Perimeter is the traced boundary length
	Perimeter
	// Circularity is 4*pi*CSA/perimeter^2
	Circularity
	// Feret is the maximum caliper diameter
	Feret
	// Compactness is CSA over the companion segment's CSA
	Compactness
	// MeanIntensity is the mean grey value under the mask
	MeanIntensity
	// CustomAxis evaluates I, Z and R about a user-supplied neutral axis
	CustomAxis
	// LengthNormalized adds the Doube variants of the selected metrics
	LengthNormalized
	// MaterialNormalized adds the Summers variants of the selected metrics
	MaterialNormalized

	numMetrics
)

var metricNames = [...]string{
	Length:             "length",
	CSA:                "csa",
	Centroid:           "centroid",
	Theta:              "theta",
	SecondMoment:       "secondMoment",
	SectionModulus:     "sectionModulus",
	Distance:           "distance",
	PolarMoment:        "polarMoment",
	PolarModulus:       "polarModulus",
	Perimeter:          "perimeter",
	Circularity:        "circularity",
	Feret:              "feret",
	Compactness:        "compactness",
	MeanIntensity:      "meanIntensity",
	CustomAxis:         "customAxis",
	LengthNormalized:   "lengthNormalized",
	MaterialNormalized: "materialNormalized",
}

func (m Metric) String() string {
	if m < numMetrics {
		return metricNames[m]
	}
	return fmt.Sprintf("Metric(%d)", uint(m))
}

// ParseMetric resolves a configuration name (case-insensitive) to a Metric
func ParseMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for m, n := range metricNames {
		if strings.ToLower(n) == key {
			return Metric(m), nil
		}
	}
	return 0, errors.Errorf("unknown metric %q", name)
}

// Set is an immutable selection of metrics
type Set uint32

// NewSet builds a Set from individual selections
func NewSet(ms ...Metric) Set {
	var s Set
	for _, m := range ms {
		s |= 1 << m
	}
	return s
}

// All selects every metric
func All() Set {
	return Set(1<<numMetrics - 1)
}

// Default is the selection used when a configuration names none: the shape metrics of
// the slice report without compactness, intensity or the custom axis, which need
// extra inputs.
func Default() Set {
	return NewSet(Length, CSA, Centroid, Theta, SecondMoment, SectionModulus, Distance,
		PolarMoment, PolarModulus, Perimeter, Circularity, Feret)
}

// Has reports whether m is selected
func (s Set) Has(m Metric) bool {
	return s&(1<<m) != 0
}

// With returns a copy of s with ms added
func (s Set) With(ms ...Metric) Set {
	return s | NewSet(ms...)
}

// Without returns a copy of s with ms removed
func (s Set) Without(ms ...Metric) Set {
	return s &^ NewSet(ms...)
}

// Metrics lists the selections in declaration order
func (s Set) Metrics() []Metric {
	var out []Metric
	for m := Metric(0); m < numMetrics; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s Set) String() string {
	ms := s.Metrics()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

// ParseSet resolves a list of configuration names. Unknown names are an error and
// duplicates are ignored.
func ParseSet(names []string) (Set, error) {
	var s Set
	for _, name := range names {
		m, err := ParseMetric(name)
		if err != nil {
			return 0, err
		}
		s = s.With(m)
	}
	return s, nil
}

// Names returns every configuration name, sorted
func Names() []string {
	out := make([]string, len(metricNames))
	copy(out, metricNames[:])
	sort.Strings(out)
	return out
}

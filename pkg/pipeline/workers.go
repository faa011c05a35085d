package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"segmentgeometry/pkg/metrics"
)

// aspectRatioThreshold is the slenderness below which beam theory's no-shear
// assumption becomes doubtful
const aspectRatioThreshold = 10

// measureInParallel measures the slices at indices across NumCores workers and
// returns records and Feret diameters in the order of indices.
func (p *Pipeline) measureInParallel(parent context.Context, indices []int, n int, length float64) ([]SliceRecord, []float64, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Create a channel for results
	type measureResult struct {
		pos    int
		record SliceRecord
		feret  float64
		err    error
	}
	jobs := make(chan int)
	resultChan := make(chan measureResult)

	workers := min(max(p.params.NumCores, 1), max(len(indices), 1))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				if err := ctx.Err(); err != nil {
					resultChan <- measureResult{pos: pos, err: err}
					continue
				}
				rec, feret, err := p.measure(indices[pos], n, length)
				resultChan <- measureResult{pos: pos, record: rec, feret: feret, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for pos := range indices {
			select {
			case jobs <- pos:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results
	records := make([]SliceRecord, len(indices))
	ferets := make([]float64, len(indices))
	completed := 0
	var firstErr error
	for res := range resultChan {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		records[res.pos] = res.record
		ferets[res.pos] = res.feret
		completed++

		if completed%progressStep(len(indices)) == 0 {
			p.log.WithField("progress", float64(completed)/float64(len(indices))*100).
				Debugf("Measured %d of %d slices", completed, len(indices))
		}
	}

	if firstErr != nil {
		return nil, nil, errors.Wrap(firstErr, "slice measurement failed")
	}
	if completed < len(indices) {
		return nil, nil, errors.Wrap(parent.Err(), "slice measurement cancelled")
	}
	return records, ferets, nil
}

// progressStep logs roughly every tenth of the run
func progressStep(total int) int {
	return max(total/10, 1)
}

// aspectRatio divides the segment length by the smallest Feret diameter found in the
// central 5-95 % band of the sampled indices. The advisory is set when the ratio does
// not exceed the threshold or cannot be determined.
func aspectRatio(indices []int, ferets []float64, length float64) (float64, string) {
	if len(indices) == 0 {
		return 0, "aspect ratio could not be determined: no slices sampled"
	}
	last := float64(indices[len(indices)-1])
	lo, hi := int(last*0.05), int(last*0.95)

	var central []float64
	for i, idx := range indices {
		if idx >= lo && idx <= hi && ferets[i] > 0 {
			central = append(central, ferets[i])
		}
	}
	if len(central) == 0 {
		return 0, "aspect ratio could not be determined: no central slice intersects the segment"
	}

	ar := length / floats.Min(central)
	if ar <= aspectRatioThreshold {
		return ar, fmt.Sprintf("aspect ratio (%.2f) is less than %d; the no-shear assumption may be violated", ar, aspectRatioThreshold)
	}
	return ar, ""
}

// logSummary reports the mean and spread of the measured areas
func (p *Pipeline) logSummary(log logrus.FieldLogger, records []SliceRecord) {
	var areas []float64
	for _, r := range records {
		if v, ok := r.Get(metrics.CSAMM2); ok && v > 0 {
			areas = append(areas, v)
		}
	}
	if len(areas) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(areas, nil)
	log.WithFields(logrus.Fields{
		"meanCSA": mean,
		"stdCSA":  std,
		"maxCSA":  floats.Max(areas),
	}).Info("Cross-sectional area summary")
}

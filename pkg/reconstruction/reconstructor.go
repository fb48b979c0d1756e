// Package reconstruction drives the iterative SART algorithm: it owns the
// persistent image estimate, feeds one projection at a time through the
// kernel in pkg/sart, and applies each returned update buffer with a
// relaxation factor. The kernel itself stays stateless; everything with a
// lifetime longer than one projection lives here.
package reconstruction

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"sartrecon/pkg/radon"
	"sartrecon/pkg/sart"
	"sartrecon/pkg/visualization"
)

// Params holds the reconstruction parameters.
type Params struct {
	// Iterations is the number of passes over the full angle set.
	Iterations int

	// Relaxation scales each per-angle update before it is added into the
	// estimate. Values in (0, 1] trade convergence speed for noise
	// suppression; 0.15 is the customary SART default.
	Relaxation float64

	// Clip enables clamping the estimate to [ClipMin, ClipMax] after each
	// angle, keeping physically impossible intensities out of later ray
	// sums.
	Clip             bool
	ClipMin, ClipMax float64

	// ProjectionShifts optionally holds one sub-pixel detector offset per
	// angle. Empty means no shift.
	ProjectionShifts []float64

	// SaveIntermediaryResults dumps the estimate after every iteration as
	// a grayscale image into IntermediaryDir.
	SaveIntermediaryResults bool
	IntermediaryDir         string
}

// ProgressCallback reports reconstruction progress. completed counts
// processed projections out of total; message describes the current stage.
type ProgressCallback func(completed, total int, message string)

// Reconstructor runs the SART iteration schedule over a sinogram.
type Reconstructor struct {
	params   *Params
	progress ProgressCallback
}

// NewReconstructor creates a reconstructor with the provided parameters.
func NewReconstructor(params *Params) *Reconstructor {
	return &Reconstructor{params: params}
}

// SetProgressCallback registers a callback invoked after every processed
// projection.
func (r *Reconstructor) SetProgressCallback(cb ProgressCallback) {
	r.progress = cb
}

// Reconstruct runs the full iteration schedule against sino and returns the
// final size x size estimate. The estimate starts at zero; each angle
// produces one update buffer from the kernel, which is scaled by the
// relaxation factor and added in place before the next angle is processed.
// Angles are applied in sinogram order, once per iteration.
func (r *Reconstructor) Reconstruct(sino *radon.Sinogram, size int) ([]float64, error) {
	if r.params.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be at least 1, got %d", r.params.Iterations)
	}
	if r.params.Relaxation <= 0 {
		return nil, fmt.Errorf("relaxation must be positive, got %g", r.params.Relaxation)
	}
	if sino.RayCount != size {
		return nil, fmt.Errorf("sinogram has %d rays per angle, want %d for image size %d", sino.RayCount, size, size)
	}
	if len(r.params.ProjectionShifts) > 0 && len(r.params.ProjectionShifts) != sino.AngleCount() {
		return nil, fmt.Errorf("got %d projection shifts for %d angles", len(r.params.ProjectionShifts), sino.AngleCount())
	}
	if r.params.Clip && r.params.ClipMin > r.params.ClipMax {
		return nil, fmt.Errorf("invalid clip range [%g, %g]", r.params.ClipMin, r.params.ClipMax)
	}

	estimate := make([]float64, size*size)
	total := r.params.Iterations * sino.AngleCount()
	completed := 0

	for iteration := 0; iteration < r.params.Iterations; iteration++ {
		for a := 0; a < sino.AngleCount(); a++ {
			shift := 0.0
			if len(r.params.ProjectionShifts) > 0 {
				shift = r.params.ProjectionShifts[a]
			}

			update, err := sart.ProjectionUpdate(estimate, size, sino.Theta[a], sino.Projection(a), shift)
			if err != nil {
				return nil, fmt.Errorf("projection update at angle %g failed: %v", sino.Theta[a], err)
			}

			floats.AddScaled(estimate, r.params.Relaxation, update)
			if r.params.Clip {
				clamp(estimate, r.params.ClipMin, r.params.ClipMax)
			}

			completed++
			if r.progress != nil {
				r.progress(completed, total,
					fmt.Sprintf("iteration %d, angle %g", iteration+1, sino.Theta[a]))
			}
		}

		if r.params.SaveIntermediaryResults {
			filename := filepath.Join(r.params.IntermediaryDir,
				fmt.Sprintf("estimate_iter_%03d.jpg", iteration+1))
			if err := visualization.SaveField(estimate, size, size, 1, filename); err != nil {
				return nil, fmt.Errorf("failed to save intermediary estimate: %v", err)
			}
		}
	}

	return estimate, nil
}

// clamp limits every sample of data to [lo, hi] in place.
func clamp(data []float64, lo, hi float64) {
	for i, v := range data {
		if v < lo {
			data[i] = lo
		} else if v > hi {
			data[i] = hi
		}
	}
}

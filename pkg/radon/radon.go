// Package radon provides the forward projection front end for the SART
// kernel: it simulates the sinogram of a square image by evaluating one
// bilinear ray sum per detector position and angle. Because it shares the
// ray geometry of package sart, simulated and measured projections live in
// the same coordinate convention and can be compared directly during
// reconstruction.
package radon

import (
	"fmt"
	"runtime"
	"sync"

	"sartrecon/pkg/sart"
)

// Sinogram holds the projections of one image: one row of ray sums per
// angle, indexed by detector position. Data is stored row-major, so the
// projection for angle a occupies Data[a*RayCount : (a+1)*RayCount].
type Sinogram struct {
	// Data holds AngleCount*RayCount ray sums in row-major order.
	Data []float64

	// RayCount is the number of detector positions per projection.
	RayCount int

	// Theta lists the projection angles in degrees, one per row.
	Theta []float64
}

// NewSinogram allocates a zero-filled sinogram for the given detector size
// and angle set.
func NewSinogram(rayCount int, theta []float64) *Sinogram {
	return &Sinogram{
		Data:     make([]float64, rayCount*len(theta)),
		RayCount: rayCount,
		Theta:    append([]float64(nil), theta...),
	}
}

// AngleCount returns the number of projections in the sinogram.
func (s *Sinogram) AngleCount() int {
	return len(s.Theta)
}

// Projection returns the ray sums for angle index a. The returned slice
// aliases the sinogram storage.
func (s *Sinogram) Projection(a int) []float64 {
	return s.Data[a*s.RayCount : (a+1)*s.RayCount]
}

// UniformAngles returns n angles evenly spaced over [start, stop) degrees.
// The conventional half-turn coverage for parallel-beam tomography is
// UniformAngles(n, 0, 180).
func UniformAngles(n int, start, stop float64) []float64 {
	theta := make([]float64, n)
	step := (stop - start) / float64(n)
	for i := range theta {
		theta[i] = start + float64(i)*step
	}
	return theta
}

// Transform computes forward projections for a fixed set of angles.
type Transform struct {
	theta      []float64
	numWorkers int
}

// NewTransform creates a forward projector for the given angles in degrees,
// using all available CPU cores by default.
func NewTransform(theta []float64) *Transform {
	return &Transform{
		theta:      append([]float64(nil), theta...),
		numWorkers: runtime.NumCPU(),
	}
}

// SetWorkers overrides the number of goroutines used by Forward. Values
// below 1 reset it to a single worker.
func (t *Transform) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	t.numWorkers = n
}

// Forward simulates the sinogram of image, a square grid of size*size
// samples in row-major order. Each angle produces size ray sums at integer
// detector positions 0..size-1, matching what the SART driver consumes.
//
// Angles are processed in parallel; each worker writes to its own disjoint
// rows of the sinogram, so the result is deterministic regardless of the
// worker count.
func (t *Transform) Forward(image []float64, size int) (*Sinogram, error) {
	if size < 2 {
		return nil, fmt.Errorf("image size %d is too small for a reconstruction support", size)
	}
	if len(image) != size*size {
		return nil, fmt.Errorf("image is not square: got %d samples, want %d for size %d", len(image), size*size, size)
	}
	if len(t.theta) == 0 {
		return nil, fmt.Errorf("no projection angles configured")
	}

	sino := NewSinogram(size, t.theta)

	numAngles := len(t.theta)
	anglesPerWorker := (numAngles + t.numWorkers - 1) / t.numWorkers

	var wg sync.WaitGroup
	for w := 0; w < t.numWorkers; w++ {
		start := w * anglesPerWorker
		end := start + anglesPerWorker
		if end > numAngles {
			end = numAngles
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for a := start; a < end; a++ {
				projection := sino.Projection(a)
				for r := 0; r < size; r++ {
					sum, _ := sart.BilinearRaySum(image, size, t.theta[a], float64(r))
					projection[r] = sum
				}
			}
		}(start, end)
	}
	wg.Wait()

	return sino, nil
}

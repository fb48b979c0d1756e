package radon

import (
	"math"
	"testing"

	"sartrecon/pkg/sart"
)

// TestUniformAngles verifies spacing and half-open coverage of the angle
// generator.
func TestUniformAngles(t *testing.T) {
	theta := UniformAngles(4, 0, 180)
	want := []float64{0, 45, 90, 135}

	if len(theta) != len(want) {
		t.Fatalf("Expected %d angles, got %d", len(want), len(theta))
	}
	for i := range want {
		if math.Abs(theta[i]-want[i]) > 1e-12 {
			t.Errorf("Expected theta[%d]=%g, got %g", i, want[i], theta[i])
		}
	}
}

// TestForwardMatchesRaySums checks that the parallel forward projector
// produces exactly the per-ray sums of the kernel, independent of the
// worker count.
func TestForwardMatchesRaySums(t *testing.T) {
	size := 16
	image := make([]float64, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			image[i*size+j] = 0.25 + 0.75*math.Cos(0.3*float64(i*size+j))
		}
	}

	theta := UniformAngles(9, 0, 180)

	for _, workers := range []int{1, 3, 8} {
		transform := NewTransform(theta)
		transform.SetWorkers(workers)

		sino, err := transform.Forward(image, size)
		if err != nil {
			t.Fatalf("Forward failed with %d workers: %v", workers, err)
		}
		if sino.AngleCount() != len(theta) || sino.RayCount != size {
			t.Fatalf("Expected %dx%d sinogram, got %dx%d", len(theta), size, sino.AngleCount(), sino.RayCount)
		}

		for a := range theta {
			projection := sino.Projection(a)
			for r := 0; r < size; r++ {
				want, _ := sart.BilinearRaySum(image, size, theta[a], float64(r))
				if projection[r] != want {
					t.Fatalf("workers=%d angle=%g ray=%d: got %v, want %v",
						workers, theta[a], r, projection[r], want)
				}
			}
		}
	}
}

// TestForwardDegenerateRays verifies that detector positions outside the
// support produce exact zeros in the sinogram.
func TestForwardDegenerateRays(t *testing.T) {
	size := 16
	image := make([]float64, size*size)
	for i := range image {
		image[i] = 1.0
	}

	transform := NewTransform([]float64{0, 90})
	sino, err := transform.Forward(image, size)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	for a := 0; a < sino.AngleCount(); a++ {
		projection := sino.Projection(a)
		// position 0 gives |t| = 8 against a support radius of 7
		if projection[0] != 0 {
			t.Errorf("Expected zero ray sum at position 0, got %g", projection[0])
		}
		if projection[size/2] <= 0 {
			t.Errorf("Expected positive central ray sum, got %g", projection[size/2])
		}
	}
}

// TestForwardValidation ensures shape and angle errors surface instead of
// silent nonsense.
func TestForwardValidation(t *testing.T) {
	transform := NewTransform([]float64{0})
	if _, err := transform.Forward(make([]float64, 10), 4); err == nil {
		t.Errorf("Expected an error for a non-square image")
	}

	empty := NewTransform(nil)
	if _, err := empty.Forward(make([]float64, 16), 4); err == nil {
		t.Errorf("Expected an error for an empty angle set")
	}
}

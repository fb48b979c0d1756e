package phantom

import (
	"math"
	"testing"
)

// TestSheppLoganShape verifies dimensions and that the phantom vanishes
// outside the inscribed support circle.
func TestSheppLoganShape(t *testing.T) {
	size := 64
	img := SheppLogan(size)

	if len(img) != size*size {
		t.Fatalf("Expected %d samples, got %d", size*size, len(img))
	}

	corners := []int{0, size - 1, (size - 1) * size, size*size - 1}
	for _, idx := range corners {
		if img[idx] != 0 {
			t.Errorf("Expected zero outside the support at %d, got %g", idx, img[idx])
		}
	}
}

// TestSheppLoganCenterValue checks the known intensity at the phantom
// center: skull (1.0) plus brain (-0.8) with no inner ellipse covering the
// origin.
func TestSheppLoganCenterValue(t *testing.T) {
	size := 128
	img := SheppLogan(size)

	center := size / 2
	got := img[center*size+center]
	if math.Abs(got-0.2) > 1e-12 {
		t.Errorf("Expected center intensity 0.2, got %g", got)
	}
}

// TestSheppLoganRange ensures all intensities stay within the expected
// window of the modified phantom.
func TestSheppLoganRange(t *testing.T) {
	img := SheppLogan(96)

	for idx, v := range img {
		if v < -1e-12 || v > 1+1e-12 {
			t.Errorf("Intensity out of range at %d: %g", idx, v)
		}
	}
}

package visualization

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGrayImageRescaling verifies that the field's extrema map to black and
// white and that dimensions carry through.
func TestGrayImageRescaling(t *testing.T) {
	width, height := 4, 3
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(i)
	}

	img, err := GrayImage(data, width, height)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		t.Fatalf("Expected %dx%d image, got %dx%d", width, height, bounds.Dx(), bounds.Dy())
	}

	if got := img.Gray16At(0, 0); got.Y != 0 {
		t.Errorf("Expected minimum to map to black, got %d", got.Y)
	}
	if got := img.Gray16At(width-1, height-1); got.Y != 65535 {
		t.Errorf("Expected maximum to map to white, got %d", got.Y)
	}
}

// TestGrayImageConstantField ensures a constant field renders without a
// division by zero.
func TestGrayImageConstantField(t *testing.T) {
	data := []float64{2, 2, 2, 2}
	img, err := GrayImage(data, 2, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := img.Gray16At(1, 1); got.Y != 0 {
		t.Errorf("Expected constant field to render black, got %d", got.Y)
	}
}

// TestGrayImageValidation checks dimension mismatches are rejected.
func TestGrayImageValidation(t *testing.T) {
	if _, err := GrayImage(make([]float64, 5), 2, 2); err == nil {
		t.Errorf("Expected an error for a mismatched field length")
	}
	if _, err := GrayImage(nil, 0, 2); err == nil {
		t.Errorf("Expected an error for zero width")
	}
}

// TestUpscale verifies integer nearest-neighbor enlargement preserves pixel
// blocks.
func TestUpscale(t *testing.T) {
	data := []float64{0, 1, 1, 0}
	img, err := GrayImage(data, 2, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	scaled := Upscale(img, 3)
	bounds := scaled.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 6 {
		t.Fatalf("Expected 6x6 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// top-left source pixel is black, its 3x3 block must stay black
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			if r != 0 || g != 0 || b != 0 {
				t.Fatalf("Expected black block at (%d,%d)", x, y)
			}
		}
	}

	if got := Upscale(img, 1); got != img {
		t.Errorf("Expected factor 1 to return the input image")
	}
}

// TestSaveField writes a field to disk and checks the file exists.
func TestSaveField(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "out", "field.jpg")

	data := []float64{0, 0.5, 1, 0.25}
	if err := SaveField(data, 2, 2, 2, filename); err != nil {
		t.Fatalf("SaveField failed: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("Expected non-empty JPEG output")
	}
}

package reconstruction

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ValidationMetrics holds quality metrics of a reconstruction against a
// known reference image.
type ValidationMetrics struct {
	// RMSE is the root mean square error between reference and estimate.
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB, using the reference's
	// peak intensity. Infinite for a perfect reconstruction.
	PSNR float64

	// SSIM is the structural similarity index over the whole image,
	// considering luminance, contrast, and structure. 1 means identical.
	SSIM float64

	// Correlation is the Pearson correlation between the two intensity
	// fields.
	Correlation float64
}

// Evaluate compares a reconstruction estimate against a reference image of
// the same shape.
func Evaluate(reference, estimate []float64) (ValidationMetrics, error) {
	if len(reference) != len(estimate) || len(reference) == 0 {
		return ValidationMetrics{}, fmt.Errorf("cannot compare %d reference samples with %d estimate samples",
			len(reference), len(estimate))
	}

	var m ValidationMetrics
	m.RMSE = rmse(reference, estimate)
	m.SSIM = ssim(reference, estimate)
	m.Correlation = stat.Correlation(reference, estimate, nil)

	peak := floats.Max(reference)
	if m.RMSE > 0 && peak > 0 {
		m.PSNR = 20 * math.Log10(peak/m.RMSE)
	} else {
		m.PSNR = math.Inf(1)
	}

	return m, nil
}

// rmse computes the root mean square error between two equal-length fields.
func rmse(a, b []float64) float64 {
	var mse float64
	for i := range a {
		diff := a[i] - b[i]
		mse += diff * diff
	}
	mse /= float64(len(a))
	return math.Sqrt(mse)
}

// ssim computes a single-window structural similarity index.
func ssim(a, b []float64) float64 {
	const L = 1.0
	const k1 = 0.01
	const k2 = 0.03

	c1 := (k1 * L) * (k1 * L)
	c2 := (k2 * L) * (k2 * L)

	muX := stat.Mean(a, nil)
	muY := stat.Mean(b, nil)
	sigmaX := stat.Variance(a, nil)
	sigmaY := stat.Variance(b, nil)
	sigmaXY := stat.Covariance(a, b, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)

	if den > 0 {
		return num / den
	}
	return 0
}

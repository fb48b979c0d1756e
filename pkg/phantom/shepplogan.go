// Package phantom generates synthetic test images for tomographic
// reconstruction experiments.
package phantom

import "math"

// ellipse is one component of the head phantom: an intensity added inside
// an ellipse with semi-axes a and b, centered at (x0, y0) in the unit
// square and rotated by phi degrees.
type ellipse struct {
	value  float64
	a, b   float64
	x0, y0 float64
	phi    float64
}

// sheppLogan is the modified Shepp-Logan ellipse set, with the contrast
// raised from the original paper's values so that the inner structures are
// visible without windowing.
var sheppLogan = []ellipse{
	{1.0, 0.69, 0.92, 0, 0, 0},
	{-0.8, 0.6624, 0.8740, 0, -0.0184, 0},
	{-0.2, 0.1100, 0.3100, 0.22, 0, -18},
	{-0.2, 0.1600, 0.4100, -0.22, 0, 18},
	{0.1, 0.2100, 0.2500, 0, 0.35, 0},
	{0.1, 0.0460, 0.0460, 0, 0.1, 0},
	{0.1, 0.0460, 0.0460, 0, -0.1, 0},
	{0.1, 0.0460, 0.0230, -0.08, -0.605, 0},
	{0.1, 0.0230, 0.0230, 0, -0.606, 0},
	{0.1, 0.0230, 0.0460, 0.06, -0.605, 0},
}

// SheppLogan renders the modified Shepp-Logan head phantom on a size x size
// grid in row-major order. The phantom's unit square is mapped onto the
// inscribed reconstruction support (center size/2, radius size/2 - 1), the
// same convention the SART kernel uses, so every nonzero pixel lies on ray
// paths the kernel can see. Pixels outside the support are zero.
func SheppLogan(size int) []float64 {
	img := make([]float64, size*size)
	if size < 2 {
		return img
	}

	center := float64(size / 2)
	radius := float64(size/2 - 1)

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			x := (float64(j) - center) / radius
			y := (center - float64(i)) / radius
			if x*x+y*y > 1 {
				continue
			}
			img[i*size+j] = intensityAt(x, y)
		}
	}
	return img
}

// intensityAt sums the intensities of all ellipses containing (x, y).
func intensityAt(x, y float64) float64 {
	var v float64
	for _, e := range sheppLogan {
		phi := e.phi * math.Pi / 180
		sinP, cosP := math.Sincos(phi)

		xt := x - e.x0
		yt := y - e.y0
		xr := xt*cosP + yt*sinP
		yr := -xt*sinP + yt*cosP

		if (xr*xr)/(e.a*e.a)+(yr*yr)/(e.b*e.b) <= 1 {
			v += e.value
		}
	}
	return v
}

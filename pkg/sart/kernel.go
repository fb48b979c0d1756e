// Package sart implements the inner numerical kernel of the Simultaneous
// Algebraic Reconstruction Technique (SART).
//
// Given a square 2D reconstruction estimate and one measured projection
// (the ray sums for a fixed rotation angle), the kernel computes a per-pixel
// additive correction that pulls the estimate's simulated projection towards
// the measured one. Three functions form the pipeline:
//
//  1. BilinearRaySum walks a ray through the image's circular support and
//     accumulates a bilinearly interpolated line integral plus a
//     normalization weight.
//  2. BilinearRayUpdate derives a per-ray deviation from that sum and
//     scatter-adds a windowed, weighted correction into an update buffer.
//  3. ProjectionUpdate runs the updater over every ray of one projection
//     and returns the accumulated update buffer.
//
// The kernel holds no state: the image is read-only, the update buffer is
// freshly allocated per call, and concurrent calls are safe as long as each
// call owns its own buffer. Applying the returned buffer to a persistent
// estimate, and the multi-angle/multi-iteration schedule, belong to the
// caller (see package reconstruction).
package sart

import (
	"fmt"
	"math"
)

// Float constrains the kernel to IEEE-754 single or double precision.
// The algorithm body is shared; all arithmetic runs in the instantiated
// width, so rounding behavior follows directly from the chosen type.
type Float interface {
	~float32 | ~float64
}

// hammingBeta is the coefficient of the Hamming-like window applied to the
// correction along each ray.
const hammingBeta = 0.46164

// rayGeometry describes the sampling geometry of one ray through the
// circular reconstruction support: the entry point into the support circle,
// the per-sample step vector, and the number of sampling steps. The sampler
// and the updater each trace the ray independently so that both walks are
// bit-identical and side-effect free.
type rayGeometry[T Float] struct {
	// ns is the number of sampling steps along the ray (ns+1 samples).
	// It is always even, and 0 when the ray misses the support.
	ns int

	// ds is the step length between consecutive samples.
	ds T

	// x0, y0 is the point where the ray enters the support circle,
	// in coordinates centered on the rotation center.
	x0, y0 T

	// dx, dy is the step vector from one sample to the next.
	dx, dy T

	// center translates centered coordinates into array index space.
	center T
}

// traceRay computes the sampling geometry of the ray identified by theta
// (in degrees) and rayPosition (in pixels) through a size x size image.
// The support circle has radius size/2 - 1 around the center size/2; rays
// whose perpendicular offset exceeds the radius yield ns == 0.
func traceRay[T Float](size int, theta, rayPosition T) rayGeometry[T] {
	thetaRad := theta / 180 * T(math.Pi)
	radius := T(size/2 - 1)
	projectionCenter := T(size / 2)
	t := rayPosition - projectionCenter

	var s0 T
	if radius*radius >= t*t {
		s0 = T(math.Sqrt(float64(radius*radius - t*t)))
	}
	ns := 2 * int(math.Ceil(float64(2*s0)))

	g := rayGeometry[T]{ns: ns, center: T(size / 2)}
	if ns > 0 {
		sinT := T(math.Sin(float64(thetaRad)))
		cosT := T(math.Cos(float64(thetaRad)))
		g.ds = 2 * s0 / T(ns)
		g.dx = -g.ds * cosT
		g.dy = -g.ds * sinT
		g.x0 = s0*cosT - t*sinT
		g.y0 = s0*sinT + t*cosT
	}
	return g
}

// at returns the position of sample k in array index space.
func (g *rayGeometry[T]) at(k int) (x, y T) {
	return g.x0 + T(k)*g.dx + g.center, g.y0 + T(k)*g.dy + g.center
}

// window returns the Hamming-like window applied to sample k of the
// correction. For rays with fewer than two steps the denominator ns-1
// would vanish; the window is pinned to 1 there so that no non-finite
// value can reach the update buffer. Since ns is always even this branch
// is a guard rather than a reachable behavior.
func (g *rayGeometry[T]) window(k int) T {
	if g.ns < 2 {
		return 1
	}
	return (1 - hammingBeta) - hammingBeta*T(math.Cos(2*math.Pi*float64(k)/float64(g.ns-1)))
}

// bilinearGather accumulates the contribution of the sample at (x, y) in
// array index space from its four surrounding pixels. Each pixel's weight
// is the bilinear coefficient scaled by ds; the squared weight goes into
// the normalization term.
//
// Neighbor inclusion is one-sided: a low-index neighbor contributes only
// when its index is strictly greater than 0, a high-index neighbor only
// when the base index is strictly less than size-1. Pixels in row or
// column 0 therefore never contribute a low weight. This asymmetry is a
// compatibility requirement; a symmetric clamp would change the numbers.
func bilinearGather[T Float](image []T, size int, x, y, ds T) (sum, norm T) {
	i := int(math.Floor(float64(x)))
	j := int(math.Floor(float64(y)))
	di := x - T(i)
	dj := y - T(j)

	if i > 0 && j > 0 {
		w := (1 - di) * (1 - dj) * ds
		sum += w * image[i*size+j]
		norm += w * w
	}
	if i > 0 && j < size-1 {
		w := (1 - di) * dj * ds
		sum += w * image[i*size+j+1]
		norm += w * w
	}
	if i < size-1 && j > 0 {
		w := di * (1 - dj) * ds
		sum += w * image[(i+1)*size+j]
		norm += w * w
	}
	if i < size-1 && j < size-1 {
		w := di * dj * ds
		sum += w * image[(i+1)*size+j+1]
		norm += w * w
	}
	return sum, norm
}

// bilinearScatter adds v into buf around the sample at (x, y), weighted by
// the same four-neighbor bilinear kernel and edge-inclusion rule as
// bilinearGather.
func bilinearScatter[T Float](buf []T, size int, x, y, ds, v T) {
	i := int(math.Floor(float64(x)))
	j := int(math.Floor(float64(y)))
	di := x - T(i)
	dj := y - T(j)

	if i > 0 && j > 0 {
		buf[i*size+j] += v * (1 - di) * (1 - dj) * ds
	}
	if i > 0 && j < size-1 {
		buf[i*size+j+1] += v * (1 - di) * dj * ds
	}
	if i < size-1 && j > 0 {
		buf[(i+1)*size+j] += v * di * (1 - dj) * ds
	}
	if i < size-1 && j < size-1 {
		buf[(i+1)*size+j+1] += v * di * dj * ds
	}
}

// BilinearRaySum computes the simulated line integral of image along one
// ray. theta is the projection angle in degrees, rayPosition the detector
// offset in pixels relative to the projection center size/2. It returns
// the accumulated ray sum and the sum of squared bilinear weights used to
// normalize the update step.
//
// image must hold size*size samples in row-major order; ProjectionUpdate
// is the validated entry point for callers that cannot guarantee this.
// A ray that misses the circular support returns (0, 0).
func BilinearRaySum[T Float](image []T, size int, theta, rayPosition T) (raySum, weightNorm T) {
	g := traceRay(size, theta, rayPosition)
	if g.ns == 0 {
		return 0, 0
	}
	for k := 0; k <= g.ns; k++ {
		x, y := g.at(k)
		s, n := bilinearGather(image, size, x, y, g.ds)
		raySum += s
		weightNorm += n
	}
	return raySum, weightNorm
}

// BilinearRayUpdate scatter-adds the windowed correction for one ray into
// update and returns the ray's deviation. The deviation is the negated
// mismatch between the simulated ray sum and projectedValue, normalized by
// the squared-weight sum; rays with zero weight (missed or empty support)
// yield a deviation of 0 and leave the buffer untouched.
//
// update must have the same length and element type as image. The ray
// geometry is recomputed rather than reused from the sampling pass, so the
// two walks stay independently callable and bit-identical.
func BilinearRayUpdate[T Float](image, update []T, size int, theta, rayPosition, projectedValue T) T {
	raySum, weightNorm := BilinearRaySum(image, size, theta, rayPosition)

	var deviation T
	if weightNorm > 0 {
		deviation = -(raySum - projectedValue) / weightNorm
	}

	g := traceRay(size, theta, rayPosition)
	if g.ns == 0 {
		return deviation
	}
	for k := 0; k <= g.ns; k++ {
		x, y := g.at(k)
		bilinearScatter(update, size, x, y, g.ds, deviation*g.window(k))
	}
	return deviation
}

// ProjectionUpdate computes the per-pixel correction for one measured
// projection. For each index i of projection it updates the ray at
// position i + projectionShift, in order, accumulating all corrections
// into a freshly allocated zero-initialized buffer of the same shape and
// precision as image. The per-ray deviations are discarded; the buffer is
// the result.
//
// The caller owns the returned buffer; typically it is scaled by a
// relaxation factor and added into the persistent estimate before the next
// angle is processed. ProjectionUpdate fails if image is not a square grid
// of at least 2x2 samples.
func ProjectionUpdate[T Float](image []T, size int, theta T, projection []T, projectionShift T) ([]T, error) {
	if size < 2 {
		return nil, fmt.Errorf("image size %d is too small for a reconstruction support", size)
	}
	if len(image) != size*size {
		return nil, fmt.Errorf("image is not square: got %d samples, want %d for size %d", len(image), size*size, size)
	}

	update := make([]T, size*size)
	for i := range projection {
		BilinearRayUpdate(image, update, size, theta, T(i)+projectionShift, projection[i])
	}
	return update, nil
}

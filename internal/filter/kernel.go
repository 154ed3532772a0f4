package filter

import (
	"math"

	"github.com/gogpu/compositor/internal/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel using radius as
// sigma. The kernel has 2*ceil(3*radius)+1 taps, covering three standard
// deviations. For radius <= 0 it is the identity kernel [1].
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	half := Extent(radius)
	kernel := make([]float32, half*2+1)

	twoSigmaSq := 2 * radius * radius
	sum := float64(0)
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// Extent returns how many pixels a blur of radius reads on each side.
func Extent(radius float64) int {
	if radius <= 0 {
		return 0
	}
	return int(math.Ceil(radius * 3))
}

// kernels holds shared kernels keyed by radius quantized to 0.01.
var kernels = cache.New[int, []float32](64)

// CachedGaussianKernel returns a shared kernel for radius. Callers must not
// modify it.
func CachedGaussianKernel(radius float64) []float32 {
	return kernels.GetOrCreate(int(radius*100), func() []float32 {
		return GaussianKernel(radius)
	})
}

package filter

import (
	"image"
	"sync"

	"github.com/gogpu/compositor/internal/parallel"
)

// minBandRows is the smallest number of rows handed to one worker.
const minBandRows = 32

// workers is shared by every blur in the process.
var workers = sync.OnceValue(func() *parallel.WorkerPool {
	return parallel.NewWorkerPool(0)
})

// Blur returns a Gaussian-blurred copy of src with the same bounds.
// The blur is separable: a horizontal pass into a float buffer followed by
// a vertical pass back to bytes. A non-positive radius returns a copy.
func Blur(src *image.RGBA, radius float64) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	if b.Empty() {
		return dst
	}
	if radius <= 0 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			copy(dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)],
				src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)])
		}
		return dst
	}

	w, h := b.Dx(), b.Dy()
	kernel := CachedGaussianKernel(radius)

	temp := getTempBuffer(w, h)
	defer putTempBuffer(temp)

	pool := workers()
	pool.Bands(h, minBandRows, func(y0, y1 int) {
		blurHorizontal(src, temp, w, y0, y1, kernel)
	})
	pool.Bands(h, minBandRows, func(y0, y1 int) {
		blurVertical(temp, dst, w, h, y0, y1, kernel)
	})
	return dst
}

// blurHorizontal convolves rows [y0, y1) of src into temp.
func blurHorizontal(src *image.RGBA, temp []float32, w, y0, y1 int, kernel []float32) {
	half := len(kernel) / 2
	o := src.Rect.Min
	for y := y0; y < y1; y++ {
		row := src.Pix[src.PixOffset(o.X, o.Y+y):]
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				kx := clampInt(x+k-half, 0, w-1)
				i := kx * 4
				r += float32(row[i+0]) * weight
				g += float32(row[i+1]) * weight
				b += float32(row[i+2]) * weight
				a += float32(row[i+3]) * weight
			}
			t := (y*w + x) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = b
			temp[t+3] = a
		}
	}
}

// blurVertical convolves the columns of temp into rows [y0, y1) of dst.
// Every row of temp must be complete.
func blurVertical(temp []float32, dst *image.RGBA, w, h, y0, y1 int, kernel []float32) {
	half := len(kernel) / 2
	o := dst.Rect.Min
	for y := y0; y < y1; y++ {
		row := dst.Pix[dst.PixOffset(o.X, o.Y+y):]
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				ky := clampInt(y+k-half, 0, h-1)
				t := (ky*w + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				b += temp[t+2] * weight
				a += temp[t+3] * weight
			}
			i := x * 4
			row[i+0] = clampUint8(r)
			row[i+1] = clampUint8(g)
			row[i+2] = clampUint8(b)
			row[i+3] = clampUint8(a)
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 256*256*4)}
	},
}

// getTempBuffer returns a buffer of at least w*h*4 elements. Every element
// is overwritten by blurHorizontal, so it is not cleared.
func getTempBuffer(w, h int) []float32 {
	size := w * h * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	return wrapper.data[:size]
}

func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and rounds to nearest.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

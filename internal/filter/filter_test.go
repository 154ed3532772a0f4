package filter

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		radius   float64
		wantSize int
	}{
		{0, 1},
		{-3, 1},
		{1, 7},
		{2.5, 17},
		{5, 31},
	}
	for _, tt := range tests {
		kernel := GaussianKernel(tt.radius)
		if len(kernel) != tt.wantSize {
			t.Errorf("GaussianKernel(%v) len = %d, want %d", tt.radius, len(kernel), tt.wantSize)
		}
		var sum float32
		for _, v := range kernel {
			sum += v
		}
		if math.Abs(float64(sum)-1) > 0.001 {
			t.Errorf("GaussianKernel(%v) sum = %v, want ~1.0", tt.radius, sum)
		}
		n := len(kernel)
		for i := 0; i < n/2; i++ {
			if math.Abs(float64(kernel[i]-kernel[n-1-i])) > 1e-6 {
				t.Errorf("GaussianKernel(%v) asymmetric at %d", tt.radius, i)
			}
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(3)
	b := CachedGaussianKernel(3)
	if &a[0] != &b[0] {
		t.Error("CachedGaussianKernel(3) returned distinct slices")
	}
}

func TestExtent(t *testing.T) {
	if got := Extent(0); got != 0 {
		t.Errorf("Extent(0) = %d, want 0", got)
	}
	if got := Extent(2); got != 6 {
		t.Errorf("Extent(2) = %d, want 6", got)
	}
}

func TestBlurZeroRadiusCopies(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 9))
	src.SetRGBA(6, 7, color.RGBA{R: 200, A: 255})

	dst := Blur(src, 0)
	if dst.Bounds() != src.Bounds() {
		t.Fatalf("Blur() bounds = %v, want %v", dst.Bounds(), src.Bounds())
	}
	if got := dst.RGBAAt(6, 7); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("Blur(0) pixel = %v, want copy", got)
	}
	dst.SetRGBA(6, 7, color.RGBA{})
	if src.RGBAAt(6, 7).A == 0 {
		t.Error("Blur(0) shares pixels with its source")
	}
}

func TestBlurUniformUnchanged(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 100
	}
	dst := Blur(src, 2)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := dst.RGBAAt(x, y); got != (color.RGBA{100, 100, 100, 100}) {
				t.Fatalf("Blur() of uniform image at (%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestBlurSpreadsEnergy(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 11, 11))
	src.SetRGBA(5, 5, color.RGBA{255, 255, 255, 255})

	dst := Blur(src, 1)
	center := dst.RGBAAt(5, 5).A
	near := dst.RGBAAt(6, 5).A
	far := dst.RGBAAt(9, 5).A

	if center == 255 || center == 0 {
		t.Errorf("center alpha = %d, want partially spread", center)
	}
	if near == 0 || near > center {
		t.Errorf("neighbour alpha = %d, want in (0, %d]", near, center)
	}
	if far != 0 {
		t.Errorf("alpha four pixels away = %d, want 0", far)
	}
}

func TestBlurTallImageAcrossBands(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 7, 21, 207))
	const stripe = 107
	for x := 5; x < 21; x++ {
		src.SetRGBA(x, stripe, color.RGBA{200, 200, 200, 200})
	}

	dst := Blur(src, 2)
	if dst.Rect != src.Rect {
		t.Fatalf("Blur() bounds = %v, want %v", dst.Rect, src.Rect)
	}
	for x := 5; x < 21; x++ {
		for k := 1; k <= 6; k++ {
			above, below := dst.RGBAAt(x, stripe-k), dst.RGBAAt(x, stripe+k)
			if above != below {
				t.Fatalf("column %d: row -%d = %v, row +%d = %v", x, k, above, k, below)
			}
		}
		if c, n := dst.RGBAAt(x, stripe).A, dst.RGBAAt(x, stripe+3).A; c <= n || n == 0 {
			t.Errorf("column %d: center alpha %d, alpha 3 rows away %d", x, c, n)
		}
		if got := dst.RGBAAt(x, 7).A; got != 0 {
			t.Errorf("column %d: top row alpha = %d, want 0", x, got)
		}
	}
}

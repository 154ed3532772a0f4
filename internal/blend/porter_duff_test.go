package blend

import (
	"testing"

	"github.com/gogpu/compositor/frame"
)

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		name string
		a, b byte
		want byte
	}{
		{"zero * zero", 0, 0, 0},
		{"zero * max", 0, 255, 0},
		{"max * max", 255, 255, 255},
		{"half * half", 128, 128, 64},
		{"255 * 128", 255, 128, 128},
		{"10 * 10", 10, 10, 0},
		{"100 * 100", 100, 100, 39},
		{"200 * 200", 200, 200, 157},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mulDiv255(tt.a, tt.b); got != tt.want {
				t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLerp255(t *testing.T) {
	tests := []struct {
		a, b, t byte
		want    byte
	}{
		{10, 200, 0, 10},
		{10, 200, 255, 200},
		{0, 255, 51, 51},
		{255, 0, 51, 204},
	}
	for _, tt := range tests {
		if got := lerp255(tt.a, tt.b, tt.t); got != tt.want {
			t.Errorf("lerp255(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}

func TestBlendModes(t *testing.T) {
	// Opaque red source, opaque blue destination.
	const (
		sr, sg, sb, sa = 255, 0, 0, 255
		dr, dg, db, da = 0, 0, 255, 255
	)
	tests := []struct {
		mode frame.BlendMode
		want [4]byte
	}{
		{frame.BlendClear, [4]byte{0, 0, 0, 0}},
		{frame.BlendSource, [4]byte{255, 0, 0, 255}},
		{frame.BlendDestination, [4]byte{0, 0, 255, 255}},
		{frame.BlendSourceOver, [4]byte{255, 0, 0, 255}},
		{frame.BlendDestinationOver, [4]byte{0, 0, 255, 255}},
		{frame.BlendSourceIn, [4]byte{255, 0, 0, 255}},
		{frame.BlendDestinationIn, [4]byte{0, 0, 255, 255}},
		{frame.BlendSourceOut, [4]byte{0, 0, 0, 0}},
		{frame.BlendDestinationOut, [4]byte{0, 0, 0, 0}},
		{frame.BlendXor, [4]byte{0, 0, 0, 0}},
		{frame.BlendPlus, [4]byte{255, 0, 255, 255}},
		{frame.BlendMultiply, [4]byte{0, 0, 0, 255}},
		{frame.BlendScreen, [4]byte{255, 0, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			r, g, b, a := For(tt.mode)(sr, sg, sb, sa, dr, dg, db, da)
			if got := [4]byte{r, g, b, a}; got != tt.want {
				t.Errorf("For(%v)() = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestSourceOverHalfAlpha(t *testing.T) {
	// 50% premultiplied white over opaque black.
	r, g, b, a := blendSourceOver(128, 128, 128, 128, 0, 0, 0, 255)
	if r != 128 || g != 128 || b != 128 || a != 255 {
		t.Errorf("blendSourceOver() = (%d, %d, %d, %d), want (128, 128, 128, 255)", r, g, b, a)
	}
}

func TestForUnknownMode(t *testing.T) {
	r, g, b, a := For(frame.BlendMode(200))(0, 255, 0, 255, 0, 0, 255, 255)
	if r != 0 || g != 255 || b != 0 || a != 255 {
		t.Errorf("unknown mode = (%d, %d, %d, %d), want source-over (0, 255, 0, 255)", r, g, b, a)
	}
}

func TestPixelCoverage(t *testing.T) {
	tests := []struct {
		name     string
		mode     frame.BlendMode
		coverage byte
		want     [4]byte
	}{
		{"no coverage leaves destination", frame.BlendClear, 0, [4]byte{0, 0, 255, 255}},
		{"full coverage clear", frame.BlendClear, 255, [4]byte{0, 0, 0, 0}},
		{"full coverage source over", frame.BlendSourceOver, 255, [4]byte{255, 0, 0, 255}},
		{"partial coverage source", frame.BlendSource, 51, [4]byte{51, 0, 204, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := []byte{0, 0, 255, 255}
			Pixel(For(tt.mode), dst, 255, 0, 0, 255, tt.coverage)
			if got := [4]byte{dst[0], dst[1], dst[2], dst[3]}; got != tt.want {
				t.Errorf("Pixel() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package blend implements the compositing operators used by the software
// display when it draws a quad onto a pass target.
//
// All operations work with premultiplied alpha values in the range 0-255.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import "github.com/gogpu/compositor/frame"

// Func is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
// Parameters:
//   - sr, sg, sb, sa: source color (red, green, blue, alpha)
//   - dr, dg, db, da: destination color (red, green, blue, alpha)
//
// Returns: resulting color (r, g, b, a) after blending.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// For returns the blend function for mode.
// Returns source-over for unknown modes.
func For(mode frame.BlendMode) Func {
	switch mode {
	case frame.BlendClear:
		return blendClear
	case frame.BlendSource:
		return blendSource
	case frame.BlendDestination:
		return blendDestination
	case frame.BlendSourceOver:
		return blendSourceOver
	case frame.BlendDestinationOver:
		return blendDestinationOver
	case frame.BlendSourceIn:
		return blendSourceIn
	case frame.BlendDestinationIn:
		return blendDestinationIn
	case frame.BlendSourceOut:
		return blendSourceOut
	case frame.BlendDestinationOut:
		return blendDestinationOut
	case frame.BlendXor:
		return blendXor
	case frame.BlendPlus:
		return blendPlus
	case frame.BlendMultiply:
		return blendMultiply
	case frame.BlendScreen:
		return blendScreen
	default:
		return blendSourceOver
	}
}

// Pixel blends src into the four bytes of dst. Coverage scales the effect
// of the operator, so pixels outside a quad (coverage 0) are untouched even
// for operators like Clear that ignore the source.
func Pixel(fn Func, dst []byte, sr, sg, sb, sa, coverage byte) {
	if coverage == 0 {
		return
	}
	dr, dg, db, da := dst[0], dst[1], dst[2], dst[3]
	r, g, b, a := fn(sr, sg, sb, sa, dr, dg, db, da)
	dst[0] = lerp255(dr, r, coverage)
	dst[1] = lerp255(dg, g, coverage)
	dst[2] = lerp255(db, b, coverage)
	dst[3] = lerp255(da, a, coverage)
}

// blendClear clears the destination to transparent black.
func blendClear(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

// blendSource replaces destination with source.
func blendSource(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendDestination keeps destination unchanged.
func blendDestination(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return dr, dg, db, da
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// blendDestinationOver composites destination over source.
// Formula: S * (1 - Da) + D
func blendDestinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return addClamp(mulDiv255(sr, invDa), dr),
		addClamp(mulDiv255(sg, invDa), dg),
		addClamp(mulDiv255(sb, invDa), db),
		addClamp(mulDiv255(sa, invDa), da)
}

// blendSourceIn shows source where destination is opaque.
// Formula: S * Da
func blendSourceIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

// blendDestinationIn shows destination where source is opaque.
// Formula: D * Sa
func blendDestinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// blendSourceOut shows source where destination is transparent.
// Formula: S * (1 - Da)
func blendSourceOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return mulDiv255(sr, invDa), mulDiv255(sg, invDa), mulDiv255(sb, invDa), mulDiv255(sa, invDa)
}

// blendDestinationOut shows destination where source is transparent.
// Formula: D * (1 - Sa)
func blendDestinationOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// blendXor shows source and destination where they don't overlap.
// Formula: S * (1 - Da) + D * (1 - Sa)
func blendXor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	invSa := 255 - sa
	return addClamp(mulDiv255(sr, invDa), mulDiv255(dr, invSa)),
		addClamp(mulDiv255(sg, invDa), mulDiv255(dg, invSa)),
		addClamp(mulDiv255(sb, invDa), mulDiv255(db, invSa)),
		addClamp(mulDiv255(sa, invDa), mulDiv255(da, invSa))
}

// blendPlus adds source and destination colors (clamped to 255).
func blendPlus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
}

// separable applies a per-channel blend with the standard premultiplied
// source-over alpha term.
// Formula: Cs*(1-Da) + Cd*(1-Sa) + B(Cs, Cd)
func separable(sr, sg, sb, sa, dr, dg, db, da byte, fn func(s, d byte) byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	invDa := 255 - da
	ch := func(s, d byte) byte {
		return addClamp(addClamp(mulDiv255(s, invDa), mulDiv255(d, invSa)), fn(s, d))
	}
	return ch(sr, dr), ch(sg, dg), ch(sb, db), addClamp(sa, mulDiv255(da, invSa))
}

// blendMultiply multiplies source and destination colors.
func blendMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

// blendScreen produces a lighter result than multiply.
// In premultiplied form: Cs*Da + Cd*Sa - Cs*Cd
func blendScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		v := int(mulDiv255(s, da)) + int(mulDiv255(d, sa)) - int(mulDiv255(s, d))
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return byte(v)
	})
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geom holds the 2D affine transforms, points and rectangles shared
// by the aggregator, the hit-tester and the display backends.
package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// invertEpsilon is the determinant magnitude below which a matrix is
// treated as singular.
const invertEpsilon = 1e-10

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply returns m * other: a point is transformed by other first and
// then by m. Concatenating a parent transform onto a child is
// parent.Multiply(child).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// MapRect returns the axis-aligned bounding box of r after transformation.
func (m Matrix) MapRect(r Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	if m.IsTranslation() {
		return r.Offset(m.C, m.F)
	}
	p0 := m.TransformPoint(Pt(r.MinX, r.MinY))
	p1 := m.TransformPoint(Pt(r.MaxX, r.MinY))
	p2 := m.TransformPoint(Pt(r.MinX, r.MaxY))
	p3 := m.TransformPoint(Pt(r.MaxX, r.MaxY))
	return Rect{
		MinX: math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X)),
		MinY: math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y)),
		MaxX: math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X)),
		MaxY: math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y)),
	}
}

// Determinant returns the determinant of the 2x2 part of the matrix.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// IsInvertible reports whether the matrix has an inverse.
func (m Matrix) IsInvertible() bool {
	return math.Abs(m.Determinant()) >= invertEpsilon
}

// Invert returns the inverse matrix and true, or the identity and false when
// the matrix is singular (for example a zero scale).
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if math.Abs(det) < invertEpsilon {
		return Identity(), false
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}, true
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// Aff3 converts the matrix to the x/image representation used by
// draw.Transformer (source to destination).
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}

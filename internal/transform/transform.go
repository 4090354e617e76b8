// Package transform implements the 4x4 layer transform used to present
// panels: row-vector convention, so a point is transformed as [x y z 1]·M,
// and the perspective term lives in M34.
//
// Storage is an mgl64 column-vector matrix, the transpose of the row-vector
// form: row-vector M34 is mgl's (row 3, col 2).
package transform

import (
	"github.com/go-gl/mathgl/mgl64"
)

type Mat4 struct {
	m mgl64.Mat4
}

// Vec3 is a rotation axis or a point in layer space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (v Vec3) Length() float64 {
	return v.vec().Len()
}

func Identity() Mat4 {
	return Mat4{m: mgl64.Ident4()}
}

// Rotation returns the rotation of angle radians about axis. A zero axis
// yields the identity.
func Rotation(angle float64, axis Vec3) Mat4 {
	if axis.Length() == 0 {
		return Identity()
	}
	return Mat4{m: mgl64.HomogRotate3D(angle, axis.vec().Normalize())}
}

// Perspective is the M34 entry.
func (a Mat4) Perspective() float64 {
	return a.m.At(3, 2)
}

// WithPerspective returns a copy of a with M34 set to v.
func (a Mat4) WithPerspective(v float64) Mat4 {
	a.m.Set(3, 2, v)
	return a
}

// Concat returns a·b: b applied after a.
func (a Mat4) Concat(b Mat4) Mat4 {
	return Mat4{m: b.m.Mul4(a.m)}
}

// Apply maps p through m and returns the projected point together with the
// homogeneous w. Callers skip points with w <= 0.
func (a Mat4) Apply(p Vec3) (Vec3, float64) {
	r := a.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	w := r.W()
	if w == 0 {
		return Vec3{X: r.X(), Y: r.Y(), Z: r.Z()}, 0
	}
	return Vec3{X: r.X() / w, Y: r.Y() / w, Z: r.Z() / w}, w
}

func (a Mat4) IsIdentity() bool {
	return a.m == mgl64.Ident4()
}

// Rows returns the row-vector form, row by row.
func (a Mat4) Rows() [4][4]float64 {
	var r [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = a.m.At(j, i)
		}
	}
	return r
}

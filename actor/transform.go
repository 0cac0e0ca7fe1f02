package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 3D space
// Position is the world location of the body's local origin, not its center of mass
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// Apply moves a local point into world space
func (t Transform) Apply(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}

// NormalizeOrZero returns v normalized, or the zero vector when v has no length
// mgl64.Vec3.Normalize divides by the length unconditionally
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1.0 / l)
}

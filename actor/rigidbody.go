package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxAngularSpeed caps angular velocity after an impulse (rad/s)
const MaxAngularSpeed = 30.0

// BodyType represents the type of rigid body, derived from its inverse mass
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by impulses, gravity, and collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass (InvMass == 0)
	BodyTypeStatic
)

// Material holds the surface response coefficients of a body
type Material struct {
	Elasticity float64 // 0 = no rebound, 1 = perfect restitution
	Friction   float64 // 0 = frictionless, 1 = full tangential impulse
}

// DefaultMaterial is fully elastic and frictionless
func DefaultMaterial() Material {
	return Material{Elasticity: 1.0, Friction: 0.0}
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Transform Transform

	Velocity        mgl64.Vec3 // Linear velocity (m/s)
	AngularVelocity mgl64.Vec3 // Angular velocity (rad/s)

	// InvMass is 0 for static bodies
	InvMass  float64
	Material Material

	// Shape is owned by the body
	Shape Shape
}

// NewRigidBody creates a new rigid body with the given properties
// A mass of 0 (or +Inf) creates a static body
func NewRigidBody(transform Transform, shape Shape, mass float64) *RigidBody {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}

	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		Material:  DefaultMaterial(),
	}

	if mass > 0 && !math.IsInf(mass, 1) {
		rb.InvMass = 1.0 / mass
	}

	return rb
}

// BodyType reports whether the body is static or dynamic
func (rb *RigidBody) BodyType() BodyType {
	if rb.InvMass == 0 {
		return BodyTypeStatic
	}
	return BodyTypeDynamic
}

// IsStatic is a shortcut for BodyType() == BodyTypeStatic
func (rb *RigidBody) IsStatic() bool {
	return rb.InvMass == 0
}

// Mass returns 1/InvMass, or 0 for static bodies
func (rb *RigidBody) Mass() float64 {
	if rb.InvMass == 0 {
		return 0
	}
	return 1.0 / rb.InvMass
}

// Clone deep copies the body, including its shape
func (rb *RigidBody) Clone() *RigidBody {
	clone := *rb
	if rb.Shape != nil {
		clone.Shape = rb.Shape.Clone()
	}
	return &clone
}

// Bounds returns the world AABB of the shape at the current pose
func (rb *RigidBody) Bounds() AABB {
	return rb.Shape.Bounds(rb.Transform)
}

// SupportWorld returns the world point furthest along direction
func (rb *RigidBody) SupportWorld(direction mgl64.Vec3, bias float64) mgl64.Vec3 {
	return rb.Shape.Support(direction, rb.Transform, bias)
}

func (rb *RigidBody) CenterOfMassLocal() mgl64.Vec3 {
	return rb.Shape.CenterOfMass()
}

func (rb *RigidBody) CenterOfMassWorld() mgl64.Vec3 {
	return rb.Transform.Apply(rb.Shape.CenterOfMass())
}

// WorldToLocal expresses a world point relative to the center of mass, in body axes
func (rb *RigidBody) WorldToLocal(worldPoint mgl64.Vec3) mgl64.Vec3 {
	point := worldPoint.Sub(rb.CenterOfMassWorld())
	return rb.Transform.Rotation.Conjugate().Rotate(point)
}

// LocalToWorld is the inverse of WorldToLocal
func (rb *RigidBody) LocalToWorld(bodyPoint mgl64.Vec3) mgl64.Vec3 {
	return rb.CenterOfMassWorld().Add(rb.Transform.Rotation.Rotate(bodyPoint))
}

// GetInverseInertiaLocal is the body space inverse inertia, scaled by the inverse mass
func (rb *RigidBody) GetInverseInertiaLocal() mgl64.Mat3 {
	return rb.Shape.InertiaTensor().Inv().Mul(rb.InvMass)
}

// GetInertiaWorld is the unit mass inertia rotated into world axes
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.Shape.InertiaTensor()).Mul3(R.Transpose())
}

// GetInverseInertiaWorld returns zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.InvMass == 0 {
		return mgl64.Mat3{}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.GetInverseInertiaLocal()).Mul3(R.Transpose())
}

// ApplyImpulseLinear changes the momentum: dv = J / m
func (rb *RigidBody) ApplyImpulseLinear(impulse mgl64.Vec3) {
	if rb.InvMass == 0 {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InvMass))
}

// ApplyImpulseAngular changes the angular momentum: dw = I^-1 * (r x J)
func (rb *RigidBody) ApplyImpulseAngular(impulse mgl64.Vec3) {
	if rb.InvMass == 0 {
		return
	}

	rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(impulse))

	if rb.AngularVelocity.LenSqr() > MaxAngularSpeed*MaxAngularSpeed {
		rb.AngularVelocity = rb.AngularVelocity.Normalize().Mul(MaxAngularSpeed)
	}
}

// ApplyImpulse applies impulse at a world point, producing both linear and angular change
func (rb *RigidBody) ApplyImpulse(point, impulse mgl64.Vec3) {
	if rb.InvMass == 0 {
		return
	}

	rb.ApplyImpulseLinear(impulse)

	r := point.Sub(rb.CenterOfMassWorld())
	rb.ApplyImpulseAngular(r.Cross(impulse))
}

// Integrate advances the pose by dt, which may be negative to rewind
// Static bodies never move
func (rb *RigidBody) Integrate(dt float64) {
	if rb.InvMass == 0 {
		return
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	centerOfMass := rb.CenterOfMassWorld()
	cmToPosition := rb.Transform.Position.Sub(centerOfMass)

	// Torque-free precession: T = w x I*w, so alpha = I^-1 * (w x I*w)
	inertia := rb.GetInertiaWorld()
	alpha := inertia.Inv().Mul3x1(rb.AngularVelocity.Cross(inertia.Mul3x1(rb.AngularVelocity)))
	rb.AngularVelocity = rb.AngularVelocity.Add(alpha.Mul(dt))

	// ========== UPDATE QUATERNION ==========
	dAngle := rb.AngularVelocity.Mul(dt)
	dq := mgl64.QuatIdent()
	if angle := dAngle.Len(); angle > 1e-12 {
		dq = mgl64.QuatRotate(angle, dAngle.Mul(1.0/angle))
	}
	rb.Transform.Rotation = dq.Mul(rb.Transform.Rotation).Normalize()

	// Rotation pivots around the center of mass, not the local origin
	rb.Transform.Position = centerOfMass.Add(dq.Rotate(cmToPosition))
}

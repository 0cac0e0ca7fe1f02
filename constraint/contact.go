package constraint

import (
	"github.com/akmonengine/impact/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes the first touch between two bodies within a frame
// It only lives for the frame that produced it
type Contact struct {
	PointOnAWorld mgl64.Vec3
	PointOnBWorld mgl64.Vec3
	PointOnALocal mgl64.Vec3
	PointOnBLocal mgl64.Vec3

	// Normal is a unit vector in world space, pointing from A to B
	Normal mgl64.Vec3
	// SeparationDistance is positive when apart, negative when penetrating
	SeparationDistance float64
	// TimeOfImpact is measured from the start of the frame
	TimeOfImpact float64

	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// Resolve applies the collision and friction impulses, then removes any penetration
// left by a contact found at the very start of the frame
func (c *Contact) Resolve() {
	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassSum := bodyA.InvMass + bodyB.InvMass
	if invMassSum == 0 {
		return
	}

	c.resolveVelocity(invMassSum)

	if c.TimeOfImpact == 0 {
		c.resolvePosition(invMassSum)
	}
}

func (c *Contact) resolveVelocity(invMassSum float64) {
	bodyA := c.BodyA
	bodyB := c.BodyB
	n := c.Normal

	elasticity := ComputeElasticity(bodyA.Material, bodyB.Material)
	friction := ComputeFriction(bodyA.Material, bodyB.Material)

	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	rA := c.PointOnAWorld.Sub(bodyA.CenterOfMassWorld())
	rB := c.PointOnBWorld.Sub(bodyB.CenterOfMassWorld())

	// ========== Velocities at the contact ==========
	vA := bodyA.Velocity.Add(bodyA.AngularVelocity.Cross(rA))
	vB := bodyB.Velocity.Add(bodyB.AngularVelocity.Cross(rB))
	vab := vA.Sub(vB)

	approachSpeed := vab.Dot(n)
	if approachSpeed <= 0 {
		// Already separating, an impulse would pull the bodies together
		// Friction is skipped as well, a tangential slide with no approach keeps its speed
		return
	}

	// ========== NORMAL IMPULSE ==========
	angularJA := IA_inv.Mul3x1(rA.Cross(n)).Cross(rA)
	angularJB := IB_inv.Mul3x1(rB.Cross(n)).Cross(rB)
	angularFactor := angularJA.Add(angularJB).Dot(n)

	j := (1.0 + elasticity) * approachSpeed / (invMassSum + angularFactor)
	impulse := n.Mul(j)

	bodyA.ApplyImpulse(c.PointOnAWorld, impulse.Mul(-1))
	bodyB.ApplyImpulse(c.PointOnBWorld, impulse)

	// ========== TANGENTIAL IMPULSE (friction) ==========
	// Not bounded by the normal impulse: no Coulomb cone
	velocityTangent := vab.Sub(n.Mul(approachSpeed))
	tangent := actor.NormalizeOrZero(velocityTangent)
	if tangent == (mgl64.Vec3{}) || friction == 0 {
		return
	}

	inertiaA := IA_inv.Mul3x1(rA.Cross(tangent)).Cross(rA)
	inertiaB := IB_inv.Mul3x1(rB.Cross(tangent)).Cross(rB)
	inverseInertia := inertiaA.Add(inertiaB).Dot(tangent)

	reducedMass := 1.0 / (invMassSum + inverseInertia)
	frictionImpulse := velocityTangent.Mul(reducedMass * friction)

	bodyA.ApplyImpulse(c.PointOnAWorld, frictionImpulse.Mul(-1))
	bodyB.ApplyImpulse(c.PointOnBWorld, frictionImpulse)
}

// resolvePosition splits the gap between the contact points by inverse mass share
func (c *Contact) resolvePosition(invMassSum float64) {
	bodyA := c.BodyA
	bodyB := c.BodyB

	tA := bodyA.InvMass / invMassSum
	tB := bodyB.InvMass / invMassSum

	ds := c.PointOnBWorld.Sub(c.PointOnAWorld)

	if bodyA.InvMass != 0 {
		bodyA.Transform.Position = bodyA.Transform.Position.Add(ds.Mul(tA))
	}
	if bodyB.InvMass != 0 {
		bodyB.Transform.Position = bodyB.Transform.Position.Sub(ds.Mul(tB))
	}
}

package impact

import (
	"math"

	"github.com/akmonengine/impact/actor"
	"github.com/akmonengine/impact/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// ShortRayThreshold is the relative displacement (1 mm) under which the sweep is treated as static
const ShortRayThreshold = 0.001

// fallbackNormal is used when both centers coincide
var fallbackNormal = mgl64.Vec3{0, 0, 1}

// RaySphere intersects the ray start + t*direction with a sphere
// t1 <= t2 are the entry and exit parameters, in units of direction
func RaySphere(start, direction, center mgl64.Vec3, radius float64) (t1, t2 float64, ok bool) {
	m := center.Sub(start)
	a := direction.Dot(direction)
	b := m.Dot(direction)
	c := m.Dot(m) - radius*radius

	delta := b*b - a*c
	if delta < 0 || a == 0 {
		return 0, 0, false
	}

	invA := 1.0 / a
	deltaRoot := math.Sqrt(delta)
	t1 = invA * (b - deltaRoot)
	t2 = invA * (b + deltaRoot)

	return t1, t2, true
}

// SphereSphereTOI sweeps two spheres over [0, dt] and returns the world contact points
// at the first time of impact
func SphereSphereTOI(sphereA, sphereB *actor.Sphere, posA, posB, velA, velB mgl64.Vec3, dt float64) (ptOnA, ptOnB mgl64.Vec3, toi float64, ok bool) {
	// Trace A relative to B, which stays still
	relativeVelocity := velA.Sub(velB)
	rayDir := relativeVelocity.Mul(dt)
	radii := sphereA.Radius + sphereB.Radius

	var t1, t2 float64
	if rayDir.LenSqr() < ShortRayThreshold*ShortRayThreshold {
		// Barely moving relative to each other: only an existing overlap counts
		ab := posB.Sub(posA)
		limit := radii + ShortRayThreshold
		if ab.LenSqr() > limit*limit {
			return ptOnA, ptOnB, 0, false
		}
	} else {
		var hit bool
		t1, t2, hit = RaySphere(posA, rayDir, posB, radii)
		if !hit {
			return ptOnA, ptOnB, 0, false
		}
	}

	// From the ray parameter [0, 1] to the frame time [0, dt]
	t1 *= dt
	t2 *= dt

	// Both roots in the past: the spheres are moving apart
	if t2 < 0 {
		return ptOnA, ptOnB, 0, false
	}

	toi = math.Max(0, t1)
	if toi > dt {
		return ptOnA, ptOnB, 0, false
	}

	newPosA := posA.Add(velA.Mul(toi))
	newPosB := posB.Add(velB.Mul(toi))
	normal := actor.NormalizeOrZero(newPosB.Sub(newPosA))
	if normal == (mgl64.Vec3{}) {
		normal = fallbackNormal
	}

	ptOnA = newPosA.Add(normal.Mul(sphereA.Radius))
	ptOnB = newPosB.Sub(normal.Mul(sphereB.Radius))

	return ptOnA, ptOnB, toi, true
}

// Intersect is the continuous narrow phase: it finds the first contact between two
// bodies within dt. Only sphere pairs are supported, every other combination
// reports no collision
// The bodies are advanced to the time of impact to express the contact in body
// space, and restored afterwards
func Intersect(bodyA, bodyB *actor.RigidBody, dt float64) (constraint.Contact, bool) {
	sphereA, okA := bodyA.Shape.(*actor.Sphere)
	sphereB, okB := bodyB.Shape.(*actor.Sphere)
	if !okA || !okB {
		// TODO: conservative advancement with GJK distance for boxes and convex hulls
		return constraint.Contact{}, false
	}

	posA := bodyA.Transform.Position
	posB := bodyB.Transform.Position

	ptOnA, ptOnB, toi, ok := SphereSphereTOI(sphereA, sphereB, posA, posB, bodyA.Velocity, bodyB.Velocity, dt)
	if !ok {
		return constraint.Contact{}, false
	}

	contact := constraint.Contact{
		PointOnAWorld: ptOnA,
		PointOnBWorld: ptOnB,
		TimeOfImpact:  toi,
		BodyA:         bodyA,
		BodyB:         bodyB,
	}

	savedA := *bodyA
	savedB := *bodyB

	bodyA.Integrate(toi)
	bodyB.Integrate(toi)

	contact.PointOnALocal = bodyA.WorldToLocal(ptOnA)
	contact.PointOnBLocal = bodyB.WorldToLocal(ptOnB)
	contact.Normal = actor.NormalizeOrZero(bodyB.Transform.Position.Sub(bodyA.Transform.Position))
	if contact.Normal == (mgl64.Vec3{}) {
		contact.Normal = fallbackNormal
	}

	// Rewind: the query must not move the bodies
	*bodyA = savedA
	*bodyB = savedB

	ab := posB.Sub(posA)
	contact.SeparationDistance = ab.Len() - (sphereA.Radius + sphereB.Radius)

	return contact, true
}

// IntersectStatic tests the current poses only, without motion
// The contact it returns always has a time of impact of 0
func IntersectStatic(bodyA, bodyB *actor.RigidBody) (constraint.Contact, bool) {
	sphereA, okA := bodyA.Shape.(*actor.Sphere)
	sphereB, okB := bodyB.Shape.(*actor.Sphere)
	if !okA || !okB {
		return constraint.Contact{}, false
	}

	posA := bodyA.Transform.Position
	posB := bodyB.Transform.Position
	ab := posB.Sub(posA)
	radii := sphereA.Radius + sphereB.Radius

	if ab.LenSqr() > radii*radii {
		return constraint.Contact{}, false
	}

	normal := actor.NormalizeOrZero(ab)
	if normal == (mgl64.Vec3{}) {
		normal = fallbackNormal
	}

	ptOnA := posA.Add(normal.Mul(sphereA.Radius))
	ptOnB := posB.Sub(normal.Mul(sphereB.Radius))

	return constraint.Contact{
		PointOnAWorld:      ptOnA,
		PointOnBWorld:      ptOnB,
		PointOnALocal:      bodyA.WorldToLocal(ptOnA),
		PointOnBLocal:      bodyB.WorldToLocal(ptOnB),
		Normal:             normal,
		SeparationDistance: ab.Len() - radii,
		TimeOfImpact:       0,
		BodyA:              bodyA,
		BodyB:              bodyB,
	}, true
}

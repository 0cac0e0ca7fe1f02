// Package gjk answers overlap queries between two bodies of any shape with the
// Gilbert-Johnson-Keerthi algorithm.
//
// The query only reports whether the shapes intersect. It builds no contact and
// is not used to resolve collisions: it serves scene queries such as finding every
// body that currently touches another one.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/akmonengine/impact/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxIterations bounds the refinement loop, convex shapes converge in a handful of steps
const MaxIterations = 32

// Simplex holds 1 to 4 points of the Minkowski difference, the most recent one last
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

var simplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the point of A - B furthest along direction
// Both supports carry actor.DefaultSupportBias, so shapes closer than twice the bias overlap
func MinkowskiSupport(a, b *actor.RigidBody, direction mgl64.Vec3) mgl64.Vec3 {
	supportA := a.SupportWorld(direction, actor.DefaultSupportBias)
	supportB := b.SupportWorld(direction.Mul(-1), actor.DefaultSupportBias)
	return supportA.Sub(supportB)
}

// Overlap reports whether the shapes of a and b intersect at their current poses
func Overlap(a, b *actor.RigidBody) bool {
	simplex := simplexPool.Get().(*Simplex)
	defer func() {
		simplex.Reset()
		simplexPool.Put(simplex)
	}()

	return Solve(a, b, simplex)
}

// Solve runs GJK with a caller provided simplex
// On overlap the simplex is left enclosing the origin
func Solve(a, b *actor.RigidBody, simplex *Simplex) bool {
	direction := b.CenterOfMassWorld().Sub(a.CenterOfMassWorld())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		point := MinkowskiSupport(a, b, direction)

		// The support does not pass the origin: a separating plane exists
		if point.Dot(direction) <= 0 {
			return false
		}

		simplex.Points[simplex.Count] = point
		simplex.Count++

		if reduce(simplex, &direction) {
			return true
		}
	}

	return false
}

// reduce keeps the simplex feature closest to the origin and points direction at it
// It returns true once the origin is enclosed
func reduce(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return reduceLine(simplex, direction)
	case 3:
		return reduceTriangle(simplex, direction)
	case 4:
		return reduceTetrahedron(simplex, direction)
	}
	return false
}

func reduceLine(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perpendicular := ab.Cross(ao).Cross(ab)
	if perpendicular.LenSqr() < 1e-8 {
		// Origin on the segment
		return true
	}

	*direction = perpendicular
	return false
}

func reduceTriangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	normal := ab.Cross(ac)

	// Collinear: fall back to the newest edge
	if normal.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return reduceLine(simplex, direction)
	}

	if ab.Cross(normal).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if normal.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if normal.Dot(ao) > 0 {
		*direction = normal
		return false
	}

	// Below the face: flip the winding so the normal faces the origin
	simplex.set(b, c, a)
	*direction = normal.Mul(-1)
	return false
}

func reduceTetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	faces := [3]struct {
		normal   mgl64.Vec3
		opposite mgl64.Vec3
		points   [3]mgl64.Vec3
	}{
		{ab.Cross(ac), ad, [3]mgl64.Vec3{c, b, a}},
		{ac.Cross(ad), ab, [3]mgl64.Vec3{d, c, a}},
		{ad.Cross(ab), ac, [3]mgl64.Vec3{b, d, a}},
	}

	for i := range faces {
		// Face normals point away from the vertex they leave out
		if faces[i].normal.Dot(faces[i].opposite) > 0 {
			faces[i].normal = faces[i].normal.Mul(-1)
		}
		if faces[i].normal.LenSqr() < 1e-10 {
			simplex.set(c, b, a)
			return reduceTriangle(simplex, direction)
		}
	}

	for _, face := range faces {
		if face.normal.Dot(ao) > 0 {
			simplex.set(face.points[:]...)
			return reduceTriangle(simplex, direction)
		}
	}

	return true
}

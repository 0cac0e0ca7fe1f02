package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Convex represents a convex hull collision shape built from a point cloud
type Convex struct {
	points        []mgl64.Vec3
	triangles     []Triangle
	bounds        AABB
	centerOfMass  mgl64.Vec3
	inertiaTensor mgl64.Mat3
}

// NewConvex builds the convex hull of points and computes its mass properties
func NewConvex(points []mgl64.Vec3) (*Convex, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("convex: %w (got %d, need 4)", ErrTooFewPoints, len(points))
	}

	hullPoints, hullTriangles := BuildConvexHull(points)
	if len(hullTriangles) == 0 {
		return nil, fmt.Errorf("%w: convex hull points are coplanar or collinear", ErrDegenerateShape)
	}

	// The bounds keep the input cloud extent, they are not recomputed from the hull
	bounds := EmptyAABB()
	for _, point := range points {
		bounds.Expand(point)
	}

	volume, centerOfMass, tensor := hullMassProperties(hullPoints, hullTriangles)
	if volume <= 1e-12 {
		return nil, fmt.Errorf("%w: convex hull has no volume", ErrDegenerateShape)
	}
	if err := checkInertia(tensor); err != nil {
		return nil, err
	}

	return &Convex{
		points:        hullPoints,
		triangles:     hullTriangles,
		bounds:        bounds,
		centerOfMass:  centerOfMass,
		inertiaTensor: tensor,
	}, nil
}

// hullMassProperties integrates a closed, outward wound mesh as a fan of tetrahedra
// It returns the volume, the center of mass and the unit mass inertia tensor about it
func hullMassProperties(points []mgl64.Vec3, triangles []Triangle) (float64, mgl64.Vec3, mgl64.Mat3) {
	// Reference point inside the hull keeps every tetrahedron well conditioned
	var ref mgl64.Vec3
	for _, p := range points {
		ref = ref.Add(p)
	}
	ref = ref.Mul(1.0 / float64(len(points)))

	var volume float64
	var weighted mgl64.Vec3
	var covariance mgl64.Mat3

	for _, tri := range triangles {
		a := points[tri.A].Sub(ref)
		b := points[tri.B].Sub(ref)
		c := points[tri.C].Sub(ref)

		det := a.Dot(b.Cross(c))
		tetVolume := det / 6.0
		volume += tetVolume
		weighted = weighted.Add(a.Add(b).Add(c).Mul(tetVolume / 4.0))

		// ∫ x xᵀ dV over the tetrahedron (ref, a, b, c)
		s := a.Add(b).Add(c)
		sum := a.OuterProd3(a).Add(b.OuterProd3(b)).Add(c.OuterProd3(c)).Add(s.OuterProd3(s))
		covariance = covariance.Add(sum.Mul(det / 120.0))
	}

	if volume <= 0 {
		return volume, ref, mgl64.Mat3{}
	}

	com := weighted.Mul(1.0 / volume)
	covariance = covariance.Sub(com.OuterProd3(com).Mul(volume))

	trace := covariance.Trace()
	tensor := mgl64.Ident3().Mul(trace).Sub(covariance).Mul(1.0 / volume)

	return volume, ref.Add(com), tensor
}

func (c *Convex) Type() ShapeType {
	return ShapeTypeConvex
}

// Points returns a copy of the hull vertices
func (c *Convex) Points() []mgl64.Vec3 {
	points := make([]mgl64.Vec3, len(c.points))
	copy(points, c.points)
	return points
}

// Triangles returns a copy of the hull faces
func (c *Convex) Triangles() []Triangle {
	triangles := make([]Triangle, len(c.triangles))
	copy(triangles, c.triangles)
	return triangles
}

func (c *Convex) Support(direction mgl64.Vec3, transform Transform, bias float64) mgl64.Vec3 {
	return supportPoints(c.points, direction, transform, bias)
}

// Bounds transforms the local box of the input cloud, which may be loose once rotated
func (c *Convex) Bounds(transform Transform) AABB {
	return c.bounds.Transformed(transform)
}

func (c *Convex) LocalBounds() AABB {
	return c.bounds
}

func (c *Convex) InertiaTensor() mgl64.Mat3 {
	return c.inertiaTensor
}

func (c *Convex) CenterOfMass() mgl64.Vec3 {
	return c.centerOfMass
}

func (c *Convex) FastestLinearSpeed(angularVelocity, direction mgl64.Vec3) float64 {
	return fastestLinearSpeed(c.points, c.centerOfMass, angularVelocity, direction)
}

func (c *Convex) Clone() Shape {
	return &Convex{
		points:        c.Points(),
		triangles:     c.Triangles(),
		bounds:        c.bounds,
		centerOfMass:  c.centerOfMass,
		inertiaTensor: c.inertiaTensor,
	}
}

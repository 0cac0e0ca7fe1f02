package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeConvex
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypeConvex:
		return "convex"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// DefaultSupportBias pushes support points slightly outside the true surface
const DefaultSupportBias = 0.001

var (
	// ErrDegenerateShape is returned when a shape has no volume or a non-invertible inertia tensor
	ErrDegenerateShape = errors.New("degenerate shape")
	// ErrTooFewPoints is returned when a point set cannot describe a solid
	ErrTooFewPoints = errors.New("too few points")
)

// Shape is the interface that all collision shapes must implement
// Shapes are immutable once built and describe geometry in body-local space
type Shape interface {
	Type() ShapeType
	// Support returns the world-space point furthest along direction, pushed outward by bias
	Support(direction mgl64.Vec3, transform Transform, bias float64) mgl64.Vec3
	// Bounds returns the world-space AABB of the shape at the given pose
	Bounds(transform Transform) AABB
	LocalBounds() AABB
	// InertiaTensor is the body-space tensor for a unit mass
	InertiaTensor() mgl64.Mat3
	CenterOfMass() mgl64.Vec3
	// FastestLinearSpeed bounds the speed along direction of any vertex spinning at angularVelocity
	FastestLinearSpeed(angularVelocity, direction mgl64.Vec3) float64
	Clone() Shape
}

// checkInertia rejects tensors that the solver could not invert
func checkInertia(tensor mgl64.Mat3) error {
	if det := tensor.Det(); math.Abs(det) < 1e-12 || math.IsNaN(det) {
		return fmt.Errorf("%w: inertia tensor is not invertible (det=%g)", ErrDegenerateShape, det)
	}
	return nil
}

// fastestLinearSpeed is shared by the point based shapes
func fastestLinearSpeed(points []mgl64.Vec3, centerOfMass, angularVelocity, direction mgl64.Vec3) float64 {
	maxSpeed := 0.0
	for _, point := range points {
		r := point.Sub(centerOfMass)
		linearVelocity := angularVelocity.Cross(r)
		speed := direction.Dot(linearVelocity)
		if speed > maxSpeed {
			maxSpeed = speed
		}
	}
	return maxSpeed
}

// supportPoints returns the transformed point with the largest projection on direction
func supportPoints(points []mgl64.Vec3, direction mgl64.Vec3, transform Transform, bias float64) mgl64.Vec3 {
	dir := NormalizeOrZero(direction)

	best := transform.Apply(points[0])
	bestDist := best.Dot(dir)
	for i := 1; i < len(points); i++ {
		candidate := transform.Apply(points[i])
		if dist := candidate.Dot(dir); dist > bestDist {
			best = candidate
			bestDist = dist
		}
	}

	return best.Add(dir.Mul(bias))
}

// Sphere represents a spherical collision shape centered on the body origin
type Sphere struct {
	Radius float64
}

// NewSphere creates a sphere, rejecting non-positive radii
func NewSphere(radius float64) (*Sphere, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: sphere radius must be positive, got %g", ErrDegenerateShape, radius)
	}
	return &Sphere{Radius: radius}, nil
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

func (s *Sphere) Support(direction mgl64.Vec3, transform Transform, bias float64) mgl64.Vec3 {
	return transform.Position.Add(NormalizeOrZero(direction).Mul(s.Radius + bias))
}

// Bounds is not affected by rotation, only by position
func (s *Sphere) Bounds(transform Transform) AABB {
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) LocalBounds() AABB {
	return s.Bounds(NewTransform())
}

func (s *Sphere) InertiaTensor() mgl64.Mat3 {
	// I = (2/5) * r²
	i := (2.0 / 5.0) * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) CenterOfMass() mgl64.Vec3 {
	return mgl64.Vec3{}
}

// FastestLinearSpeed is zero: spinning a sphere does not move its surface outward
func (s *Sphere) FastestLinearSpeed(angularVelocity, direction mgl64.Vec3) float64 {
	return 0
}

func (s *Sphere) Clone() Shape {
	clone := *s
	return &clone
}

// Box represents a box collision shape
// Whatever the input points, the box keeps the 8 corners of their local AABB
type Box struct {
	points       []mgl64.Vec3
	bounds       AABB
	centerOfMass mgl64.Vec3
}

// NewBox builds a box from the AABB of an arbitrary point set
func NewBox(points []mgl64.Vec3) (*Box, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("box: %w", ErrTooFewPoints)
	}

	bounds := EmptyAABB()
	for _, point := range points {
		bounds.Expand(point)
	}

	size := bounds.Size()
	if size.X()*size.Y()*size.Z() <= 1e-12 {
		return nil, fmt.Errorf("%w: box has no volume (size %v)", ErrDegenerateShape, size)
	}

	corners := bounds.Corners()
	b := &Box{
		points:       corners[:],
		bounds:       bounds,
		centerOfMass: bounds.Center(),
	}

	if err := checkInertia(b.InertiaTensor()); err != nil {
		return nil, err
	}

	return b, nil
}

// NewBoxFromHalfExtents builds a box centered on the local origin
func NewBoxFromHalfExtents(halfExtents mgl64.Vec3) (*Box, error) {
	return NewBox([]mgl64.Vec3{halfExtents.Mul(-1), halfExtents})
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

// Points returns a copy of the 8 local corners
func (b *Box) Points() []mgl64.Vec3 {
	points := make([]mgl64.Vec3, len(b.points))
	copy(points, b.points)
	return points
}

func (b *Box) Support(direction mgl64.Vec3, transform Transform, bias float64) mgl64.Vec3 {
	return supportPoints(b.points, direction, transform, bias)
}

func (b *Box) Bounds(transform Transform) AABB {
	return b.bounds.Transformed(transform)
}

func (b *Box) LocalBounds() AABB {
	return b.bounds
}

func (b *Box) InertiaTensor() mgl64.Mat3 {
	size := b.bounds.Size()
	dx, dy, dz := size.X(), size.Y(), size.Z()

	// I = (1/12) * (dimension1² + dimension2²)
	tensor := mgl64.Mat3{
		(dy*dy + dz*dz) / 12.0, 0, 0,
		0, (dx*dx + dz*dz) / 12.0, 0,
		0, 0, (dx*dx + dy*dy) / 12.0,
	}

	// Parallel axis theorem, the box may not be centered on the local origin
	r := b.centerOfMass
	shift := mgl64.Ident3().Mul(r.LenSqr()).Sub(r.OuterProd3(r))

	return tensor.Add(shift)
}

func (b *Box) CenterOfMass() mgl64.Vec3 {
	return b.centerOfMass
}

func (b *Box) FastestLinearSpeed(angularVelocity, direction mgl64.Vec3) float64 {
	return fastestLinearSpeed(b.points, b.centerOfMass, angularVelocity, direction)
}

func (b *Box) Clone() Shape {
	return &Box{
		points:       b.Points(),
		bounds:       b.bounds,
		centerOfMass: b.centerOfMass,
	}
}

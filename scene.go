package impact

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/akmonengine/impact/actor"
	"github.com/akmonengine/impact/constraint"
	"github.com/akmonengine/impact/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultGravity points down the Z axis (m/s²)
var DefaultGravity = mgl64.Vec3{0, 0, -10}

var (
	// ErrNoScenario is returned by Initialize when the scene has nothing to build from
	ErrNoScenario = errors.New("scene has no scenario")
	// ErrMissingShape is returned when a scenario yields a body without a shape
	ErrMissingShape = errors.New("body has no shape")
)

// DetectionMode selects the narrow phase used by Update
type DetectionMode int

const (
	// DetectionContinuous sweeps bodies over the frame and resolves contacts in time order
	DetectionContinuous DetectionMode = iota
	// DetectionDiscrete only tests the poses at the start of the frame
	DetectionDiscrete
)

func (m DetectionMode) String() string {
	switch m {
	case DetectionContinuous:
		return "continuous"
	case DetectionDiscrete:
		return "discrete"
	}
	return fmt.Sprintf("DetectionMode(%d)", int(m))
}

// Scenario supplies the initial bodies of a scene
type Scenario interface {
	Build() ([]*actor.RigidBody, error)
}

// ScenarioFunc adapts a function to the Scenario interface
type ScenarioFunc func() ([]*actor.RigidBody, error)

func (f ScenarioFunc) Build() ([]*actor.RigidBody, error) {
	return f()
}

// BodyState is a read-only copy of a body pose for renderers
type BodyState struct {
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	// Shape is a copy, changing it does not reach the simulated body
	Shape actor.Shape
}

// Scene owns every body of the simulation, and transitively their shapes
type Scene struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity   mgl64.Vec3
	Detection DetectionMode
	Scenario  Scenario
	Logger    *slog.Logger

	Events Events

	bodies []*actor.RigidBody
}

// NewScene creates an empty scene with default settings, call Initialize to populate it
func NewScene(scenario Scenario) *Scene {
	return &Scene{
		Gravity:   DefaultGravity,
		Detection: DetectionContinuous,
		Scenario:  scenario,
		Logger:    slog.Default(),
		Events:    NewEvents(),
	}
}

func (s *Scene) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Initialize appends the bodies built by the scenario
func (s *Scene) Initialize() error {
	if s.Scenario == nil {
		return ErrNoScenario
	}

	bodies, err := s.Scenario.Build()
	if err != nil {
		return fmt.Errorf("initialize scene: %w", err)
	}

	for i, body := range bodies {
		if body == nil || body.Shape == nil {
			return fmt.Errorf("initialize scene: body %d: %w", i, ErrMissingShape)
		}
	}

	s.bodies = append(s.bodies, bodies...)
	s.logger().Info("scene initialized", "bodies", len(s.bodies), "detection", s.Detection)

	return nil
}

// Reset drops every body and rebuilds the scene from its scenario
func (s *Scene) Reset() error {
	s.Clear()
	s.logger().Info("scene reset")
	return s.Initialize()
}

// Clear drops every body, releasing their shapes
func (s *Scene) Clear() {
	clear(s.bodies)
	s.bodies = s.bodies[:0]
	s.Events.reset()
}

// AddBody adds a rigid body to the scene, which takes ownership of it
func (s *Scene) AddBody(body *actor.RigidBody) {
	s.bodies = append(s.bodies, body)
}

// RemoveBody removes a rigid body from the scene
func (s *Scene) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range s.bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		s.bodies = append(s.bodies[:k], s.bodies[k+1:]...)
	}

	s.Events.forget(body)
}

// Len returns the number of bodies
func (s *Scene) Len() int {
	return len(s.bodies)
}

// Body returns a copy of the state of body i
func (s *Scene) Body(i int) BodyState {
	body := s.bodies[i]
	return BodyState{
		Position:        body.Transform.Position,
		Orientation:     body.Transform.Rotation,
		Velocity:        body.Velocity,
		AngularVelocity: body.AngularVelocity,
		Shape:           body.Shape.Clone(),
	}
}

// Snapshot copies the state of every body, in scene order
func (s *Scene) Snapshot() []BodyState {
	states := make([]BodyState, len(s.bodies))
	for i := range s.bodies {
		states[i] = s.Body(i)
	}
	return states
}

// Overlapping returns the indices of the bodies whose shape intersects body i
// at the current poses. Every shape kind is tested, boxes and hulls included
func (s *Scene) Overlapping(i int) []int {
	body := s.bodies[i]
	bounds := body.Bounds()

	var overlapping []int
	for j, other := range s.bodies {
		if j == i || !bounds.Overlaps(other.Bounds()) {
			continue
		}
		if gjk.Overlap(body, other) {
			overlapping = append(overlapping, j)
		}
	}
	return overlapping
}

// Update advances the simulation by dt seconds
// Contacts are found once, then resolved in time of impact order: every body is
// moved to the moment of each impact before it is resolved
func (s *Scene) Update(dt float64) {
	if dt <= 0 {
		return
	}

	s.applyGravity(dt)

	pairs := BroadPhase(s.bodies, dt)
	contacts := s.detectCollision(pairs, dt)

	constraint.SortContacts(contacts)

	accumulatedTime := 0.0
	for i := range contacts {
		contact := &contacts[i]
		if contact.BodyA.IsStatic() && contact.BodyB.IsStatic() {
			continue
		}

		step := contact.TimeOfImpact - accumulatedTime
		s.integrate(step)

		contact.Resolve()
		s.Events.recordContact(*contact)

		accumulatedTime += step
	}

	if remaining := dt - accumulatedTime; remaining > 0 {
		s.integrate(remaining)
	}

	s.logger().Debug("scene updated",
		"dt", dt,
		"candidates", len(pairs),
		"contacts", len(contacts),
	)

	s.Events.flush()
}

// applyGravity adds m*g*dt to every dynamic body
func (s *Scene) applyGravity(dt float64) {
	for _, body := range s.bodies {
		impulse := s.Gravity.Mul(body.Mass() * dt)
		body.ApplyImpulseLinear(impulse)
	}
}

func (s *Scene) detectCollision(pairs []CollisionPair, dt float64) []constraint.Contact {
	contacts := make([]constraint.Contact, 0, len(pairs))

	for _, pair := range pairs {
		bodyA := s.bodies[pair.A]
		bodyB := s.bodies[pair.B]

		if bodyA.IsStatic() && bodyB.IsStatic() {
			continue
		}

		var contact constraint.Contact
		var ok bool
		if s.Detection == DetectionDiscrete {
			contact, ok = IntersectStatic(bodyA, bodyB)
		} else {
			contact, ok = Intersect(bodyA, bodyB, dt)
		}

		if ok {
			contacts = append(contacts, contact)
		}
	}

	return contacts
}

func (s *Scene) integrate(dt float64) {
	for _, body := range s.bodies {
		body.Integrate(dt)
	}
}

// Package scenario describes the initial content of a scene: gravity, detection
// mode and bodies. Scenarios are YAML documents, or built in Go with the same types.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/impact"
	"github.com/akmonengine/impact/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownShape     = errors.New("unknown shape type")
	ErrUnknownDetection = errors.New("unknown detection mode")
	ErrEmptyDocument    = errors.New("empty scenario document")
)

// Vec3 is a YAML friendly [x, y, z] triple
type Vec3 [3]float64

func (v Vec3) mgl() mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// Orientation is an axis and an angle in degrees
type Orientation struct {
	Axis  Vec3    `yaml:"axis"`
	Angle float64 `yaml:"angle"`
}

// Shape selects one of the shape kinds and its parameters
type Shape struct {
	Type        string  `yaml:"type"`
	Radius      float64 `yaml:"radius,omitempty"`
	HalfExtents *Vec3   `yaml:"halfExtents,omitempty"`
	Points      []Vec3  `yaml:"points,omitempty"`
}

// Body describes one rigid body; a mass of 0 makes it static
type Body struct {
	Name            string       `yaml:"name,omitempty"`
	Position        Vec3         `yaml:"position"`
	Orientation     *Orientation `yaml:"orientation,omitempty"`
	Velocity        Vec3         `yaml:"velocity,omitempty"`
	AngularVelocity Vec3         `yaml:"angularVelocity,omitempty"`
	Mass            float64      `yaml:"mass"`
	Elasticity      *float64     `yaml:"elasticity,omitempty"`
	Friction        *float64     `yaml:"friction,omitempty"`
	Shape           Shape        `yaml:"shape"`
}

// Document is a complete scenario
type Document struct {
	Name      string `yaml:"name,omitempty"`
	Gravity   *Vec3  `yaml:"gravity,omitempty"`
	Detection string `yaml:"detection,omitempty"`
	Bodies    []Body `yaml:"bodies"`
}

// Parse decodes a YAML scenario, rejecting unknown fields
func Parse(data []byte) (*Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if _, err := doc.DetectionMode(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Load reads and parses a scenario file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Marshal encodes the document back to YAML
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// DetectionMode maps the detection field, empty meaning continuous
func (d *Document) DetectionMode() (impact.DetectionMode, error) {
	switch d.Detection {
	case "", "continuous":
		return impact.DetectionContinuous, nil
	case "discrete":
		return impact.DetectionDiscrete, nil
	}
	return impact.DetectionContinuous, fmt.Errorf("%w: %q", ErrUnknownDetection, d.Detection)
}

// NewScene creates a scene configured by the document, ready to Initialize
func (d *Document) NewScene() (*impact.Scene, error) {
	mode, err := d.DetectionMode()
	if err != nil {
		return nil, err
	}

	scene := impact.NewScene(d)
	scene.Detection = mode
	if d.Gravity != nil {
		scene.Gravity = d.Gravity.mgl()
	}

	return scene, nil
}

// Build creates a fresh set of bodies, so Scene.Reset can call it repeatedly
func (d *Document) Build() ([]*actor.RigidBody, error) {
	bodies := make([]*actor.RigidBody, 0, len(d.Bodies))
	for i, def := range d.Bodies {
		body, err := def.build()
		if err != nil {
			name := def.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("body %s: %w", name, err)
		}
		bodies = append(bodies, body)
	}
	return bodies, nil
}

func (b Body) build() (*actor.RigidBody, error) {
	shape, err := b.Shape.build()
	if err != nil {
		return nil, err
	}

	transform := actor.NewTransform()
	transform.Position = b.Position.mgl()
	if b.Orientation != nil {
		axis := actor.NormalizeOrZero(b.Orientation.Axis.mgl())
		if axis != (mgl64.Vec3{}) {
			transform.Rotation = mgl64.QuatRotate(mgl64.DegToRad(b.Orientation.Angle), axis)
		}
	}

	body := actor.NewRigidBody(transform, shape, b.Mass)
	body.Velocity = b.Velocity.mgl()
	body.AngularVelocity = b.AngularVelocity.mgl()
	if b.Elasticity != nil {
		body.Material.Elasticity = clamp01(*b.Elasticity)
	}
	if b.Friction != nil {
		body.Material.Friction = clamp01(*b.Friction)
	}

	return body, nil
}

func (s Shape) build() (actor.Shape, error) {
	switch s.Type {
	case "sphere":
		return actor.NewSphere(s.Radius)
	case "box":
		if s.HalfExtents != nil {
			return actor.NewBoxFromHalfExtents(s.HalfExtents.mgl())
		}
		return actor.NewBox(s.points())
	case "convex":
		return actor.NewConvex(s.points())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Type)
}

func (s Shape) points() []mgl64.Vec3 {
	points := make([]mgl64.Vec3, len(s.Points))
	for i, p := range s.Points {
		points[i] = p.mgl()
	}
	return points
}

func clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

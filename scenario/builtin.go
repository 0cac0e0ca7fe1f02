package scenario

import "fmt"

func ptr(v float64) *float64 {
	return &v
}

// groundSphere is a huge static sphere standing in for the floor
func groundSphere() Body {
	return Body{
		Name:       "ground",
		Position:   Vec3{0, 0, -101},
		Mass:       0,
		Elasticity: ptr(1.0),
		Friction:   ptr(0.5),
		Shape:      Shape{Type: "sphere", Radius: 100},
	}
}

// Default is a single ball resting above the ground sphere
func Default() *Document {
	return &Document{
		Name: "default",
		Bodies: []Body{
			{
				Name:       "ball",
				Position:   Vec3{0, 0, 2},
				Mass:       1,
				Elasticity: ptr(0.5),
				Friction:   ptr(0.5),
				Shape:      Shape{Type: "sphere", Radius: 1},
			},
			groundSphere(),
		},
	}
}

// Grid drops an n×n layer of balls onto the ground sphere, next to a box and a hull
// Only sphere pairs collide; the box and the hull fall freely
func Grid(n int) *Document {
	doc := &Document{
		Name:   fmt.Sprintf("grid-%d", n),
		Bodies: []Body{groundSphere()},
	}

	const spacing = 1.5
	offset := float64(n-1) * spacing / 2
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			doc.Bodies = append(doc.Bodies, Body{
				Name:       fmt.Sprintf("ball-%d-%d", x, y),
				Position:   Vec3{float64(x)*spacing - offset, float64(y)*spacing - offset, 10},
				Mass:       1,
				Elasticity: ptr(0.5),
				Friction:   ptr(0.5),
				Shape:      Shape{Type: "sphere", Radius: 0.5},
			})
		}
	}

	doc.Bodies = append(doc.Bodies,
		Body{
			Name:            "crate",
			Position:        Vec3{offset + 5, 0, 15},
			Orientation:     &Orientation{Axis: Vec3{1, 1, 0}, Angle: 30},
			AngularVelocity: Vec3{0, 0, 2},
			Mass:            2,
			Shape:           Shape{Type: "box", HalfExtents: &Vec3{0.5, 0.5, 0.5}},
		},
		Body{
			Name:     "diamond",
			Position: Vec3{-offset - 5, 0, 15},
			Mass:     1,
			Shape: Shape{Type: "convex", Points: []Vec3{
				{0, 0, 1}, {0, 0, -1},
				{0.7, 0, 0}, {-0.7, 0, 0}, {0, 0.7, 0}, {0, -0.7, 0},
				{0.1, 0.1, 0.1},
			}},
		},
	)

	return doc
}

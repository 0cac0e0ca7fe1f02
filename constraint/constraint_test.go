package constraint

import (
	"testing"

	"github.com/akmonengine/impact/actor"
)

func TestComputeElasticity(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"both elastic", 1, 1, 1},
		{"one inelastic", 1, 0, 0},
		{"product", 0.5, 0.8, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeElasticity(actor.Material{Elasticity: tt.a}, actor.Material{Elasticity: tt.b})
			if got != tt.want {
				t.Errorf("ComputeElasticity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFriction(t *testing.T) {
	got := ComputeFriction(actor.Material{Friction: 0.5}, actor.Material{Friction: 0.5})
	if got != 0.25 {
		t.Errorf("ComputeFriction() = %v, want 0.25", got)
	}
	if got := ComputeFriction(actor.Material{Friction: 0}, actor.Material{Friction: 1}); got != 0 {
		t.Errorf("ComputeFriction() = %v, want 0", got)
	}
}

func TestSortContacts(t *testing.T) {
	// SeparationDistance tags the discovery order
	contacts := []Contact{
		{TimeOfImpact: 0.5, SeparationDistance: 0},
		{TimeOfImpact: 0.1, SeparationDistance: 1},
		{TimeOfImpact: 0.5, SeparationDistance: 2},
		{TimeOfImpact: 0, SeparationDistance: 3},
		{TimeOfImpact: 0.1, SeparationDistance: 4},
	}

	SortContacts(contacts)

	want := []float64{3, 1, 4, 0, 2}
	for i, c := range contacts {
		if c.SeparationDistance != want[i] {
			t.Fatalf("order = %v, want tags %v", contacts, want)
		}
	}
}

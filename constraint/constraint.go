package constraint

import (
	"sort"

	"github.com/akmonengine/impact/actor"
)

// ComputeElasticity combines the restitution of both materials
func ComputeElasticity(matA, matB actor.Material) float64 {
	// Product: a perfectly inelastic surface absorbs everything
	return matA.Elasticity * matB.Elasticity
}

// ComputeFriction combines the friction of both materials
func ComputeFriction(matA, matB actor.Material) float64 {
	return matA.Friction * matB.Friction
}

// SortContacts orders contacts by time of impact
// Ties keep their discovery order
func SortContacts(contacts []Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].TimeOfImpact < contacts[j].TimeOfImpact
	})
}

package impact

import (
	"sort"

	"github.com/akmonengine/impact/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// BroadPhaseEpsilon pads every swept box on all sides
const BroadPhaseEpsilon = 0.01

// sweepAxis is fixed rather than chosen from the body distribution
var sweepAxis = mgl64.Vec3{1, 1, 1}.Normalize()

// CollisionPair is an unordered pair of body indices that potentially collide
// It is only valid for the frame that produced it
type CollisionPair struct {
	A int
	B int
}

type sweepEvent struct {
	id    int
	value float64
	isMin bool
}

// SweptBounds returns the body AABB grown to cover its motion over dt, plus BroadPhaseEpsilon
func SweptBounds(body *actor.RigidBody, dt float64) actor.AABB {
	bounds := body.Bounds()

	displacement := body.Velocity.Mul(dt)
	moved := actor.AABB{Min: bounds.Min.Add(displacement), Max: bounds.Max.Add(displacement)}
	bounds.ExpandAABB(moved)

	padding := mgl64.Vec3{BroadPhaseEpsilon, BroadPhaseEpsilon, BroadPhaseEpsilon}
	return actor.AABB{Min: bounds.Min.Sub(padding), Max: bounds.Max.Add(padding)}
}

// BroadPhase performs a 1D sweep and prune along the (1,1,1) diagonal
// Every pair whose swept AABBs overlap is returned, along with pairs that only
// overlap in projection, the narrow phase sorts them out
func BroadPhase(bodies []*actor.RigidBody, dt float64) []CollisionPair {
	events := sortedSweepEvents(bodies, dt)
	return buildPairs(events)
}

func sortedSweepEvents(bodies []*actor.RigidBody, dt float64) []sweepEvent {
	events := make([]sweepEvent, 0, 2*len(bodies))
	for i, body := range bodies {
		bounds := SweptBounds(body, dt)
		events = append(events,
			sweepEvent{id: i, value: sweepAxis.Dot(bounds.Min), isMin: true},
			sweepEvent{id: i, value: sweepAxis.Dot(bounds.Max), isMin: false},
		)
	}

	// Opening events sort before closing events of equal value, so touching boxes still pair
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].value != events[j].value {
			return events[i].value < events[j].value
		}
		return events[i].isMin && !events[j].isMin
	})

	return events
}

func buildPairs(events []sweepEvent) []CollisionPair {
	pairs := make([]CollisionPair, 0, len(events)/2)

	for i, a := range events {
		if !a.isMin {
			continue
		}

		for j := i + 1; j < len(events); j++ {
			b := events[j]
			// Reached the end of a's interval
			if b.id == a.id {
				break
			}
			if !b.isMin {
				continue
			}
			pairs = append(pairs, CollisionPair{A: a.id, B: b.id})
		}
	}

	return pairs
}

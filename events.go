package impact

import (
	"unsafe"

	"github.com/akmonengine/impact/actor"
	"github.com/akmonengine/impact/constraint"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
)

type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	ptrA := uintptr(unsafe.Pointer(bodyA))
	ptrB := uintptr(unsafe.Pointer(bodyB))

	if ptrB < ptrA {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CollisionEnterEvent is sent the first frame a pair is resolved
type CollisionEnterEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Contact constraint.Contact
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

// CollisionStayEvent is sent while a pair keeps colliding on consecutive frames
type CollisionStayEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Contact constraint.Contact
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

// CollisionExitEvent is sent the first frame a pair is no longer in contact
type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
// Listeners must treat bodies as read-only
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	// The order slices keep pairs in the order their first contact was resolved
	previousActivePairs map[pairKey]constraint.Contact
	currentActivePairs  map[pairKey]constraint.Contact
	previousOrder       []pairKey
	currentOrder        []pairKey
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]constraint.Contact),
		currentActivePairs:  make(map[pairKey]constraint.Contact),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContact is called for every contact resolved during a frame
// The first contact of a pair within the frame is kept
func (e *Events) recordContact(contact constraint.Contact) {
	if e.currentActivePairs == nil {
		*e = NewEvents()
	}

	pair := makePairKey(contact.BodyA, contact.BodyB)
	if _, exists := e.currentActivePairs[pair]; !exists {
		e.currentActivePairs[pair] = contact
		e.currentOrder = append(e.currentOrder, pair)
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
// Enter and Stay follow resolution order, then Exit follows the previous frame's order
func (e *Events) processCollisionEvents() {
	for _, pair := range e.currentOrder {
		contact := e.currentActivePairs[pair]
		if _, ok := e.previousActivePairs[pair]; ok {
			e.buffer = append(e.buffer, CollisionStayEvent{
				BodyA:   contact.BodyA,
				BodyB:   contact.BodyB,
				Contact: contact,
			})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{
				BodyA:   contact.BodyA,
				BodyB:   contact.BodyB,
				Contact: contact,
			})
		}
	}

	for _, pair := range e.previousOrder {
		if _, ok := e.currentActivePairs[pair]; !ok {
			contact := e.previousActivePairs[pair]
			e.buffer = append(e.buffer, CollisionExitEvent{
				BodyA: contact.BodyA,
				BodyB: contact.BodyB,
			})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	e.previousOrder, e.currentOrder = e.currentOrder, e.previousOrder[:0]
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	if e.currentActivePairs == nil {
		return
	}

	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}

// forget drops every tracked pair involving body
func (e *Events) forget(body *actor.RigidBody) {
	e.previousOrder = forgetPairs(e.previousActivePairs, e.previousOrder, body)
	e.currentOrder = forgetPairs(e.currentActivePairs, e.currentOrder, body)
}

func forgetPairs(pairs map[pairKey]constraint.Contact, order []pairKey, body *actor.RigidBody) []pairKey {
	n := 0
	for _, pair := range order {
		if pair.bodyA == body || pair.bodyB == body {
			delete(pairs, pair)
			continue
		}
		order[n] = pair
		n++
	}
	return order[:n]
}

// reset forgets the tracked pairs, the bodies they point to are gone
func (e *Events) reset() {
	clear(e.previousActivePairs)
	clear(e.currentActivePairs)
	e.previousOrder = e.previousOrder[:0]
	e.currentOrder = e.currentOrder[:0]
	e.buffer = e.buffer[:0]
}

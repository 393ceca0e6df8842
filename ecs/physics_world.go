package ecs

import (
	"log"

	"github.com/jakecoffman/cp"
)

// Role classifies a body for overlap reporting.
type Role int

const (
	RolePlayer Role = iota + 1
	RoleEnemy
	RoleKinetic
	RoleOrbit
	RoleXpOrb
)

func (r Role) collisionType() cp.CollisionType {
	return cp.CollisionType(r)
}

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleEnemy:
		return "enemy"
	case RoleKinetic:
		return "kinetic"
	case RoleOrbit:
		return "orbit"
	case RoleXpOrb:
		return "xporb"
	default:
		return "unknown"
	}
}

// Overlap reports two bodies whose circles intersect. A always carries the
// first role of the pair as registered (Kinetic, Orbit or Player).
type Overlap struct {
	A, B  Entity
	RoleA Role
	RoleB Role
}

type physicsBody struct {
	body   *cp.Body
	shape  *cp.Shape
	role   Role
	radius float64
	synced bool
}

// PhysicsWorld detects circle overlaps between arena bodies with a Chipmunk
// space. Every body is a kinematic sensor, so the space never applies
// impulses; collision handlers only record which pairs touched.
type PhysicsWorld struct {
	space         *cp.Space
	bodies        map[Entity]*physicsBody
	shapeToEntity map[*cp.Shape]Entity
	seen          map[[2]Entity]struct{}
	pending       []Overlap
}

// NewPhysicsWorld creates an empty overlap space.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:         space,
		bodies:        make(map[Entity]*physicsBody),
		shapeToEntity: make(map[*cp.Shape]Entity),
		seen:          make(map[[2]Entity]struct{}),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Sync creates or moves the body for e. Bodies that are not synced between
// two Steps are removed by the second Step.
func (pw *PhysicsWorld) Sync(e Entity, role Role, pos cp.Vector, radius float64) {
	if pw == nil || pw.space == nil || !e.Valid() || radius <= 0 {
		return
	}
	pb := pw.bodies[e]
	if pb != nil && (pb.role != role || pb.radius != radius) {
		pw.remove(e, pb)
		pb = nil
	}
	if pb == nil {
		body := cp.NewKinematicBody()
		body.SetPosition(pos)
		shape := cp.NewCircle(body, radius, cp.Vector{})
		shape.SetSensor(true)
		shape.SetCollisionType(role.collisionType())
		shape.UserData = e
		pw.space.AddBody(body)
		pw.space.AddShape(shape)
		pb = &physicsBody{body: body, shape: shape, role: role, radius: radius}
		pw.bodies[e] = pb
		pw.shapeToEntity[shape] = e
	} else {
		pb.body.SetPosition(pos)
	}
	pb.synced = true
}

// Step prunes unsynced bodies, advances the space and returns the overlaps
// found during the step. Each pair is reported at most once per step.
func (pw *PhysicsWorld) Step(dt float64) []Overlap {
	if pw == nil || pw.space == nil || dt <= 0 {
		return nil
	}
	for e, pb := range pw.bodies {
		if !pb.synced {
			pw.remove(e, pb)
			continue
		}
		pb.synced = false
	}
	pw.pending = pw.pending[:0]
	clear(pw.seen)
	pw.space.Step(dt)
	if len(pw.pending) == 0 {
		return nil
	}
	return append([]Overlap(nil), pw.pending...)
}

// Len returns the number of tracked bodies.
func (pw *PhysicsWorld) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

// Clear removes every body.
func (pw *PhysicsWorld) Clear() {
	if pw == nil {
		return
	}
	for e, pb := range pw.bodies {
		pw.remove(e, pb)
	}
}

func (pw *PhysicsWorld) remove(e Entity, pb *physicsBody) {
	pw.space.RemoveShape(pb.shape)
	pw.space.RemoveBody(pb.body)
	delete(pw.shapeToEntity, pb.shape)
	delete(pw.bodies, e)
}

func (pw *PhysicsWorld) record(first Role, a, b *cp.Shape) {
	ea, okA := pw.shapeToEntity[a]
	eb, okB := pw.shapeToEntity[b]
	if !okA || !okB {
		return
	}
	if pw.bodies[ea].role != first {
		ea, eb = eb, ea
	}
	key := [2]Entity{ea, eb}
	if _, dup := pw.seen[key]; dup {
		return
	}
	pw.seen[key] = struct{}{}
	pw.pending = append(pw.pending, Overlap{
		A:     ea,
		B:     eb,
		RoleA: pw.bodies[ea].role,
		RoleB: pw.bodies[eb].role,
	})
}

func (pw *PhysicsWorld) setupHandlers() {
	pairs := [][2]Role{
		{RoleKinetic, RoleEnemy},
		{RoleOrbit, RoleEnemy},
		{RolePlayer, RoleEnemy},
		{RolePlayer, RoleXpOrb},
	}
	for _, pair := range pairs {
		first := pair[0]
		handler := pw.space.NewCollisionHandler(pair[0].collisionType(), pair[1].collisionType())
		handler.UserData = pw
		handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			world, ok := userData.(*PhysicsWorld)
			if !ok || world == nil {
				return false
			}
			shapeA, shapeB := arb.Shapes()
			world.record(first, shapeA, shapeB)
			return false
		}
	}
	log.Printf("physics: %d overlap handlers ready", len(pairs))
}

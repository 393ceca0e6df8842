package component

import "github.com/jakecoffman/cp"

type Transform struct {
	Position cp.Vector
	Radius   float64
}

var TransformComponent = NewComponent[Transform]()

// Velocity is applied to Transform by the movement system, in units per second.
type Velocity struct {
	Value cp.Vector
}

var VelocityComponent = NewComponent[Velocity]()

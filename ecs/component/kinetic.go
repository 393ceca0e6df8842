package component

import (
	"time"

	"github.com/jakecoffman/cp"
)

type KineticKind int

const (
	KineticProjectile KineticKind = iota
	KineticBomb
)

func (k KineticKind) String() string {
	if k == KineticBomb {
		return "bomb"
	}
	return "projectile"
}

// Kinetic is a moving attack point. Spent is set the moment it resolves so a
// projectile hits at most one enemy and a bomb explodes exactly once.
type Kinetic struct {
	Kind      KineticKind
	Target    cp.Vector
	Damage    int
	ExpiresAt time.Duration
	Spent     bool
}

var KineticComponent = NewComponent[Kinetic]()

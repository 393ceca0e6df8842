package component

// OrbitOrb is one of the damage orbs circling the player.
type OrbitOrb struct {
	Index int
	Angle float64
}

var OrbitOrbComponent = NewComponent[OrbitOrb]()

package component

// XpOrb grants XP when the player touches it.
type XpOrb struct {
	XP int
}

var XpOrbComponent = NewComponent[XpOrb]()

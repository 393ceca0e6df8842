package component

// Enemy is a live enemy instance spawned from an archetype. HP > 0 exactly
// while Alive is true.
type Enemy struct {
	ArchetypeID   string
	HP            int
	MaxHP         int
	Speed         float64
	XP            int
	ContactDamage int
	DeathRadius   float64
	Alive         bool
}

var EnemyComponent = NewComponent[Enemy]()

// Boss marks the one-off boss spawn.
type Boss struct {
	DisplayName string
}

var BossComponent = NewComponent[Boss]()

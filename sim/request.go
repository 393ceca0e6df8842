package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/system"
)

// RequestKind names something the session wants a collaborator to do.
type RequestKind string

const (
	RequestSpawnVisual    RequestKind = "spawn_visual"
	RequestSpawnXpOrb     RequestKind = "spawn_xp_orb"
	RequestCameraFeedback RequestKind = "camera_feedback"
	RequestShowWaveBanner RequestKind = "show_wave_banner"
	RequestShowBossBanner RequestKind = "show_boss_banner"
	RequestGameOver       RequestKind = "game_over"
	RequestSceneRestart   RequestKind = "scene_restart"
)

type FeedbackKind string

const FeedbackHit FeedbackKind = "hit"

// Request is one outbound call. Only the fields relevant to Kind are set.
type Request struct {
	Kind     RequestKind
	Visual   system.VisualKind
	Feedback FeedbackKind
	Entity   ecs.Entity
	Position cp.Vector
	Radius   float64
	XP       int
	Count    int
	Text     string
}

type outbox struct {
	items []Request
}

func (o *outbox) push(r Request) {
	o.items = append(o.items, r)
}

func (o *outbox) drain() []Request {
	items := o.items
	o.items = nil
	return items
}

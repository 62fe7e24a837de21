// Package components defines ECS components for the agent director.
package components

import "github.com/mlange-42/ark/ecs"

// State identifies an agent's behavior state.
type State uint8

const (
	StateIdle State = iota
	StateWalking
	StateDancing
	StateScrambling
	StateFleeing
	StateCircling
	StateTaunting
	StateThrowing
	StateTripping
	StateAttacking
	StateStaggered
	StateDying
)

var stateNames = [...]string{
	"idle", "walking", "dancing", "scrambling", "fleeing", "circling",
	"taunting", "throwing", "tripping", "attacking", "staggered", "dying",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Transform holds world position and facing yaw.
// Yaw is the XZ-plane angle of the facing vector (cos yaw, sin yaw).
type Transform struct {
	X, Y, Z float32
	Yaw     float32
}

// Motion holds base speed and the current steering target on the XZ plane.
type Motion struct {
	Speed            float32
	TargetX, TargetZ float32
}

// Health tracks hit points and the dying countdown.
// Current stays within [0, Max]. Dead agents keep their mixer running
// until DyingTimer reaches zero, then leave the roster.
type Health struct {
	Current, Max float32
	Dead         bool
	DyingTimer   float32
}

// Morale holds the static temperament and the per-tick derived courage.
type Morale struct {
	Base        float32 // static, [0.3, 0.7] at spawn
	Courage     float32 // derived each tick, [0, 1]
	Personality float32 // static, [0, 1]; high values shrug off scares
	Rallied     bool
	RallyTimer  float32
}

// Behavior is the FSM core: current state, its timers, and social bookkeeping.
type Behavior struct {
	ID    uint32
	State State

	// StateTimer accumulates time in the current state; StateDuration is
	// the clip-derived deadline the state dispatches against.
	StateTimer    float32
	StateDuration float32
	IdleTimer     float32

	// Charging marks walking-toward-player; the target tracks the player.
	Charging bool

	Noticed    bool
	Alerted    bool       // AlertedBy is only meaningful while set
	AlertedBy  ecs.Entity // weak reference to the alerter
	AlertDelay float32    // reaction countdown after an alert
}

// Dance holds the pair link and the shared dance clock.
// Partner is a weak reference: a lookup hint, never ownership, valid
// only while HasPartner is set, and cleared on both sides at teardown.
type Dance struct {
	Partner     ecs.Entity
	HasPartner  bool
	Clip        string
	Timer       float32
	MaxDuration float32
}

// Combat holds melee bookkeeping and the strafe clip hysteresis handle.
type Combat struct {
	AttackClip     string
	AttackTimer    float32
	AttackDuration float32
	ComboCount     int
	ComboMax       int
	Struck         bool   // melee contact reported for the current swing
	StrafeClip     string // last selected locomotion clip while circling
}

// Tactics holds throw and trip state. Cooldowns are delta-time
// accumulators, not wall clock, so runs are deterministic for a fixed
// tick schedule.
type Tactics struct {
	FlankAngle float32 // accumulated orbit angle around the player

	CanThrow      bool
	ThrowCooldown float32 // per-agent, randomized at spawn
	SinceThrow    float32
	ThrowTimer    float32
	ThrowDuration float32
	Thrown        bool // rock released for the current wind-up

	TripChance float32 // per-second probability while circling
	SinceTrip  float32
}

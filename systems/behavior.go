package systems

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
	"github.com/greymarsh/warren/telemetry"
)

// Callbacks are director-owned effects the behavior step triggers.
// Injected to keep the dependency flow one-way (director → behavior).
type Callbacks struct {
	// LaunchRock spawns a projectile aimed from origin at target.
	LaunchRock func(origin, target rl.Vector3, thrower ecs.Entity)
	// MeleeHit reports a landed swing; damage application is the
	// host's concern.
	MeleeHit func(attacker uint32)
}

// Behavior runs the per-agent state machine. One Step call per living
// agent per tick, in roster order; cross-agent writes (alert marks,
// rally flags, partner teardown) are observed by later agents in the
// same tick.
type Behavior struct {
	world   *ecs.World
	cfg     *config.Config
	rng     *rand.Rand
	spatial *Spatial
	binding *anim.Binding
	terrain HeightOracle
	rec     *telemetry.Recorder
	calls   Callbacks

	transformMap *ecs.Map[components.Transform]
	motionMap    *ecs.Map[components.Motion]
	healthMap    *ecs.Map[components.Health]
	moraleMap    *ecs.Map[components.Morale]
	behaviorMap  *ecs.Map[components.Behavior]
	danceMap     *ecs.Map[components.Dance]
	combatMap    *ecs.Map[components.Combat]
	tacticsMap   *ecs.Map[components.Tactics]

	player Player
	roster []ecs.Entity
}

// NewBehavior creates the behavior system.
func NewBehavior(w *ecs.World, cfg *config.Config, rng *rand.Rand, spatial *Spatial, binding *anim.Binding, rec *telemetry.Recorder, calls Callbacks) *Behavior {
	return &Behavior{
		world:   w,
		cfg:     cfg,
		rng:     rng,
		spatial: spatial,
		binding: binding,
		rec:     rec,
		calls:   calls,

		transformMap: ecs.NewMap[components.Transform](w),
		motionMap:    ecs.NewMap[components.Motion](w),
		healthMap:    ecs.NewMap[components.Health](w),
		moraleMap:    ecs.NewMap[components.Morale](w),
		behaviorMap:  ecs.NewMap[components.Behavior](w),
		danceMap:     ecs.NewMap[components.Dance](w),
		combatMap:    ecs.NewMap[components.Combat](w),
		tacticsMap:   ecs.NewMap[components.Tactics](w),
	}
}

// SetPlayer installs the player handle; nil skips player branches.
func (b *Behavior) SetPlayer(p Player) { b.player = p }

// SetTerrain installs the height oracle.
func (b *Behavior) SetTerrain(o HeightOracle) { b.terrain = o }

// BeginTick hands the behavior step this tick's roster snapshot.
func (b *Behavior) BeginTick(roster []ecs.Entity) { b.roster = roster }

// agentCtx bundles one agent's components for a Step call.
type agentCtx struct {
	e   ecs.Entity
	t   *components.Transform
	mo  *components.Motion
	h   *components.Health
	mor *components.Morale
	bh  *components.Behavior
	dn  *components.Dance
	cb  *components.Combat
	tac *components.Tactics
}

func (b *Behavior) get(e ecs.Entity) agentCtx {
	return agentCtx{
		e:   e,
		t:   b.transformMap.Get(e),
		mo:  b.motionMap.Get(e),
		h:   b.healthMap.Get(e),
		mor: b.moraleMap.Get(e),
		bh:  b.behaviorMap.Get(e),
		dn:  b.danceMap.Get(e),
		cb:  b.combatMap.Get(e),
		tac: b.tacticsMap.Get(e),
	}
}

// Step advances one living agent by dt.
func (b *Behavior) Step(e ecs.Entity, dt float32) {
	a := b.get(e)

	// Cooldown accumulators run in every state.
	a.tac.SinceThrow += dt
	a.tac.SinceTrip += dt

	if b.tickAlertReaction(&a, dt) {
		return
	}

	switch a.bh.State {
	case components.StateIdle:
		b.stepIdle(&a, dt)
	case components.StateWalking:
		b.stepWalking(&a, dt)
	case components.StateDancing:
		b.stepDancing(&a, dt)
	case components.StateScrambling:
		b.stepScrambling(&a, dt)
	case components.StateFleeing:
		b.stepFleeing(&a, dt)
	case components.StateCircling:
		b.stepCircling(&a, dt)
	case components.StateTaunting:
		b.stepTaunting(&a, dt)
	case components.StateThrowing:
		b.stepThrowing(&a, dt)
	case components.StateTripping:
		b.stepTripping(&a, dt)
	case components.StateAttacking:
		b.stepAttacking(&a, dt)
	case components.StateStaggered:
		b.stepStaggered(&a, dt)
	}
}

// EnterStaggered interrupts an agent that survived a hit: any dance
// tears down, the player is known from then on, and the impact clip
// plays out before the state machine resumes.
func (b *Behavior) EnterStaggered(e ecs.Entity) {
	a := b.get(e)
	if a.bh.State == components.StateDancing || a.dn.HasPartner {
		b.stopDance(&a, "staggered")
	}
	a.bh.Noticed = true
	a.bh.Charging = false
	b.setState(&a, components.StateStaggered)
	a.bh.StateDuration = b.binding.Play(a.bh.ID, anim.ClipImpact,
		anim.PlayOpts{Crossfade: 0.2, ClampEnd: true}, b.cfg.Combat.ImpactFallback)
}

// EnterDying begins the death lifecycle and returns how long the dying
// clip runs; the caller removes the agent once that much time passes.
func (b *Behavior) EnterDying(e ecs.Entity, fallback float32) float32 {
	a := b.get(e)
	if a.bh.State == components.StateDancing || a.dn.HasPartner {
		b.stopDance(&a, "died")
	}
	b.setState(&a, components.StateDying)
	dur := b.binding.Play(a.bh.ID, anim.ClipDying,
		anim.PlayOpts{Crossfade: 0.15, ClampEnd: true}, fallback)
	a.bh.StateDuration = dur
	return dur
}

// tickAlertReaction counts down a pending alert. The reaction delay is
// personality-scaled: bolder personalities react faster. Returns true
// when the agent spent this tick transitioning out.
func (b *Behavior) tickAlertReaction(a *agentCtx, dt float32) bool {
	if !a.bh.Alerted || a.bh.Noticed {
		return false
	}
	switch a.bh.State {
	case components.StateIdle, components.StateWalking, components.StateDancing:
	default:
		return false
	}
	a.bh.AlertDelay -= dt
	if a.bh.AlertDelay > 0 {
		return false
	}
	a.bh.Noticed = true
	b.rec.Record(telemetry.Event{Type: telemetry.EventNotice, Agent: a.bh.ID, Detail: "alerted"})
	if a.bh.State == components.StateDancing {
		b.stopDance(a, "alerted")
	}
	b.enterScrambling(a)
	return true
}

// roll is a Poisson-like per-tick decision at the given rate per second.
func (b *Behavior) roll(rate, dt float32) bool {
	return b.rng.Float32() < rate*dt
}

// uniform samples the inclusive range r.
func (b *Behavior) uniform(r config.MinMax) float32 {
	return r.Min + b.rng.Float32()*(r.Max-r.Min)
}

// moveToward steps the agent toward (tx, tz) at its base speed,
// optionally facing the movement direction. Returns the remaining
// XZ distance after the move.
func (b *Behavior) moveToward(a *agentCtx, tx, tz, dt float32, face bool) float32 {
	dx := tx - a.t.X
	dz := tz - a.t.Z
	dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))
	if dist < 1e-6 {
		return 0
	}
	step := a.mo.Speed * dt
	if step > dist {
		step = dist
	}
	a.t.X += dx / dist * step
	a.t.Z += dz / dist * step
	if face {
		a.t.Yaw = atan2f(dz, dx)
	}
	return dist - step
}

// facePlayer turns the agent toward the player.
func (b *Behavior) facePlayer(a *agentCtx) {
	if b.player == nil {
		return
	}
	p := b.player.Position()
	a.t.Yaw = atan2f(p.Z-a.t.Z, p.X-a.t.X)
}

// settle runs post-move housekeeping: push-out from the player and
// living peers, then terrain height snap. Dead agents do not collide.
func (b *Behavior) settle(a *agentCtx) {
	r := b.cfg.Radii
	if b.player != nil {
		p := b.player.Position()
		pushOut(a.t, p.X, p.Z, r.AgentCollision+r.PlayerCollision)
	}
	combined := r.AgentCollision * 2
	b.spatial.ForEachWithin(b.roster, a.e, a.t.X, a.t.Z, combined, func(_ ecs.Entity, other *components.Transform) {
		pushOut(a.t, other.X, other.Z, combined)
	})
	if b.terrain != nil {
		if y, ok := b.terrain.HeightAt(a.t.X, a.t.Z); ok {
			a.t.Y = y
		}
	}
}

// pushOut separates t from the point (x, z) to the combined radius.
func pushOut(t *components.Transform, x, z, radius float32) {
	dx := t.X - x
	dz := t.Z - z
	distSq := dx*dx + dz*dz
	if distSq >= radius*radius || distSq < 1e-9 {
		return
	}
	dist := float32(math.Sqrt(float64(distSq)))
	scale := radius / dist
	t.X = x + dx*scale
	t.Z = z + dz*scale
}

// classifyLocomotion maps the instantaneous movement direction against
// the facing into one of the four locomotion clips.
func classifyLocomotion(moveAngle, yaw float32) string {
	diff := normalizeAngle(moveAngle - yaw)
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= math.Pi/4:
		return anim.ClipRun
	case abs >= 3*math.Pi/4:
		return anim.ClipRunBack
	case diff > 0:
		return anim.ClipStrafeLeft
	default:
		return anim.ClipStrafeRight
	}
}

// Package director owns the goblin roster and runs the per-frame
// simulation: agents in roster order, then projectiles, then damage
// indicators, then deferred removals. It is single-threaded and
// cooperative; one Tick call per frame does all the work.
package director

import (
	"errors"
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
	"github.com/greymarsh/warren/systems"
	"github.com/greymarsh/warren/telemetry"
)

// ErrNotReady is returned when spawning is attempted before the clip
// catalog has loaded.
var ErrNotReady = errors.New("director: clip catalog not ready")

// NodeKind tags scene node lifecycle notifications.
type NodeKind uint8

const (
	NodeAgent NodeKind = iota
	NodeRock
	NodeIndicator
)

// Scene receives node add/remove notifications so a host renderer can
// mirror the roster. IDs are stable for a node's lifetime.
type Scene interface {
	Add(kind NodeKind, id uint32)
	Remove(kind NodeKind, id uint32)
}

// Options configures a Director.
type Options struct {
	Config   *config.Config // nil uses embedded defaults
	Catalog  *anim.Catalog  // required before Spawn
	Terrain  systems.HeightOracle
	Scene    Scene
	Seed     int64
	Recorder *telemetry.Recorder

	// OnPlayerHit reports a rock striking the player. Damage
	// application is the host's job.
	OnPlayerHit func(damage float32)
	// OnMeleeHit reports a landed melee swing by the given agent.
	OnMeleeHit func(attacker uint32)
}

// Director is the single long-lived owner of agents, projectiles,
// damage indicators, and the clip catalog.
type Director struct {
	world   *ecs.World
	cfg     *config.Config
	rng     *rand.Rand
	catalog *anim.Catalog
	binding *anim.Binding
	spatial *systems.Spatial
	behave  *systems.Behavior
	rocks   *systems.Projectiles
	terrain systems.HeightOracle
	rec     *telemetry.Recorder
	scene   Scene

	onPlayerHit func(damage float32)

	agentMapper *ecs.Map7[
		components.Transform,
		components.Motion,
		components.Health,
		components.Morale,
		components.Behavior,
		components.Dance,
		components.Combat,
	]
	transformMap *ecs.Map[components.Transform]
	motionMap    *ecs.Map[components.Motion]
	healthMap    *ecs.Map[components.Health]
	moraleMap    *ecs.Map[components.Morale]
	behaviorMap  *ecs.Map[components.Behavior]
	danceMap     *ecs.Map[components.Dance]
	combatMap    *ecs.Map[components.Combat]
	tacticsMap   *ecs.Map[components.Tactics]

	// roster preserves spawn order; all iteration and spatial scans
	// run over it so update order is deterministic.
	roster []ecs.Entity
	byID   map[uint32]ecs.Entity
	nextID uint32
	tick   int64

	player     systems.Player
	indicators []DamageIndicator

	billboardYaw float32
	rockScratch  []uint32
}

// New creates a Director. The catalog may load after New, but Spawn
// fails until it is ready.
func New(opts Options) *Director {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	world := ecs.NewWorld()

	d := &Director{
		world:       world,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		catalog:     opts.Catalog,
		binding:     anim.NewBinding(opts.Catalog),
		terrain:     opts.Terrain,
		rec:         opts.Recorder,
		scene:       opts.Scene,
		onPlayerHit: opts.OnPlayerHit,

		agentMapper: ecs.NewMap7[
			components.Transform,
			components.Motion,
			components.Health,
			components.Morale,
			components.Behavior,
			components.Dance,
			components.Combat,
		](world),
		transformMap: ecs.NewMap[components.Transform](world),
		motionMap:    ecs.NewMap[components.Motion](world),
		healthMap:    ecs.NewMap[components.Health](world),
		moraleMap:    ecs.NewMap[components.Morale](world),
		behaviorMap:  ecs.NewMap[components.Behavior](world),
		danceMap:     ecs.NewMap[components.Dance](world),
		combatMap:    ecs.NewMap[components.Combat](world),
		tacticsMap:   ecs.NewMap[components.Tactics](world),

		byID:   make(map[uint32]ecs.Entity),
		nextID: 1,
	}

	d.spatial = systems.NewSpatial(world)
	d.rocks = systems.NewProjectiles(cfg.Throw)
	d.behave = systems.NewBehavior(world, cfg, d.rng, d.spatial, d.binding, d.rec, systems.Callbacks{
		LaunchRock: d.launchRock,
		MeleeHit:   opts.OnMeleeHit,
	})
	d.behave.SetTerrain(opts.Terrain)
	return d
}

// SetPlayer installs the read-only player handle. A nil player skips
// every player-dependent branch; agents keep wandering.
func (d *Director) SetPlayer(p systems.Player) {
	d.player = p
	d.behave.SetPlayer(p)
}

// Tick advances the simulation by dt seconds. The camera orients
// health bars and damage numbers; rl.Camera3D{} is fine for headless
// hosts.
func (d *Director) Tick(dt float32, cam rl.Camera3D) {
	d.tick++
	d.rec.SetTick(d.tick)
	d.billboardYaw = billboardYaw(cam)

	d.behave.BeginTick(d.roster)
	for _, e := range d.roster {
		bh := d.behaviorMap.Get(e)
		d.binding.Update(bh.ID, dt)

		h := d.healthMap.Get(e)
		if h.Dead {
			// The mixer keeps running so the dying clip plays out;
			// behavior stays off.
			h.DyingTimer -= dt
			continue
		}
		t := d.transformMap.Get(e)
		allies := d.spatial.CountAlliesWithin(d.roster, e, t.X, t.Z, d.cfg.Radii.AllyDetection)
		systems.UpdateMorale(d.moraleMap.Get(e), h, allies, dt, d.cfg.Morale)
		d.behave.Step(e, dt)
	}

	// Projectiles integrate after all agents: a rock thrown on tick T
	// first moves on tick T+1.
	d.rockScratch = d.rockScratch[:0]
	hits := d.rocks.Update(dt, d.player, d.terrain, &d.rockScratch)
	for _, id := range d.rockScratch {
		d.sceneRemove(NodeRock, id)
	}
	for _, hit := range hits {
		d.rec.Record(telemetry.Event{Type: telemetry.EventPlayerHit, Agent: d.agentID(hit.Thrower), Amount: hit.Damage})
		if d.onPlayerHit != nil {
			d.onPlayerHit(hit.Damage)
		}
	}

	d.updateIndicators(dt)
	d.removeCompleted()
}

// Damage applies amount to an agent: health clamps to [0, max], a
// damage indicator always spawns, and the agent either staggers or
// begins the dying lifecycle. Nothing here removes the agent; removal
// happens after the dying clip completes.
func (d *Director) Damage(id uint32, amount float32) {
	e, ok := d.byID[id]
	if !ok {
		return
	}
	h := d.healthMap.Get(e)
	if h.Dead {
		return
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	t := d.transformMap.Get(e)
	d.spawnIndicator(t.X, t.Y+2, t.Z, amount)
	d.rec.Record(telemetry.Event{Type: telemetry.EventDamage, Agent: id, Amount: amount})

	if h.Current <= 0 {
		h.Dead = true
		h.DyingTimer = d.behave.EnterDying(e, d.cfg.Timers.DyingFallback)
		d.rec.Record(telemetry.Event{Type: telemetry.EventDeath, Agent: id})
		return
	}
	d.behave.EnterStaggered(e)
}

// RemoveAll clears the roster, projectiles, and indicators.
func (d *Director) RemoveAll() {
	for _, e := range d.roster {
		id := d.behaviorMap.Get(e).ID
		d.binding.Detach(id)
		d.sceneRemove(NodeAgent, id)
		d.agentMapper.Remove(e)
	}
	d.roster = d.roster[:0]
	clear(d.byID)

	d.rockScratch = d.rockScratch[:0]
	d.rocks.Clear(&d.rockScratch)
	for _, id := range d.rockScratch {
		d.sceneRemove(NodeRock, id)
	}
	for i := range d.indicators {
		d.sceneRemove(NodeIndicator, d.indicators[i].ID)
	}
	d.indicators = d.indicators[:0]
}

// removeCompleted drops agents whose dying clip has finished. Two
// passes: collect first, then mutate, so roster iteration stays clean.
func (d *Director) removeCompleted() {
	var done []ecs.Entity
	for _, e := range d.roster {
		h := d.healthMap.Get(e)
		if h.Dead && h.DyingTimer <= 0 {
			done = append(done, e)
		}
	}
	if len(done) == 0 {
		return
	}
	for _, e := range done {
		id := d.behaviorMap.Get(e).ID
		d.rec.Record(telemetry.Event{Type: telemetry.EventRemove, Agent: id})
		d.binding.Detach(id)
		d.sceneRemove(NodeAgent, id)
		delete(d.byID, id)
		d.agentMapper.Remove(e)
	}
	kept := d.roster[:0]
	for _, e := range d.roster {
		removed := false
		for _, g := range done {
			if e == g {
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, e)
		}
	}
	d.roster = kept
}

func (d *Director) launchRock(origin, target rl.Vector3, thrower ecs.Entity) {
	id := d.nextID
	d.nextID++
	d.rocks.Launch(id, origin, target, thrower, d.rng.Float32()*2)
	d.sceneAdd(NodeRock, id)
}

// agentID resolves an entity's agent ID if it is still on the roster.
func (d *Director) agentID(e ecs.Entity) uint32 {
	if !d.world.Alive(e) || !d.behaviorMap.Has(e) {
		return 0
	}
	return d.behaviorMap.Get(e).ID
}

func (d *Director) sceneAdd(kind NodeKind, id uint32) {
	if d.scene != nil {
		d.scene.Add(kind, id)
	}
}

func (d *Director) sceneRemove(kind NodeKind, id uint32) {
	if d.scene != nil {
		d.scene.Remove(kind, id)
	}
}

// Count returns the roster size, dying agents included.
func (d *Director) Count() int {
	return len(d.roster)
}

// Tickno returns the current tick number.
func (d *Director) Tickno() int64 {
	return d.tick
}

// CourageSamples collects per-agent courage for population stats.
func (d *Director) CourageSamples() []float64 {
	out := make([]float64, 0, len(d.roster))
	for _, e := range d.roster {
		if d.healthMap.Get(e).Dead {
			continue
		}
		out = append(out, float64(d.moraleMap.Get(e).Courage))
	}
	return out
}

// billboardYaw derives the XZ facing that turns a billboard toward the
// camera.
func billboardYaw(cam rl.Camera3D) float32 {
	dx := cam.Position.X - cam.Target.X
	dz := cam.Position.Z - cam.Target.Z
	if dx == 0 && dz == 0 {
		return 0
	}
	return float32(math.Atan2(float64(dz), float64(dx)))
}

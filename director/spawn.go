package director

import (
	"log/slog"
	"math"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
	"github.com/greymarsh/warren/telemetry"
)

// Spawn places count agents uniformly inside a disc around (cx, cz).
// Each agent gets randomized speed, personality, base courage, and a
// coin-flip thrower role. Fails before the clip catalog is loaded so
// agents never animate against missing clips.
func (d *Director) Spawn(count int, cx, cz, radius float32) error {
	if d.catalog == nil || !d.catalog.Ready() {
		return ErrNotReady
	}
	for i := 0; i < count; i++ {
		d.spawnOne(cx, cz, radius)
	}
	return nil
}

func (d *Director) spawnOne(cx, cz, radius float32) {
	sp := d.cfg.Spawn
	ang := d.rng.Float32() * 2 * math.Pi
	dist := radius * d.rng.Float32()
	x := cx + float32(math.Cos(float64(ang)))*dist
	z := cz + float32(math.Sin(float64(ang)))*dist
	y := float32(0)
	if d.terrain != nil {
		if gy, ok := d.terrain.HeightAt(x, z); ok {
			y = gy
		}
	}

	id := d.nextID
	d.nextID++

	t := components.Transform{X: x, Y: y, Z: z, Yaw: d.rng.Float32() * 2 * math.Pi}
	mo := components.Motion{
		Speed:   d.uniform(config.MinMax{Min: sp.SpeedMin, Max: sp.SpeedMax}),
		TargetX: x,
		TargetZ: z,
	}
	h := components.Health{Current: sp.MaxHealth, Max: sp.MaxHealth}
	mor := components.Morale{
		Base:        d.uniform(sp.BaseCourage),
		Personality: d.rng.Float32(),
	}
	mor.Courage = mor.Base
	bh := components.Behavior{
		ID:        id,
		State:     components.StateIdle,
		IdleTimer: d.uniform(d.cfg.Timers.Idle),
	}
	dn := components.Dance{}
	cb := components.Combat{}

	e := d.agentMapper.NewEntity(&t, &mo, &h, &mor, &bh, &dn, &cb)

	cooldown := d.uniform(d.cfg.Throw.Cooldown)
	tac := components.Tactics{
		FlankAngle:    d.rng.Float32() * 2 * math.Pi,
		CanThrow:      d.rng.Float32() < sp.ThrowerChance,
		ThrowCooldown: cooldown,
		SinceThrow:    cooldown, // eligible to throw right away
		TripChance:    d.uniform(d.cfg.Trip.Chance),
	}
	d.tacticsMap.Add(e, &tac)

	d.roster = append(d.roster, e)
	d.byID[id] = e
	d.binding.Attach(id)
	d.binding.Play(id, anim.ClipIdle, anim.PlayOpts{Loop: true}, 0)
	d.sceneAdd(NodeAgent, id)
	d.rec.Record(telemetry.Event{Type: telemetry.EventSpawn, Agent: id})
	slog.Debug("agent spawned", "agent", id, "x", x, "z", z,
		"courage", mor.Base, "thrower", tac.CanThrow)
}

func (d *Director) uniform(r config.MinMax) float32 {
	return r.Min + d.rng.Float32()*(r.Max-r.Min)
}

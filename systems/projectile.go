package systems

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/greymarsh/warren/config"
)

// Rock is one thrown projectile. Thrower is a weak reference kept only
// for hit attribution; the rock outliving its thrower is fine.
type Rock struct {
	ID      uint32
	Pos     rl.Vector3
	Vel     rl.Vector3
	Spin    rl.Vector3 // cosmetic tumble, radians accumulated
	SpinVel rl.Vector3
	Age     float32
	Thrower ecs.Entity
	Damage  float32
}

// Hit reports a rock striking the player. Damage application is the
// host's job; the director only reports the event.
type Hit struct {
	Thrower ecs.Entity
	Damage  float32
}

// Projectiles integrates all live rocks. Rocks thrown on tick T first
// move on tick T+1 because the director runs this after all agents.
type Projectiles struct {
	Rocks []Rock
	cfg   config.ThrowConfig
}

// NewProjectiles creates an empty projectile simulator.
func NewProjectiles(cfg config.ThrowConfig) *Projectiles {
	return &Projectiles{
		Rocks: make([]Rock, 0, 32),
		cfg:   cfg,
	}
}

// LaunchVelocity computes the throw velocity: aim at the target, bias
// the aim upward by ArcBias per unit of distance, normalize, and scale
// to launch speed.
func LaunchVelocity(origin, target rl.Vector3, cfg config.ThrowConfig) rl.Vector3 {
	dir := rl.Vector3Subtract(target, origin)
	dist := rl.Vector3Length(dir)
	dir.Y += cfg.ArcBias * dist
	dir = rl.Vector3Normalize(dir)
	return rl.Vector3Scale(dir, cfg.Speed)
}

// Launch adds a rock aimed from origin at target.
func (p *Projectiles) Launch(id uint32, origin, target rl.Vector3, thrower ecs.Entity, spinSeed float32) {
	p.Rocks = append(p.Rocks, Rock{
		ID:      id,
		Pos:     origin,
		Vel:     LaunchVelocity(origin, target, p.cfg),
		SpinVel: rl.Vector3{X: 4 + spinSeed, Y: 6, Z: 5 - spinSeed},
		Thrower: thrower,
		Damage:  p.cfg.Damage,
	})
}

// Update integrates every rock by dt and removes terminated ones.
// Termination order per rock: ground, player hit, lifetime. Removed
// rock IDs are appended to removedIDs for scene teardown; player hits
// are returned.
func (p *Projectiles) Update(dt float32, player Player, terrain HeightOracle, removedIDs *[]uint32) []Hit {
	var hits []Hit
	alive := p.Rocks[:0]
	for i := range p.Rocks {
		r := &p.Rocks[i]
		r.Age += dt
		r.Vel.Y += p.cfg.Gravity * dt
		r.Pos = rl.Vector3Add(r.Pos, rl.Vector3Scale(r.Vel, dt))
		r.Spin = rl.Vector3Add(r.Spin, rl.Vector3Scale(r.SpinVel, dt))

		if ground, ok := p.groundAt(terrain, r.Pos.X, r.Pos.Z); ok && r.Pos.Y < ground {
			remove(removedIDs, r.ID)
			continue
		}
		if player != nil {
			chest := player.Position()
			chest.Y += 1
			if rl.Vector3Distance(r.Pos, chest) < p.cfg.HitRadius {
				hits = append(hits, Hit{Thrower: r.Thrower, Damage: r.Damage})
				remove(removedIDs, r.ID)
				continue
			}
		}
		if r.Age > p.cfg.Lifetime {
			remove(removedIDs, r.ID)
			continue
		}
		alive = append(alive, *r)
	}
	p.Rocks = alive
	return hits
}

func (p *Projectiles) groundAt(terrain HeightOracle, x, z float32) (float32, bool) {
	if terrain == nil {
		return float32(math.Inf(-1)), false
	}
	return terrain.HeightAt(x, z)
}

func remove(removedIDs *[]uint32, id uint32) {
	if removedIDs != nil {
		*removedIDs = append(*removedIDs, id)
	}
}

// Clear drops all rocks, reporting their IDs for scene teardown.
func (p *Projectiles) Clear(removedIDs *[]uint32) {
	for i := range p.Rocks {
		remove(removedIDs, p.Rocks[i].ID)
	}
	p.Rocks = p.Rocks[:0]
}

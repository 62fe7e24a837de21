package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/greymarsh/warren/components"
)

// Spatial answers the roster-scan queries the behavior step needs.
// All distances are XZ-plane; Y is ignored for social range. Scans are
// O(N) over the ordered roster with early skips for self and the dead;
// populations stay in the tens, so no broad-phase is warranted.
type Spatial struct {
	transformMap *ecs.Map[components.Transform]
	healthMap    *ecs.Map[components.Health]
	behaviorMap  *ecs.Map[components.Behavior]
	danceMap     *ecs.Map[components.Dance]
}

// NewSpatial creates the spatial query helper over the given world.
func NewSpatial(w *ecs.World) *Spatial {
	return &Spatial{
		transformMap: ecs.NewMap[components.Transform](w),
		healthMap:    ecs.NewMap[components.Health](w),
		behaviorMap:  ecs.NewMap[components.Behavior](w),
		danceMap:     ecs.NewMap[components.Dance](w),
	}
}

// DistanceToPlayer returns the XZ distance from t to the player, or
// +Inf when no player is set. Player-dependent branches treat +Inf as
// "skip".
func (s *Spatial) DistanceToPlayer(t *components.Transform, player Player) float32 {
	if player == nil {
		return float32(math.Inf(1))
	}
	p := player.Position()
	return distanceXZ(t.X, t.Z, p.X, p.Z)
}

// ForEachWithin calls fn for every living agent other than self within
// radius of (x, z). Iteration follows roster order, so results are
// stable for a fixed roster.
func (s *Spatial) ForEachWithin(roster []ecs.Entity, self ecs.Entity, x, z, radius float32, fn func(e ecs.Entity, t *components.Transform)) {
	radiusSq := radius * radius
	for _, e := range roster {
		if e == self {
			continue
		}
		h := s.healthMap.Get(e)
		if h == nil || h.Dead {
			continue
		}
		t := s.transformMap.Get(e)
		if distanceSqXZ(x, z, t.X, t.Z) <= radiusSq {
			fn(e, t)
		}
	}
}

// CountAlliesWithin counts living agents within radius of self.
func (s *Spatial) CountAlliesWithin(roster []ecs.Entity, self ecs.Entity, x, z, radius float32) int {
	count := 0
	s.ForEachWithin(roster, self, x, z, radius, func(ecs.Entity, *components.Transform) {
		count++
	})
	return count
}

// FindDancePartner returns the first living agent within radius that is
// idling (or wandering) and has no partner. Roster order breaks ties,
// so the pick is stable.
func (s *Spatial) FindDancePartner(roster []ecs.Entity, self ecs.Entity, x, z, radius float32) (ecs.Entity, bool) {
	var partner ecs.Entity
	found := false
	s.ForEachWithin(roster, self, x, z, radius, func(e ecs.Entity, _ *components.Transform) {
		if found {
			return
		}
		bh := s.behaviorMap.Get(e)
		if bh.State != components.StateIdle && bh.State != components.StateWalking {
			return
		}
		if s.danceMap.Get(e).HasPartner {
			return
		}
		partner = e
		found = true
	})
	return partner, found
}

// FlankTarget advances the agent's orbit angle and returns the point on
// the flanking circle around the player the agent should steer toward.
func (s *Spatial) FlankTarget(tac *components.Tactics, player Player, flankRate, radius, dt float32) (float32, float32) {
	p := player.Position()
	tac.FlankAngle += flankRate * dt
	if tac.FlankAngle > 2*math.Pi {
		tac.FlankAngle -= 2 * math.Pi
	}
	return p.X + cosf(tac.FlankAngle)*radius, p.Z + sinf(tac.FlankAngle)*radius
}

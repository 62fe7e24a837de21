package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/telemetry"
)

// livePartner resolves the agent's dance partner if the weak link is
// still valid.
func (b *Behavior) livePartner(a *agentCtx) (ecs.Entity, bool) {
	if !a.dn.HasPartner {
		return ecs.Entity{}, false
	}
	p := a.dn.Partner
	if !b.world.Alive(p) || !b.healthMap.Has(p) || b.healthMap.Get(p).Dead {
		return ecs.Entity{}, false
	}
	return p, true
}

// startDance pairs two agents on the same clip, facing one another,
// with identical timers and duration so both expire on the same tick.
func (b *Behavior) startDance(a *agentCtx, partner ecs.Entity) {
	dances := b.binding.Catalog().Dances()
	if len(dances) == 0 {
		return
	}
	pc := b.get(partner)
	name := dances[b.rng.Intn(len(dances))]
	clip, _ := b.binding.Catalog().Get(name)
	maxDur := clip.Duration * b.uniform(b.cfg.Dance.PairLoops)

	a.t.Yaw = atan2f(pc.t.Z-a.t.Z, pc.t.X-a.t.X)
	pc.t.Yaw = a.t.Yaw + 3.1415926

	for _, c := range []*agentCtx{a, &pc} {
		b.setState(c, components.StateDancing)
		c.dn.Clip = name
		c.dn.Timer = 0
		c.dn.MaxDuration = maxDur
		b.binding.Play(c.bh.ID, name, anim.PlayOpts{Loop: true, Crossfade: b.cfg.Dance.Crossfade}, 0)
	}
	a.dn.Partner, a.dn.HasPartner = partner, true
	pc.dn.Partner, pc.dn.HasPartner = a.e, true

	b.rec.Record(telemetry.Event{Type: telemetry.EventDanceStart, Agent: a.bh.ID, Target: pc.bh.ID, Detail: name})
	slog.Debug("pair dance", "agent", a.bh.ID, "partner", pc.bh.ID, "clip", name, "duration", maxDur)
}

// startSoloDance is the pair dance without a partner link and with a
// shorter duration spread.
func (b *Behavior) startSoloDance(a *agentCtx) {
	dances := b.binding.Catalog().Dances()
	if len(dances) == 0 {
		return
	}
	name := dances[b.rng.Intn(len(dances))]
	clip, _ := b.binding.Catalog().Get(name)

	b.setState(a, components.StateDancing)
	a.dn.Clip = name
	a.dn.Timer = 0
	a.dn.MaxDuration = clip.Duration * b.uniform(b.cfg.Dance.SoloLoops)
	a.dn.HasPartner = false
	b.binding.Play(a.bh.ID, name, anim.PlayOpts{Loop: true, Crossfade: b.cfg.Dance.Crossfade}, 0)

	b.rec.Record(telemetry.Event{Type: telemetry.EventDanceStart, Agent: a.bh.ID, Detail: name})
}

// stopDance tears down the dance link on both sides. Callers decide
// what state each dancer lands in afterwards.
func (b *Behavior) stopDance(a *agentCtx, reason string) {
	if partner, ok := b.livePartner(a); ok {
		pd := b.danceMap.Get(partner)
		pd.HasPartner = false
		pd.Partner = ecs.Entity{}
		pd.Clip = ""
	}
	a.dn.HasPartner = false
	a.dn.Partner = ecs.Entity{}
	a.dn.Clip = ""

	b.rec.Record(telemetry.Event{Type: telemetry.EventDanceStop, Agent: a.bh.ID, Detail: reason})
	slog.Debug("dance stopped", "agent", a.bh.ID, "reason", reason)
}

package systems

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/telemetry"
)

func (b *Behavior) stepIdle(a *agentCtx, dt float32) {
	dist := b.spatial.DistanceToPlayer(a.t, b.player)
	r := b.cfg.Radii

	if dist < r.Melee {
		b.enterAttacking(a, false)
		return
	}
	if b.noticeCheck(a, dist, dt, false) {
		return
	}
	if b.tripCheck(a, dt, true) {
		return
	}

	a.bh.IdleTimer -= dt
	if a.bh.IdleTimer > 0 {
		return
	}

	// Noticed agents near the player re-engage instead of wandering off.
	if a.bh.Noticed && dist < r.PlayerAlert {
		b.enterCircling(a)
		return
	}
	if len(b.binding.Catalog().Dances()) > 0 && b.rng.Float32() < b.cfg.Dance.Chance {
		if partner, ok := b.spatial.FindDancePartner(b.roster, a.e, a.t.X, a.t.Z, r.DanceDetection); ok {
			b.startDance(a, partner)
		} else {
			b.startSoloDance(a)
		}
		return
	}
	b.enterWander(a)
}

func (b *Behavior) stepWalking(a *agentCtx, dt float32) {
	dist := b.spatial.DistanceToPlayer(a.t, b.player)

	if a.bh.Charging && b.player != nil {
		p := b.player.Position()
		a.mo.TargetX, a.mo.TargetZ = p.X, p.Z
	}
	if dist < b.cfg.Radii.Melee {
		b.enterAttacking(a, false)
		return
	}
	if !a.bh.Charging && b.noticeCheck(a, dist, dt, false) {
		return
	}

	remaining := b.moveToward(a, a.mo.TargetX, a.mo.TargetZ, dt, true)
	b.settle(a)
	if remaining < b.cfg.Timers.ArriveRadius {
		b.enterIdle(a)
	}
}

func (b *Behavior) stepDancing(a *agentCtx, dt float32) {
	a.dn.Timer += dt
	dist := b.spatial.DistanceToPlayer(a.t, b.player)
	r := b.cfg.Radii

	if dist < r.PlayerDanger {
		b.danceInterrupted(a, "player too close")
		return
	}
	if !a.bh.Noticed && dist < r.PlayerAlert && b.roll(b.cfg.Dance.NoticeRate, dt) {
		b.danceInterrupted(a, "noticed player")
		return
	}
	if a.dn.Timer >= a.dn.MaxDuration {
		partner, hasPartner := b.livePartner(a)
		b.stopDance(a, "finished")
		b.enterIdle(a)
		if hasPartner {
			pc := b.get(partner)
			b.enterIdle(&pc)
		}
		return
	}
}

// danceInterrupted handles a dancer spotting the player: the detector
// raises the alert, the dance tears down on both sides, and both
// dancers scramble.
func (b *Behavior) danceInterrupted(a *agentCtx, reason string) {
	a.bh.Noticed = true
	b.rec.Record(telemetry.Event{Type: telemetry.EventNotice, Agent: a.bh.ID, Detail: reason})

	// The partner saw it firsthand; mark it noticed before the alert
	// fan-out so it never shows up as alerted.
	partner, hasPartner := b.livePartner(a)
	if hasPartner {
		b.behaviorMap.Get(partner).Noticed = true
	}
	b.alertNearby(a)

	b.stopDance(a, reason)
	b.enterScrambling(a)
	if hasPartner {
		pc := b.get(partner)
		b.enterScrambling(&pc)
	}
}

func (b *Behavior) stepScrambling(a *agentCtx, dt float32) {
	a.bh.StateTimer += dt
	if a.bh.StateTimer < b.cfg.Timers.ScramblePoint*a.bh.StateDuration {
		return
	}
	m := b.cfg.Morale
	switch {
	case a.mor.Personality > m.ObliviousMin:
		// Too dim to care.
		b.enterIdle(a)
	case a.mor.Courage < m.FleeThreshold:
		b.enterFleeing(a)
	case a.mor.Courage < m.CircleCeil:
		b.enterCircling(a)
	default:
		b.enterCharge(a)
	}
}

func (b *Behavior) stepFleeing(a *agentCtx, dt float32) {
	a.bh.StateTimer += dt
	if a.bh.StateTimer >= a.bh.StateDuration {
		b.enterIdle(a)
		return
	}
	b.moveToward(a, a.mo.TargetX, a.mo.TargetZ, dt, true)
	b.settle(a)
}

func (b *Behavior) stepCircling(a *agentCtx, dt float32) {
	if b.player == nil {
		b.enterIdle(a)
		return
	}
	dist := b.spatial.DistanceToPlayer(a.t, b.player)
	r := b.cfg.Radii
	m := b.cfg.Morale
	cb := b.cfg.Combat
	th := b.cfg.Throw

	switch {
	case dist < r.Melee:
		b.enterAttacking(a, false)
		return
	case b.player.Attacking() && a.mor.Courage > m.ChargeCourage:
		b.enterCharge(a)
		return
	case a.mor.Courage > m.BoldThreshold && b.roll(cb.BoldRollRate, dt):
		b.enterCharge(a)
		return
	case a.mor.Courage < m.MeekThreshold && b.roll(cb.MeekRollRate, dt):
		b.enterFleeing(a)
		return
	case dist < r.Taunt && b.roll(cb.TauntRollRate, dt):
		b.enterTaunting(a)
		return
	case b.throwEligible(a, dist) && b.roll(th.RollRate, dt):
		b.enterThrowing(a)
		return
	case b.tripCheck(a, dt, false):
		return
	}

	// Orbit: steer toward the flank point, face the player, and pick the
	// locomotion clip that matches how the body actually moves.
	fx, fz := b.spatial.FlankTarget(a.tac, b.player, cb.FlankRate, r.Flanking, dt)
	prevX, prevZ := a.t.X, a.t.Z
	b.moveToward(a, fx, fz, dt, false)
	b.facePlayer(a)
	b.settle(a)

	mdx, mdz := a.t.X-prevX, a.t.Z-prevZ
	if mdx*mdx+mdz*mdz > 1e-8 {
		clip := classifyLocomotion(atan2f(mdz, mdx), a.t.Yaw)
		// Hysteresis: switch only when the classification changes.
		if clip != a.cb.StrafeClip {
			a.cb.StrafeClip = clip
			b.binding.Play(a.bh.ID, clip, anim.PlayOpts{Loop: true, Crossfade: 0.2}, 0)
		}
	}
}

func (b *Behavior) stepTaunting(a *agentCtx, dt float32) {
	a.bh.StateTimer += dt
	b.facePlayer(a)
	dist := b.spatial.DistanceToPlayer(a.t, b.player)
	if dist < b.cfg.Radii.PlayerDanger {
		b.enterFleeing(a)
		return
	}
	if a.bh.StateTimer >= a.bh.StateDuration {
		b.enterCircling(a)
	}
}

func (b *Behavior) stepThrowing(a *agentCtx, dt float32) {
	if b.player == nil {
		b.enterIdle(a)
		return
	}
	b.facePlayer(a)
	a.tac.ThrowTimer += dt

	if !a.tac.Thrown && a.tac.ThrowTimer >= b.cfg.Timers.ThrowRelease*a.tac.ThrowDuration {
		a.tac.Thrown = true
		a.tac.SinceThrow = 0
		origin := rl.Vector3{X: a.t.X, Y: a.t.Y + b.cfg.Throw.HandHeight, Z: a.t.Z}
		target := b.player.Position()
		if b.calls.LaunchRock != nil {
			b.calls.LaunchRock(origin, target, a.e)
		}
		b.rec.Record(telemetry.Event{Type: telemetry.EventThrow, Agent: a.bh.ID})
	}
	if a.tac.ThrowTimer >= b.cfg.Timers.ThrowRecover*a.tac.ThrowDuration {
		b.enterCircling(a)
	}
}

func (b *Behavior) stepTripping(a *agentCtx, dt float32) {
	a.bh.StateTimer += dt
	if a.bh.StateTimer >= b.cfg.Trip.RecoverPoint*a.bh.StateDuration {
		b.enterIdle(a)
	}
}

func (b *Behavior) stepAttacking(a *agentCtx, dt float32) {
	b.facePlayer(a)
	a.cb.AttackTimer += dt
	dist := b.spatial.DistanceToPlayer(a.t, b.player)
	cb := b.cfg.Combat

	if !a.cb.Struck && a.cb.AttackTimer >= cb.StrikePoint*a.cb.AttackDuration {
		a.cb.Struck = true
		if dist < b.cfg.Radii.Melee && b.calls.MeleeHit != nil {
			b.calls.MeleeHit(a.bh.ID)
		}
	}
	if a.cb.AttackTimer < cb.ComboPoint*a.cb.AttackDuration {
		return
	}
	if dist < b.cfg.Radii.Melee {
		a.cb.ComboCount++
		if a.cb.ComboCount >= a.cb.ComboMax {
			// Breather between combo strings.
			a.cb.ComboCount = 0
			b.enterIdle(a)
			return
		}
		b.enterAttacking(a, true)
		return
	}
	b.enterIdle(a)
}

func (b *Behavior) stepStaggered(a *agentCtx, dt float32) {
	a.bh.StateTimer += dt
	if a.bh.StateTimer >= b.cfg.Combat.RecoverPoint*a.bh.StateDuration {
		b.enterIdle(a)
	}
}

// noticeCheck rolls player detection for pre-notice states: immediate
// inside the danger radius, probabilistic inside the alert radius.
// When fromDance is set the detector also raises the alert.
func (b *Behavior) noticeCheck(a *agentCtx, dist, dt float32, fromDance bool) bool {
	if a.bh.Noticed {
		return false
	}
	r := b.cfg.Radii
	if dist < r.PlayerDanger || (dist < r.PlayerAlert && b.roll(b.cfg.Dance.NoticeRate, dt)) {
		a.bh.Noticed = true
		b.rec.Record(telemetry.Event{Type: telemetry.EventNotice, Agent: a.bh.ID, Detail: a.bh.State.String()})
		if fromDance {
			b.alertNearby(a)
		}
		b.enterScrambling(a)
		return true
	}
	return false
}

// throwEligible gates the throw branch: eligibility set at spawn, the
// throw clip present, cooldown elapsed, and the player inside the
// throw band.
func (b *Behavior) throwEligible(a *agentCtx, dist float32) bool {
	th := b.cfg.Throw
	return a.tac.CanThrow &&
		b.binding.Catalog().Has(anim.ClipThrow) &&
		a.tac.SinceThrow > a.tac.ThrowCooldown &&
		dist >= th.MinRange && dist <= th.Range
}

// tripCheck rolls a stumble. Idle agents trip rarely and recover the
// urge slowly; circling agents trip more.
func (b *Behavior) tripCheck(a *agentCtx, dt float32, idle bool) bool {
	if !b.binding.Catalog().Has(anim.ClipTripping) {
		return false
	}
	tr := b.cfg.Trip
	cooldown, chance := tr.CooldownBusy, a.tac.TripChance
	if idle {
		cooldown, chance = tr.CooldownIdle, a.tac.TripChance*tr.IdleFactor
	}
	if a.tac.SinceTrip <= cooldown || !b.roll(chance, dt) {
		return false
	}
	b.enterTripping(a)
	return true
}

// --- state entry ---

func (b *Behavior) setState(a *agentCtx, s components.State) {
	if a.bh.State != s {
		slog.Debug("state change", "agent", a.bh.ID, "from", a.bh.State.String(), "to", s.String())
	}
	a.bh.State = s
	a.bh.StateTimer = 0
}

func (b *Behavior) enterIdle(a *agentCtx) {
	b.setState(a, components.StateIdle)
	a.bh.Charging = false
	a.bh.IdleTimer = b.uniform(b.cfg.Timers.Idle)
	b.binding.Play(a.bh.ID, anim.ClipIdle, anim.PlayOpts{Loop: true, Crossfade: 0.3}, 0)
}

func (b *Behavior) enterWander(a *agentCtx) {
	ang := b.rng.Float32() * 2 * 3.1415926
	reach := (0.3 + 0.7*b.rng.Float32()) * b.cfg.Timers.WanderRadius
	a.mo.TargetX = a.t.X + cosf(ang)*reach
	a.mo.TargetZ = a.t.Z + sinf(ang)*reach
	a.bh.Charging = false
	b.setState(a, components.StateWalking)
	b.binding.Play(a.bh.ID, anim.ClipWalk, anim.PlayOpts{Loop: true, Crossfade: 0.3}, 0)
}

// enterCharge starts walking-toward-player and rallies nearby peers.
func (b *Behavior) enterCharge(a *agentCtx) {
	if b.player == nil {
		b.enterWander(a)
		return
	}
	p := b.player.Position()
	a.mo.TargetX, a.mo.TargetZ = p.X, p.Z
	a.bh.Charging = true
	b.setState(a, components.StateWalking)
	b.binding.Play(a.bh.ID, anim.ClipRun, anim.PlayOpts{Loop: true, Crossfade: 0.2}, 0)
	b.rallyNearby(a)
}

func (b *Behavior) enterScrambling(a *agentCtx) {
	b.setState(a, components.StateScrambling)
	a.bh.StateDuration = b.binding.Play(a.bh.ID, anim.ClipImpact,
		anim.PlayOpts{Crossfade: 0.2, ClampEnd: true}, b.cfg.Combat.ImpactFallback)
}

func (b *Behavior) enterFleeing(a *agentCtx) {
	b.setState(a, components.StateFleeing)
	a.bh.StateDuration = b.uniform(b.cfg.Timers.Flee)
	ang := b.rng.Float32() * 2 * 3.1415926
	if b.player != nil {
		p := b.player.Position()
		ang = atan2f(a.t.Z-p.Z, a.t.X-p.X)
	}
	a.mo.TargetX = a.t.X + cosf(ang)*30
	a.mo.TargetZ = a.t.Z + sinf(ang)*30
	b.binding.Play(a.bh.ID, anim.ClipRun, anim.PlayOpts{Loop: true, Crossfade: 0.2}, 0)
}

func (b *Behavior) enterCircling(a *agentCtx) {
	b.setState(a, components.StateCircling)
	a.cb.StrafeClip = anim.ClipRun
	b.binding.Play(a.bh.ID, anim.ClipRun, anim.PlayOpts{Loop: true, Crossfade: 0.2}, 0)
}

func (b *Behavior) enterTaunting(a *agentCtx) {
	dances := b.binding.Catalog().Dances()
	if len(dances) == 0 {
		return
	}
	b.setState(a, components.StateTaunting)
	a.bh.StateDuration = b.uniform(b.cfg.Timers.Taunt)
	clip := dances[b.rng.Intn(len(dances))]
	b.binding.Play(a.bh.ID, clip, anim.PlayOpts{Loop: true, Crossfade: 0.3}, 0)
}

func (b *Behavior) enterThrowing(a *agentCtx) {
	b.setState(a, components.StateThrowing)
	a.tac.ThrowTimer = 0
	a.tac.Thrown = false
	a.tac.ThrowDuration = b.binding.Play(a.bh.ID, anim.ClipThrow,
		anim.PlayOpts{Crossfade: 0.2, ClampEnd: true}, b.cfg.Combat.AttackFallback)
}

func (b *Behavior) enterTripping(a *agentCtx) {
	b.setState(a, components.StateTripping)
	a.tac.SinceTrip = 0
	a.bh.StateDuration = b.binding.Play(a.bh.ID, anim.ClipTripping,
		anim.PlayOpts{Crossfade: 0.2, ClampEnd: true}, 1.0)
	b.rec.Record(telemetry.Event{Type: telemetry.EventTrip, Agent: a.bh.ID})
}

// enterAttacking plays a uniformly random attack clip. combo marks a
// follow-up swing in the same string; fresh engagements reset the
// combo counter and reroll its cap.
func (b *Behavior) enterAttacking(a *agentCtx, combo bool) {
	b.setState(a, components.StateAttacking)
	if !combo {
		a.cb.ComboCount = 0
		span := b.cfg.Combat.ComboMax - b.cfg.Combat.ComboMin
		a.cb.ComboMax = b.cfg.Combat.ComboMin
		if span > 0 {
			a.cb.ComboMax += b.rng.Intn(span + 1)
		}
	}
	attacks := b.binding.Catalog().Attacks()
	clip := anim.ClipIdle
	if len(attacks) > 0 {
		clip = attacks[b.rng.Intn(len(attacks))]
	}
	a.cb.AttackClip = clip
	a.cb.AttackTimer = 0
	a.cb.Struck = false
	a.cb.AttackDuration = b.binding.Play(a.bh.ID, clip,
		anim.PlayOpts{Crossfade: b.cfg.Combat.AttackFade, ClampEnd: true}, b.cfg.Combat.AttackFallback)
	b.facePlayer(a)
}

// --- social signals ---

// alertNearby marks living, non-noticing peers inside the alert radius
// exactly once. Reaction delay scales inversely with personality.
func (b *Behavior) alertNearby(a *agentCtx) {
	t := b.cfg.Timers
	b.spatial.ForEachWithin(b.roster, a.e, a.t.X, a.t.Z, b.cfg.Radii.Alert, func(e ecs.Entity, _ *components.Transform) {
		bh := b.behaviorMap.Get(e)
		if bh.Noticed || bh.Alerted {
			return
		}
		mor := b.moraleMap.Get(e)
		bh.Alerted = true
		bh.AlertedBy = a.e
		bh.AlertDelay = t.AlertDelayMax - mor.Personality*(t.AlertDelayMax-t.AlertDelayMin)
		b.rec.Record(telemetry.Event{Type: telemetry.EventAlert, Agent: a.bh.ID, Target: bh.ID})
	})
}

// rallyNearby flags peers around a charging agent. The probability
// rises with the charger's courage.
func (b *Behavior) rallyNearby(a *agentCtx) {
	m := b.cfg.Morale
	p := m.RallyChance + m.RallyCourage*a.mor.Courage
	b.spatial.ForEachWithin(b.roster, a.e, a.t.X, a.t.Z, b.cfg.Radii.Rally, func(e ecs.Entity, _ *components.Transform) {
		if b.rng.Float32() >= p {
			return
		}
		mor := b.moraleMap.Get(e)
		mor.Rallied = true
		mor.RallyTimer = b.uniform(m.RallyDuration)
		b.rec.Record(telemetry.Event{Type: telemetry.EventRally, Agent: a.bh.ID, Target: b.behaviorMap.Get(e).ID})
	})
}

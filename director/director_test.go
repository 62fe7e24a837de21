package director

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
	"github.com/greymarsh/warren/systems"
	"github.com/greymarsh/warren/telemetry"
)

const testDelta = float32(1.0 / 60.0)

// newTestDirector builds a director over the embedded clip manifest and
// flat ground, with deterministic idle timing and stumbles disabled.
func newTestDirector(t *testing.T, mut func(*config.Config)) *Director {
	t.Helper()
	cfg := config.Default()
	cfg.Timers.Idle = config.MinMax{Min: 0.2, Max: 0.2}
	cfg.Trip.Chance = config.MinMax{}
	if mut != nil {
		mut(cfg)
	}
	catalog, err := anim.Load("")
	if err != nil {
		t.Fatalf("load clip manifest: %v", err)
	}
	return New(Options{
		Config:   cfg,
		Catalog:  catalog,
		Terrain:  systems.FlatTerrain{},
		Seed:     7,
		Recorder: telemetry.NewRecorder(),
	})
}

func step(d *Director, seconds float32) {
	n := int(seconds/testDelta + 0.5)
	for i := 0; i < n; i++ {
		d.Tick(testDelta, rl.Camera3D{})
	}
}

// stepUntil ticks until pred holds, failing after limit seconds.
func stepUntil(t *testing.T, d *Director, limit float32, what string, pred func() bool) {
	t.Helper()
	n := int(limit / testDelta)
	for i := 0; i < n; i++ {
		if pred() {
			return
		}
		d.Tick(testDelta, rl.Camera3D{})
	}
	t.Fatalf("never reached: %s", what)
}

func (d *Director) state(i int) components.State {
	return d.behaviorMap.Get(d.roster[i]).State
}

func eventsOf(r *telemetry.Recorder, et telemetry.EventType) []telemetry.Event {
	var out []telemetry.Event
	for _, ev := range r.Events() {
		if ev.Type == et {
			out = append(out, ev)
		}
	}
	return out
}

func TestSpawnRequiresCatalog(t *testing.T) {
	d := New(Options{Seed: 1})
	if err := d.Spawn(1, 0, 0, 1); err != ErrNotReady {
		t.Errorf("Spawn without catalog = %v, want ErrNotReady", err)
	}
}

func TestSpawnPlacesAgentsInDisc(t *testing.T) {
	d := newTestDirector(t, nil)
	if err := d.Spawn(10, 3, -2, 5); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if d.Count() != 10 {
		t.Fatalf("count = %d, want 10", d.Count())
	}
	for _, a := range d.Agents() {
		dx, dz := a.X-3, a.Z-(-2)
		if dist := math.Sqrt(float64(dx*dx + dz*dz)); dist > 5.001 {
			t.Errorf("agent %d spawned %v from center, want within 5", a.ID, dist)
		}
		if a.State != components.StateIdle {
			t.Errorf("agent %d spawned in %v, want idle", a.ID, a.State)
		}
		if a.Health != a.Max || a.Max != 20 {
			t.Errorf("agent %d health %v/%v, want 20/20", a.ID, a.Health, a.Max)
		}
	}
	if got := d.rec.CountType(telemetry.EventSpawn); got != 10 {
		t.Errorf("spawn events = %d, want 10", got)
	}
}

// A lone goblin with no player around drifts between idling, wandering,
// and the occasional solo dance, and a finished dance lands back in idle.
func TestSoloDanceRunsToCompletion(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Dance.Chance = 1
		cfg.Dance.SoloLoops = config.MinMax{Min: 1, Max: 1}
	})
	if err := d.Spawn(1, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	e := d.roster[0]

	stepUntil(t, d, 1, "solo dance start", func() bool {
		return d.state(0) == components.StateDancing
	})
	dn := d.danceMap.Get(e)
	if dn.HasPartner {
		t.Error("lone agent has a dance partner")
	}
	if dn.MaxDuration <= 0 {
		t.Fatal("dance has no duration")
	}

	danceClip := dn.Clip
	step(d, dn.MaxDuration+2*testDelta)
	if got := d.state(0); got != components.StateIdle {
		t.Errorf("state after dance = %v, want idle", got)
	}
	if got := d.Agents()[0].Clip; got == danceClip {
		t.Errorf("dance clip %q still playing after the dance ended", got)
	}

	stops := eventsOf(d.rec, telemetry.EventDanceStop)
	if len(stops) != 1 || stops[0].Detail != "finished" {
		t.Errorf("dance stop events = %v, want one with reason finished", stops)
	}
}

// Two idle goblins near each other pair up on the same clip, and a
// player walking into danger range breaks the dance on both sides at
// once.
func TestPairDanceInterruptedByPlayer(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Dance.Chance = 1
		cfg.Dance.PairLoops = config.MinMax{Min: 2, Max: 2}
	})
	player := &systems.PlayerHandle{Pos: rl.Vector3{X: 100}}
	d.SetPlayer(player)
	if err := d.Spawn(2, 0, 0, 0.3); err != nil {
		t.Fatal(err)
	}

	stepUntil(t, d, 1, "pair dance start", func() bool {
		return d.state(0) == components.StateDancing && d.state(1) == components.StateDancing
	})
	d0 := d.danceMap.Get(d.roster[0])
	d1 := d.danceMap.Get(d.roster[1])
	if !d0.HasPartner || !d1.HasPartner {
		t.Fatal("dancers not linked")
	}
	if d0.Partner != d.roster[1] || d1.Partner != d.roster[0] {
		t.Fatal("partner links not symmetric")
	}
	if d0.Clip != d1.Clip || d0.MaxDuration != d1.MaxDuration {
		t.Error("dancers disagree on clip or duration")
	}

	player.Pos = rl.Vector3{X: 2}
	step(d, 2*testDelta)

	for i := 0; i < 2; i++ {
		if got := d.state(i); got != components.StateScrambling {
			t.Errorf("dancer %d state = %v, want scrambling", i, got)
		}
		bh := d.behaviorMap.Get(d.roster[i])
		if !bh.Noticed {
			t.Errorf("dancer %d did not notice the player", i)
		}
		if d.danceMap.Get(d.roster[i]).HasPartner {
			t.Errorf("dancer %d kept its partner link", i)
		}
		if clip := d.Agents()[i].Clip; clip != anim.ClipImpact {
			t.Errorf("dancer %d playing %q, want impact", i, clip)
		}
	}
	stops := eventsOf(d.rec, telemetry.EventDanceStop)
	if len(stops) == 0 || stops[0].Detail != "player too close" {
		t.Errorf("dance stop events = %v, want reason player too close", stops)
	}
}

// A dancer that spots the player alerts peers in range exactly once,
// and the alerted goblin reacts after its personality-scaled delay.
func TestDanceNoticeAlertsNearbyOnce(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Dance.Chance = 1
		cfg.Dance.PairLoops = config.MinMax{Min: 2, Max: 2}
		cfg.Dance.SoloLoops = config.MinMax{Min: 2, Max: 2}
		cfg.Dance.NoticeRate = 0 // danger radius only
	})
	player := &systems.PlayerHandle{Pos: rl.Vector3{X: 100}}
	d.SetPlayer(player)
	if err := d.Spawn(3, 0, 0, 0.3); err != nil {
		t.Fatal(err)
	}
	// Third goblin sits outside danger range but inside alert range of
	// the dancers.
	bystander := d.roster[2]
	d.transformMap.Get(bystander).X = 7

	stepUntil(t, d, 1, "all three dancing", func() bool {
		return d.state(0) == components.StateDancing &&
			d.state(1) == components.StateDancing &&
			d.state(2) == components.StateDancing
	})

	player.Pos = rl.Vector3{X: -7.5}
	step(d, 2*testDelta)

	bbh := d.behaviorMap.Get(bystander)
	if !bbh.Alerted {
		t.Fatal("bystander not alerted")
	}
	if bbh.AlertedBy != d.roster[0] {
		t.Error("alert not attributed to the dancer that noticed")
	}
	if bbh.Noticed {
		t.Fatal("bystander noticed before its reaction delay elapsed")
	}
	if bbh.AlertDelay < 0.2 || bbh.AlertDelay > 1.0 {
		t.Errorf("alert delay = %v, want within [0.3, 1.0]", bbh.AlertDelay)
	}

	stepUntil(t, d, 1.5, "bystander reaction", func() bool {
		return d.state(2) == components.StateScrambling
	})
	if !d.behaviorMap.Get(bystander).Noticed {
		t.Error("alerted goblin reacted without noticing")
	}

	if got := len(eventsOf(d.rec, telemetry.EventAlert)); got != 1 {
		t.Errorf("alert events = %d, want exactly 1", got)
	}
}

// A charging goblin rallies peers in range: their courage gains the
// rally bonus until the rally timer runs out.
func TestChargeRalliesNearby(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Spawn.BaseCourage = config.MinMax{Min: 0.5, Max: 0.5}
		cfg.Morale.AllyBonus = 0 // isolate the rally term
		cfg.Morale.FleeThreshold = 0
		cfg.Morale.CircleCeil = 0 // every scramble dispatch charges
		cfg.Morale.ObliviousMin = 2
		cfg.Morale.RallyChance = 1
		cfg.Morale.RallyDuration = config.MinMax{Min: 1, Max: 1}
	})
	player := &systems.PlayerHandle{Pos: rl.Vector3{Z: 5}}
	d.SetPlayer(player)
	if err := d.Spawn(3, 0, 0, 0.3); err != nil {
		t.Fatal(err)
	}

	stepUntil(t, d, 2, "all rallied", func() bool {
		for _, e := range d.roster {
			if !d.moraleMap.Get(e).Rallied {
				return false
			}
		}
		return true
	})
	step(d, testDelta) // let morale recompute with the rally flag

	for i, e := range d.roster {
		c := d.moraleMap.Get(e).Courage
		if math.Abs(float64(c-0.8)) > 1e-3 {
			t.Errorf("agent %d rallied courage = %v, want 0.5 + 0.3", i, c)
		}
	}
	if got := d.rec.CountType(telemetry.EventRally); got < 2 {
		t.Errorf("rally events = %d, want at least 2", got)
	}

	step(d, 1.1)
	for i, e := range d.roster {
		mor := d.moraleMap.Get(e)
		if mor.Rallied {
			t.Errorf("agent %d still rallied after duration", i)
		}
		if math.Abs(float64(mor.Courage-0.5)) > 1e-3 {
			t.Errorf("agent %d post-rally courage = %v, want base 0.5", i, mor.Courage)
		}
	}
}

// A tripped goblin cannot trip again until its cooldown elapses, even
// with the stumble roll forced on.
func TestTripCooldown(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Dance.Chance = 0
		cfg.Trip.Chance = config.MinMax{Min: 1000, Max: 1000}
		cfg.Trip.CooldownIdle = 3
	})
	if err := d.Spawn(1, 0, 0, 0); err != nil {
		t.Fatal(err)
	}

	step(d, 12)

	trips := eventsOf(d.rec, telemetry.EventTrip)
	if len(trips) < 2 {
		t.Fatalf("trip events = %d, want at least 2 in 12s", len(trips))
	}
	dt := testDelta
	minGap := int64(3/dt) - 2
	for i := 1; i < len(trips); i++ {
		if gap := trips[i].Tick - trips[i-1].Tick; gap < minGap {
			t.Errorf("trips %d ticks apart, want at least %d (cooldown)", gap, minGap)
		}
	}
}

// The rock leaves the hand partway through the throw clip, not at the
// start, and the thrower returns to circling before the clip fully ends.
func TestThrowReleaseTiming(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Spawn.ThrowerChance = 1
		cfg.Morale.FleeThreshold = 0
		cfg.Morale.CircleCeil = 2 // every scramble dispatch circles
		cfg.Morale.ObliviousMin = 2
		cfg.Combat.BoldRollRate = 0
		cfg.Combat.MeekRollRate = 0
		cfg.Combat.TauntRollRate = 0
		cfg.Throw.RollRate = 1000 // throw on the first eligible tick
	})
	player := &systems.PlayerHandle{Pos: rl.Vector3{X: 6}}
	d.SetPlayer(player)
	if err := d.Spawn(1, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	e := d.roster[0]

	stepUntil(t, d, 2, "throw wind-up", func() bool {
		return d.state(0) == components.StateThrowing
	})
	dur := d.tacticsMap.Get(e).ThrowDuration
	if math.Abs(float64(dur-1.5)) > 1e-3 {
		t.Fatalf("throw duration = %v, want 1.5 from the manifest", dur)
	}

	// Before the release point: still winding up, no rock in flight.
	step(d, 0.8)
	if len(d.rocks.Rocks) != 0 {
		t.Fatal("rock released before the release point")
	}
	if d.state(0) != components.StateThrowing {
		t.Fatalf("state = %v, want throwing at wind-up", d.state(0))
	}

	// Past the release point: exactly one rock, cooldown restarted.
	step(d, 0.2)
	if len(d.rocks.Rocks) != 1 {
		t.Fatalf("rocks in flight = %d, want 1 after release", len(d.rocks.Rocks))
	}
	tac := d.tacticsMap.Get(e)
	if !tac.Thrown {
		t.Error("throw not marked released")
	}
	if tac.SinceThrow > 0.5 {
		t.Errorf("throw cooldown accumulator = %v, want near zero", tac.SinceThrow)
	}
	if got := d.rec.CountType(telemetry.EventThrow); got != 1 {
		t.Errorf("throw events = %d, want 1", got)
	}

	// Past the recover point: back to circling before the clip ends.
	step(d, 0.5)
	if got := d.state(0); got != components.StateCircling {
		t.Errorf("state after recover point = %v, want circling", got)
	}
}

// Lethal damage starts the dying lifecycle: the goblin stays on the
// roster while the dying clip plays, then leaves.
func TestLethalDamageLifecycle(t *testing.T) {
	d := newTestDirector(t, nil)
	if err := d.Spawn(1, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	id := d.Agents()[0].ID

	d.Damage(id, 100)

	a := d.Agents()[0]
	if !a.Dead || a.Health != 0 {
		t.Fatalf("agent health %v dead=%v, want 0 and dead", a.Health, a.Dead)
	}
	if a.State != components.StateDying {
		t.Fatalf("state = %v, want dying", a.State)
	}
	if d.Count() != 1 {
		t.Fatal("agent removed before its dying clip finished")
	}

	// Further damage on a dying agent is ignored.
	d.Damage(id, 100)
	if got := d.rec.CountType(telemetry.EventDeath); got != 1 {
		t.Errorf("death events = %d, want 1", got)
	}

	// The mixer keeps playing the dying clip while behavior is off.
	step(d, 1)
	if got := d.Agents()[0].Clip; got != anim.ClipDying {
		t.Errorf("dead agent playing %q, want dying", got)
	}
	if d.Agents()[0].Progress <= 0 {
		t.Error("dying clip clock not advancing")
	}

	dying := d.healthMap.Get(d.roster[0]).DyingTimer
	step(d, dying+2*testDelta)
	if d.Count() != 0 {
		t.Errorf("count = %d, want 0 after dying clip", d.Count())
	}
	if got := d.rec.CountType(telemetry.EventRemove); got != 1 {
		t.Errorf("remove events = %d, want 1", got)
	}
	if _, ok := d.byID[id]; ok {
		t.Error("removed agent still resolvable by ID")
	}
}

// Non-lethal damage staggers the goblin and floats a damage number.
func TestNonLethalDamageStaggers(t *testing.T) {
	d := newTestDirector(t, nil)
	if err := d.Spawn(1, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	id := d.Agents()[0].ID

	d.Damage(id, 6)

	a := d.Agents()[0]
	if a.Dead {
		t.Fatal("agent died from non-lethal damage")
	}
	if a.Health != 14 {
		t.Errorf("health = %v, want 14", a.Health)
	}
	if a.State != components.StateStaggered {
		t.Errorf("state = %v, want staggered", a.State)
	}
	if len(d.Indicators()) != 1 {
		t.Fatalf("indicators = %d, want 1", len(d.Indicators()))
	}
	if d.Indicators()[0].Amount != 6 {
		t.Errorf("indicator amount = %v, want 6", d.Indicators()[0].Amount)
	}

	// The indicator rises, fades, and expires.
	y0 := d.Indicators()[0].Y
	step(d, 0.5)
	if len(d.Indicators()) != 1 || d.Indicators()[0].Y <= y0 {
		t.Error("indicator did not rise")
	}
	step(d, 1.0)
	if len(d.Indicators()) != 0 {
		t.Error("indicator never expired")
	}

	// The stagger recovers back to idle.
	stepUntil(t, d, 2, "stagger recovery", func() bool {
		return d.state(0) == components.StateIdle
	})
}

// Scramble dispatch fans out by courage: cowards flee, the middling
// circle, and the brave charge.
func TestScrambleDispatchByCourage(t *testing.T) {
	d := newTestDirector(t, func(cfg *config.Config) {
		cfg.Dance.Chance = 0
		cfg.Morale.AllyBonus = 0 // courage equals base for this test
		cfg.Morale.ObliviousMin = 2
		cfg.Morale.RallyChance = 0
		cfg.Morale.RallyCourage = 0
	})
	player := &systems.PlayerHandle{Pos: rl.Vector3{Z: 5}}
	d.SetPlayer(player)
	if err := d.Spawn(3, 0, 0, 0.3); err != nil {
		t.Fatal(err)
	}
	bases := []float32{0.1, 0.5, 0.9}
	for i, e := range d.roster {
		d.moraleMap.Get(e).Base = bases[i]
	}

	stepUntil(t, d, 2, "scramble dispatch", func() bool {
		for i := range d.roster {
			s := d.state(i)
			if s == components.StateIdle || s == components.StateScrambling {
				return false
			}
		}
		return true
	})

	if got := d.state(0); got != components.StateFleeing {
		t.Errorf("coward state = %v, want fleeing", got)
	}
	if got := d.state(1); got != components.StateCircling {
		t.Errorf("middling state = %v, want circling", got)
	}
	if got := d.state(2); got != components.StateWalking {
		t.Errorf("brave state = %v, want walking (charge)", got)
	}
	if !d.behaviorMap.Get(d.roster[2]).Charging {
		t.Error("brave goblin not flagged as charging")
	}
}

// Two runs with the same seed and tick schedule produce identical
// event streams and final positions.
func TestDeterministicUnderFixedSeed(t *testing.T) {
	run := func() ([]telemetry.Event, []AgentView) {
		d := newTestDirector(t, func(cfg *config.Config) {
			cfg.Dance.Chance = 0.5
		})
		d.SetPlayer(&systems.PlayerHandle{Pos: rl.Vector3{X: 6}})
		if err := d.Spawn(6, 0, 0, 3); err != nil {
			t.Fatal(err)
		}
		step(d, 5)
		return d.rec.Events(), d.Agents()
	}

	evA, agA := run()
	evB, agB := run()

	if len(evA) != len(evB) {
		t.Fatalf("event counts differ: %d vs %d", len(evA), len(evB))
	}
	for i := range evA {
		if evA[i] != evB[i] {
			t.Fatalf("event %d differs: %+v vs %+v", i, evA[i], evB[i])
		}
	}
	for i := range agA {
		if agA[i] != agB[i] {
			t.Fatalf("agent %d differs: %+v vs %+v", i, agA[i], agB[i])
		}
	}
}

// RemoveAll clears the roster and projectiles in one call.
func TestRemoveAll(t *testing.T) {
	d := newTestDirector(t, nil)
	if err := d.Spawn(4, 0, 0, 1); err != nil {
		t.Fatal(err)
	}
	d.launchRock(rl.Vector3{Y: 2}, rl.Vector3{X: 5}, d.roster[0])

	d.RemoveAll()

	if d.Count() != 0 {
		t.Errorf("count = %d, want 0", d.Count())
	}
	if len(d.rocks.Rocks) != 0 {
		t.Error("rocks survived RemoveAll")
	}
	if len(d.byID) != 0 {
		t.Error("ID index not cleared")
	}
}

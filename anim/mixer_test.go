package anim

import (
	"math"
	"testing"
)

func testClip(name string, duration float32) *Clip {
	return &Clip{Name: name, Duration: duration, Source: "native"}
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPlayHardCut(t *testing.T) {
	m := NewMixer()
	m.Play(testClip("idle", 2), PlayOpts{Loop: true})

	if m.Weight() != 1 {
		t.Errorf("weight = %v, want 1 with no crossfade", m.Weight())
	}
	if m.CurrentName() != "idle" {
		t.Errorf("current = %q, want idle", m.CurrentName())
	}
	if m.ActiveActions() != 1 {
		t.Errorf("active actions = %d, want 1", m.ActiveActions())
	}
}

func TestCrossfadeRampsAndPrunes(t *testing.T) {
	m := NewMixer()
	m.Play(testClip("idle", 2), PlayOpts{Loop: true})
	m.Play(testClip("run", 1), PlayOpts{Loop: true, Crossfade: 0.2})

	if m.Weight() != 0 {
		t.Fatalf("new action weight = %v, want 0 at crossfade start", m.Weight())
	}
	if m.ActiveActions() != 2 {
		t.Fatalf("active actions = %d, want 2 during crossfade", m.ActiveActions())
	}

	m.Update(0.1) // halfway
	if !approx(m.Weight(), 0.5) {
		t.Errorf("weight = %v, want 0.5 halfway through crossfade", m.Weight())
	}

	m.Update(0.2) // past the end
	if m.Weight() != 1 {
		t.Errorf("weight = %v, want 1 after crossfade", m.Weight())
	}
	if m.ActiveActions() != 1 {
		t.Errorf("active actions = %d, want 1 after old action faded out", m.ActiveActions())
	}
	if m.CurrentName() != "run" {
		t.Errorf("current = %q, want run", m.CurrentName())
	}
}

func TestLoopWraps(t *testing.T) {
	m := NewMixer()
	m.Play(testClip("walk", 1), PlayOpts{Loop: true})

	m.Update(1.5)
	if !approx(m.Progress(), 0.5) {
		t.Errorf("progress = %v, want 0.5 after wrapping", m.Progress())
	}
}

func TestClampEndHoldsFinalFrame(t *testing.T) {
	m := NewMixer()
	m.Play(testClip("dying", 2), PlayOpts{ClampEnd: true})

	m.Update(5)
	if m.Progress() != 1 {
		t.Errorf("progress = %v, want 1 when clamped", m.Progress())
	}

	// Further updates must not move the clock.
	m.Update(1)
	if m.Progress() != 1 {
		t.Errorf("progress = %v, want 1 to hold after clamp", m.Progress())
	}
}

func TestProgressPartway(t *testing.T) {
	m := NewMixer()
	m.Play(testClip("throw", 1.5), PlayOpts{ClampEnd: true})

	m.Update(0.9)
	if !approx(m.Progress(), 0.6) {
		t.Errorf("progress = %v, want 0.6", m.Progress())
	}
}

func TestPlayNilClipIgnored(t *testing.T) {
	m := NewMixer()
	m.Play(testClip("idle", 2), PlayOpts{Loop: true})
	m.Play(nil, PlayOpts{})

	if m.CurrentName() != "idle" {
		t.Errorf("current = %q, want idle after nil play", m.CurrentName())
	}
}

package systems

import (
	"math"
	"testing"

	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
)

func TestCourage(t *testing.T) {
	m := config.Default().Morale

	tests := []struct {
		name    string
		base    float32
		allies  int
		health  float32
		max     float32
		rallied bool
		want    float32
	}{
		{"baseline", 0.5, 0, 20, 20, false, 0.5},
		{"one ally", 0.5, 1, 20, 20, false, 0.65},
		{"ally bonus capped", 0.3, 10, 20, 20, false, 0.9},
		{"half wounded", 0.5, 0, 10, 20, false, 0.35},
		{"near death", 0.5, 0, 1, 20, false, 0.5 - 0.3*(19.0/20.0)},
		{"rallied", 0.5, 0, 20, 20, true, 0.8},
		{"clamped high", 0.7, 10, 20, 20, true, 1.0},
		{"clamped low", 0.0, 0, 0, 20, false, 0.0},
		{"zero max health safe", 0.5, 0, 0, 0, false, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Courage(tt.base, tt.allies, tt.health, tt.max, tt.rallied, m)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("Courage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCourageMonotoneInAllies(t *testing.T) {
	m := config.Default().Morale
	prev := float32(-1)
	for allies := 0; allies <= 8; allies++ {
		c := Courage(0.2, allies, 20, 20, false, m)
		if c < prev {
			t.Fatalf("courage dropped from %v to %v at %d allies", prev, c, allies)
		}
		prev = c
	}
}

func TestCourageMonotoneInHealth(t *testing.T) {
	m := config.Default().Morale
	prev := float32(2)
	for health := float32(20); health >= 0; health -= 2 {
		c := Courage(0.5, 0, health, 20, false, m)
		if c > prev {
			t.Fatalf("courage rose from %v to %v at health %v", prev, c, health)
		}
		prev = c
	}
}

func TestUpdateMoraleRallyDecay(t *testing.T) {
	m := config.Default().Morale
	mor := &components.Morale{Base: 0.4, Rallied: true, RallyTimer: 0.5}
	h := &components.Health{Current: 20, Max: 20}

	UpdateMorale(mor, h, 0, 1.0/60.0, m)
	if !mor.Rallied {
		t.Fatal("rally expired early")
	}
	if math.Abs(float64(mor.Courage-0.7)) > 1e-5 {
		t.Errorf("rallied courage = %v, want 0.7", mor.Courage)
	}

	// Burn through the rest of the rally window.
	for i := 0; i < 40; i++ {
		UpdateMorale(mor, h, 0, 1.0/60.0, m)
	}
	if mor.Rallied {
		t.Fatal("rally never expired")
	}
	if mor.RallyTimer != 0 {
		t.Errorf("rally timer = %v, want 0 after expiry", mor.RallyTimer)
	}
	if math.Abs(float64(mor.Courage-0.4)) > 1e-5 {
		t.Errorf("post-rally courage = %v, want base 0.4", mor.Courage)
	}
}

func TestUpdateMoraleRecomputesEveryTick(t *testing.T) {
	m := config.Default().Morale
	mor := &components.Morale{Base: 0.5}
	h := &components.Health{Current: 20, Max: 20}

	UpdateMorale(mor, h, 2, 1.0/60.0, m)
	withAllies := mor.Courage

	UpdateMorale(mor, h, 0, 1.0/60.0, m)
	alone := mor.Courage

	if withAllies <= alone {
		t.Errorf("courage with allies %v should exceed alone %v", withAllies, alone)
	}
	if math.Abs(float64(alone-0.5)) > 1e-5 {
		t.Errorf("courage alone = %v, want base 0.5", alone)
	}
}

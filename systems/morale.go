package systems

import (
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
)

// Courage derives the morale scalar from temperament, backup, wounds,
// and rally. Monotone in allies (up, capped) and health (down), plus
// a flat rally bonus; the result is clamped to [0, 1].
func Courage(base float32, allies int, health, maxHealth float32, rallied bool, m config.MoraleConfig) float32 {
	allyBonus := m.AllyBonus * float32(allies)
	if allyBonus > m.AllyBonusCap {
		allyBonus = m.AllyBonusCap
	}
	woundPenalty := float32(0)
	if maxHealth > 0 {
		woundPenalty = m.HealthPenalty * (1 - health/maxHealth)
	}
	c := base + allyBonus - woundPenalty
	if rallied {
		c += m.RallyBonus
	}
	return clampFloat(c, 0, 1)
}

// UpdateMorale recomputes courage for one agent and decays its rally
// timer. Runs every tick before the behavior step; the cached Courage
// is the sole dispatch key for morale-sensitive branches.
func UpdateMorale(mor *components.Morale, h *components.Health, allies int, dt float32, m config.MoraleConfig) {
	if mor.Rallied {
		mor.RallyTimer -= dt
		if mor.RallyTimer <= 0 {
			mor.Rallied = false
			mor.RallyTimer = 0
		}
	}
	mor.Courage = Courage(mor.Base, allies, h.Current, h.Max, mor.Rallied, m)
}

// Package config provides configuration loading and access for the agent director.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all director tuning parameters.
type Config struct {
	Radii  RadiiConfig  `yaml:"radii"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Morale MoraleConfig `yaml:"morale"`
	Throw  ThrowConfig  `yaml:"throw"`
	Trip   TripConfig   `yaml:"trip"`
	Dance  DanceConfig  `yaml:"dance"`
	Combat CombatConfig `yaml:"combat"`
	Timers TimersConfig `yaml:"timers"`
}

// RadiiConfig holds the detection and interaction radii.
type RadiiConfig struct {
	DanceDetection  float32 `yaml:"dance_detection"`  // partner search radius
	PlayerAlert     float32 `yaml:"player_alert"`     // probabilistic notice range
	PlayerDanger    float32 `yaml:"player_danger"`    // immediate notice range
	Taunt           float32 `yaml:"taunt"`            // max distance for taunting
	Flanking        float32 `yaml:"flanking"`         // circling orbit radius
	AllyDetection   float32 `yaml:"ally_detection"`   // morale ally count radius
	Rally           float32 `yaml:"rally"`            // rally fan-out radius
	Alert           float32 `yaml:"alert"`            // alert fan-out radius
	Melee           float32 `yaml:"melee"`            // attack trigger range
	AgentCollision  float32 `yaml:"agent_collision"`  // per-agent collision radius
	PlayerCollision float32 `yaml:"player_collision"` // player collision radius
}

// SpawnConfig holds agent initialization ranges.
type SpawnConfig struct {
	SpeedMin      float32 `yaml:"speed_min"`
	SpeedMax      float32 `yaml:"speed_max"`
	BaseCourage   MinMax  `yaml:"base_courage"`
	MaxHealth     float32 `yaml:"max_health"`
	ThrowerChance float32 `yaml:"thrower_chance"` // Bernoulli probability of throw eligibility
}

// MoraleConfig holds the courage formula coefficients.
type MoraleConfig struct {
	AllyBonus     float32 `yaml:"ally_bonus"`     // courage per nearby ally
	AllyBonusCap  float32 `yaml:"ally_bonus_cap"` // max total ally bonus
	HealthPenalty float32 `yaml:"health_penalty"` // max courage lost at zero health
	RallyBonus    float32 `yaml:"rally_bonus"`    // flat bonus while rallied
	RallyDuration MinMax  `yaml:"rally_duration"` // seconds
	RallyChance   float32 `yaml:"rally_chance"`   // base fan-out probability
	RallyCourage  float32 `yaml:"rally_courage"`  // courage-scaled fan-out term
	FleeThreshold float32 `yaml:"flee_threshold"` // scramble: below this, flee
	CircleCeil    float32 `yaml:"circle_ceiling"` // scramble: below this, circle
	ObliviousMin  float32 `yaml:"oblivious_min"`  // personality above this shrugs
	ChargeCourage float32 `yaml:"charge_courage"` // min courage to exploit distraction
	BoldThreshold float32 `yaml:"bold_threshold"` // circling: courage above this may charge
	MeekThreshold float32 `yaml:"meek_threshold"` // circling: courage below this may flee
}

// ThrowConfig holds rock throw parameters.
type ThrowConfig struct {
	Range      float32 `yaml:"range"`       // max throw distance
	MinRange   float32 `yaml:"min_range"`   // min throw distance
	Speed      float32 `yaml:"speed"`       // launch speed
	Gravity    float32 `yaml:"gravity"`     // vertical acceleration
	Lifetime   float32 `yaml:"lifetime"`    // seconds before despawn
	HitRadius  float32 `yaml:"hit_radius"`  // distance to player chest for a hit
	HandHeight float32 `yaml:"hand_height"` // launch origin above agent feet
	ArcBias    float32 `yaml:"arc_bias"`    // upward bias per unit of distance
	Damage     float32 `yaml:"damage"`      // reported on player hit
	Cooldown   MinMax  `yaml:"cooldown"`    // per-agent, randomized at spawn
	RollRate   float32 `yaml:"roll_rate"`   // throw decision rate per second
}

// TripConfig holds stumble parameters.
type TripConfig struct {
	Chance       MinMax  `yaml:"chance"`        // per-second probability, randomized at spawn
	IdleFactor   float32 `yaml:"idle_factor"`   // chance multiplier while idle
	CooldownBusy float32 `yaml:"cooldown_busy"` // seconds between trips while circling
	CooldownIdle float32 `yaml:"cooldown_idle"` // seconds between trips while idle
	RecoverPoint float32 `yaml:"recover_point"` // clip progress fraction at which the agent stands
}

// DanceConfig holds dance initiation and interruption parameters.
type DanceConfig struct {
	Chance     float32 `yaml:"chance"`      // probability of dancing on idle expiry
	PairLoops  MinMax  `yaml:"pair_loops"`  // duration multiplier for pair dances
	SoloLoops  MinMax  `yaml:"solo_loops"`  // duration multiplier for solo dances
	NoticeRate float32 `yaml:"notice_rate"` // per-second notice roll inside alert range
	Crossfade  float32 `yaml:"crossfade"`   // seconds
}

// CombatConfig holds melee and circling parameters.
type CombatConfig struct {
	ComboMin       int     `yaml:"combo_min"`       // min attacks before a breather
	ComboMax       int     `yaml:"combo_max"`       // max attacks before a breather
	AttackFade     float32 `yaml:"attack_fade"`     // attack clip crossfade seconds
	AttackFallback float32 `yaml:"attack_fallback"` // duration when the clip is missing
	ImpactFallback float32 `yaml:"impact_fallback"` // duration when the impact clip is missing
	FlankRate      float32 `yaml:"flank_rate"`      // orbit angle advance, rad/s
	BoldRollRate   float32 `yaml:"bold_roll_rate"`  // circling charge roll, per second
	MeekRollRate   float32 `yaml:"meek_roll_rate"`  // circling flee roll, per second
	TauntRollRate  float32 `yaml:"taunt_roll_rate"` // circling taunt roll, per second
	StrikePoint    float32 `yaml:"strike_point"`    // attack clip progress at which melee lands
	ComboPoint     float32 `yaml:"combo_point"`     // attack clip progress at which the combo decision runs
	RecoverPoint   float32 `yaml:"recover_point"`   // stagger clip progress at which the agent recovers
}

// TimersConfig holds the miscellaneous state timers.
type TimersConfig struct {
	Idle          MinMax  `yaml:"idle"`            // idle wait before wandering
	Flee          MinMax  `yaml:"flee"`            // flee duration
	Taunt         MinMax  `yaml:"taunt"`           // taunt duration
	WanderRadius  float32 `yaml:"wander_radius"`   // wander target distance
	ArriveRadius  float32 `yaml:"arrive_radius"`   // walking arrival threshold
	ScramblePoint float32 `yaml:"scramble_point"`  // impact clip fraction before dispatch
	ThrowRelease  float32 `yaml:"throw_release"`   // throw clip fraction at which the rock leaves
	ThrowRecover  float32 `yaml:"throw_recover"`   // throw clip fraction at which circling resumes
	AlertDelayMin float32 `yaml:"alert_delay_min"` // fastest reaction to an alert
	AlertDelayMax float32 `yaml:"alert_delay_max"` // slowest reaction to an alert
	DyingFallback float32 `yaml:"dying_fallback"`  // dying duration when the clip is missing
	IndicatorLife float32 `yaml:"indicator_life"`  // damage number lifetime
	IndicatorRise float32 `yaml:"indicator_rise"`  // damage number upward speed
}

// MinMax is an inclusive random range.
type MinMax struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

var cfg *Config

// Init loads configuration. An empty path loads the embedded defaults;
// otherwise the file at path overrides them field by field.
func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Cfg returns the active configuration. Init must have been called.
func Cfg() *Config {
	if cfg == nil {
		cfg = Default()
	}
	return cfg
}

// Default returns the embedded default configuration.
func Default() *Config {
	c := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, c); err != nil {
		// The embedded defaults are fixed at build time; a parse failure
		// is a programming error, not a runtime condition.
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return c
}

// Load parses the embedded defaults and applies the YAML file at path on top.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

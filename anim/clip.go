// Package anim provides the animation clip catalog and the per-agent
// mixers the director binds agents to. Clips are metadata only: the
// host's scene graph owns the sampled poses, the director owns the
// clocks, crossfades, and loop modes.
package anim

// Track channels.
const (
	ChannelRotation = "rotation"
	ChannelPosition = "position"
	ChannelScale    = "scale"
)

// Track is a single animated channel on a named bone.
type Track struct {
	Bone    string `yaml:"bone"`
	Channel string `yaml:"channel"`
}

// Clip is one named animation with its authored duration and tracks.
type Clip struct {
	Name     string  `yaml:"name"`
	Duration float32 `yaml:"duration"`
	Category string  `yaml:"category"` // locomotion, dance, attack, reaction
	Source   string  `yaml:"source"`   // mixamo clips are retargeted at load
	Tracks   []Track `yaml:"tracks"`
}

// Well-known clip names. Dance and attack clips are discovered from the
// manifest by category rather than by name.
const (
	ClipIdle        = "idle"
	ClipWalk        = "walk"
	ClipRun         = "run"
	ClipRunBack     = "run_back"
	ClipStrafeLeft  = "strafe_left"
	ClipStrafeRight = "strafe_right"
	ClipImpact      = "impact"
	ClipTripping    = "tripping"
	ClipThrow       = "throw"
	ClipDying       = "dying"
)

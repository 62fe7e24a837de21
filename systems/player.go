package systems

import rl "github.com/gen2brain/raylib-go/raylib"

// Player is the read-only handle to the player avatar the host owns.
// All player-dependent branches are skipped while no player is set.
type Player interface {
	Position() rl.Vector3
	Attacking() bool
}

// PlayerHandle is a simple mutable Player implementation for hosts
// that drive the avatar themselves (the demo, tests).
type PlayerHandle struct {
	Pos     rl.Vector3
	IsSwing bool
}

// Position returns the avatar position.
func (p *PlayerHandle) Position() rl.Vector3 { return p.Pos }

// Attacking reports whether the avatar is mid-swing.
func (p *PlayerHandle) Attacking() bool { return p.IsSwing }

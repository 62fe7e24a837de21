package director

import (
	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/systems"
)

// AgentView is a render-ready snapshot of one agent.
type AgentView struct {
	ID       uint32
	X, Y, Z  float32
	Yaw      float32
	State    components.State
	Health   float32
	Max      float32
	Courage  float32
	Clip     string
	Progress float32
	Dead     bool
}

// Agents snapshots the roster in spawn order.
func (d *Director) Agents() []AgentView {
	out := make([]AgentView, 0, len(d.roster))
	for _, e := range d.roster {
		t := d.transformMap.Get(e)
		h := d.healthMap.Get(e)
		bh := d.behaviorMap.Get(e)
		mor := d.moraleMap.Get(e)
		out = append(out, AgentView{
			ID:       bh.ID,
			X:        t.X,
			Y:        t.Y,
			Z:        t.Z,
			Yaw:      t.Yaw,
			State:    bh.State,
			Health:   h.Current,
			Max:      h.Max,
			Courage:  mor.Courage,
			Clip:     d.binding.CurrentName(bh.ID),
			Progress: d.binding.Progress(bh.ID),
			Dead:     h.Dead,
		})
	}
	return out
}

// Rocks exposes live projectiles for rendering.
func (d *Director) Rocks() []systems.Rock {
	return d.rocks.Rocks
}

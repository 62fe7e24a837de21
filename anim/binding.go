package anim

import "log/slog"

// Binding owns one mixer per agent and routes all clip transitions
// through the catalog. Every state change in the behavior step goes
// through Play; nothing else touches mixers.
type Binding struct {
	catalog *Catalog
	mixers  map[uint32]*Mixer
	warned  map[string]bool // missing clips are logged once, not per tick
}

// NewBinding creates a binding over the given catalog.
func NewBinding(catalog *Catalog) *Binding {
	return &Binding{
		catalog: catalog,
		mixers:  make(map[uint32]*Mixer),
		warned:  make(map[string]bool),
	}
}

// Catalog returns the bound clip catalog.
func (b *Binding) Catalog() *Catalog {
	return b.catalog
}

// Attach creates the mixer for an agent.
func (b *Binding) Attach(id uint32) *Mixer {
	m := NewMixer()
	b.mixers[id] = m
	return m
}

// Detach drops an agent's mixer after roster removal.
func (b *Binding) Detach(id uint32) {
	delete(b.mixers, id)
}

// Mixer returns the agent's mixer, or nil.
func (b *Binding) Mixer(id uint32) *Mixer {
	return b.mixers[id]
}

// Play starts the named clip on the agent's mixer and returns its
// duration. A missing clip degrades instead of faulting: the idle clip
// plays where available, and fallback is returned so state timers stay
// sane.
func (b *Binding) Play(id uint32, name string, opts PlayOpts, fallback float32) float32 {
	m := b.mixers[id]
	if m == nil {
		return fallback
	}
	clip, ok := b.catalog.Get(name)
	if !ok {
		if !b.warned[name] {
			b.warned[name] = true
			slog.Warn("missing animation clip", "clip", name)
		}
		if idle, found := b.catalog.Get(ClipIdle); found {
			m.Play(idle, PlayOpts{Loop: true, Crossfade: opts.Crossfade})
		}
		return fallback
	}
	m.Play(clip, opts)
	if clip.Duration > 0 {
		return clip.Duration
	}
	return fallback
}

// Update advances the agent's mixer. Runs every tick, dead or alive.
func (b *Binding) Update(id uint32, dt float32) {
	if m := b.mixers[id]; m != nil {
		m.Update(dt)
	}
}

// Progress returns the agent's current clip progress in [0, 1].
func (b *Binding) Progress(id uint32) float32 {
	if m := b.mixers[id]; m != nil {
		return m.Progress()
	}
	return 0
}

// CurrentName returns the agent's playing clip name, or "".
func (b *Binding) CurrentName(id uint32) string {
	if m := b.mixers[id]; m != nil {
		return m.CurrentName()
	}
	return ""
}

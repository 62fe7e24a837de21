package anim

// PlayOpts controls how a clip starts on a mixer.
type PlayOpts struct {
	Loop      bool
	Crossfade float32 // seconds; 0 cuts hard
	ClampEnd  bool    // hold the final frame instead of stopping
}

// action is one playing clip instance on a mixer.
type action struct {
	clip     *Clip
	time     float32
	weight   float32
	fadeRate float32 // weight change per second; negative fades out
	loop     bool
	clampEnd bool
	done     bool
}

// Mixer is a per-agent animation clock. It holds at most one current
// action; playing a new clip crossfades the previous one out. The
// director keeps updating mixers for dead agents until the dying clip
// completes, so death looks right even though behavior has stopped.
type Mixer struct {
	current *action
	fading  []*action
}

// NewMixer returns an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// Play starts the named clip, crossfading out the current one.
func (m *Mixer) Play(clip *Clip, opts PlayOpts) {
	if clip == nil {
		return
	}
	if m.current != nil {
		old := m.current
		if opts.Crossfade > 0 {
			old.fadeRate = -old.weight / opts.Crossfade
			m.fading = append(m.fading, old)
		}
	}
	next := &action{clip: clip, loop: opts.Loop, clampEnd: opts.ClampEnd}
	if opts.Crossfade > 0 {
		next.weight = 0
		next.fadeRate = 1 / opts.Crossfade
	} else {
		next.weight = 1
	}
	m.current = next
}

// Update advances clocks and fade weights by dt seconds.
func (m *Mixer) Update(dt float32) {
	if m.current != nil {
		advance(m.current, dt)
		m.current.weight += m.current.fadeRate * dt
		if m.current.weight >= 1 {
			m.current.weight = 1
			m.current.fadeRate = 0
		}
	}
	alive := m.fading[:0]
	for _, a := range m.fading {
		advance(a, dt)
		a.weight += a.fadeRate * dt
		if a.weight > 0 {
			alive = append(alive, a)
		}
	}
	m.fading = alive
}

func advance(a *action, dt float32) {
	if a.done {
		return
	}
	a.time += dt
	d := a.clip.Duration
	if d <= 0 {
		return
	}
	if a.loop {
		for a.time >= d {
			a.time -= d
		}
		return
	}
	if a.time >= d {
		a.time = d
		if a.clampEnd {
			a.done = true // hold final frame
		}
	}
}

// Current returns the clip the mixer is playing, or nil.
func (m *Mixer) Current() *Clip {
	if m.current == nil {
		return nil
	}
	return m.current.clip
}

// CurrentName returns the playing clip's name, or "".
func (m *Mixer) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.clip.Name
}

// Progress returns the current action's normalized time in [0, 1].
func (m *Mixer) Progress() float32 {
	if m.current == nil || m.current.clip.Duration <= 0 {
		return 0
	}
	p := m.current.time / m.current.clip.Duration
	if p > 1 {
		p = 1
	}
	return p
}

// Weight returns the current action's blend weight.
func (m *Mixer) Weight() float32 {
	if m.current == nil {
		return 0
	}
	return m.current.weight
}

// ActiveActions counts the current action plus any still fading out.
func (m *Mixer) ActiveActions() int {
	n := len(m.fading)
	if m.current != nil {
		n++
	}
	return n
}

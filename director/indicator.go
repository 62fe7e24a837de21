package director

// DamageIndicator is a floating damage number: it rises, fades, and
// faces the camera.
type DamageIndicator struct {
	ID      uint32
	X, Y, Z float32
	Amount  float32
	Age     float32
	Life    float32
	Yaw     float32
}

// Alpha is the remaining opacity in [0, 1].
func (in *DamageIndicator) Alpha() float32 {
	if in.Life <= 0 {
		return 0
	}
	a := 1 - in.Age/in.Life
	if a < 0 {
		return 0
	}
	return a
}

func (d *Director) spawnIndicator(x, y, z, amount float32) {
	id := d.nextID
	d.nextID++
	d.indicators = append(d.indicators, DamageIndicator{
		ID:     id,
		X:      x,
		Y:      y,
		Z:      z,
		Amount: amount,
		Life:   d.cfg.Timers.IndicatorLife,
		Yaw:    d.billboardYaw,
	})
	d.sceneAdd(NodeIndicator, id)
}

func (d *Director) updateIndicators(dt float32) {
	kept := d.indicators[:0]
	for i := range d.indicators {
		in := d.indicators[i]
		in.Age += dt
		if in.Age >= in.Life {
			d.sceneRemove(NodeIndicator, in.ID)
			continue
		}
		in.Y += d.cfg.Timers.IndicatorRise * dt
		in.Yaw = d.billboardYaw
		kept = append(kept, in)
	}
	d.indicators = kept
}

// Indicators exposes live damage indicators for rendering.
func (d *Director) Indicators() []DamageIndicator {
	return d.indicators
}

package anim

import "testing"

func TestLoadEmbeddedManifest(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded manifest: %v", err)
	}
	if !c.Ready() {
		t.Fatal("catalog not ready after load")
	}

	// Every clip the state machine plays by name must exist.
	for _, name := range []string{
		ClipIdle, ClipWalk, ClipRun, ClipRunBack,
		ClipStrafeLeft, ClipStrafeRight,
		ClipImpact, ClipTripping, ClipThrow, ClipDying,
	} {
		if !c.Has(name) {
			t.Errorf("embedded manifest missing clip %q", name)
		}
	}
	if len(c.Dances()) == 0 {
		t.Error("embedded manifest has no dance clips")
	}
	if len(c.Attacks()) == 0 {
		t.Error("embedded manifest has no attack clips")
	}
}

func TestLoadRetargetsClips(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for name, clip := range c.clips {
		if clip.Source == "mixamo" {
			t.Errorf("clip %q not retargeted", name)
		}
		for _, tr := range clip.Tracks {
			if tr.Channel == ChannelPosition {
				t.Errorf("clip %q kept position track on %q", name, tr.Bone)
			}
		}
	}
}

func TestDurationFallback(t *testing.T) {
	c := NewCatalog([]*Clip{
		{Name: "idle", Duration: 2.4, Source: "native"},
		{Name: "broken", Duration: 0, Source: "native"},
	})

	if got := c.Duration("idle", 9); got != 2.4 {
		t.Errorf("Duration(idle) = %v, want 2.4", got)
	}
	if got := c.Duration("missing", 1.2); got != 1.2 {
		t.Errorf("Duration(missing) = %v, want fallback 1.2", got)
	}
	if got := c.Duration("broken", 1.2); got != 1.2 {
		t.Errorf("Duration(zero-length) = %v, want fallback 1.2", got)
	}
}

func TestCategoryLists(t *testing.T) {
	c := NewCatalog([]*Clip{
		{Name: "idle", Duration: 2, Source: "native"},
		{Name: "dance_a", Duration: 2, Category: "dance", Source: "native"},
		{Name: "dance_b", Duration: 2, Category: "dance", Source: "native"},
		{Name: "attack_a", Duration: 1, Category: "attack", Source: "native"},
	})

	if got := c.Dances(); len(got) != 2 || got[0] != "dance_a" || got[1] != "dance_b" {
		t.Errorf("Dances() = %v, want manifest order [dance_a dance_b]", got)
	}
	if got := c.Attacks(); len(got) != 1 || got[0] != "attack_a" {
		t.Errorf("Attacks() = %v, want [attack_a]", got)
	}
}

func TestNilCatalogNotReady(t *testing.T) {
	var c *Catalog
	if c.Ready() {
		t.Error("nil catalog reports ready")
	}
}

func TestBindingMissingClipDegrades(t *testing.T) {
	c := NewCatalog([]*Clip{{Name: "idle", Duration: 2, Source: "native"}})
	b := NewBinding(c)
	b.Attach(1)

	dur := b.Play(1, "throw", PlayOpts{ClampEnd: true}, 1.2)
	if dur != 1.2 {
		t.Errorf("Play missing clip = %v, want fallback 1.2", dur)
	}
	if got := b.CurrentName(1); got != "idle" {
		t.Errorf("current clip = %q, want idle substitute", got)
	}
}

func TestBindingDetachedAgent(t *testing.T) {
	c := NewCatalog([]*Clip{{Name: "idle", Duration: 2, Source: "native"}})
	b := NewBinding(c)
	b.Attach(1)
	b.Detach(1)

	if dur := b.Play(1, "idle", PlayOpts{}, 0.5); dur != 0.5 {
		t.Errorf("Play on detached agent = %v, want fallback 0.5", dur)
	}
	if b.Mixer(1) != nil {
		t.Error("mixer survived detach")
	}
}

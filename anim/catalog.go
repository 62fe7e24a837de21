package anim

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed clips.yaml
var defaultManifest []byte

// manifest is the YAML shape of a clip catalog.
type manifest struct {
	Clips []*Clip `yaml:"clips"`
}

// Catalog is the finite clip inventory agents play from. It is built
// once at init and read-only afterwards; spawning is refused until a
// catalog is ready.
type Catalog struct {
	clips   map[string]*Clip
	dances  []string
	attacks []string
	ready   bool
}

// Load builds a catalog from the YAML manifest at path; an empty path
// loads the embedded default manifest. Mixamo clips are retargeted
// (bones renamed, position tracks stripped) before insertion.
func Load(path string) (*Catalog, error) {
	data := defaultManifest
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("anim: read manifest %s: %w", path, err)
		}
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("anim: parse manifest: %w", err)
	}
	if len(m.Clips) == 0 {
		return nil, fmt.Errorf("anim: manifest has no clips")
	}
	return NewCatalog(m.Clips), nil
}

// NewCatalog builds a catalog from already-constructed clips. Hosts
// that load clips from their own asset pipeline use this directly.
func NewCatalog(clips []*Clip) *Catalog {
	c := &Catalog{clips: make(map[string]*Clip, len(clips))}
	for _, clip := range clips {
		Retarget(clip)
		c.clips[clip.Name] = clip
		switch clip.Category {
		case "dance":
			c.dances = append(c.dances, clip.Name)
		case "attack":
			c.attacks = append(c.attacks, clip.Name)
		}
	}
	c.ready = true
	return c
}

// Ready reports whether the catalog is loaded. The director refuses to
// spawn agents before this gate opens.
func (c *Catalog) Ready() bool {
	return c != nil && c.ready
}

// Get returns the named clip.
func (c *Catalog) Get(name string) (*Clip, bool) {
	clip, ok := c.clips[name]
	return clip, ok
}

// Has reports whether the named clip exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.clips[name]
	return ok
}

// Duration returns the named clip's duration, or fallback when the
// clip is absent. Missing clips degrade the owning branch, they never
// fault the tick.
func (c *Catalog) Duration(name string, fallback float32) float32 {
	if clip, ok := c.clips[name]; ok && clip.Duration > 0 {
		return clip.Duration
	}
	return fallback
}

// Dances returns the dance-eligible clip names in manifest order.
func (c *Catalog) Dances() []string {
	return c.dances
}

// Attacks returns the attack clip names in manifest order.
func (c *Catalog) Attacks() []string {
	return c.attacks
}

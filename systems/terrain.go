package systems

import opensimplex "github.com/ojrac/opensimplex-go"

// HeightOracle samples terrain height. ok is false where the terrain
// has no sample; the agent then keeps its previous Y.
type HeightOracle interface {
	HeightAt(x, z float32) (y float32, ok bool)
}

// HillTerrain is a noise-based rolling-hills oracle used by the demo
// and tests. Hosts with real terrain streaming inject their own oracle.
type HillTerrain struct {
	noise     opensimplex.Noise
	Scale     float32 // horizontal feature size
	Amplitude float32 // peak height
}

// NewHillTerrain creates a seeded rolling-hills oracle.
func NewHillTerrain(seed int64, scale, amplitude float32) *HillTerrain {
	return &HillTerrain{
		noise:     opensimplex.NewNormalized(seed),
		Scale:     scale,
		Amplitude: amplitude,
	}
}

// HeightAt samples the noise field.
func (t *HillTerrain) HeightAt(x, z float32) (float32, bool) {
	h := t.noise.Eval2(float64(x/t.Scale), float64(z/t.Scale))
	return float32(h) * t.Amplitude, true
}

// FlatTerrain is a constant-height oracle.
type FlatTerrain struct {
	Y float32
}

// HeightAt returns the constant height.
func (t FlatTerrain) HeightAt(x, z float32) (float32, bool) {
	return t.Y, true
}

package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/config"
)

// StarField is the static backdrop: points in a thick shell around the scene.
type StarField struct {
	Points []r3.Vec
	Size   []float32 // relative size in [0.5, 1)
}

// NewStarField scatters cfg.Scene.StarCount stars between StarRadius and
// StarRadius+StarDepth.
func NewStarField(rng *rand.Rand, scene config.SceneConfig) *StarField {
	n := scene.StarCount
	s := &StarField{
		Points: make([]r3.Vec, n),
		Size:   make([]float32, n),
	}
	for i := 0; i < n; i++ {
		s.Points[i] = RandomShellPoint(rng, scene.StarRadius, scene.StarRadius+scene.StarDepth)
		s.Size[i] = 0.5 + 0.5*rng.Float32()
	}
	return s
}

// Len returns the number of stars.
func (s *StarField) Len() int {
	return len(s.Points)
}

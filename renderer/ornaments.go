package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/systems"
)

// OrnamentRenderer draws ornament instances with one shared model per kind.
type OrnamentRenderer struct {
	models      [3]rl.Model
	initialized bool
}

// NewOrnamentRenderer creates a new ornament renderer.
func NewOrnamentRenderer() *OrnamentRenderer {
	return &OrnamentRenderer{}
}

// Init uploads the meshes (must be called after raylib window is created).
func (r *OrnamentRenderer) Init() {
	if r.initialized {
		return
	}
	r.models[components.KindGift] = rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1))
	r.models[components.KindBauble] = rl.LoadModelFromMesh(rl.GenMeshSphere(0.5, 16, 16))
	r.models[components.KindLight] = rl.LoadModelFromMesh(rl.GenMeshSphere(0.5, 8, 8))
	r.initialized = true
}

// Draw renders every instance inside the current 3D mode with its emitted
// model matrix. offset is the scene translation.
func (r *OrnamentRenderer) Draw(instances []systems.OrnamentInstance, offset r3.Vec) {
	if !r.initialized {
		r.Init()
	}
	for i := range instances {
		inst := &instances[i]
		m := &r.models[inst.Kind]
		m.Materials.Maps.Color = inst.Color
		rl.DrawMesh(*m.Meshes, *m.Materials, instanceTransform(inst.Matrix(), offset))
	}
}

// instanceTransform converts a column-major model matrix to raylib's layout
// and prepends the scene translation.
func instanceTransform(m [16]float32, offset r3.Vec) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12] + float32(offset.X), M13: m[13] + float32(offset.Y), M14: m[14] + float32(offset.Z), M15: m[15],
	}
}

// DrawPaths draws each ornament's chaos-to-tree segment.
func (r *OrnamentRenderer) DrawPaths(ornaments *systems.OrnamentSystem, offset r3.Vec) {
	for i := 0; i < ornaments.Len(); i++ {
		el, _ := ornaments.Element(i)
		c := el.Color
		c.A = 60
		rl.DrawLine3D(vec3(r3.Add(el.Chaos, offset)), vec3(r3.Add(el.Target, offset)), c)
		rl.DrawCubeWires(vec3(r3.Add(el.Target, offset)), 0.1, 0.1, 0.1, el.Color)
	}
}

// Unload frees resources.
func (r *OrnamentRenderer) Unload() {
	if !r.initialized {
		return
	}
	for _, m := range r.models {
		rl.UnloadModel(m)
	}
	r.initialized = false
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

package viz

import (
	"math"
	"testing"

	"github.com/san-kum/slitsim/internal/dynamo"
)

func TestCameraProject(t *testing.T) {
	cfg := dynamo.DefaultSimulationConfig()
	sc := dynamo.DefaultScale()
	cam := NewCamera(cfg, sc)

	if _, _, _, ok := cam.Project(cam.Center, 80, 40); !ok {
		t.Error("scene center should be visible")
	}

	for _, p := range []dynamo.Vec3{
		{X: math.NaN()},
		{Y: math.Inf(1)},
		{Z: math.Inf(-1)},
	} {
		if x, y, _, ok := cam.Project(p, 80, 40); ok || x != 0 || y != 0 {
			t.Errorf("Project(%v) = %d, %d, %v; want hidden", p, x, y, ok)
		}
	}
}

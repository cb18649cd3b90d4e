package dynamo

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// SimulationConfig is the experiment state supplied once per tick.
type SimulationConfig struct {
	WavelengthNm   float64 `yaml:"wavelength_nm" json:"wavelength_nm"`
	SlitSeparation float64 `yaml:"slit_separation" json:"slit_separation"`
	SlitWidth      float64 `yaml:"slit_width" json:"slit_width"`
	ScreenDistance float64 `yaml:"screen_distance" json:"screen_distance"`
	ParticleCount  int     `yaml:"particle_count" json:"particle_count"`
	IsPlaying      bool    `yaml:"playing" json:"playing"`
}

const (
	MinVisibleNm = 380.0
	MaxVisibleNm = 780.0
)

func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		WavelengthNm:   500,
		SlitSeparation: 1.5,
		SlitWidth:      0.3,
		ScreenDistance: 15,
		ParticleCount:  2000,
		IsPlaying:      true,
	}
}

// Degenerate reports whether the slits overlap, leaving no barrier between them.
func (c SimulationConfig) Degenerate() bool {
	return c.SlitWidth >= c.SlitSeparation
}

func (c SimulationConfig) Visible() bool {
	return c.WavelengthNm >= MinVisibleNm && c.WavelengthNm <= MaxVisibleNm
}

// ParamNames lists the tunable physical parameters accepted by Param.
var ParamNames = []string{"wavelength", "separation", "width", "distance"}

// Param returns a pointer to the named physical parameter.
func (c *SimulationConfig) Param(name string) (*float64, bool) {
	switch name {
	case "wavelength":
		return &c.WavelengthNm, true
	case "separation":
		return &c.SlitSeparation, true
	case "width":
		return &c.SlitWidth, true
	case "distance":
		return &c.ScreenDistance, true
	}
	return nil, false
}

// Scale collects the geometry and unit constants that the field evaluator
// and the particle kinematics must agree on.
type Scale struct {
	WavelengthUnit float64 `yaml:"wavelength_unit" json:"wavelength_unit"` // nm to world units
	FieldScale     float64 `yaml:"field_scale" json:"field_scale"`
	ScreenWidth    float64 `yaml:"screen_width" json:"screen_width"`
	ScreenHeight   float64 `yaml:"screen_height" json:"screen_height"`
	WallZ          float64 `yaml:"wall_z" json:"wall_z"`
	WallOffset     float64 `yaml:"wall_offset" json:"wall_offset"`
	SlitHeight     float64 `yaml:"slit_height" json:"slit_height"`
	ScreenSpreadY  float64 `yaml:"screen_spread_y" json:"screen_spread_y"`
	SourceZ        float64 `yaml:"source_z" json:"source_z"`
	SpawnDepth     float64 `yaml:"spawn_depth" json:"spawn_depth"`
	RecycleDepth   float64 `yaml:"recycle_depth" json:"recycle_depth"`
	SourceScatter  float64 `yaml:"source_scatter" json:"source_scatter"`
	BaseSpeed      float64 `yaml:"base_speed" json:"base_speed"`
	SpeedJitter    float64 `yaml:"speed_jitter" json:"speed_jitter"`
	BarrierWidth   float64 `yaml:"barrier_width" json:"barrier_width"`
	BarrierHeight  float64 `yaml:"barrier_height" json:"barrier_height"`
}

func DefaultScale() Scale {
	return Scale{
		WavelengthUnit: 0.001,
		FieldScale:     500,
		ScreenWidth:    20,
		ScreenHeight:   8,
		WallZ:          -2,
		WallOffset:     0.1,
		SlitHeight:     0.5,
		ScreenSpreadY:  4,
		SourceZ:        -10,
		SpawnDepth:     10,
		RecycleDepth:   5,
		SourceScatter:  1,
		BaseSpeed:      0.1,
		SpeedJitter:    0.05,
		BarrierWidth:   20,
		BarrierHeight:  10,
	}
}

// ScreenZ is the depth of the screen plane for a configuration.
func (s Scale) ScreenZ(cfg SimulationConfig) float64 {
	return cfg.ScreenDistance / 2
}

func (s Scale) HalfWidth() float64 { return s.ScreenWidth / 2 }

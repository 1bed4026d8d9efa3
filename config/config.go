// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Validation errors returned (wrapped) by Load.
var (
	ErrInvalidPalette = errors.New("invalid palette colour")
	ErrInvalidKind    = errors.New("invalid ornament kind")
	ErrInvalidCount   = errors.New("invalid element count")
)

// Ornament kind names. The kinds table must define all three.
const (
	KindGift   = "gift"
	KindBauble = "bauble"
	KindLight  = "light"
)

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Scene     SceneConfig     `yaml:"scene"`
	Foliage   FoliageConfig   `yaml:"foliage"`
	Ornaments OrnamentsConfig `yaml:"ornaments"`
	Palette   PaletteConfig   `yaml:"palette"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Workers   WorkersConfig   `yaml:"workers"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SceneConfig holds element counts and the geometry of both target shapes.
type SceneConfig struct {
	FoliageCount   int     `yaml:"foliage_count"`
	OrnamentCount  int     `yaml:"ornament_count"`
	TreeHeight     float64 `yaml:"tree_height"`
	TreeRadius     float64 `yaml:"tree_radius"`
	ChaosRadius    float64 `yaml:"chaos_radius"`
	OrnamentOffset float64 `yaml:"ornament_offset"` // Added to TreeRadius for ornament targets
	OffsetY        float64 `yaml:"offset_y"`        // Vertical offset of the whole tree group
	StarCount      int     `yaml:"star_count"`
	StarRadius     float64 `yaml:"star_radius"`
	StarDepth      float64 `yaml:"star_depth"`
}

// FoliageConfig holds foliage morph parameters.
type FoliageConfig struct {
	ProgressRate  float64 `yaml:"progress_rate"`  // Global progress smoothing rate per second
	Lead          float64 `yaml:"lead"`           // Global progress multiplier before stagger
	Stagger       float64 `yaml:"stagger"`        // Max per-element delay from phase
	SwayThreshold float64 `yaml:"sway_threshold"` // Local progress above which wind sway applies
	SwayBase      float64 `yaml:"sway_base"`      // Height offset for sway intensity
	SwayGain      float64 `yaml:"sway_gain"`      // Sway intensity per unit height
	TipThreshold  float64 `yaml:"tip_threshold"`  // Phase at or above which the tip colour is used
	BaseSize      float64 `yaml:"base_size"`      // Point size in pixels before attenuation
	Attenuation   float64 `yaml:"attenuation"`    // Depth at which size equals base size
}

// OrnamentsConfig holds ornament morph parameters.
type OrnamentsConfig struct {
	BaseSpeed    float64              `yaml:"base_speed"`
	BobAmplitude float64              `yaml:"bob_amplitude"` // Scaled by weight
	BobFrequency float64              `yaml:"bob_frequency"`
	GiftBelow    float64              `yaml:"gift_below"`  // Kind roll below this is a gift
	LightAbove   float64              `yaml:"light_above"` // Kind roll above this is a light
	Kinds        []OrnamentKindConfig `yaml:"kinds"`
}

// OrnamentKindConfig defines the static attributes of one ornament kind.
type OrnamentKindConfig struct {
	Name   string   `yaml:"name"`
	Weight float64  `yaml:"weight"` // Interpolation speed multiplier in (0,1)
	Scale  float64  `yaml:"scale"`
	Colors []string `yaml:"colors"` // Palette names, picked uniformly at generation
}

// PaletteConfig holds named hex colours.
type PaletteConfig struct {
	Background    string `yaml:"background"`
	Emerald       string `yaml:"emerald"`
	EmeraldBright string `yaml:"emerald_bright"`
	Gold          string `yaml:"gold"`
	GoldHigh      string `yaml:"gold_high"`
	RedLuxury     string `yaml:"red_luxury"`
	Silver        string `yaml:"silver"`
	Star          string `yaml:"star"`
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Height      float64 `yaml:"height"`
	Distance    float64 `yaml:"distance"`
	FovY        float64 `yaml:"fovy"` // Degrees
	Near        float64 `yaml:"near"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	MinPolar    float64 `yaml:"min_polar"`
	MaxPolar    float64 `yaml:"max_polar"`
	OrbitSpeed  float64 `yaml:"orbit_speed"`
	ZoomSpeed   float64 `yaml:"zoom_speed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`
	StatsWindow float64 `yaml:"stats_window"`
}

// WorkersConfig holds foliage worker pool parameters.
type WorkersConfig struct {
	Count             int `yaml:"count"` // 0 = GOMAXPROCS
	ParallelThreshold int `yaml:"parallel_threshold"`
}

// KindTraits is an ornament kind with palette names resolved to colours.
type KindTraits struct {
	Name   string
	Weight float64
	Scale  float64
	Colors []colorful.Color
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Colors map[string]colorful.Color // palette name -> colour
	Kinds  map[string]KindTraits     // kind name -> traits

	// float32 copies for the foliage kernel
	Lead32          float32
	Stagger32       float32
	SwayThreshold32 float32
	SwayBase32      float32
	SwayGain32      float32
	TipThreshold32  float32
	BaseSize32      float32
	Attenuation32   float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes merged over the embedded
// defaults. Only fields present in data are overwritten.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() error {
	return c.computeDerived()
}

// computeDerived validates the loaded values and fills Derived.
func (c *Config) computeDerived() error {
	if c.Scene.FoliageCount <= 0 {
		return fmt.Errorf("scene.foliage_count %d: %w", c.Scene.FoliageCount, ErrInvalidCount)
	}
	if c.Scene.OrnamentCount <= 0 {
		return fmt.Errorf("scene.ornament_count %d: %w", c.Scene.OrnamentCount, ErrInvalidCount)
	}
	if c.Scene.StarCount < 0 {
		return fmt.Errorf("scene.star_count %d: %w", c.Scene.StarCount, ErrInvalidCount)
	}

	named := map[string]string{
		"background":     c.Palette.Background,
		"emerald":        c.Palette.Emerald,
		"emerald_bright": c.Palette.EmeraldBright,
		"gold":           c.Palette.Gold,
		"gold_high":      c.Palette.GoldHigh,
		"red_luxury":     c.Palette.RedLuxury,
		"silver":         c.Palette.Silver,
		"star":           c.Palette.Star,
	}
	c.Derived.Colors = make(map[string]colorful.Color, len(named))
	for name, hex := range named {
		col, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("palette.%s %q: %w", name, hex, ErrInvalidPalette)
		}
		c.Derived.Colors[name] = col
	}

	// Synthesize default kinds if none specified
	if len(c.Ornaments.Kinds) == 0 {
		c.Ornaments.Kinds = []OrnamentKindConfig{
			{Name: KindGift, Weight: 0.1, Scale: 0.6, Colors: []string{"red_luxury", "gold"}},
			{Name: KindBauble, Weight: 0.4, Scale: 0.35, Colors: []string{"gold", "silver"}},
			{Name: KindLight, Weight: 0.9, Scale: 0.2, Colors: []string{"gold_high"}},
		}
	}

	c.Derived.Kinds = make(map[string]KindTraits, len(c.Ornaments.Kinds))
	for _, k := range c.Ornaments.Kinds {
		if k.Weight <= 0 || k.Weight >= 1 {
			return fmt.Errorf("ornaments.kinds %q weight %v outside (0,1): %w", k.Name, k.Weight, ErrInvalidKind)
		}
		if len(k.Colors) == 0 {
			return fmt.Errorf("ornaments.kinds %q has no colours: %w", k.Name, ErrInvalidKind)
		}
		traits := KindTraits{Name: k.Name, Weight: k.Weight, Scale: k.Scale}
		for _, name := range k.Colors {
			col, ok := c.Derived.Colors[name]
			if !ok {
				return fmt.Errorf("ornaments.kinds %q colour %q: %w", k.Name, name, ErrInvalidPalette)
			}
			traits.Colors = append(traits.Colors, col)
		}
		c.Derived.Kinds[k.Name] = traits
	}
	for _, name := range []string{KindGift, KindBauble, KindLight} {
		if _, ok := c.Derived.Kinds[name]; !ok {
			return fmt.Errorf("ornaments.kinds missing %q: %w", name, ErrInvalidKind)
		}
	}

	f := c.Foliage
	c.Derived.Lead32 = float32(f.Lead)
	c.Derived.Stagger32 = float32(f.Stagger)
	c.Derived.SwayThreshold32 = float32(f.SwayThreshold)
	c.Derived.SwayBase32 = float32(f.SwayBase)
	c.Derived.SwayGain32 = float32(f.SwayGain)
	c.Derived.TipThreshold32 = float32(f.TipThreshold)
	c.Derived.BaseSize32 = float32(f.BaseSize)
	c.Derived.Attenuation32 = float32(f.Attenuation)

	return nil
}

// Clone returns a deep copy. Derived maps are shared until the copy is
// refreshed, which replaces them.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Ornaments.Kinds = make([]OrnamentKindConfig, len(c.Ornaments.Kinds))
	for i, k := range c.Ornaments.Kinds {
		k.Colors = append([]string(nil), k.Colors...)
		cp.Ornaments.Kinds[i] = k
	}
	return &cp
}

// Color returns the named palette colour, or black if unknown.
func (c *Config) Color(name string) colorful.Color {
	return c.Derived.Colors[name]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

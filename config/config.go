// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Weapon identifiers. The weapon set is fixed; config only tunes it.
const (
	WeaponStraightShot  = "straightShot"
	WeaponParabolicShot = "parabolicShot"
	WeaponBlastShot     = "blastShot"
	WeaponRearCannons   = "rearCannons"
)

// Config holds all game configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" toml:"screen"`
	Timing     TimingConfig     `yaml:"timing" toml:"timing"`
	RNG        RNGConfig        `yaml:"rng" toml:"rng"`
	Game       GameConfig       `yaml:"game" toml:"game"`
	Wave       WaveConfig       `yaml:"wave" toml:"wave"`
	World      WorldConfig      `yaml:"world" toml:"world"`
	Math       MathConfig       `yaml:"math" toml:"math"`
	Ship       ShipConfig       `yaml:"ship" toml:"ship"`
	Noodle     NoodleConfig     `yaml:"noodle" toml:"noodle"`
	Fuse       FuseConfig       `yaml:"fuse" toml:"fuse"`
	Projectile ProjectileConfig `yaml:"projectile" toml:"projectile"`
	Weapons    WeaponsConfig    `yaml:"weapons" toml:"weapons"`
	Replay     ReplayConfig     `yaml:"replay" toml:"replay"`
	Debug      DebugConfig      `yaml:"debug" toml:"debug"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
	Invariants InvariantsConfig `yaml:"invariants" toml:"invariants"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	TargetFPS int    `yaml:"target_fps" toml:"target_fps"`
	Title     string `yaml:"title" toml:"title"`
}

// TimingConfig controls the fixed-step accumulator.
type TimingConfig struct {
	FixedFPS    int     `yaml:"fixed_fps" toml:"fixed_fps"`
	MaxFrameMS  float64 `yaml:"max_frame_ms" toml:"max_frame_ms"`
	MaxSubSteps int     `yaml:"max_sub_steps" toml:"max_sub_steps"`
}

// RNGConfig holds the linear congruential generator parameters.
type RNGConfig struct {
	UseSeed    bool  `yaml:"use_seed" toml:"use_seed"` // false = seed from wall clock
	Seed       int64 `yaml:"seed" toml:"seed"`
	Multiplier int64 `yaml:"multiplier" toml:"multiplier"`
	Increment  int64 `yaml:"increment" toml:"increment"`
	Modulus    int64 `yaml:"modulus" toml:"modulus"`
}

// GameConfig holds session-level starting values.
type GameConfig struct {
	StartingScore int `yaml:"starting_score" toml:"starting_score"`
	StartingWave  int `yaml:"starting_wave" toml:"starting_wave"`
}

// WaveConfig controls wave escalation and spawn placement.
type WaveConfig struct {
	BaseNoodles   int     `yaml:"base_noodles" toml:"base_noodles"`
	Increment     int     `yaml:"increment" toml:"increment"`
	SpawnAttempts int     `yaml:"spawn_attempts" toml:"spawn_attempts"`
	SafeRadius    float64 `yaml:"safe_radius" toml:"safe_radius"` // added to the ship radius
}

// WorldConfig holds entity ceilings and topology.
type WorldConfig struct {
	MaxNoodles     int     `yaml:"max_noodles" toml:"max_noodles"`
	MaxProjectiles int     `yaml:"max_projectiles" toml:"max_projectiles"`
	MaxExplosions  int     `yaml:"max_explosions" toml:"max_explosions"`
	WrapMargin     float64 `yaml:"wrap_margin" toml:"wrap_margin"`
	TrailLength    int     `yaml:"trail_length" toml:"trail_length"` // 0 disables projectile trails
	EntityStartID  uint64  `yaml:"entity_start_id" toml:"entity_start_id"`
}

// MathConfig holds numeric tolerances.
type MathConfig struct {
	Epsilon float64 `yaml:"epsilon" toml:"epsilon"`
}

// ShipConfig holds player ship handling parameters.
type ShipConfig struct {
	Radius      float64 `yaml:"radius" toml:"radius"`
	TurnSpeed   float64 `yaml:"turn_speed" toml:"turn_speed"`     // radians per second
	ThrustAccel float64 `yaml:"thrust_accel" toml:"thrust_accel"` // units per second squared
	MaxSpeed    float64 `yaml:"max_speed" toml:"max_speed"`
	Damping     float64 `yaml:"damping" toml:"damping"` // per tick velocity multiplier
	NoseScale   float64 `yaml:"nose_scale" toml:"nose_scale"`
	WingScale   float64 `yaml:"wing_scale" toml:"wing_scale"`
	TailScale   float64 `yaml:"tail_scale" toml:"tail_scale"`
}

// NoodleTier maps a minimum long axis to hit points and score.
type NoodleTier struct {
	MinLongAxis float64 `yaml:"min_long_axis" toml:"min_long_axis"`
	HP          int     `yaml:"hp" toml:"hp"`
	Score       int     `yaml:"score" toml:"score"`
}

// NoodleConfig holds hazard spawn, motion and split parameters.
type NoodleConfig struct {
	LongAxis        float64      `yaml:"long_axis" toml:"long_axis"`
	ShortAxis       float64      `yaml:"short_axis" toml:"short_axis"`
	DriftSpeed      float64      `yaml:"drift_speed" toml:"drift_speed"`
	AngularVelocity float64      `yaml:"angular_velocity" toml:"angular_velocity"`
	Damping         float64      `yaml:"damping" toml:"damping"`
	SplitThreshold  float64      `yaml:"split_threshold" toml:"split_threshold"`
	SplitScale      float64      `yaml:"split_scale" toml:"split_scale"`
	SplitCount      int          `yaml:"split_count" toml:"split_count"`
	SplitImpulseMin float64      `yaml:"split_impulse_min" toml:"split_impulse_min"`
	SplitImpulseMax float64      `yaml:"split_impulse_max" toml:"split_impulse_max"`
	Tiers           []NoodleTier `yaml:"tiers" toml:"tiers"` // descending by min_long_axis
}

// FuseConfig holds the proximity fuse scale.
type FuseConfig struct {
	Scale float64 `yaml:"scale" toml:"scale"` // fraction of the hazard long axis
}

// Point is a 2D vector in config files.
type Point struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// ProjectileConfig holds weapon-agnostic projectile defaults.
type ProjectileConfig struct {
	Radius          float64 `yaml:"radius" toml:"radius"`
	LifetimeSeconds float64 `yaml:"lifetime_seconds" toml:"lifetime_seconds"`
	Damage          int     `yaml:"damage" toml:"damage"`
	Accel           Point   `yaml:"accel" toml:"accel"`
}

// WeaponsConfig holds every weapon's tuning.
type WeaponsConfig struct {
	DefaultID   string            `yaml:"default_id" toml:"default_id"`
	Straight    StraightConfig    `yaml:"straight_shot" toml:"straight_shot"`
	Parabolic   ParabolicConfig   `yaml:"parabolic_shot" toml:"parabolic_shot"`
	Blast       BlastConfig       `yaml:"blast_shot" toml:"blast_shot"`
	RearCannons RearCannonsConfig `yaml:"rear_cannons" toml:"rear_cannons"`
}

// StraightConfig tunes the straight shot.
type StraightConfig struct {
	Name             string  `yaml:"name" toml:"name"`
	CooldownSeconds  float64 `yaml:"cooldown_seconds" toml:"cooldown_seconds"`
	ProjectileSpeed  float64 `yaml:"projectile_speed" toml:"projectile_speed"`
	SpawnOffsetScale float64 `yaml:"spawn_offset_scale" toml:"spawn_offset_scale"`
}

// ParabolicConfig tunes the parabolic shot.
type ParabolicConfig struct {
	Name             string  `yaml:"name" toml:"name"`
	CooldownSeconds  float64 `yaml:"cooldown_seconds" toml:"cooldown_seconds"`
	ProjectileSpeed  float64 `yaml:"projectile_speed" toml:"projectile_speed"`
	SpawnOffsetScale float64 `yaml:"spawn_offset_scale" toml:"spawn_offset_scale"`
	Gravity          float64 `yaml:"gravity" toml:"gravity"` // +y is down
}

// BlastConfig tunes the blast shot and its explosion.
type BlastConfig struct {
	Name                     string  `yaml:"name" toml:"name"`
	CooldownSeconds          float64 `yaml:"cooldown_seconds" toml:"cooldown_seconds"`
	ProjectileSpeed          float64 `yaml:"projectile_speed" toml:"projectile_speed"`
	ProjectileRadius         float64 `yaml:"projectile_radius" toml:"projectile_radius"`
	ProjectileDamage         int     `yaml:"projectile_damage" toml:"projectile_damage"`
	SpawnOffsetScale         float64 `yaml:"spawn_offset_scale" toml:"spawn_offset_scale"`
	LifetimeSeconds          float64 `yaml:"lifetime_seconds" toml:"lifetime_seconds"`
	ExplosionRadius          float64 `yaml:"explosion_radius" toml:"explosion_radius"`
	ExplosionDamage          int     `yaml:"explosion_damage" toml:"explosion_damage"`
	ExplosionImpulse         float64 `yaml:"explosion_impulse" toml:"explosion_impulse"`
	ExplosionDurationSeconds float64 `yaml:"explosion_duration_seconds" toml:"explosion_duration_seconds"`
}

// RearCannonsConfig tunes the rear cannons. Hardpoints are ship-local offsets.
type RearCannonsConfig struct {
	Name            string  `yaml:"name" toml:"name"`
	CooldownSeconds float64 `yaml:"cooldown_seconds" toml:"cooldown_seconds"`
	ProjectileSpeed float64 `yaml:"projectile_speed" toml:"projectile_speed"`
	LifetimeSeconds float64 `yaml:"lifetime_seconds" toml:"lifetime_seconds"`
	Hardpoints      []Point `yaml:"hardpoints" toml:"hardpoints"`
}

// ReplayConfig sizes the replay ring buffer.
type ReplayConfig struct {
	BufferSeconds float64 `yaml:"buffer_seconds" toml:"buffer_seconds"`
	TickRate      int     `yaml:"tick_rate" toml:"tick_rate"`
	Record        bool    `yaml:"record" toml:"record"`
}

// DebugConfig holds the initial presentation toggles.
type DebugConfig struct {
	Overlay     bool `yaml:"overlay" toml:"overlay"`
	Hitboxes    bool `yaml:"hitboxes" toml:"hitboxes"`
	Trails      bool `yaml:"trails" toml:"trails"`
	FPSSmoothed bool `yaml:"fps_smoothed" toml:"fps_smoothed"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow    float64 `yaml:"stats_window" toml:"stats_window"` // seconds of sim time per window
	PerfWindow     int     `yaml:"perf_window" toml:"perf_window"`   // ticks
	LogStats       bool    `yaml:"log_stats" toml:"log_stats"`
	PerfCollection bool    `yaml:"perf_collection" toml:"perf_collection"`
}

// InvariantsConfig controls the non-finite state scan.
type InvariantsConfig struct {
	ScanInterval int `yaml:"scan_interval" toml:"scan_interval"` // ticks, 0 disables
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FixedStep        float64 // seconds per tick
	MaxFrameSeconds  float64
	ReplayCapacity   int // frames held by the replay ring
	Tau              float64
	StatsWindowTicks int
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
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Decoding into the same struct only overwrites fields present in the file
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("parsing toml config file: %w", err)
			}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Timing.FixedFPS <= 0 {
		return fmt.Errorf("%w: timing.fixed_fps must be positive", ErrInvalidConfig)
	}
	if c.RNG.Modulus <= 1 {
		return fmt.Errorf("%w: rng.modulus must be greater than 1", ErrInvalidConfig)
	}
	if c.RNG.Multiplier <= 0 {
		return fmt.Errorf("%w: rng.multiplier must be positive", ErrInvalidConfig)
	}
	if c.RNG.Increment < 0 {
		return fmt.Errorf("%w: rng.increment must not be negative", ErrInvalidConfig)
	}
	// Multiplier*(Modulus-1)+Increment must fit in int64.
	if c.RNG.Multiplier > (math.MaxInt64-c.RNG.Increment)/(c.RNG.Modulus-1) {
		return fmt.Errorf("%w: rng.multiplier*(rng.modulus-1)+rng.increment overflows int64", ErrInvalidConfig)
	}
	if len(c.Noodle.Tiers) == 0 {
		return fmt.Errorf("%w: noodle.tiers is empty", ErrInvalidConfig)
	}
	for i := 1; i < len(c.Noodle.Tiers); i++ {
		if c.Noodle.Tiers[i].MinLongAxis > c.Noodle.Tiers[i-1].MinLongAxis {
			return fmt.Errorf("%w: noodle.tiers must be sorted by descending min_long_axis", ErrInvalidConfig)
		}
	}
	switch c.Weapons.DefaultID {
	case WeaponStraightShot, WeaponParabolicShot, WeaponBlastShot, WeaponRearCannons:
	default:
		return fmt.Errorf("%w: unknown weapons.default_id %q", ErrInvalidConfig, c.Weapons.DefaultID)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FixedStep = 1.0 / float64(c.Timing.FixedFPS)
	c.Derived.MaxFrameSeconds = c.Timing.MaxFrameMS / 1000
	c.Derived.ReplayCapacity = int(math.Floor(c.Replay.BufferSeconds * float64(c.Replay.TickRate)))
	c.Derived.Tau = 2 * math.Pi

	ticks := int(c.Telemetry.StatsWindow * float64(c.Timing.FixedFPS))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsWindowTicks = ticks
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

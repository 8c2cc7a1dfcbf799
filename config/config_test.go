package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Timing.FixedFPS)
	assert.Equal(t, int64(48271), cfg.RNG.Multiplier)
	assert.Equal(t, int64(2147483647), cfg.RNG.Modulus)
	assert.Equal(t, 50, cfg.World.MaxNoodles)
	assert.Equal(t, 200, cfg.World.MaxProjectiles)
	assert.Len(t, cfg.Noodle.Tiers, 3)
	assert.Len(t, cfg.Weapons.RearCannons.Hardpoints, 2)
	assert.Equal(t, WeaponStraightShot, cfg.Weapons.DefaultID)

	assert.InDelta(t, 1.0/60.0, cfg.Derived.FixedStep, 1e-12)
	assert.InDelta(t, 0.1, cfg.Derived.MaxFrameSeconds, 1e-12)
	assert.Equal(t, 600, cfg.Derived.ReplayCapacity)
	assert.Equal(t, 600, cfg.Derived.StatsWindowTicks)
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    "override.yaml",
			content: "rng:\n  seed: 42\nworld:\n  max_noodles: 10\n",
		},
		{
			name:    "toml",
			file:    "override.toml",
			content: "[rng]\nseed = 42\n\n[world]\nmax_noodles = 10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, int64(42), cfg.RNG.Seed)
			assert.Equal(t, 10, cfg.World.MaxNoodles)
			// untouched sections keep their defaults
			assert.Equal(t, 200, cfg.World.MaxProjectiles)
			assert.Equal(t, 3.4, cfg.Ship.TurnSpeed)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero fps", func(c *Config) { c.Timing.FixedFPS = 0 }},
		{"bad modulus", func(c *Config) { c.RNG.Modulus = 1 }},
		{"zero multiplier", func(c *Config) { c.RNG.Multiplier = 0 }},
		{"negative multiplier", func(c *Config) { c.RNG.Multiplier = -48271 }},
		{"negative increment", func(c *Config) { c.RNG.Increment = -1 }},
		{"recurrence overflows", func(c *Config) {
			c.RNG.Multiplier = 25214903917
			c.RNG.Increment = 11
			c.RNG.Modulus = 1 << 48
		}},
		{"no tiers", func(c *Config) { c.Noodle.Tiers = nil }},
		{"unsorted tiers", func(c *Config) {
			c.Noodle.Tiers = []NoodleTier{{MinLongAxis: 0, HP: 1}, {MinLongAxis: 60, HP: 3}}
		}},
		{"unknown weapon", func(c *Config) { c.Weapons.DefaultID = "laser" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateAcceptsLargestSafeMultiplier(t *testing.T) {
	cfg := Default()
	cfg.RNG.Modulus = 1 << 32
	cfg.RNG.Increment = 0
	cfg.RNG.Multiplier = math.MaxInt64 / (cfg.RNG.Modulus - 1)
	assert.NoError(t, cfg.Validate())

	cfg.RNG.Multiplier++
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.RNG.Seed = 99
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), loaded.RNG.Seed)
	assert.Equal(t, cfg.Noodle.Tiers, loaded.Noodle.Tiers)
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	defer func() { global = saved }()

	global = nil
	assert.Panics(t, func() { Cfg() })

	require.NoError(t, Init(""))
	assert.NotNil(t, Cfg())
}

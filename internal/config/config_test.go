package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		paths []string
	}{
		{
			name:  "bad log level",
			mod:   func(c *Config) { c.LogLevel = "loud" },
			paths: []string{"log_level"},
		},
		{
			name:  "warning is accepted",
			mod:   func(c *Config) { c.LogLevel = "WARNING" },
			paths: nil,
		},
		{
			name:  "frame rate too low",
			mod:   func(c *Config) { c.FrameRate = 0 },
			paths: []string{"frame_rate"},
		},
		{
			name:  "frame rate too high",
			mod:   func(c *Config) { c.FrameRate = 1000 },
			paths: []string{"frame_rate"},
		},
		{
			name: "major mode problems",
			mod: func(c *Config) {
				c.MajorModes = []MajorModeConfig{
					{Name: ""},
					{Name: "Empty"},
					{Name: "Sketch", Requires: []string{"Grid", ""}},
					{Name: "Sketch"},
				}
			},
			paths: []string{
				"major_modes[0].name",
				"major_modes[1].name",
				"major_modes[2].requires[1]",
				"major_modes[3].name",
			},
		},
		{
			name: "script problems",
			mod: func(c *Config) {
				c.Scripts = []ScriptConfig{
					{Name: "Ruler", Path: "ruler.lua"},
					{Name: "Ruler", Path: "ruler.py"},
				}
			},
			paths: []string{"scripts[1].name", "scripts[1].path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(cfg)

			err := cfg.Validate()
			var got []string
			for _, e := range multierr.Errors(err) {
				var verr *ValidationError
				require.True(t, errors.As(e, &verr), "unexpected error %v", e)
				got = append(got, verr.Path)
			}
			assert.Equal(t, tt.paths, got)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := &Config{LogLevel: "nope", FrameRate: -1}

	err := cfg.Validate()

	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "frame_rate")
}

func TestIsExclusiveDefaultsToTrue(t *testing.T) {
	no := false
	assert.True(t, MajorModeConfig{}.IsExclusive())
	assert.False(t, MajorModeConfig{Exclusive: &no}.IsExclusive())
}

func TestCloneIsDeep(t *testing.T) {
	yes := true
	cfg := Default()
	cfg.MajorModes = []MajorModeConfig{{Name: "Sketch", Requires: []string{"Grid"}, Exclusive: &yes}}
	cfg.Scripts = []ScriptConfig{{Name: "Ruler", Path: "ruler.lua"}}

	cp := cfg.Clone()
	cp.MajorModes[0].Requires[0] = "Points"
	*cp.MajorModes[0].Exclusive = false
	cp.Scripts[0].Name = "Other"

	assert.Equal(t, "Grid", cfg.MajorModes[0].Requires[0])
	assert.True(t, *cfg.MajorModes[0].Exclusive)
	assert.Equal(t, "Ruler", cfg.Scripts[0].Name)
}

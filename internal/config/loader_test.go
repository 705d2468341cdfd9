package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
log_level = "debug"
default_major_mode = "Sketch"
frame_rate = 30
watch = true

[[major_modes]]
name = "Sketch"
requires = ["Grid", "Points"]

[[major_modes]]
name = "Inspect"
requires = ["Grid"]
exclusive = false

[[scripts]]
name = "Ruler"
path = "scripts/ruler.lua"
`

const sampleYAML = `
log_level: debug
default_major_mode: Sketch
frame_rate: 30
watch: true
major_modes:
  - name: Sketch
    requires: [Grid, Points]
  - name: Inspect
    requires: [Grid]
    exclusive: false
scripts:
  - name: Ruler
    path: scripts/ruler.lua
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	for _, tc := range []struct {
		file    string
		content string
	}{
		{"stagecraft.toml", sampleTOML},
		{"stagecraft.yaml", sampleYAML},
		{"stagecraft.yml", sampleYAML},
	} {
		t.Run(tc.file, func(t *testing.T) {
			path := writeFile(t, tc.file, tc.content)

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "Sketch", cfg.DefaultMajorMode)
			assert.Equal(t, 30, cfg.FrameRate)
			assert.True(t, cfg.Watch)

			require.Len(t, cfg.MajorModes, 2)
			assert.Equal(t, []string{"Grid", "Points"}, cfg.MajorModes[0].Requires)
			assert.True(t, cfg.MajorModes[0].IsExclusive())
			assert.False(t, cfg.MajorModes[1].IsExclusive())

			require.Len(t, cfg.Scripts, 1)
			assert.Equal(t, filepath.Join(filepath.Dir(path), "scripts", "ruler.lua"), cfg.Scripts[0].Path)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultFrameRate, cfg.FrameRate)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "partial.toml", `log_level = "error"`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, DefaultFrameRate, cfg.FrameRate)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	for _, tc := range []struct{ file, content string }{
		{"bad.toml", "frame_rat = 30\n"},
		{"bad.yaml", "frame_rat: 30\n"},
	} {
		t.Run(tc.file, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.content))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.True(t, strings.HasSuffix(perr.Path, tc.file))
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeFile(t, "broken.toml", "log_level = \n"))

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "config.json", "{}"))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvDefaultMajorMode, "Inspect")
	t.Setenv(EnvFrameRate, "120")

	cfg, err := Load(writeFile(t, "stagecraft.toml", sampleTOML))

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "Inspect", cfg.DefaultMajorMode)
	assert.Equal(t, 120, cfg.FrameRate)
}

func TestEnvOverrideBadFrameRate(t *testing.T) {
	t.Setenv(EnvFrameRate, "fast")

	_, err := Load("")

	var eerr *EnvError
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, EnvFrameRate, eerr.Var)
}

func TestApplyEnvIgnoresEmptyValues(t *testing.T) {
	env := map[string]string{EnvLogLevel: ""}
	cfg := Default()

	err := applyEnv(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEncodeDecodeYAMLAndTOMLAgree(t *testing.T) {
	fromTOML := Default()
	require.NoError(t, Decode(fromTOML, FormatTOML, strings.NewReader(sampleTOML)))

	var buf bytes.Buffer
	require.NoError(t, Encode(fromTOML, FormatYAML, &buf))

	fromYAML := Default()
	require.NoError(t, Decode(fromYAML, FormatYAML, &buf))
	assert.Equal(t, fromTOML, fromYAML)
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b/C.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	f, err = FormatOf("x.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatOf("x.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

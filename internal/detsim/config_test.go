package detsim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigJSONDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"peakElectrons": 1000, "detector": {"gain": 2, "readNoise": 0}}`), false)
	require.NoError(t, err)
	assert.Equal(t, Real(1000), cfg.PeakElectrons)
	assert.Equal(t, Rows, cfg.Rows)
	assert.Equal(t, Cols, cfg.Cols)
	assert.Equal(t, Pattern, cfg.Pattern)
	assert.Equal(t, Frames, cfg.Frames)
	assert.Nil(t, cfg.Seed)

	want := DefaultDetectorCfg()
	want.Gain = 2
	want.ReadNoise = 0
	assert.Equal(t, want, cfg.Detector)
}

func TestParseConfigYAML(t *testing.T) {
	data := []byte(`
pattern: flat
rows: 10
cols: 20
peakElectrons: 500
seed: 42
frames: 3
detector:
  bitDepth: 14
  bias: 0
  disableShotNoise: true
`)
	cfg, err := ParseConfig(data, true)
	require.NoError(t, err)
	assert.Equal(t, "flat", cfg.Pattern)
	assert.Equal(t, 10, cfg.Rows)
	assert.Equal(t, 20, cfg.Cols)
	assert.Equal(t, 3, cfg.Frames)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, 14, cfg.Detector.BitDepth)
	assert.Equal(t, Real(0), cfg.Detector.Bias)
	assert.True(t, cfg.Detector.DisableShotNoise)
	assert.Equal(t, Real(Gain), cfg.Detector.Gain)
}

func TestParseConfigInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"malformed":      `{"rows": `,
		"unknown type":   `{"rows": "many"}`,
		"bad pattern":    `{"pattern": "checkerboard"}`,
		"negative peak":  `{"peakElectrons": -1}`,
		"negative work":  `{"workers": -2}`,
		"zero gain":      `{"detector": {"gain": 0}}`,
		"huge bit depth": `{"detector": {"bitDepth": 24}}`,
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(data), false)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}

	_, err := ParseConfig([]byte("rows: [1"), true)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseConfigPatternIgnoredWithInput(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"input": "in.raw", "pattern": "whatever"}`), false)
	require.NoError(t, err)
	assert.Equal(t, "in.raw", cfg.Input)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "run.yml")
	require.NoError(t, os.WriteFile(yml, []byte("rows: 7\n"), 0o600))
	cfg, err := LoadConfig(yml)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Rows)

	js := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(js, []byte(`{"cols": 9}`), 0o600))
	cfg, err = LoadConfig(js)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Cols)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"detector": {"fullWell": -5}}`), 0o600))
	_, err = LoadConfig(bad)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "bad.json")

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

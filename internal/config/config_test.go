package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100, cfg.Population.Size)
	assert.Equal(t, 100.0, cfg.Population.Mean)
	assert.Equal(t, 10.0, cfg.Population.StdDev)
	assert.Equal(t, 5, cfg.Population.RankSize)
	assert.Equal(t, 0.5, cfg.GeneticWeight())
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, cfg.Sweep.Weights)
	assert.Positive(t, cfg.Sweep.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadKeepsExplicitZeroWeight(t *testing.T) {
	path := writeConfig(t, "seed: 7\npopulation:\n  size: 20\nweight:\n  genetic: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 20, cfg.Population.Size)
	assert.Equal(t, 0.0, cfg.GeneticWeight())
	assert.Equal(t, 5, cfg.Run.Rounds)
}

func TestLoadRejectsOutOfRangeWeight(t *testing.T) {
	path := writeConfig(t, "weight:\n  genetic: 1.5\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrGeneticWeight)
}

func TestLoadRejectsNegativeSize(t *testing.T) {
	path := writeConfig(t, "population:\n  size: -3\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrPopulationSize)
}

func TestLoadRejectsBadSweepWeight(t *testing.T) {
	path := writeConfig(t, "sweep:\n  weights: [0.2, -1]\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrGeneticWeight)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "population: [1, 2\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadShippedDefaultConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "default.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default().Population, cfg.Population)
	assert.True(t, cfg.Logging.EveryRound)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Population, cfg.Population)

	path := writeConfig(t, "population:\n  size: 12\n")
	cfg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Population.Size)

	path = writeConfig(t, "population:\n  size: -1\n")
	_, err = LoadOrDefault(path)
	assert.ErrorIs(t, err, ErrPopulationSize)
}

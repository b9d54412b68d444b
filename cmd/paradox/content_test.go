package main

import (
	"path/filepath"
	"testing"

	"github.com/l1jgo/paradox/internal/config"
	"github.com/l1jgo/paradox/internal/core/event"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func repoConfig(t *testing.T) *config.Config {
	t.Helper()
	root := filepath.Join("..", "..")
	cfg, err := config.Load(filepath.Join(root, "config", "paradox.toml"))
	require.NoError(t, err)
	cfg.Data.Definitions = filepath.Join(root, cfg.Data.Definitions)
	cfg.Data.LevelsDir = filepath.Join(root, cfg.Data.LevelsDir)
	cfg.Data.ScriptsDir = filepath.Join(root, cfg.Data.ScriptsDir)
	return cfg
}

func TestShippedContentLoads(t *testing.T) {
	c, err := loadContent(repoConfig(t), "", zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "lab", c.level.Name)
	assert.Equal(t, 7, c.level.Width)
	assert.Equal(t, 5, c.level.Height)
	for _, owner := range []string{"item/cloner", "item/stabilizer", "item/charm", "building/digitizer", "building/resonator"} {
		assert.Contains(t, c.bound, owner)
	}
}

func TestDemoScriptPlaysThrough(t *testing.T) {
	cfg := repoConfig(t)
	src, level, err := loadScript(filepath.Join("..", "..", "data", "runs", "lab_demo.yaml"))
	require.NoError(t, err)
	c, err := loadContent(cfg, level, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	g, err := game.New(cfg, c.defs, c.level, c.bound, event.NewBus(), zap.NewNop())
	require.NoError(t, err)
	for {
		a, ok, err := src.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		if err := g.PlayerAction(a); err != nil {
			require.NoError(t, g.Err(), "no fatal error on %s", a)
		}
	}

	sum := g.Summary()
	assert.Equal(t, 1, sum.Clones)
	assert.Equal(t, 3, sum.Score, "one lens ground")
	cell, err := g.Cell(grid.Coord{X: 3, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, "grate", cell.Tile)
}

package main

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/behavior"
	"github.com/l1jgo/paradox/internal/config"
	"github.com/l1jgo/paradox/internal/data"
	"github.com/l1jgo/paradox/internal/scripting"
	"go.uber.org/zap"
)

// content is everything loaded from disk before a game can start.
type content struct {
	defs   *data.Arena
	level  *data.Level
	bound  behavior.Bound
	engine *scripting.Engine
}

func (c *content) Close() {
	if c.engine != nil {
		c.engine.Close()
	}
}

func loadContent(cfg *config.Config, level string, log *zap.Logger) (*content, error) {
	defs, err := data.Load(cfg.Data.Definitions)
	if err != nil {
		return nil, err
	}
	engine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return nil, fmt.Errorf("scripts: %w", err)
	}
	c := &content{defs: defs, engine: engine}

	table := behavior.NewTable(engine)
	c.bound, err = table.Bind(defs)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("bind behaviors: %w", err)
	}
	log.Debug("behaviors bound",
		zap.Strings("builtin", table.Names()),
		zap.Int("owners", len(c.bound)),
	)
	if level == "" {
		level = cfg.Game.Level
	}
	c.level, err = defs.LoadLevel(cfg.Data.LevelsDir, level)
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

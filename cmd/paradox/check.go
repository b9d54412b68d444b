package main

import (
	"github.com/spf13/cobra"
)

var checkLevel string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load config, definitions, scripts and a level, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.Logging)
		if err != nil {
			return err
		}
		defer log.Sync()

		c, err := loadContent(cfg, checkLevel, log)
		if err != nil {
			return err
		}
		defer c.Close()

		printSection("Definitions")
		printStat("items", c.defs.Items.Count())
		printStat("buildings", c.defs.Buildings.Count())
		printStat("tiles", c.defs.Tiles.Count())
		printStat("recipes", c.defs.Recipes.Count())
		printStat("actor kinds", c.defs.Actors.Count())
		printStat("behaviors bound", len(c.bound))
		printSection("Level " + c.level.Name)
		printStat("width", c.level.Width)
		printStat("height", c.level.Height)
		printStat("buildings", len(c.level.Buildings))
		printStat("floor items", len(c.level.Items))
		printOK("content is consistent")
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkLevel, "level", "", "level to load (default from config)")
}

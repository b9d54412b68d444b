package main

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/paradox/internal/persist"
	"github.com/spf13/cobra"
)

var (
	bestLevel string
	bestLimit int
)

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "List the highest-scoring runs of a level from the run ledger",
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := persist.Open(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("run ledger: %w", err)
		}
		defer db.Close()

		level := bestLevel
		if level == "" {
			level = cfg.Game.Level
		}
		runs, err := persist.NewRunRepo(db).Best(ctx, level, bestLimit)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		printSection("Best runs: " + level)
		out := cmd.OutOrStdout()
		for _, r := range runs {
			fmt.Fprintf(out, "  %s  score %-4d turns %-4d clones %-3d %s\n",
				r.EndedAt.Format(time.DateTime), r.Score, r.Turns, r.Clones, r.Outcome)
		}
		return nil
	},
}

func init() {
	bestCmd.Flags().StringVar(&bestLevel, "level", "", "level (default from config)")
	bestCmd.Flags().IntVar(&bestLimit, "limit", 10, "rows to show")
}

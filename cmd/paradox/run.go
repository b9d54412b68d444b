package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l1jgo/paradox/internal/core/event"
	coresys "github.com/l1jgo/paradox/internal/core/system"
	"github.com/l1jgo/paradox/internal/game"
	"github.com/l1jgo/paradox/internal/persist"
	"github.com/l1jgo/paradox/internal/system"
	"github.com/l1jgo/paradox/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runScript   string
	runLevel    string
	metricsFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a level from a script file or from stdin",
	RunE:  runGame,
}

func init() {
	runCmd.Flags().StringVar(&runScript, "script", "", "YAML action script (default: read actions from stdin)")
	runCmd.Flags().StringVar(&runLevel, "level", "", "level to play (overrides config and script)")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics here when the run ends")
}

func runGame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	var src system.Source = newLineSource(cmd.InOrStdin())
	level := runLevel
	if runScript != "" {
		script, scriptLevel, err := loadScript(runScript)
		if err != nil {
			return err
		}
		src = script
		if level == "" {
			level = scriptLevel
		}
	}

	c, err := loadContent(cfg, level, log)
	if err != nil {
		return err
	}
	defer c.Close()

	bus := event.NewBus()
	reg := prometheus.NewRegistry()
	telemetry.New(reg).Subscribe(bus)

	g, err := game.New(cfg, c.defs, c.level, c.bound, bus, log)
	if err != nil {
		return err
	}

	intent := &system.Intent{}
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(src, intent, g, log))
	runner.Register(system.NewSimulationSystem(intent, g, log))
	runner.Register(system.NewEventSystem(bus, log))
	runner.Register(system.NewReportSystem(g, log))

	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.Open(ctx, cfg.Database, log)
		cancel()
		if err != nil {
			return fmt.Errorf("run ledger: %w", err)
		}
		defer db.Close()
		ps := system.NewPersistenceSystem(g, persist.NewRunRepo(db), log)
		runner.Register(ps)
		log.Info("run started", zap.String("run", ps.RunID().String()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	for !g.Over() {
		if ctx.Err() != nil {
			log.Info("interrupted")
			g.Finish()
			break
		}
		if runErr = runner.Tick(); runErr != nil {
			break
		}
	}
	// One more step delivers the last events and writes the ledger row.
	if err := runner.Tick(); err != nil && runErr == nil {
		runErr = err
	}

	sum := g.Summary()
	printSection("Run")
	printStat("turns", sum.Turns)
	printStat("score", sum.Score)
	printStat("clones", sum.Clones)
	printOK("outcome: " + sum.Outcome)

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			log.Error("write metrics", zap.String("file", metricsFile), zap.Error(err))
		}
	}
	if runErr == nil {
		runErr = g.Err()
	}
	return runErr
}

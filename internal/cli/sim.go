package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/calder/browsershell/internal/config"
	"github.com/calder/browsershell/internal/logging"
	"github.com/calder/browsershell/internal/session"
	"github.com/calder/browsershell/internal/sim"
)

var (
	simHeadless bool
	simDuration time.Duration
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the interactive shell simulator",
	Long: `Drive the layout orchestrator and chrome controller in a terminal.

Digits switch layouts, 't' flashes the chrome strip, 'j'/'k' simulate
content scrolling, and arrow keys synthesize swipe gestures. With
--headless a scripted interaction runs without a tty instead.`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().BoolVar(&simHeadless, "headless", false, "run a scripted interaction without a tty")
	simCmd.Flags().DurationVar(&simDuration, "duration", 5*time.Second, "headless run duration")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, _ []string) error {
	cfg := manager.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(cmd.Context(), logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager.OnConfigChange(func(_ *config.Config) {
		logger.Info().Msg("configuration reloaded; restart sim to apply")
	})
	if err := manager.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config watch unavailable")
	}

	if simHeadless {
		return sim.RunHeadless(ctx, cfg, sim.HeadlessOptions{Duration: simDuration})
	}

	var store *session.Store
	if cfg.Session.DatabasePath != "" {
		var err error
		store, err = session.Open(ctx, cfg.Session.DatabasePath)
		if err != nil {
			logger.Warn().Err(err).Msg("session store unavailable, continuing without persistence")
			store = nil
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	model, err := sim.New(ctx, cfg, store)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := program.Run()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})
	return g.Wait()
}

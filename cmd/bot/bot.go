package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/ludbot/internal/commands"
	"github.com/yourusername/ludbot/internal/config"
	"github.com/yourusername/ludbot/internal/database"
	boterrors "github.com/yourusername/ludbot/internal/errors"
	"github.com/yourusername/ludbot/internal/irc"
	"github.com/yourusername/ludbot/internal/maintenance"
	"github.com/yourusername/ludbot/internal/output"
	"github.com/yourusername/ludbot/internal/provider"
	"github.com/yourusername/ludbot/internal/shutdown"
)

const (
	shutdownTimeout = 5 * time.Second
	inflightTimeout = 3 * time.Second
)

func runBot(cmd *cobra.Command, opts *cliOptions) error {
	logger := output.NewColorLogger()
	logger.Info("LudBot %s - Starting...", version)

	cfg, err := config.LoadOrCreate(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := opts.overrides(cmd).Apply(cfg); err != nil {
		return fmt.Errorf("invalid command-line settings: %w", err)
	}
	logger.Success("Configuration loaded")

	out, err := output.NewOutput(logger, cfg.Logging.ErrorLog, cfg.Logging.MaxLogSizeMB, cfg.Logging.MaxLogFiles)
	if err != nil {
		return fmt.Errorf("failed to initialize output: %w", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Success("Event store ready at %s", db.Path())

	client := provider.NewClient(cfg.Providers, "LudBot/"+version, logger)
	dispatcher, err := newDispatcher(cfg, client, db, logger)
	if err != nil {
		_ = db.Close()
		return err
	}

	params := cfg.ConnectionParams()
	supervisor := irc.NewSupervisor(func() (irc.Runner, error) {
		session, err := irc.NewSession(irc.Options{
			Params:           params,
			Output:           out,
			Commands:         dispatcher,
			Events:           db,
			ConnectTimeout:   cfg.Limits.GetConnectTimeoutDuration(),
			MaxNickSuffix:    cfg.Limits.MaxNickSuffix,
			MaxMessageLength: cfg.Bot.MaxMessageLength,
		})
		if err != nil {
			return nil, err
		}
		return session, nil
	}, logger, cfg.Limits.ConnectAttempts, cfg.Limits.GetRetryDelayDuration())

	pruner := maintenance.New(db, logger,
		cfg.Database.GetCleanupIntervalDuration(), cfg.Database.GetRetentionDuration())

	handler := shutdown.NewHandler(cmd.Context(), logger, shutdownTimeout)

	handler.RegisterShutdownFunc("commands", func() error {
		logger.Info("Waiting for in-flight commands...")
		if !dispatcher.WaitForInflight(inflightTimeout) {
			logger.Warning("Some commands did not finish within %v", inflightTimeout)
		}
		return nil
	})
	handler.RegisterShutdownFunc("usage summary", func() error {
		return logUsageSummary(db, logger)
	})
	handler.RegisterShutdownFunc("database", func() error {
		logger.Info("Closing event store...")
		return db.Close()
	})

	logCommands(dispatcher, logger)

	err = serve(handler, supervisor.Run, pruner.Run)
	if err != nil {
		boterrors.NewErrorHandler(out).LogError(err, "LudBot stopped")
		return err
	}
	logger.Success("LudBot has shut down gracefully. Goodbye!")
	return nil
}

// serve runs the supervisor and the background tasks until the supervisor
// returns or an interrupt arrives. The shutdown steps run only after every
// task has stopped.
func serve(handler *shutdown.Handler, supervise func(context.Context) error, background ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(handler.Context())
	g.Go(func() error {
		defer handler.Trigger()
		return supervise(ctx)
	})
	for _, task := range background {
		g.Go(func() error {
			return task(ctx)
		})
	}

	err := g.Wait()
	handler.Shutdown()
	return err
}

func newDispatcher(cfg *config.Config, client *provider.Client, db *database.DB, logger output.Logger) (*commands.Dispatcher, error) {
	registry := commands.NewRegistry()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	for _, cmd := range []commands.Command{
		commands.NewHelloCommand(),
		commands.NewSlapCommand(logger, rng),
		commands.NewJokeCommand(client, cfg.Bot.GetJokeDelayDuration(), logger),
	} {
		if err := registry.Register(cmd); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", cmd.Name(), err)
		}
	}

	return commands.NewDispatcher(
		registry,
		commands.NewUnknownCommand(),
		commands.NewFactCommand(client, logger),
		logger,
		db,
	), nil
}

func logUsageSummary(db *database.DB, logger output.Logger) error {
	counts, err := db.CommandCounts()
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		logger.Info("No commands were used this session")
		return nil
	}

	logger.Info("Command usage:")
	for _, c := range counts {
		logger.Info("  !%s: %d", c.Command, c.Count)
	}
	return nil
}

func logCommands(d *commands.Dispatcher, logger output.Logger) {
	registry := d.GetRegistry()
	logger.Info("Commands:")
	for _, name := range registry.List() {
		if cmd, ok := registry.Get(name); ok {
			logger.Info("  %s", cmd.Help())
		}
	}
}

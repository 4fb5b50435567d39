package main

import (
	"github.com/limaJavier/confsched/internal/config"
	"github.com/limaJavier/confsched/internal/logger"
	"github.com/limaJavier/confsched/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every command shares once the configuration is loaded
type app struct {
	configPath string
	config     *config.Config
	logger     zerolog.Logger
	recorder   *metrics.Recorder
}

func newRootCommand() *cobra.Command {
	app := &app{}

	root := &cobra.Command{
		Use:           "confsched",
		Short:         "Conference scheduler: assigns events to slots and rooms and validates schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load()
		},
	}
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "configuration file (JSON or YAML); CONFSCHED_* variables override it")

	root.AddCommand(newSolveCommand(app), newValidateCommand(app), newBenchmarkCommand(app))
	return root
}

func (app *app) load() error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return err
	}
	app.config = cfg
	app.logger = logger.New("cli", cfg.Logging.Level, cfg.Logging.Format)
	app.recorder = metrics.NewRecorder()
	return nil
}

// exit flushes the metrics and terminates the command with the given exit-code
func (app *app) exit(code int) error {
	if err := app.flush(); err != nil {
		return err
	}
	return exitError{code: code}
}

// Writes the metrics textfile when one is configured
func (app *app) flush() error {
	if app.config == nil || app.config.Metrics.Textfile == "" {
		return nil
	}
	if err := app.recorder.WriteToTextfile(app.config.Metrics.Textfile); err != nil {
		app.logger.Error().Err(err).Str("path", app.config.Metrics.Textfile).Msg("cannot write metrics")
		return err
	}
	return nil
}

// Command attendlyctl generates attendance reports and manages the report
// database without running the HTTP service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	lang    string
}

// app holds what every command needs once configuration is loaded
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	publisher *events.AttendanceEventPublisher
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "attendlyctl",
		Short:         "Attendance report tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", i18n.DefaultLocale, "Report language (es, en)")

	cmd.AddCommand(
		newReportCmd(&opts),
		newSettingsCmd(&opts),
		newDBCmd(&opts),
	)

	return cmd
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "attendlyctl: %v\n", err)
		os.Exit(1)
	}
}

// loadApp reads configuration and opens the database. Logs go to stderr so
// stdout stays usable for command output.
func loadApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load("attendlyctl")
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.NewWithWriter("attendlyctl", cmd.ErrOrStderr()).AtLevel(level)

	if err := cfg.Database.Validate(cfg.Server.Environment); err != nil {
		return nil, fmt.Errorf("database configuration error: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		publisher: events.NewAttendanceEventPublisher(nil, log),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// settingsStore loads the report settings without watching the file
func (a *app) settingsStore() (*settings.Store, error) {
	return settings.NewStore(a.cfg.Reports.SettingsPath, a.publisher, a.log.WithComponent("settings"))
}

func commandContext(cmd *cobra.Command, opts *rootOptions) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return i18n.WithLocale(ctx, i18n.ParseAcceptLanguage(opts.lang))
}

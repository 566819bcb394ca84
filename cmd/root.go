package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/command"
	"github.com/Tiliavir/tlog/internal/config"
	"github.com/Tiliavir/tlog/internal/logging"
	"github.com/Tiliavir/tlog/internal/reporting"
	"github.com/Tiliavir/tlog/internal/storage"
	"github.com/Tiliavir/tlog/internal/tracker"
)

var (
	dataDir  string
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "tlog",
	Short: "tlog – a keyboard-driven personal time tracker",
	Long: `tlog records what you work on with one-line commands such as
"S fixing the build #FOO-1 @9:00" and summarises the time per issue and day.
All data is stored in ~/.tlog/ (override with $TLOG_HOME or --data-dir).`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Exit codes.
const (
	exitUserError    = 1
	exitStorageError = 2
)

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilentFailure) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// errSilentFailure sets a failing exit code after the command already
// reported the problem itself.
var errSilentFailure = errors.New("failed")

func exitCode(err error) int {
	if errors.Is(err, tracker.ErrStorage) {
		return exitStorageError
	}
	return exitUserError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default $TLOG_HOME or ~/.tlog)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(doCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syntaxCmd)
	rootCmd.AddCommand(uiCmd)
}

// app is what every command works with once the data directory is open.
type app struct {
	base    string
	cfg     config.Config
	logger  *log.Logger
	tracker *tracker.Tracker
}

// openApp loads the config and opens the stores. Callers must close the
// returned app.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	base := dataDir
	if base == "" {
		var err error
		if base, err = storage.BaseDir(); err != nil {
			return nil, fmt.Errorf("%w: %w", tracker.ErrStorage, err)
		}
	}

	cfg, warning, err := config.Load(base)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		logger.Warn("config", "err", warning)
	}

	events, err := storage.OpenEventLog(ctx, base, cfg.Storage.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tracker.ErrStorage, err)
	}
	opener, err := reporting.NewOpener(ctx, cfg.Report)
	if err != nil {
		_ = events.Close()
		return nil, err
	}
	logger.Debug("opened data directory", "dir", base, "backend", cfg.Storage.Backend, "report_mode", cfg.Report.Mode)

	return &app{
		base:   base,
		cfg:    cfg,
		logger: logger,
		tracker: tracker.New(tracker.Options{
			Log:     events,
			Aliases: storage.NewAliasStore(base),
			Reports: &reporting.Dispatcher{
				Templates: storage.NewReportURLStore(base),
				Opener:    opener,
			},
			WindowDays: cfg.WindowDays,
			Logger:     logger,
		}),
	}, nil
}

func (a *app) Close() error { return a.tracker.Close() }

// isUserError reports whether err was caused by the typed input.
func isUserError(err error) bool {
	return errors.Is(err, command.ErrInvalid) || errors.Is(err, command.ErrIncomplete)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/state"
	"taskflow-cli/internal/store"
	"taskflow-cli/internal/tui"
)

type App struct {
	BaseURL   string
	ConfigDir string
	Debug     bool

	logger *zap.Logger
}

func (a *App) Store() store.Store { return store.Store{Dir: a.ConfigDir} }

func (a *App) Client() *api.Client {
	return api.New(a.BaseURL, a.logger)
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskflow",
		Short:        "Терминальный клиент taskflow",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskflow

  # Scriptable commands
  taskflow login pm
  taskflow whoami
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// .env is optional; env vars and flags win over it.
		_ = godotenv.Load()
		if app.BaseURL == "" {
			app.BaseURL = envOr("TASKFLOW_BASE_URL", "http://localhost:8080")
		}
		if app.ConfigDir == "" {
			app.ConfigDir = store.DefaultDir()
		}
		if !app.Debug {
			app.Debug = envOr("TASKFLOW_DEBUG", "") != ""
		}
		return app.initLogger()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Backend base URL (default: $TASKFLOW_BASE_URL or http://localhost:8080)")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Config directory (session, preferences, UI state)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Debug logging")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newLogoutCmd(app))

	return cmd
}

// initLogger writes to a file under the config dir: the TUI owns the
// terminal, so nothing may log to stdout.
func (a *App) initLogger() error {
	if err := (store.Store{Dir: a.ConfigDir}).Ensure(); err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(a.ConfigDir, "taskflow.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	if a.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger
	return nil
}

func runTUI(a *App) error {
	st := a.Store()
	sess, err := st.LoadSession()
	if err != nil {
		return err
	}
	client := a.Client()
	if sess != nil {
		client.SetActor(sess.Login)
	}
	appState := state.NewApp(client)
	appState.SetSession(sess)
	return tui.Run(appState, st, client, a.logger)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

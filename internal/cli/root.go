package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/roadmap-builder/internal/app"
	"github.com/nhle/roadmap-builder/internal/auth"
	"github.com/nhle/roadmap-builder/internal/credential"
	"github.com/nhle/roadmap-builder/internal/logging"
	"github.com/nhle/roadmap-builder/internal/metrics"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/store"
	appsync "github.com/nhle/roadmap-builder/internal/sync"
	"github.com/nhle/roadmap-builder/internal/workspace"
)

// errNotSignedIn is returned by commands that need a session.
var errNotSignedIn = errors.New("not signed in; run `roadmap login <name>` first")

// App carries flag values and the collaborators opened for one invocation.
type App struct {
	ConfigPath  string
	DBPath      string
	MetricsAddr string
	Output      string

	cfg     *model.AppConfig
	logger  *slog.Logger
	store   *store.SQLiteStore
	session *auth.Session
	closers []io.Closer

	stopMetrics context.CancelFunc

	// openSecrets opens the session keyring. Tests swap in an in-memory ring.
	openSecrets func(model.AuthConfig) (auth.SecretStore, error)
}

// NewRootCmd builds the roadmap command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{
		openSecrets: func(cfg model.AuthConfig) (auth.SecretStore, error) {
			k, err := credential.Open(cfg)
			if err != nil {
				return nil, err
			}
			return k, nil
		},
	})
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "roadmap",
		Short:        "Build phased roadmaps with milestones from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive builder
  roadmap

  # Sign in and list your roadmaps
  roadmap login "Ada Lovelace"
  roadmap list

  # Upgrade and export the newest roadmap as YAML
  roadmap upgrade monthly
  roadmap export --format yaml --out ./exports
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(a)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.open()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.close()
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("ROADMAP_CONFIG", model.DefaultConfigPath()), "Path to the config file")
	cmd.PersistentFlags().StringVar(&a.DBPath, "db", envOr("ROADMAP_DB", ""), "Path to the SQLite database (overrides storage.path)")
	cmd.PersistentFlags().StringVar(&a.MetricsAddr, "metrics-addr", envOr("ROADMAP_METRICS_ADDR", ""), "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.PersistentFlags().StringVarP(&a.Output, "output", "o", "text", "Output format (text|json|yaml)")

	cmd.AddCommand(newPlansCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newCreateCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newUpgradeCmd(a))
	cmd.AddCommand(newExportCmd(a))

	return cmd
}

// open loads configuration and opens the log, store and keyring.
func (a *App) open() error {
	cfg, err := model.LoadConfig(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.DBPath != "" {
		cfg.Storage.Path = a.DBPath
	}
	a.cfg = cfg

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	a.logger = logger
	a.closers = append(a.closers, logCloser)

	if dir := filepath.Dir(cfg.Storage.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	a.store = st
	a.closers = append(a.closers, st)

	secrets, err := a.openSecrets(cfg.Auth)
	if err != nil {
		return err
	}
	a.session = auth.NewSession(secrets, st)

	if a.MetricsAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopMetrics = cancel
		go func() {
			if err := metrics.Serve(ctx, a.MetricsAddr); err != nil {
				logger.Error("metrics server stopped", "addr", a.MetricsAddr, "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", a.MetricsAddr)
	}
	return nil
}

// close releases everything open opened. It is safe to call twice.
func (a *App) close() error {
	if a.stopMetrics != nil {
		a.stopMetrics()
		a.stopMetrics = nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func runTUI(a *App) error {
	saver := appsync.NewSaver(a.store, a.logger)
	defer saver.Stop()

	m := app.New(app.Options{
		Config:     *a.cfg,
		ConfigPath: a.ConfigPath,
		Store:      a.store,
		Session:    a.session,
		Saver:      saver,
		Logger:     a.logger,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// signedInWorkspace restores the session and loads its workspace. Writes go
// straight to the store.
func (a *App) signedInWorkspace(ctx context.Context) (*workspace.Workspace, *appsync.Direct, error) {
	user, err := a.session.Restore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, errNotSignedIn
	}

	direct := appsync.NewDirect(a.store, a.logger)
	ws := workspace.New(*user, direct, a.logger)
	if err := ws.Load(ctx, a.store); err != nil {
		return nil, nil, err
	}
	return ws, direct, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v as JSON or YAML, or calls text for the default format.
func writeOut(cmd *cobra.Command, a *App, v any, text func(io.Writer) error) error {
	w := cmd.OutOrStdout()
	switch strings.ToLower(a.Output) {
	case "", "text":
		return text(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", a.Output)
	}
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

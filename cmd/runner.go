package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/repositories"
	"github.com/desertthunder/pifi/internal/services"
	"github.com/desertthunder/pifi/internal/session"
	"github.com/desertthunder/pifi/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// tokenStore is the credential store plus removal, as provided by [repositories.TokenRepository].
type tokenStore interface {
	session.CredentialStore
	Delete(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	loadConfig bool
	remote     services.Remote
	store      tokenStore
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config path before any command runs. Remote and Store replace the Spotify client and the sqlite token store when set.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Remote     services.Remote
	Store      tokenStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	loadConfig := opts.Config == nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		loadConfig: loadConfig,
		remote:     opts.Remote,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, authCommand, devicesCommand, playlistsCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// LoadConfig loads settings (file, then environment) unless a config was injected, and applies the log level.
func (r *Runner) LoadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.loadConfig {
		path := cmd.String("config")
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = path
		r.loadConfig = false
	}

	level := r.config.LogLevel
	if flag := cmd.String("log-level"); flag != "" {
		level = flag
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// requireConfig is the startup check for commands that talk to Spotify.
func (r *Runner) requireConfig() error {
	return r.config.Validate()
}

func (r *Runner) oauthConfig() *oauth2.Config {
	return services.NewOAuthConfig(r.config.ClientID, r.config.ClientSecret, r.config.RedirectURI, r.config.ScopeList())
}

// credentialStore opens the sqlite token store, running migrations. The returned func closes it.
func (r *Runner) credentialStore() (tokenStore, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewTokenRepository(db, r.config.ClientID), func() { db.Close() }, nil
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	path := r.config.DatabasePath()
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Debug("database ready", "path", path)
	return db, nil
}

// newRemote builds the Spotify remote for tok, persisting refreshed tokens to store.
func (r *Runner) newRemote(ctx context.Context, store session.CredentialStore, tok *oauth2.Token) services.Remote {
	if r.remote != nil {
		return r.remote
	}
	client := session.NewHTTPClient(ctx, r.oauthConfig(), store, tok, r.logger)
	return services.NewSpotifyService(services.SpotifyOpts{HTTPClient: client, Logger: r.logger})
}

// connectedRemote returns a remote for one-shot commands, failing when nobody has logged in yet.
func (r *Runner) connectedRemote(ctx context.Context) (services.Remote, func(), error) {
	if err := r.requireConfig(); err != nil {
		return nil, nil, err
	}
	store, closeStore, err := r.credentialStore()
	if err != nil {
		return nil, nil, err
	}

	tok, err := store.CachedToken(ctx)
	if err != nil || !session.ValidateToken(tok) {
		closeStore()
		return nil, nil, fmt.Errorf("%w: run 'pifi auth login' first", shared.ErrNotAuthenticated)
	}
	return r.newRemote(ctx, store, tok), closeStore, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

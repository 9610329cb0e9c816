package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pifi/internal/input"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/player"
	"github.com/desertthunder/pifi/internal/server"
	"github.com/desertthunder/pifi/internal/session"
	"github.com/desertthunder/pifi/internal/shared"
	"github.com/desertthunder/pifi/internal/ui"
	"github.com/mdp/qrterminal/v3"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Run starts the remote. Configuration problems are fatal before anything else starts.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireConfig(); err != nil {
		return err
	}

	headless := cmd.Bool("headless")
	if !headless {
		logPath := cmd.String("log-file")
		if logPath == "" {
			logPath = filepath.Join(filepath.Dir(r.config.DatabasePath()), "pifi.log")
		}
		fileLogger, err := shared.NewFileLogger(logPath)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		shared.SetLogLevel(fileLogger, r.config.LogLevel)
		r.SetLogger(fileLogger)
	}

	store, closeStore, err := r.credentialStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gate := session.NewGate(store, session.NewAuthorization(r.oauthConfig()), r.logger)
	listenErr := r.startCallbackListener(ctx, gate.Authorization(), store)
	connect := r.connector(ctx, store)

	if headless {
		return r.runHeadless(ctx, gate, connect, listenErr)
	}
	return r.runTUI(ctx, gate, connect)
}

// startCallbackListener serves the OAuth redirect for the lifetime of ctx. Listener failures are reported on
// the returned channel and logged.
func (r *Runner) startCallbackListener(ctx context.Context, auth *session.Authorization, store session.CredentialStore) <-chan error {
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewCallbackHandler(auth, store, r.config.RedirectURI, r.logger))

	errc := make(chan error, 1)
	go func() {
		if err := server.Listen(ctx, r.config.Server.ListenAddr, router, r.logger); err != nil {
			r.logger.Error("callback listener stopped", "error", err)
			errc <- err
		}
	}()
	return errc
}

// connector wires an authenticated token to a running player and the hardware input pump. Both live as long
// as ctx, not the caller's context.
func (r *Runner) connector(ctx context.Context, store session.CredentialStore) ui.Connector {
	return func(_ context.Context, tok *oauth2.Token) (*player.Player, error) {
		remote := r.newRemote(ctx, store, tok)
		p := player.New(remote, player.Options{
			DeviceName: r.config.DeviceName,
			Artwork:    player.NewHTTPArtworkFetcher(r.httpClient, player.ArtworkSize),
			Logger:     r.logger,
		})
		p.Start(ctx)

		pump := input.NewPump(r.inputSource(), p, r.config.VolumeStep, r.logger)
		go func() {
			if err := pump.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("input stopped", "error", err)
			}
		}()
		return p, nil
	}
}

// inputSource returns the GPIO source, or a silent one when no hardware is available.
func (r *Runner) inputSource() input.Source {
	src, err := input.NewGPIOSource(r.config.GPIO, r.logger)
	if err != nil {
		r.logger.Warn("hardware input disabled", "error", err)
		return input.NopSource{}
	}
	return src
}

func (r *Runner) runTUI(ctx context.Context, gate *session.Gate, connect ui.Connector) error {
	model := ui.NewModel(ctx, gate, connect, r.config.VolumeStep, r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func (r *Runner) runHeadless(ctx context.Context, gate *session.Gate, connect ui.Connector, listenErr <-chan error) error {
	if gate.Check(ctx) != session.Authenticated {
		r.printAuthorization(gate.Authorization().URL())
	}

	pollCtx, stopPoll := context.WithCancel(ctx)
	defer stopPoll()
	go func() {
		select {
		case <-listenErr:
			stopPoll()
		case <-pollCtx.Done():
		}
	}()

	tok, err := gate.Poll(pollCtx, session.PollInterval)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%w: callback listener unavailable", shared.ErrServiceUnavailable)
	}

	p, err := connect(ctx, tok)
	if err != nil {
		return err
	}
	playlists, err := p.Login(ctx)
	if err != nil {
		r.logger.Warn("failed to load playlists", "error", err)
	} else {
		r.logger.Info("playlists loaded", "count", len(playlists))
	}

	loop := player.NewLoop(p, player.SyncInterval, func(np models.NowPlaying) {
		r.logger.Info("now playing",
			"title", np.Title,
			"artists", np.Artists,
			"playing", np.Playing,
			"position", np.Position.Truncate(time.Second),
			"volume", np.VolumePercent)
	}, r.logger)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (r *Runner) printAuthorization(url string) {
	r.writePlainHeader("Authorize Pi-Fi")
	r.writePlain("Scan the code or open the URL below:\n\n")
	qrterminal.GenerateHalfBlock(url, qrterminal.L, r.output)
	r.writePlainln("%s", url)
}

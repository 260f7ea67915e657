package app

import (
	"context"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/five82/tonearm/internal/config"
	"github.com/five82/tonearm/internal/event"
	"github.com/five82/tonearm/internal/logging"
	"github.com/five82/tonearm/internal/musicd"
	"github.com/five82/tonearm/internal/notify"
	"github.com/five82/tonearm/internal/prefs"
	"github.com/five82/tonearm/internal/state"
	"github.com/five82/tonearm/internal/ui"
	"github.com/five82/tonearm/internal/wsconn"
)

// Options configure the interactive application.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses ~/.config/tonearm/prefs.toml
}

// Run boots the tonearm TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("load prefs")
	}

	client, err := musicd.NewClient(cfg.Host)
	if err != nil {
		return fmt.Errorf("init musicd client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := ui.NewFeed()
	rec := state.New(state.Options{
		API:        client,
		Renderer:   feed,
		Quiescence: cfg.GuardQuiescence,
		Context:    ctx,
		Logger:     logger,
		Downloader: cfg.Downloader,
	})

	conn := start(ctx, rec, client, cfg, logger)
	defer conn.Close(websocket.CloseNormalClosure, "tonearm exiting")

	logger.Info().Str("host", client.BaseURL()).Str("push", conn.Endpoint()).Msg("tonearm started")
	return ui.Run(ui.Options{
		Context:   ctx,
		Controls:  rec,
		Feed:      feed,
		Notifier:  notify.New(cfg.Notifications, logger),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
		Host:      client.BaseURL(),
	})
}

// start connects the push channel and begins polling. The poller's first
// request fires immediately and its renders queue in the feed until the UI
// is up.
func start(ctx context.Context, rec *state.Reconciler, client *musicd.Client, cfg config.Config, logger zerolog.Logger) *wsconn.Conn {
	conn := newConn(client, cfg, logger)
	BindPush(conn, rec, logger)
	conn.Open(ctx)
	StartPoller(ctx, rec, client, cfg.PollInterval, logger)
	return conn
}

func newConn(client *musicd.Client, cfg config.Config, logger zerolog.Logger) *wsconn.Conn {
	return wsconn.New(client.PushURL(), wsconn.Options{
		Heartbeat: cfg.HeartbeatInterval,
		BaseDelay: cfg.ReconnectBase,
		MaxDelay:  cfg.ReconnectMax,
		Logger:    logger,
	})
}

// Watch prints every pushed event as one line until ctx is cancelled.
func Watch(ctx context.Context, cfg config.Config, out io.Writer, logger zerolog.Logger) error {
	client, err := musicd.NewClient(cfg.Host)
	if err != nil {
		return fmt.Errorf("init musicd client: %w", err)
	}
	conn := newConn(client, cfg, logger)
	printer := &eventPrinter{out: out}
	BindPush(conn, printer, logger)
	conn.Open(ctx)
	defer conn.Close(websocket.CloseNormalClosure, "watch finished")

	<-ctx.Done()
	return nil
}

// eventPrinter writes push traffic as text for the watch command.
type eventPrinter struct {
	out io.Writer
}

func (p *eventPrinter) SetConnected(live bool) {
	if live {
		fmt.Fprintln(p.out, "# connected")
	} else {
		fmt.Fprintln(p.out, "# disconnected, retrying")
	}
}

func (p *eventPrinter) OnRemoteEvent(e event.Event) {
	frame, err := event.Encode(e)
	if err != nil {
		fmt.Fprintf(p.out, "%s\n", e.Type())
		return
	}
	fmt.Fprintf(p.out, "%s\n", frame)
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/five82/tonearm/internal/config"
	"github.com/five82/tonearm/internal/musicd"
	"github.com/five82/tonearm/internal/state"
)

// fakeDaemon serves the subset of musicd that tonearm talks to. Connecting
// to /ws moves the daemon to track 1 and pushes the matching event.
type fakeDaemon struct {
	mu       sync.Mutex
	index    int
	track    string
	commands []string
	push     string
	polls    int
}

func (d *fakeDaemon) handler() http.Handler {
	upgrader := websocket.Upgrader{}
	r := chi.NewRouter()
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		d.mu.Lock()
		d.polls++
		idx, track := d.index, d.track
		d.mu.Unlock()
		paused, volume := false, 0.5
		_ = json.NewEncoder(w).Encode(musicd.StatusResponse{
			CurrentIndex: idx,
			CurrentTrack: &track,
			IsPaused:     &paused,
			Volume:       &volume,
		})
	})
	r.Get("/playlists", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]musicd.Playlist{{Folder: "focus", Meta: musicd.PlaylistMeta{ID: "p1", Name: "Focus"}}})
	})
	r.Get("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	r.Post("/control/track/{idx}", func(w http.ResponseWriter, req *http.Request) {
		d.mu.Lock()
		d.commands = append(d.commands, "track "+chi.URLParam(req, "idx"))
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(musicd.CommandResponse{Success: true})
	})
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		d.mu.Lock()
		d.index, d.track = 1, "b.mp3"
		frame := d.push
		d.mu.Unlock()
		_ = ws.WriteMessage(websocket.TextMessage, []byte(frame))
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})
	return r
}

func (d *fakeDaemon) taken() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

func newFakeDaemon(t *testing.T) (*fakeDaemon, config.Config) {
	t.Helper()
	d := &fakeDaemon{
		track: "a.mp3",
		push:  `{"type":"TRACK_CHANGED","payload":{"idx":1,"name":"b.mp3"}}`,
	}
	srv := httptest.NewServer(d.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Host = srv.URL
	cfg.PollInterval = 20 * time.Millisecond
	cfg.ReconnectBase = 10 * time.Millisecond
	cfg.ReconnectMax = 50 * time.Millisecond
	return d, cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWiring_SnapshotsEventsAndCommands(t *testing.T) {
	daemon, cfg := newFakeDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := musicd.NewClient(cfg.Host)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	rec := state.New(state.Options{API: client, Context: ctx, Logger: zerolog.Nop()})
	conn := newConn(client, cfg, zerolog.Nop())
	BindPush(conn, rec, zerolog.Nop())
	StartPoller(ctx, rec, client, cfg.PollInterval, zerolog.Nop())
	waitFor(t, "first snapshot", func() bool { return rec.View().Ready })

	conn.Open(ctx)
	defer conn.Close(websocket.CloseNormalClosure, "test done")

	waitFor(t, "pushed track change", func() bool {
		v := rec.View()
		return v.Live && v.TrackIndex == 1 && v.TrackName == "b.mp3"
	})
	waitFor(t, "playlist listing", func() bool { return len(rec.View().Playlists) == 1 })

	rec.SelectTrack(1)
	rec.SelectTrack(3)
	waitFor(t, "track command", func() bool { return len(daemon.taken()) == 1 })
	if got := daemon.taken(); got[0] != "track 3" {
		t.Fatalf("daemon commands = %v, want [track 3]", got)
	}
}

func (d *fakeDaemon) statusPolls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.polls
}

func TestStart_PollsStatusOnceAtStartup(t *testing.T) {
	daemon, cfg := newFakeDaemon(t)
	cfg.PollInterval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := musicd.NewClient(cfg.Host)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	rec := state.New(state.Options{API: client, Context: ctx, Logger: zerolog.Nop()})
	conn := start(ctx, rec, client, cfg, zerolog.Nop())
	defer conn.Close(websocket.CloseNormalClosure, "test done")

	waitFor(t, "first snapshot", func() bool { return rec.View().Ready })
	waitFor(t, "push channel", func() bool { return rec.View().Live })
	time.Sleep(50 * time.Millisecond)
	if n := daemon.statusPolls(); n != 1 {
		t.Fatalf("status requests at startup = %d, want 1", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_PrintsEvents(t *testing.T) {
	daemon, cfg := newFakeDaemon(t)
	daemon.push = `{"type":"PAUSED"}`

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, cfg, out, zerolog.Nop()) }()

	waitFor(t, "watch output", func() bool {
		return strings.Contains(out.String(), `{"type":"PAUSED"}`)
	})
	if !strings.HasPrefix(out.String(), "# connected\n") {
		t.Fatalf("output = %q, want connected marker first", out.String())
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Watch did not return after cancel")
	}
}

package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/tonearm/internal/state"
)

func TestFeed_WaitDeliversBatchInOrder(t *testing.T) {
	f := NewFeed()
	f.RenderTrack(2, "c.mp3")
	f.RenderVolume(0.4)
	f.CommandFailed(state.ActionSeek, errors.New("boom"))

	msg := f.Wait(context.Background())()
	batch, ok := msg.(renderBatchMsg)
	if !ok {
		t.Fatalf("Wait() msg = %T, want renderBatchMsg", msg)
	}
	if len(batch) != 3 {
		t.Fatalf("batch len = %d, want 3", len(batch))
	}
	if got, ok := batch[0].(trackMsg); !ok || got.index != 2 || got.name != "c.mp3" {
		t.Fatalf("batch[0] = %#v", batch[0])
	}
	if got, ok := batch[1].(volumeMsg); !ok || got.v != 0.4 {
		t.Fatalf("batch[1] = %#v", batch[1])
	}
	if got, ok := batch[2].(failedMsg); !ok || got.action != state.ActionSeek {
		t.Fatalf("batch[2] = %#v", batch[2])
	}
	if rest := f.Drain(); len(rest) != 0 {
		t.Fatalf("queue not drained: %d left", len(rest))
	}
}

func TestFeed_PushNeverBlocks(t *testing.T) {
	f := NewFeed()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			f.RenderPosition("-", time.Duration(i), true)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("render calls blocked with no reader")
	}
	if got := len(f.Drain()); got != 1000 {
		t.Fatalf("Drain() len = %d, want 1000", got)
	}
}

func TestFeed_WaitEndsWithContext(t *testing.T) {
	f := NewFeed()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if msg := f.Wait(ctx)(); msg != nil {
		t.Fatalf("Wait() after cancel = %#v, want nil", msg)
	}
}

func TestFeed_ImplementsRenderer(t *testing.T) {
	var r state.Renderer = NewFeed()
	r.RenderAll(state.View{TrackName: "a"})
	r.RenderPlayState(false)
	r.RenderDuration(time.Minute, true)
	r.RenderPlaylist("p1", "Mix")
	r.RenderPlaylists(nil)
	r.RenderJobs(nil)
	r.RenderConnection(true)
	r.Notify("t", "m")
	r.CommandPending(state.ActionNext, true)
	if got := len(r.(*Feed).Drain()); got != 9 {
		t.Fatalf("queued %d messages, want 9", got)
	}
}

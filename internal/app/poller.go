package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/tonearm/internal/musicd"
)

const defaultPollInterval = 1500 * time.Millisecond

// SnapshotSink receives every successful poll.
type SnapshotSink interface {
	OnSnapshot(*musicd.StatusResponse)
}

// StatusSource fetches the daemon's /status.
type StatusSource interface {
	FetchStatus(ctx context.Context) (*musicd.StatusResponse, error)
}

// StartPoller launches a background goroutine that polls status at a fixed
// cadence until ctx is cancelled. Failed polls are logged and skipped; the
// interval never backs off. It returns immediately.
func StartPoller(ctx context.Context, sink SnapshotSink, source StatusSource, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	log := logger.With().Str("component", "poller").Logger()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, sink, source, log)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func refresh(ctx context.Context, sink SnapshotSink, source StatusSource, log zerolog.Logger) bool {
	status, err := source.FetchStatus(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("status poll failed")
		}
		return false
	}
	sink.OnSnapshot(status)
	return true
}

package app

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/five82/tonearm/internal/event"
	"github.com/five82/tonearm/internal/wsconn"
)

// PushSource is the subscription side of a wsconn.Conn.
type PushSource interface {
	On(kind wsconn.Kind, h wsconn.Handler) wsconn.Subscription
}

// EventSink consumes decoded push traffic.
type EventSink interface {
	SetConnected(live bool)
	OnRemoteEvent(e event.Event)
}

// BindPush routes push-channel notices into sink: frames are decoded into
// events and open/close transitions update the connection flag. Frames that
// fail to decode are logged and dropped.
func BindPush(src PushSource, sink EventSink, logger zerolog.Logger) {
	log := logger.With().Str("component", "push").Logger()
	src.On(wsconn.KindOpened, func(wsconn.Notice) {
		sink.SetConnected(true)
	})
	src.On(wsconn.KindClosed, func(n wsconn.Notice) {
		log.Debug().Int("code", n.Code).Str("reason", n.Reason).Msg("push channel closed")
		sink.SetConnected(false)
	})
	src.On(wsconn.KindError, func(n wsconn.Notice) {
		log.Debug().Err(n.Err).Msg("push channel error")
	})
	src.On(wsconn.KindMessage, func(n wsconn.Notice) {
		ev, err := event.Decode(n.Data)
		if err != nil {
			if errors.Is(err, event.ErrUnknownType) {
				log.Debug().Err(err).Msg("ignoring push frame")
			} else {
				log.Warn().Err(err).Bytes("frame", n.Data).Msg("undecodable push frame")
			}
			return
		}
		sink.OnRemoteEvent(ev)
	})
}

package wsconn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/five82/tonearm/internal/event"
)

// DefaultHeartbeat is the keep-alive period while the socket is open.
const DefaultHeartbeat = 25 * time.Second

const (
	writeTimeout      = 10 * time.Second
	closeWriteTimeout = time.Second
)

// Options configure a Conn. Zero values select production defaults.
type Options struct {
	Subprotocols []string
	Heartbeat    time.Duration
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	Clock        clock.Clock
	Dialer       Dialer
	Logger       zerolog.Logger
	// Spawn runs dial attempts. Defaults to a new goroutine per attempt.
	Spawn func(func())
}

// Conn is a self-healing websocket to a fixed endpoint. It reconnects with
// exponential backoff after any failure until Close is called and sends a
// keep-alive frame while open. Failures never surface as errors; they are
// visible only through KindError and KindClosed notices.
type Conn struct {
	endpoint  string
	protocols []string
	heartbeat time.Duration
	clock     clock.Clock
	dialer    Dialer
	spawn     func(func())
	log       zerolog.Logger

	mu             sync.Mutex
	state          State
	started        bool
	gen            uint64
	backoff        Backoff
	sock           Socket
	heartbeatTimer *clock.Timer
	reconnectTimer *clock.Timer
	ctx            context.Context
	cancel         context.CancelFunc
	stopWatch      func() bool

	writeMu sync.Mutex

	handlersMu sync.Mutex
	handlers   map[Kind][]registered
	nextID     uint64
}

type registered struct {
	id uint64
	h  Handler
}

// New builds a Conn for endpoint. It does not connect until Open.
func New(endpoint string, opts Options) *Conn {
	c := &Conn{
		endpoint:  endpoint,
		protocols: append([]string(nil), opts.Subprotocols...),
		heartbeat: opts.Heartbeat,
		clock:     opts.Clock,
		dialer:    opts.Dialer,
		spawn:     opts.Spawn,
		log:       opts.Logger.With().Str("component", "wsconn").Logger(),
		backoff:   Backoff{Base: opts.BaseDelay, Max: opts.MaxDelay},
		handlers:  make(map[Kind][]registered),
	}
	if c.heartbeat <= 0 {
		c.heartbeat = DefaultHeartbeat
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.dialer == nil {
		c.dialer = GorillaDialer{}
	}
	if c.spawn == nil {
		c.spawn = func(f func()) { go f() }
	}
	c.backoff.Reset()
	return c
}

// Endpoint returns the URL the Conn dials.
func (c *Conn) Endpoint() string {
	return c.endpoint
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// NextDelay returns the delay the next reconnect would wait.
func (c *Conn) NextDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backoff.Current()
}

// On registers h for notices of kind. Handlers of one kind run in
// registration order.
func (c *Conn) On(kind Kind, h Handler) Subscription {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.nextID++
	c.handlers[kind] = append(c.handlers[kind], registered{id: c.nextID, h: h})
	return Subscription{kind: kind, id: c.nextID}
}

// Off removes a handler registered with On. Unknown subscriptions are ignored.
func (c *Conn) Off(sub Subscription) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	list := c.handlers[sub.kind]
	for i, r := range list {
		if r.id == sub.id {
			c.handlers[sub.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (c *Conn) emit(n Notice) {
	c.handlersMu.Lock()
	list := append([]registered(nil), c.handlers[n.Kind]...)
	c.handlersMu.Unlock()
	for _, r := range list {
		r.h(n)
	}
}

// Open starts connecting. Later calls are no-ops; a closed Conn stays closed.
// Cancelling ctx closes the Conn with a going-away code.
func (c *Conn) Open(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.state == StateClosingIntentional {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.stopWatch = context.AfterFunc(ctx, func() {
		c.Close(websocket.CloseGoingAway, "client shutting down")
	})
	c.mu.Unlock()

	c.connect()
}

func (c *Conn) connect() {
	c.mu.Lock()
	if c.state == StateClosingIntentional {
		c.mu.Unlock()
		return
	}
	c.reconnectTimer = nil
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	ctx := c.ctx
	c.mu.Unlock()

	c.log.Debug().Str("endpoint", c.endpoint).Uint64("attempt", gen).Msg("connecting")
	c.spawn(func() { c.dial(ctx, gen) })
}

func (c *Conn) dial(ctx context.Context, gen uint64) {
	sock, err := c.dialer.DialContext(ctx, c.endpoint, c.protocols)

	c.mu.Lock()
	if c.state == StateClosingIntentional || gen != c.gen {
		c.mu.Unlock()
		if sock != nil {
			_ = sock.Close()
		}
		return
	}
	if err != nil {
		c.state = StateDisconnected
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("endpoint", c.endpoint).Msg("connect failed")
		c.emit(Notice{Kind: KindError, Err: err})
		c.emit(Notice{Kind: KindClosed, Code: websocket.CloseAbnormalClosure, Reason: err.Error()})
		c.scheduleReconnect()
		return
	}
	c.sock = sock
	c.state = StateOpen
	c.backoff.Reset()
	c.scheduleHeartbeatLocked(gen)
	c.mu.Unlock()

	c.log.Info().Str("endpoint", c.endpoint).Msg("connected")
	c.emit(Notice{Kind: KindOpened})
	go c.readLoop(gen, sock)
}

func (c *Conn) readLoop(gen uint64, sock Socket) {
	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			c.drop(gen, err)
			return
		}
		c.emit(Notice{Kind: KindMessage, Data: data})
	}
}

// drop handles an unexpected loss of the socket from either direction.
func (c *Conn) drop(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.stopHeartbeatLocked()
	sock := c.sock
	c.sock = nil
	c.mu.Unlock()

	if sock != nil {
		_ = sock.Close()
	}

	code, reason := websocket.CloseAbnormalClosure, ""
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		code, reason = closeErr.Code, closeErr.Text
		c.log.Info().Int("code", code).Str("reason", reason).Msg("connection closed by peer")
	} else {
		if err != nil {
			reason = err.Error()
		}
		c.log.Warn().Err(err).Msg("connection lost")
		c.emit(Notice{Kind: KindError, Err: err})
	}
	c.emit(Notice{Kind: KindClosed, Code: code, Reason: reason})
	c.scheduleReconnect()
}

func (c *Conn) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosingIntentional || c.reconnectTimer != nil {
		return
	}
	delay := c.backoff.Next()
	c.log.Info().Dur("delay", delay).Msg("reconnect scheduled")
	c.reconnectTimer = c.clock.AfterFunc(delay, c.connect)
}

func (c *Conn) scheduleHeartbeatLocked(gen uint64) {
	c.heartbeatTimer = c.clock.AfterFunc(c.heartbeat, func() { c.beat(gen) })
}

func (c *Conn) stopHeartbeatLocked() {
	if c.heartbeatTimer != nil {
		c.heartbeatTimer.Stop()
		c.heartbeatTimer = nil
	}
}

func (c *Conn) beat(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	sock := c.sock
	c.scheduleHeartbeatLocked(gen)
	c.mu.Unlock()

	if err := c.write(sock, event.Ping()); err != nil {
		c.drop(gen, err)
	}
}

// Send transmits data as a text frame when the socket is open. Otherwise it
// drops data, logs a warning and returns false. It never queues.
func (c *Conn) Send(data []byte) bool {
	c.mu.Lock()
	if c.state != StateOpen || c.sock == nil {
		state := c.state
		c.mu.Unlock()
		c.log.Warn().Str("state", state.String()).Msg("send while not open; message dropped")
		return false
	}
	sock, gen := c.sock, c.gen
	c.mu.Unlock()

	if err := c.write(sock, data); err != nil {
		c.log.Warn().Err(err).Msg("send failed")
		c.drop(gen, err)
		return false
	}
	return true
}

// write sends one text frame. gorilla allows a single concurrent writer, so
// heartbeats and Send share writeMu; control frames do not need it.
func (c *Conn) write(sock Socket, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := sock.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return sock.WriteMessage(websocket.TextMessage, data)
}

// Close stops heartbeats and reconnects for good and closes the socket with
// code and reason. Close is terminal and safe to call more than once.
func (c *Conn) Close(code int, reason string) {
	c.mu.Lock()
	if c.state == StateClosingIntentional {
		c.mu.Unlock()
		return
	}
	wasOpen := c.state == StateOpen
	c.state = StateClosingIntentional
	c.gen++
	c.stopHeartbeatLocked()
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.stopWatch != nil {
		c.stopWatch()
	}
	sock := c.sock
	c.sock = nil
	c.mu.Unlock()

	if sock != nil {
		_ = sock.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(closeWriteTimeout))
		_ = sock.Close()
	}
	c.log.Info().Int("code", code).Str("reason", reason).Msg("connection closed")
	if wasOpen {
		c.emit(Notice{Kind: KindClosed, Code: code, Reason: reason})
	}
}

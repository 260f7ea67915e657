package wsconn

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Socket is the subset of *websocket.Conn a Conn drives.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens sockets. The default implementation uses gorilla/websocket.
type Dialer interface {
	DialContext(ctx context.Context, endpoint string, subprotocols []string) (Socket, error)
}

// GorillaDialer dials real websockets.
type GorillaDialer struct {
	HandshakeTimeout time.Duration
	Header           http.Header
}

// DialContext implements Dialer.
func (d GorillaDialer) DialContext(ctx context.Context, endpoint string, subprotocols []string) (Socket, error) {
	timeout := d.HandshakeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
		Subprotocols:     subprotocols,
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, d.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

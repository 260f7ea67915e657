package musicd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusFetcher defines the read side of the musicd API.
// This interface is implemented by *Client and can be used for testing.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (*StatusResponse, error)
	FetchPlaylists(ctx context.Context) ([]Playlist, error)
	FetchJobs(ctx context.Context) ([]Job, error)
}

// Controller defines the player control surface of the musicd API.
type Controller interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Prev(ctx context.Context) error
	Next(ctx context.Context) error
	Seek(ctx context.Context, secs uint64) error
	SetVolume(ctx context.Context, value float64) error
	SelectTrack(ctx context.Context, index int) error
	SelectPlaylist(ctx context.Context, id string, mode PlaylistMode) error
	Publish(ctx context.Context, req PublishRequest) error
	Clean(ctx context.Context) error
}

// Ensure Client implements both interfaces at compile time.
var (
	_ StatusFetcher = (*Client)(nil)
	_ Controller    = (*Client)(nil)
)

// ErrCommandRejected is returned when the daemon answers a command with success=false.
var ErrCommandRejected = errors.New("command rejected")

// Client talks to the musicd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultHost is where musicd listens unless configured otherwise.
	DefaultHost      = "http://127.0.0.1:8371"
	defaultUserAgent = "tonearm/0.1"
	requestTimeout   = 5 * time.Second
	pushPath         = "/ws"
)

// NewClient builds a Client for the given host, with or without scheme.
func NewClient(host string) (*Client, error) {
	base, err := parseBaseURL(host)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized daemon address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// PushURL returns the websocket endpoint of the push channel.
func (c *Client) PushURL() string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = pushPath
	return u.String()
}

// FetchStatus retrieves the player snapshot.
func (c *Client) FetchStatus(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchPlaylists retrieves published playlists, newest first.
func (c *Client) FetchPlaylists(ctx context.Context) ([]Playlist, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchJobs retrieves the scheduled jobs.
func (c *Client) FetchJobs(ctx context.Context) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Job
	if err := c.do(ctx, http.MethodGet, "/jobs", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Play resumes playback.
func (c *Client) Play(ctx context.Context) error {
	return c.command(ctx, "/control/play", nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	return c.command(ctx, "/control/pause", nil)
}

// Prev skips to the previous track, wrapping to the last one.
func (c *Client) Prev(ctx context.Context) error {
	return c.command(ctx, "/control/prev", nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context) error {
	return c.command(ctx, "/control/next", nil)
}

// Seek moves the playback position to secs.
func (c *Client) Seek(ctx context.Context, secs uint64) error {
	return c.command(ctx, "/control/seek", map[string]uint64{"secs": secs})
}

// SetVolume sets the volume; the value is clamped to [0, 1].
func (c *Client) SetVolume(ctx context.Context, value float64) error {
	return c.command(ctx, "/control/volume", map[string]float64{"value": ClampVolume(value)})
}

// SelectTrack jumps to the track at index in the active playlist.
func (c *Client) SelectTrack(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("track index %d out of range", index)
	}
	return c.command(ctx, "/control/track/"+strconv.Itoa(index), nil)
}

// SelectPlaylist switches the active playlist.
func (c *Client) SelectPlaylist(ctx context.Context, id string, mode PlaylistMode) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("playlist id required")
	}
	if mode == "" {
		mode = ModeQueue
	}
	return c.command(ctx, "/control/playlist/"+url.PathEscape(id), map[string]PlaylistMode{"mode": mode})
}

// Publish asks the daemon to download sources into a new playlist in the background.
func (c *Client) Publish(ctx context.Context, req PublishRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("playlist name required")
	}
	if len(req.SourceURLs) == 0 {
		return fmt.Errorf("at least one source url required")
	}
	return c.command(ctx, "/publish", req)
}

// Clean removes the daemon's temporary download files.
func (c *Client) Clean(ctx context.Context) error {
	return c.command(ctx, "/clean", nil)
}

func (c *Client) command(ctx context.Context, path string, body any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var resp CommandResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = "no reason given"
		}
		return fmt.Errorf("%s: %w: %s", path, ErrCommandRejected, msg)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(host string) (*url.URL, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		trimmed = DefaultHost
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", host, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse host %q: missing host", host)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

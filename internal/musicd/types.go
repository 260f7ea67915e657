package musicd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Duration mirrors the daemon's {secs, nanos} duration encoding.
type Duration struct {
	Secs  uint64 `json:"secs"`
	Nanos uint32 `json:"nanos"`
}

// NewDuration converts a time.Duration into the wire form. Negative values clamp to zero.
func NewDuration(d time.Duration) Duration {
	if d <= 0 {
		return Duration{}
	}
	return Duration{
		Secs:  uint64(d / time.Second),
		Nanos: uint32(d % time.Second),
	}
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.Secs)*time.Second + time.Duration(d.Nanos)
}

// OptDuration returns the pointed-to duration or zero when nil.
func OptDuration(d *Duration) time.Duration {
	if d == nil {
		return 0
	}
	return d.Std()
}

// FormatClock renders d as HH:MM:SS, truncating fractions of a second.
func FormatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, total/3600, (total/60)%60, total%60)
}

// FormatPosition renders the "pos / total" label the daemon reports in
// /status. An unknown total renders as "-".
func FormatPosition(pos, total time.Duration, totalKnown bool) string {
	right := "-"
	if totalKnown {
		right = FormatClock(total)
	}
	return FormatClock(pos) + " / " + right
}

// StatusResponse mirrors the payload returned by /status.
type StatusResponse struct {
	PlaylistID    *string   `json:"playlist_id"`
	PlaylistName  *string   `json:"playlist_name"`
	CurrentIndex  int       `json:"current_index"`
	CurrentTrack  *string   `json:"current_track"`
	CurrentPos    *Duration `json:"current_pos"`
	TotalDuration *Duration `json:"total_duration"`
	IsPaused      *bool     `json:"is_paused"`
	Volume        *float64  `json:"volume"`
	Position      *string   `json:"position"`
}

// Paused reports the paused flag; an unknown state counts as paused.
func (s StatusResponse) Paused() bool {
	if s.IsPaused == nil {
		return true
	}
	return *s.IsPaused
}

// VolumeLevel returns the volume in [0, 1], defaulting to full volume when unknown.
func (s StatusResponse) VolumeLevel() float64 {
	if s.Volume == nil {
		return 1
	}
	return ClampVolume(*s.Volume)
}

// ClampVolume limits v to the daemon's accepted [0, 1] range.
func ClampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PlaylistIDValue returns the playlist id or empty.
func (s StatusResponse) PlaylistIDValue() string { return deref(s.PlaylistID) }

// PlaylistNameValue returns the playlist name or empty.
func (s StatusResponse) PlaylistNameValue() string { return deref(s.PlaylistName) }

// TrackName returns the current track file name or empty.
func (s StatusResponse) TrackName() string { return deref(s.CurrentTrack) }

// PositionLabel returns the daemon-formatted "pos / total" label or "-".
func (s StatusResponse) PositionLabel() string {
	if label := strings.TrimSpace(deref(s.Position)); label != "" {
		return label
	}
	return "-"
}

// PlaylistMeta is the playlist.json document stored per playlist folder.
type PlaylistMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Sources   []string  `json:"sources"`
	Tracks    []string  `json:"tracks"`
}

// Playlist is one entry of /playlists.
type Playlist struct {
	Folder string       `json:"folder"`
	Meta   PlaylistMeta `json:"meta"`
}

// Job is one scheduled HTTP job from /jobs.
type Job struct {
	ID        string          `json:"id"`
	RunAt     time.Time       `json:"run_at"`
	Repeat    json.RawMessage `json:"repeat,omitempty"`
	EndRepeat *time.Time      `json:"end_repeat,omitempty"`
	Method    string          `json:"method"`
	URL       string          `json:"url"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// RepeatLabel renders the repeat rule as a short label: a template name
// ("daily") or a custom rule ("every 2 weekly").
func (j Job) RepeatLabel() string {
	raw := strings.TrimSpace(string(j.Repeat))
	if raw == "" || raw == "null" {
		return "once"
	}
	var template string
	if err := json.Unmarshal(j.Repeat, &template); err == nil {
		return template
	}
	var custom struct {
		Frequency string `json:"frequency"`
		Every     int    `json:"every"`
	}
	if err := json.Unmarshal(j.Repeat, &custom); err == nil && custom.Frequency != "" {
		if custom.Every <= 1 {
			return custom.Frequency
		}
		return fmt.Sprintf("every %d %s", custom.Every, custom.Frequency)
	}
	return "custom"
}

// PlaylistMode selects how a playlist switch interacts with the current track.
type PlaylistMode string

const (
	// ModeQueue switches after the current track finishes.
	ModeQueue PlaylistMode = "queue"
	// ModeSkip switches immediately.
	ModeSkip PlaylistMode = "skip"
)

// ParsePlaylistMode validates a user-supplied mode string.
func ParsePlaylistMode(value string) (PlaylistMode, error) {
	switch PlaylistMode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeQueue, "":
		return ModeQueue, nil
	case ModeSkip:
		return ModeSkip, nil
	default:
		return "", fmt.Errorf("unknown playlist mode %q (want queue or skip)", value)
	}
}

// PublishRequest is the /publish body.
type PublishRequest struct {
	Name       string   `json:"name"`
	SourceURLs []string `json:"source_urls"`
	Downloader string   `json:"downloader,omitempty"`
}

// CommandResponse is the generic {success, message} reply of mutating routes.
type CommandResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

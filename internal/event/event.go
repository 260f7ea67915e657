// Package event defines the push notifications musicd sends over its websocket
// and their wire envelope.
//
// Events form a closed set. Consumers implement Handler, which has one method
// per variant, and call Dispatch; adding a variant adds a Handler method, so
// every consumer stops compiling until it handles the new case.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/five82/tonearm/internal/musicd"
)

// Type is the envelope tag.
type Type string

const (
	TypePlayed               Type = "PLAYED"
	TypePaused               Type = "PAUSED"
	TypeTrackChanged         Type = "TRACK_CHANGED"
	TypeTrackDurationChanged Type = "TRACK_DURATION_CHANGED"
	TypePlaylistChanged      Type = "PLAYLIST_CHANGED"
	TypePlaylistPublished    Type = "PLAYLIST_PUBLISHED"
	TypeSeekPositionChanged  Type = "SEEK_POSITION_CHANGED"
	TypeVolumeChanged        Type = "VOLUME_CHANGED"
	TypeJobsUpdated          Type = "JOBS_UPDATED"
	TypeRunningJob           Type = "RUNNING_JOB"

	// TypePing is the client keep-alive; the daemon never sends it.
	TypePing Type = "ping"
)

// ErrUnknownType is returned by Decode for tags outside the known set.
var ErrUnknownType = errors.New("unknown event type")

// Handler receives decoded events, one method per variant.
type Handler interface {
	PlaybackToggled(PlaybackToggled)
	TrackChanged(TrackChanged)
	TrackDurationChanged(TrackDurationChanged)
	PlaylistChanged(PlaylistChanged)
	PlaylistPublished(PlaylistPublished)
	SeekPositionChanged(SeekPositionChanged)
	VolumeChanged(VolumeChanged)
	JobsUpdated(JobsUpdated)
	JobStarted(JobStarted)
}

// Event is a server-pushed fact. The set of implementations is closed.
type Event interface {
	Type() Type
	Dispatch(h Handler)
	payload() any
}

// PlaybackToggled reports that playback was resumed (PLAYED) or paused (PAUSED).
type PlaybackToggled struct {
	Paused bool
}

// TrackChanged reports a new current track.
type TrackChanged struct {
	Index int
	Name  string
}

// TrackDurationChanged reports the length of the current track. Known is
// false when the decoder could not determine it.
type TrackDurationChanged struct {
	Duration time.Duration
	Known    bool
}

// PlaylistChanged reports a new active playlist.
type PlaylistChanged struct {
	ID   string
	Name string
}

// PlaylistPublished reports that a background publish finished.
type PlaylistPublished struct {
	ID   string
	Name string
}

// Label returns the best human-readable identifier.
func (e PlaylistPublished) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// SeekPositionChanged reports the playback position.
type SeekPositionChanged struct {
	Position time.Duration
}

// VolumeChanged reports the volume in [0, 1].
type VolumeChanged struct {
	Value float64
}

// JobsUpdated reports that the job file changed.
type JobsUpdated struct{}

// JobStarted reports that a scheduled job fired.
type JobStarted struct {
	ID string
}

func (e PlaybackToggled) Type() Type {
	if e.Paused {
		return TypePaused
	}
	return TypePlayed
}
func (TrackChanged) Type() Type         { return TypeTrackChanged }
func (TrackDurationChanged) Type() Type { return TypeTrackDurationChanged }
func (PlaylistChanged) Type() Type      { return TypePlaylistChanged }
func (PlaylistPublished) Type() Type    { return TypePlaylistPublished }
func (SeekPositionChanged) Type() Type  { return TypeSeekPositionChanged }
func (VolumeChanged) Type() Type        { return TypeVolumeChanged }
func (JobsUpdated) Type() Type          { return TypeJobsUpdated }
func (JobStarted) Type() Type           { return TypeRunningJob }

func (e PlaybackToggled) Dispatch(h Handler)      { h.PlaybackToggled(e) }
func (e TrackChanged) Dispatch(h Handler)         { h.TrackChanged(e) }
func (e TrackDurationChanged) Dispatch(h Handler) { h.TrackDurationChanged(e) }
func (e PlaylistChanged) Dispatch(h Handler)      { h.PlaylistChanged(e) }
func (e PlaylistPublished) Dispatch(h Handler)    { h.PlaylistPublished(e) }
func (e SeekPositionChanged) Dispatch(h Handler)  { h.SeekPositionChanged(e) }
func (e VolumeChanged) Dispatch(h Handler)        { h.VolumeChanged(e) }
func (e JobsUpdated) Dispatch(h Handler)          { h.JobsUpdated(e) }
func (e JobStarted) Dispatch(h Handler)           { h.JobStarted(e) }

type trackPayload struct {
	Idx  int    `json:"idx"`
	Name string `json:"name"`
}

type durationPayload struct {
	Duration *musicd.Duration `json:"duration"`
}

type playlistPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type volumePayload struct {
	Value float64 `json:"value"`
}

type jobPayload struct {
	ID string `json:"id"`
}

func (PlaybackToggled) payload() any { return nil }
func (e TrackChanged) payload() any  { return trackPayload{Idx: e.Index, Name: e.Name} }
func (e TrackDurationChanged) payload() any {
	if !e.Known {
		return durationPayload{}
	}
	d := musicd.NewDuration(e.Duration)
	return durationPayload{Duration: &d}
}
func (e PlaylistChanged) payload() any   { return playlistPayload{ID: e.ID, Name: e.Name} }
func (e PlaylistPublished) payload() any { return playlistPayload{ID: e.ID, Name: e.Name} }
func (e SeekPositionChanged) payload() any {
	d := musicd.NewDuration(e.Position)
	return durationPayload{Duration: &d}
}
func (e VolumeChanged) payload() any { return volumePayload{Value: e.Value} }
func (JobsUpdated) payload() any     { return nil }
func (e JobStarted) payload() any    { return jobPayload{ID: e.ID} }

// Envelope is the {type, payload} frame used in both directions.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode renders an event as a wire frame.
func Encode(e Event) ([]byte, error) {
	env := Envelope{Type: e.Type()}
	if p := e.payload(); p != nil {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", e.Type(), err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// Ping returns the keep-alive frame.
func Ping() []byte {
	return []byte(`{"type":"ping"}`)
}

// Decode parses a wire frame into its event variant.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case TypePlayed:
		return PlaybackToggled{Paused: false}, nil
	case TypePaused:
		return PlaybackToggled{Paused: true}, nil
	case TypeTrackChanged:
		var p trackPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return TrackChanged{Index: p.Idx, Name: p.Name}, nil
	case TypeTrackDurationChanged:
		var p durationPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return TrackDurationChanged{Duration: musicd.OptDuration(p.Duration), Known: p.Duration != nil}, nil
	case TypePlaylistChanged:
		var p playlistPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return PlaylistChanged{ID: p.ID, Name: p.Name}, nil
	case TypePlaylistPublished:
		var p playlistPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return PlaylistPublished{ID: p.ID, Name: p.Name}, nil
	case TypeSeekPositionChanged:
		var p durationPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return SeekPositionChanged{Position: musicd.OptDuration(p.Duration)}, nil
	case TypeVolumeChanged:
		var p volumePayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return VolumeChanged{Value: musicd.ClampVolume(p.Value)}, nil
	case TypeJobsUpdated:
		return JobsUpdated{}, nil
	case TypeRunningJob:
		var p jobPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return JobStarted{ID: p.ID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodePayload(env Envelope, dest any) error {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return fmt.Errorf("decode %s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, dest); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return nil
}

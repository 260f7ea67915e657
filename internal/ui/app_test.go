package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tonearm/internal/musicd"
	"github.com/five82/tonearm/internal/notify"
	"github.com/five82/tonearm/internal/prefs"
	"github.com/five82/tonearm/internal/state"
)

type fakeControls struct {
	calls      []string
	publishErr error
}

func (f *fakeControls) rec(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeControls) TogglePlayback()            { f.rec("toggle") }
func (f *fakeControls) SkipPrev()                  { f.rec("prev") }
func (f *fakeControls) SkipNext()                  { f.rec("next") }
func (f *fakeControls) BeginScrub()                { f.rec("begin-scrub") }
func (f *fakeControls) ScrubTo(pos time.Duration)  { f.rec("scrub %v", pos) }
func (f *fakeControls) EndScrub(pos time.Duration) { f.rec("end-scrub %v", pos) }
func (f *fakeControls) SeekBy(delta time.Duration) { f.rec("seek-by %v", delta) }
func (f *fakeControls) BeginVolumeChange()         { f.rec("begin-volume") }
func (f *fakeControls) AdjustVolume(v float64)     { f.rec("adjust %.2f", v) }
func (f *fakeControls) EndVolumeChange(v float64)  { f.rec("end-volume %.2f", v) }
func (f *fakeControls) NudgeVolume(delta float64)  { f.rec("nudge %.2f", delta) }
func (f *fakeControls) SelectTrack(i int)          { f.rec("track %d", i) }
func (f *fakeControls) Clean()                     { f.rec("clean") }
func (f *fakeControls) SelectPlaylist(id string, mode musicd.PlaylistMode) {
	f.rec("playlist %s %s", id, mode)
}
func (f *fakeControls) Publish(name string, urls []string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.rec("publish %s %s", name, strings.Join(urls, "|"))
	return nil
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func sampleView() state.View {
	return state.View{
		Ready:         true,
		Live:          true,
		Paused:        false,
		PlaylistID:    "p1",
		PlaylistName:  "Morning",
		TrackIndex:    0,
		TrackName:     "a.mp3",
		PositionLabel: "00:00:00 / 00:01:40",
		Duration:      100 * time.Second,
		DurationKnown: true,
		Volume:        0.5,
		Playlists: []musicd.Playlist{
			{Folder: "p1", Meta: musicd.PlaylistMeta{ID: "p1", Name: "Morning", Tracks: []string{"a.mp3", "b.mp3", "c.mp3"}}},
			{Folder: "p2", Meta: musicd.PlaylistMeta{ID: "p2", Name: "Evening", Tracks: []string{"x.mp3"}}},
		},
	}
}

// newTestModel returns a sized model that has applied sampleView.
func newTestModel(t *testing.T) (Model, *fakeControls) {
	t.Helper()
	fc := &fakeControls{}
	m := New(Options{Controls: fc, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, renderBatchMsg{renderAllMsg{view: sampleView()}})
	return m, fc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyPress(k))
	}
	return m
}

func TestModel_RenderBatchAppliesInOrder(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, renderBatchMsg{
		trackMsg{index: 1, name: "b.mp3"},
		playStateMsg{paused: true},
		positionMsg{label: "00:00:42 / 00:01:40", pos: 42 * time.Second, move: true},
		positionMsg{label: "00:00:43 / 00:01:40", pos: 10 * time.Second, move: false},
		volumeMsg{v: 0.8},
		connectionMsg{live: false},
		pendingMsg{action: state.ActionSeek, pending: true},
	})

	p := m.player
	if p.TrackIndex != 1 || p.TrackName != "b.mp3" || m.title.Text() != "b.mp3" {
		t.Fatalf("track = %d %q title %q", p.TrackIndex, p.TrackName, m.title.Text())
	}
	if m.selectedTrack != 1 {
		t.Fatalf("selectedTrack = %d, want 1", m.selectedTrack)
	}
	if !p.Paused || p.Live {
		t.Fatalf("paused=%v live=%v", p.Paused, p.Live)
	}
	if p.Position != 42*time.Second || p.PositionLabel != "00:00:43 / 00:01:40" {
		t.Fatalf("position = %v label %q, want 42s with latest label", p.Position, p.PositionLabel)
	}
	if p.Volume != 0.8 {
		t.Fatalf("volume = %v", p.Volume)
	}
	if !m.pending[state.ActionSeek] {
		t.Fatal("seek not pending")
	}
	m = update(t, m, renderBatchMsg{pendingMsg{action: state.ActionSeek, pending: false}})
	if len(m.pending) != 0 {
		t.Fatalf("pending = %v, want empty", m.pending)
	}
}

func TestModel_FailureAndNoticeShowInCommandBar(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, renderBatchMsg{failedMsg{action: state.ActionVolume, err: errors.New("timeout")}})
	if !m.status.isErr || m.status.text != "volume failed: timeout" {
		t.Fatalf("status = %+v", m.status)
	}
	if !strings.Contains(m.renderCommandBar(), "volume failed: timeout") {
		t.Fatal("command bar does not show the failure")
	}
	seq := m.statusSeq
	m = update(t, m, renderBatchMsg{notifyMsg{title: "Playlist published", message: "Mix"}})
	if m.status.isErr || m.status.text != "Playlist published: Mix" {
		t.Fatalf("status = %+v", m.status)
	}
	// An expiry for the replaced status leaves the new one alone.
	m = update(t, m, statusExpiredMsg(seq))
	if m.status.text == "" {
		t.Fatal("stale expiry cleared the current status")
	}
	m = update(t, m, statusExpiredMsg(m.statusSeq))
	if m.status.text != "" {
		t.Fatalf("status = %+v, want cleared", m.status)
	}
}

func TestNotifyCmd_CallsNotifier(t *testing.T) {
	var got []string
	n := notify.NotifierFunc(func(title, message string) error {
		got = append(got, title+"|"+message)
		return errors.New("no bus")
	})
	if msg := notifyCmd(n, "Track", "b.mp3")(); msg != nil {
		t.Fatalf("notifyCmd msg = %#v, want nil", msg)
	}
	if !reflect.DeepEqual(got, []string{"Track|b.mp3"}) {
		t.Fatalf("notifier calls = %v", got)
	}
}

func TestModel_KeysRouteToControls(t *testing.T) {
	tests := []struct {
		keys []string
		want []string
	}{
		{[]string{" "}, []string{"toggle"}},
		{[]string{"p"}, []string{"toggle"}},
		{[]string{"n"}, []string{"next"}},
		{[]string{"b"}, []string{"prev"}},
		{[]string{"+"}, []string{"nudge 0.05"}},
		{[]string{"-"}, []string{"nudge -0.05"}},
		{[]string{"right"}, []string{"seek-by 5s"}},
		{[]string{"left"}, []string{"seek-by -5s"}},
		{[]string{"j", "enter"}, []string{"track 1"}},
		{[]string{"G", "enter"}, []string{"track 2"}},
		{[]string{"2", "j", "enter"}, []string{"playlist p2 queue"}},
		{[]string{"2", "S"}, []string{"playlist p1 skip"}},
		{[]string{"C", "y"}, []string{"clean"}},
		{[]string{"C", "n"}, nil},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			m, fc := newTestModel(t)
			press(t, m, tt.keys...)
			if !reflect.DeepEqual(fc.calls, tt.want) {
				t.Fatalf("calls = %v, want %v", fc.calls, tt.want)
			}
		})
	}
}

func TestModel_ScrubWithKeyboard(t *testing.T) {
	m, fc := newTestModel(t)
	m = press(t, m, "s", "right", "right", "left", "right", "right")
	if m.mode != modeScrub {
		t.Fatalf("mode = %v, want scrub", m.mode)
	}
	m = press(t, m, "enter")
	if m.mode != modeNone {
		t.Fatalf("mode = %v after enter, want none", m.mode)
	}
	want := []string{"begin-scrub", "scrub 5s", "scrub 10s", "scrub 5s", "scrub 10s", "scrub 15s", "end-scrub 15s"}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
}

func TestModel_ScrubClampsToTrack(t *testing.T) {
	m, fc := newTestModel(t)
	m = update(t, m, renderBatchMsg{positionMsg{label: "x", pos: 98 * time.Second, move: true}})
	press(t, m, "s", "left", "right", "right", "esc")
	want := []string{"begin-scrub", "scrub 1m33s", "scrub 1m38s", "scrub 1m40s", "end-scrub 1m40s"}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
}

func TestModel_VolumeWithKeyboard(t *testing.T) {
	m, fc := newTestModel(t)
	m = press(t, m, "v", "up")
	// The reconciler echoes the local change through the feed.
	m = update(t, m, renderBatchMsg{volumeMsg{v: 0.55}})
	m = press(t, m, "up")
	m = update(t, m, renderBatchMsg{volumeMsg{v: 0.6}})
	press(t, m, "enter")
	want := []string{"begin-volume", "adjust 0.55", "adjust 0.60", "end-volume 0.60"}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
}

func TestModel_MouseDragOnSeekBar(t *testing.T) {
	m, fc := newTestModel(t)
	x0, x1 := m.seekBarX()
	y := m.seekBarY()

	// Clicks off the bar are ignored.
	m = update(t, m, tea.MouseMsg{X: x0, Y: y + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(fc.calls) != 0 {
		t.Fatalf("calls = %v, want none", fc.calls)
	}

	m = update(t, m, tea.MouseMsg{X: x0, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: x1 + 20, Y: y + 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: x1 - 1, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.dragging {
		t.Fatal("still dragging after release")
	}
	want := []string{"begin-scrub", "scrub 0s", "scrub 1m40s", "end-scrub 1m40s"}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
}

func TestModel_MouseIgnoredWithoutDuration(t *testing.T) {
	m, fc := newTestModel(t)
	m = update(t, m, renderBatchMsg{durationMsg{known: false}})
	x0, _ := m.seekBarX()
	update(t, m, tea.MouseMsg{X: x0, Y: m.seekBarY(), Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(fc.calls) != 0 {
		t.Fatalf("calls = %v, want none", fc.calls)
	}
}

func TestModel_PublishForm(t *testing.T) {
	m, fc := newTestModel(t)
	m = press(t, m, "P")
	if m.modal == nil {
		t.Fatal("publish form not open")
	}
	m = press(t, m, "Mix", "enter", "https://a/1, https://a/2", "enter")
	if m.modal != nil {
		t.Fatal("form still open after publish")
	}
	want := []string{"publish Mix https://a/1|https://a/2"}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
}

func TestModel_PublishFormKeepsErrors(t *testing.T) {
	m, fc := newTestModel(t)
	fc.publishErr = state.ErrNothingToPublish
	m = press(t, m, "P", "enter", "enter")
	if m.modal == nil {
		t.Fatal("form closed on error")
	}
	if !strings.Contains(m.View(), state.ErrNothingToPublish.Error()) {
		t.Fatal("form does not show the error")
	}
	m = press(t, m, "esc")
	if m.modal != nil {
		t.Fatal("esc did not close the form")
	}
	if len(fc.calls) != 0 {
		t.Fatalf("calls = %v, want none", fc.calls)
	}
}

func TestModel_ThemeCycleSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Kanagawa" || saved.SeekStep != 5 {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_ViewSwitching(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "tab")
	if m.currentView != ViewPlaylists {
		t.Fatalf("view = %v, want playlists", m.currentView)
	}
	m = press(t, m, "3")
	if m.currentView != ViewJobs {
		t.Fatalf("view = %v, want jobs", m.currentView)
	}
	m = press(t, m, "esc")
	if m.currentView != ViewPlayer {
		t.Fatalf("view = %v, want player", m.currentView)
	}
	m = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m = press(t, m, "x")
	if m.showHelp {
		t.Fatal("help overlay not dismissed")
	}
}

func TestModel_ViewRendersPlayer(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"tonearm", "LIVE", "PLAYING", "a.mp3", "b.mp3", "Morning", "00:00:00 / 00:01:40", "vol  50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 30 {
		t.Errorf("view has %d lines, want 30", lines)
	}
}

func TestModel_ViewBeforeFirstSnapshot(t *testing.T) {
	m := New(Options{Controls: &fakeControls{}, Host: "http://127.0.0.1:8371"})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q", got)
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})
	out := m.View()
	if !strings.Contains(out, "Connecting to 127.0.0.1:8371") || !strings.Contains(out, "RECONNECTING") {
		t.Fatalf("view = %q", out)
	}
}

func TestModel_LogView(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, logLoadedMsg{lines: []string{
		`{"level":"warn","component":"wsconn","error":"refused","time":"2026-10-18T14:32:15Z","message":"connect failed"}`,
		"plain line",
	}})
	m = press(t, m, "4")
	out := m.View()
	for _, want := range []string{"WARN", "[wsconn]", "connect failed", "error=refused", "plain line"} {
		if !strings.Contains(out, want) {
			t.Errorf("log view missing %q", want)
		}
	}
}

func TestLoadLogCmd_EmptyPath(t *testing.T) {
	msg := loadLogCmd("")()
	got, ok := msg.(logLoadedMsg)
	if !ok || got.err != nil || got.lines != nil {
		t.Fatalf("loadLogCmd(\"\") = %#v", msg)
	}
}

func TestMoveCursor(t *testing.T) {
	keys := DefaultKeyMap()
	if got := moveCursor(keyPress("j"), keys, 2, 3); got != 2 {
		t.Fatalf("down at end = %d, want 2", got)
	}
	if got := moveCursor(keyPress("k"), keys, 0, 3); got != 0 {
		t.Fatalf("up at top = %d, want 0", got)
	}
	if got := moveCursor(keyPress("G"), keys, 0, 0); got != 0 {
		t.Fatalf("bottom of empty = %d, want 0", got)
	}
}

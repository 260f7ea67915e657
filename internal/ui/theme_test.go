package ui

import (
	"reflect"
	"testing"
)

func TestThemeNames(t *testing.T) {
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if got := ThemeNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ThemeNames() = %v, want %v", got, want)
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range tests {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox", got)
	}
}

func TestThemes_CoverEveryStatus(t *testing.T) {
	statuses := []string{"playing", "paused", "live", "offline", "pending", "failed"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, s := range statuses {
			if th.StatusColors[s] == "" {
				t.Errorf("%s: no color for status %q", name, s)
			}
		}
	}
}

func TestStyles_WithBackgroundKeepsStatusFallback(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles().WithBackground(th.Surface)
	if got := styles.StatusStyle("unknown").GetBackground(); got != styles.StatusStyle("other").GetBackground() {
		t.Fatalf("fallback backgrounds differ: %v", got)
	}
	if styles.muted != th.Muted {
		t.Fatalf("muted = %q, want %q", styles.muted, th.Muted)
	}
}

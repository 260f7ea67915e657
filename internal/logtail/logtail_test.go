package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if lines != nil {
		t.Fatalf("Read() = %v, want nil", lines)
	}
}

func TestParse(t *testing.T) {
	ts := time.Date(2026, 10, 18, 14, 32, 15, 0, time.UTC)
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "plain text",
			input: "panic: boom",
			want:  Entry{Message: "panic: boom", Raw: true},
		},
		{
			name:  "broken json",
			input: `{"level":"info"`,
			want:  Entry{Message: `{"level":"info"`, Raw: true},
		},
		{
			name:  "structured",
			input: `{"level":"warn","component":"wsconn","error":"refused","delay":2000,"time":"2026-10-18T14:32:15Z","message":"connect failed"}`,
			want: Entry{
				Time:      ts,
				Level:     "WARN",
				Component: "wsconn",
				Message:   "connect failed",
				Fields:    []Field{{Key: "delay", Value: "2000"}, {Key: "error", Value: "refused"}},
			},
		},
		{
			name:  "nested values",
			input: `{"level":"debug","message":"x","ok":true,"ids":[1,2]}`,
			want: Entry{
				Level:   "DEBUG",
				Message: "x",
				Fields:  []Field{{Key: "ids", Value: "[1,2]"}, {Key: "ok", Value: "true"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !got.Time.Equal(tt.want.Time) {
				t.Fatalf("Time = %v, want %v", got.Time, tt.want.Time)
			}
			got.Time, tt.want.Time = time.Time{}, time.Time{}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Level: "INFO", Component: "reconciler", Message: "guard expired", Fields: []Field{{Key: "guard", Value: "scrub"}}}
	if got, want := e.String(), "INFO [reconciler] guard expired – guard=scrub"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	raw := Parse("not json")
	if got := raw.String(); got != "not json" {
		t.Fatalf("raw String() = %q", got)
	}
}

package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one extra key/value pair of a structured entry.
type Field struct {
	Key   string
	Value string
}

// Entry is one parsed log line.
type Entry struct {
	Time      time.Time
	Level     string
	Component string
	Message   string
	Fields    []Field
	// Raw is set when the line is not a JSON object; Message then holds
	// the line unchanged.
	Raw bool
}

// Parse decodes one line written by the JSON logger. Lines that are not JSON
// objects come back as Raw entries.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{Message: line, Raw: true}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return Entry{Message: line, Raw: true}
	}

	var e Entry
	if v, ok := obj["time"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			e.Time = ts
		}
	}
	if v, ok := obj["level"].(string); ok {
		e.Level = strings.ToUpper(v)
	}
	if v, ok := obj["component"].(string); ok {
		e.Component = v
	}
	if v, ok := obj["message"].(string); ok {
		e.Message = v
	}
	for k, v := range obj {
		switch k {
		case "time", "level", "component", "message":
			continue
		}
		e.Fields = append(e.Fields, Field{Key: k, Value: formatValue(v)})
	}
	sort.Slice(e.Fields, func(i, j int) bool { return e.Fields[i].Key < e.Fields[j].Key })
	return e
}

// String renders e as a single plain line:
//
//	2026-10-18 14:32:15 WARN [wsconn] connect failed – error=refused
func (e Entry) String() string {
	if e.Raw {
		return e.Message
	}
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.Local().Format("2006-01-02 15:04:05"))
	}
	if e.Level != "" {
		parts = append(parts, e.Level)
	}
	if e.Component != "" {
		parts = append(parts, "["+e.Component+"]")
	}
	parts = append(parts, e.Message)
	line := strings.Join(parts, " ")
	if kv := e.FieldString(); kv != "" {
		line += " – " + kv
	}
	return line
}

// FieldString renders the extra fields as space separated key=value pairs.
func (e Entry) FieldString() string {
	pairs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		pairs = append(pairs, f.Key+"="+f.Value)
	}
	return strings.Join(pairs, " ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

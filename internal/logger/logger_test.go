package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug msg", nil)
	l.Info("info msg", nil)
	l.Warn("warn msg", nil)
	l.Error("error msg", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("messages below WARN were emitted:\n%s", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("messages at or above WARN missing:\n%s", out)
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Warn("dropping post", Fields{"post": "调频说明", "reason": "no window"})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry.Level != "WARN" {
		t.Errorf("Level = %q, want WARN", entry.Level)
	}
	if entry.Message != "dropping post" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Fields["reason"] != "no window" {
		t.Errorf("Fields[reason] = %v, want \"no window\"", entry.Fields["reason"])
	}
}

func TestLogger_ErrorAttached(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("write failed", nil, errors.New("disk full"))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry.Error != "disk full" {
		t.Errorf("Error = %q, want \"disk full\"", entry.Error)
	}
}

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("posts.extracted")
	m.IncrCounter("posts.extracted")
	m.SetGauge("events.merged", 3)
	m.RecordTiming("crawl.post", 100*time.Millisecond)
	m.RecordTiming("crawl.post", 300*time.Millisecond)

	snap := m.Snapshot()

	counters := snap["counters"].(map[string]int64)
	if counters["posts.extracted"] != 2 {
		t.Errorf("counter = %d, want 2", counters["posts.extracted"])
	}

	gauges := snap["gauges"].(map[string]float64)
	if gauges["events.merged"] != 3 {
		t.Errorf("gauge = %v, want 3", gauges["events.merged"])
	}

	timings := snap["timings"].(map[string]Fields)
	crawl := timings["crawl.post"]
	if crawl["count"] != 2 {
		t.Errorf("timing count = %v, want 2", crawl["count"])
	}
	if crawl["average"] != "200ms" {
		t.Errorf("timing average = %v, want 200ms", crawl["average"])
	}
}

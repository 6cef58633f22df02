package version

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	store := NewFileStore(path)

	want := map[string]time.Time{
		"1.4": time.Date(2024, time.January, 24, 11, 0, 0, 0, time.UTC),
		"1.5": time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d entries, want %d", len(got), len(want))
	}
	for label, wantTime := range want {
		if !got[label].Equal(wantTime) {
			t.Errorf("Load()[%q] = %v, want %v", label, got[label], wantTime)
		}
	}
}

func TestFileStore_SaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	store := NewFileStore(path)

	versions := map[string]time.Time{
		"1.5": time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(versions); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading cache file: %v", err)
	}
	if !strings.Contains(string(data), `"1.5": "2024-03-15T12:00:00"`) {
		t.Errorf("cache file missing ISO-8601 entry, got:\n%s", data)
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() returned %d entries, want 0", len(got))
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() on corrupt file returned nil error")
	}
}

func TestFileStore_BadTimestampsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	content := `{"1.4": "garbage", "1.5": "2024-03-15T12:00:00"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := got["1.4"]; ok {
		t.Error("Load() kept entry with unparseable timestamp")
	}
	if _, ok := got["1.5"]; !ok {
		t.Error("Load() dropped valid entry")
	}
}

func TestFileStore_AcceptsOffsetTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	content := `{"1.5": "2024-03-15T12:00:00+08:00"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := got["1.5"]; !ok {
		t.Error("Load() rejected RFC 3339 timestamp with offset")
	}
}

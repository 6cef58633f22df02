package version

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// cacheTimeLayout is the naive ISO-8601 form used in the cache file.
const cacheTimeLayout = "2006-01-02T15:04:05"

// Store persists the version-label → release-time mapping between runs.
// Release times are immutable historical facts, so the mapping only ever
// grows; Save always receives the full merged mapping.
type Store interface {
	Load() (map[string]time.Time, error)
	Save(versions map[string]time.Time) error
}

// FileStore keeps the mapping in a pretty-printed JSON file of
// version-label strings to ISO-8601 timestamps.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the cache file. A missing file is an empty mapping, not an
// error. Entries whose timestamps do not parse are dropped.
func (s *FileStore) Load() (map[string]time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]time.Time), nil
		}
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}

	versions := make(map[string]time.Time, len(raw))
	for label, value := range raw {
		t, err := parseCacheTime(value)
		if err != nil {
			continue
		}
		versions[label] = t
	}
	return versions, nil
}

// Save overwrites the cache file with the full mapping.
func (s *FileStore) Save(versions map[string]time.Time) error {
	raw := make(map[string]string, len(versions))
	for label, t := range versions {
		raw[label] = t.Format(cacheTimeLayout)
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding version cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return nil
}

// parseCacheTime accepts the naive layout written by Save and, for
// hand-edited files, the same layout with a trailing offset.
func parseCacheTime(value string) (time.Time, error) {
	if t, err := time.Parse(cacheTimeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// MemoryStore is an in-process Store for tests and dry runs.
type MemoryStore struct {
	Versions  map[string]time.Time
	SaveCount int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Versions: make(map[string]time.Time)}
}

// Load returns a copy of the stored mapping.
func (s *MemoryStore) Load() (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(s.Versions))
	for label, t := range s.Versions {
		out[label] = t
	}
	return out, nil
}

// Save replaces the stored mapping with a copy of the argument.
func (s *MemoryStore) Save(versions map[string]time.Time) error {
	out := make(map[string]time.Time, len(versions))
	for label, t := range versions {
		out[label] = t
	}
	s.Versions = out
	s.SaveCount++
	return nil
}

// Labels returns the cached version labels in sorted order.
func (s *MemoryStore) Labels() []string {
	labels := make([]string, 0, len(s.Versions))
	for label := range s.Versions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

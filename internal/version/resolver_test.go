package version

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubSearcher struct {
	releases map[string]time.Time
	err      error
	calls    int
}

func (s *stubSearcher) VersionPost(_ context.Context, version string) (time.Time, error) {
	s.calls++
	if s.err != nil {
		return time.Time{}, s.err
	}
	t, ok := s.releases[version]
	if !ok {
		return time.Time{}, ErrNoResult
	}
	return t, nil
}

type failingStore struct {
	saveErr error
}

func (s *failingStore) Load() (map[string]time.Time, error) {
	return nil, errors.New("cache unreadable")
}

func (s *failingStore) Save(map[string]time.Time) error {
	return s.saveErr
}

func TestResolve_CacheHitSkipsSearch(t *testing.T) {
	release := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.Versions["1.5"] = release

	searcher := &stubSearcher{err: errors.New("must not be called")}
	r := NewResolver(store, searcher)

	got, err := r.Resolve(context.Background(), "1.5")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.Equal(release) {
		t.Errorf("Resolve() = %v, want %v", got, release)
	}
	if searcher.calls != 0 {
		t.Errorf("searcher calls = %d, want 0 on cache hit", searcher.calls)
	}
	if store.SaveCount != 0 {
		t.Errorf("store saves = %d, want 0 on cache hit", store.SaveCount)
	}
}

func TestResolve_LearnsAndPersistsOnce(t *testing.T) {
	release := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	searcher := &stubSearcher{releases: map[string]time.Time{"1.5": release}}
	r := NewResolver(store, searcher)

	first, err := r.Resolve(context.Background(), "1.5")
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := r.Resolve(context.Background(), "1.5")
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if !first.Equal(release) || !second.Equal(first) {
		t.Errorf("Resolve() = %v then %v, want %v both times", first, second, release)
	}
	if searcher.calls != 1 {
		t.Errorf("searcher calls = %d, want 1", searcher.calls)
	}
	if store.SaveCount != 1 {
		t.Errorf("store saves = %d, want 1", store.SaveCount)
	}
	if got, ok := store.Versions["1.5"]; !ok || !got.Equal(release) {
		t.Errorf("persisted value = %v (present=%v), want %v", got, ok, release)
	}
}

func TestResolve_MergesWithExistingEntries(t *testing.T) {
	old := time.Date(2024, time.January, 24, 11, 0, 0, 0, time.UTC)
	release := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore()
	store.Versions["1.4"] = old
	searcher := &stubSearcher{releases: map[string]time.Time{"1.5": release}}
	r := NewResolver(store, searcher)

	if _, err := r.Resolve(context.Background(), "1.5"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	wantLabels := []string{"1.4", "1.5"}
	gotLabels := store.Labels()
	if len(gotLabels) != len(wantLabels) {
		t.Fatalf("persisted labels = %v, want %v", gotLabels, wantLabels)
	}
	for i := range wantLabels {
		if gotLabels[i] != wantLabels[i] {
			t.Fatalf("persisted labels = %v, want %v", gotLabels, wantLabels)
		}
	}
	if got := store.Versions["1.4"]; !got.Equal(old) {
		t.Errorf("unrelated entry overwritten: %v, want %v", got, old)
	}
}

func TestResolve_SearchFailure(t *testing.T) {
	r := NewResolver(NewMemoryStore(), &stubSearcher{})

	_, err := r.Resolve(context.Background(), "9.9")
	if !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("Resolve() error = %v, want %v", err, ErrUnknownVersion)
	}
}

func TestResolve_UnreadableStoreStillResolves(t *testing.T) {
	release := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	searcher := &stubSearcher{releases: map[string]time.Time{"1.5": release}}
	r := NewResolver(&failingStore{}, searcher)

	got, err := r.Resolve(context.Background(), "1.5")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.Equal(release) {
		t.Errorf("Resolve() = %v, want %v", got, release)
	}
}

func TestResolve_SaveFailureIsNotFatal(t *testing.T) {
	release := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	searcher := &stubSearcher{releases: map[string]time.Time{"1.5": release}}
	r := NewResolver(&failingStore{saveErr: errors.New("disk full")}, searcher)

	got, err := r.Resolve(context.Background(), "1.5")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.Equal(release) {
		t.Errorf("Resolve() = %v, want %v", got, release)
	}
}

package version

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zzztools/banner-events/internal/logger"
)

// ErrUnknownVersion reports that a version's release time could not be
// determined from either the cache or the external search.
var ErrUnknownVersion = errors.New("version release time unknown")

// Resolver maps version labels to release times, cache first, external
// search on a miss. Newly learned times are persisted immediately so
// later runs skip the search. The cache is loaded once per Resolver and
// never invalidated within a run; release times do not change.
type Resolver struct {
	store    Store
	searcher Searcher
	cache    map[string]time.Time
}

// NewResolver creates a Resolver over the given store and searcher.
func NewResolver(store Store, searcher Searcher) *Resolver {
	return &Resolver{
		store:    store,
		searcher: searcher,
	}
}

// Resolve returns the release time of the given version label. Failures
// wrap ErrUnknownVersion; the caller treats them as "start time unknown"
// for the affected post, not as a fatal condition.
func (r *Resolver) Resolve(ctx context.Context, version string) (time.Time, error) {
	if r.cache == nil {
		cached, err := r.store.Load()
		if err != nil {
			logger.Warn("version cache unreadable, starting empty", logger.Fields{
				"error": err.Error(),
			})
			cached = make(map[string]time.Time)
		}
		r.cache = cached
	}

	if t, ok := r.cache[version]; ok {
		return t, nil
	}

	t, err := r.searcher.VersionPost(ctx, version)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrUnknownVersion, version, err)
	}

	r.cache[version] = t
	if err := r.store.Save(r.cache); err != nil {
		// Non-fatal: the resolved time is still good for this run, it
		// just will not survive to the next one.
		logger.Error("persisting version cache failed", logger.Fields{
			"version": version,
		}, err)
	}

	logger.Info("learned version release time", logger.Fields{
		"version":  version,
		"released": t.Format(cacheTimeLayout),
	})
	return t, nil
}

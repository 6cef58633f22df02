package banner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Post body keywords used by the validation gate. 音擎 marks W-Engine
// (equipment) banners, which are out of scope; 代理人 marks agent
// (character) banners, the only kind this tool tracks.
const (
	engineKeyword = "音擎"
	agentKeyword  = "代理人"
)

// Extraction failure classes. Callers pick log severity with errors.Is:
// gate rejections are routine policy skips, the rest indicate a post we
// expected to handle but could not.
var (
	ErrEmptyBody      = errors.New("post body is empty")
	ErrEngineContent  = errors.New("post describes engine content")
	ErrNoAgentKeyword = errors.New("post does not mention agents")
	ErrNoTimeWindow   = errors.New("no recognized time window in post")
	ErrInvalidWindow  = errors.New("window start is not before end")
)

var (
	// [name(qualifier)] pairs naming the featured agents.
	agentPattern = regexp.MustCompile(`\[(.*?)\((.*?)\)\]`)

	// 2024/3/1 10:00:00 ~ 2024/3/22 10:00:00
	directPattern = regexp.MustCompile(`(\d{4}/\d{1,2}/\d{1,2}\s+\d{1,2}:\d{2}:\d{2})\s*~\s*(\d{4}/\d{1,2}/\d{1,2}\s+\d{1,2}:\d{2}:\d{2})`)

	// 1.5版本更新后 ~ 2024/4/1 10:00:00
	versionPattern = regexp.MustCompile(`(\d+\.\d+)版本更新后\s*~\s*(\d{4}/\d{1,2}/\d{1,2}\s+\d{1,2}:\d{2}:\d{2})`)
)

// postTimeLayout accepts single- or double-digit month, day, and hour.
const postTimeLayout = "2006/1/2 15:04:05"

// VersionResolver maps a version label such as "1.5" to its release time.
type VersionResolver interface {
	Resolve(ctx context.Context, version string) (time.Time, error)
}

// TimeMatcher recognizes one time-window encoding in post body text.
// ok=false with a nil error means "this encoding is not present"; the
// extractor then tries the next matcher in order.
type TimeMatcher interface {
	Match(ctx context.Context, body string) (start, end time.Time, ok bool, err error)
}

// Extractor turns raw posts into candidate events. Matchers are tried in
// registration order and the first hit wins, so adding a new encoding
// never changes how existing ones behave.
type Extractor struct {
	matchers []TimeMatcher
}

// NewExtractor creates an Extractor with the two known time encodings:
// a direct start~end window, then a version-relative window resolved
// through the given resolver.
func NewExtractor(resolver VersionResolver) *Extractor {
	return &Extractor{
		matchers: []TimeMatcher{
			DirectWindowMatcher{},
			&VersionWindowMatcher{Resolver: resolver},
		},
	}
}

// Extract validates a post and pulls out its banner event. A rejected or
// unparseable post returns a typed error; the zero CandidateEvent is
// never meaningful on error.
func (e *Extractor) Extract(ctx context.Context, post RawPost) (CandidateEvent, error) {
	if strings.TrimSpace(post.Body) == "" {
		return CandidateEvent{}, ErrEmptyBody
	}
	if strings.Contains(post.Body, engineKeyword) {
		return CandidateEvent{}, ErrEngineContent
	}
	if !strings.Contains(post.Body, agentKeyword) {
		return CandidateEvent{}, ErrNoAgentKeyword
	}

	title := post.Title
	if derived, ok := DeriveAgentTitle(post.Body); ok {
		title = derived
	}

	for _, m := range e.matchers {
		start, end, ok, err := m.Match(ctx, post.Body)
		if err != nil {
			return CandidateEvent{}, fmt.Errorf("extracting window for %q: %w", title, err)
		}
		if !ok {
			continue
		}
		if !start.Before(end) {
			return CandidateEvent{}, fmt.Errorf("%w: %s ~ %s", ErrInvalidWindow,
				start.Format(postTimeLayout), end.Format(postTimeLayout))
		}
		return CandidateEvent{
			Title: title,
			Start: start,
			End:   end,
		}, nil
	}

	return CandidateEvent{}, ErrNoTimeWindow
}

// DeriveAgentTitle builds a title from the [name(qualifier)] pairs in the
// body: deduplicated in first-seen order and joined with 、. Returns
// false when the body names no agents, in which case the post's own
// title stands.
func DeriveAgentTitle(body string) (string, bool) {
	matches := agentPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return "", false
	}

	seen := make(map[string]bool, len(matches))
	agents := make([]string, 0, len(matches))
	for _, m := range matches {
		agent := m[1] + "(" + m[2] + ")"
		if seen[agent] {
			continue
		}
		seen[agent] = true
		agents = append(agents, agent)
	}
	return strings.Join(agents, TitleDelimiter), true
}

// DirectWindowMatcher recognizes an absolute "start ~ end" window.
type DirectWindowMatcher struct{}

func (DirectWindowMatcher) Match(_ context.Context, body string) (time.Time, time.Time, bool, error) {
	m := directPattern.FindStringSubmatch(body)
	if m == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	start, err := parsePostTime(m[1])
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parsing window start: %w", err)
	}
	end, err := parsePostTime(m[2])
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parsing window end: %w", err)
	}
	return start, end, true, nil
}

// VersionWindowMatcher recognizes "N.N版本更新后 ~ end", resolving the
// version label to the window start. An unresolvable version fails the
// match outright: a banner with an unknown start is not emitted.
type VersionWindowMatcher struct {
	Resolver VersionResolver
}

func (m *VersionWindowMatcher) Match(ctx context.Context, body string) (time.Time, time.Time, bool, error) {
	match := versionPattern.FindStringSubmatch(body)
	if match == nil {
		return time.Time{}, time.Time{}, false, nil
	}

	end, err := parsePostTime(match[2])
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parsing window end: %w", err)
	}

	start, err := m.Resolver.Resolve(ctx, match[1])
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("resolving version %s release time: %w", match[1], err)
	}
	return start, end, true, nil
}

// parsePostTime parses a post timestamp as a naive wall-clock value.
// Runs of whitespace between date and time are collapsed first; the
// posts are hand-written and padding varies.
func parsePostTime(s string) (time.Time, error) {
	return time.Parse(postTimeLayout, strings.Join(strings.Fields(s), " "))
}

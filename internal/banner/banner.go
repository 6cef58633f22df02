package banner

import "time"

// TitleDelimiter joins agent name segments in derived and merged titles.
const TitleDelimiter = "、"

// RawPost is a crawled forum post: the listing title plus the rendered
// body text of the article page.
type RawPost struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CandidateEvent is one banner event extracted from a single post.
// Start and End are naive wall-clock times: they carry no meaningful
// zone and are only ever formatted, never converted.
type CandidateEvent struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

// MergedEvent is a CandidateEvent whose title may combine several source
// posts that announced the same time window.
type MergedEvent struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

// windowLayout is the naive ISO-8601 form used for merge keys and the
// persisted version cache. It matches what the calendar layer emits:
// local wall-clock time, no offset.
const windowLayout = "2006-01-02T15:04:05"

// WindowKey identifies a time window by exact endpoint equality.
// Windows off by even one second do not merge; that is deliberate.
func WindowKey(start, end time.Time) string {
	return start.Format(windowLayout) + "/" + end.Format(windowLayout)
}

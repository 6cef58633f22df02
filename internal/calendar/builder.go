package calendar

import (
	"time"

	"github.com/zzztools/banner-events/internal/banner"
)

const (
	// splitThreshold is the duration above which a banner is shown as
	// two boundary markers instead of one multi-day block. Banners run
	// for weeks; a single event would blanket every calendar day.
	splitThreshold = 24 * time.Hour

	// markerDuration is how long each boundary marker lasts.
	markerDuration = time.Hour

	startSuffix = " 开始"
	endSuffix   = " 结束"
)

// Entry is one VEVENT-to-be: naive wall-clock times plus text fields.
type Entry struct {
	Summary     string
	Start       time.Time
	End         time.Time
	Description string
}

// Build converts a merged banner event into calendar entries. Events
// longer than 24 hours become a pair of one-hour markers at the window
// boundaries ("<title> 开始" and "<title> 结束"); shorter events become a
// single entry spanning the window unchanged.
func Build(evt banner.MergedEvent) []Entry {
	if evt.End.Sub(evt.Start) > splitThreshold {
		return []Entry{
			{
				Summary:     evt.Title + startSuffix,
				Start:       evt.Start,
				End:         evt.Start.Add(markerDuration),
				Description: evt.Description,
			},
			{
				Summary:     evt.Title + endSuffix,
				Start:       evt.End.Add(-markerDuration),
				End:         evt.End,
				Description: evt.Description,
			},
		}
	}

	return []Entry{{
		Summary:     evt.Title,
		Start:       evt.Start,
		End:         evt.End,
		Description: evt.Description,
	}}
}

// BuildAll flattens a list of merged events into calendar entries,
// preserving input order.
func BuildAll(events []banner.MergedEvent) []Entry {
	entries := make([]Entry, 0, len(events))
	for _, evt := range events {
		entries = append(entries, Build(evt)...)
	}
	return entries
}

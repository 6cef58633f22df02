package banner

import "strings"

// Merge combines candidate events that announce the exact same time
// window into one event per window. The first event seen for a window
// keeps its start, end, and description; later arrivals only contribute
// title segments not already present. Results preserve first-seen window
// order so downstream output is deterministic.
func Merge(events []CandidateEvent) []MergedEvent {
	byWindow := make(map[string]int, len(events))
	merged := make([]MergedEvent, 0, len(events))

	for _, evt := range events {
		key := WindowKey(evt.Start, evt.End)
		idx, exists := byWindow[key]
		if !exists {
			byWindow[key] = len(merged)
			merged = append(merged, MergedEvent(evt))
			continue
		}
		merged[idx].Title = mergeTitles(merged[idx].Title, evt.Title)
	}

	return merged
}

// mergeTitles concatenates the 、-separated segments of both titles,
// dropping exact duplicates while keeping first-occurrence order.
func mergeTitles(existing, incoming string) string {
	segments := append(strings.Split(existing, TitleDelimiter), strings.Split(incoming, TitleDelimiter)...)

	seen := make(map[string]bool, len(segments))
	unique := segments[:0]
	for _, seg := range segments {
		if seen[seg] {
			continue
		}
		seen[seg] = true
		unique = append(unique, seg)
	}
	return strings.Join(unique, TitleDelimiter)
}

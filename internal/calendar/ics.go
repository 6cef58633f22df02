package calendar

import (
	"fmt"
	"os"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// Calendar metadata. The timezone is a label only: entry times are the
// naive wall-clock values from the posts and are never converted.
const (
	ProductID    = "-//米哈游绝区零调频活动日历//CN"
	CalendarName = "绝区零调频活动"
	Timezone     = "Asia/Shanghai"
)

// icsTimeLayout is the floating (zone-less) ICS date-time form; the zone
// is declared through the TZID parameter.
const icsTimeLayout = "20060102T150405"

// Encode serializes entries into a single VCALENDAR payload with one
// VEVENT per entry (SUMMARY, DTSTART/DTEND with TZID, DESCRIPTION).
func Encode(entries []Entry) string {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetVersion("2.0")
	cal.SetXWRCalName(CalendarName)
	cal.SetXWRTimezone(Timezone)

	now := time.Now().UTC()
	for _, entry := range entries {
		evt := cal.AddEvent(uuid.NewString())
		evt.SetDtStampTime(now)
		evt.SetSummary(entry.Summary)
		evt.SetDescription(entry.Description)
		evt.SetProperty(ics.ComponentPropertyDtStart, entry.Start.Format(icsTimeLayout),
			&ics.KeyValues{Key: "TZID", Value: []string{Timezone}})
		evt.SetProperty(ics.ComponentPropertyDtEnd, entry.End.Format(icsTimeLayout),
			&ics.KeyValues{Key: "TZID", Value: []string{Timezone}})
	}

	return cal.Serialize()
}

// WriteFile serializes entries and writes the calendar file.
func WriteFile(path string, entries []Entry) error {
	if err := os.WriteFile(path, []byte(Encode(entries)), 0644); err != nil {
		return fmt.Errorf("writing calendar file: %w", err)
	}
	return nil
}

// Package calendar turns merged banner events into iCalendar entries and
// serializes them to an ICS file for subscription.
package calendar

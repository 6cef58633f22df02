// Package banner is the domain core: it decides which crawled posts
// describe agent banner events, extracts each event's title and active
// time window from free-form post text, and merges events that share an
// identical window.
//
// Time values in this package are naive wall-clock timestamps. Posts
// quote times in the publisher's local zone without an offset, and the
// calendar layer attaches the zone label at serialization time; nothing
// here converts between zones.
package banner

// Package version resolves game version labels ("1.5") to their release
// timestamps. Release times come from the publisher's version-info
// station posts via the community search API and are cached in a JSON
// file, since they are expensive to look up but never change once known.
package version

// Package crawler fetches banner announcement posts from the miyoushe
// community site. It renders the client-side search and article pages in
// headless Chrome and parses the resulting DOM; the parsing half is pure
// and testable against fixture HTML.
package crawler

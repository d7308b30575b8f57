package referrer

import (
	"net/http"
	"net/url"
)

// DefaultQueryName is the query parameter consulted when no Referer header is sent.
const DefaultQueryName = "ref"

// Locate returns the referrer URL of r.
//
// A non-empty Referer header always wins. Otherwise, when queryName is not
// empty, the query parameter of that name is used. An empty queryName disables
// the query fallback. The second result is false when nothing was found.
func Locate(r *http.Request, queryName string) (string, bool) {
	if r == nil {
		return "", false
	}
	// An empty header counts as absent and falls through to the query.
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref, true
	}
	if queryName == "" || r.URL == nil {
		return "", false
	}

	// ParseQuery keeps every well-formed pair even when others are
	// malformed, so a bad unrelated parameter does not hide the referrer.
	q, _ := url.ParseQuery(r.URL.RawQuery)
	if ref := q.Get(queryName); ref != "" {
		return ref, true
	}
	return "", false
}

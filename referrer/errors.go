package referrer

import (
	"errors"
	"fmt"
)

// ErrReferrerMissing is returned when neither the Referer header nor the
// fallback query parameter yields a URL. Its message is stable; callers may
// match on it.
var ErrReferrerMissing = errors.New("deref: no referrer URL found")

var (
	// ErrUnsupportedScheme rejects referrer URLs that are not absolute http(s).
	ErrUnsupportedScheme = errors.New("deref: unsupported referrer URL")

	// ErrBlockedAddress is returned by the dial guard for non-public destinations.
	ErrBlockedAddress = errors.New("deref: destination address not allowed")

	// ErrBodyTooLarge is returned when the referrer page exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("deref: referrer body too large")
)

// StatusError reports a referrer page that answered with an HTTP error status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deref: HTTP %d for %s", e.StatusCode, e.URL)
}

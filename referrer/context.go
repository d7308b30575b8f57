package referrer

import "context"

type ctxKey int

const (
	clientIPKey ctxKey = iota
	resultKey
)

// WithClientIP returns a context carrying the resolved client IP of the
// inbound request. The default Fetcher forwards it as X-Forwarded-For.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext returns the IP stored by WithClientIP.
func ClientIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPKey).(string)
	return ip, ok && ip != ""
}

// Result is what the middleware attaches to a request.
type Result struct {
	// URL is the referrer URL that was located, empty when none was found.
	URL string

	// HTML is the raw body of the referrer page. Only set when Fetched is true.
	HTML string

	// Fetched reports whether the referrer page was retrieved.
	Fetched bool

	StatusCode int
	FinalURL   string
}

// NewContext returns a copy of ctx carrying res.
func NewContext(ctx context.Context, res *Result) context.Context {
	return context.WithValue(ctx, resultKey, res)
}

// FromContext returns the Result attached by the middleware, if any.
func FromContext(ctx context.Context) (*Result, bool) {
	res, ok := ctx.Value(resultKey).(*Result)
	return res, ok
}

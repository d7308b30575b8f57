package referrer

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deref/version"
)

// Keys under which Middleware stores its results on the gin.Context.
const (
	KeyURL  = "referrerURL"
	KeyHTML = "referrerHTML"
)

// LocateFunc finds the referrer URL of a request. queryName is empty when the
// query fallback is disabled.
type LocateFunc func(r *http.Request, queryName string) (string, bool)

// FetchFunc dereferences referrerURL on behalf of r.
type FetchFunc func(ctx context.Context, r *http.Request, referrerURL string) (*Result, error)

// Dereferencer is the capability pair the middleware is built on.
type Dereferencer interface {
	LocateReferrer(r *http.Request, queryName string) (string, bool)
	FetchReferrerHTML(ctx context.Context, r *http.Request, referrerURL string) (*Result, error)
}

// Funcs adapts a LocateFunc and a FetchFunc to Dereferencer.
type Funcs struct {
	Locate LocateFunc
	Fetch  FetchFunc
}

// LocateReferrer calls f.Locate.
func (f Funcs) LocateReferrer(r *http.Request, queryName string) (string, bool) {
	return f.Locate(r, queryName)
}

// FetchReferrerHTML calls f.Fetch.
func (f Funcs) FetchReferrerHTML(ctx context.Context, r *http.Request, referrerURL string) (*Result, error) {
	return f.Fetch(ctx, r, referrerURL)
}

// LocateReferrer implements Dereferencer with Locate.
func (f *Fetcher) LocateReferrer(r *http.Request, queryName string) (string, bool) {
	return Locate(r, queryName)
}

// FetchReferrerHTML implements Dereferencer with Fetch.
func (f *Fetcher) FetchReferrerHTML(ctx context.Context, r *http.Request, referrerURL string) (*Result, error) {
	return f.Fetch(ctx, r, referrerURL)
}

// Config configures Middleware.
type Config struct {
	// QueryName is the fallback query parameter.
	QueryName string // default: "ref"

	// DisableQuery turns the query fallback off; only the Referer header is used.
	DisableQuery bool

	// IgnoreErrors swallows lookup and fetch failures: the chain continues and
	// KeyHTML stays unset. By default failures are reported with c.Error and
	// the chain is aborted.
	IgnoreErrors bool

	// Locate overrides the referrer lookup.
	Locate LocateFunc // default: Locate

	// Fetch overrides the referrer fetch.
	Fetch FetchFunc // default: Fetcher.Fetch

	// Fetcher is used when Fetch is nil.
	Fetcher *Fetcher // default: NewFetcher with the build User-Agent
}

func (cfg Config) withDefaults() Config {
	if cfg.QueryName == "" {
		cfg.QueryName = DefaultQueryName
	}
	if cfg.DisableQuery {
		cfg.QueryName = ""
	}
	if cfg.Locate == nil {
		cfg.Locate = Locate
	}
	if cfg.Fetch == nil {
		if cfg.Fetcher == nil {
			cfg.Fetcher = NewFetcher(FetcherConfig{UserAgent: UserAgent(version.Name, version.Version)})
		}
		cfg.Fetch = cfg.Fetcher.Fetch
	}
	return cfg
}

// Middleware returns gin middleware that locates the referrer URL of each
// request and fetches its HTML.
//
// Results are stored under KeyURL and KeyHTML and attached to the request
// context (see FromContext). The client IP is resolved with c.ClientIP, so
// gin's trusted proxy settings apply to the forwarded X-Forwarded-For.
func Middleware(cfg Config) gin.HandlerFunc {
	cfg = cfg.withDefaults()
	return Handler(Funcs{Locate: cfg.Locate, Fetch: cfg.Fetch}, cfg.QueryName, cfg.IgnoreErrors)
}

// Handler builds the middleware over an arbitrary Dereferencer. queryName is
// passed to LocateReferrer verbatim.
func Handler(d Dereferencer, queryName string, ignoreErrors bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithClientIP(c.Request.Context(), c.ClientIP())
		res := &Result{}

		refURL, found := d.LocateReferrer(c.Request, queryName)
		res.URL = refURL
		c.Set(KeyURL, refURL)
		c.Request = c.Request.WithContext(NewContext(ctx, res))

		if !found {
			fail(c, ErrReferrerMissing, ignoreErrors)
			return
		}

		fetched, err := d.FetchReferrerHTML(ctx, c.Request, refURL)
		if err != nil {
			fail(c, err, ignoreErrors)
			return
		}
		if fetched == nil {
			fetched = &Result{URL: refURL}
		}

		res.HTML = fetched.HTML
		res.Fetched = true
		res.StatusCode = fetched.StatusCode
		res.FinalURL = fetched.FinalURL
		c.Set(KeyHTML, fetched.HTML)
		c.Next()
	}
}

func fail(c *gin.Context, err error, ignore bool) {
	if ignore {
		slog.Debug("referrer error ignored", "path", c.Request.URL.Path, "error", err)
		c.Next()
		return
	}
	_ = c.Error(err)
	c.Abort()
}

package referrer

import (
	"context"
	stdtls "crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultMaxBodyBytes caps the referrer page body.
const DefaultMaxBodyBytes = 10 << 20

// UserAgent builds the outbound User-Agent, e.g. "DerefBot/0.1.0".
func UserAgent(product, version string) string {
	return product + "Bot/" + version
}

// FetcherConfig configures a Fetcher. It is read once by NewFetcher.
type FetcherConfig struct {
	// UserAgent is sent with every outbound request. Required.
	UserAgent string

	// Client overrides the HTTP client. When set, BlockPrivate and ChromeTLS
	// are ignored; the client's transport is used as is.
	Client *http.Client

	// MaxBodyBytes caps the body read from the referrer page.
	MaxBodyBytes int64 // default: 10 MB

	// BlockPrivate refuses to dial loopback, private, link-local and
	// unspecified addresses. It also ignores HTTP(S)_PROXY: behind a proxy
	// the dial guard would only see the proxy's address.
	BlockPrivate bool

	// ChromeTLS dials TLS with a Chrome ClientHello (utls).
	ChromeTLS bool

	// RootCAs overrides the system roots used to verify referrer hosts.
	RootCAs *x509.CertPool

	// ResolveIP resolves the client IP forwarded as X-Forwarded-For.
	ResolveIP func(*http.Request) string // default: DefaultIPResolver()
}

// Fetcher dereferences referrer URLs. It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	resolveIP func(*http.Request) string
}

// NewFetcher creates a Fetcher from cfg.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	f := &Fetcher{
		client:    cfg.Client,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		resolveIP: cfg.ResolveIP,
	}
	switch {
	case f.maxBody <= 0:
		f.maxBody = DefaultMaxBodyBytes
	case f.maxBody == math.MaxInt64:
		// Leaves room for the one-byte overflow read in Fetch.
		f.maxBody = math.MaxInt64 - 1
	}
	if f.resolveIP == nil {
		f.resolveIP = DefaultIPResolver()
	}
	if f.client == nil {
		f.client = &http.Client{Transport: newTransport(cfg.ChromeTLS, cfg.BlockPrivate, cfg.RootCAs)}
	}
	return f
}

func newTransport(chromeTLS, blockPrivate bool, rootCAs *x509.CertPool) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	var t *http.Transport
	if chromeTLS {
		t = ChromeTransport(dialer, rootCAs)
	} else {
		t = http.DefaultTransport.(*http.Transport).Clone()
		t.DialContext = dialer.DialContext
		if rootCAs != nil {
			t.TLSClientConfig = &stdtls.Config{RootCAs: rootCAs}
		}
	}

	if blockPrivate {
		dialer.Control = guardPublic
		// Through a proxy the guard would only see the proxy's address.
		t.Proxy = nil
	}
	return t
}

// Fetch performs a single GET against referrerURL on behalf of r, forwarding
// its Cookie header and client IP. When referrerURL is empty it is located on
// r with DefaultQueryName.
//
// Transport errors are returned unchanged. A response status >= 400 yields a
// *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, r *http.Request, referrerURL string) (*Result, error) {
	if referrerURL == "" {
		referrerURL, _ = Locate(r, DefaultQueryName)
	}
	if referrerURL == "" {
		return nil, ErrReferrerMissing
	}
	if err := checkURL(referrerURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, referrerURL, nil)
	if err != nil {
		return nil, err
	}
	var cookie, clientIP string
	if r != nil {
		cookie = r.Header.Get("Cookie")
		clientIP = f.resolveIP(r)
	}
	req.Header.Set("Cookie", cookie)
	req.Header.Set("X-Forwarded-For", clientIP)
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "identity")

	// Cookies set by the referrer page live only as long as this call.
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client := *f.client
	client.Jar = jar

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: referrerURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, f.maxBody)
	}

	slog.Debug("referrer fetched",
		"url", referrerURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		URL:        referrerURL,
		HTML:       string(body),
		Fetched:    true,
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// checkURL accepts absolute http and https URLs only.
func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, raw)
	}
	return nil
}

package referrer

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/abczzz13/clientip"
)

// NewIPResolver returns a resolver for FetcherConfig.ResolveIP. An IP
// attached with WithClientIP wins; otherwise extractor decides. When the
// extractor rejects the request the RemoteAddr host is forwarded as is.
func NewIPResolver(extractor *clientip.Extractor) func(*http.Request) string {
	return func(r *http.Request) string {
		if ip, ok := ClientIPFromContext(r.Context()); ok {
			return ip
		}
		extraction, err := extractor.Extract(r)
		if err == nil {
			return extraction.IP.String()
		}
		slog.Debug("client ip extraction failed", "remote_addr", r.RemoteAddr, "error", err)
		return remoteHost(r)
	}
}

// DefaultIPResolver resolves from RemoteAddr only. Proxy headers are not
// trusted; inside gin the middleware attaches c.ClientIP instead.
func DefaultIPResolver() func(*http.Request) string {
	extractor, err := clientip.New(clientip.AllowPrivateIPs(true))
	if err != nil {
		slog.Warn("client ip extractor unavailable, using RemoteAddr", "error", err)
		return func(r *http.Request) string {
			if ip, ok := ClientIPFromContext(r.Context()); ok {
				return ip
			}
			return remoteHost(r)
		}
	}
	return NewIPResolver(extractor)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

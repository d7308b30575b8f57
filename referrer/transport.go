package referrer

import (
	"context"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"time"

	tls "github.com/refraction-networking/utls"
)

// chromeH1Spec builds a Chrome ClientHello with ALPN forced to http/1.1,
// since http.Transport cannot speak h2 over a utls connection. Extensions
// carry handshake state, so every connection gets a fresh spec.
func chromeH1Spec() (*tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return nil, err
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return &spec, nil
}

// ChromeTransport returns a transport that dials with dialer and performs
// the TLS handshake with a Chrome fingerprint. Some origins reject the
// default Go ClientHello. A nil rootCAs uses the system roots.
func ChromeTransport(dialer *net.Dialer, rootCAs *x509.CertPool) *http.Transport {
	return &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)

			spec, err := chromeH1Spec()
			if err != nil {
				conn.Close()
				return nil, fmt.Errorf("chrome tls: build spec: %w", err)
			}
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host, RootCAs: rootCAs}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("chrome tls: apply spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2:   false,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

package referrer

import (
	"context"
	"crypto/x509"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPublic(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34", true},
		{"2606:2800:220:1:248:1893:25c8:1946", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"0.0.0.0", false},
		{"fe80::1", false},
		{"::ffff:127.0.0.1", false},
		{"224.0.0.1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isPublic(netip.MustParseAddr(tt.addr)), tt.addr)
	}
}

func TestGuardPublic(t *testing.T) {
	assert.NoError(t, guardPublic("tcp4", "93.184.216.34:443", nil))
	assert.ErrorIs(t, guardPublic("tcp4", "127.0.0.1:80", nil), ErrBlockedAddress)
	assert.ErrorIs(t, guardPublic("tcp6", "[::1]:80", nil), ErrBlockedAddress)
	assert.Error(t, guardPublic("tcp", "no-port", nil))
}

func TestFetch_BlockPrivateRefusesLoopback(t *testing.T) {
	var hit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{UserAgent: testUA, BlockPrivate: true})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := f.Fetch(context.Background(), req, srv.URL)

	assert.ErrorIs(t, err, ErrBlockedAddress)
	assert.False(t, hit)
}

func TestNewTransport_BlockPrivateDisablesProxy(t *testing.T) {
	assert.Nil(t, newTransport(false, true, nil).Proxy)
	assert.Nil(t, newTransport(true, true, nil).Proxy)
	assert.NotNil(t, newTransport(false, false, nil).Proxy)
	assert.NotNil(t, newTransport(true, false, nil).Proxy)
}

func TestChromeTransport(t *testing.T) {
	tr := newTransport(true, true, nil)
	assert.NotNil(t, tr.DialTLSContext)
	assert.False(t, tr.ForceAttemptHTTP2)

	spec, err := chromeH1Spec()
	if assert.NoError(t, err) {
		assert.NotEmpty(t, spec.Extensions)
	}
}

func TestFetch_ChromeTLSHandshake(t *testing.T) {
	const page = "<html>served over utls</html>"
	var proto string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proto = r.Proto
		io.WriteString(w, page)
	}))
	defer srv.Close()

	roots := x509.NewCertPool()
	roots.AddCert(srv.Certificate())

	f := NewFetcher(FetcherConfig{UserAgent: testUA, ChromeTLS: true, RootCAs: roots})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res, err := f.Fetch(context.Background(), req, srv.URL)

	require.NoError(t, err)
	assert.Equal(t, page, res.HTML)
	assert.Equal(t, "HTTP/1.1", proto)
}

func TestFetch_ChromeTLSUnknownAuthority(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{UserAgent: testUA, ChromeTLS: true})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := f.Fetch(context.Background(), req, srv.URL)
	assert.Error(t, err)
}

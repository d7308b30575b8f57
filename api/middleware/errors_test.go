package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/deref/models"
	"github.com/use-agent/deref/referrer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"missing", referrer.ErrReferrerMissing, models.ErrCodeReferrerMissing, http.StatusBadRequest},
		{"scheme", fmt.Errorf("%w: %q", referrer.ErrUnsupportedScheme, "ftp://x"), models.ErrCodeInvalidReferrer, http.StatusBadRequest},
		{"blocked", &url.Error{Op: "Get", URL: "http://10.0.0.1", Err: referrer.ErrBlockedAddress}, models.ErrCodeInvalidReferrer, http.StatusBadRequest},
		{"status", &referrer.StatusError{StatusCode: 503, URL: "http://a"}, models.ErrCodeUpstreamStatus, http.StatusBadGateway},
		{"transport", &url.Error{Op: "Get", URL: "http://a", Err: errors.New("connection refused")}, models.ErrCodeFetchFailed, http.StatusBadGateway},
		{"too large", referrer.ErrBodyTooLarge, models.ErrCodeFetchFailed, http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, models.ErrCodeFetchFailed, http.StatusBadGateway},
		{"typed", models.NewDerefError(models.ErrCodeRateLimited, "slow", nil), models.ErrCodeRateLimited, http.StatusTooManyRequests},
		{"other", errors.New("boom"), models.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			derr := Classify(tt.err)
			assert.Equal(t, tt.code, derr.Code)
			assert.Equal(t, tt.status, StatusFor(derr))
			if tt.code != models.ErrCodeRateLimited {
				assert.ErrorIs(t, derr, tt.err)
			}
		})
	}
}

func TestValidKey(t *testing.T) {
	keys := [][]byte{[]byte("alpha"), []byte("beta")}
	assert.True(t, validKey(keys, "beta"))
	assert.False(t, validKey(keys, "gamma"))
	assert.False(t, validKey(keys, "alph"))
}

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deref/models"
	"github.com/use-agent/deref/referrer"
)

const startKey = "deref_start"

// Errors renders the last error recorded on the chain with c.Error as a JSON
// envelope, unless a handler already wrote a response. It also stamps the
// request start time used by Elapsed.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startKey, time.Now())
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		derr := Classify(c.Errors.Last().Err)
		slog.Warn("request failed",
			"path", c.Request.URL.Path,
			"code", derr.Code,
			"error", derr.Error(),
		)
		c.JSON(StatusFor(derr), models.ReferrerResponse{
			Success:     false,
			ReferrerURL: c.GetString(referrer.KeyURL),
			Timing:      models.TimingInfo{TotalMs: Elapsed(c).Milliseconds()},
			Error:       derr.ToDetail(),
		})
	}
}

// Elapsed returns the time since Errors saw the request, or 0.
func Elapsed(c *gin.Context) time.Duration {
	start, ok := c.Get(startKey)
	if !ok {
		return 0
	}
	return time.Since(start.(time.Time))
}

// Classify maps an error from the referrer chain to a DerefError.
func Classify(err error) *models.DerefError {
	var derr *models.DerefError
	if errors.As(err, &derr) {
		return derr
	}

	var statusErr *referrer.StatusError
	var urlErr *url.Error
	switch {
	case errors.Is(err, referrer.ErrReferrerMissing):
		return models.NewDerefError(models.ErrCodeReferrerMissing, err.Error(), err)
	case errors.Is(err, referrer.ErrUnsupportedScheme), errors.Is(err, referrer.ErrBlockedAddress):
		return models.NewDerefError(models.ErrCodeInvalidReferrer, err.Error(), err)
	case errors.As(err, &statusErr):
		return models.NewDerefError(models.ErrCodeUpstreamStatus, err.Error(), err)
	case errors.Is(err, referrer.ErrBodyTooLarge),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &urlErr):
		return models.NewDerefError(models.ErrCodeFetchFailed, err.Error(), err)
	default:
		return models.NewDerefError(models.ErrCodeInternal, "internal error", err)
	}
}

// StatusFor translates error codes to HTTP status codes.
func StatusFor(e *models.DerefError) int {
	switch e.Code {
	case models.ErrCodeReferrerMissing, models.ErrCodeInvalidReferrer:
		return http.StatusBadRequest // 400
	case models.ErrCodeFetchFailed, models.ErrCodeUpstreamStatus:
		return http.StatusBadGateway // 502
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ReferrerResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}

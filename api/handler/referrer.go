package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deref/api/middleware"
	"github.com/use-agent/deref/models"
	"github.com/use-agent/deref/referrer"
)

// Referrer returns the handler for GET /api/v1/referrer. It runs after
// referrer.Middleware and reports what the middleware attached.
//
// With errors ignored the middleware lets failed lookups through, so the
// response may carry fetched=false and an empty referrer_url.
func Referrer() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.ReferrerResponse{Success: true}

		if res, ok := referrer.FromContext(c.Request.Context()); ok {
			resp.ReferrerURL = res.URL
			resp.Fetched = res.Fetched
			resp.HTML = res.HTML
			resp.StatusCode = res.StatusCode
			resp.FinalURL = res.FinalURL
		}

		resp.Timing = models.TimingInfo{TotalMs: middleware.Elapsed(c).Milliseconds()}
		c.JSON(http.StatusOK, resp)
	}
}

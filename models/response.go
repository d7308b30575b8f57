package models

// ReferrerResponse is the response for GET /api/v1/referrer.
type ReferrerResponse struct {
	// Success indicates whether the request completed without errors.
	Success bool `json:"success"`

	// ReferrerURL is the located referrer URL. Empty when none was found
	// and the service runs with errors ignored.
	ReferrerURL string `json:"referrer_url"`

	// HTML is the raw body of the referrer page, empty when it was not fetched.
	HTML string `json:"html"`

	// Fetched reports whether HTML holds the referrer page.
	Fetched bool `json:"fetched"`

	// StatusCode is the HTTP status code returned by the referrer page.
	StatusCode int `json:"status_code,omitempty"`

	// FinalURL is the URL after following all redirects.
	FinalURL string `json:"final_url,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // always "healthy"
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/deref/version"
)

// referrerResponse mirrors the deref API response model.
type referrerResponse struct {
	Success     bool   `json:"success"`
	ReferrerURL string `json:"referrer_url"`
	HTML        string `json:"html"`
	Fetched     bool   `json:"fetched"`
	StatusCode  int    `json:"status_code"`
	FinalURL    string `json:"final_url"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("DEREF_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("DEREF_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "DEREF_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"deref",
		version.Version,
		server.WithToolCapabilities(false),
	)
	s.AddTool(fetchReferrerTool(), handleFetchReferrer(apiURL, apiKey, &http.Client{Timeout: 60 * time.Second}))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func fetchReferrerTool() mcp.Tool {
	return mcp.NewTool("fetch_referrer",
		mcp.WithDescription("Fetch the raw HTML of a referring page through deref, forwarding an optional cookie header."),
		mcp.WithString("referrer_url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the referring page"),
		),
		mcp.WithString("cookie",
			mcp.Description("Cookie header value to forward to the referring page"),
		),
	)
}

func handleFetchReferrer(apiURL, apiKey string, client *http.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refURL, err := request.RequireString("referrer_url")
		if err != nil {
			return mcp.NewToolResultError("referrer_url is required"), nil
		}

		endpoint := apiURL + "/api/v1/referrer?ref=" + url.QueryEscape(refURL)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("X-API-Key", apiKey)
		if cookie := request.GetString("cookie", ""); cookie != "" {
			httpReq.Header.Set("Cookie", cookie)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var refResp referrerResponse
		if err := json.Unmarshal(body, &refResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !refResp.Success {
			errMsg := "fetch failed"
			if refResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", refResp.Error.Code, refResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}
		if !refResp.Fetched {
			return mcp.NewToolResultError("referrer page was not fetched"), nil
		}

		result := fmt.Sprintf("Source: %s\nStatus: %d\n\n%s", refResp.FinalURL, refResp.StatusCode, refResp.HTML)
		return mcp.NewToolResultText(result), nil
	}
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, apiURL string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = "fetch_referrer"
	req.Params.Arguments = args

	res, err := handleFetchReferrer(apiURL, "secret", http.DefaultClient)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestFetchReferrer_Success(t *testing.T) {
	var gotRef, gotKey, gotCookie string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		gotKey = r.Header.Get("X-API-Key")
		gotCookie = r.Header.Get("Cookie")
		json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"referrer_url": gotRef,
			"html":         "<p>hi</p>",
			"fetched":      true,
			"status_code":  200,
			"final_url":    gotRef,
		})
	}))
	defer api.Close()

	res := callTool(t, api.URL, map[string]any{
		"referrer_url": "https://blog.example/post?id=1",
		"cookie":       "a=b",
	})

	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "<p>hi</p>")
	assert.Equal(t, "https://blog.example/post?id=1", gotRef)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "a=b", gotCookie)
}

func TestFetchReferrer_APIError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "INVALID_REFERRER", "message": "bad url"},
		})
	}))
	defer api.Close()

	res := callTool(t, api.URL, map[string]any{"referrer_url": "ftp://x"})
	assert.True(t, res.IsError)
	assert.Equal(t, "[INVALID_REFERRER] bad url", resultText(t, res))
}

func TestFetchReferrer_MissingArgument(t *testing.T) {
	res := callTool(t, "http://127.0.0.1:1", map[string]any{})
	assert.True(t, res.IsError)
	assert.Equal(t, "referrer_url is required", resultText(t, res))
}

func TestFetchReferrerTool(t *testing.T) {
	tool := fetchReferrerTool()
	assert.Equal(t, "fetch_referrer", tool.Name)
	assert.Contains(t, tool.InputSchema.Required, "referrer_url")
}

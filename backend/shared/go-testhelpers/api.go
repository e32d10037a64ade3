package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/stretchr/testify/require"
)

// BuildRequest creates a request against BaseURL with a JSON body when
// payload is non-nil.
func (h *TestHelper) BuildRequest(method, path string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(h.T, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.BaseURL+path, body)
	require.NoError(h.T, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req
}

// NewHTTPClient creates an HTTP client suitable for talking to the service under test.
func (h *TestHelper) NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request, client *http.Client) *http.Response {
	resp, err := client.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// After reading, we need to restore the body so it can be read again if needed.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}

// DecodeJSON asserts the status code and decodes the body into out.
func (h *TestHelper) DecodeJSON(resp *http.Response, wantStatus int, out any) {
	defer resp.Body.Close()
	body := h.ReadBody(resp)
	require.Equal(h.T, wantStatus, resp.StatusCode, "unexpected status, body: %s", body)
	if out != nil {
		require.NoError(h.T, json.Unmarshal([]byte(body), out), "body: %s", body)
	}
}

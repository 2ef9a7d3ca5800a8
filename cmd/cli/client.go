package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type clientOptions struct {
	baseURL string
	timeout time.Duration
	userID  string
	token   string
}

// apiClient is a thin JSON client for the HTTP API.
type apiClient struct {
	opts clientOptions
	http *http.Client
}

func newAPIClient(opts *clientOptions) *apiClient {
	return &apiClient{opts: *opts, http: &http.Client{Timeout: opts.timeout}}
}

// apiError is a non-2xx response.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
}

func (c *apiClient) get(path string, query url.Values) (json.RawMessage, error) {
	target := strings.TrimRight(c.opts.baseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.do(http.MethodGet, target, nil)
}

func (c *apiClient) send(method, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.do(method, strings.TrimRight(c.opts.baseURL, "/")+path, payload)
}

func (c *apiClient) do(method, target string, payload []byte) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		// One key per invocation.
		req.Header.Set("Idempotency-Key", ulid.Make().String())
	}
	if c.opts.userID != "" {
		req.Header.Set("X-User-ID", c.opts.userID)
	}
	if c.opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
			if e.Message != "" {
				msg += ": " + e.Message
			}
		}
		return nil, &apiError{Status: resp.StatusCode, Message: msg}
	}

	return respBody, nil
}

// printJSON writes raw indented.
func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

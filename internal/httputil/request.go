// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across evidence lookups.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxErrorBody bounds how much of a non-200 body is quoted in an error.
const maxErrorBody = 512

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// GetJSON issues a single GET to base with the given query parameters and
// decodes a 200 response body into v. A non-200 response yields a
// *StatusError. There is no retry: callers degrade on failure instead.
func GetJSON(ctx context.Context, client *http.Client, base string, params url.Values, userAgent string, v any) error {
	target := base
	if len(params) > 0 {
		target = base + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: base, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", base, err)
	}
	return nil
}

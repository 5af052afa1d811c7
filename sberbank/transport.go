package sberbank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Transport sends a form-encoded POST to baseURL+path and returns the decoded JSON body.
type Transport interface {
	Post(ctx context.Context, baseURL, path string, form url.Values) (any, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, baseURL, path string, form url.Values) (any, error)

func (f TransportFunc) Post(ctx context.Context, baseURL, path string, form url.Values) (any, error) {
	return f(ctx, baseURL, path, form)
}

// ErrUndecodableResponse is wrapped by transports when the body is not valid JSON.
var ErrUndecodableResponse = errors.New("response body is not valid json")

// HTTPError is returned when the gateway answers with a non-200 status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500
}

const (
	defaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a gateway answer is read.
	maxResponseBytes = 1 << 20
	// maxErrorBodyBytes caps HTTPError.Body, which can end up in API responses and logs.
	maxErrorBodyBytes = 512
)

type FormTransport struct {
	httpClient *http.Client
}

// NewFormTransport returns the default HTTP transport. A nil httpClient gets a 30s timeout client.
func NewFormTransport(httpClient *http.Client) *FormTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &FormTransport{httpClient: httpClient}
}

func (t *FormTransport) Post(ctx context.Context, baseURL, path string, form url.Values) (any, error) {
	fullURL := strings.TrimRight(baseURL, "/") + path

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableResponse, err)
	}

	return decoded, nil
}

func truncateBody(body []byte) string {
	if len(body) <= maxErrorBodyBytes {
		return string(body)
	}
	return strings.ToValidUTF8(string(body[:maxErrorBodyBytes]), "") + "...(truncated)"
}

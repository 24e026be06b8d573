package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"realtrade/internal/domain"
)

// Client is a small wrapper around http.Client that maps transport and
// protocol failures onto domain.FetchError kinds. It never retries.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	// Source labels errors produced by this client.
	Source string
}

func New(source string, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: "realtrade/1.0",
		Source:    source,
	}
}

// StatusError carries the status code of a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

const maxErrBody = 4 << 10

// GetJSON issues a GET to url and decodes a 2xx JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NewFetchError(c.Source, domain.FetchBadResponse, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return domain.NewFetchError(c.Source, classifyTransport(ctx, err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		kind := domain.FetchBadResponse
		if resp.StatusCode == http.StatusNotFound {
			kind = domain.FetchPairNotFound
		}
		return domain.NewFetchError(c.Source, kind, &StatusError{Code: resp.StatusCode, Body: string(b)})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.NewFetchError(c.Source, domain.FetchTimeout, ctxErr)
		}
		return domain.NewFetchError(c.Source, domain.FetchBadResponse, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func classifyTransport(ctx context.Context, err error) domain.FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.FetchTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.FetchTimeout
	}
	return domain.FetchNetwork
}

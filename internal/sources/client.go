package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
	defaultUserAgent  = "MediaScope/1.0"
	maxResponseSize   = 8 * 1024 * 1024
	maxErrorBodyBytes = 512
)

// ClientConfig configures the HTTP transport shared by every adapter.
type ClientConfig struct {
	Timeout    time.Duration
	// RateLimit is the minimum gap between requests; zero or negative
	// disables limiting unless an adapter sets its own default.
	RateLimit  time.Duration
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string
	Logger     *logrus.Logger
	HTTPClient *http.Client
}

type httpClient struct {
	source     string
	http       *http.Client
	logger     *logrus.Logger
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

func newHTTPClient(source string, cfg ClientConfig) *httpClient {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Every(cfg.RateLimit)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}

	return &httpClient{
		source:     source,
		http:       hc,
		logger:     cfg.Logger,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		userAgent:  cfg.UserAgent,
	}
}

func (c *httpClient) getJSON(ctx context.Context, url string, header http.Header, out any) error {
	body, err := c.do(ctx, http.MethodGet, url, nil, header)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *httpClient) postJSON(ctx context.Context, url string, payload any, header http.Header, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, http.MethodPost, url, data, header)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *httpClient) decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return unavailable(c.source, "malformed response", err)
	}
	return nil
}

// do retries transport failures, 429 and 5xx answers. Other non-2xx
// statuses fail immediately with the status attached.
func (c *httpClient) do(ctx context.Context, method, url string, payload []byte, header http.Header) ([]byte, error) {
	var rErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, unavailable(c.source, "rate limiter", err)
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, unavailable(c.source, "failed to create request", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, unavailable(c.source, "request cancelled", ctx.Err())
			}
			rErr = unavailable(c.source, "failed to make HTTP request", err)
			c.retryLogger(attempt, url, err)
			if !c.waitForRetry(ctx, attempt) {
				break
			}
			continue
		}

		body, readErr := readRespBody(resp)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &UnavailableError{
				Source:     c.source,
				StatusCode: resp.StatusCode,
				Message:    errorSnippet(body),
			}
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return nil, statusErr
			}
			rErr = statusErr
			c.retryLogger(attempt, url, statusErr)
			if !c.waitForRetry(ctx, attempt) {
				break
			}
			continue
		}

		if readErr != nil {
			rErr = unavailable(c.source, "failed to read response body", readErr)
			c.retryLogger(attempt, url, readErr)
			if !c.waitForRetry(ctx, attempt) {
				break
			}
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"source":        c.source,
			"url":           url,
			"attempt":       attempt,
			"status":        resp.StatusCode,
			"response_size": len(body),
		}).Debug("API request successful")

		return body, nil
	}

	return nil, rErr
}

func (c *httpClient) retryLogger(attempt int, url string, err error) {
	c.logger.WithFields(logrus.Fields{
		"source":  c.source,
		"attempt": attempt + 1,
		"url":     url,
		"error":   err.Error(),
	}).Warn("API request failed, retrying...")
}

// waitForRetry sleeps with linear backoff. It returns false when no attempt
// is left or the context ends first.
func (c *httpClient) waitForRetry(ctx context.Context, attempt int) bool {
	if attempt >= c.maxRetries-1 {
		return false
	}
	delay := time.Duration(attempt+1) * c.retryDelay
	c.logger.WithField("delay", delay).Debug("waiting before retry")

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func readRespBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength > maxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes", resp.ContentLength)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response too large: exceeded %d bytes", maxResponseSize)
	}
	return body, nil
}

func errorSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyBytes {
		s = s[:maxErrorBodyBytes] + "..."
	}
	return s
}

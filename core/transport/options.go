package transport

import (
	"net/http"
	"time"
)

const (
	DefaultBaseURL       = "http://localhost:8001/api"
	DefaultTimeout       = 30 * time.Second
	DefaultMinAudioBytes = 1000
)

type ClientOption func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.timeout = timeout }
}

func WithMinAudioBytes(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.minAudioBytes = n
		}
	}
}

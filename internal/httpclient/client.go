// Package httpclient builds the *http.Client shared by the remote fetcher and
// the fallback loader.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// UserAgent is sent with every ticker request.
const UserAgent = "newsticker/1.0"

type Config struct {
	// Timeout bounds a whole request including the body read. Zero leaves it
	// to the caller's context.
	Timeout time.Duration

	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	IdleConnTimeout time.Duration
	MaxIdleConns    int
}

func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		DialTimeout:     5 * time.Second,
		TLSHandshake:    5 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		MaxIdleConns:    10,
	}
}

func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshake,
	}

	return &http.Client{
		Transport: userAgent{next: tr},
		Timeout:   cfg.Timeout,
	}
}

type userAgent struct {
	next http.RoundTripper
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", UserAgent)
	return u.next.RoundTrip(r)
}

// Package transport issues single HTTP round trips against an HMC REST
// endpoint: connection pooling, TLS trust, and the correlation/idempotency
// headers. It never retries or interprets status codes: the session
// package maps status codes to errors and the retry package retries.
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"mercator-hq/hmcorch/pkg/config"
	"mercator-hq/hmcorch/pkg/telemetry/tracing"
)

// Options carries the per-request values the retry loop owns the
// lifetime of: a correlation id stable across every attempt of one
// logical operation, and (for non-GET/HEAD methods) an idempotency key
// stable across retries of that operation.
type Options struct {
	CorrelationID  string
	IdempotencyKey string
	Cookie         string // HMC session cookie, set once logged in
}

// Transport wraps a pooled *http.Client configured from Config.
type Transport struct {
	client  *http.Client
	baseURL string
	tracer  *tracing.Tracer
}

// New builds a Transport for the given config, dialing https://host:port.
func New(cfg *config.Config, tracer *tracing.Tracer) (*Transport, error) {
	tlsConfig, err := buildTLSConfig(cfg.Verify)
	if err != nil {
		return nil, fmt.Errorf("building tls config: %w", err)
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout.Connect}
	rt := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSClientConfig:     tlsConfig,
		DialContext:         dialer.DialContext,
	}

	client := &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout.Connect + cfg.Timeout.Read,
	}

	return &Transport{
		client:  client,
		baseURL: fmt.Sprintf("https://%s:%d", cfg.Host, cfg.Port),
		tracer:  tracer,
	}, nil
}

// Do issues exactly one HTTP round trip. body may be nil. The caller is
// responsible for closing the returned response's Body.
func (t *Transport) Do(ctx context.Context, method, path string, body io.Reader, opts Options) (*http.Response, error) {
	ctx, span := t.tracer.Start(ctx, "hmc."+method+"."+path)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.CorrelationID != "" {
		req.Header.Set("X-Correlation-ID", opts.CorrelationID)
	}
	if opts.IdempotencyKey != "" && method != http.MethodGet && method != http.MethodHead {
		req.Header.Set("Idempotency-Key", opts.IdempotencyKey)
	}
	if opts.Cookie != "" {
		req.Header.Set("Cookie", opts.Cookie)
	}
	tracing.Inject(ctx, req.Header)

	resp, err := t.client.Do(req)
	tracing.SetStatus(span, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CloseIdleConnections releases pooled connections on shutdown.
func (t *Transport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

func buildTLSConfig(v config.VerifyMode) (*tls.Config, error) {
	switch v.Kind {
	case config.VerifyInsecure:
		return &tls.Config{InsecureSkipVerify: true}, nil
	case config.VerifySystemRoots:
		return &tls.Config{}, nil
	case config.VerifyCABundle:
		pem, err := os.ReadFile(v.Bundle)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle %q: %w", v.Bundle, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("parsing CA bundle %q: no certificates found", v.Bundle)
		}
		return &tls.Config{RootCAs: pool}, nil
	default:
		return &tls.Config{}, nil
	}
}

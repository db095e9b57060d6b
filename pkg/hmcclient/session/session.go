// Package session owns the authenticated HMC connection: login/logoff,
// the circuit breaker, and the per-frame concurrency semaphore. Every
// HMC operation goes through Session.Request, which folds retry,
// breaker, re-login, and bounded concurrency into one call.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/hmcorch/pkg/config"
	"mercator-hq/hmcorch/pkg/hmcclient/breaker"
	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
	"mercator-hq/hmcorch/pkg/hmcclient/retry"
	"mercator-hq/hmcorch/pkg/hmcclient/transport"
)

// Session manages one authenticated connection to an HMC instance.
type Session struct {
	cfg       *config.Config
	transport *transport.Transport
	breaker   *breaker.Breaker
	sem       chan struct{}
	log       *slog.Logger

	mu       sync.Mutex
	cookie   string
	loggedIn bool
}

// breakerFailureThreshold and breakerCooldown match the resilience
// behavior described for the session manager: trip after 5 consecutive
// failures, then allow a single probe every 30s.
const (
	breakerFailureThreshold = 5
	breakerCooldown         = 30 * time.Second
)

// New creates a Session. The breaker trips after 5 consecutive failures
// and cools down for 30s before probing again.
func New(cfg *config.Config, t *transport.Transport, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		cfg:       cfg,
		transport: t,
		breaker:   breaker.New(breakerFailureThreshold, breakerCooldown),
		sem:       make(chan struct{}, cfg.Concurrency.PerFrame),
		log:       log,
	}
}

// Request performs method/path as one logical HMC operation: it
// generates a correlation id and (for mutating methods) an idempotency
// key once, then retries attempts through Do. The acquire on the
// concurrency semaphore is the suspension point a canceled context
// interrupts.
func (s *Session) Request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	correlationID := uuid.New().String()
	var idempotencyKey string
	if method != http.MethodGet && method != http.MethodHead {
		idempotencyKey = uuid.New().String()
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	var result []byte
	err := retry.Do(ctx, s.cfg.Retries, func(ctx context.Context, attempt int) error {
		select {
		case s.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		defer func() { <-s.sem }()

		if err := s.breaker.Allow(); err != nil {
			return err
		}

		data, status, err := s.attempt(ctx, method, path, bodyBytes, correlationID, idempotencyKey, attempt)
		s.breaker.RecordResult(status, classifyNetworkErr(err))
		if err != nil {
			return err
		}
		result = data
		return nil
	})
	return result, err
}

func (s *Session) attempt(ctx context.Context, method, path string, body []byte, correlationID, idempotencyKey string, attempt int) ([]byte, int, error) {
	if err := s.ensureLoggedIn(ctx); err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	s.mu.Lock()
	cookie := s.cookie
	s.mu.Unlock()

	resp, err := s.transport.Do(ctx, method, path, reader, transport.Options{
		CorrelationID:  correlationID,
		IdempotencyKey: idempotencyKey,
		Cookie:         cookie,
	})
	if err != nil {
		return nil, 0, &herrors.NetworkError{Op: method + " " + path, Cause: err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		s.mu.Lock()
		s.loggedIn = false
		s.mu.Unlock()
		return nil, resp.StatusCode, &herrors.AuthError{Op: method + " " + path, Message: string(data)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, resp.StatusCode, &herrors.RateLimitError{
			Op:         method + " " + path,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(data),
		}
	case resp.StatusCode >= 500:
		return nil, resp.StatusCode, &herrors.TransientError{Op: method + " " + path, Status: resp.StatusCode, Reason: string(data)}
	case resp.StatusCode >= 400:
		return nil, resp.StatusCode, &herrors.PermanentError{Op: method + " " + path, Status: resp.StatusCode, Message: string(data)}
	}
	return data, resp.StatusCode, nil
}

func (s *Session) ensureLoggedIn(ctx context.Context) error {
	s.mu.Lock()
	if s.loggedIn {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.login(ctx)
}

func (s *Session) login(ctx context.Context) error {
	payload := map[string]string{
		"userid":   s.cfg.Username,
		"password": s.cfg.Password,
	}
	resp, err := s.transport.Do(ctx, http.MethodPost, "/rest/api/web/Logon", mustJSON(payload), transport.Options{
		CorrelationID: uuid.New().String(),
	})
	if err != nil {
		return &herrors.NetworkError{Op: "login", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &herrors.AuthError{Op: "login", Message: "invalid credentials"}
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return &herrors.PermanentError{Op: "login", Status: resp.StatusCode, Message: string(data)}
	}

	s.mu.Lock()
	s.cookie = resp.Header.Get("Set-Cookie")
	s.loggedIn = true
	s.mu.Unlock()
	s.log.Debug("hmc session established", "host", s.cfg.Host)
	return nil
}

// Close issues a best-effort Logoff under its own bounded deadline,
// independent of the caller's context, and releases pooled connections.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	loggedIn := s.loggedIn
	s.mu.Unlock()
	if loggedIn {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if resp, err := s.transport.Do(lctx, http.MethodPost, "/rest/api/web/Logoff", nil, transport.Options{
			CorrelationID: uuid.New().String(),
		}); err == nil {
			resp.Body.Close()
		} else {
			s.log.Warn("hmc logoff failed", "error", err)
		}
	}
	s.transport.CloseIdleConnections()
}

func classifyNetworkErr(err error) error {
	if _, ok := err.(*herrors.NetworkError); ok {
		return err
	}
	return nil
}

func mustJSON(v interface{}) io.Reader {
	data, _ := json.Marshal(v)
	return bytes.NewReader(data)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

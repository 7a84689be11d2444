// Package retrylimit retries outbound HTTP calls with exponential backoff
// behind a rate limit that shrinks on 429/5xx and grows back on success.
//
//	lim := retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5)
//	err := retrylimit.WithRetryMax(ctx, func() error {
//	    resp, err := http.DefaultClient.Do(req)
//	    if err != nil {
//	        return err
//	    }
//	    defer resp.Body.Close()
//	    return retrylimit.CheckResponse(resp)
//	}, lim, 3)
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter is a rate.Limiter whose limit moves between min and max
// depending on how the upstream responds.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter starts at initial requests per second. A success adds
// stepUp once the last failure is 10s old; a failure multiplies by stepDown.
func NewAdaptiveLimiter(initial, minLimit, maxLimit rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if minLimit < 1 {
		minLimit = 1
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max(1, int(initial))),
		minLimit: minLimit,
		maxLimit: maxLimit,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.adjustLimit(a.limiter.Limit() + a.stepUp)
	}
}

func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjustLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjustLimit(newLimit rate.Limit) {
	newLimit = min(max(newLimit, a.minLimit), a.maxLimit)
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(max(1, int(newLimit)))
	}
}

// HTTPError is implemented by errors that carry a response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is returned by CheckResponse for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func (e *StatusError) StatusCode() int { return e.Code }

// FatalError stops WithRetryConfig immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// CheckResponse turns a non-2xx response into an error. Client errors other
// than 429 are wrapped in FatalError since repeating them cannot help.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	err := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return &FatalError{Err: err}
	}
	return err
}

// ErrorClassifier reports whether err should slow the limiter down.
type ErrorClassifier func(error) bool

// DefaultClassifier slows down on 429 and 5xx.
func DefaultClassifier(err error) bool {
	return isRateLimitError(err) || isServerError(err)
}

type RetryConfig struct {
	MaxAttempts     int // 0 means 100
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	RateLimitDelay  time.Duration
	Multiplier      float64
	Jitter          bool
	ErrorClassifier ErrorClassifier
	OnRetry         func(attempt int, err error)
	Logger          *zerolog.Logger
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     100,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		RateLimitDelay:  100 * time.Millisecond,
		Multiplier:      2.0,
		Jitter:          true,
		ErrorClassifier: DefaultClassifier,
	}
}

func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

func WithRetryMax(ctx context.Context, fn func() error, lim *AdaptiveLimiter, maxAttempts int) error {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = maxAttempts
	return WithRetryConfig(ctx, fn, lim, cfg)
}

// WithRetryConfig calls fn until it succeeds, returns a FatalError, ctx ends
// or the attempts run out. lim may be nil.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 100
	}
	if cfg.ErrorClassifier == nil {
		cfg.ErrorClassifier = DefaultClassifier
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &log.Logger
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				logger.Debug().Int("attempt", attempt).Msg("retry succeeded")
			}
			return nil
		}
		lastErr = err

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return err
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		if isRateLimitError(err) {
			if lim != nil {
				lim.RateLimited()
			}
			logger.Warn().Int("attempt", attempt).Float64("limit", currentLimit(lim)).Msg("rate limited")
			if err := sleep(ctx, cfg.RateLimitDelay); err != nil {
				return err
			}
			continue
		}

		if cfg.ErrorClassifier(err) && lim != nil {
			lim.RateLimited()
		}

		logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("request failed, retrying")

		next := delay
		if cfg.Jitter {
			next = addJitter(delay)
		}
		if err := sleep(ctx, next); err != nil {
			return err
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func currentLimit(lim *AdaptiveLimiter) float64 {
	if lim == nil {
		return 0
	}
	return lim.CurrentLimit()
}

// addJitter adds up to 25% on top of delay.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func isRateLimitError(err error) bool {
	var httpErr HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode() == http.StatusTooManyRequests
}

func isServerError(err error) bool {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	code := httpErr.StatusCode()
	return code >= 500 && code < 600
}

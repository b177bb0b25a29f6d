// Package shortener implements best-effort share link shortening across a
// prioritized chain of third-party providers.
//
// The chain tries each configured [Provider] once, in order, and returns the
// first shortened URL verbatim. Provider failures are uniform: a network
// error and a provider-side rejection are treated identically, and neither is
// retried against the same provider. Only once every provider has failed does
// the chain itself fail, with an aggregate error naming each provider's
// failure. Callers may retry the whole chain later.
package shortener

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmix/internal/shared"
	"golang.org/x/time/rate"
)

// Provider is a single third-party link shortening service.
type Provider interface {
	// Name identifies the provider in logs and aggregate errors.
	Name() string

	// Shorten submits a long URL and returns the shortened form.
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Result is the outcome of running the chain.
type Result struct {
	Success  bool
	ShortURL string
	Provider string
	Err      error
}

// Chain runs providers in priority order with first-success semantics.
type Chain struct {
	providers []Provider
	limiter   *rate.Limiter
	logger    *log.Logger
}

// NewChain creates a Chain over the given providers, tried in slice order.
func NewChain(providers []Provider, logger *log.Logger) *Chain {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Chain{
		providers: providers,
		limiter:   rate.NewLimiter(rate.Limit(2), 3),
		logger:    logger,
	}
}

// Shorten tries each provider once in order and returns the first success.
func (c *Chain) Shorten(ctx context.Context, longURL string) Result {
	var failures []string

	for _, p := range c.providers {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{Success: false, Err: err}
		}

		short, err := p.Shorten(ctx, longURL)
		if err != nil {
			c.logger.Warn("shortening provider failed", "provider", p.Name(), "err", err)
			failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}

		return Result{Success: true, ShortURL: short, Provider: p.Name()}
	}

	if len(failures) == 0 {
		return Result{Success: false, Err: fmt.Errorf("%w: no providers configured", shared.ErrAllProvidersFailed)}
	}
	return Result{
		Success: false,
		Err:     fmt.Errorf("%w: %s", shared.ErrAllProvidersFailed, strings.Join(failures, "; ")),
	}
}

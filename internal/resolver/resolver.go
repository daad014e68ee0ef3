// Package resolver locates live element handles on a page by probing
// candidate selectors in priority order, each under a bounded wait.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/config"
	"github.com/xkilldash9x/loginprobe/internal/selector"
)

// Resolver resolves semantic element roles against a page capability.
// It is stateless apart from configuration and safe for concurrent use.
type Resolver struct {
	cfg    config.ResolverConfig
	logger *zap.Logger
}

// New creates a Resolver with the given tuning.
func New(cfg config.ResolverConfig, logger *zap.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "resolver")),
	}
}

// Resolve walks the candidate selectors for the role in generation order and
// returns the first element that appears within the per-candidate timeout,
// along with the selector that matched. A candidate that times out is not
// retried within the same resolution. When every candidate misses, two
// deterministic fallbacks are tried: a direct id lookup on the role token,
// then a direct name-attribute lookup. Exhausting those fails with
// *schemas.ElementNotFoundError.
func (r *Resolver) Resolve(ctx context.Context, page schemas.Page, role schemas.ElementRole) (schemas.ElementHandle, string, error) {
	candidates := selector.Generate(role, r.cfg.HintsFor(role))

	for _, sel := range candidates {
		handle, err := r.probe(ctx, page, sel, r.cfg.CandidateTimeout)
		if err == nil {
			r.logger.Debug("Resolved element",
				zap.String("role", string(role)),
				zap.String("selector", sel))
			return handle, sel, nil
		}
		if !errors.Is(err, schemas.ErrElementAbsent) {
			return nil, "", fmt.Errorf("probing %q for %s: %w", sel, role, err)
		}
	}

	// Fallbacks mirror direct By.ID / By.NAME lookups: one bounded probe
	// each, no polling beyond the page's own wait.
	for _, sel := range []string{"#" + string(role), `[name="` + string(role) + `"]`} {
		handle, err := page.Find(ctx, sel, r.cfg.PollInterval)
		if err == nil {
			r.logger.Debug("Resolved element via fallback",
				zap.String("role", string(role)),
				zap.String("selector", sel))
			return handle, sel, nil
		}
		if !errors.Is(err, schemas.ErrElementAbsent) {
			return nil, "", fmt.Errorf("fallback probe %q for %s: %w", sel, role, err)
		}
	}

	r.logger.Debug("Element resolution exhausted",
		zap.String("role", string(role)),
		zap.Int("candidates", len(candidates)))
	return nil, "", &schemas.ElementNotFoundError{Role: role, Candidates: len(candidates)}
}

// probe polls the page for a single selector until it matches or the budget
// elapses. Each individual Find is bounded by the poll interval, so the loop
// never busy-spins and never blocks past its deadline by more than one
// probe's worth.
func (r *Resolver) probe(ctx context.Context, page schemas.Page, sel string, budget time.Duration) (schemas.ElementHandle, error) {
	deadline := time.Now().Add(budget)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		handle, err := page.Find(ctx, sel, r.cfg.PollInterval)
		if err == nil {
			return handle, nil
		}
		if !errors.Is(err, schemas.ErrElementAbsent) {
			return nil, err
		}

		if !time.Now().Before(deadline) {
			return nil, schemas.ErrElementAbsent
		}

		timer := time.NewTimer(r.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Package executor drives a single login scenario through resolution,
// interaction, and classification, isolating every fault into the returned
// result. One scenario's failure can never abort another's execution.
package executor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/classifier"
	"github.com/xkilldash9x/loginprobe/internal/resolver"
)

// phase labels the executor's progress through a scenario. It exists for
// diagnostics: an errored result tells you which step gave out.
type phase string

const (
	phaseResolving   phase = "resolving"
	phaseInteracting phase = "interacting"
	phaseClassifying phase = "classifying"
)

// Executor runs scenarios against pages. It is stateless across scenarios and
// safe for concurrent use; each call owns its page exclusively.
type Executor struct {
	resolver    *resolver.Resolver
	classifier  *classifier.Classifier
	targetURL   string
	settleDelay time.Duration
	logger      *zap.Logger
}

// New assembles an Executor.
func New(res *resolver.Resolver, cls *classifier.Classifier, targetURL string, settleDelay time.Duration, logger *zap.Logger) *Executor {
	return &Executor{
		resolver:    res,
		classifier:  cls,
		targetURL:   targetURL,
		settleDelay: settleDelay,
		logger:      logger.With(zap.String("component", "executor")),
	}
}

// Execute runs one scenario to completion and always returns a result, never
// an error: every fault at any step is converted into a result with
// StatusError and the sentinel OutcomeError. The page is used strictly
// sequentially within the call.
func (e *Executor) Execute(ctx context.Context, page schemas.Page, sc schemas.ScenarioDefinition) schemas.ScenarioResult {
	started := time.Now()
	logger := e.logger.With(zap.String("scenario", sc.Name))
	matched := make(map[schemas.ElementRole]string)

	logger.Debug("Scenario starting", zap.String("target", e.targetURL))

	if err := page.Navigate(ctx, e.targetURL); err != nil {
		return e.errored(sc, matched, started, logger, phaseResolving,
			&schemas.NavigationError{URL: e.targetURL, Cause: err})
	}

	// Resolution. Any missing control short-circuits; the scenario is not
	// retried.
	usernameField, sel, err := e.resolver.Resolve(ctx, page, schemas.RoleUsername)
	if err != nil {
		return e.errored(sc, matched, started, logger, phaseResolving, err)
	}
	matched[schemas.RoleUsername] = sel

	passwordField, sel, err := e.resolver.Resolve(ctx, page, schemas.RolePassword)
	if err != nil {
		return e.errored(sc, matched, started, logger, phaseResolving, err)
	}
	matched[schemas.RolePassword] = sel

	submitButton, sel, err := e.resolver.Resolve(ctx, page, schemas.RoleSubmit)
	if err != nil {
		return e.errored(sc, matched, started, logger, phaseResolving, err)
	}
	matched[schemas.RoleSubmit] = sel

	// Interaction: credentials first, username before password, then submit.
	if err := fillField(ctx, usernameField, sc.Username); err != nil {
		return e.errored(sc, matched, started, logger, phaseInteracting,
			&schemas.InteractionError{Role: schemas.RoleUsername, Cause: err})
	}
	if err := fillField(ctx, passwordField, sc.Password); err != nil {
		return e.errored(sc, matched, started, logger, phaseInteracting,
			&schemas.InteractionError{Role: schemas.RolePassword, Cause: err})
	}
	if err := submitButton.Click(ctx); err != nil {
		return e.errored(sc, matched, started, logger, phaseInteracting,
			&schemas.InteractionError{Role: schemas.RoleSubmit, Cause: err})
	}

	// Fixed settle delay so the page can transition before we read it.
	if err := e.settle(ctx); err != nil {
		return e.errored(sc, matched, started, logger, phaseClassifying, err)
	}

	currentURL, err := page.CurrentURL(ctx)
	if err != nil {
		return e.errored(sc, matched, started, logger, phaseClassifying, err)
	}
	content, err := page.Content(ctx)
	if err != nil {
		return e.errored(sc, matched, started, logger, phaseClassifying, err)
	}

	actual := e.classifier.Classify(currentURL, content)
	status := schemas.StatusFail
	if actual == sc.Expected {
		status = schemas.StatusPass
	}

	logger.Info("Scenario finished",
		zap.String("status", string(status)),
		zap.String("expected", string(sc.Expected)),
		zap.String("actual", string(actual)),
		zap.Duration("duration", time.Since(started)))

	return schemas.ScenarioResult{
		ScenarioName:     sc.Name,
		Username:         sc.Username,
		Expected:         sc.Expected,
		Actual:           actual,
		Status:           status,
		MatchedSelectors: matched,
		Duration:         time.Since(started),
		Timestamp:        time.Now(),
	}
}

// settle pauses for the configured delay without outliving the context.
func (e *Executor) settle(ctx context.Context) error {
	if e.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(e.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// errored converts a fault into the scenario's terminal result. Actual is
// pinned to the OutcomeError sentinel; it never reads as success or failure.
func (e *Executor) errored(sc schemas.ScenarioDefinition, matched map[schemas.ElementRole]string, started time.Time, logger *zap.Logger, ph phase, cause error) schemas.ScenarioResult {
	logger.Warn("Scenario errored",
		zap.String("phase", string(ph)),
		zap.Error(cause))

	return schemas.ScenarioResult{
		ScenarioName:     sc.Name,
		Username:         sc.Username,
		Expected:         sc.Expected,
		Actual:           schemas.OutcomeError,
		Status:           schemas.StatusError,
		Error:            cause.Error(),
		MatchedSelectors: matched,
		Duration:         time.Since(started),
		Timestamp:        time.Now(),
	}
}

func fillField(ctx context.Context, field schemas.ElementHandle, text string) error {
	if err := field.Clear(ctx); err != nil {
		return err
	}
	return field.Type(ctx, text)
}

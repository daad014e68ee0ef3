// Package engine fans a batch of login scenarios out to a bounded pool of
// executors and fans the results back in, preserving input order. A batch
// run always completes and always yields a report, even when every scenario
// errors; only structural faults (empty input, misconfiguration) surface as
// errors from Run.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/classifier"
	"github.com/xkilldash9x/loginprobe/internal/config"
	"github.com/xkilldash9x/loginprobe/internal/executor"
	"github.com/xkilldash9x/loginprobe/internal/reporting"
	"github.com/xkilldash9x/loginprobe/internal/resolver"
)

// pageCloseTimeout bounds session teardown so a wedged browser cannot hold a
// worker slot after the run context is already gone.
const pageCloseTimeout = 10 * time.Second

// Engine orchestrates batch runs. Construct once per run configuration.
type Engine struct {
	cfg      *config.Config
	logger   *zap.Logger
	factory  schemas.PageFactory
	executor *executor.Executor
}

// New validates the configuration and assembles the engine with its
// resolver, classifier, and executor.
func New(cfg *config.Config, logger *zap.Logger, factory schemas.PageFactory) (*Engine, error) {
	if cfg == nil || logger == nil || factory == nil {
		return nil, fmt.Errorf("cannot initialize engine with nil dependencies")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Run.TargetURL == "" {
		return nil, fmt.Errorf("a target URL is required")
	}

	res := resolver.New(cfg.Resolver, logger)
	cls := classifier.New(cfg.Classifier.SuccessKeywords, cfg.Classifier.FailureKeywords)
	exec := executor.New(res, cls, cfg.Run.TargetURL, cfg.Engine.SettleDelay, logger)

	return &Engine{
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "engine")),
		factory:  factory,
		executor: exec,
	}, nil
}

// Run executes the batch and returns the aggregated report. Result order
// always equals scenario input order regardless of concurrency. The overall
// run deadline abandons scenarios still pending or in flight, recording each
// as an error result; completed results are retained.
func (e *Engine) Run(ctx context.Context, scenarios []schemas.ScenarioDefinition) (*schemas.RunReport, error) {
	if len(scenarios) == 0 {
		return nil, schemas.ErrEmptyRun
	}

	runID := uuid.New().String()
	logger := e.logger.With(zap.String("run_id", runID))
	logger.Info("Starting batch run",
		zap.Int("scenarios", len(scenarios)),
		zap.Int("concurrency", e.cfg.Engine.Concurrency),
		zap.String("target", e.cfg.Run.TargetURL))

	runCtx := ctx
	if e.cfg.Engine.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.Engine.RunTimeout)
		defer cancel()
	}

	var limiter *rate.Limiter
	if e.cfg.Engine.AttemptInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(e.cfg.Engine.AttemptInterval), 1)
	}

	// Fan-in by index: each scenario writes exactly one slot, so no locking
	// is needed around the results collection.
	results := make([]schemas.ScenarioResult, len(scenarios))
	sem := semaphore.NewWeighted(int64(e.cfg.Engine.Concurrency))
	var wg sync.WaitGroup

	abandoned := -1
	for i, sc := range scenarios {
		if limiter != nil {
			if err := limiter.Wait(runCtx); err != nil {
				abandoned = i
				break
			}
		}
		if err := sem.Acquire(runCtx, 1); err != nil {
			abandoned = i
			break
		}

		wg.Add(1)
		go func(idx int, def schemas.ScenarioDefinition) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = e.runOne(runCtx, def)
		}(i, sc)
	}

	wg.Wait()

	if abandoned >= 0 {
		cause := fmt.Errorf("run deadline exceeded before scenario started: %w", runCtx.Err())
		for i := abandoned; i < len(scenarios); i++ {
			results[i] = abandonedResult(scenarios[i], cause)
		}
		logger.Warn("Run deadline hit; remaining scenarios abandoned",
			zap.Int("abandoned", len(scenarios)-abandoned))
	}

	report, err := reporting.Aggregate(runID, results)
	if err != nil {
		return nil, err
	}

	logger.Info("Batch run complete",
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("errored", report.Errored),
		zap.Float64("success_rate", report.SuccessRate))

	return report, nil
}

// runOne gives the scenario a fresh page session and runs it to a result.
// Session acquisition failures count as scenario errors, not batch errors.
func (e *Engine) runOne(ctx context.Context, sc schemas.ScenarioDefinition) schemas.ScenarioResult {
	page, err := e.factory.NewPage(ctx)
	if err != nil {
		return abandonedResult(sc, fmt.Errorf("acquiring page session: %w", err))
	}
	defer func() {
		// Teardown gets its own context so cleanup still happens after the
		// run deadline fires.
		closeCtx, cancel := context.WithTimeout(context.Background(), pageCloseTimeout)
		defer cancel()
		if err := page.Close(closeCtx); err != nil {
			e.logger.Warn("Failed to close page session",
				zap.String("scenario", sc.Name), zap.Error(err))
		}
	}()

	return e.executor.Execute(ctx, page, sc)
}

// abandonedResult records a scenario that never got to run, or whose session
// could not be created, as an error result.
func abandonedResult(sc schemas.ScenarioDefinition, cause error) schemas.ScenarioResult {
	return schemas.ScenarioResult{
		ScenarioName: sc.Name,
		Username:     sc.Username,
		Expected:     sc.Expected,
		Actual:       schemas.OutcomeError,
		Status:       schemas.StatusError,
		Error:        cause.Error(),
		Timestamp:    time.Now(),
	}
}

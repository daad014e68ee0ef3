// Package reporting turns an ordered sequence of scenario results into a run
// report and renders it for humans or machines.
package reporting

import (
	"math"
	"time"

	"github.com/xkilldash9x/loginprobe/api/schemas"
)

// Aggregate computes the run report over results in their given order. It is
// a pure function: same input, same report (modulo the generation timestamp).
// An empty input fails with schemas.ErrEmptyRun because no success rate can
// be computed; that error is structural and must reach the caller.
func Aggregate(runID string, results []schemas.ScenarioResult) (*schemas.RunReport, error) {
	if len(results) == 0 {
		return nil, schemas.ErrEmptyRun
	}

	report := &schemas.RunReport{
		RunID:       runID,
		Total:       len(results),
		GeneratedAt: time.Now(),
		Results:     results,
	}

	for _, res := range results {
		switch res.Status {
		case schemas.StatusPass:
			report.Passed++
		case schemas.StatusFail:
			report.Failed++
		default:
			report.Errored++
		}
	}

	rate := float64(report.Passed) / float64(report.Total) * 100
	// One decimal place, matching how the rate is displayed.
	report.SuccessRate = math.Round(rate*10) / 10

	return report, nil
}

package schemas

import "time"

// ElementRole identifies the semantic purpose of a page control, independent
// of how the target application marks it up. The string value doubles as the
// token used when building candidate selectors and fallback lookups.
type ElementRole string

const (
	RoleUsername ElementRole = "username"
	RolePassword ElementRole = "password"
	// RoleSubmit uses "login" as its token because that is what submit
	// controls are overwhelmingly labelled with on login forms.
	RoleSubmit ElementRole = "login"
)

// Outcome is the classified result of a single login attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	// OutcomeError is a sentinel set only when the scenario itself faulted
	// before an outcome could be observed. It never means "login failed".
	OutcomeError Outcome = "error"
)

// Status is the verdict for one scenario: did the observed outcome match the
// expected one.
type Status string

const (
	StatusPass  Status = "PASS"
	StatusFail  Status = "FAIL"
	StatusError Status = "ERROR"
)

// ScenarioDefinition is one login test case. Definitions are treated as
// immutable inputs; the engine never modifies them.
type ScenarioDefinition struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Expected Outcome `json:"expected"`
}

// ScenarioResult records what happened when one scenario was executed. It is
// created exactly once per scenario and never mutated afterwards.
type ScenarioResult struct {
	ScenarioName string  `json:"scenario_name"`
	Username     string  `json:"username"`
	Expected     Outcome `json:"expected"`
	Actual       Outcome `json:"actual"`
	Status       Status  `json:"status"`
	// Error carries the fault detail when Status is ERROR, empty otherwise.
	Error string `json:"error,omitempty"`
	// MatchedSelectors maps each resolved role to the candidate selector
	// that located it, for diagnostics.
	MatchedSelectors map[ElementRole]string `json:"matched_selectors,omitempty"`
	Duration         time.Duration          `json:"duration"`
	Timestamp        time.Time              `json:"timestamp"`
}

// RunReport is the aggregate over an ordered sequence of scenario results.
// Total always equals len(Results); no result is dropped or duplicated.
type RunReport struct {
	RunID       string           `json:"run_id"`
	Total       int              `json:"total"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	Errored     int              `json:"errored"`
	SuccessRate float64          `json:"success_rate"`
	GeneratedAt time.Time        `json:"generated_at"`
	Results     []ScenarioResult `json:"results"`
}

// Package classifier decides whether a login attempt landed on a success or
// failure state. The decision is a keyword heuristic over the post-submit URL
// and page content, not a parse of the DOM, and is explicitly best-effort.
package classifier

import (
	"strings"

	"github.com/xkilldash9x/loginprobe/api/schemas"
)

// Classifier matches injected keyword sets against page state. Keyword sets
// may overlap (the default failure list contains "login", which also appears
// on most pre-login pages); ties are broken by checking success keywords
// first. When neither set matches, the classifier defaults to failure rather
// than declaring a login successful on no evidence.
type Classifier struct {
	success []string
	failure []string
}

// New builds a Classifier from the configured keyword sets. Keywords are
// lowercased once here so Classify only lowercases its inputs.
func New(success, failure []string) *Classifier {
	return &Classifier{
		success: lowerAll(success),
		failure: lowerAll(failure),
	}
}

// Classify inspects the current URL and page content and returns
// OutcomeSuccess or OutcomeFailure. It never returns OutcomeError; faults are
// the executor's concern.
func (c *Classifier) Classify(currentURL, content string) schemas.Outcome {
	url := strings.ToLower(currentURL)
	body := strings.ToLower(content)

	for _, kw := range c.success {
		if strings.Contains(url, kw) || strings.Contains(body, kw) {
			return schemas.OutcomeSuccess
		}
	}
	for _, kw := range c.failure {
		if strings.Contains(url, kw) || strings.Contains(body, kw) {
			return schemas.OutcomeFailure
		}
	}

	// Fail-safe bias: no evidence either way reads as failure.
	return schemas.OutcomeFailure
}

func lowerAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(kw)
	}
	return out
}

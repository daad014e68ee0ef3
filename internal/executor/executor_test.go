package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/classifier"
	"github.com/xkilldash9x/loginprobe/internal/config"
	"github.com/xkilldash9x/loginprobe/internal/executor"
	"github.com/xkilldash9x/loginprobe/internal/mocks"
	"github.com/xkilldash9x/loginprobe/internal/resolver"
)

const testTarget = "https://example.com/login"

// newTestExecutor wires an executor with fast resolver timeouts, the default
// keyword sets, and no settle delay.
func newTestExecutor(t *testing.T) *executor.Executor {
	t.Helper()
	res := resolver.New(config.ResolverConfig{
		CandidateTimeout: 20 * time.Millisecond,
		PollInterval:     5 * time.Millisecond,
		Hints: map[string][]string{
			string(schemas.RoleUsername): {"id", "name", "placeholder"},
			string(schemas.RolePassword): {"id", "name", "type"},
			string(schemas.RoleSubmit):   {"id", "class", "value"},
		},
	}, zap.NewNop())
	cls := classifier.New(
		[]string{"dashboard", "welcome", "success", "home"},
		[]string{"error", "invalid", "failure", "login"},
	)
	return executor.New(res, cls, testTarget, 0, zap.NewNop())
}

// wireHappyPage sets up a page whose three login controls resolve on their
// first candidates and accept all interactions.
func wireHappyPage(page *mocks.MockPage) (username, password, submit *mocks.MockElement) {
	username = new(mocks.MockElement)
	password = new(mocks.MockElement)
	submit = new(mocks.MockElement)

	page.On("Navigate", mock.Anything, testTarget).Return(nil)
	page.On("Find", mock.Anything, `[id*="username"]`, mock.Anything).Return(username, nil)
	page.On("Find", mock.Anything, `[id*="password"]`, mock.Anything).Return(password, nil)
	page.On("Find", mock.Anything, `[id*="login"]`, mock.Anything).Return(submit, nil)

	username.On("Clear", mock.Anything).Return(nil)
	username.On("Type", mock.Anything, mock.Anything).Return(nil)
	password.On("Clear", mock.Anything).Return(nil)
	password.On("Type", mock.Anything, mock.Anything).Return(nil)
	submit.On("Click", mock.Anything).Return(nil)
	return username, password, submit
}

func TestExecute_PassOnExpectedSuccess(t *testing.T) {
	page := new(mocks.MockPage)
	username, password, _ := wireHappyPage(page)
	page.On("CurrentURL", mock.Anything).Return("https://example.com/dashboard", nil)
	page.On("Content", mock.Anything).Return("<html><body>Welcome back</body></html>", nil)

	sc := schemas.ScenarioDefinition{
		Name:     "Valid Credentials",
		Username: "testuser",
		Password: "correctpassword",
		Expected: schemas.OutcomeSuccess,
	}

	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, schemas.StatusPass, result.Status)
	assert.Equal(t, schemas.OutcomeSuccess, result.Actual)
	assert.Empty(t, result.Error)
	assert.Equal(t, `[id*="username"]`, result.MatchedSelectors[schemas.RoleUsername])
	assert.False(t, result.Timestamp.IsZero())

	username.AssertCalled(t, "Type", mock.Anything, "testuser")
	password.AssertCalled(t, "Type", mock.Anything, "correctpassword")
}

func TestExecute_PassOnExpectedFailure(t *testing.T) {
	page := new(mocks.MockPage)
	wireHappyPage(page)
	page.On("CurrentURL", mock.Anything).Return(testTarget, nil)
	page.On("Content", mock.Anything).Return("<html><body>Invalid credentials</body></html>", nil)

	sc := schemas.ScenarioDefinition{
		Name:     "Empty Credentials",
		Username: "",
		Password: "",
		Expected: schemas.OutcomeFailure,
	}

	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, schemas.StatusPass, result.Status)
	assert.Equal(t, schemas.OutcomeFailure, result.Actual)
}

func TestExecute_FailOnMismatch(t *testing.T) {
	page := new(mocks.MockPage)
	wireHappyPage(page)
	// Expected success, but the page stayed on the login form.
	page.On("CurrentURL", mock.Anything).Return(testTarget, nil)
	page.On("Content", mock.Anything).Return("<html><body>Invalid credentials</body></html>", nil)

	sc := schemas.ScenarioDefinition{
		Name:     "Valid Credentials",
		Username: "testuser",
		Password: "correctpassword",
		Expected: schemas.OutcomeSuccess,
	}

	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, schemas.StatusFail, result.Status)
	assert.Equal(t, schemas.OutcomeFailure, result.Actual)
	assert.Empty(t, result.Error)
}

func TestExecute_NavigationFailureIsErrorResult(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("Navigate", mock.Anything, testTarget).Return(errors.New("connection refused"))

	sc := schemas.ScenarioDefinition{Name: "Valid Credentials", Expected: schemas.OutcomeSuccess}
	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, schemas.StatusError, result.Status)
	assert.Equal(t, schemas.OutcomeError, result.Actual)
	assert.Contains(t, result.Error, "navigation")
	assert.Contains(t, result.Error, "connection refused")
}

func TestExecute_ElementNotFoundIsErrorResult(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("Navigate", mock.Anything, testTarget).Return(nil)
	page.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, schemas.ErrElementAbsent)

	sc := schemas.ScenarioDefinition{Name: "Valid Credentials", Expected: schemas.OutcomeSuccess}
	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, schemas.StatusError, result.Status)
	assert.Equal(t, schemas.OutcomeError, result.Actual)
	assert.Contains(t, result.Error, "username")

	// The invariant: an errored scenario never reads as success or failure.
	assert.NotEqual(t, schemas.OutcomeSuccess, result.Actual)
	assert.NotEqual(t, schemas.OutcomeFailure, result.Actual)
}

func TestExecute_InteractionFailureIsErrorResult(t *testing.T) {
	page := new(mocks.MockPage)
	username := new(mocks.MockElement)
	password := new(mocks.MockElement)
	submit := new(mocks.MockElement)

	page.On("Navigate", mock.Anything, testTarget).Return(nil)
	page.On("Find", mock.Anything, `[id*="username"]`, mock.Anything).Return(username, nil)
	page.On("Find", mock.Anything, `[id*="password"]`, mock.Anything).Return(password, nil)
	page.On("Find", mock.Anything, `[id*="login"]`, mock.Anything).Return(submit, nil)

	username.On("Clear", mock.Anything).Return(nil)
	username.On("Type", mock.Anything, mock.Anything).Return(nil)
	password.On("Clear", mock.Anything).Return(errors.New("element detached"))

	sc := schemas.ScenarioDefinition{Name: "Valid Credentials", Expected: schemas.OutcomeSuccess}
	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, schemas.StatusError, result.Status)
	assert.Contains(t, result.Error, "password")
	assert.Contains(t, result.Error, "element detached")
	// The submit control resolved before the fault; its selector is still
	// recorded for diagnostics.
	assert.Equal(t, `[id*="login"]`, result.MatchedSelectors[schemas.RoleSubmit])
	submit.AssertNotCalled(t, "Click", mock.Anything)
}

func TestExecute_ResultCarriesScenarioIdentity(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("Navigate", mock.Anything, testTarget).Return(errors.New("boom"))

	sc := schemas.ScenarioDefinition{
		Name:     "Invalid Username",
		Username: "wronguser",
		Password: "correctpassword",
		Expected: schemas.OutcomeFailure,
	}
	result := newTestExecutor(t).Execute(context.Background(), page, sc)

	assert.Equal(t, "Invalid Username", result.ScenarioName)
	assert.Equal(t, "wronguser", result.Username)
	assert.Equal(t, schemas.OutcomeFailure, result.Expected)
}

func TestExecute_SettleDelayRespectsContext(t *testing.T) {
	page := new(mocks.MockPage)
	wireHappyPage(page)

	res := resolver.New(config.ResolverConfig{
		CandidateTimeout: 20 * time.Millisecond,
		PollInterval:     5 * time.Millisecond,
		Hints: map[string][]string{
			string(schemas.RoleUsername): {"id"},
			string(schemas.RolePassword): {"id"},
			string(schemas.RoleSubmit):   {"id"},
		},
	}, zap.NewNop())
	cls := classifier.New([]string{"dashboard"}, []string{"error"})
	// A settle delay far longer than the context deadline.
	exec := executor.New(res, cls, testTarget, 10*time.Second, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sc := schemas.ScenarioDefinition{Name: "Valid Credentials", Expected: schemas.OutcomeSuccess}

	started := time.Now()
	result := exec.Execute(ctx, page, sc)

	require.Equal(t, schemas.StatusError, result.Status)
	assert.Contains(t, result.Error, context.DeadlineExceeded.Error())
	assert.Less(t, time.Since(started), 5*time.Second)
}

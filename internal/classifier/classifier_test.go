package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/classifier"
)

var (
	defaultSuccess = []string{"dashboard", "welcome", "success", "home"}
	defaultFailure = []string{"error", "invalid", "failure", "login"}
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		content  string
		expected schemas.Outcome
	}{
		{
			name:     "success keyword in URL",
			url:      "https://example.com/dashboard",
			content:  "<html><body>Your account overview</body></html>",
			expected: schemas.OutcomeSuccess,
		},
		{
			name:     "success keyword in content",
			url:      "https://example.com/app",
			content:  "<html><body>Welcome back, testuser!</body></html>",
			expected: schemas.OutcomeSuccess,
		},
		{
			name:     "failure keyword in content",
			url:      "https://example.com/app",
			content:  "<html><body>Invalid username or password</body></html>",
			expected: schemas.OutcomeFailure,
		},
		{
			name:     "failure keyword in URL",
			url:      "https://example.com/error",
			content:  "<html><body>Something happened</body></html>",
			expected: schemas.OutcomeFailure,
		},
		{
			name:     "no keyword matches defaults to failure",
			url:      "https://example.com/app",
			content:  "<html><body>Lorem ipsum</body></html>",
			expected: schemas.OutcomeFailure,
		},
		{
			name:     "matching is case-insensitive",
			url:      "https://example.com/DASHBOARD",
			content:  "<html><body>INVALID</body></html>",
			expected: schemas.OutcomeSuccess,
		},
		{
			// "login" sits in the failure list and most pre-login pages
			// contain it; a success keyword elsewhere must still win.
			name:     "success checked before failure on overlap",
			url:      "https://example.com/login/welcome",
			content:  "<html><body>login</body></html>",
			expected: schemas.OutcomeSuccess,
		},
	}

	cls := classifier.New(defaultSuccess, defaultFailure)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cls.Classify(tc.url, tc.content))
		})
	}
}

func TestClassify_KeywordsAreInjected(t *testing.T) {
	// A caller can disable the ambiguous defaults entirely.
	cls := classifier.New([]string{"granted"}, []string{"denied"})

	assert.Equal(t, schemas.OutcomeSuccess, cls.Classify("https://example.com/login", "access GRANTED"))
	assert.Equal(t, schemas.OutcomeFailure, cls.Classify("https://example.com/dashboard", "access denied"))
}

func TestClassify_UppercaseKeywordsNormalized(t *testing.T) {
	cls := classifier.New([]string{"DASHBOARD"}, []string{"ERROR"})

	assert.Equal(t, schemas.OutcomeSuccess, cls.Classify("https://example.com/dashboard", ""))
	assert.Equal(t, schemas.OutcomeFailure, cls.Classify("https://example.com/error", ""))
}

func Fuzz_Classify(f *testing.F) {
	cls := classifier.New(defaultSuccess, defaultFailure)

	f.Add("https://example.com/dashboard", "<html>welcome</html>")
	f.Add("", "")
	f.Fuzz(func(t *testing.T, url string, content string) {
		outcome := cls.Classify(url, content)
		if outcome != schemas.OutcomeSuccess && outcome != schemas.OutcomeFailure {
			t.Fatalf("classifier produced non-binary outcome %q", outcome)
		}
	})
}

package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/loginprobe/api/schemas"
	"github.com/xkilldash9x/loginprobe/internal/selector"
)

func TestGenerate_CandidateCountAndOrder(t *testing.T) {
	testCases := []struct {
		name  string
		role  schemas.ElementRole
		hints []string
	}{
		{"username with three hints", schemas.RoleUsername, []string{"id", "name", "placeholder"}},
		{"password with three hints", schemas.RolePassword, []string{"id", "name", "type"}},
		{"submit with three hints", schemas.RoleSubmit, []string{"id", "class", "value"}},
		{"single hint", schemas.RoleUsername, []string{"id"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := selector.Generate(tc.role, tc.hints)

			require.Len(t, candidates, 3*len(tc.hints)+2)

			// Per hint, in hint order: substring, exact, tag-qualified substring.
			token := string(tc.role)
			for i, attr := range tc.hints {
				assert.Equal(t, `[`+attr+`*="`+token+`"]`, candidates[3*i])
				assert.Equal(t, `[`+attr+`="`+token+`"]`, candidates[3*i+1])
				assert.Equal(t, `input[`+attr+`*="`+token+`"]`, candidates[3*i+2])
			}

			// The two generic fallbacks close the list.
			assert.Equal(t, "#"+token, candidates[len(candidates)-2])
			assert.Equal(t, "."+token, candidates[len(candidates)-1])
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	hints := []string{"id", "name", "placeholder"}

	first := selector.Generate(schemas.RoleUsername, hints)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, selector.Generate(schemas.RoleUsername, hints))
	}
}

func TestGenerate_EmptyHints(t *testing.T) {
	candidates := selector.Generate(schemas.RoleSubmit, nil)

	// Even with no hints the generic fallbacks remain.
	require.Equal(t, []string{"#login", ".login"}, candidates)
}

func Fuzz_Generate(f *testing.F) {
	f.Add("username", "id", "name")
	f.Add("login", "", "class")
	f.Fuzz(func(t *testing.T, role string, hintA string, hintB string) {
		candidates := selector.Generate(schemas.ElementRole(role), []string{hintA, hintB})
		if len(candidates) != 3*2+2 {
			t.Fatalf("expected 8 candidates, got %d", len(candidates))
		}
	})
}

// Package selector generates ordered CSS selector candidates for a semantic
// element role. The generation is a pure function: the same role and hints
// always yield the same sequence, most-specific candidates first. UI authors
// rarely agree on how a login field is marked up, so resolution tries a
// spread of attribute conventions before falling back to bare id/class
// lookups on the role token itself.
package selector

import "github.com/xkilldash9x/loginprobe/api/schemas"

// Generate produces the candidate selector sequence for a role given ordered
// attribute hints. For each hint, in hint order, it emits a substring match,
// an exact match, and an input-tag-qualified substring match. Two generic
// fallbacks (id-style, class-style) close the list, so the result always has
// exactly 3*len(hints)+2 entries.
func Generate(role schemas.ElementRole, hints []string) []string {
	token := string(role)
	candidates := make([]string, 0, 3*len(hints)+2)

	for _, attr := range hints {
		candidates = append(candidates,
			`[`+attr+`*="`+token+`"]`,
			`[`+attr+`="`+token+`"]`,
			`input[`+attr+`*="`+token+`"]`,
		)
	}

	candidates = append(candidates, "#"+token, "."+token)
	return candidates
}

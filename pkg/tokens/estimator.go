// Package tokens estimates the token cost of a rendered prompt. On-device
// engines run with hard context windows (4k tokens on the platforms the
// bridge targets), so callers use these estimates to warn before a
// generation call is rejected by the engine.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

// nearLimitRatio is the fraction of the budget at which a prompt counts as
// close to the context window.
const nearLimitRatio = 0.9

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// Count returns the token count of text. The encoding is an approximation of
// the native tokenizers, which are not exposed by either platform; it is
// close enough for budget warnings.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return len(getTokenizer().Encode(text, nil, nil))
}

// NearBudget reports whether text consumes most of the given token budget.
// A non-positive budget disables the check.
func NearBudget(text string, budget int) bool {
	if budget <= 0 {
		return false
	}
	return float64(Count(text)) >= float64(budget)*nearLimitRatio
}

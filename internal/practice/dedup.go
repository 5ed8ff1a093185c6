package practice

import (
	"fmt"
	"strings"
)

// promptKey normalizes a prompt for duplicate detection.
func promptKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// buildDedup formats prior prompts for the prompt, respecting the max limit.
// Returns "None" if there are no prior prompts.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

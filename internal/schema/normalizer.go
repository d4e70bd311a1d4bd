// Package schema cleans uploaded column headers and verifies that the columns each
// pipeline checkpoint depends on are present.
package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// CleanName trims surrounding whitespace and removes every character outside [a-zA-Z0-9_].
func CleanName(name string) string {
	return disallowedChars.ReplaceAllString(strings.TrimSpace(name), "")
}

// Normalize cleans every header and makes the result unique.
//
// The k-th repeat (0-indexed) of a cleaned name receives the suffix "_k"; the first occurrence
// keeps the bare name. When a generated name is already taken by an earlier column the suffix is
// increased until the name is free. The output has the same length and order as the input.
func Normalize(columns []string) []string {
	normalized := make([]string, 0, len(columns))
	counts := make(map[string]int, len(columns))
	taken := make(map[string]bool, len(columns))

	for _, column := range columns {
		name := CleanName(column)
		occurrence := counts[name]

		candidate := name
		if occurrence > 0 {
			candidate = suffixed(name, occurrence)
		}

		for taken[candidate] {
			occurrence++
			candidate = suffixed(name, occurrence)
		}

		counts[name]++
		taken[candidate] = true
		normalized = append(normalized, candidate)
	}

	return normalized
}

func suffixed(name string, n int) string {
	return name + "_" + strconv.Itoa(n)
}

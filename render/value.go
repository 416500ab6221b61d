package render

import (
	"strconv"
	"strings"
)

// constValue turns a registry literal into a Go constant literal. C integer
// suffixes are dropped; anything that is not an integer literal is rejected.
func constValue(v string) (string, bool) {
	s := strings.TrimRight(strings.TrimSpace(v), "uUlL")
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || strings.Contains(digits, "_") {
		return "", false
	}
	if _, err := strconv.ParseUint(digits, 0, 64); err != nil {
		return "", false
	}
	return s, true
}

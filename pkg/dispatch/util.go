package dispatch

import (
	"os"
	"strings"
)

// cwdOrEnv resolves the working directory to scope a workspace lookup
// against.
func cwdOrEnv() (string, error) {
	return os.Getwd()
}

func fuzzyContains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

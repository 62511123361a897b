package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations found in a stack
// dump produced by runtime/debug.Stack, innermost first.
//
// Frames outside an /internal/ directory (runtime, stdlib, third-party) are
// skipped.
func InternalPaths(stack []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)

		loc, _, _ := strings.Cut(line, " +0x")
		if !strings.Contains(loc, ".go:") {
			continue
		}

		if idx := strings.Index(loc, "/internal/"); idx != -1 {
			paths = append(paths, loc[idx+1:])
		}
	}

	return paths
}

package rewrite

import "strings"

// StripIndex keeps the lines before the first line containing marker. It
// reports how many lines were dropped and whether the marker was found; with no
// marker the lines are returned unchanged.
func StripIndex(lines []string, marker string) ([]string, int, bool) {
	for i, line := range lines {
		if strings.Contains(line, marker) {
			return lines[:i], len(lines) - i, true
		}
	}
	return lines, 0, false
}

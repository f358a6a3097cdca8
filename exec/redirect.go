package exec

import (
	"strings"
	"unicode"
)

// DevNull is the output target that switches a Shell to exit-status-only mode.
const DevNull = "/dev/null"

// parseRedirect splits text into a command and an output path on the last
// '>'. No split happens when a '"' occurs at or after that '>', which keeps
// quoted arguments containing '>' intact. Both halves are trimmed of
// whitespace and control characters.
func parseRedirect(text string) (command, outPath string) {
	gt := strings.LastIndexByte(text, '>')
	quote := strings.LastIndexByte(text, '"')

	if gt >= 0 && quote < gt {
		return trim(text[:gt]), trim(text[gt+1:])
	}
	return trim(text), ""
}

func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

// isDevNull reports whether outPath selects exit-status-only mode.
func isDevNull(outPath string) bool {
	return outPath != "" && strings.Contains(outPath, DevNull)
}

package verify

import "strings"

// NormalizeRelative canonicalizes a relative path string so filesystem and
// git paths can be compared: backslash separators become forward slashes,
// leading "./" segments are stripped, carriage returns are dropped (git
// output on Windows can be CRLF-affected), and surrounding whitespace is
// trimmed.
//
// Pure and total; idempotent, so normalizing an already normalized path is
// a no-op.
func NormalizeRelative(path string) string {
	p := strings.TrimSpace(path)
	p = strings.ReplaceAll(p, "\r", "")
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimSpace(p)
}

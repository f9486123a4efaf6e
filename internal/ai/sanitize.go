package ai

import "strings"

// Sanitize strips code-fence wrapping from model output before
// structural parsing. Models frequently wrap JSON in ```json fences
// despite being told not to. Best-effort text transform: input without
// fences passes through (trimmed) unchanged, and the result is a fixed
// point, so sanitizing twice is a no-op.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := stripFence(s)
		if next == s {
			return s
		}
		s = next
	}
}

// stripFence removes one layer of leading/trailing fence markers.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop a language hint on the opening fence line, if any.
		tag := strings.TrimSpace(s[:nl])
		if len(tag) <= 12 && !strings.ContainsAny(tag, "{}[]\" ") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(s, "json")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package genai

import "strings"

// ExtractPayload pulls the JSON payload out of a loosely structured model
// response. Code fences are unwrapped first; if prose surrounds the JSON,
// the outermost bracketed structure is extracted.
func ExtractPayload(raw string) string {
	text := strings.TrimSpace(raw)

	if fenced, ok := stripCodeFence(text); ok {
		text = fenced
	}

	return extractBracketed(text)
}

// stripCodeFence unwraps a ```-fenced block, tolerating a language tag on
// the opening fence
func stripCodeFence(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start == -1 {
		return "", false
	}

	rest := text[start+3:]
	if newline := strings.IndexByte(rest, '\n'); newline != -1 {
		// Drop the language tag line ("json", "JSON", or empty)
		firstLine := strings.TrimSpace(rest[:newline])
		if firstLine == "" || len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{[") {
			rest = rest[newline+1:]
		}
	}

	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest), true
	}

	return strings.TrimSpace(rest[:end]), true
}

// extractBracketed returns the outermost {...} or [...] structure in text,
// discarding any prose before or after it
func extractBracketed(text string) string {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start := objStart
	var closer byte = '}'
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
		closer = ']'
	}
	if start == -1 {
		return ""
	}

	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return ""
	}

	return strings.TrimSpace(text[start : end+1])
}

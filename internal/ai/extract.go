package ai

import "strings"

// ExtractJSON slices the first '{' through the last '}' out of a model reply,
// stripping Markdown code fences first. Models routinely wrap JSON in prose;
// callers treat a failed parse of the result exactly like a model failure.
func ExtractJSON(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

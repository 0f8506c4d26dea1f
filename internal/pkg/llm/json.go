package llm

// ExtractJSON pulls the first balanced JSON object out of a model response.
// Models often wrap JSON in prose or code fences; when no object is found
// the input is returned unchanged so the caller can fall back to raw text.
func ExtractJSON(content string) string {
	start := -1
	end := -1
	depth := 0

	for i, ch := range content {
		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				end = i + 1
				break
			}
		}
	}

	if start >= 0 && end > start {
		return content[start:end]
	}

	return content
}

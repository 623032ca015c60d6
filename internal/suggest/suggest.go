package suggest

import "strings"

// Suggestion is a mock autocomplete result with a confidence in [0, 1].
type Suggestion struct {
	Text       string
	Confidence float64
}

// Service generates mocked code suggestions from the text before the
// cursor. It is deliberately heuristic; no model is involved.
type Service struct{}

// NewService creates a suggestion service.
func NewService() *Service {
	return &Service{}
}

// Generate produces a suggestion for the given code, cursor position
// and language. Cursor positions past the end of the code are clamped.
func (s *Service) Generate(code string, cursorPosition int, language string) Suggestion {
	lang := strings.ToLower(language)

	before := code
	if cursorPosition >= 0 && cursorPosition <= len(code) {
		before = code[:cursorPosition]
	}

	lines := strings.Split(before, "\n")
	currentLine := ""
	if len(lines) > 0 {
		currentLine = lines[len(lines)-1]
	}

	// A non-empty, non-comment line gets the AI-style phantom suggestion.
	trimmed := strings.TrimSpace(currentLine)
	if len(trimmed) > 0 && !strings.HasPrefix(trimmed, "//") {
		return aiMockSuggestion(lang)
	}

	switch lang {
	case "python":
		return pythonSuggestion(currentLine)
	case "javascript", "js":
		return javascriptSuggestion(currentLine)
	default:
		return genericSuggestion(currentLine)
	}
}

func aiMockSuggestion(language string) Suggestion {
	var comment string
	switch language {
	case "python":
		comment = "# AI generated code here"
	case "javascript", "js", "typescript", "ts":
		comment = "// AI generated code here"
	case "html", "xml":
		comment = "<!-- AI generated code here -->"
	case "css", "scss", "less":
		comment = "/* AI generated code here */"
	default:
		comment = "// AI generated code here"
	}
	return Suggestion{Text: comment, Confidence: 0.85}
}

func pythonSuggestion(currentLine string) Suggestion {
	trimmed := strings.TrimSpace(currentLine)
	rtrimmed := strings.TrimRight(currentLine, " \t")

	switch {
	case strings.HasSuffix(rtrimmed, "return") && currentLine != rtrimmed:
		// Trailing space after return.
		return Suggestion{Text: "True", Confidence: 0.80}
	case strings.HasSuffix(trimmed, "return"):
		return Suggestion{Text: " None", Confidence: 0.85}
	case strings.Contains(currentLine, "if __name__"):
		return Suggestion{Text: ` == "__main__":`, Confidence: 0.95}
	case strings.HasPrefix(trimmed, "def ") && strings.HasSuffix(trimmed, "):"):
		return Suggestion{Text: "\n    pass", Confidence: 0.90}
	case strings.HasPrefix(trimmed, "class ") && strings.HasSuffix(trimmed, ":"):
		return Suggestion{Text: "\n    pass", Confidence: 0.90}
	case trimmed == "import":
		return Suggestion{Text: " os", Confidence: 0.75}
	case trimmed == "from":
		return Suggestion{Text: " typing import", Confidence: 0.75}
	case strings.HasSuffix(trimmed, "print("):
		return Suggestion{Text: `"Hello, World!")`, Confidence: 0.70}
	case strings.HasSuffix(rtrimmed, "for"):
		return Suggestion{Text: " i in range(", Confidence: 0.80}
	case strings.HasSuffix(rtrimmed, "if"):
		return Suggestion{Text: " True:", Confidence: 0.75}
	default:
		return Suggestion{Text: "pass", Confidence: 0.60}
	}
}

func javascriptSuggestion(currentLine string) Suggestion {
	trimmed := strings.TrimSpace(currentLine)

	switch {
	case strings.HasSuffix(trimmed, "console."):
		return Suggestion{Text: "log()", Confidence: 0.95}
	case strings.HasSuffix(trimmed, "console.log("):
		return Suggestion{Text: `"Hello, World!")`, Confidence: 0.85}
	case strings.HasPrefix(trimmed, "function ") && strings.HasSuffix(trimmed, ")"):
		return Suggestion{Text: " {\n    \n}", Confidence: 0.90}
	case strings.HasSuffix(trimmed, "=>"):
		return Suggestion{Text: " {\n    \n}", Confidence: 0.90}
	case trimmed == "const":
		return Suggestion{Text: " value = ", Confidence: 0.80}
	case trimmed == "let":
		return Suggestion{Text: " value = ", Confidence: 0.80}
	case trimmed == "var":
		return Suggestion{Text: " value = ", Confidence: 0.75}
	case strings.HasSuffix(trimmed, "return"):
		return Suggestion{Text: " null;", Confidence: 0.80}
	case strings.HasSuffix(currentLine, "return "):
		return Suggestion{Text: "true;", Confidence: 0.75}
	case strings.HasSuffix(trimmed, "if ("):
		return Suggestion{Text: "true) {\n    \n}", Confidence: 0.80}
	case strings.HasSuffix(trimmed, "for ("):
		return Suggestion{Text: "let i = 0; i < 10; i++) {\n    \n}", Confidence: 0.85}
	default:
		return Suggestion{Text: ";", Confidence: 0.60}
	}
}

func genericSuggestion(currentLine string) Suggestion {
	trimmed := strings.TrimSpace(currentLine)

	switch {
	case trimmed == "":
		return Suggestion{Text: "// TODO: ", Confidence: 0.50}
	case strings.HasSuffix(trimmed, "="):
		return Suggestion{Text: " ", Confidence: 0.40}
	default:
		return Suggestion{Text: "", Confidence: 0.30}
	}
}

package plan

import (
	"strings"
	"unicode"
)

// tokenized holds the two views the ranker matches against: the word
// set for single keywords and the collapsed text for phrases.
type tokenized struct {
	words map[string]bool
	text  string
}

// tokenize lowercases the description and extracts word tokens.
// Punctuation splits words, but characters that appear inside tool
// names (`.`, `-`, `_`, `+`) do not.
func tokenize(description string) tokenized {
	lower := strings.ToLower(description)

	words := make(map[string]bool)
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words[current.String()] = true
			current.Reset()
		}
	}
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' || r == '+' {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokenized{
		words: words,
		text:  strings.Join(strings.Fields(lower), " "),
	}
}

// matches reports whether a rule keyword fires against the description.
// Keywords containing a space are phrases and match as substrings of
// the collapsed text.
func (tk tokenized) matches(keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(kw, " ") {
		return strings.Contains(tk.text, kw)
	}
	return tk.words[kw]
}

// titleFromDescription derives the plan title from the first non-empty
// line: trimmed, whitespace collapsed, converted to title case.
func titleFromDescription(description string) string {
	for _, line := range strings.Split(description, "\n") {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			continue
		}
		return titleCase(collapsed)
	}
	return "Reproduction Plan"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

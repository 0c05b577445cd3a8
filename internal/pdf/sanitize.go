package pdf

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reMultiBlank = regexp.MustCompile(`\n\s*\n\s*\n+`)
	reControl    = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
	reNonASCII   = regexp.MustCompile(`[^\x20-\x7e\n\r\t]`)
	reAllSpace   = regexp.MustCompile(`\s`)
)

// Sanitize cleans raw extractor/OCR output. After it runs the text contains
// only printable ASCII plus newline/tab, at most two consecutive newlines,
// and no leading or trailing whitespace.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = reWhitespace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	s = reControl.ReplaceAllString(s, "")
	s = reNonASCII.ReplaceAllString(s, "")
	return s
}

// sufficient reports whether text has at least min non-whitespace characters.
func sufficient(text string, min int) bool {
	if text == "" {
		return false
	}
	stripped := reAllSpace.ReplaceAllString(text, "")
	return utf8.RuneCountInString(stripped) >= min
}

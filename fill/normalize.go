// Package fill implements the template-filling engine: locating labeled
// fields and section headings in a Word document body, writing field
// values in place, stripping deselected sections, and stamping a
// watermark into every page header.
package fill

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Numbering tokens are stripped before punctuation so "3.2 Worksets"
	// and "Appendix b.1.2 References" compare by their words alone.
	letterNumbering = regexp.MustCompile(`\b[a-z]\.\d+(\.\d+)*\b`)
	plainNumbering  = regexp.MustCompile(`\b\d+(\.\d+)*\b`)
)

// Normalize folds a free-text heading into its canonical comparable form:
// compatibility-normalized, lowercased, numbering tokens dropped, every
// other non-alphanumeric run collapsed to one space. Total on any input;
// empty in yields empty out.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	s = letterNumbering.ReplaceAllString(s, " ")
	s = plainNumbering.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

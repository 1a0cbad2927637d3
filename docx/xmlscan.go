package docx

import (
	"html"
	"strings"
)

// Structural scanning over raw WordprocessingML. Word templates survive a
// fill byte-for-byte outside the edited spans, so these helpers locate and
// splice element ranges instead of rebuilding the tree.

// findElementStart returns the offset of the '<' opening the next element
// named name at or after from, or -1. The name must be complete: "w:p"
// never matches "w:pPr".
func findElementStart(xml string, from int, name string) int {
	for i := from; i < len(xml); {
		lt := strings.Index(xml[i:], "<")
		if lt < 0 {
			return -1
		}
		lt += i
		rest := xml[lt+1:]
		if strings.HasPrefix(rest, name) && isNameEnd(rest, len(name)) {
			return lt
		}
		skip := skipMarkup(xml, lt)
		if skip < 0 {
			return -1
		}
		i = skip
	}
	return -1
}

// isNameEnd reports whether s[i] terminates an element name.
func isNameEnd(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case ' ', '\t', '\r', '\n', '>', '/':
		return true
	}
	return false
}

// tagName returns the element name following the '<' at lt. Close tags
// report the bare name without the slash.
func tagName(xml string, lt int) string {
	i := lt + 1
	if i < len(xml) && xml[i] == '/' {
		i++
	}
	j := i
	for j < len(xml) && !isNameEnd(xml, j) {
		j++
	}
	return xml[i:j]
}

// tagEnd returns the offset just past the '>' closing the tag opened at lt,
// honoring quoted attribute values. Returns -1 on truncated markup.
func tagEnd(xml string, lt int) int {
	var quote byte
	for i := lt + 1; i < len(xml); i++ {
		c := xml[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + 1
		}
	}
	return -1
}

// selfClosing reports whether the tag opened at lt ends with "/>".
func selfClosing(xml string, lt, end int) bool {
	return end >= 2 && xml[end-2] == '/'
}

// skipMarkup advances past whatever markup construct starts at lt: a
// comment, CDATA section, processing instruction, or a single tag.
func skipMarkup(xml string, lt int) int {
	rest := xml[lt:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		end := strings.Index(rest, "-->")
		if end < 0 {
			return -1
		}
		return lt + end + 3
	case strings.HasPrefix(rest, "<![CDATA["):
		end := strings.Index(rest, "]]>")
		if end < 0 {
			return -1
		}
		return lt + end + 3
	case strings.HasPrefix(rest, "<?"):
		end := strings.Index(rest, "?>")
		if end < 0 {
			return -1
		}
		return lt + end + 2
	default:
		return tagEnd(xml, lt)
	}
}

// elementEnd returns the offset just past the close tag matching the
// element opened at lt, counting nested elements of the same name.
// Self-closing elements end at their own tag. Returns -1 on malformed
// input.
func elementEnd(xml string, lt int) int {
	name := tagName(xml, lt)
	openEnd := tagEnd(xml, lt)
	if openEnd < 0 {
		return -1
	}
	if selfClosing(xml, lt, openEnd) {
		return openEnd
	}
	depth := 1
	for i := openEnd; i < len(xml); {
		next := strings.Index(xml[i:], "<")
		if next < 0 {
			return -1
		}
		next += i
		rest := xml[next+1:]
		switch {
		case strings.HasPrefix(rest, "/"+name) && isNameEnd(rest, len(name)+1):
			end := tagEnd(xml, next)
			if end < 0 {
				return -1
			}
			depth--
			if depth == 0 {
				return end
			}
			i = end
		case strings.HasPrefix(rest, name) && isNameEnd(rest, len(name)):
			end := tagEnd(xml, next)
			if end < 0 {
				return -1
			}
			if !selfClosing(xml, next, end) {
				depth++
			}
			i = end
		default:
			skip := skipMarkup(xml, next)
			if skip < 0 {
				return -1
			}
			i = skip
		}
	}
	return -1
}

// textElements are the elements whose character content counts as the
// flattened text of a block. Field instructions are included so
// table-of-contents lines expose their PAGEREF markers.
func isTextElement(name string) bool {
	return name == "w:t" || name == "w:instrText"
}

// innerText flattens the character content of a fragment, descending into
// every child element and unescaping entities.
func innerText(fragment string) string {
	var b strings.Builder
	for i := 0; i < len(fragment); {
		lt := strings.Index(fragment[i:], "<")
		if lt < 0 {
			break
		}
		lt += i
		if lt+1 >= len(fragment) {
			break
		}
		name := tagName(fragment, lt)
		if !isTextElement(name) || fragment[lt+1] == '/' {
			skip := skipMarkup(fragment, lt)
			if skip < 0 {
				break
			}
			i = skip
			continue
		}
		openEnd := tagEnd(fragment, lt)
		if openEnd < 0 {
			break
		}
		if selfClosing(fragment, lt, openEnd) {
			i = openEnd
			continue
		}
		close := strings.Index(fragment[openEnd:], "</"+name)
		if close < 0 {
			break
		}
		b.WriteString(unescapeText(fragment[openEnd : openEnd+close]))
		i = tagEnd(fragment, openEnd+close)
		if i < 0 {
			break
		}
	}
	return b.String()
}

// setRunText overwrites the first text run of a fragment with text and
// clears every later run, preserving the surrounding run structure. The
// second return is false when the fragment holds no text run at all.
func setRunText(fragment, text string) (string, bool) {
	var b strings.Builder
	prev := 0
	wrote := false
	for i := 0; i < len(fragment); {
		lt := strings.Index(fragment[i:], "<")
		if lt < 0 {
			break
		}
		lt += i
		if lt+1 >= len(fragment) {
			break
		}
		if tagName(fragment, lt) != "w:t" || fragment[lt+1] == '/' {
			skip := skipMarkup(fragment, lt)
			if skip < 0 {
				break
			}
			i = skip
			continue
		}
		end := tagEnd(fragment, lt)
		if end < 0 {
			break
		}
		if !selfClosing(fragment, lt, end) {
			close := strings.Index(fragment[end:], "</w:t>")
			if close < 0 {
				break
			}
			end += close + len("</w:t>")
		}
		b.WriteString(fragment[prev:lt])
		if !wrote {
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(escapeText(text))
			b.WriteString(`</w:t>`)
			wrote = true
		} else {
			b.WriteString(`<w:t/>`)
		}
		prev = end
		i = end
	}
	if !wrote {
		return fragment, false
	}
	b.WriteString(fragment[prev:])
	return b.String(), true
}

// newRun builds a plain run carrying text.
func newRun(text string) string {
	return `<w:r><w:t xml:space="preserve">` + escapeText(text) + `</w:t></w:r>`
}

// setParagraphText writes text into a paragraph fragment: overwrite runs
// when present, otherwise append a fresh run before the close tag.
func setParagraphText(paragraph, text string) string {
	if out, ok := setRunText(paragraph, text); ok {
		return out
	}
	if strings.HasSuffix(paragraph, "/>") {
		return paragraph[:len(paragraph)-2] + ">" + newRun(text) + "</w:p>"
	}
	if i := strings.LastIndex(paragraph, "</w:p>"); i >= 0 {
		return paragraph[:i] + newRun(text) + paragraph[i:]
	}
	return paragraph
}

// setCellText writes text into a table-cell fragment. Runs anywhere in the
// cell are treated as one logical string; a cell with no runs gets one
// appended to its first paragraph.
func setCellText(cell, text string) string {
	if out, ok := setRunText(cell, text); ok {
		return out
	}
	if i := strings.Index(cell, "</w:p>"); i >= 0 {
		return cell[:i] + newRun(text) + cell[i:]
	}
	if i := strings.LastIndex(cell, "</w:tc>"); i >= 0 {
		return cell[:i] + "<w:p>" + newRun(text) + "</w:p>" + cell[i:]
	}
	return cell
}

// attrValue extracts a double-quoted attribute from a single tag string.
// The name must match a whole attribute name.
func attrValue(tag, name string) (string, bool) {
	probe := name + `="`
	for i := 0; ; {
		j := strings.Index(tag[i:], probe)
		if j < 0 {
			return "", false
		}
		j += i
		if j == 0 || (tag[j-1] != ' ' && tag[j-1] != '\t' && tag[j-1] != '\n' && tag[j-1] != '\r') {
			i = j + len(probe)
			continue
		}
		rest := tag[j+len(probe):]
		q := strings.IndexByte(rest, '"')
		if q < 0 {
			return "", false
		}
		return unescapeText(rest[:q]), true
	}
}

// span is a half-open byte range into a scanned XML string.
type span struct {
	start, end int
}

// childSpans lists the direct child elements named name inside the
// content range [start, end), skipping over nested subtrees.
func childSpans(xml string, start, end int, name string) []span {
	var out []span
	for i := start; i < end; {
		lt := strings.Index(xml[i:end], "<")
		if lt < 0 {
			break
		}
		lt += i
		if lt+1 >= end || xml[lt+1] == '/' {
			break
		}
		if xml[lt+1] == '!' || xml[lt+1] == '?' {
			skip := skipMarkup(xml, lt)
			if skip < 0 {
				break
			}
			i = skip
			continue
		}
		elemEnd := elementEnd(xml, lt)
		if elemEnd < 0 || elemEnd > end {
			break
		}
		if tagName(xml, lt) == name {
			out = append(out, span{start: lt, end: elemEnd})
		}
		i = elemEnd
	}
	return out
}

// contentRange bounds the inner content of the element spanning s,
// excluding its open and close tags. Self-closing elements yield an empty
// range.
func contentRange(xml string, s span) (int, int) {
	openEnd := tagEnd(xml, s.start)
	if openEnd < 0 || selfClosing(xml, s.start, openEnd) {
		return s.end, s.end
	}
	closeLt := strings.LastIndex(xml[:s.end], "<")
	if closeLt < openEnd {
		return openEnd, openEnd
	}
	return openEnd, closeLt
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeText escapes character content for embedding in an XML text node.
func escapeText(s string) string { return textEscaper.Replace(s) }

// escapeAttr escapes a value for embedding in a double-quoted attribute.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// unescapeText resolves entity and character references in text content.
func unescapeText(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

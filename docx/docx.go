// Package docx reads and rewrites Word documents as ZIP archives of XML
// parts. The main document part is edited at the raw XML level with
// structural scanning instead of a decode/encode round trip, which keeps
// namespaces, revision marks and whitespace exactly as the template author
// saved them.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partContentTypes = "[Content_Types].xml"
	partSettings     = "word/settings.xml"
	partCoreProps    = "docProps/core.xml"
)

// Document is an in-memory .docx archive. Parts keep their original order
// so the rewritten file diffs cleanly against the template.
type Document struct {
	order []string
	parts map[string][]byte
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docx: read %s: %w", path, err)
	}
	return OpenBytes(data)
}

// OpenBytes reads a .docx archive from memory.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open archive: %w", err)
	}
	d := &Document{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: read part %s: %w", f.Name, err)
		}
		d.setPart(f.Name, content)
	}
	if _, ok := d.parts[partDocument]; !ok {
		return nil, ErrNotWordDocument
	}
	return d, nil
}

func (d *Document) setPart(name string, content []byte) {
	if _, ok := d.parts[name]; !ok {
		d.order = append(d.order, name)
	}
	d.parts[name] = content
}

// Part returns the raw bytes of a named part.
func (d *Document) Part(name string) ([]byte, bool) {
	p, ok := d.parts[name]
	return p, ok
}

// SetPart replaces a part, creating it if absent.
func (d *Document) SetPart(name string, content []byte) {
	d.setPart(name, content)
}

// PartNames returns the archive entries in original order.
func (d *Document) PartNames() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Main returns word/document.xml as a string.
func (d *Document) Main() string {
	return string(d.parts[partDocument])
}

// SetMain replaces word/document.xml.
func (d *Document) SetMain(xml string) {
	d.setPart(partDocument, []byte(xml))
}

// HasBody reports whether the main part contains a body element. Documents
// without one are treated as empty by every mutation.
func (d *Document) HasBody() bool {
	_, _, ok := bodyRange(d.Main())
	return ok
}

// ReplaceInText substitutes old with new inside every text node of the
// main part and returns the number of nodes changed. Text split across
// runs is not joined; the substring must sit inside one node.
func (d *Document) ReplaceInText(old, new string) int {
	if old == "" {
		return 0
	}
	xml := d.Main()
	var b strings.Builder
	prev := 0
	changed := 0
	for i := 0; i < len(xml); {
		lt := strings.Index(xml[i:], "<w:t")
		if lt < 0 {
			break
		}
		lt += i
		if !isNameEnd(xml[lt+1:], 3) {
			i = lt + 4
			continue
		}
		end := tagEnd(xml, lt)
		if end < 0 {
			break
		}
		if selfClosing(xml, lt, end) {
			i = end
			continue
		}
		close := strings.Index(xml[end:], "</w:t>")
		if close < 0 {
			break
		}
		content := xml[end : end+close]
		after := end + close + len("</w:t>")
		text := unescapeText(content)
		if strings.Contains(text, old) {
			b.WriteString(xml[prev:lt])
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(escapeText(strings.ReplaceAll(text, old, new)))
			b.WriteString(`</w:t>`)
			prev = after
			changed++
		}
		i = after
	}
	if changed == 0 {
		return 0
	}
	b.WriteString(xml[prev:])
	d.SetMain(b.String())
	return changed
}

// Bytes serializes the archive.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.order {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("docx: write part %s: %w", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			return nil, fmt.Errorf("docx: write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the archive to disk.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("docx: save %s: %w", path, err)
	}
	return nil
}

// bodyRange locates the content span between the body open and close tags
// of a main-document XML string. Offsets bound the inner content only.
func bodyRange(xml string) (start, end int, ok bool) {
	open := findElementStart(xml, 0, "w:body")
	if open < 0 {
		return 0, 0, false
	}
	gt := strings.IndexByte(xml[open:], '>')
	if gt < 0 {
		return 0, 0, false
	}
	start = open + gt + 1
	if xml[open+gt-1] == '/' { // self-closing empty body
		return start, start, false
	}
	close := strings.LastIndex(xml, "</w:body>")
	if close < start {
		return 0, 0, false
	}
	return start, close, true
}

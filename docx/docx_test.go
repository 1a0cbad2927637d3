package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const testRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

// wrapDocument builds a main part around raw body content.
func wrapDocument(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<w:body>` + body + `</w:body></w:document>`
}

// para builds a plain one-run paragraph.
func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// buildArchive assembles an in-memory .docx from named parts.
func buildArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// testDocument opens an in-memory document with the given body content.
func testDocument(t *testing.T, body string) *Document {
	t.Helper()
	data := buildArchive(t, map[string]string{
		"[Content_Types].xml":          testContentTypes,
		"_rels/.rels":                  testRels,
		"word/_rels/document.xml.rels": testRels,
		"word/document.xml":            wrapDocument(body),
	})
	d, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestOpenBytesRejectsNonWord(t *testing.T) {
	data := buildArchive(t, map[string]string{"readme.txt": "hello"})
	if _, err := OpenBytes(data); !errors.Is(err, ErrNotWordDocument) {
		t.Fatalf("expected ErrNotWordDocument, got %v", err)
	}
}

func TestOpenBytesRejectsGarbage(t *testing.T) {
	if _, err := OpenBytes([]byte("not a zip")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	d := testDocument(t, para("Hello")+para("World"))
	d.SetPart("word/custom.xml", []byte("<custom/>"))

	path := filepath.Join(t.TempDir(), "out.docx")
	if err := d.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	reopened, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reopened.Main(), "Hello") {
		t.Error("main part lost on round trip")
	}
	if p, ok := reopened.Part("word/custom.xml"); !ok || string(p) != "<custom/>" {
		t.Errorf("custom part lost on round trip: %q, %v", p, ok)
	}
}

func TestPartOrderPreserved(t *testing.T) {
	d := testDocument(t, para("x"))
	before := d.PartNames()

	data, err := d.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	var after []string
	for _, f := range zr.File {
		after = append(after, f.Name)
	}
	if len(after) != len(before) {
		t.Fatalf("entry count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("entry %d: %q, want %q", i, after[i], before[i])
		}
	}
}

func TestHasBody(t *testing.T) {
	d := testDocument(t, para("x"))
	if !d.HasBody() {
		t.Error("document with body reports none")
	}

	data := buildArchive(t, map[string]string{
		"[Content_Types].xml": testContentTypes,
		"word/document.xml":   `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:document>`,
	})
	bare, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if bare.HasBody() {
		t.Error("bodyless document reports a body")
	}
	if _, err := bare.Body(); !errors.Is(err, ErrNoBody) {
		t.Errorf("expected ErrNoBody, got %v", err)
	}
}

package fill

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/wwpbim/bepgen/docx"
)

// Fixture helpers shared by the fill tests. Documents are assembled as
// in-memory archives with just enough parts for Word plumbing to work.

const fixtureContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const fixtureRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

func mainXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<w:body>` + body + `</w:body></w:document>`
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func fieldRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString(`<w:tc><w:tcPr/><w:p><w:r><w:t>` + c + `</w:t></w:r></w:p></w:tc>`)
	}
	b.WriteString("</w:tr>")
	return b.String()
}

func fieldTable(rows ...string) string {
	return "<w:tbl><w:tblPr/>" + strings.Join(rows, "") + "</w:tbl>"
}

func buildDocx(t *testing.T, parts map[string]string) []byte {
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

func openDoc(t *testing.T, body string) *docx.Document {
	t.Helper()
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml":          fixtureContentTypes,
		"_rels/.rels":                  fixtureRels,
		"word/_rels/document.xml.rels": fixtureRels,
		"word/document.xml":            mainXML(body),
	})
	d, err := docx.OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func openBody(t *testing.T, bodyXML string) (*docx.Document, *docx.Body) {
	t.Helper()
	d := openDoc(t, bodyXML)
	b, err := d.Body()
	if err != nil {
		t.Fatal(err)
	}
	return d, b
}

func TestFillFieldTableNextCell(t *testing.T) {
	_, body := openBody(t, fieldTable(fieldRow("Project Name:", "160 John Street")))

	ok, err := FillField(body, "Project Name:", "118 Project Avenue")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}

	tbl, err := body.Table(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.CellText(0, 0); got != "Project Name:" {
		t.Errorf("label cell = %q", got)
	}
	if got := tbl.CellText(0, 1); got != "118 Project Avenue" {
		t.Errorf("value cell = %q", got)
	}
}

func TestFillFieldTableBakedSample(t *testing.T) {
	// A sample value fused onto the label must be scrubbed, not kept.
	_, body := openBody(t, fieldTable(fieldRow("Project Name:160 John Street", "TBD")))

	ok, err := FillField(body, "Project Name:", "118 Project Avenue")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}

	tbl, err := body.Table(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.CellText(0, 0); got != "Project Name:" {
		t.Errorf("label cell = %q, want bare label", got)
	}
	if got := tbl.CellText(0, 1); got != "118 Project Avenue" {
		t.Errorf("value cell = %q", got)
	}
}

func TestFillFieldTableSingleCellRow(t *testing.T) {
	_, body := openBody(t, fieldTable(fieldRow("Client:")))

	ok, err := FillField(body, "Client:", "WWP Consulting")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}
	tbl, err := body.Table(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.CellText(0, 0); got != "Client: WWP Consulting" {
		t.Errorf("cell = %q", got)
	}
}

func TestFillFieldTableCaseInsensitive(t *testing.T) {
	_, body := openBody(t, fieldTable(fieldRow("PROJECT NUMBER:", "")))

	ok, err := FillField(body, "Project Number:", "P-2041")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}
	tbl, err := body.Table(0)
	if err != nil {
		t.Fatal(err)
	}
	// Differently-cased label cell is rewritten to the canonical label.
	if got := tbl.CellText(0, 0); got != "Project Number:" {
		t.Errorf("label cell = %q", got)
	}
	if got := tbl.CellText(0, 1); got != "P-2041" {
		t.Errorf("value cell = %q", got)
	}
}

func TestFillFieldTableFirstMatchOnly(t *testing.T) {
	bodyXML := fieldTable(
		fieldRow("Client:", "old one"),
		fieldRow("Client:", "old two"),
	)
	_, body := openBody(t, bodyXML)

	if _, err := FillField(body, "Client:", "WWP"); err != nil {
		t.Fatal(err)
	}
	tbl, err := body.Table(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.CellText(0, 1); got != "WWP" {
		t.Errorf("first row value = %q", got)
	}
	if got := tbl.CellText(1, 1); got != "old two" {
		t.Errorf("second row touched: %q", got)
	}
}

func TestFillFieldParagraphPlaceholder(t *testing.T) {
	bodyXML := para("Project Description:") + para("TBD") + para("Unrelated prose.")
	_, body := openBody(t, bodyXML)

	ok, err := FillField(body, "Project Description:", "A six storey timber office building.")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}
	if got := body.Text(0); got != "Project Description:" {
		t.Errorf("label paragraph changed: %q", got)
	}
	if got := body.Text(1); got != "A six storey timber office building." {
		t.Errorf("placeholder = %q", got)
	}
	if got := body.Text(2); got != "Unrelated prose." {
		t.Errorf("bystander paragraph changed: %q", got)
	}
}

func TestFillFieldParagraphLongSuccessorInline(t *testing.T) {
	long := strings.Repeat("Existing narrative that must not be replaced. ", 4)
	bodyXML := para("Project Description:") + para(long)
	_, body := openBody(t, bodyXML)

	ok, err := FillField(body, "Project Description:", "New summary")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}
	if got := body.Text(0); got != "Project Description: New summary" {
		t.Errorf("label paragraph = %q", got)
	}
	if got := body.Text(1); !strings.Contains(got, "Existing narrative") {
		t.Errorf("long successor replaced: %q", got)
	}
}

func TestFillFieldParagraphContainsWithoutPrefix(t *testing.T) {
	bodyXML := para("See the Project Description: entry below")
	_, body := openBody(t, bodyXML)

	ok, err := FillField(body, "Project Description:", "Summary")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("field not written")
	}
	if got := body.Text(0); got != "Project Description: Summary" {
		t.Errorf("paragraph = %q", got)
	}
}

func TestFillFieldTableBeatsParagraph(t *testing.T) {
	bodyXML := para("Client: mentioned in prose first") +
		fieldTable(fieldRow("Client:", ""))
	_, body := openBody(t, bodyXML)

	if _, err := FillField(body, "Client:", "WWP"); err != nil {
		t.Fatal(err)
	}
	tbl, err := body.Table(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.CellText(0, 1); got != "WWP" {
		t.Errorf("table cell = %q, want table strategy to win", got)
	}
	if got := body.Text(0); got != "Client: mentioned in prose first" {
		t.Errorf("paragraph touched: %q", got)
	}
}

func TestFillFieldNoMatch(t *testing.T) {
	_, body := openBody(t, para("Nothing to see here."))

	ok, err := FillField(body, "Project Number:", "P-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("reported a write with no matching location")
	}
	if got := body.Text(0); got != "Nothing to see here." {
		t.Errorf("body changed: %q", got)
	}
}

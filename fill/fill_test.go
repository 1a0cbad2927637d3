package fill

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wwpbim/bepgen/docx"
	"github.com/wwpbim/bepgen/payload"
)

const fixtureCoreProps = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/">` +
	`<dc:title>BEP Template</dc:title>` +
	`</cp:coreProperties>`

// templateBody models the standard template shape: field table up front, a
// TOC line, numbered section headings with prose, one known artifact.
func templateBody() string {
	toc := `<w:p><w:r><w:t>Worksets</w:t></w:r><w:r><w:instrText xml:space="preserve"> PAGEREF _Toc90210 \h </w:instrText></w:r><w:r><w:t>12</w:t></w:r></w:p>`
	return fieldTable(
		fieldRow("Project Number:", ""),
		fieldRow("Project Name:", "160 John Street"),
		fieldRow("Client:", ""),
	) +
		toc +
		para("Prepared at 160 John Street110224 by the design team.") +
		para("3.1 Worksets") +
		para("Models are split per discipline.") +
		para("3.2 Phasing") +
		para("Stage boundaries follow the construction programme.") +
		para("Temporary works are modelled separately.") +
		para("3.3 Levels") +
		para("Datum planes come from the survey control model.") +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
}

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml":          fixtureContentTypes,
		"_rels/.rels":                  fixtureRels,
		"word/_rels/document.xml.rels": fixtureRels,
		"word/document.xml":            mainXML(body),
		"docProps/core.xml":            fixtureCoreProps,
	})
	path := filepath.Join(t.TempDir(), "template.docx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFillTemplate(t *testing.T) {
	template := writeTemplate(t, templateBody())
	output := filepath.Join(t.TempDir(), "filled.docx")

	p := payload.New()
	p.ProjectNumber = "P-2041"
	p.ProjectName = "Riverside Transit Depot"
	p.EnableWatermark = true
	p.WatermarkText = "" // falls back to DRAFT

	res, err := FillTemplate(template, output, p, []string{"Phasing"})
	if err != nil {
		t.Fatal(err)
	}

	if res.Fields != 2 {
		t.Errorf("Fields = %d, want 2 (number and name; blank fields skipped)", res.Fields)
	}
	if res.Fixes != 1 {
		t.Errorf("Fixes = %d, want 1", res.Fixes)
	}
	if res.Removed != 3 {
		t.Errorf("Removed = %d, want 3 (heading plus two prose blocks)", res.Removed)
	}
	if !res.Watermarked {
		t.Error("watermark not applied")
	}
	if got := res.Changes(); got != res.Fields+res.Fixes+res.Removed+1 {
		t.Errorf("Changes = %d, want %d", got, res.Fields+res.Fixes+res.Removed+1)
	}
	if got := res.Changes(); got != 7 {
		t.Errorf("Changes = %d, want 7", got)
	}

	doc, err := docx.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	body, err := doc.Body()
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := body.Table(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.CellText(0, 1); got != "P-2041" {
		t.Errorf("project number cell = %q", got)
	}
	if got := tbl.CellText(1, 1); got != "Riverside Transit Depot" {
		t.Errorf("project name cell = %q", got)
	}
	if got := tbl.CellText(2, 1); got != "" {
		t.Errorf("blank field written: %q", got)
	}

	main := doc.Main()
	if strings.Contains(main, "Stage boundaries") || strings.Contains(main, "Temporary works") {
		t.Error("removed section content survived")
	}
	if strings.Contains(main, "3.2 Phasing") {
		t.Error("removed heading survived")
	}
	for _, keep := range []string{"3.1 Worksets", "Models are split", "3.3 Levels", "Datum planes"} {
		if !strings.Contains(main, keep) {
			t.Errorf("kept content %q missing", keep)
		}
	}
	// TOC line is never treated as the section heading.
	if !strings.Contains(main, "PAGEREF _Toc90210") {
		t.Error("TOC entry removed")
	}
	if !strings.Contains(main, "160 John Street") || strings.Contains(main, "160 John Street110224") {
		t.Error("literal artifact not patched")
	}

	header, ok := doc.Header("word/header1.xml")
	if !ok {
		t.Fatal("watermark header missing")
	}
	if !strings.Contains(header, `string="DRAFT"`) {
		t.Errorf("default watermark text missing: %s", header)
	}

	core, _ := doc.Part("docProps/core.xml")
	if !strings.Contains(string(core), "<dc:title>Riverside Transit Depot</dc:title>") {
		t.Errorf("title metadata not set: %s", core)
	}
	if strings.Contains(string(core), "dc:creator") {
		t.Error("creator set from blank field")
	}
}

func TestFillTemplateWithoutWatermark(t *testing.T) {
	template := writeTemplate(t, templateBody())
	output := filepath.Join(t.TempDir(), "filled.docx")

	p := payload.New()
	p.ProjectName = "Depot"

	res, err := FillTemplate(template, output, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Watermarked {
		t.Error("watermark applied without being requested")
	}
	if res.Removed != 0 {
		t.Errorf("Removed = %d, want 0", res.Removed)
	}

	doc, err := docx.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range doc.PartNames() {
		if strings.HasPrefix(name, "word/header") {
			t.Errorf("header %s created without watermark", name)
		}
	}
}

func TestFillTemplateMissing(t *testing.T) {
	output := filepath.Join(t.TempDir(), "filled.docx")
	_, err := FillTemplate(filepath.Join(t.TempDir(), "absent.docx"), output, payload.New(), nil)
	if err == nil {
		t.Fatal("expected error for missing template")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should preserve not-exist: %v", err)
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("output written despite missing template")
	}
}

func TestFillTemplateNoBody(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml": fixtureContentTypes,
		"word/document.xml":   `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:document>`,
	})
	dir := t.TempDir()
	template := filepath.Join(dir, "empty.docx")
	if err := os.WriteFile(template, data, 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.docx")

	p := payload.New()
	p.ProjectName = "Ignored"
	p.EnableWatermark = true

	res, err := FillTemplate(template, output, p, []string{"Worksets"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changes() != 0 {
		t.Errorf("Changes = %d, want 0 for bodyless template", res.Changes())
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("copy not written: %v", err)
	}
}

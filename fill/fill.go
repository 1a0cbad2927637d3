package fill

import (
	"fmt"
	"strings"

	"github.com/wwpbim/bepgen/docx"
	"github.com/wwpbim/bepgen/payload"
)

// literalFixes patches known template artifacts. The John Street entry
// repairs a sample address that shipped fused with a numeric code.
var literalFixes = []struct {
	old string
	new string
}{
	{"160 John Street110224", "160 John Street"},
}

// Result tallies what one fill changed.
type Result struct {
	Fields      int
	Fixes       int
	Removed     int
	Watermarked bool
}

// Changes returns the total reported to the caller: one per filled field,
// one per patched text node, one per removed block, and one for the
// watermark as a whole.
func (r Result) Changes() int {
	n := r.Fields + r.Fixes + r.Removed
	if r.Watermarked {
		n++
	}
	return n
}

// FillTemplate copies the template at templatePath to outputPath with
// payload values filled in, deselected sections removed, and an optional
// watermark applied. Document metadata is set from the payload as a side
// effect and never counted. A template without a body is copied through
// unchanged with a zero Result.
//
// Failures while mutating or saving are returned as-is; a partially
// written output file is left for the caller to inspect, never silently
// passed off as success.
func FillTemplate(templatePath, outputPath string, p *payload.Payload, removeSections []string) (Result, error) {
	var res Result

	doc, err := docx.Open(templatePath)
	if err != nil {
		return res, err
	}
	if !doc.HasBody() {
		return res, doc.Save(outputPath)
	}

	setMetadata(doc, p)

	body, err := doc.Body()
	if err != nil {
		return res, err
	}
	for _, fv := range FieldValues(p) {
		if strings.TrimSpace(fv.Value) == "" {
			continue
		}
		ok, err := FillField(body, fv.Label, fv.Value)
		if err != nil {
			return res, fmt.Errorf("fill: field %q: %w", fv.Label, err)
		}
		if ok {
			res.Fields++
		}
	}

	for _, fix := range literalFixes {
		res.Fixes += doc.ReplaceInText(fix.old, fix.new)
	}

	// The literal pass rewrites the main part wholesale, so the section
	// remover needs a fresh snapshot.
	body, err = doc.Body()
	if err != nil {
		return res, err
	}
	removed, err := ClearSections(body, removeSections, payload.Topics())
	if err != nil {
		return res, fmt.Errorf("fill: clear sections: %w", err)
	}
	res.Removed = removed

	if p.EnableWatermark {
		if err := ApplyWatermark(doc, p.EffectiveWatermarkText()); err != nil {
			return res, err
		}
		res.Watermarked = true
	}

	if err := doc.Save(outputPath); err != nil {
		return res, err
	}
	return res, nil
}

// setMetadata mirrors the payload identity fields into the document
// properties, skipping blanks.
func setMetadata(doc *docx.Document, p *payload.Payload) {
	if strings.TrimSpace(p.ProjectName) != "" {
		doc.SetCoreProperty("dc:title", p.ProjectName)
	}
	if strings.TrimSpace(p.ProjectDescription) != "" {
		doc.SetCoreProperty("dc:description", p.ProjectDescription)
	}
	if strings.TrimSpace(p.BimLead) != "" {
		doc.SetCoreProperty("dc:creator", p.BimLead)
	}
}

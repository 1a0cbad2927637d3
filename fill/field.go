package fill

import (
	"strings"
	"unicode/utf8"

	"github.com/wwpbim/bepgen/docx"
	"github.com/wwpbim/bepgen/payload"
)

// Placeholder paragraphs under a label are only overwritten when short;
// anything longer is body prose the template author wrote deliberately.
const maxPlaceholderLen = 120

// FieldValue pairs a template label with the payload value that belongs
// after it.
type FieldValue struct {
	Label string
	Value string
}

// FieldValues flattens a payload into the ordered label table the
// orchestrator walks. Blank values stay in the list; the caller decides
// whether to skip them.
func FieldValues(p *payload.Payload) []FieldValue {
	return []FieldValue{
		{"Project Number:", p.ProjectNumber},
		{"Project Name:", p.ProjectName},
		{"Project Address:", p.ProjectAddress},
		{"Client:", p.Client},
		{"Project Type:", p.ProjectType},
		{"Contract Type:", p.ContractType},
		{"Project Description:", p.ProjectDescription},
		{"BIM Lead:", p.BimLead},
		{"Coordination Meeting Cadence:", p.CoordinationMeetingCadence},
		{"Collaboration Method:", p.PackageMethod},
		{"Auto-Publish Cadence:", p.AutoPublishCadence},
		{"Package Sharing Frequency:", p.SharingFrequency},
		{"Package Naming Convention:", p.PackageNamingConvention},
		{"Autodesk Revit:", p.RevitVersion},
		{"Autodesk AutoCAD:", p.AutoCadVersion},
		{"Autodesk Civil 3D:", p.Civil3DVersion},
		{"Autodesk Desktop Connector:", p.DesktopConnectorVersion},
		{"Bluebeam Revu:", p.BluebeamVersion},
	}
}

// containsFold reports whether s contains substr case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// hasPrefixFold reports whether s starts with prefix case-insensitively.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// FillField writes value at the best location for label. Table cells win
// over paragraphs: the first cell containing the label is normalized to
// the bare label and the value lands in the next cell of the row (or is
// appended to the label cell on single-cell rows). Failing every table,
// the first paragraph containing the label takes the value either into
// its short placeholder successor or inline after the label. Returns true
// iff a write occurred.
func FillField(body *docx.Body, label, value string) (bool, error) {
	ok, err := fillTableCell(body, label, value)
	if ok || err != nil {
		return ok, err
	}
	return fillParagraph(body, label, value)
}

func fillTableCell(body *docx.Body, label, value string) (bool, error) {
	for _, ti := range body.Tables() {
		tbl, err := body.Table(ti)
		if err != nil {
			return false, err
		}
		for r := 0; r < tbl.Rows(); r++ {
			for c := 0; c < tbl.Cells(r); c++ {
				cell := strings.TrimSpace(tbl.CellText(r, c))
				if !containsFold(cell, label) {
					continue
				}
				// Templates sometimes bake a sample value into the label
				// cell; reset it to the bare label before filling.
				if cell != label {
					if err := tbl.SetCellText(r, c, label); err != nil {
						return false, err
					}
				}
				if c+1 < tbl.Cells(r) {
					if err := tbl.SetCellText(r, c+1, value); err != nil {
						return false, err
					}
				} else if err := tbl.SetCellText(r, c, label+" "+value); err != nil {
					return false, err
				}
				return true, nil
			}
		}
	}
	return false, nil
}

func fillParagraph(body *docx.Body, label, value string) (bool, error) {
	paras := body.Paragraphs()
	for k, pi := range paras {
		text := strings.TrimSpace(body.Text(pi))
		if !containsFold(text, label) {
			continue
		}
		if hasPrefixFold(text, label) && k+1 < len(paras) {
			next := strings.TrimSpace(body.Text(paras[k+1]))
			if next != "" && utf8.RuneCountInString(next) < maxPlaceholderLen {
				return true, body.SetParagraphText(paras[k+1], value)
			}
		}
		return true, body.SetParagraphText(pi, label+" "+value)
	}
	return false, nil
}

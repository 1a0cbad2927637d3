package fill

import (
	"fmt"
	"strings"

	"github.com/wwpbim/bepgen/docx"
)

// Word's stock text-path shape geometry. Each header part declares its own
// copy since shapetypes are scoped to the part they live in.
const watermarkShapetype = `<v:shapetype id="_x0000_t136" coordsize="21600,21600" o:spt="136" adj="10800" path="m@7,l@8,m@5,21600l@6,21600e">` +
	`<v:formulas>` +
	`<v:f eqn="sum #0 0 10800"/>` +
	`<v:f eqn="prod #0 2 1"/>` +
	`<v:f eqn="sum 21600 0 @1"/>` +
	`<v:f eqn="sum 0 0 @2"/>` +
	`<v:f eqn="sum 21600 0 @3"/>` +
	`<v:f eqn="if @0 @3 0"/>` +
	`<v:f eqn="if @0 21600 @1"/>` +
	`<v:f eqn="if @0 0 @2"/>` +
	`<v:f eqn="if @0 @4 21600"/>` +
	`<v:f eqn="mid @5 @6"/>` +
	`<v:f eqn="mid @8 @5"/>` +
	`<v:f eqn="mid @7 @8"/>` +
	`<v:f eqn="mid @6 @7"/>` +
	`<v:f eqn="sum @6 0 @5"/>` +
	`</v:formulas>` +
	`<v:path textpathok="t" o:connecttype="custom" o:connectlocs="@9,0;@10,10800;@11,21600;@12,10800" o:connectangles="270,180,90,0"/>` +
	`<v:textpath on="t" fitshape="t"/>` +
	`<v:handles><v:h position="#0,bottomRight" xrange="6629,14971"/></v:handles>` +
	`<o:lock v:ext="edit" text="t" shapetype="t"/>` +
	`</v:shapetype>`

const watermarkStyle = `position:absolute;margin-left:0;margin-top:0;width:468pt;height:117pt;rotation:315;z-index:-251654144;` +
	`mso-position-horizontal:center;mso-position-horizontal-relative:margin;` +
	`mso-position-vertical:center;mso-position-vertical-relative:margin`

// watermarkParagraph renders one header paragraph holding the diagonal
// text shape. The id suffix keeps shape identifiers document-unique when
// every section gets its own header.
func watermarkParagraph(text string, id int) string {
	return `<w:p><w:pPr><w:pStyle w:val="Header"/></w:pPr>` +
		`<w:r><w:rPr><w:noProof/></w:rPr><w:pict>` +
		watermarkShapetype +
		fmt.Sprintf(`<v:shape id="bepWatermark%d" type="#_x0000_t136" style="%s" o:allowincell="f" fillcolor="silver" stroked="f">`, id, watermarkStyle) +
		`<v:fill opacity=".5"/>` +
		`<v:textpath style="font-family:&quot;Calibri&quot;;font-size:1pt" string="` + escapeShapeText(text) + `"/>` +
		`</v:shape></w:pict></w:r></w:p>`
}

// shapeTextEscaper escapes watermark text for the shape's double-quoted
// string attribute.
var shapeTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeShapeText(s string) string { return shapeTextEscaper.Replace(s) }

// ApplyWatermark stamps text diagonally across every page by rewriting
// the default header of each section. Headers are created where a section
// has none; existing header content is replaced outright. A document
// without a body is left untouched.
func ApplyWatermark(doc *docx.Document, text string) error {
	if !doc.HasBody() {
		return nil
	}
	doc.EnsureDisplayBackgroundShapes()
	doc.EnsureSectionProperties()
	n := doc.SectionCount()
	for i := 0; i < n; i++ {
		part, err := doc.EnsureDefaultHeader(i)
		if err != nil {
			return fmt.Errorf("fill: watermark section %d: %w", i+1, err)
		}
		doc.SetHeader(part, watermarkParagraph(text, i+1))
	}
	return nil
}

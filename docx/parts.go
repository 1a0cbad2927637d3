package docx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	relTypeHeader    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeSettings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	headerMediaType  = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	settingsMedia    = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	xmlDeclaration   = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	headerNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:v="urn:schemas-microsoft-com:vml" ` +
		`xmlns:o="urn:schemas-microsoft-com:office:office" ` +
		`xmlns:w10="urn:schemas-microsoft-com:office:word"`

	emptyRels = xmlDeclaration +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	emptySettings = xmlDeclaration +
		`<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:settings>`
)

var (
	relIDPattern     = regexp.MustCompile(`Id="rId(\d+)"`)
	headerPartSuffix = regexp.MustCompile(`^word/header(\d+)\.xml$`)
)

// relationshipTarget resolves a relationship id from the main part's rels
// to its target path.
func (d *Document) relationshipTarget(rid string) (string, bool) {
	rels, ok := d.parts[partDocumentRels]
	if !ok {
		return "", false
	}
	xml := string(rels)
	for i := 0; ; {
		lt := findElementStart(xml, i, "Relationship")
		if lt < 0 {
			return "", false
		}
		end := tagEnd(xml, lt)
		if end < 0 {
			return "", false
		}
		tag := xml[lt:end]
		if id, _ := attrValue(tag, "Id"); id == rid {
			target, ok := attrValue(tag, "Target")
			return target, ok
		}
		i = end
	}
}

// addRelationship registers a relationship on the main part and returns
// its fresh id. The rels part is created when the template lacks one.
func (d *Document) addRelationship(relType, target string) string {
	rels, ok := d.parts[partDocumentRels]
	if !ok {
		rels = []byte(emptyRels)
	}
	xml := string(rels)
	max := 0
	for _, m := range relIDPattern.FindAllStringSubmatch(xml, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	rid := fmt.Sprintf("rId%d", max+1)
	rel := `<Relationship Id="` + rid + `" Type="` + relType + `" Target="` + escapeAttr(target) + `"/>`
	if i := strings.LastIndex(xml, "</Relationships>"); i >= 0 {
		xml = xml[:i] + rel + xml[i:]
	} else {
		xml += rel
	}
	d.setPart(partDocumentRels, []byte(xml))
	return rid
}

// ensureOverride declares a content type for a part when no declaration
// exists yet.
func (d *Document) ensureOverride(partName, mediaType string) {
	ct, ok := d.parts[partContentTypes]
	if !ok {
		return
	}
	xml := string(ct)
	if strings.Contains(xml, `PartName="`+partName+`"`) {
		return
	}
	override := `<Override PartName="` + partName + `" ContentType="` + mediaType + `"/>`
	if i := strings.LastIndex(xml, "</Types>"); i >= 0 {
		xml = xml[:i] + override + xml[i:]
		d.setPart(partContentTypes, []byte(xml))
	}
}

// EnsureDisplayBackgroundShapes flips the settings flag Word needs before
// it renders header shapes behind body text. Safe to call repeatedly; the
// flag is written once. A template without a settings part gets a minimal
// one wired in.
func (d *Document) EnsureDisplayBackgroundShapes() {
	settings, ok := d.parts[partSettings]
	if !ok {
		settings = []byte(emptySettings)
		d.setPart(partSettings, settings)
		d.addRelationship(relTypeSettings, "settings.xml")
		d.ensureOverride("/word/settings.xml", settingsMedia)
	}
	xml := string(settings)
	if strings.Contains(xml, "<w:displayBackgroundShape") {
		return
	}
	lt := findElementStart(xml, 0, "w:settings")
	if lt < 0 {
		return
	}
	end := tagEnd(xml, lt)
	if end < 0 {
		return
	}
	if selfClosing(xml, lt, end) {
		xml = xml[:end-2] + "><w:displayBackgroundShape/></w:settings>"
	} else {
		xml = xml[:end] + "<w:displayBackgroundShape/>" + xml[end:]
	}
	d.setPart(partSettings, []byte(xml))
}

// sectionSpans lists every section-properties element in the body, both
// paragraph-embedded and trailing, in document order.
func (d *Document) sectionSpans() []span {
	xml := d.Main()
	start, end, ok := bodyRange(xml)
	if !ok {
		return nil
	}
	var out []span
	for i := start; i < end; {
		lt := findElementStart(xml, i, "w:sectPr")
		if lt < 0 || lt >= end {
			break
		}
		elemEnd := elementEnd(xml, lt)
		if elemEnd < 0 {
			break
		}
		out = append(out, span{start: lt, end: elemEnd})
		i = elemEnd
	}
	return out
}

// EnsureSectionProperties guarantees at least one section exists so a
// header can be attached, synthesizing a trailing empty one on templates
// that carry none.
func (d *Document) EnsureSectionProperties() {
	if len(d.sectionSpans()) > 0 {
		return
	}
	xml := d.Main()
	i := strings.LastIndex(xml, "</w:body>")
	if i < 0 {
		return
	}
	d.SetMain(xml[:i] + "<w:sectPr></w:sectPr>" + xml[i:])
}

// SectionCount returns the number of sections in the body.
func (d *Document) SectionCount() int {
	return len(d.sectionSpans())
}

// nextHeaderIndex picks the first header part number not taken in the
// archive.
func (d *Document) nextHeaderIndex() int {
	max := 0
	for _, name := range d.order {
		if m := headerPartSuffix.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// EnsureDefaultHeader returns the part name of the default header for
// section (0-based), creating part, relationship, content-type override
// and reference when the section has none.
func (d *Document) EnsureDefaultHeader(section int) (string, error) {
	spans := d.sectionSpans()
	if section < 0 || section >= len(spans) {
		return "", ErrBlockRange
	}
	xml := d.Main()
	sect := spans[section]
	raw := xml[sect.start:sect.end]

	ss, se := contentRange(raw, span{start: 0, end: len(raw)})
	for _, ref := range childSpans(raw, ss, se, "w:headerReference") {
		tag := raw[ref.start:ref.end]
		if typ, _ := attrValue(tag, "w:type"); typ != "default" {
			continue
		}
		rid, ok := attrValue(tag, "r:id")
		if !ok {
			continue
		}
		target, ok := d.relationshipTarget(rid)
		if !ok {
			return "", fmt.Errorf("docx: header relationship %s: %w", rid, ErrMissingPart)
		}
		return resolvePartPath(target), nil
	}

	idx := d.nextHeaderIndex()
	partName := fmt.Sprintf("word/header%d.xml", idx)
	d.setPart(partName, []byte(xmlDeclaration+"<w:hdr "+headerNamespaces+"></w:hdr>"))
	rid := d.addRelationship(relTypeHeader, fmt.Sprintf("header%d.xml", idx))
	d.ensureOverride("/"+partName, headerMediaType)

	ref := `<w:headerReference w:type="default" r:id="` + rid + `"/>`
	openEnd := tagEnd(xml, sect.start)
	if openEnd < 0 {
		return "", ErrNoBody
	}
	if selfClosing(xml, sect.start, openEnd) {
		d.SetMain(xml[:openEnd-2] + ">" + ref + "</w:sectPr>" + xml[openEnd:])
	} else {
		// Header references come first among section children.
		d.SetMain(xml[:openEnd] + ref + xml[openEnd:])
	}
	return partName, nil
}

// resolvePartPath maps a relationship target from the main part to an
// archive entry name.
func resolvePartPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return "word/" + target
}

// SetHeader replaces the full content of a header part with inner, wrapped
// in a header root carrying the namespaces the watermark markup needs.
func (d *Document) SetHeader(partName, inner string) {
	d.setPart(partName, []byte(xmlDeclaration+"<w:hdr "+headerNamespaces+">"+inner+"</w:hdr>"))
}

// Header returns a header part as a string.
func (d *Document) Header(partName string) (string, bool) {
	p, ok := d.parts[partName]
	return string(p), ok
}

// SetCoreProperty writes a document-properties element such as "dc:title"
// in docProps/core.xml, replacing any existing value. Templates without a
// core-properties part are left alone; the return reports whether a write
// happened.
func (d *Document) SetCoreProperty(element, value string) bool {
	core, ok := d.parts[partCoreProps]
	if !ok {
		return false
	}
	xml := string(core)
	entry := "<" + element + ">" + escapeText(value) + "</" + element + ">"
	if lt := findElementStart(xml, 0, element); lt >= 0 {
		end := elementEnd(xml, lt)
		if end < 0 {
			return false
		}
		xml = xml[:lt] + entry + xml[end:]
	} else {
		i := strings.LastIndex(xml, "</cp:coreProperties>")
		if i < 0 {
			return false
		}
		xml = xml[:i] + entry + xml[i:]
	}
	d.setPart(partCoreProps, []byte(xml))
	return true
}

// Package payload defines the project-setup answers that drive BEP
// generation: the flat field record handed to the generation collaborator,
// the clash-session list, and the canonical topic catalogue that maps the
// structure of the standard BEP template.
//
// The JSON field names are a wire contract shared with the generation
// engine; renaming them breaks every deployed engine script.
package payload

import "strings"

// DefaultWatermarkText is applied whenever a watermark is requested with a
// blank text field.
const DefaultWatermarkText = "DRAFT"

// ClashSession is one clash-detection session row in the coordination plan.
type ClashSession struct {
	Name           string `json:"Name"`
	DisciplinePair string `json:"DisciplinePair"`
	Keep           bool   `json:"Keep"`
}

// Payload is the full set of answers for one project. String fields are
// never nil; blank means "not provided" and is skipped by the template
// filler.
type Payload struct {
	ProjectNumber      string `json:"ProjectNumber"`
	ProjectName        string `json:"ProjectName"`
	ProjectAddress     string `json:"ProjectAddress"`
	Client             string `json:"Client"`
	ProjectType        string `json:"ProjectType"`
	ContractType       string `json:"ContractType"`
	ProjectDescription string `json:"ProjectDescription"`
	BimLead            string `json:"BimLead"`

	CoordinationMeetingCadence string `json:"CoordinationMeetingCadence"`
	PackageMethod              string `json:"PackageMethod"`
	AutoPublishCadence         string `json:"AutoPublishCadence"`
	SharingFrequency           string `json:"SharingFrequency"`
	PackageNamingConvention    string `json:"PackageNamingConvention"`

	GeoCoordinateSystem         string `json:"GeoCoordinateSystem"`
	AcquireCoordinatesFromModel string `json:"AcquireCoordinatesFromModel"`

	RevitVersion            string `json:"RevitVersion"`
	AutoCadVersion          string `json:"AutoCadVersion"`
	Civil3DVersion          string `json:"Civil3DVersion"`
	DesktopConnectorVersion string `json:"DesktopConnectorVersion"`
	BluebeamVersion         string `json:"BluebeamVersion"`

	Sessions   []ClashSession `json:"Sessions"`
	StartFresh bool           `json:"StartFresh"`

	EnableWatermark bool   `json:"EnableWatermark"`
	WatermarkText   string `json:"WatermarkText"`
}

// New returns a Payload with the default clash sessions and watermark text.
func New() *Payload {
	return &Payload{
		Sessions:      DefaultSessions(),
		WatermarkText: DefaultWatermarkText,
	}
}

// EffectiveWatermarkText returns the watermark text with the blank fallback
// applied.
func (p *Payload) EffectiveWatermarkText() string {
	if strings.TrimSpace(p.WatermarkText) == "" {
		return DefaultWatermarkText
	}
	return p.WatermarkText
}

// DefaultSessions returns the clash-session rows a fresh coordination cycle
// starts from. Callers get a fresh slice and may mutate it freely.
func DefaultSessions() []ClashSession {
	return []ClashSession{
		{Name: "ARC vs STR", DisciplinePair: "Architecture / Structure", Keep: true},
		{Name: "ARC vs MEP", DisciplinePair: "Architecture / Services", Keep: true},
		{Name: "STR vs MEP", DisciplinePair: "Structure / Services", Keep: true},
		{Name: "MEP internal", DisciplinePair: "Mechanical / Electrical / Hydraulic", Keep: true},
		{Name: "ARC vs CIV", DisciplinePair: "Architecture / Civil", Keep: false},
		{Name: "ALL vs ALL", DisciplinePair: "Full federation", Keep: false},
	}
}

// RestoreMissingSessions appends any default session absent from p.Sessions
// (matched by name, case-insensitive) and reports how many were added. It
// never removes or reorders existing rows.
func (p *Payload) RestoreMissingSessions() int {
	have := make(map[string]bool, len(p.Sessions))
	for _, s := range p.Sessions {
		have[strings.ToLower(s.Name)] = true
	}
	added := 0
	for _, def := range DefaultSessions() {
		if !have[strings.ToLower(def.Name)] {
			p.Sessions = append(p.Sessions, def)
			added++
		}
	}
	return added
}

// KeptSessions returns the sessions marked to keep, in order.
func (p *Payload) KeptSessions() []ClashSession {
	var kept []ClashSession
	for _, s := range p.Sessions {
		if s.Keep {
			kept = append(kept, s)
		}
	}
	return kept
}

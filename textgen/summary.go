package textgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/wwpbim/bepgen/payload"
)

// Summary renders the input-summary markdown for a payload: the same
// field-by-field digest the generation engine emits, with placeholders
// for anything not filled in yet.
func Summary(p *payload.Payload) string {
	return summaryAt(p, time.Now())
}

func summaryAt(p *payload.Payload, now time.Time) string {
	name := p.ProjectName
	if name == "" {
		name = "[Project Name]"
	}
	method := p.PackageMethod
	if method == "" {
		method = "[Not Selected]"
	}

	lines := []string{
		"## BIM Execution Plan Input Summary - " + name,
		"Generated: " + now.Format("2006-01-02 15:04"),
		"",
		"### Project Information",
		"- Project Number: " + orNotSet(p.ProjectNumber),
		"- Project Name: " + name,
		"- Project Address: " + orNotSet(p.ProjectAddress),
		"- Project Owner/Client: " + orNotSet(p.Client),
		"- Project Type: " + orNotSet(p.ProjectType),
		"- Contract Type: " + orNotSet(p.ContractType),
		"- Project Description: " + orNotSet(p.ProjectDescription),
		"- BIM Lead: " + orNotSet(p.BimLead),
		"- Coordination Meeting Cadence: " + orNotSet(p.CoordinationMeetingCadence),
		"",
		"### ACC Collaboration Method",
		"- Primary Method: " + method,
		"- Auto-Publish Cadence: " + orNotSet(p.AutoPublishCadence),
		"- Package Sharing Timeline: " + orNotSet(p.SharingFrequency),
		"- Package Naming Convention: " + orNotSet(p.PackageNamingConvention),
		"",
		"### Geo-Referencing",
		"- Geocoordinate System: " + orNotSet(p.GeoCoordinateSystem),
		"- Coordinates Acquired From Model: " + orNotSet(p.AcquireCoordinatesFromModel),
		"",
		"### Approved Software Versions",
		"- Autodesk Revit: " + orNotSet(p.RevitVersion),
		"- Autodesk AutoCAD: " + orNotSet(p.AutoCadVersion),
		"- Autodesk Civil 3D: " + orNotSet(p.Civil3DVersion),
		"- Autodesk Desktop Connector: " + orNotSet(p.DesktopConnectorVersion),
		"- Bluebeam Revu: " + orNotSet(p.BluebeamVersion),
		"",
		sessionBlock(p.Sessions, p.StartFresh),
		"### Recommended Views for ACC Publishing",
		"- 3D_Coordination (local geometry only)",
		"- 3D_Coordination_Links (discipline links loaded)",
		"",
		"### Notes",
		"- This output is generated from your form and can be pasted into Notebook B / Notebook D / Appendix E sections.",
		"- Keep using discipline package naming patterns like '<Project>_Shared for <Purpose>'.",
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

func orNotSet(s string) string {
	if s == "" {
		return "[Not set]"
	}
	return s
}

func sessionBlock(sessions []payload.ClashSession, startFresh bool) string {
	if startFresh {
		return "### Clash Session Strategy\n" +
			"- Current cycle starts fresh: existing clash detection sessions are deleted from beginning.\n" +
			"- Regeneration allowed: default session templates can be re-created with one action in UI.\n"
	}

	var kept []payload.ClashSession
	for _, s := range sessions {
		if s.Keep {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "### Clash Session Strategy\n" +
			"- No sessions marked to keep.\n" +
			"- Use `Generate Back Missing Sessions` in UI to restore default sessions.\n"
	}

	lines := []string{"### Clash Session Strategy", "- Keep sessions:"}
	for _, s := range kept {
		name := s.Name
		if name == "" {
			name = "Unnamed"
		}
		pair := s.DisciplinePair
		if pair == "" {
			pair = "Unassigned"
		}
		lines = append(lines, fmt.Sprintf("  - %s (%s)", name, pair))
	}
	return strings.Join(lines, "\n") + "\n"
}

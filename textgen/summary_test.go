package textgen

import (
	"strings"
	"testing"
	"time"

	"github.com/wwpbim/bepgen/payload"
)

func TestSummaryPlaceholders(t *testing.T) {
	p := &payload.Payload{}
	got := summaryAt(p, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC))

	wantLines := []string{
		"## BIM Execution Plan Input Summary - [Project Name]",
		"Generated: 2026-01-15 09:30",
		"- Project Number: [Not set]",
		"- Primary Method: [Not Selected]",
		"- Autodesk Revit: [Not set]",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("summary missing %q\n%s", line, got)
		}
	}
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Error("summary should end with exactly one newline")
	}
}

func TestSummaryFilledFields(t *testing.T) {
	p := payload.New()
	p.ProjectName = "Riverside Transit Depot"
	p.ProjectNumber = "P-2041"
	p.PackageMethod = "Shared Packages"
	p.RevitVersion = "2026"

	got := Summary(p)
	for _, line := range []string{
		"## BIM Execution Plan Input Summary - Riverside Transit Depot",
		"- Project Number: P-2041",
		"- Primary Method: Shared Packages",
		"- Autodesk Revit: 2026",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("summary missing %q", line)
		}
	}
}

func TestSummarySessionBlocks(t *testing.T) {
	// Kept sessions are listed with their discipline pair.
	p := payload.New()
	got := Summary(p)
	if !strings.Contains(got, "- Keep sessions:") {
		t.Error("kept sessions block missing")
	}
	if !strings.Contains(got, "  - ARC vs STR (Architecture / Structure)") {
		t.Errorf("kept session line missing:\n%s", got)
	}
	if strings.Contains(got, "ARC vs CIV") {
		t.Error("dropped session listed")
	}

	// Start-fresh replaces the list.
	p.StartFresh = true
	got = Summary(p)
	if !strings.Contains(got, "Current cycle starts fresh") {
		t.Error("start-fresh block missing")
	}
	if strings.Contains(got, "- Keep sessions:") {
		t.Error("session list shown despite start-fresh")
	}

	// Nothing kept points at regeneration.
	p.StartFresh = false
	for i := range p.Sessions {
		p.Sessions[i].Keep = false
	}
	got = Summary(p)
	if !strings.Contains(got, "No sessions marked to keep.") {
		t.Error("empty-keep block missing")
	}
	if !strings.Contains(got, "Generate Back Missing Sessions") {
		t.Error("restore hint missing")
	}
}

func TestSummarySessionFallbackNames(t *testing.T) {
	p := &payload.Payload{Sessions: []payload.ClashSession{{Keep: true}}}
	got := Summary(p)
	if !strings.Contains(got, "  - Unnamed (Unassigned)") {
		t.Errorf("fallback session labels missing:\n%s", got)
	}
}

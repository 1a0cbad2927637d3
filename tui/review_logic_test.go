package tui

import (
	"strings"
	"testing"

	"github.com/wwpbim/bepgen/bep"
	"github.com/wwpbim/bepgen/fill"
	"github.com/wwpbim/bepgen/preset"
)

// ============================================================
// CanFill
// ============================================================

func TestCanFill(t *testing.T) {
	t.Parallel()
	sess := NewSession(preset.Default(), "")
	if msg := CanFill(sess); msg == "" {
		t.Error("expected a validation message without a template")
	}

	sess.Template = "bep.docx"
	if msg := CanFill(sess); msg != "" {
		t.Errorf("unexpected validation message: %q", msg)
	}

	sess.Template = "   "
	if msg := CanFill(sess); msg == "" {
		t.Error("whitespace template accepted")
	}
}

// ============================================================
// FormatFillResult / FormatGenerateResult
// ============================================================

func TestFormatFillResult(t *testing.T) {
	t.Parallel()
	outcome := bep.FillOutcome{
		OutputPath: "/out/Depot_BEP_FILLED_20260301_143000.docx",
		Result:     fill.Result{Fields: 4, Fixes: 1, Removed: 3, Watermarked: true},
	}

	lines := FormatFillResult(outcome)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, outcome.OutputPath) {
		t.Errorf("output path missing: %q", joined)
	}
	if !strings.Contains(joined, "9 change(s)") {
		t.Errorf("change total missing: %q", joined)
	}
	if !strings.Contains(joined, "Watermark applied") {
		t.Errorf("watermark line missing: %q", joined)
	}

	lines = FormatFillResult(bep.FillOutcome{OutputPath: "x.docx"})
	if strings.Contains(strings.Join(lines, "\n"), "Watermark") {
		t.Error("watermark line shown without watermark")
	}
}

func TestFormatGenerateResult(t *testing.T) {
	t.Parallel()
	lines := FormatGenerateResult(bep.GenerateOutcome{OutputPath: "/out/Depot_BEP.md"})
	if len(lines) != 1 || !strings.Contains(lines[0], "/out/Depot_BEP.md") {
		t.Errorf("lines = %v", lines)
	}

	lines = FormatGenerateResult(bep.GenerateOutcome{Text: "engine exploded\n", FromError: true})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "engine exploded") {
		t.Errorf("engine text missing: %q", joined)
	}
	if strings.Contains(joined, "Saved") {
		t.Errorf("failure rendered as a save: %q", joined)
	}
}

// ============================================================
// SettingsLines
// ============================================================

func TestSettingsLines(t *testing.T) {
	t.Parallel()
	sess := NewSession(preset.Default(), "bep.docx")
	sess.Payload.EnableWatermark = true
	sess.Selection.Drop("Phasing")
	sess.Selection.Drop("Levels")
	sess.LastOutput = "/out/last.docx"

	joined := strings.Join(SettingsLines(sess), "\n")
	for _, want := range []string{"bep.docx", `on ("DRAFT")`, "2 section(s)", "4 kept", "/out/last.docx"} {
		if !strings.Contains(joined, want) {
			t.Errorf("settings missing %q:\n%s", want, joined)
		}
	}

	sess.Payload.EnableWatermark = false
	sess.LastOutput = ""
	joined = strings.Join(SettingsLines(sess), "\n")
	if !strings.Contains(joined, "Watermark: off") {
		t.Errorf("watermark off missing:\n%s", joined)
	}
	if strings.Contains(joined, "Last output") {
		t.Errorf("empty last output rendered:\n%s", joined)
	}
}

// ============================================================
// Session round-trip
// ============================================================

func TestSessionStateRoundTrip(t *testing.T) {
	t.Parallel()
	st := preset.Default()
	st.Payload.ProjectName = "Depot"
	st.AutoOpen = false
	st.TemplatePath = "bep.docx"
	st.LastOutputPath = "/out/x.docx"
	st.RemovedTopics = []string{"Phasing", "Grids"}

	sess := NewSession(st, "fallback.docx")
	if sess.Template != "bep.docx" {
		t.Errorf("saved template overridden: %q", sess.Template)
	}
	if sess.Selection.IsKept("Phasing") || sess.Selection.IsKept("Grids") {
		t.Error("removed topics not applied to selection")
	}
	if sess.Selection.IsKept("Worksets") != true {
		t.Error("unrelated topic dropped")
	}

	back := sess.State()
	if back.Payload.ProjectName != "Depot" || back.AutoOpen || back.TemplatePath != "bep.docx" {
		t.Errorf("state round-trip = %+v", back)
	}
	if len(back.RemovedTopics) != 2 {
		t.Errorf("RemovedTopics = %v", back.RemovedTopics)
	}
}

func TestNewSessionFallsBackToConfiguredTemplate(t *testing.T) {
	t.Parallel()
	sess := NewSession(preset.Default(), "configured.docx")
	if sess.Template != "configured.docx" {
		t.Errorf("Template = %q", sess.Template)
	}
}

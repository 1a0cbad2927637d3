package tui

import (
	"fmt"
	"strings"

	"github.com/wwpbim/bepgen/bep"
)

// CanFill validates the session before a fill run. Returns an empty
// string when the run may proceed, otherwise the message to show.
func CanFill(sess *Session) string {
	if strings.TrimSpace(sess.Template) == "" {
		return "set a template path on the Project screen first"
	}
	return ""
}

// FormatFillResult renders the one-screen result block for a finished
// fill.
func FormatFillResult(outcome bep.FillOutcome) []string {
	lines := []string{
		"Filled: " + outcome.OutputPath,
		fmt.Sprintf("%d change(s): %d field(s), %d fix(es), %d block(s) removed",
			outcome.Changes(), outcome.Fields, outcome.Fixes, outcome.Removed),
	}
	if outcome.Watermarked {
		lines = append(lines, "Watermark applied")
	}
	return lines
}

// FormatGenerateResult renders the result block for a finished
// generation. Engine-failure text is labeled as such; it never looks
// like a saved document.
func FormatGenerateResult(outcome bep.GenerateOutcome) []string {
	if outcome.FromError {
		return []string{"Generation engine reported:", strings.TrimSpace(outcome.Text)}
	}
	return []string{"Saved: " + outcome.OutputPath}
}

// SettingsLines summarizes the run preferences shown above the actions.
func SettingsLines(sess *Session) []string {
	watermark := "off"
	if sess.Payload.EnableWatermark {
		watermark = fmt.Sprintf("on (%q)", sess.Payload.EffectiveWatermarkText())
	}
	autoOpen := "off"
	if sess.AutoOpen {
		autoOpen = "on"
	}
	lines := []string{
		"Template:  " + valueOrUnset(sess.Template),
		"Watermark: " + watermark,
		"Auto-open: " + autoOpen,
		fmt.Sprintf("Removing:  %d section(s)", len(sess.Selection.Removed())),
		fmt.Sprintf("Sessions:  %d kept", len(sess.Payload.KeptSessions())),
	}
	if sess.LastOutput != "" {
		lines = append(lines, "Last output: "+sess.LastOutput)
	}
	return lines
}

func valueOrUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not set)"
	}
	return s
}

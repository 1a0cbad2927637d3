package bep

import (
	"fmt"
	"time"

	"github.com/wwpbim/bepgen/namesafe"
)

// Output names carry a second-resolution timestamp so repeated runs never
// overwrite each other.
const timestampLayout = "20060102_150405"

// DocxName returns the file name for a filled document.
func DocxName(project string, at time.Time) string {
	return fmt.Sprintf("%s_BEP_FILLED_%s.docx", namesafe.FileStem(project), at.Format(timestampLayout))
}

// MarkdownName returns the file name for generated prose.
func MarkdownName(project string, at time.Time) string {
	return fmt.Sprintf("%s_BEP_%s.md", namesafe.FileStem(project), at.Format(timestampLayout))
}

// Package namesafe guards the file names bepgen derives from user input:
// preset identifiers, project-name file stems, and path joins under a
// managed directory.
package namesafe

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxNameLen caps preset identifiers.
const MaxNameLen = 64

// ErrTraversal is returned when a user-supplied name escapes its base.
var ErrTraversal = errors.New("namesafe: path escapes its base directory")

// ValidateName checks that s is usable as a preset identifier: non-empty,
// at most MaxNameLen bytes, letters, digits, underscore, hyphen.
func ValidateName(s string) error {
	if s == "" {
		return fmt.Errorf("namesafe: name must not be empty")
	}
	if len(s) > MaxNameLen {
		return fmt.Errorf("namesafe: name too long (max %d)", MaxNameLen)
	}
	for _, r := range s {
		if !isNameChar(r) {
			return fmt.Errorf("namesafe: invalid character %q in name", r)
		}
	}
	return nil
}

func isNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// FileStem converts a free-form project name into a file name stem. Every
// run of characters outside [A-Za-z0-9_-] becomes one underscore; leading
// and trailing runs are dropped. A name with no usable characters yields
// "Project".
func FileStem(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range name {
		if !isNameChar(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Project"
	}
	return b.String()
}

// Join joins base and name and verifies the result stays under base.
// Returns the cleaned path or ErrTraversal.
func Join(base, name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrTraversal
	}
	cleaned := filepath.Join(base, filepath.Clean("/"+name))
	if !strings.HasPrefix(cleaned, filepath.Clean(base)+string(filepath.Separator)) &&
		cleaned != filepath.Clean(base) {
		return "", ErrTraversal
	}
	return cleaned, nil
}

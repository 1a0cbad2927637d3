// Package preview renders generated BEP prose for reading: Markdown to
// sanitized HTML, and best-effort opening of finished artifacts with the
// platform's default application.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// policy is built once; bluemonday policies are safe for concurrent use.
var policy = bluemonday.UGCPolicy()

const pageShell = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{font-family:sans-serif;max-width:48em;margin:2em auto;padding:0 1em;line-height:1.5}</style>
</head>
<body>
%s</body>
</html>
`

// Render converts Markdown to sanitized HTML. Generated prose may come from
// an external engine or an LLM, so the output is always sanitized.
func Render(md []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("preview: render markdown: %w", err)
	}
	return policy.SanitizeBytes(buf.Bytes()), nil
}

// WriteHTML renders the Markdown file at mdPath into a sibling .html page
// and returns the page's path.
func WriteHTML(mdPath string) (string, error) {
	md, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("preview: read %s: %w", mdPath, err)
	}
	body, err := Render(md)
	if err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath))
	page := fmt.Sprintf(pageShell, html.EscapeString(stem), body)

	out := strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".html"
	if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("preview: write %s: %w", out, err)
	}
	return out, nil
}

// Open asks the platform's default application to open path. The viewer is
// started detached; Open does not wait for it to exit.
func Open(path string) error {
	name, args := openArgs(runtime.GOOS, path)
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("preview: opener %s not found: %w", name, err)
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("preview: open %s: %w", path, err)
	}
	// Reap the opener in the background so it never lingers as a zombie.
	go cmd.Wait()
	return nil
}

func openArgs(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

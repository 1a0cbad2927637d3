package textgen

import (
	"context"

	"github.com/wwpbim/bepgen/payload"
)

// Mock renders the plain input summary without calling anything external.
// Useful for tests and for previewing form state offline.
type Mock struct{}

func (Mock) Generate(_ context.Context, p *payload.Payload) (string, error) {
	return Summary(p), nil
}

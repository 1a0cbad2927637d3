// Package textgen turns a project payload into narrative BEP prose. The
// default backend shells out to the bundled generation engine with the
// payload serialized on stdin; an OpenAI-backed generator and an offline
// mock cover hosted and test setups.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wwpbim/bepgen/payload"
)

// Generator produces prose for one payload.
type Generator interface {
	Generate(ctx context.Context, p *payload.Payload) (string, error)
}

// Provider names accepted by New.
const (
	ProviderEngine = "engine"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Settings selects and configures a generation backend.
type Settings struct {
	Provider string
	// Engine backend.
	Command string
	Args    []string
	Timeout time.Duration
	// OpenAI backend.
	Model   string
	APIKey  string
	BaseURL string
}

var ErrUnknownProvider = errors.New("textgen: unknown provider")

// New builds the generator named by cfg.Provider. An empty provider means
// the local engine.
func New(cfg Settings) (Generator, error) {
	switch cfg.Provider {
	case "", ProviderEngine:
		return NewEngine(cfg.Command, cfg.Args, cfg.Timeout)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderMock:
		return Mock{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, cfg.Provider)
	}
}

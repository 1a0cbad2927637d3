// Package bep is the application service: the place where the template
// filler, the generation collaborator, presets, and the run history meet.
// Every surface (CLI, TUI, MCP, watch loop) drives these operations.
package bep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wwpbim/bepgen/config"
	"github.com/wwpbim/bepgen/fill"
	"github.com/wwpbim/bepgen/history"
	"github.com/wwpbim/bepgen/payload"
	"github.com/wwpbim/bepgen/preset"
	"github.com/wwpbim/bepgen/textgen"
)

// ErrNoTemplate is returned by Fill when neither the request nor the
// configuration names a template.
var ErrNoTemplate = errors.New("bep: no template path configured")

// Service wires the operations shared by all surfaces.
type Service struct {
	cfg     *config.Config
	gen     textgen.Generator
	logger  *slog.Logger
	presets *preset.Store
	hist    *history.Store
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithPresets lets the service remember the last output and template path.
func WithPresets(st *preset.Store) Option { return func(s *Service) { s.presets = st } }

// WithHistory records every run in the history store.
func WithHistory(h *history.Store) Option { return func(s *Service) { s.hist = h } }

// WithClock overrides the timestamp source used for output names.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New creates the service. A nil cfg falls back to config.Default(), a nil
// logger to slog.Default(). Presets and history are optional bookkeeping:
// without them the operations still run, they just leave no trail.
func New(cfg *config.Config, gen textgen.Generator, logger *slog.Logger, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{cfg: cfg, gen: gen, logger: logger, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FillRequest names a template and the answers to fill it with.
type FillRequest struct {
	// TemplatePath overrides the configured template when set.
	TemplatePath string
	Payload      *payload.Payload
	RemoveTopics []string
}

// FillOutcome reports where the filled document went and what changed.
type FillOutcome struct {
	OutputPath string
	fill.Result
}

// Fill copies the template to a freshly named output file with fields
// filled, deselected sections removed, and the watermark applied when
// requested. The run is recorded in the history store; bookkeeping
// failures are logged, never propagated.
func (s *Service) Fill(ctx context.Context, req FillRequest) (FillOutcome, error) {
	p := req.Payload
	if p == nil {
		p = payload.New()
	}
	tpl := req.TemplatePath
	if tpl == "" {
		tpl = s.cfg.Template
	}
	if tpl == "" {
		return FillOutcome{}, ErrNoTemplate
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return FillOutcome{}, fmt.Errorf("bep: create output dir: %w", err)
	}
	out := filepath.Join(s.cfg.OutputDir, DocxName(p.ProjectName, s.now()))

	res, err := fill.FillTemplate(tpl, out, p, req.RemoveTopics)
	run := history.Run{
		Kind:     history.KindFill,
		Project:  p.ProjectName,
		Template: tpl,
		Output:   out,
		Changes:  res.Changes(),
		Removed:  res.Removed,
		Status:   history.StatusOK,
	}
	if err != nil {
		run.Status = history.StatusError
		run.Detail = err.Error()
	}
	s.record(ctx, run)
	if err != nil {
		return FillOutcome{}, err
	}

	s.rememberOutput(out, tpl)
	s.logger.Info("template filled", "template", tpl, "output", out, "changes", res.Changes())
	return FillOutcome{OutputPath: out, Result: res}, nil
}

// GenerateOutcome carries generated prose. When the collaborator exits
// non-zero its stderr becomes the visible text and FromError is set;
// nothing is written to disk in that case.
type GenerateOutcome struct {
	Text       string
	OutputPath string
	FromError  bool
}

// Generate asks the collaborator for prose and writes it next to the
// filled documents. A non-zero engine exit is not an error of this call:
// the engine's stderr is returned as the text to show.
func (s *Service) Generate(ctx context.Context, p *payload.Payload) (GenerateOutcome, error) {
	if p == nil {
		p = payload.New()
	}

	text, err := s.gen.Generate(ctx, p)
	if err != nil {
		var engErr *textgen.EngineError
		if errors.As(err, &engErr) && engErr.Stderr != "" {
			s.record(ctx, history.Run{
				Kind:    history.KindGenerate,
				Project: p.ProjectName,
				Status:  history.StatusError,
				Detail:  engErr.Stderr,
			})
			s.logger.Warn("generation engine failed, surfacing stderr", "error", err)
			return GenerateOutcome{Text: engErr.Stderr, FromError: true}, nil
		}
		s.record(ctx, history.Run{
			Kind:    history.KindGenerate,
			Project: p.ProjectName,
			Status:  history.StatusError,
			Detail:  err.Error(),
		})
		return GenerateOutcome{}, err
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return GenerateOutcome{}, fmt.Errorf("bep: create output dir: %w", err)
	}
	out := filepath.Join(s.cfg.OutputDir, MarkdownName(p.ProjectName, s.now()))
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		wrapped := fmt.Errorf("bep: write prose: %w", err)
		s.record(ctx, history.Run{
			Kind:    history.KindGenerate,
			Project: p.ProjectName,
			Status:  history.StatusError,
			Detail:  wrapped.Error(),
		})
		return GenerateOutcome{}, wrapped
	}

	s.record(ctx, history.Run{
		Kind:    history.KindGenerate,
		Project: p.ProjectName,
		Output:  out,
		Status:  history.StatusOK,
	})
	s.rememberOutput(out, "")
	s.logger.Info("prose generated", "output", out, "bytes", len(text))
	return GenerateOutcome{Text: text, OutputPath: out}, nil
}

// RecentRuns lists the newest history entries; without a history store it
// lists nothing.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]history.Run, error) {
	if s.hist == nil {
		return nil, nil
	}
	return s.hist.Recent(ctx, limit)
}

// record stores a run, best-effort.
func (s *Service) record(ctx context.Context, r history.Run) {
	if s.hist == nil {
		return
	}
	if _, err := s.hist.Record(ctx, r); err != nil {
		s.logger.Warn("history write failed", "kind", r.Kind, "error", err)
	}
}

// rememberOutput updates the persisted last-output bookkeeping, best-effort.
func (s *Service) rememberOutput(out, tpl string) {
	if s.presets == nil {
		return
	}
	st := s.presets.Load()
	st.LastOutputPath = out
	if tpl != "" {
		st.TemplatePath = tpl
	}
	if err := s.presets.Save(st); err != nil {
		s.logger.Warn("state save failed", "error", err)
	}
}

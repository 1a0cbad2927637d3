// Command bepgen fills BIM Execution Plan templates and generates the
// accompanying briefing prose.
//
// Usage:
//
//	bepgen                          # interactive form
//	bepgen fill -payload p.json     # fill the template from a payload file
//	bepgen watch -template t.docx   # refill on every template save
//	bepgen mcp -http -addr :8085    # expose fill/generate/topics over MCP
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/wwpbim/bepgen/bep"
	"github.com/wwpbim/bepgen/config"
	"github.com/wwpbim/bepgen/dbopen"
	"github.com/wwpbim/bepgen/history"
	"github.com/wwpbim/bepgen/payload"
	"github.com/wwpbim/bepgen/preset"
	"github.com/wwpbim/bepgen/preview"
	"github.com/wwpbim/bepgen/textgen"
	"github.com/wwpbim/bepgen/tui"
	"github.com/wwpbim/bepgen/watchfill"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		// Bare invocation opens the form, the everyday entry point.
		cmdForm(nil)
		return
	}

	switch os.Args[1] {
	case "form":
		cmdForm(os.Args[2:])
	case "fill":
		cmdFill(os.Args[2:])
	case "generate":
		cmdGenerate(os.Args[2:])
	case "topics":
		cmdTopics(os.Args[2:])
	case "history":
		cmdHistory(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Println("bepgen " + version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `bepgen fills BIM Execution Plan templates and generates briefing prose.

usage:
  bepgen [form]                  interactive form (default)
  bepgen fill                    fill the template with the saved or given payload
  bepgen generate                produce briefing prose for the payload
  bepgen topics                  list document topics and the saved selection
  bepgen history [-limit n]      show recent runs
  bepgen watch                   refill the template on every save
  bepgen mcp [-http] [-addr a]   serve fill/generate/topics as MCP tools
  bepgen version

common flags:
  -config <file>    bepgen.yaml (default: built-in defaults)
  -payload <file>   payload JSON (default: saved form state)
  -template <file>  template path (default: saved state, then config)

Saved form state supplies the payload, template path, and topic selection
whenever the flags are omitted.
`)
}

// ---------- shared wiring ----------

func loadConfig(path string) *config.Config {
	if path == "" {
		path = os.Getenv("BEPGEN_CONFIG")
	}
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func logLevel(cfg *config.Config) slog.Level {
	level := cfg.LogLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg)}))
	slog.SetDefault(logger)
	return logger
}

// fileLogger writes to data_dir/bepgen.log. The alternate screen owns the
// terminal while the form runs, so stderr is not available for logs.
func fileLogger(cfg *config.Config) *slog.Logger {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err == nil {
		path := filepath.Join(cfg.DataDir, "bepgen.log")
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logLevel(cfg)}))
			slog.SetDefault(logger)
			return logger
		}
	}
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func buildGenerator(cfg *config.Config, logger *slog.Logger) textgen.Generator {
	gc := cfg.Generator
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && gc.APIKey == "" {
		gc.APIKey = key
	}
	gen, err := textgen.New(textgen.Settings{
		Provider: gc.Provider,
		Command:  gc.Command,
		Args:     gc.Args,
		Timeout:  gc.Timeout,
		Model:    gc.Model,
		APIKey:   gc.APIKey,
		BaseURL:  gc.BaseURL,
	})
	if err != nil {
		// A missing engine binary must not take the form down with it.
		logger.Warn("generator unavailable, falling back to built-in summary", "error", err)
		return textgen.Mock{}
	}
	return gen
}

func openHistory(cfg *config.Config, logger *slog.Logger) (*history.Store, func()) {
	db, err := dbopen.Open(cfg.HistoryPath(), dbopen.WithMkdirAll(), dbopen.WithSchema(history.Schema))
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return nil, func() {}
	}
	return history.NewStore(db), func() { db.Close() }
}

func newService(cfg *config.Config, logger *slog.Logger) (*bep.Service, *preset.Store, func()) {
	presets := preset.NewStore(cfg.DataDir, logger)
	hist, closeHist := openHistory(cfg, logger)
	opts := []bep.Option{bep.WithPresets(presets)}
	if hist != nil {
		opts = append(opts, bep.WithHistory(hist))
	}
	svc := bep.New(cfg, buildGenerator(cfg, logger), logger, opts...)
	return svc, presets, closeHist
}

// loadPayload reads a payload JSON file, or falls back to the saved form
// state when no path is given. Fields absent from the file keep their
// defaults, including the clash session list.
func loadPayload(path string, st preset.State) (*payload.Payload, error) {
	if path == "" {
		p := st.Payload
		return &p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := payload.New()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse payload %s: %w", path, err)
	}
	return p, nil
}

func splitTopics(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ---------- subcommands ----------

func cmdForm(args []string) {
	fs := flag.NewFlagSet("form", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	template := fs.String("template", "", "template path override")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := fileLogger(cfg)
	svc, presets, closeHist := newService(cfg, logger)
	defer closeHist()

	tpl := *template
	if tpl == "" {
		tpl = cfg.Template
	}

	if err := tui.Run(tui.Options{Service: svc, Presets: presets, Template: tpl, Logger: logger}); err != nil {
		fmt.Fprintf(os.Stderr, "form: %v\n", err)
		os.Exit(1)
	}
}

func cmdFill(args []string) {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	payloadPath := fs.String("payload", "", "payload JSON file")
	template := fs.String("template", "", "template path override")
	remove := fs.String("remove", "", "comma-separated topic names to remove")
	watermark := fs.Bool("watermark", false, "stamp the watermark even when the payload does not ask for it")
	open := fs.Bool("open", false, "open the filled document even when auto-open is off")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := newLogger(cfg)
	svc, presets, closeHist := newService(cfg, logger)
	defer closeHist()

	st := presets.Load()
	p, err := loadPayload(*payloadPath, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fill: %v\n", err)
		os.Exit(1)
	}
	if *watermark {
		p.EnableWatermark = true
	}

	topics := st.RemovedTopics
	if *remove != "" {
		topics = splitTopics(*remove)
	}
	tpl := *template
	if tpl == "" {
		tpl = st.TemplatePath
	}

	ctx, cancel := signalContext()
	defer cancel()

	out, err := svc.Fill(ctx, bep.FillRequest{TemplatePath: tpl, Payload: p, RemoveTopics: topics})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fill: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("filled: %s\n", out.OutputPath)
	fmt.Printf("  %d change(s): %d field(s), %d fix(es), %d block(s) removed\n",
		out.Changes(), out.Fields, out.Fixes, out.Removed)
	if out.Watermarked {
		fmt.Println("  watermark applied")
	}

	if *open || st.AutoOpen {
		if err := preview.Open(out.OutputPath); err != nil {
			logger.Warn("open document", "path", out.OutputPath, "error", err)
		}
	}
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	payloadPath := fs.String("payload", "", "payload JSON file")
	open := fs.Bool("open", false, "open the result even when auto-open is off")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := newLogger(cfg)
	svc, presets, closeHist := newService(cfg, logger)
	defer closeHist()

	st := presets.Load()
	p, err := loadPayload(*payloadPath, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	out, err := svc.Generate(ctx, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}
	if out.FromError {
		// The collaborator ran and reported a problem; its stderr is the
		// visible result. Nothing was written.
		fmt.Fprintln(os.Stderr, strings.TrimSpace(out.Text))
		os.Exit(1)
	}

	fmt.Printf("saved: %s\n", out.OutputPath)

	if *open || st.AutoOpen {
		htmlPath, err := preview.WriteHTML(out.OutputPath)
		if err != nil {
			logger.Warn("render preview", "path", out.OutputPath, "error", err)
			return
		}
		if err := preview.Open(htmlPath); err != nil {
			logger.Warn("open preview", "path", htmlPath, "error", err)
		}
	}
}

func cmdTopics(args []string) {
	fs := flag.NewFlagSet("topics", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := newLogger(cfg)

	st := preset.NewStore(cfg.DataDir, logger).Load()
	sel := payload.NewTopicSelection()
	sel.SetRemoved(st.RemovedTopics)

	for _, g := range payload.Groups() {
		fmt.Println(g.Name)
		for _, name := range payload.GroupTopics(g) {
			mark := "x"
			if !sel.IsKept(name) {
				mark = " "
			}
			fmt.Printf("  [%s] %s\n", mark, name)
		}
	}
	fmt.Printf("\n%d topic(s), %d removed\n", len(payload.Topics()), len(sel.Removed()))
}

func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	limit := fs.Int("limit", 20, "max runs to show")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	newLogger(cfg)

	db, err := dbopen.Open(cfg.HistoryPath(), dbopen.WithMkdirAll(), dbopen.WithSchema(history.Schema))
	if err != nil {
		fmt.Fprintf(os.Stderr, "history db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	runs, err := history.NewStore(db).Recent(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %-8s  %-5s  %-24s  %3d change(s)  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Kind, r.Status, r.Project, r.Changes, r.Output)
		if r.Status == history.StatusError && r.Detail != "" {
			fmt.Printf("    %s\n", r.Detail)
		}
	}
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	payloadPath := fs.String("payload", "", "payload JSON file")
	template := fs.String("template", "", "template path override")
	remove := fs.String("remove", "", "comma-separated topic names to remove")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := newLogger(cfg)
	svc, presets, closeHist := newService(cfg, logger)
	defer closeHist()

	st := presets.Load()
	p, err := loadPayload(*payloadPath, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
	topics := st.RemovedTopics
	if *remove != "" {
		topics = splitTopics(*remove)
	}
	tpl := *template
	if tpl == "" {
		tpl = st.TemplatePath
	}
	if tpl == "" {
		tpl = cfg.Template
	}
	if tpl == "" {
		fmt.Fprintln(os.Stderr, "watch: no template configured")
		os.Exit(1)
	}

	w, err := watchfill.New(tpl, watchfill.Options{
		Debounce: cfg.Watch.Debounce,
		Ignore:   cfg.Watch.Ignore,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	ctx, cancel := signalContext()
	defer cancel()

	req := bep.FillRequest{TemplatePath: tpl, Payload: p, RemoveTopics: topics}
	refill := func() error {
		out, err := svc.Fill(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s  %d change(s)\n", time.Now().Format("15:04:05"), out.OutputPath, out.Changes())
		return nil
	}

	// Fill once up front so the first result exists before the first save.
	if err := refill(); err != nil {
		logger.Warn("initial fill failed", "error", err)
	}

	w.OnChange(ctx, refill)

	s := w.Stats()
	fmt.Fprintf(os.Stderr, "watched %s: %d run(s), %d error(s)\n", w.Template(), s.Runs, s.Errors)
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bepgen.yaml")
	serveHTTP := fs.Bool("http", false, "serve over HTTP instead of stdio")
	addr := fs.String("addr", "", "HTTP listen address (default from config)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := newLogger(cfg)
	svc, _, closeHist := newService(cfg, logger)
	defer closeHist()

	mcpSrv := mcp.NewServer(&mcp.Implementation{Name: "bepgen", Version: version}, nil)
	svc.RegisterMCP(mcpSrv)

	ctx, cancel := signalContext()
	defer cancel()

	if !*serveHTTP {
		// Stdout carries the JSON-RPC stream; logs are already on stderr.
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			logger.Error("mcp: fatal", "error", err)
			os.Exit(1)
		}
		return
	}

	listen := *addr
	if listen == "" {
		listen = cfg.HTTP.Addr
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpSrv }, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok", "version": version})
	})
	r.Handle("/mcp", handler)

	srv := &http.Server{
		Addr:              listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("mcp server starting", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("mcp server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("mcp server stopped")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

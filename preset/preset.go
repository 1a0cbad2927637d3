// Package preset persists form state between runs: the last payload, output
// preferences, and a directory of named presets. The last-state record is
// best effort; a missing or corrupt file yields defaults so a broken state
// file can never lock the user out of the form.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wwpbim/bepgen/namesafe"
	"github.com/wwpbim/bepgen/payload"
)

const (
	stateFile  = "state.json"
	presetsDir = "presets"
	presetExt  = ".json"
)

// ErrNotFound is returned when a named preset does not exist.
var ErrNotFound = errors.New("preset: no such preset")

// State is one persisted form snapshot.
type State struct {
	Payload        payload.Payload `json:"payload"`
	AutoOpen       bool            `json:"auto_open"`
	TemplatePath   string          `json:"template_path"`
	LastOutputPath string          `json:"last_output_path"`
	RemovedTopics  []string        `json:"removed_topics"`
}

// Default returns the state a first run starts from.
func Default() State {
	return State{Payload: *payload.New(), AutoOpen: true}
}

// Store reads and writes state records under a single directory:
// dir/state.json for the last form state, dir/presets/<name>.json for
// named presets.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir. A nil logger falls back to
// slog.Default().
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, stateFile)
}

func (s *Store) presetPath(name string) string {
	return filepath.Join(s.dir, presetsDir, name+presetExt)
}

// Load returns the last saved state, or Default() when the state file is
// missing or unreadable. Load never fails; failures are logged at debug
// level only.
func (s *Store) Load() State {
	raw, err := os.ReadFile(s.statePath())
	if err != nil {
		s.logger.Debug("no saved state, using defaults", "path", s.statePath(), "error", err)
		return Default()
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Debug("state file unreadable, using defaults", "path", s.statePath(), "error", err)
		return Default()
	}
	return st
}

// Save writes st as the last state, creating the store directory on demand.
func (s *Store) Save(st State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("preset: create state dir: %w", err)
	}
	return writeRecord(s.statePath(), st)
}

// SavePreset stores st under a name for later recall.
func (s *Store) SavePreset(name string, st State) error {
	if err := namesafe.ValidateName(name); err != nil {
		return fmt.Errorf("preset: invalid name: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, presetsDir), 0o755); err != nil {
		return fmt.Errorf("preset: create presets dir: %w", err)
	}
	return writeRecord(s.presetPath(name), st)
}

// LoadPreset returns the named preset. Unlike Load, a missing or corrupt
// preset is an error: the caller asked for it by name.
func (s *Store) LoadPreset(name string) (State, error) {
	if err := namesafe.ValidateName(name); err != nil {
		return State{}, fmt.Errorf("preset: invalid name: %w", err)
	}
	raw, err := os.ReadFile(s.presetPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, fmt.Errorf("preset: %q: %w", name, ErrNotFound)
		}
		return State{}, fmt.Errorf("preset: read %q: %w", name, err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("preset: decode %q: %w", name, err)
	}
	return st, nil
}

// ListPresets returns the stored preset names, sorted. A store with no
// presets directory yet lists as empty.
func (s *Store) ListPresets() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, presetsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("preset: list: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), presetExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), presetExt))
	}
	sort.Strings(names)
	return names, nil
}

// DeletePreset removes the named preset.
func (s *Store) DeletePreset(name string) error {
	if err := namesafe.ValidateName(name); err != nil {
		return fmt.Errorf("preset: invalid name: %w", err)
	}
	if err := os.Remove(s.presetPath(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("preset: %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("preset: delete %q: %w", name, err)
	}
	return nil
}

func writeRecord(path string, st State) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("preset: encode state: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("preset: write state: %w", err)
	}
	return nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/input"
	"github.com/wricardo/mcp-training/marsrobots/game/service"
)

var (
	ErrPresetNotFound = fmt.Errorf("%w", service.ErrPresetNotFound)
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Preset file extensions in lookup order
var presetExtensions = []string{".yaml", ".yml", ".txt"}

// Manager handles scenario preset loading and caching
type Manager struct {
	presetDir     string
	defaultName   string
	defaultPreset *engine.Scenario
	presets       map[string]*engine.Scenario
	logger        *zap.Logger
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(presetDir string, logger *zap.Logger) (*Manager, error) {
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		presetDir:   presetDir,
		defaultName: "sample",
		presets:     make(map[string]*engine.Scenario),
		logger:    logger.Named("config"),
	}

	m.loadDefaultPreset()
	return m, nil
}

// LoadPreset loads a preset by name. The name may carry its file extension.
func (m *Manager) LoadPreset(name string) (*engine.Scenario, error) {
	name = presetID(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, ErrPresetNotFound
	}

	m.mu.RLock()
	if scenario, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return scenario, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if scenario, exists := m.presets[name]; exists {
		return scenario, nil
	}

	scenario, err := m.readPreset(name)
	if err != nil {
		return nil, err
	}

	m.presets[name] = scenario
	return scenario, nil
}

// readPreset finds and parses the preset file for name
func (m *Manager) readPreset(name string) (*engine.Scenario, error) {
	for _, ext := range presetExtensions {
		path := filepath.Join(m.presetDir, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read preset file: %w", err)
		}

		scenario, err := decodePreset(name, ext, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPreset, filepath.Base(path), err)
		}
		return scenario, nil
	}
	return nil, ErrPresetNotFound
}

func decodePreset(name, ext string, data []byte) (*engine.Scenario, error) {
	if ext == ".txt" {
		world, err := input.ParseString(string(data))
		if err != nil {
			return nil, err
		}
		if len(world.Robots) != len(world.Instructions) {
			return nil, fmt.Errorf("%w: %d robots, %d instruction sets",
				engine.ErrRobotCountMismatch, len(world.Robots), len(world.Instructions))
		}
		return engine.ScenarioFromWorld(name, "", *world), nil
	}
	return engine.DecodeScenario(data)
}

// ListPresets returns information about all available presets
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	var presets []*service.PresetInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}

		name := presetID(entry.Name())
		if seen[name] {
			continue
		}

		scenario, err := m.LoadPreset(name)
		if err != nil {
			m.logger.Warn("Skipping invalid preset",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		seen[name] = true

		presets = append(presets, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    name,
			Name:        scenario.Name,
			Description: scenario.Description,
			Width:       scenario.Width,
			Height:      scenario.Height,
			RobotCount:  len(scenario.Robots),
		})
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].PresetID < presets[j].PresetID
	})

	return presets, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by name. The choice survives cache
// refreshes and file changes.
func (m *Manager) SetDefault(name string) error {
	scenario, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = presetID(name)
	m.defaultPreset = scenario
	return nil
}

// RefreshCache drops all cached presets and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.presets = make(map[string]*engine.Scenario)
	m.mu.Unlock()

	m.loadDefaultPreset()
}

// Invalidate drops one preset from the cache
func (m *Manager) Invalidate(name string) {
	name = presetID(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.presets, name)
}

// loadDefaultPreset loads the default preset from disk ("sample" unless
// SetDefault chose another), otherwise the built-in sample
func (m *Manager) loadDefaultPreset() {
	m.mu.RLock()
	name := m.defaultName
	m.mu.RUnlock()

	scenario, err := m.LoadPreset(name)
	if err != nil {
		scenario = engine.DefaultScenario()
	}

	m.mu.Lock()
	m.defaultPreset = scenario
	m.mu.Unlock()
}

// SavePreset writes a preset to disk as YAML
func (m *Manager) SavePreset(name string, scenario *engine.Scenario) error {
	name = presetID(name)
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: invalid preset name %q", ErrInvalidPreset, name)
	}
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	data, err := engine.EncodeScenario(scenario)
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	path := filepath.Join(m.presetDir, name+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[name] = scenario
	m.mu.Unlock()

	m.logger.Info("Preset saved", zap.String("preset", name), zap.String("path", path))
	return nil
}

// Watch drops cached presets when their files change. It blocks until ctx is
// done.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(m.presetDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", m.presetDir, err)
	}
	m.logger.Info("Watching presets", zap.String("dir", m.presetDir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPresetFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				name := presetID(filepath.Base(event.Name))
				m.Invalidate(name)
				if m.isDefault(name) {
					m.loadDefaultPreset()
				}
				m.logger.Debug("Preset changed",
					zap.String("preset", name),
					zap.String("op", event.Op.String()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("Preset watcher error", zap.Error(err))
		}
	}
}

func (m *Manager) isDefault(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName == name
}

func isPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range presetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// presetID strips a known preset extension from name
func presetID(name string) string {
	name = strings.TrimSpace(name)
	if isPresetFile(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

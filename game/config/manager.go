package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
)

var (
	ErrConfigNotFound = errors.New("arena profile not found")
	ErrInvalidConfig  = errors.New("invalid arena profile")
)

// extensions tried in order when resolving a profile name
var extensions = []string{".yaml", ".yml", ".json"}

// ArenaInfo describes an available profile
type ArenaInfo struct {
	Filename    string  `json:"filename"`
	ArenaID     string  `json:"arena_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	TickRate    int     `json:"tick_rate"`
}

// Manager handles arena profile loading and caching
type Manager struct {
	configDir    string
	defaultArena engine.Arena
	arenas       map[string]engine.Arena
	mu           sync.RWMutex
}

// NewManager creates a profile manager reading from configDir. An empty
// configDir serves only the built-in classic arena.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		arenas:    make(map[string]engine.Arena),
	}

	if err := m.loadDefaultArena(); err != nil {
		return nil, fmt.Errorf("failed to load default arena: %w", err)
	}

	return m, nil
}

// LoadArena loads a profile by name (file name without extension)
func (m *Manager) LoadArena(name string) (engine.Arena, error) {
	m.mu.RLock()
	// Check cache first
	if arena, exists := m.arenas[name]; exists {
		m.mu.RUnlock()
		return arena, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if arena, exists := m.arenas[name]; exists {
		return arena, nil
	}

	if m.configDir == "" {
		if name == engine.DefaultArena().Name {
			return engine.DefaultArena(), nil
		}
		return engine.Arena{}, ErrConfigNotFound
	}

	path, err := m.resolve(name)
	if err != nil {
		return engine.Arena{}, err
	}

	arena, err := ParseFile(path)
	if err != nil {
		return engine.Arena{}, err
	}
	if arena.Name == "" {
		arena.Name = name
	}

	if err := engine.ValidateArena(&arena); err != nil {
		return engine.Arena{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.arenas[name] = arena
	return arena, nil
}

// resolve finds the profile file for name
func (m *Manager) resolve(name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}
	if isProfile(name) {
		return filepath.Join(m.configDir, name), nil
	}
	for _, ext := range extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// ParseFile reads a JSON or YAML profile. Fields the file leaves out keep
// the classic arena's values. The result is not validated.
func ParseFile(path string) (engine.Arena, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return engine.Arena{}, ErrConfigNotFound
		}
		return engine.Arena{}, fmt.Errorf("failed to read profile: %w", err)
	}

	arena := engine.DefaultArena()
	arena.Name = ""
	arena.Description = ""

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &arena)
	default:
		err = json.Unmarshal(data, &arena)
	}
	if err != nil {
		return engine.Arena{}, fmt.Errorf("failed to parse profile %s: %w", filepath.Base(path), err)
	}

	return arena, nil
}

// ListArenas returns information about all available profiles
func (m *Manager) ListArenas() ([]*ArenaInfo, error) {
	if m.configDir == "" {
		return []*ArenaInfo{infoFor("", engine.DefaultArena().Name, engine.DefaultArena())}, nil
	}

	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var arenas []*ArenaInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isProfile(entry.Name()) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if seen[id] {
			continue
		}

		arena, err := m.LoadArena(entry.Name())
		if err != nil {
			// Skip invalid profiles
			continue
		}
		seen[id] = true
		arenas = append(arenas, infoFor(entry.Name(), id, arena))
	}

	sort.Slice(arenas, func(i, j int) bool { return arenas[i].ArenaID < arenas[j].ArenaID })
	return arenas, nil
}

func infoFor(filename, id string, arena engine.Arena) *ArenaInfo {
	return &ArenaInfo{
		Filename:    filename,
		ArenaID:     id,
		Name:        arena.Name,
		Description: arena.Description,
		Width:       arena.Width,
		Height:      arena.Height,
		TickRate:    arena.TickRate,
	}
}

// GetDefault returns the default arena
func (m *Manager) GetDefault() engine.Arena {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultArena
}

// SetDefault sets the default arena by name
func (m *Manager) SetDefault(name string) error {
	arena, err := m.LoadArena(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultArena = arena
	return nil
}

// RefreshCache drops cached profiles so edits on disk are picked up, and
// reloads the default. A default whose profile is gone falls back to the
// usual choice.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.arenas = make(map[string]engine.Arena)
	current := m.defaultArena.Name
	m.mu.Unlock()

	if current != "" {
		if err := m.SetDefault(current); err == nil {
			return nil
		}
	}
	return m.loadDefaultArena()
}

// loadDefaultArena prefers a "classic" profile, then the first valid one,
// then the built-in arena
func (m *Manager) loadDefaultArena() error {
	arena, err := m.LoadArena("classic")
	if err != nil {
		arenas, listErr := m.ListArenas()
		if listErr != nil || len(arenas) == 0 {
			arena = engine.DefaultArena()
		} else if arena, err = m.LoadArena(arenas[0].Filename); err != nil {
			arena = engine.DefaultArena()
		}
	}

	m.mu.Lock()
	m.defaultArena = arena
	m.mu.Unlock()
	return nil
}

func isProfile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

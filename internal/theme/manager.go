// internal/theme/manager.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/gotoflash/internal/logger"
)

// Manager holds loaded themes and manages the active theme.
type Manager struct {
	themes      map[string]*Theme // Map theme name (lowercase) -> Theme object
	activeTheme *Theme
	mutex       sync.RWMutex
}

// NewManager creates a manager holding the built-in theme, which is active.
func NewManager() *Manager {
	builtin := GotoflashDark
	mgr := &Manager{
		themes:      map[string]*Theme{strings.ToLower(builtin.Name): &builtin},
		activeTheme: &builtin,
	}
	logger.DebugTagf("theme", "Loaded built-in theme: %s", builtin.Name)
	return mgr
}

// LoadFile loads a theme file and makes it active.
func (m *Manager) LoadFile(filePath string) error {
	theme, err := LoadThemeFromFile(filePath)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.add(theme, filePath)
	m.activeTheme = theme
	logger.InfoTagf("theme", "Active theme set to: %s", theme.Name)
	return nil
}

// LoadThemesFromDir loads every .toml file in dir. A missing directory is not an error.
func (m *Manager) LoadThemesFromDir(dir string) error {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.DebugTagf("theme", "Theme directory '%s' does not exist. No custom themes loaded.", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", dir, err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	loadedCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".toml") {
			continue
		}
		filePath := filepath.Join(dir, file.Name())
		theme, err := LoadThemeFromFile(filePath)
		if err != nil {
			logger.WarnTagf("theme", "Failed to load theme from '%s': %v", filePath, err)
			continue
		}
		m.add(theme, filePath)
		loadedCount++
	}
	logger.InfoTagf("theme", "Loaded %d custom themes.", loadedCount)
	return nil
}

func (m *Manager) add(theme *Theme, source string) {
	nameLower := strings.ToLower(theme.Name)
	if existing, ok := m.themes[nameLower]; ok {
		logger.WarnTagf("theme", "Theme '%s' from '%s' overrides existing theme '%s'", theme.Name, source, existing.Name)
	}
	m.themes[nameLower] = theme
}

// Current returns the currently active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.activeTheme
}

// SetTheme sets the active theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	theme, ok := m.themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	m.activeTheme = theme
	logger.InfoTagf("theme", "Active theme set to: %s", theme.Name)
	return nil
}

// ListThemes returns the names of all loaded themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	names := make([]string, 0, len(m.themes))
	for _, theme := range m.themes {
		names = append(names, theme.Name)
	}
	sort.Strings(names)
	return names
}

// ScopeColor resolves a scope against the active theme; it fits memhost.WithScopeColors.
func (m *Manager) ScopeColor(scope string) string {
	return m.Current().ScopeColor(scope)
}

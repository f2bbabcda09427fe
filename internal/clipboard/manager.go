package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// Manager handles clipboard operations. The last yanked text is kept in
// memory, which is all there is when no system clipboard is available.
type Manager struct {
	mu        sync.Mutex
	write     func(string) error
	clipboard string
}

// NewManager creates a manager that writes through write; nil means the
// system clipboard, when the platform has one.
func NewManager(write func(string) error) *Manager {
	if write == nil && !clipboard.Unsupported {
		write = clipboard.WriteAll
	}
	return &Manager{write: write}
}

// Yank stores text and copies it to the system clipboard.
func (m *Manager) Yank(text string) error {
	m.mu.Lock()
	m.clipboard = text
	write := m.write
	m.mu.Unlock()

	logger.Debugf("ClipboardManager: Yanked %d bytes", len(text))
	if write == nil {
		return nil
	}
	if err := write(text); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	return nil
}

// Contents returns the last yanked text.
func (m *Manager) Contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipboard
}

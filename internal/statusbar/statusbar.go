// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/gotoflash/internal/clock"
)

// Config defines the behavior of the status line.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		MessageTimeout: 4 * time.Second,
	}
}

// Position is a zero-based line and column.
type Position struct {
	Line int
	Col  int
}

// StatusBar holds the state shown on the status line.
type StatusBar struct {
	config Config
	clock  clock.Clock
	mu     sync.RWMutex

	filePath   string
	isModified bool
	isLoading  bool
	cursorPos  Position
	errorCount int
	quiet      bool
	noPhantoms bool

	tempMessage     string
	tempMessageTime time.Time
}

// New creates a StatusBar. Message timeouts are measured on c; nil means the system clock.
func New(config Config, c clock.Clock) *StatusBar {
	if c == nil {
		c = clock.System
	}
	return &StatusBar{config: config, clock: c}
}

// SetFileInfo updates the file path and modified flag.
func (sb *StatusBar) SetFileInfo(path string, modified, loading bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
	sb.isLoading = loading
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetLintInfo updates the error count and the view's quiet modes.
func (sb *StatusBar) SetLintInfo(errors int, quiet, noPhantoms bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.errorCount = errors
	sb.quiet = quiet
	sb.noPhantoms = noPhantoms
}

// SetTemporaryMessage displays a message for the configured timeout.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.clock.Now()
}

// ResetTemporaryMessage clears any temporary message being displayed.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Text returns the status line: the temporary message while it is fresh,
// the file and lint summary otherwise.
func (sb *StatusBar) Text() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.tempMessageTime.IsZero() {
		if sb.clock.Now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
			return sb.tempMessage
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}
	return sb.defaultText()
}

func (sb *StatusBar) defaultText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	var b strings.Builder
	b.WriteString(fPath)
	if sb.isModified {
		b.WriteString(" [Modified]")
	}
	if sb.isLoading {
		b.WriteString(" [Loading]")
	}
	fmt.Fprintf(&b, " -- Line: %d, Col: %d", sb.cursorPos.Line+1, sb.cursorPos.Col+1)

	switch sb.errorCount {
	case 0:
		b.WriteString(" -- no errors")
	case 1:
		b.WriteString(" -- 1 error")
	default:
		fmt.Fprintf(&b, " -- %d errors", sb.errorCount)
	}

	var hidden []string
	if sb.quiet {
		hidden = append(hidden, "squiggles")
	}
	if sb.noPhantoms {
		hidden = append(hidden, "phantoms")
	}
	if len(hidden) > 0 {
		fmt.Fprintf(&b, " (quiet: %s)", strings.Join(hidden, ", "))
	}
	return b.String()
}

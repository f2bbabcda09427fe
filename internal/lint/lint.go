// Package lint is a syntax-only linter: it parses a buffer with tree-sitter
// and reports every ERROR and MISSING node as an error record.
package lint

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoLanguage is returned for files no registered grammar handles.
var ErrNoLanguage = errors.New("no language for file")

// Linter checks buffers for syntax errors.
type Linter struct {
	languages *Registry

	mu     sync.Mutex
	parser *sitter.Parser
}

// New creates a linter over languages; nil means DefaultRegistry.
func New(languages *Registry) *Linter {
	if languages == nil {
		languages = DefaultRegistry()
	}
	return &Linter{languages: languages, parser: sitter.NewParser()}
}

// Lint parses src as the language of filename. Regions are character
// offsets, matching the host's text model.
func (l *Linter) Lint(ctx context.Context, filename string, src []byte) ([]linter.ErrorRecord, error) {
	lang := l.languages.ForFile(filename)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoLanguage, filename)
	}

	l.mu.Lock()
	l.parser.SetLanguage(lang.TreeSitterLang)
	tree, err := l.parser.ParseCtx(ctx, nil, src)
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("parsing %s failed: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	offsets := newOffsetTable(src)
	var errs []linter.ErrorRecord
	collect(root, func(n *sitter.Node) {
		errs = append(errs, record(lang.Name, n, offsets))
	})
	logger.DebugTagf("linter", "lint %s (%s): %d syntax errors", filename, lang.Name, len(errs))
	return errs, nil
}

// collect visits ERROR nodes and MISSING nodes. It does not descend into an
// ERROR node, and skips subtrees without errors.
func collect(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil || n.IsNull() {
		return
	}
	if n.IsMissing() || n.Type() == "ERROR" {
		visit(n)
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collect(n.Child(i), visit)
	}
}

func record(linterName string, n *sitter.Node, offsets offsetTable) linter.ErrorRecord {
	begin := offsets.runeOffset(int(n.StartByte()))
	end := offsets.runeOffset(int(n.EndByte()))
	message := "syntax error"
	if n.IsMissing() {
		message = fmt.Sprintf("missing %q", n.Type())
	}
	if end <= begin {
		// Zero-width nodes still get one character so they can be seen and jumped to.
		end = begin + 1
		if end > offsets.runes {
			begin, end = max(offsets.runes-1, 0), offsets.runes
		}
	}
	point := n.StartPoint()
	return linter.ErrorRecord{
		Linter:    linterName,
		Region:    host.Region{Begin: begin, End: end},
		ErrorType: "error",
		Message:   fmt.Sprintf("%s (line %d, col %d)", message, point.Row+1, point.Column+1),
	}
}

package lint

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bethropolis/gotoflash/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
)

// Language is a grammar the syntax linter can check.
type Language struct {
	// Name is the display name of the language, also used as the error's linter name.
	Name string

	// TreeSitterLang is the tree-sitter language instance
	TreeSitterLang *sitter.Language

	// Extensions maps file extensions to this language
	Extensions []string
}

// Registry maps file extensions to languages.
type Registry struct {
	mu            sync.RWMutex
	languages     []*Language
	extToLanguage map[string]*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{extToLanguage: make(map[string]*Language)}
}

// DefaultRegistry returns a registry with every bundled grammar.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Language{Name: "go", TreeSitterLang: gosrc.GetLanguage(), Extensions: []string{".go"}})
	r.Register(&Language{Name: "python", TreeSitterLang: pythonsrc.GetLanguage(), Extensions: []string{".py", ".pyw"}})
	r.Register(&Language{Name: "javascript", TreeSitterLang: jssrc.GetLanguage(), Extensions: []string{".js", ".mjs", ".cjs"}})
	r.Register(&Language{Name: "rust", TreeSitterLang: rustsrc.GetLanguage(), Extensions: []string{".rs"}})
	return r
}

// Register adds a language to the registry
func (r *Registry) Register(lang *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.languages = append(r.languages, lang)
	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := r.extToLanguage[lowerExt]; ok {
			logger.WarnTagf("linter", "Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		r.extToLanguage[lowerExt] = lang
	}
	logger.DebugTagf("linter", "Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// ForFile returns the language for a given file path, nil when unknown.
func (r *Registry) ForFile(filePath string) *Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extToLanguage[strings.ToLower(filepath.Ext(filePath))]
}

// All returns all registered languages
func (r *Registry) All() []*Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Language, len(r.languages))
	copy(result, r.languages)
	return result
}

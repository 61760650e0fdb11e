// Package syntax maintains a tree-sitter syntax tree kept consistent with
// buffer edits, and exposes a highlight iterator over it (§4.C).
package syntax

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"
	ts_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	ts_haskell "github.com/tree-sitter/tree-sitter-haskell/bindings/go"
	ts_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	ts_toml "github.com/tree-sitter/tree-sitter-toml/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	ts_yaml "github.com/tree-sitter/tree-sitter-yaml/bindings/go"
)

// LanguageDescriptor bundles a language's compiled grammar and its
// highlight query source; the registry keeps the compiled query and its
// capture-name table beside it.
type LanguageDescriptor struct {
	ID             string
	Language       *tree_sitter.Language
	HighlightQuery string
}

var languageFactories = map[string]func() *LanguageDescriptor{
	"rust": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "rust", Language: tree_sitter.NewLanguage(ts_rust.Language()), HighlightQuery: rustHighlights}
	},
	"go": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "go", Language: tree_sitter.NewLanguage(ts_go.Language()), HighlightQuery: goHighlights}
	},
	"java": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "java", Language: tree_sitter.NewLanguage(ts_java.Language()), HighlightQuery: javaHighlights}
	},
	"javascript": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "javascript", Language: tree_sitter.NewLanguage(ts_javascript.Language()), HighlightQuery: javascriptHighlights}
	},
	"typescript": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "typescript", Language: tree_sitter.NewLanguage(ts_typescript.LanguageTypescript()), HighlightQuery: typescriptHighlights}
	},
	"toml": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "toml", Language: tree_sitter.NewLanguage(ts_toml.Language()), HighlightQuery: tomlHighlights}
	},
	"yaml": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "yaml", Language: tree_sitter.NewLanguage(ts_yaml.Language()), HighlightQuery: yamlHighlights}
	},
	"bash": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "bash", Language: tree_sitter.NewLanguage(ts_bash.Language()), HighlightQuery: bashHighlights}
	},
	"haskell": func() *LanguageDescriptor {
		return &LanguageDescriptor{ID: "haskell", Language: tree_sitter.NewLanguage(ts_haskell.Language()), HighlightQuery: haskellHighlights}
	},
}

// ExtensionToLanguage maps a file extension (without dot) to a registered
// language id, used by the app to pick a buffer's language at load time.
var ExtensionToLanguage = map[string]string{
	"rs":    "rust",
	"go":    "go",
	"java":  "java",
	"js":    "javascript",
	"jsx":   "javascript",
	"ts":    "typescript",
	"tsx":   "typescript",
	"toml":  "toml",
	"yaml":  "yaml",
	"yml":   "yaml",
	"sh":    "bash",
	"bash":  "bash",
	"hs":    "haskell",
}

// Registry lazily, thread-safely compiles a parser + highlight query per
// language id. Initialisation of any single language is one-shot per
// process (§4.C); a query or SetLanguage failure disables that language
// only (no captures, never a crash).
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	desc  *LanguageDescriptor
	query *tree_sitter.Query
	names []string
	err   error
}

// NewRegistry returns an empty, ready-to-use registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Get returns the compiled descriptor, query, and id→capture-name table for
// languageID, initialising it on first use. ok is false if the language is
// unknown or failed to initialise (fatal for that language only, per §4.C).
func (r *Registry) Get(languageID string) (desc *LanguageDescriptor, query *tree_sitter.Query, captureNames []string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, found := r.entries[languageID]; found {
		return e.desc, e.query, e.names, e.err == nil
	}

	factory, known := languageFactories[languageID]
	if !known {
		e := &registryEntry{err: fmt.Errorf("syntax: unknown language %q", languageID)}
		r.entries[languageID] = e
		return nil, nil, nil, false
	}

	d := factory()
	q, qerr := tree_sitter.NewQuery(d.Language, d.HighlightQuery)
	e := &registryEntry{desc: d}
	if qerr != nil {
		e.err = fmt.Errorf("syntax: compiling highlight query for %s: %w", languageID, qerr)
	} else {
		e.query = q
		e.names = q.CaptureNames()
	}
	r.entries[languageID] = e
	return e.desc, e.query, e.names, e.err == nil
}

// DefaultRegistry is the process-wide registry the app parses every opened
// buffer with, so each language is initialised once per process.
var DefaultRegistry = NewRegistry()

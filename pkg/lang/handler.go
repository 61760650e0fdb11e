// Package lang maps languages to the project-root markers that identify
// them and the language server commands that serve them, and routes open
// buffers to the right running Handler (§4.H).
package lang

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kitedit/kite/pkg/config"
	"github.com/kitedit/kite/pkg/lspclient"
)

// Descriptor names one supported language: the file extensions that select
// it, the marker files that identify a project root, and the default
// command used to launch its language server.
type Descriptor struct {
	LanguageID     string
	Extensions     []string
	RootMarkers    []string
	DefaultCommand []string
}

// Builtin is the set of reference language handlers (§4.H/SPEC_FULL
// expansion): rust-analyzer for Rust, and gopls in place of clangd as the
// second reference server, matching this toolchain's actual ecosystem.
var Builtin = []Descriptor{
	{
		LanguageID:     "rust",
		Extensions:     []string{".rs"},
		RootMarkers:    []string{"Cargo.toml"},
		DefaultCommand: []string{"rust-analyzer"},
	},
	{
		LanguageID:     "go",
		Extensions:     []string{".go"},
		RootMarkers:    []string{"go.mod"},
		DefaultCommand: []string{"gopls"},
	},
}

// extensionIndex maps a file extension to its Descriptor for quick lookup.
func extensionIndex() map[string]Descriptor {
	idx := make(map[string]Descriptor)
	for _, d := range Builtin {
		for _, ext := range d.Extensions {
			idx[ext] = d
		}
	}
	return idx
}

// Handler owns one running language server for one project root.
type Handler struct {
	Descriptor Descriptor
	Root       string
	Client     *lspclient.Client
}

// Group supervises every running Handler for a workspace, starting one
// lazily per (language, root) pair the first time a buffer needs it.
type Group struct {
	mu       sync.Mutex
	handlers map[string]*Handler // key: languageID + "\x00" + root
	commands map[string][]string // languageID -> override command, from config.Config.Handlers
	logger   *slog.Logger
}

// NewGroup builds an empty handler group. commands overrides the built-in
// launch command per language (config.toml's [handlers] table).
func NewGroup(commands map[string][]string, logger *slog.Logger) *Group {
	if logger == nil {
		logger = slog.Default()
	}
	return &Group{
		handlers: make(map[string]*Handler),
		commands: commands,
		logger:   logger,
	}
}

// ForFile returns the Handler responsible for path, starting its language
// server if this is the first buffer of its kind seen so far. ok is false
// for file extensions with no known language.
func (g *Group) ForFile(ctx context.Context, path string) (*Handler, bool, error) {
	ext := filepath.Ext(path)
	desc, ok := extensionIndex()[ext]
	if !ok {
		return nil, false, nil
	}

	root, found := config.FindProjectRoot(filepath.Dir(path), desc.RootMarkers)
	if !found {
		root = filepath.Dir(path)
	}

	h, err := g.startHandler(ctx, desc, root)
	return h, true, err
}

// StartScopes instantiates and starts a Handler for each of a workspace's
// discovered project scopes, ahead of any buffer needing one (§4.I step 3,
// "inspect the starting directory into project scopes; instantiate
// handlers; start their LSPs"). Scopes naming a language or handler ID with
// no matching Descriptor are skipped; a handler that fails to start is
// logged and otherwise ignored, since the user may still open files under a
// different, working language.
func (g *Group) StartScopes(ctx context.Context, workspaceRoot string, scopes []config.Scope) {
	for _, s := range scopes {
		desc, ok := descriptorFor(s)
		if !ok {
			g.logger.Warn("workspace scope names no known handler", "language", s.Language, "handler_id", s.HandlerID)
			continue
		}
		scopeRoot := filepath.Join(workspaceRoot, filepath.FromSlash(s.RelativePath))
		if _, err := g.startHandler(ctx, desc, scopeRoot); err != nil {
			g.logger.Warn("language server start failed for workspace scope", "language", desc.LanguageID, "root", scopeRoot, "error", err)
		}
	}
}

// DiscoverScopes walks root looking for each built-in Descriptor's root
// markers directly beneath it, producing the project-scope inventory
// StartScopes consumes. It inspects only root itself (one level), matching
// the common case of a workspace root that is itself a project root; a
// workspace.toml Workspace.Scopes list is how a user describes a root
// containing more than one nested project.
func DiscoverScopes(root string) []config.Scope {
	var scopes []config.Scope
	for _, d := range Builtin {
		for _, marker := range d.RootMarkers {
			if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
				scopes = append(scopes, config.Scope{
					Language:     d.LanguageID,
					RelativePath: ".",
					HandlerID:    d.LanguageID,
				})
				break
			}
		}
	}
	return scopes
}

// descriptorFor resolves a workspace scope to the Descriptor that serves
// it: an explicit HandlerID wins when it names a known language, otherwise
// the scope's Language field is used directly.
func descriptorFor(s config.Scope) (Descriptor, bool) {
	for _, d := range Builtin {
		if s.HandlerID != "" && d.LanguageID == s.HandlerID {
			return d, true
		}
	}
	for _, d := range Builtin {
		if d.LanguageID == s.Language {
			return d, true
		}
	}
	return Descriptor{}, false
}

// startHandler returns the running Handler for (desc.LanguageID, root),
// starting its language server first if none is running yet.
func (g *Group) startHandler(ctx context.Context, desc Descriptor, root string) (*Handler, error) {
	key := desc.LanguageID + "\x00" + root

	g.mu.Lock()
	if h, ok := g.handlers[key]; ok {
		g.mu.Unlock()
		return h, nil
	}
	g.mu.Unlock()

	command := desc.DefaultCommand
	if override, ok := g.commands[desc.LanguageID]; ok && len(override) > 0 {
		command = override
	}

	client, err := lspclient.Start(ctx, command, root, g.logger)
	if err != nil {
		return nil, err
	}
	if err := client.Initialize(ctx, rootURI(root), lspclient.DefaultInitializeTimeout); err != nil {
		return nil, err
	}

	h := &Handler{Descriptor: desc, Root: root, Client: client}

	g.mu.Lock()
	if existing, ok := g.handlers[key]; ok {
		g.mu.Unlock()
		_ = client.Shutdown(ctx)
		return existing, nil
	}
	g.handlers[key] = h
	g.mu.Unlock()

	return h, nil
}

// Shutdown tears down every running handler.
func (g *Group) Shutdown(ctx context.Context) {
	g.mu.Lock()
	handlers := g.handlers
	g.handlers = make(map[string]*Handler)
	g.mu.Unlock()

	for _, h := range handlers {
		if err := h.Client.Shutdown(ctx); err != nil {
			g.logger.Warn("language server shutdown failed", "language", h.Descriptor.LanguageID, "error", err)
		}
	}
}

func rootURI(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return "file://" + filepath.ToSlash(abs)
}

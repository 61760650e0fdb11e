// Package config loads the editor's user config and per-workspace settings
// from TOML files (§7), in the style of the teacher's dang.toml loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrBackupFailed and ErrWriteFailed distinguish Reconfigure's two failure
// stages, letting cmd/kite choose between exit codes 2 and 4 (§6).
var (
	ErrBackupFailed = errors.New("failed to back up existing config")
	ErrWriteFailed  = errors.New("failed to write fresh config")
)

// Config is the user-level configuration, normally loaded from
// $XDG_CONFIG_HOME/kite/config.toml.
type Config struct {
	Theme string `toml:"theme"`

	Editor EditorConfig `toml:"editor"`

	// Handlers maps a language ID to the command used to launch its
	// language server, overriding the built-in defaults in pkg/lang.
	Handlers map[string][]string `toml:"handlers"`
}

// EditorConfig groups editing behavior settings.
type EditorConfig struct {
	TabWidth     int  `toml:"tab_width"`
	InsertSpaces bool `toml:"insert_spaces"`
	ScrollOff    int  `toml:"scroll_off"`
}

// DefaultConfig is used when no config.toml exists.
func DefaultConfig() *Config {
	return &Config{
		Theme: "dark",
		Editor: EditorConfig{
			TabWidth:     4,
			InsertSpaces: true,
			ScrollOff:    2,
		},
	}
}

// Load reads path and merges it onto DefaultConfig. A missing file is not
// an error: it returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// UserConfigPath returns the conventional location of config.toml under the
// user's config directory.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kite", "config.toml"), nil
}

// Reconfigure backs up any existing config at path (renaming it to
// path+".bak") and writes a fresh DefaultConfig in its place: the
// -r/--reconfigure CLI flag's effect (§6).
func Reconfigure(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return fmt.Errorf("%w: %v", ErrBackupFailed, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(DefaultConfig()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Scope is one entry in a workspace's inventory of project scopes (§6): a
// language bound to a path relative to the workspace root, optionally
// naming a specific handler ID to use in place of the language's default
// (e.g. to pick a non-default server for a language with more than one).
type Scope struct {
	Language     string `toml:"language"`
	RelativePath string `toml:"relative_path"`
	HandlerID    string `toml:"handler_id,omitempty"`
}

// Workspace is the per-project configuration, loaded from workspace.toml at
// the project root when present (§6). Scopes lets the app loop instantiate
// handlers for a project up front (§4.I step 3) instead of waiting for each
// file to be opened.
type Workspace struct {
	// ExcludeGlobs lists patterns the file tree and search never descend into.
	ExcludeGlobs []string `toml:"exclude,omitempty"`

	// Scopes is the workspace's inventory of project scopes.
	Scopes []Scope `toml:"scope,omitempty"`
}

// LoadWorkspace reads workspace.toml from dir, returning (nil, nil) if it
// does not exist.
func LoadWorkspace(dir string) (*Workspace, error) {
	path := filepath.Join(dir, "workspace.toml")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ws Workspace
	if _, err := toml.DecodeFile(path, &ws); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &ws, nil
}

// FindProjectRoot walks up from dir looking for any of the given marker
// files (e.g. "go.mod", "Cargo.toml"). A directory containing ".git" also
// counts as a root and ends the walk. Returns ("", false) if the filesystem
// root is reached without finding either.
func FindProjectRoot(dir string, markers []string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, true
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Package app wires the concrete terminal, config, clipboard, language
// handler group, and editor widget tree together into the running
// application loop (§4.I).
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kitedit/kite/pkg/buffer"
	"github.com/kitedit/kite/pkg/clipboard"
	"github.com/kitedit/kite/pkg/config"
	"github.com/kitedit/kite/pkg/editor"
	"github.com/kitedit/kite/pkg/fsys"
	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/lang"
	"github.com/kitedit/kite/pkg/lspclient"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/syntax"
	"github.com/kitedit/kite/pkg/term"
	"github.com/kitedit/kite/pkg/theme"
)

// Sentinel errors New wraps its failures in, letting cmd/kite pick the exit
// code §6 specifies (2/3/4/5) without New itself knowing about os.Exit.
var (
	ErrConfigBackupFailed = errors.New("failed to back up existing config")
	ErrConfigLoadFailed   = errors.New("failed to load config")
	ErrConfigWriteFailed  = errors.New("failed to write fresh config")
	ErrNoStartDirectory   = errors.New("no usable start directory")
)

// Options configures one run of the app loop.
type Options struct {
	// Paths are the command-line path arguments (§6). Each path that names
	// a file is opened as an editor; the first that names a directory
	// becomes the workspace root (otherwise the current working directory
	// is used).
	Paths []string
	// Reconfigure requests that the user config be backed up and replaced
	// with a fresh default (-r/--reconfigure).
	Reconfigure bool
	// Debug raises the log level to slog.LevelDebug.
	Debug bool
}

// bufferEditor pairs one open Buffer with the Editor widget rendering it.
type bufferEditor struct {
	buf *buffer.Buffer
	ed  *editor.Editor
}

// App owns one running editor session: the terminal, the root widget, and
// the background handler group feeding it LSP notifications.
type App struct {
	term     term.Terminal
	decoder  *term.Decoder
	cfg      *config.Config
	theme    *theme.Theme
	clip     clipboard.Clipboard
	handlers *lang.Group
	logger   *slog.Logger

	workspaceRoot string

	buffers []bufferEditor
	active  int

	quit chan struct{}
}

// New loads configuration, theme, clipboard, and the requested buffers, and
// builds (but does not yet run) the editor's widget tree.
func New(ctx context.Context, opts Options) (*App, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfgPath, err := config.UserConfigPath()
	if err != nil {
		logger.Warn("could not resolve user config path", "error", err)
		cfgPath = ""
	}
	if opts.Reconfigure && cfgPath != "" {
		if err := config.Reconfigure(cfgPath); err != nil {
			switch {
			case errors.Is(err, config.ErrBackupFailed):
				return nil, fmt.Errorf("%w: %v", ErrConfigBackupFailed, err)
			default:
				return nil, fmt.Errorf("%w: %v", ErrConfigWriteFailed, err)
			}
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoadFailed, err)
	}

	workspaceRoot, filePaths, err := resolveWorkspace(opts.Paths)
	if err != nil {
		return nil, err
	}

	th := theme.DefaultDark()
	if cfg.Theme != "" && cfg.Theme != "dark" {
		th = theme.New(cfg.Theme, nil)
	}

	clip := clipboard.NewMem()
	handlers := lang.NewGroup(cfg.Handlers, logger)

	ws, err := config.LoadWorkspace(workspaceRoot)
	if err != nil {
		logger.Warn("could not load workspace.toml", "root", workspaceRoot, "error", err)
	}
	scopes := lang.DiscoverScopes(workspaceRoot)
	if ws != nil {
		scopes = append(scopes, ws.Scopes...)
	}
	handlers.StartScopes(ctx, workspaceRoot, scopes)

	tree := fsys.NewOSTree()
	if len(filePaths) == 0 {
		filePaths = []string{""}
	}

	var buffers []bufferEditor
	for _, path := range filePaths {
		buffers = append(buffers, newBufferEditor(ctx, tree, handlers, clip, logger, path))
	}

	a := &App{
		term:          term.NewProcessTerminal(),
		decoder:       term.NewDecoder(),
		cfg:           cfg,
		theme:         th,
		clip:          clip,
		handlers:      handlers,
		logger:        logger,
		workspaceRoot: workspaceRoot,
		buffers:       buffers,
		quit:          make(chan struct{}),
	}
	return a, nil
}

// resolveWorkspace sorts the CLI's path arguments into the files to open as
// editors and the workspace root (§6): the first path naming a directory,
// or the current working directory if none of them does. A path that does
// not exist yet is treated as a file to create on save.
func resolveWorkspace(paths []string) (workspaceRoot string, files []string, err error) {
	for _, p := range paths {
		info, statErr := os.Stat(p)
		if statErr != nil {
			files = append(files, p)
			continue
		}
		if info.IsDir() {
			if workspaceRoot == "" {
				abs, absErr := filepath.Abs(p)
				if absErr != nil {
					return "", nil, fmt.Errorf("%w: %v", ErrNoStartDirectory, absErr)
				}
				workspaceRoot = abs
			}
			continue
		}
		files = append(files, p)
	}
	if workspaceRoot == "" {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrNoStartDirectory, cwdErr)
		}
		workspaceRoot = cwd
	}
	return workspaceRoot, files, nil
}

// newBufferEditor loads path (or builds a scratch buffer for "") into a
// Buffer and wraps it in an Editor, wiring its language handler and parser
// the same way regardless of how many buffers the session opens.
func newBufferEditor(ctx context.Context, tree fsys.Tree, handlers *lang.Group, clip clipboard.Clipboard, logger *slog.Logger, path string) bufferEditor {
	text := ""
	if path != "" {
		if data, err := tree.ReadFile(path); err == nil {
			text = string(data)
		}
	}
	buf := buffer.New(text)
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		buf.File = buffer.NewFileIdentity(abs)
	}

	var parsing *syntax.ParsingTuple
	var client *lspclient.Client
	if path != "" {
		if h, ok, err := handlers.ForFile(ctx, path); err != nil {
			logger.Warn("language server start failed", "path", path, "error", err)
		} else if ok {
			client = h.Client
		}
		registry := syntax.DefaultRegistry
		languageID := languageForExt(filepath.Ext(path))
		if languageID != "" {
			if pt, ok := syntax.NewParsingTuple(registry, languageID, func() []byte { return []byte(buf.Text()) }); ok {
				parsing = pt
				buf.LanguageID = languageID
				buf.Parsing = pt
			}
		}
	}

	ed := editor.NewEditor(buf, parsing, clip, client)
	if path != "" {
		ed.SetSavePath(buf.File.Path)
	}
	ed.OnSave(func(savePath string) error {
		return tree.WriteFile(savePath, []byte(buf.Text()))
	})

	return bufferEditor{buf: buf, ed: ed}
}

// Run starts the terminal in raw mode and drives the render loop until the
// quit key (ctrl+q) is pressed or the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	inputCh := make(chan []byte, 64)
	resizeCh := make(chan struct{}, 1)

	if err := a.term.Start(
		func(data []byte) {
			cp := append([]byte(nil), data...)
			select {
			case inputCh <- cp:
			default:
			}
		},
		func() {
			select {
			case resizeCh <- struct{}{}:
			default:
			}
		},
	); err != nil {
		return err
	}
	a.term.HideCursor()
	defer func() {
		a.term.ShowCursor()
		a.term.Stop()
		a.handlers.Shutdown(context.Background())
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	a.render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.quit:
			return nil
		case data := <-inputCh:
			for _, msg := range a.decoder.Feed(data) {
				if msg.Ctrl && msg.Key == "ctrl+q" {
					close(a.quit)
					return nil
				}
				if msg.Ctrl && msg.Key == "ctrl+tab" {
					a.active = (a.active + 1) % len(a.buffers)
					continue
				}
				a.activeEditor().OnInput(msg)
			}
			a.render()
		case <-resizeCh:
			a.render()
		case <-ticker.C:
			// Periodic tick lets pending LSP notifications (diagnostics,
			// completion pushes) drain into the widget tree even with no
			// keyboard activity.
			a.render()
		}
	}
}

// activeEditor returns the Editor currently holding focus; ctrl+tab cycles
// which buffer this is when more than one file was opened (§6).
func (a *App) activeEditor() *editor.Editor {
	return a.buffers[a.active].ed
}

func (a *App) render() {
	size := geometry.NewXY(a.term.Columns(), a.term.Rows())
	ed := a.activeEditor()
	ed.Prelayout()
	ed.Layout(geometry.Full(size))

	out := scroll.NewBaseOutput(size)
	ed.Render(a.theme, true, out)
	a.present(out, size)
}

// present writes the rendered grid to the terminal. It always repaints in
// full; the differential renderer the teacher's pitui package implements
// is noted as a deliberate simplification in DESIGN.md.
func (a *App) present(out *scroll.BaseOutput, size geometry.XY) {
	a.term.WriteString("\x1b[H")
	for y := 0; y < int(size.Y); y++ {
		for x := 0; x < int(size.X); x++ {
			cell := out.Cell(geometry.XY{X: uint16(x), Y: uint16(y)})
			if cell.Continuation {
				continue
			}
			a.term.WriteString(cell.Style.Render(cell.Grapheme))
		}
		if y < int(size.Y)-1 {
			a.term.WriteString("\r\n")
		}
	}
}

func languageForExt(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return syntax.ExtensionToLanguage[ext]
}

package lspclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// InitializeParams is the minimal subset of LSP's InitializeParams the
// editor sends: a root URI and its own capability set (kept empty — this
// client only consumes diagnostics and completions, §4.G Non-goals).
type InitializeParams struct {
	ProcessID    int            `json:"processId"`
	RootURI      string         `json:"rootUri"`
	Capabilities map[string]any `json:"capabilities"`
}

// Initialize performs the initialize/initialized handshake, failing if the
// server does not respond within timeout (default DefaultInitializeTimeout
// when timeout <= 0).
func (c *Client) Initialize(ctx context.Context, rootURI string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultInitializeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, err := c.Call("initialize", InitializeParams{
		RootURI:      rootURI,
		Capabilities: map[string]any{},
	})
	if err != nil {
		return fmt.Errorf("sending initialize: %w", err)
	}
	resp, err := p.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for initialize response: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("server rejected initialize: %w", resp.Error)
	}
	return c.Notify("initialized", struct{}{})
}

// DidOpenParams mirrors LSP's textDocument/didOpen payload.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentItem identifies an open document.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// DidOpen notifies the server a document was opened.
func (c *Client) DidOpen(uri, languageID string, version int, text string) error {
	return c.Notify("textDocument/didOpen", DidOpenParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: languageID, Version: version, Text: text},
	})
}

// DidChangeParams mirrors textDocument/didChange with full-document sync
// (simpler than incremental ranges and sufficient given the editor always
// holds the authoritative text, §4.G).
type DidChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// VersionedTextDocumentIdentifier identifies a document at a specific
// version.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentContentChangeEvent is one full-document replacement.
type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

// DidChange notifies the server of a full-document replacement.
func (c *Client) DidChange(uri string, version int, text string) error {
	return c.Notify("textDocument/didChange", DidChangeParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: version},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: text}},
	})
}

// DidCloseParams mirrors textDocument/didClose.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentIdentifier identifies a document by URI only.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// DidClose notifies the server a document was closed.
func (c *Client) DidClose(uri string) error {
	return c.Notify("textDocument/didClose", DidCloseParams{TextDocument: TextDocumentIdentifier{URI: uri}})
}

// CompletionParams mirrors textDocument/completion.
type CompletionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// Position is a zero-based line/character pair, LSP's native coordinate.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// CompletionItem is the subset of LSP's CompletionItem the completion
// overlay renders.
type CompletionItem struct {
	Label         string `json:"label"`
	Detail        string `json:"detail,omitempty"`
	InsertText    string `json:"insertText,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// Completion requests completions at uri:position and decodes the result,
// accepting either a bare CompletionItem[] or a CompletionList wrapper.
func (c *Client) Completion(ctx context.Context, uri string, pos Position) ([]CompletionItem, error) {
	p, err := c.Call("textDocument/completion", CompletionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     pos,
	})
	if err != nil {
		return nil, err
	}
	resp, err := p.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("completion request failed: %w", resp.Error)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, nil
	}

	var list struct {
		Items []CompletionItem `json:"items"`
	}
	if err := json.Unmarshal(resp.Result, &list); err == nil && len(list.Items) > 0 {
		return list.Items, nil
	}

	var items []CompletionItem
	if err := json.Unmarshal(resp.Result, &items); err != nil {
		return nil, fmt.Errorf("decoding completion result: %w", err)
	}
	return items, nil
}

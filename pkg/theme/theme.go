// Package theme defines the editor's color palette and the UI roles that
// map onto it. The palette is built in (DefaultDark); config.toml's theme
// setting only supplies the theme's name (§7).
package theme

import "charm.land/lipgloss/v2"

// Role names a semantic slot a widget asks the theme to style, rather than
// a widget picking colors directly.
type Role string

const (
	RoleDefault    Role = "default"
	RoleGutter     Role = "gutter"
	RoleCursor     Role = "cursor"
	RoleSelection  Role = "selection"
	RoleStatusBar  Role = "status_bar"
	RoleBorder     Role = "border"
	RoleBorderFocus Role = "border_focus"
	RoleOverlay    Role = "overlay"
	RoleError      Role = "error"

	// Syntax capture roles, named after the tree-sitter capture groups in
	// pkg/syntax/queries.go.
	RoleComment    Role = "syntax_comment"
	RoleString     Role = "syntax_string"
	RoleNumber     Role = "syntax_number"
	RoleBoolean    Role = "syntax_boolean"
	RoleKeyword    Role = "syntax_keyword"
	RoleFunction   Role = "syntax_function"
	RoleProperty   Role = "syntax_property"
	RoleVariable   Role = "syntax_variable"
	RoleIdentifier Role = "syntax_identifier"
)

// Theme maps roles to concrete lipgloss styles.
type Theme struct {
	Name   string
	styles map[Role]lipgloss.Style
}

// New builds a Theme from an explicit role->style table, falling back to
// DefaultDark for any role left unset.
func New(name string, styles map[Role]lipgloss.Style) *Theme {
	t := &Theme{Name: name, styles: map[Role]lipgloss.Style{}}
	base := DefaultDark()
	for role, style := range base.styles {
		t.styles[role] = style
	}
	for role, style := range styles {
		t.styles[role] = style
	}
	return t
}

// Style returns the style for role, or a blank style if the theme has
// somehow never had that role populated.
func (t *Theme) Style(role Role) lipgloss.Style {
	if t == nil {
		return lipgloss.NewStyle()
	}
	if s, ok := t.styles[role]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// StyleForCapture resolves a tree-sitter capture name ("keyword", "string",
// ...) to its theme role, falling back to RoleDefault for unknown captures
// so highlighting degrades gracefully instead of rendering blank.
func (t *Theme) StyleForCapture(capture string) lipgloss.Style {
	return t.Style(RoleForCapture(capture))
}

// RoleForCapture resolves a tree-sitter capture name to its theme role,
// falling back to RoleDefault for unknown captures.
func RoleForCapture(capture string) Role {
	if role, ok := captureRoles[capture]; ok {
		return role
	}
	return RoleDefault
}

var captureRoles = map[string]Role{
	"comment":    RoleComment,
	"string":     RoleString,
	"number":     RoleNumber,
	"boolean":    RoleBoolean,
	"keyword":    RoleKeyword,
	"function":   RoleFunction,
	"property":   RoleProperty,
	"variable":   RoleVariable,
	"identifier": RoleIdentifier,
}

// DefaultDark is the built-in fallback palette, used when no theme is
// configured and as the base every custom theme is layered onto.
func DefaultDark() *Theme {
	return &Theme{
		Name: "dark",
		styles: map[Role]lipgloss.Style{
			RoleDefault:     lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d4")),
			RoleGutter:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5a5a5a")),
			RoleCursor:      lipgloss.NewStyle().Reverse(true),
			RoleSelection:   lipgloss.NewStyle().Background(lipgloss.Color("#264f78")),
			RoleStatusBar:   lipgloss.NewStyle().Background(lipgloss.Color("#007acc")).Foreground(lipgloss.Color("#ffffff")),
			RoleBorder:      lipgloss.NewStyle().Foreground(lipgloss.Color("#3c3c3c")),
			RoleBorderFocus: lipgloss.NewStyle().Foreground(lipgloss.Color("#007acc")),
			RoleOverlay:     lipgloss.NewStyle().Background(lipgloss.Color("#252526")),
			RoleError:       lipgloss.NewStyle().Foreground(lipgloss.Color("#f44747")),
			RoleComment:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6a9955")),
			RoleString:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ce9178")),
			RoleNumber:      lipgloss.NewStyle().Foreground(lipgloss.Color("#b5cea8")),
			RoleBoolean:     lipgloss.NewStyle().Foreground(lipgloss.Color("#569cd6")),
			RoleKeyword:     lipgloss.NewStyle().Foreground(lipgloss.Color("#c586c0")),
			RoleFunction:    lipgloss.NewStyle().Foreground(lipgloss.Color("#dcdcaa")),
			RoleProperty:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9cdcfe")),
			RoleVariable:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9cdcfe")),
			RoleIdentifier:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d4")),
		},
	}
}

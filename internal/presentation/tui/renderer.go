package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// style is a glamour standard style name ("dark", "light", "notty"...); empty picks one
// from the terminal background.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// TreeMarkdown describes a module tree as a markdown document.
func TreeMarkdown(tree domain.ModuleInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Store `%s`\n\n", tree.Name)
	tree.Walk(func(m domain.ModuleInfo) {
		depth := strings.Count(m.Path, "/")
		indent := strings.Repeat("  ", depth)
		mode := "lenient"
		if m.Strict {
			mode = "strict"
		}
		fmt.Fprintf(&b, "%s- **%s** `%s` (%s)", indent, m.Name, m.Path, mode)
		if keys := plainKeys(m); len(keys) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(keys, ", "))
		}
		b.WriteString("\n")
	})
	return b.String()
}

// plainKeys lists the state keys of m that are not child modules.
func plainKeys(m domain.ModuleInfo) []string {
	children := make(map[string]bool, len(m.Children))
	for _, c := range m.Children {
		children[c.Name] = true
	}
	var keys []string
	for _, k := range m.Keys {
		if !children[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

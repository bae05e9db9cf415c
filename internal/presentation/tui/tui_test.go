package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/nuex/internal/presentation/tui"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() domain.ModuleInfo {
	return domain.ModuleInfo{
		Name: "root",
		Path: "root",
		Keys: []string{"idCounter", "todos"},
		Children: []domain.ModuleInfo{
			{Name: "todos", Path: "root/todos", Strict: true, Keys: []string{"items"}},
		},
	}
}

func TestTreeMarkdown(t *testing.T) {
	md := tui.TreeMarkdown(sampleTree())

	assert.Equal(t, "# Store `root`\n\n"+
		"- **root** `root` (lenient): idCounter\n"+
		"  - **todos** `root/todos` (strict): items\n", md)
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer("notty")
	require.NoError(t, err)

	out, err := render(tui.TreeMarkdown(sampleTree()))

	require.NoError(t, err)
	assert.Contains(t, out, "root/todos")
	assert.Contains(t, out, "idCounter")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)

	assert.Contains(t, buf.String(), `|_| |_|\__,_|\___/_/\_\`)
}

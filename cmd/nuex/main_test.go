package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--config", "testdata-missing.yaml", "--log-level", "error"))
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestVersionCmd(t *testing.T) {
	out := execute(t, "version")
	assert.True(t, strings.HasPrefix(out, "nuex version "))
}

func TestTreeCmd_Raw(t *testing.T) {
	out := execute(t, "tree", "--raw")
	assert.Contains(t, out, "# Store `root`")
	assert.Contains(t, out, "`root/todos` (strict): items")
	assert.Contains(t, out, "`root/counter` (strict): counter")
}

func TestDemoCmd(t *testing.T) {
	out := execute(t, "demo", "--trace=true")
	assert.Contains(t, out, "root/todos/addTodo")
	assert.Contains(t, out, "6 commits journaled")
	assert.Contains(t, out, "idCounter: 2")
}

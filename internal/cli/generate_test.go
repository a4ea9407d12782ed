package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerate_Go(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "model_details.json", `{
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`)
	rootPath := writeSchema(t, dir, "chat_request.json", `{
		"type": "object",
		"properties": {
			"model": {"$ref": "model_details.json"},
			"prompt": {"type": "string"}
		}
	}`)
	outDir := filepath.Join(dir, "out")

	stdout, _, err := execute(t, "generate", rootPath, "--language", "go", "--output", outDir, "--package", "chat")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 2 artifact(s)")

	data, err := os.ReadFile(filepath.Join(outDir, "chat_request.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package chat")
}

func TestGenerate_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	rootPath := writeSchema(t, dir, "solo.json", `{
		"type": "object",
		"properties": {"v": {"type": "string"}}
	}`)
	outDir := filepath.Join(dir, "out")

	stdout, _, err := execute(t, "generate", rootPath, "-l", "python", "-o", outDir, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	require.NotNil(t, resp.Data)
}

func TestGenerate_MissingSchemaIsCommandError(t *testing.T) {
	stdout, _, err := execute(t, "generate", "/nope/missing.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeNotFound)
}

func TestGenerate_UnresolvedPointer(t *testing.T) {
	dir := t.TempDir()
	rootPath := writeSchema(t, dir, "root.json", `{
		"type": "object",
		"properties": {"x": {"$ref": "#/definitions/Ghost"}}
	}`)

	stdout, _, err := execute(t, "generate", rootPath, "-o", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeUnresolved)
}

func TestGenerate_SkipBrokenExitsWithFailure(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "good.json", `{
		"type": "object",
		"properties": {"v": {"type": "string"}}
	}`)
	rootPath := writeSchema(t, dir, "root.json", `{
		"type": "object",
		"properties": {
			"good": {"$ref": "good.json"},
			"bad": {"$ref": "missing.json"}
		}
	}`)

	stdout, _, err := execute(t, "generate", rootPath, "-o", filepath.Join(dir, "out"), "--skip-broken")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Skipped:")
}

func TestGenerate_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	rootPath := writeSchema(t, dir, "solo.json", `{"type": "object"}`)

	_, _, err := execute(t, "generate", rootPath, "--mode", "sideways")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerate_InvalidLanguage(t *testing.T) {
	dir := t.TempDir()
	rootPath := writeSchema(t, dir, "solo.json", `{"type": "object"}`)

	stdout, _, err := execute(t, "generate", rootPath, "-l", "brainfuck")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "unsupported language")
}

func TestRoot_InvalidFormatRejected(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "generate", "whatever.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

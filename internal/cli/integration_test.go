package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// runCLI runs the binary through go run and returns stdout and stderr
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestCLI_GenerateDefaults tests the default command with no flags
func TestCLI_GenerateDefaults(t *testing.T) {
	stdout, stderr, err := runCLI(t, "")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Content, 1)
	root := doc.Content[0]
	assert.Equal(t, yaml.MappingNode, root.Kind)
	assert.Len(t, root.Content, 10, "five key/value pairs")
	assert.Equal(t, "id", root.Content[0].Value)
}

// TestCLI_GenerateToFile tests generation with file output and explicit settings
func TestCLI_GenerateToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "out.json")

	_, stderr, err := runCLI(t, "", "generate", "-n", "3", "-d", "0", "-k", "number", "-f", "json", "-o", outputFile, "--check")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Contains(t, stderr, "Document written to")

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Len(t, doc, 3)
	for key, v := range doc {
		_, ok := v.(float64)
		assert.True(t, ok, "field %s should be a number, got %T", key, v)
	}
}

// TestCLI_SeedIsReproducible tests that one seed always gives one document
func TestCLI_SeedIsReproducible(t *testing.T) {
	first, stderr, err := runCLI(t, "", "--seed", "fixed", "-d", "3", "-c")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	second, _, err := runCLI(t, "", "--seed", "fixed", "-d", "3", "-c")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "{id: "), "compact YAML is a flow mapping: %s", first)
}

// TestCLI_NoKinds tests that an empty kind selection is rejected
func TestCLI_NoKinds(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "treegen.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("generator:\n  kinds: []\n"), 0644))

	_, stderr, err := runCLI(t, "", "--config", configFile)
	assert.Error(t, err, "CLI should fail without any kinds")
	assert.Contains(t, stderr, "at least one value kind")
}

// TestCLI_InvalidFlags tests that out-of-range settings are reported together
func TestCLI_InvalidFlags(t *testing.T) {
	_, stderr, err := runCLI(t, "", "-n", "0", "-a", "0")
	assert.Error(t, err)
	assert.Contains(t, stderr, "Configuration error")
	assert.Contains(t, stderr, "fields must be at least 1")
	assert.Contains(t, stderr, "max array length must be at least 1")
}

// TestCLI_ConvertStdin tests conversion of piped JSON
func TestCLI_ConvertStdin(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"name": "Jane Smith", "age": 25, "active": true}`, "convert")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "name: Jane Smith\nage: 25\nactive: true\n", stdout)
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	_, stderr, err := runCLI(t, `{"name": "Invalid JSON, "age": 30}`, "convert", "--from", "json")
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr, "Parsing error")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "inspect")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr.String(), "empty input")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "treegen version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "generate", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-n, --fields")
	assert.Contains(t, helpOutput, "-d, --depth")
	assert.Contains(t, helpOutput, "-a, --array-length")
	assert.Contains(t, helpOutput, "-s, --string-length")
	assert.Contains(t, helpOutput, "-k, --kinds")
	assert.Contains(t, helpOutput, "-f, --format")
	assert.Contains(t, helpOutput, "-o, --output")
}

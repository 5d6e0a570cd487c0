package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/mcncl/treegen/internal/config"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
	"github.com/mcncl/treegen/internal/output"
	"github.com/mcncl/treegen/internal/parser"
	"github.com/mcncl/treegen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newContext() *Context {
	return &Context{Debug: false, Config: config.NewConfig()}
}

// captureStdout redirects document output into a buffer for one test
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	original := output.Stdout
	var buf bytes.Buffer
	output.Stdout = &buf
	t.Cleanup(func() { output.Stdout = original })
	return &buf
}

func TestParseArgs_DefaultCommand(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	p, err := kong.New(&CLI, kong.Name("treegen"))
	require.NoError(t, err)

	ctx, err := p.Parse([]string{"-n", "3", "-k", "string,number", "--seed", "abc", "-c"})
	require.NoError(t, err)

	assert.Equal(t, "generate", ctx.Command())
	require.NotNil(t, CLI.Generate.Fields)
	assert.Equal(t, 3, *CLI.Generate.Fields)
	assert.Equal(t, []string{"string", "number"}, CLI.Generate.Kinds)
	require.NotNil(t, CLI.Generate.Seed)
	assert.Equal(t, "abc", *CLI.Generate.Seed)
	require.NotNil(t, CLI.Generate.Compact)
	assert.True(t, *CLI.Generate.Compact)
	assert.Nil(t, CLI.Generate.Depth, "unset flags stay nil so the config file wins")
	assert.Nil(t, CLI.Generate.Compress)
}

func TestParseArgs_NegatedFlags(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	p, err := kong.New(&CLI, kong.Name("treegen"))
	require.NoError(t, err)

	_, err = p.Parse([]string{"generate", "--no-compact", "--no-compress"})
	require.NoError(t, err)

	require.NotNil(t, CLI.Generate.Compact)
	assert.False(t, *CLI.Generate.Compact)
	require.NotNil(t, CLI.Generate.Compress)
	assert.False(t, *CLI.Generate.Compress)
}

func TestParseArgs_Subcommands(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	p, err := kong.New(&CLI, kong.Name("treegen"))
	require.NoError(t, err)

	ctx, err := p.Parse([]string{"convert", "-g", "data/**/*.json", "--to", "yaml"})
	require.NoError(t, err)
	assert.Equal(t, "convert", ctx.Command())
	assert.Equal(t, "data/**/*.json", CLI.Convert.Glob)
	assert.Equal(t, "yaml", CLI.Convert.To)

	ctx, err = p.Parse([]string{"inspect", "--format", "json"})
	require.NoError(t, err)
	assert.Equal(t, "inspect", ctx.Command())
	assert.Equal(t, "json", CLI.Inspect.Format)
}

func TestGenerate_WithOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	cmd := &GenerateCmd{Output: outPath, Seed: ptr("file"), Check: true}
	require.NoError(t, cmd.Run(newContext()))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)

	tree, err := parser.ParseString(string(content), models.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, models.KindObject, tree.Kind)
	assert.Len(t, tree.Fields, 5)
	assert.Equal(t, "id", tree.Fields[0].Key)
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	for _, path := range []string{first, second} {
		cmd := &GenerateCmd{Output: path, Seed: ptr("repeat"), Format: ptr("json"), Depth: ptr(3)}
		require.NoError(t, cmd.Run(newContext()))
	}

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_CompactJSONToStdout(t *testing.T) {
	buf := captureStdout(t)

	cmd := &GenerateCmd{
		Fields:  ptr(3),
		Depth:   ptr(0),
		Kinds:   []string{"numbers"},
		Format:  ptr("json"),
		Compact: ptr(true),
	}
	require.NoError(t, cmd.Run(newContext()))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), "compact JSON is a single line")

	tree, err := parser.ParseString(out, models.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "title"}, tree.Keys())
	for _, f := range tree.Fields {
		assert.Equal(t, models.KindNumber, f.Value.Kind)
	}
}

func TestGenerate_ConfigFileValuesApply(t *testing.T) {
	buf := captureStdout(t)

	ctx := newContext()
	ctx.Config.Generator.Fields = 2
	ctx.Config.Generator.MaxDepth = 0
	ctx.Config.Generator.Kinds = config.KindList{"boolean"}

	require.NoError(t, (&GenerateCmd{}).Run(ctx))

	tree, err := parser.ParseString(buf.String(), models.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, tree.Keys())
}

func TestGenerate_CompressedOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.yaml.lz4")

	cmd := &GenerateCmd{Output: outPath, Seed: ptr("lz4")}
	require.NoError(t, cmd.Run(newContext()))

	tree, err := parser.ParseFile(outPath)
	require.NoError(t, err)
	assert.Len(t, tree.Fields, 5)
}

func TestGenerate_CompressAddsExtension(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.yaml")

	cmd := &GenerateCmd{Output: outPath, Seed: ptr("lz4"), Compress: ptr(true)}
	require.NoError(t, cmd.Run(newContext()))

	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "compressed data must not land in a plain .yaml file")

	data, _, err := readDocument(InputFlags{Input: outPath + models.CompressedExt}, "")
	require.NoError(t, err)
	tree, err := parser.ParseString(string(data), models.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, tree.Fields, 5)
}

func TestGenerate_FlagsTurnOffConfigSettings(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	ctx := newContext()
	ctx.Config.Compact = true
	ctx.Config.Output.Compress = true

	cmd := &GenerateCmd{Output: outPath, Seed: ptr("plain"), Compact: ptr(false), Compress: ptr(false)}
	require.NoError(t, cmd.Run(ctx))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(content), "{"), "block layout expected")

	tree, err := parser.ParseString(string(content), models.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, tree.Fields, 5)
}

func TestLoadConfig_DebugFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treegen.yml")
	require.NoError(t, os.WriteFile(path, []byte("dev:\n  debug: false\n"), 0644))

	cfg, used, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.True(t, cfg.Dev.Debug, "--debug wins over the file")

	cfg, _, err = loadConfig(path, false)
	require.NoError(t, err)
	assert.False(t, cfg.Dev.Debug)
}

func TestGenerate_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *GenerateCmd
		wantErr error
	}{
		{"zero fields", &GenerateCmd{Fields: ptr(0)}, errors.ErrInvalidBound},
		{"unknown kind", &GenerateCmd{Kinds: []string{"widget"}}, errors.ErrUnknownKind},
		{"unknown format", &GenerateCmd{Format: ptr("toml")}, errors.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(newContext())
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConfig}))
		})
	}
}

func TestGenerate_NoKinds(t *testing.T) {
	ctx := newContext()
	ctx.Config.Generator.Kinds = config.KindList{}

	err := (&GenerateCmd{}).Run(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoKinds))
}

func TestConvert_FileToStdout(t *testing.T) {
	buf := captureStdout(t)

	inPath := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(inPath, []byte(`{"name": "John", "age": 30, "tags": ["a"]}`), 0644))

	cmd := &ConvertCmd{InputFlags: InputFlags{Input: inPath}}
	require.NoError(t, cmd.Run(newContext()))

	assert.Equal(t, "name: John\nage: 30\ntags:\n  - a\n", buf.String())
}

func TestConvert_ExplicitFormats(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "doc.txt")
	outPath := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(inPath, []byte("id: 1\nok: true\n"), 0644))

	cmd := &ConvertCmd{
		InputFlags: InputFlags{Input: inPath},
		From:       "yaml",
		To:         "json",
		Compact:    true,
		Output:     outPath,
	}
	require.NoError(t, cmd.Run(newContext()))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"ok":true}`+"\n", string(content))
}

func TestConvert_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.yaml"), []byte("id: [1, 2]\n"), 0644))

	cmd := &ConvertCmd{Glob: filepath.Join(dir, "**", "*.yaml"), To: "json"}
	require.NoError(t, cmd.Run(newContext()))

	content, err := os.ReadFile(filepath.Join(dir, "sub", "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": [\n    1,\n    2\n  ]\n}\n", string(content))
}

func TestConvert_GlobNeedsTarget(t *testing.T) {
	cmd := &ConvertCmd{Glob: "*.json"}
	err := cmd.Run(newContext())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownFormat))
}

func TestInspect_File(t *testing.T) {
	buf := captureStdout(t)

	cmd := &InspectCmd{InputFlags: InputFlags{Input: filepath.Join("testdata", "samples", "person.yaml")}}
	require.NoError(t, cmd.Run(newContext()))

	out := buf.String()
	assert.Contains(t, out, "METRIC")
	assert.Contains(t, out, "object")
	assert.Contains(t, out, "max nesting")
}

func TestInspect_InvalidDocument(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(inPath, []byte(`{"invalid": json}`), 0644))

	err := (&InspectCmd{InputFlags: InputFlags{Input: inPath}}).Run(newContext())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidData))
}

func TestReadDocument_Errors(t *testing.T) {
	dir := t.TempDir()
	emptyPath := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0644))

	_, _, err := readDocument(InputFlags{Input: emptyPath}, "")
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))

	_, _, err = readDocument(InputFlags{Input: filepath.Join(dir, "missing.yaml")}, "")
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))

	_, _, err = readDocument(InputFlags{Input: emptyPath}, "xml")
	assert.Error(t, err)
}

func TestReadDocument_FromStdin(t *testing.T) {
	// Save original stdin
	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(`[{"item": "apple"}, {"item": "banana"}]`)
	}()
	os.Stdin = r
	defer func() { _ = r.Close() }()

	data, format, err := readDocument(InputFlags{}, "")
	require.NoError(t, err)
	assert.Equal(t, models.FormatJSON, format, "content sniffing picks JSON")

	tree, err := parser.ParseString(string(data), format)
	require.NoError(t, err)
	assert.Equal(t, models.KindArray, tree.Kind)
	assert.Len(t, tree.Items, 2)
}

func TestReadDocument_EmptyStdin(t *testing.T) {
	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_ = w.Close()
	os.Stdin = r
	defer func() { _ = r.Close() }()

	_, _, err = readDocument(InputFlags{}, "")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))
}

func TestWriteOutput_FileError(t *testing.T) {
	err := writeOutput(newContext(), "id: 1\n", "/non/existent/dir/out.yaml", false)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeOutput}))
}

func TestGenerate_Schema(t *testing.T) {
	buf := captureStdout(t)

	cmd := &GenerateCmd{Schema: true, Format: ptr("json"), Fields: ptr(2), Depth: ptr(1)}
	require.NoError(t, cmd.Run(newContext()))

	s, err := schema.ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, s.Required)
	assert.Len(t, s.Defs, 2)
}

func TestGenerate_SchemaAsYAML(t *testing.T) {
	buf := captureStdout(t)

	require.NoError(t, (&GenerateCmd{Schema: true}).Run(newContext()))
	assert.Contains(t, buf.String(), "$schema: https://json-schema.org/draft/2020-12/schema\n")
}

func TestInspect_Schema(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(docPath, []byte(`{"id": 1, "name": "x"}`), 0644))
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte("type: object\nproperties:\n  id:\n    type: string\n"), 0644))

	err := (&InspectCmd{InputFlags: InputFlags{Input: docPath}, Schema: schemaPath}).Run(newContext())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSchemaViolation))
	assert.Contains(t, err.Error(), "$.id: got number, want string")

	require.NoError(t, os.WriteFile(schemaPath, []byte("type: object\nrequired: [id]\n"), 0644))
	assert.NoError(t, (&InspectCmd{InputFlags: InputFlags{Input: docPath}, Schema: schemaPath}).Run(newContext()))
}

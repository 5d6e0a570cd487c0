package generator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/treegen/internal/analyzer"
	"github.com/mcncl/treegen/internal/config"
	"github.com/mcncl/treegen/internal/formatter"
	"github.com/mcncl/treegen/internal/generator"
	"github.com/mcncl/treegen/internal/models"
	"github.com/mcncl/treegen/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_ConfigGeneratorAnalyzer(t *testing.T) {
	// Config file -> Options -> Generator -> Analyzer
	configContent := `seed: pipeline
generator:
  fields: 4
  max_depth: 2
  max_array_length: 3
  max_string_length: 6
  kinds: [strings, arrays, objects]
`
	path := filepath.Join(t.TempDir(), ".treegen.yml")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)

	gen := generator.NewGenerator(opts, cfg.Source())
	tree, err := gen.Generate()
	require.NoError(t, err)

	stats, err := analyzer.Analyze(tree)
	require.NoError(t, err)
	require.NoError(t, analyzer.Check(stats, opts))

	assert.Equal(t, 4, stats.RootWidth)
	assert.Zero(t, stats.Count(models.KindNumber))
	assert.Zero(t, stats.Count(models.KindBoolean))
	assert.Zero(t, stats.Count(models.KindNull))
	assert.LessOrEqual(t, stats.MaxNesting, 2)
}

func TestIntegration_SeededPipelineIsStable(t *testing.T) {
	// Same seed, same options: identical text in both formats
	opts := generator.DefaultOptions()
	opts.MaxDepth = 3

	for _, format := range []models.Format{models.FormatYAML, models.FormatJSON} {
		var outputs []string
		for i := 0; i < 2; i++ {
			tree, err := generator.NewGenerator(opts, generator.NewSeededSource("stable")).Generate()
			require.NoError(t, err)
			text, err := formatter.Format(tree, format, false)
			require.NoError(t, err)
			outputs = append(outputs, text)
		}
		assert.Equal(t, outputs[0], outputs[1], "format %s", format)

		parsed, err := parser.ParseString(outputs[0], format)
		require.NoError(t, err)
		assert.Equal(t, models.KindObject, parsed.Kind)
	}
}

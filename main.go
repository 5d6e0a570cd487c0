package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/treegen/internal/analyzer"
	"github.com/mcncl/treegen/internal/config"
	"github.com/mcncl/treegen/internal/converter"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/formatter"
	"github.com/mcncl/treegen/internal/generator"
	"github.com/mcncl/treegen/internal/models"
	"github.com/mcncl/treegen/internal/output"
	"github.com/mcncl/treegen/internal/parser"
	"github.com/mcncl/treegen/internal/schema"
)

// CLI defines the command-line interface
var CLI struct {
	Config  string `help:"Path to a configuration file. Defaults to the nearest .treegen.yml." type:"path"`
	Debug   bool   `help:"Enable debug logging."`
	Version bool   `help:"Show version information." short:"v"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate a random YAML or JSON document (default)."`
	Convert  ConvertCmd  `cmd:"" help:"Convert documents between YAML and JSON."`
	Inspect  InspectCmd  `cmd:"" help:"Print shape statistics for a YAML or JSON document."`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

func (c *Context) debugf(format string, args ...any) {
	if c.Debug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		c.Config = config.NewConfig()
	}
	return c.Config
}

// Version information
const (
	Version = "0.1.0"
)

// largeTree is the node bound above which generate warns before running.
const largeTree = 1_000_000

func main() {
	parser := kong.Must(&CLI,
		kong.Name("treegen"),
		kong.Description("A tool to generate random YAML and JSON documents"),
		kong.UsageOnError(),
	)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if CLI.Version {
		fmt.Printf("treegen version %s\n", Version)
		return
	}

	cfg, usedPath, err := loadConfig(CLI.Config, CLI.Debug)
	if err != nil {
		exitWithError(err)
	}

	runCtx := &Context{Debug: cfg.Dev.Debug, Config: cfg}
	if usedPath != "" {
		runCtx.debugf("using configuration from %s", usedPath)
	}

	if err := ctx.Run(runCtx); err != nil {
		exitWithError(err)
	}
}

// loadConfig resolves the configuration of a run. --debug can only turn
// debugging on; without it the file decides.
func loadConfig(path string, debug bool) (*config.Config, string, error) {
	var overrides config.Overrides
	if debug {
		overrides.Debug = &debug
	}
	return config.Load(path, overrides)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: treegen --help\n")
	os.Exit(1)
}

// GenerateCmd generates one random document. Flags that are not given fall
// back to the configuration file, then to the built-in defaults.
type GenerateCmd struct {
	Fields       *int     `help:"Number of fields in the root mapping." short:"n"`
	Depth        *int     `help:"Maximum nesting depth." short:"d"`
	ArrayLength  *int     `help:"Maximum sequence length." short:"a"`
	StringLength *int     `help:"Bound for random string lengths (strings are 3 to N+2 characters)." short:"s"`
	Kinds        []string `help:"Value kinds to include: string, number, boolean, null, array, object." short:"k" sep:","`
	Compact      *bool    `help:"Emit single-line flow output." short:"c" negatable:""`
	Format       *string  `help:"Output format (yaml or json)." short:"f"`
	Seed         *string  `help:"Seed for a reproducible document."`
	Output       string   `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Compress     *bool    `help:"Compress the output with lz4 (adds .lz4 to the output path)." short:"z" negatable:""`
	Check        bool     `help:"Verify the document against the generator settings before writing it."`
	Schema       bool     `help:"Write the JSON Schema that documents generated with these settings satisfy, instead of a document."`
}

func (g *GenerateCmd) overrides() config.Overrides {
	o := config.Overrides{
		Format:          g.Format,
		Seed:            g.Seed,
		Fields:          g.Fields,
		MaxDepth:        g.Depth,
		MaxArrayLength:  g.ArrayLength,
		MaxStringLength: g.StringLength,
		Kinds:           g.Kinds,
		Compact:         g.Compact,
		Compress:        g.Compress,
	}
	if g.Output != "" {
		o.OutputPath = &g.Output
	}
	return o
}

// Run generates, optionally checks, serializes and writes a document
func (g *GenerateCmd) Run(ctx *Context) error {
	cfg := ctx.config()
	cfg.ApplyOverrides(g.overrides())

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	if n := opts.MaxNodes(); n > largeTree {
		fmt.Fprintf(os.Stderr, "Warning: these settings allow up to %d values; generation may be slow\n", n)
	}
	ctx.debugf("generating %s with fields=%d depth=%d array=%d string=%d kinds=%s seed=%q",
		format, opts.Fields, opts.MaxDepth, opts.MaxArrayLength, opts.MaxStringLength, opts.Kinds, cfg.Seed)

	if g.Schema {
		return writeSchema(ctx, opts, format, cfg)
	}

	tree, err := generator.NewGenerator(opts, cfg.Source()).Generate()
	if err != nil {
		return errors.NewGenerateError("failed to generate document", err)
	}

	if g.Check {
		if err := checkDocument(ctx, tree, opts); err != nil {
			return err
		}
	}

	text, err := formatter.Format(tree, format, opts.Compact)
	if err != nil {
		return err
	}
	return writeOutput(ctx, text, cfg.Output.Path, cfg.Output.Compress)
}

// checkDocument verifies tree against the statistics bounds of opts and
// against the schema Describe derives from them
func checkDocument(ctx *Context, tree models.Value, opts generator.Options) error {
	stats, err := analyzer.Analyze(tree)
	if err != nil {
		return err
	}
	if err := analyzer.Check(stats, opts); err != nil {
		return err
	}

	s, err := schema.Describe(opts)
	if err != nil {
		return err
	}
	if err := schema.Validate(s, tree); err != nil {
		return err
	}
	ctx.debugf("check passed: %d values, nesting %d", stats.Nodes, stats.MaxNesting)
	return nil
}

// writeSchema writes the schema for opts in the configured format
func writeSchema(ctx *Context, opts generator.Options, format models.Format, cfg *config.Config) error {
	s, err := schema.Describe(opts)
	if err != nil {
		return err
	}
	data, err := schema.Marshal(s)
	if err != nil {
		return err
	}
	text, err := converter.NewConverter(opts.Compact).Convert(data, models.FormatJSON, format)
	if err != nil {
		return err
	}
	ctx.debugf("schema has %d definitions", len(s.Defs))
	return writeOutput(ctx, text, cfg.Output.Path, cfg.Output.Compress)
}

// InputFlags select where a document is read from
type InputFlags struct {
	Input       string `help:"Path to the input document. If not specified, reads from stdin." short:"i" type:"path"`
	Interactive bool   `help:"Paste a document on the terminal and press Ctrl+D to process it." short:"I"`
}

// ConvertCmd converts a document, or a set of files, to another format
type ConvertCmd struct {
	InputFlags `embed:""`

	From    string `help:"Input format (yaml or json). Inferred from the file extension or content when empty."`
	To      string `help:"Output format (yaml or json). Defaults to the other format."`
	Compact bool   `help:"Emit single-line flow output." short:"c"`
	Output  string `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Glob    string `help:"Convert every file matching this pattern next to its source, e.g. 'data/**/*.json'." short:"g"`
}

// Run converts the selected input
func (c *ConvertCmd) Run(ctx *Context) error {
	conv := converter.NewConverter(c.Compact)

	if c.Glob != "" {
		to, err := formatFlag("--to", c.To)
		if err != nil {
			return err
		}
		results, err := conv.ConvertFiles(c.Glob, to)
		for _, res := range results {
			fmt.Fprintf(os.Stderr, "Converted %s -> %s\n", res.Source, res.Target)
		}
		return err
	}

	data, from, err := readDocument(c.InputFlags, c.From)
	if err != nil {
		return err
	}
	to := otherFormat(from)
	if c.To != "" {
		if to, err = formatFlag("--to", c.To); err != nil {
			return err
		}
	}
	ctx.debugf("converting %s to %s", from, to)

	text, err := conv.Convert(data, from, to)
	if err != nil {
		return err
	}
	return writeOutput(ctx, text, c.Output, false)
}

// InspectCmd prints a statistics table for one document
type InspectCmd struct {
	InputFlags `embed:""`

	Format string `help:"Input format (yaml or json). Inferred from the file extension or content when empty."`
	Schema string `help:"Validate the document against this JSON Schema file (JSON or YAML)." type:"path"`
}

// Run analyzes the input and prints the report to stdout
func (i *InspectCmd) Run(ctx *Context) error {
	data, format, err := readDocument(i.InputFlags, i.Format)
	if err != nil {
		return err
	}
	ctx.debugf("inspecting %d bytes of %s", len(data), format)

	tree, err := parser.ParseString(string(data), format)
	if err != nil {
		return err
	}
	stats, err := analyzer.Analyze(tree)
	if err != nil {
		return err
	}
	analyzer.WriteReport(output.Stdout, stats)

	if i.Schema == "" {
		return nil
	}
	v, err := schema.CompileFile(i.Schema)
	if err != nil {
		return err
	}
	if err := v.Validate(tree); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Document matches schema %s\n", i.Schema)
	return nil
}

func formatFlag(name, value string) (models.Format, error) {
	f, err := models.ParseFormat(value)
	if err != nil {
		return f, errors.NewInputError(fmt.Sprintf("%s: %v", name, err), errors.ErrUnknownFormat)
	}
	return f, nil
}

func otherFormat(f models.Format) models.Format {
	if f == models.FormatJSON {
		return models.FormatYAML
	}
	return models.FormatJSON
}

// readDocument reads the raw input and settles its format: the explicit
// name if given, then the file extension, then the content.
func readDocument(in InputFlags, formatName string) ([]byte, models.Format, error) {
	var (
		data []byte
		err  error
	)
	if in.Input != "" {
		data, err = parser.ReadFile(in.Input)
	} else {
		data, err = readStdin(in.Interactive)
	}
	if err != nil {
		return nil, models.FormatYAML, err
	}

	if formatName != "" {
		f, err := formatFlag("input format", formatName)
		return data, f, err
	}
	if in.Input != "" {
		if f, err := models.FormatFromPath(in.Input); err == nil {
			return data, f, nil
		}
	}
	return data, parser.DetectFormat(data), nil
}

// readStdin reads a piped document, or a pasted one in interactive mode
func readStdin(interactive bool) ([]byte, error) {
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// readInteractiveInput collects a pasted document until Ctrl+D (EOF)
func readInteractiveInput() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "treegen interactive mode")
	fmt.Fprintln(os.Stderr, "Paste your YAML or JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var data []byte
	for {
		line, err := reader.ReadBytes('\n')
		data = append(data, line...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	fmt.Fprintln(os.Stderr, "\nProcessing...")
	return data, nil
}

// writeOutput writes text to path, or to stdout when path is empty.
// Compressed files always carry the .lz4 extension so they can be read back.
func writeOutput(ctx *Context, text, path string, compress bool) error {
	path = output.CompressedPath(path, compress)
	if err := output.Write(path, []byte(text), compress); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "Document written to %s\n", path)
	} else {
		ctx.debugf("wrote %d bytes to stdout", len(text))
	}
	return nil
}

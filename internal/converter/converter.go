// Package converter translates documents between YAML and JSON.
package converter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/formatter"
	"github.com/mcncl/treegen/internal/models"
	"github.com/mcncl/treegen/internal/output"
	"github.com/mcncl/treegen/internal/parser"
)

// Result describes one converted file.
type Result struct {
	Source string
	Target string
}

// Converter parses documents in one format and serializes them in another
type Converter struct {
	formatter *formatter.Formatter
	compact   bool
}

// NewConverter creates a Converter. Compact selects flow/single-line output.
func NewConverter(compact bool) *Converter {
	return &Converter{
		formatter: formatter.NewFormatter(),
		compact:   compact,
	}
}

// Convert parses data as `from` and returns it serialized as `to`.
func (c *Converter) Convert(data []byte, from, to models.Format) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	tree, err := parser.Parse(bytes.NewReader(data), from)
	if err != nil {
		return "", err
	}
	return c.formatter.Format(tree, to, c.compact)
}

// ConvertFile converts the file at path and writes the result next to it with
// the extension of `to`. A .lz4 suffix on the source is carried to the target.
func (c *Converter) ConvertFile(path string, to models.Format) (Result, error) {
	tree, err := parser.ParseFile(path)
	if err != nil {
		return Result{}, err
	}
	text, err := c.formatter.Format(tree, to, c.compact)
	if err != nil {
		return Result{}, err
	}

	target := TargetPath(path, to)
	if err := output.Write(target, []byte(text), false); err != nil {
		return Result{}, err
	}
	return Result{Source: path, Target: target}, nil
}

// ConvertFiles converts every file matching pattern (doublestar syntax, so
// "data/**/*.json" descends into subdirectories). Files already in the target
// format are skipped. All failures are collected; converted files are
// returned even when some conversions fail.
func (c *Converter) ConvertFiles(pattern string, to models.Format) ([]Result, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, errors.NewInputError(fmt.Sprintf("invalid glob pattern '%s'", pattern), errors.ErrInvalidFilePath)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to expand pattern '%s'", pattern), err)
	}

	var (
		results []Result
		failed  *multierror.Error
		tried   int
	)
	for _, path := range matches {
		from, err := models.FormatFromPath(path)
		if err != nil || from == to {
			continue
		}
		tried++
		res, err := c.ConvertFile(path, to)
		if err != nil {
			failed = multierror.Append(failed, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results = append(results, res)
	}

	if tried == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("no convertible files match '%s'", pattern), errors.ErrNoMatches)
	}
	if err := failed.ErrorOrNil(); err != nil {
		return results, errors.NewOutputError(fmt.Sprintf("%d of %d files failed to convert", len(failed.Errors), tried), err)
	}
	return results, nil
}

// TargetPath swaps the format extension of path for the one of `to`.
func TargetPath(path string, to models.Format) string {
	compressed := models.IsCompressedPath(path)
	base := path
	if compressed {
		base = base[:len(base)-len(models.CompressedExt)]
	}
	ext := filepath.Ext(base)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".json":
		base = strings.TrimSuffix(base, ext)
	}
	target := base + to.Extension()
	if compressed {
		target += models.CompressedExt
	}
	return target
}


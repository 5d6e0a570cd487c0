package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/treegen/internal/errors" // Custom errors package
	"github.com/mcncl/treegen/internal/models"
	"github.com/pierrec/lz4/v4"
)

// Parse reads a single document in the given format from reader
func Parse(reader io.Reader, format models.Format) (models.Value, error) {
	switch format {
	case models.FormatJSON:
		return parseJSON(reader)
	case models.FormatYAML:
		return parseYAML(reader)
	default:
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("unsupported format %v", format), errors.ErrUnknownFormat)
	}
}

// ParseString parses a document from a string
func ParseString(data string, format models.Format) (models.Value, error) {
	if strings.TrimSpace(data) == "" {
		return models.Value{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(data), format)
}

// ParseFile parses a document from a file path. The format is inferred from
// the extension; files ending in .lz4 are decompressed first.
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	format, err := models.FormatFromPath(filePath)
	if err != nil {
		return models.Value{}, errors.NewInputError(err.Error(), errors.ErrUnknownFormat)
	}
	return ParseFileAs(filePath, format)
}

// ParseFileAs parses a document from a file path using an explicit format.
func ParseFileAs(filePath string, format models.Format) (models.Value, error) {
	data, err := ReadFile(filePath)
	if err != nil {
		return models.Value{}, err
	}
	return Parse(bytes.NewReader(data), format)
}

// ReadFile returns the contents of a document file, decompressing it when the
// name ends in .lz4. Missing and empty files are input errors.
func ReadFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	var reader io.Reader = file
	if models.IsCompressedPath(filePath) {
		reader = lz4.NewReader(file)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	return data, nil
}

// DetectFormat guesses the format of an untyped document. Input that opens
// with a JSON object, array or string is JSON; anything else is read as YAML.
func DetectFormat(data []byte) models.Format {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[', '"':
			return models.FormatJSON
		default:
			return models.FormatYAML
		}
	}
	return models.FormatYAML
}

package parser

import (
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
)

func parseJSON(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Keep literals so integers and floats stay distinct

	root, err := decodeJSONValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Value{}, wrapJSONError(err, decoder)
	}

	// Anything but EOF after the first value is a second document or garbage.
	if _, err := decoder.Token(); err != io.EOF {
		if err == nil {
			return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleDocuments)
		}
		return models.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	return root, nil
}

func wrapJSONError(err error, decoder *json.Decoder) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			errors.ErrInvalidData,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.NewParsingError(
			fmt.Sprintf("unexpected end of JSON input at offset %d", decoder.InputOffset()),
			errors.ErrInvalidData,
		)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// decodeJSONValue reads one value from the token stream, preserving key order.
func decodeJSONValue(decoder *json.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(decoder)
		case '[':
			return decodeJSONArray(decoder)
		default:
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("unexpected delimiter %q", t), errors.ErrInvalidData)
		}
	case string:
		return models.String(t), nil
	case json.Number:
		return numberFromLiteral(string(t))
	case bool:
		return models.Bool(t), nil
	case nil:
		return models.Null(), nil
	default:
		return models.Value{}, fmt.Errorf("unexpected JSON token: %T", t)
	}
}

func decodeJSONObject(decoder *json.Decoder) (models.Value, error) {
	fields := make([]models.Field, 0)
	seen := make(map[string]struct{})

	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return models.Value{}, truncated(err)
		}
		key, ok := tok.(string)
		if !ok {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("expected object key, got %v", tok), errors.ErrInvalidData)
		}
		if _, dup := seen[key]; dup {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("duplicate key %q", key), errors.ErrDuplicateKey)
		}
		seen[key] = struct{}{}

		value, err := decodeJSONValue(decoder)
		if err != nil {
			return models.Value{}, truncated(err)
		}
		fields = append(fields, models.Field{Key: key, Value: value})
	}

	// Consume the closing brace.
	if _, err := decoder.Token(); err != nil {
		return models.Value{}, truncated(err)
	}
	return models.Mapping(fields...), nil
}

func decodeJSONArray(decoder *json.Decoder) (models.Value, error) {
	items := make([]models.Value, 0)
	for decoder.More() {
		item, err := decodeJSONValue(decoder)
		if err != nil {
			return models.Value{}, truncated(err)
		}
		items = append(items, item)
	}

	if _, err := decoder.Token(); err != nil {
		return models.Value{}, truncated(err)
	}
	return models.Sequence(items...), nil
}

// truncated reports EOF inside a container as an unexpected end of input.
func truncated(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// numberFromLiteral keeps integer literals as integers. Integers too large
// for int64 degrade to floats.
func numberFromLiteral(lit string) (models.Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return models.Int(n), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("invalid number %q", lit), errors.ErrInvalidData)
	}
	return models.Float(f), nil
}

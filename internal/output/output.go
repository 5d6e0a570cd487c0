// Package output writes serialized documents to stdout or files.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
	"github.com/pierrec/lz4/v4"
)

// Stdout is where Write sends data when no path is given. Tests replace it.
var Stdout io.Writer = os.Stdout

// Write stores data at path, or on Stdout when path is empty. Data is lz4
// compressed when compress is set or path ends in .lz4.
func Write(path string, data []byte, compress bool) error {
	if path == "" {
		if compress {
			return WriteTo(Stdout, data, true)
		}
		if _, err := Stdout.Write(data); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", path), err)
	}
	if err := WriteTo(file, data, compress || models.IsCompressedPath(path)); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	return nil
}

// CompressedPath appends the .lz4 extension to a file path that will hold
// compressed data and lacks it. Stdout (empty path) is left alone.
func CompressedPath(path string, compress bool) string {
	if path == "" || !compress || models.IsCompressedPath(path) {
		return path
	}
	return path + models.CompressedExt
}

// WriteTo writes data to w, wrapped in an lz4 frame when compress is set.
func WriteTo(w io.Writer, data []byte, compress bool) error {
	if !compress {
		if _, err := w.Write(data); err != nil {
			return errors.NewOutputError("failed to write output", err)
		}
		return nil
	}

	zw := lz4.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		return errors.NewOutputError("failed to compress output", err)
	}
	if err := zw.Close(); err != nil {
		return errors.NewOutputError("failed to flush compressed output", err)
	}
	return nil
}


// Package writer serializes export documents as JSON, optionally compressed
// with gzip or zstd.
package writer

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stamp/pkg/compression"
)

// Writer encodes a value of type T to a stream.
type Writer[T any] interface {
	Write(data T, w io.Writer) error
	// Extension is the file extension used for this encoding, with the dot.
	Extension() string
}

// JSONWriter writes data as JSON.
type JSONWriter[T any] struct {
	// Indent is the indentation for pretty printing. Empty means compact.
	Indent string
}

// NewJSONWriter creates a JSON writer with compact output.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{}
}

// NewPrettyJSONWriter creates a JSON writer with two-space indentation.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  "}
}

// Write encodes data as JSON.
func (w *JSONWriter[T]) Write(data T, out io.Writer) error {
	encoder := json.NewEncoder(out)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	return encoder.Encode(data)
}

// Extension returns ".json".
func (w *JSONWriter[T]) Extension() string { return ".json" }

// GzipWriter writes data as gzipped JSON.
type GzipWriter[T any] struct {
	// CompressionLevel is the gzip level, gzip.DefaultCompression or 1-9.
	CompressionLevel int
}

// NewGzipWriter creates a gzip writer with default compression.
func NewGzipWriter[T any]() *GzipWriter[T] {
	return &GzipWriter[T]{CompressionLevel: gzip.DefaultCompression}
}

// NewGzipWriterWithLevel creates a gzip writer with the given level.
func NewGzipWriterWithLevel[T any](level int) *GzipWriter[T] {
	return &GzipWriter[T]{CompressionLevel: level}
}

// Write encodes data as gzipped JSON.
func (w *GzipWriter[T]) Write(data T, out io.Writer) error {
	gz, err := gzip.NewWriterLevel(out, w.CompressionLevel)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if err := json.NewEncoder(gz).Encode(data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return gz.Close()
}

// Extension returns ".json.gz".
func (w *GzipWriter[T]) Extension() string { return ".json.gz" }

// ZstdWriter writes data as zstd compressed JSON.
type ZstdWriter[T any] struct {
	Level compression.Level
}

// NewZstdWriter creates a zstd writer with the default level.
func NewZstdWriter[T any]() *ZstdWriter[T] {
	return &ZstdWriter[T]{Level: compression.LevelDefault}
}

// Write encodes data as zstd compressed JSON.
func (w *ZstdWriter[T]) Write(data T, out io.Writer) error {
	zw, err := compression.NewWriter(out, compression.TypeZstd, w.Level)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(zw).Encode(data); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return zw.Close()
}

// Extension returns ".json.zst".
func (w *ZstdWriter[T]) Extension() string { return ".json.zst" }

// WriteResult describes a written file.
type WriteResult struct {
	Path string
	Size int64
}

// WriteFile encodes data into path, creating parent directories.
func WriteFile[T any](w Writer[T], data T, path string) (*WriteResult, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	counter := &countingWriter{w: file}
	if err := w.Write(data, counter); err != nil {
		return nil, err
	}
	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync file: %w", err)
	}

	return &WriteResult{Path: path, Size: counter.n}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Package document connects documents on disk or on standard streams to the
// turn notation and a completion provider.
package document

import (
	"fmt"
	"io"
	"os"
)

// Source supplies the full current text of a document.
type Source interface {
	Text() (string, error)
}

// Sink receives a rendered fragment to append at the end of a document.
type Sink interface {
	Append(fragment string) error
}

// File is a document stored at Path. It is both a Source and a Sink.
type File struct {
	Path string
}

// Text reads the whole file.
func (f File) Text() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("document not found: %s", f.Path)
		}
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

// Append writes fragment after the existing content of the file.
func (f File) Append(fragment string) error {
	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open document for writing: %w", err)
	}
	if _, err := file.WriteString(fragment); err != nil {
		file.Close()
		return fmt.Errorf("failed to append to document: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	return nil
}

// Reader is a Source backed by an io.Reader, read once.
type Reader struct {
	R io.Reader
}

func (r Reader) Text() (string, error) {
	data, err := io.ReadAll(r.R)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

// Writer is a Sink that writes fragments to an io.Writer followed by a newline.
type Writer struct {
	W io.Writer
}

func (w Writer) Append(fragment string) error {
	if _, err := fmt.Fprintln(w.W, fragment); err != nil {
		return fmt.Errorf("failed to write fragment: %w", err)
	}
	return nil
}

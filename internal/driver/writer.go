package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteMode selects how artifacts are written.
type WriteMode string

const (
	// ModeCreate writes each artifact as a fresh file.
	ModeCreate WriteMode = "create"
	// ModeAppend appends to existing artifacts, for multi-run aggregation
	// into one output file per document.
	ModeAppend WriteMode = "append"
)

// ValidWriteMode reports whether s names a write mode.
func ValidWriteMode(s string) bool {
	switch WriteMode(s) {
	case ModeCreate, ModeAppend:
		return true
	}
	return false
}

// WriteError reports a failure writing one artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing artifact %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError reports whether err is an artifact write failure.
func IsWriteError(err error) bool {
	var werr *WriteError
	return errors.As(err, &werr)
}

// Writer writes artifacts into one output directory.
type Writer struct {
	Dir         string
	Mode        WriteMode
	NoOverwrite bool
}

// Write stores one artifact under its base name and returns the full path.
// Under NoOverwrite an existing file is an error, never silently replaced.
func (w *Writer) Write(base, text string) (string, error) {
	if w.Dir != "" {
		if err := os.MkdirAll(w.Dir, 0755); err != nil {
			return "", &WriteError{Path: w.Dir, Err: err}
		}
	}
	path := filepath.Join(w.Dir, base)

	mode := w.Mode
	if mode == "" {
		mode = ModeCreate
	}

	if mode == ModeAppend {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
		defer f.Close()
		if _, err := f.WriteString(text); err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
		return path, nil
	}

	if w.NoOverwrite {
		if _, err := os.Stat(path); err == nil {
			return "", &WriteError{Path: path, Err: errors.New("artifact already exists")}
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

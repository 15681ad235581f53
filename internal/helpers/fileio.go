package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// JSONLoadError represents an error that occurred while loading JSON.
type JSONLoadError struct {
	Path    string
	Reason  string
	Wrapped error
}

func (e *JSONLoadError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Path, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func (e *JSONLoadError) Unwrap() error {
	return e.Wrapped
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CopyFile copies src to dst, creating parent directories and preserving
// the source file mode. An existing dst is overwritten.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if err := EnsureDir(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// LoadJSON reads and unmarshals a JSON file into the provided type.
// Returns JSONLoadError with a specific reason (not found, read, parse).
func LoadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &JSONLoadError{
				Path:   path,
				Reason: "file not found",
			}
		}
		return nil, &JSONLoadError{
			Path:    path,
			Reason:  "failed to read",
			Wrapped: err,
		}
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &JSONLoadError{
			Path:    path,
			Reason:  "failed to parse JSON in",
			Wrapped: err,
		}
	}

	return &result, nil
}

// SaveJSON marshals data to indented JSON and writes it to path,
// creating parent directories if they don't exist.
func SaveJSON(path string, data any, perm os.FileMode) error {
	if err := EnsureDir(filepath.Dir(path), 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

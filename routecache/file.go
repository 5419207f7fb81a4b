package routecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File keeps the snapshot as a YAML document.
type File struct {
	path string
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Load(_ context.Context) (*Snapshot, error) {
	content, readError := os.ReadFile(f.path)
	if errors.Is(readError, fs.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if nil != readError {
		return nil, fmt.Errorf("failed to read route cache %s: %w", f.path, readError)
	}

	snapshot := &Snapshot{}
	if unmarshalError := yaml.Unmarshal(content, snapshot); nil != unmarshalError {
		return nil, fmt.Errorf("failed to decode route cache %s: %w", f.path, unmarshalError)
	}

	return checkVersion(snapshot)
}

// Store writes to a temporary file first and renames it over the cache.
func (f *File) Store(_ context.Context, snapshot *Snapshot) error {
	content, marshalError := yaml.Marshal(snapshot)
	if nil != marshalError {
		return fmt.Errorf("failed to encode route cache: %w", marshalError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(f.path), 0o755); nil != mkdirError {
		return fmt.Errorf("failed to create route cache directory: %w", mkdirError)
	}

	temporary := f.path + ".tmp"
	if writeError := os.WriteFile(temporary, content, 0o644); nil != writeError {
		return fmt.Errorf("failed to write route cache %s: %w", temporary, writeError)
	}

	return os.Rename(temporary, f.path)
}

func (f *File) Clear(_ context.Context) error {
	removeError := os.Remove(f.path)
	if nil != removeError && !errors.Is(removeError, fs.ErrNotExist) {
		return removeError
	}

	return nil
}

//--------------------

func NewFile(path string) *File {
	return &File{path: path}
}

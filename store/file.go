package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/rasticrookie/portfolio"
)

// validSlot restricts slot names to plain file names.
var validSlot = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// File stores each slot as '<name>.json' in a directory.
//
// Writes are atomic: the document is written to a temporary file in the same
// directory and then renamed over the previous one, so a crash never leaves a
// half written slot.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory of the store.
func (f *File) Dir() string { return f.dir }

func (f *File) path(name string) (string, error) {
	if !validSlot.MatchString(name) {
		return "", fmt.Errorf("invalid slot name %q", name)
	}
	return filepath.Join(f.dir, name+".json"), nil
}

func (f *File) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, portfolio.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read slot %q: %w", name, err)
	}
	return data, nil
}

func (f *File) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(name)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("cannot write slot %q: %w", name, err)
	}
	return nil
}

func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

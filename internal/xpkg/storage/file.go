package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File keeps every key as <dir>/<key>.json so that services started as
// separate processes on one host share the same collections. Writers in
// different processes are serialized by an advisory lock on <key>.lock.
type File struct {
	dir string
	mu  sync.Mutex
}

type fileRecord struct {
	Revision int64  `json:"revision"`
	Value    string `json:"value"`
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) Load(_ context.Context, key string) ([]byte, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(key, false)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	rec, err := f.read(key)
	if err != nil || rec == nil {
		return nil, 0, err
	}
	return []byte(rec.Value), rec.Revision, nil
}

func (f *File) Save(_ context.Context, key string, data []byte, expectedRev int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(key, true)
	if err != nil {
		return 0, err
	}
	defer unlock()

	rec, err := f.read(key)
	if err != nil {
		return 0, err
	}
	var rev int64
	if rec != nil {
		rev = rec.Revision
	}
	if rev != expectedRev {
		return 0, ErrRevisionConflict
	}

	body, err := json.Marshal(fileRecord{Revision: rev + 1, Value: string(data)})
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := f.write(key, body); err != nil {
		return 0, err
	}
	return rev + 1, nil
}

func (f *File) Close() error { return nil }

func (f *File) path(key, ext string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(f.dir, key+ext), nil
}

func (f *File) read(key string) (*fileRecord, error) {
	path, err := f.path(key, ".json")
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &rec, nil
}

// write replaces the record through a temp file and a rename so readers
// never see a partial file.
func (f *File) write(key string, body []byte) error {
	path, err := f.path(key, ".json")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (f *File) lock(key string, exclusive bool) (func(), error) {
	path, err := f.path(key, ".lock")
	if err != nil {
		return nil, err
	}
	lf, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	if err := lockFile(lf, exclusive); err != nil {
		lf.Close()
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		_ = unlockFile(lf)
		lf.Close()
	}, nil
}

package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	lockRetryInterval = 10 * time.Millisecond
	staleLockAge      = 5 * time.Second
	corruptSuffix     = ".corrupt-"
)

// document is one JSON file holding a whole collection. Reads never fail:
// a missing or corrupt file yields the empty value.
type document[T any] struct {
	path   string
	empty  func() T
	logger *slog.Logger
	mu     sync.Mutex
}

func newDocument[T any](dir, name string, empty func() T, logger *slog.Logger) *document[T] {
	return &document[T]{path: filepath.Join(dir, name), empty: empty, logger: logger}
}

func (d *document[T]) read(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(), nil
}

// mutate runs a read-modify-write cycle under the in-process mutex and the
// cross-process lock file. Nothing is written when fn fails.
func (d *document[T]) mutate(ctx context.Context, fn func(*T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	release, err := d.lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	value := d.load()
	if err := fn(&value); err != nil {
		return err
	}
	return d.save(value)
}

func (d *document[T]) load() T {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("store read failed, using empty collection", slog.String("path", d.path), slog.String("error", err.Error()))
		}
		return d.empty()
	}
	if len(data) == 0 {
		return d.empty()
	}
	value := d.empty()
	if err := json.Unmarshal(data, &value); err != nil {
		d.logger.Warn("store file corrupt, using empty collection", slog.String("path", d.path), slog.String("error", err.Error()))
		d.quarantine()
		return d.empty()
	}
	return value
}

// quarantine moves an unreadable file aside so the next write cannot
// destroy it.
func (d *document[T]) quarantine() {
	target := d.path + corruptSuffix + time.Now().UTC().Format("20060102T150405.000000000Z")
	if err := os.Rename(d.path, target); err != nil {
		d.logger.Error("failed to move corrupt store file aside", slog.String("path", d.path), slog.String("error", err.Error()))
		return
	}
	d.logger.Warn("corrupt store file kept for recovery", slog.String("path", target))
}

func (d *document[T]) save(value T) error {
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(d.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("replace %s: %w", d.path, err)
	}
	return nil
}

// lock takes an exclusive lock file next to the document so that the API
// server and the print watcher never interleave their writes.
func (d *document[T]) lock(ctx context.Context) (func(), error) {
	lockPath := d.path + ".lock"
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
		}
		if info, statErr := os.Stat(lockPath); statErr == nil && time.Since(info.ModTime()) > staleLockAge {
			d.logger.Warn("removing stale lock", slog.String("path", lockPath))
			_ = os.Remove(lockPath)
			continue
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", lockPath, ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}

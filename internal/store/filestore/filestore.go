// Package filestore keeps each collection as one JSON array on disk.
//
// Every mutation is load → compute → replace of the whole file. Writers are
// serialized per collection and the file is swapped in with a rename, so a
// reader never observes a half written array and concurrent writers in the
// same process cannot lose each other's updates.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotFound = errors.New("record not found")

type Collection[T any] struct {
	path string
	key  func(T) string
	mu   sync.Mutex
}

// New returns the collection stored at dir/name.json. key extracts the
// identity of a record for the keyed helpers.
func New[T any](dir, name string, key func(T) string) *Collection[T] {
	return &Collection[T]{
		path: filepath.Join(dir, name+".json"),
		key:  key,
	}
}

func (c *Collection[T]) Path() string { return c.path }

// Load returns the stored records in file order. A missing or empty file is
// an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.read()
}

// ReplaceAll overwrites the whole collection.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(records)
}

// Update runs fn on the current records and stores what it returns, holding
// the collection's writer lock for the whole cycle. If fn fails nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.write(next)
}

func (c *Collection[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	records, err := c.Load(ctx)
	if err != nil {
		return zero, err
	}
	for _, r := range records {
		if c.key(r) == key {
			return r, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", filepath.Base(c.path), key, ErrNotFound)
}

// Put inserts rec or replaces the record with the same key in place.
func (c *Collection[T]) Put(ctx context.Context, rec T) error {
	k := c.key(rec)
	return c.Update(ctx, func(records []T) ([]T, error) {
		for i := range records {
			if c.key(records[i]) == k {
				records[i] = rec
				return records, nil
			}
		}
		return append(records, rec), nil
	})
}

func (c *Collection[T]) Delete(ctx context.Context, key string) error {
	return c.Update(ctx, func(records []T) ([]T, error) {
		for i := range records {
			if c.key(records[i]) == key {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", filepath.Base(c.path), key, ErrNotFound)
	})
}

// Scan returns the records matching pred, in file order.
func (c *Collection[T]) Scan(ctx context.Context, pred func(T) bool) ([]T, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
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
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}

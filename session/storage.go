package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a string key-value store in the manner of browser local storage.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// MemoryStorage keeps items for the lifetime of the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// FileStorage persists items as a JSON object in a single file, so they
// survive process restarts. Every write rewrites the whole file.
type FileStorage struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// NewFileStorage loads path if it exists. An unreadable or corrupt file
// starts out empty and is replaced on the next write.
func NewFileStorage(path string) *FileStorage {
	fs := &FileStorage{path: path, items: make(map[string]string)}
	if b, err := os.ReadFile(path); err == nil {
		var items map[string]string
		if json.Unmarshal(b, &items) == nil && items != nil {
			fs.items = items
		}
	}
	return fs
}

func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) GetItem(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	return v, ok
}

func (f *FileStorage) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.items[key]
	f.items[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.items[key] = prev
		} else {
			delete(f.items, key)
		}
		return err
	}
	return nil
}

func (f *FileStorage) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[key]; !ok {
		return nil
	}
	delete(f.items, key)
	return f.flushLocked()
}

func (f *FileStorage) flushLocked() error {
	b, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

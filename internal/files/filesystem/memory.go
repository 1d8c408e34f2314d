package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files.
type memoryFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return false }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// MemoryFileSystem implements Provider in memory, for tests. Paths are
// normalized to forward slashes. Safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

// AddFile seeds a file, overwriting any previous content at the path.
func (m *MemoryFileSystem) AddFile(filePath string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[normalize(filePath)] = append([]byte(nil), content...)
}

func (m *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[normalize(filePath)]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", filePath, fs.ErrNotExist)
	}
	return append([]byte(nil), content...), nil
}

func (m *MemoryFileSystem) WriteFile(filePath string, content []byte) error {
	m.AddFile(filePath, content)
	return nil
}

func (m *MemoryFileSystem) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[normalize(filePath)]
	if !ok {
		return nil, fmt.Errorf("stat %s: %w", filePath, fs.ErrNotExist)
	}
	return &memoryFileInfo{
		name:    path.Base(normalize(filePath)),
		size:    int64(len(content)),
		modTime: time.Now(),
	}, nil
}

func (m *MemoryFileSystem) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[normalize(filePath)]
	return ok
}

func normalize(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

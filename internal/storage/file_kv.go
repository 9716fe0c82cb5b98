package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todo/internal/fsutil"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// fileNames maps keys to file names inside the data directory. Keys not
// listed here are stored under their own name.
var fileNames = map[string]string{
	KeyTasks:    "tasks.json",
	KeyDarkMode: "darkmode.json",
}

// FileKV stores one file per key in a directory.
type FileKV struct {
	dir string
	now func() time.Time
}

// NewFileKV creates the data directory if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileKV{dir: dir, now: time.Now}, nil
}

// Dir returns the data directory.
func (f *FileKV) Dir() string {
	return f.dir
}

func (f *FileKV) path(key string) string {
	if name, ok := fileNames[key]; ok {
		return filepath.Join(f.dir, name)
	}
	return filepath.Join(f.dir, key)
}

// Get implements KV.
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	data, ok, err := fsutil.ReadFileIfExists(f.path(key))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, ok, nil
}

// Set implements KV. The previous value is kept as a .bak file.
func (f *FileKV) Set(key string, value []byte) error {
	path := f.path(key)
	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, value, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Close implements KV.
func (f *FileKV) Close() error { return nil }

// Backup returns the value from before the last write.
func (f *FileKV) Backup(key string) ([]byte, bool, error) {
	data, ok, err := fsutil.ReadFileIfExists(f.path(key) + ".bak")
	if err != nil || !ok {
		return nil, false, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// Quarantine moves the current file for key aside.
func (f *FileKV) Quarantine(key string) string {
	return fsutil.Quarantine(f.path(key), f.now())
}

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-record-sync/internal/config"
)

const inMemoryPath = ":memory:"

// jsonFileStorage is the default [FileStorage]. An empty path or
// ":memory:" keeps nothing on disk.
type jsonFileStorage struct {
	path     string
	inMemory bool

	mu sync.Mutex
}

// NewJSONFileStorage creates a storage for the demo client's local entities.
func NewJSONFileStorage(cfg config.Files) FileStorage {
	path := cfg.DataPath
	return &jsonFileStorage{
		path:     path,
		inMemory: path == "" || path == inMemoryPath,
	}
}

func (s *jsonFileStorage) Load(v any) (bool, error) {
	if s.inMemory {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read local data file: %w", err)
	}
	if len(data) == 0 {
		return false, nil
	}

	if err = json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode local data file: %w", err)
	}
	return true, nil
}

func (s *jsonFileStorage) Save(v any) error {
	if s.inMemory {
		return nil
	}

	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local data dir: %w", err)
		}
	}

	// write next to the target and rename so a crash never leaves half a file
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write local data file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close local data file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace local data file: %w", err)
	}
	return nil
}

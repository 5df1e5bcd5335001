package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SourceKey is where the last-edited diagram text is kept.
const SourceKey = "mermaid-editor-code"

// ErrNotFound reports a key with no stored value.
var ErrNotFound = errors.New("source: key not found")

// Store is generic string persistence for session state. The pipeline
// uses it to restore the last diagram text on startup and save it after
// each change.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// FileStore keeps session state in a single msgpack file.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the given path. The parent directory
// is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath places the session file under the user config dir.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "mermaid-export", "session.msgpack"), nil
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var state map[string]string
	if err := msgpack.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if state == nil {
		state = map[string]string{}
	}
	return state, nil
}

func (s *FileStore) Get(key string) (string, error) {
	state, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := state[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

func (s *FileStore) Set(key, value string) error {
	state, err := s.load()
	if err != nil {
		return err
	}
	state[key] = value

	data, err := msgpack.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	// Write-then-rename so a crash never truncates the session file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

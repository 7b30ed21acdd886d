package identity

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/user"
)

// FileStore keeps entries in a JSON object file, the CLI's equivalent of browser storage.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := entries[Key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	return decode(raw)
}

func (s *FileStore) Save(usr user.User) error {
	data, err := encode(usr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		// unreadable storage gets overwritten
		entries = make(map[string]json.RawMessage)
	}
	entries[Key] = data
	return s.write(entries)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return os.Remove(s.path)
	}
	if _, ok := entries[Key]; !ok {
		return nil
	}
	delete(entries, Key)
	return s.write(entries)
}

// read returns an empty set of entries when the file does not exist.
func (s *FileStore) read() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, errors.Wrap(err, "reading identity file")
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding identity file")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating identity dir")
	}

	tmp := s.path + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing identity file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing identity file")
}

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/internal/file"
)

// persistedState is the on-disk shape of a collection.
type persistedState struct {
	Conversations map[string]*Conversation `json:"conversations"`
	ActiveChat    *string                  `json:"active_chat"`
	SavedAt       time.Time                `json:"saved_at"`
}

// FileStore persists the collection as a single JSON file, rewritten in
// full on every save.
type FileStore struct {
	path string
}

// NewFileStore instantiates a file store at the given path.
func NewFileStore(path string) (*FileStore, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}
	if err := file.CreateDirectoryIfNotExist(filepath.Dir(path)); err != nil {
		return nil, errors.Wrap(err, "creating directory")
	}
	return &FileStore{path: path}, nil
}

// Load reads prior persisted state. A missing file is a fresh start and
// not an error; an unreadable or unparsable file falls back to an empty
// collection and reports the cause as a warning.
func (s *FileStore) Load() (*Collection, error) {
	bytes, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewCollection(), nil
	}
	if err != nil {
		return NewCollection(), errors.Wrap(err, "reading history file")
	}
	state := &persistedState{}
	if err := json.Unmarshal(bytes, state); err != nil {
		return NewCollection(), errors.Wrap(err, "unmarshaling history file")
	}
	return collectionFromState(state), nil
}

// Save serializes the full collection and replaces the history file.
func (s *FileStore) Save(collection *Collection) error {
	bytes, err := json.MarshalIndent(stateFromCollection(collection), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling collection to JSON")
	}
	if err := os.WriteFile(s.path, bytes, 0644); err != nil {
		return errors.Wrap(err, "writing history file")
	}
	return nil
}

// Clear removes the history file entirely.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing history file")
	}
	return nil
}

func stateFromCollection(collection *Collection) *persistedState {
	state := &persistedState{
		Conversations: collection.Conversations,
		SavedAt:       time.Now().UTC(),
	}
	if collection.ActiveChat != "" {
		activeChat := collection.ActiveChat
		state.ActiveChat = &activeChat
	}
	return state
}

func collectionFromState(state *persistedState) *Collection {
	collection := NewCollection()
	for id, conversation := range state.Conversations {
		conversation.ID = id
		collection.Conversations[id] = conversation
	}
	if state.ActiveChat != nil {
		collection.ActiveChat = *state.ActiveChat
	}
	return collection
}

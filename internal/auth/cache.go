package auth

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/internal/file"
)

// SaveSession caches a session to disk so later invocations stay
// authenticated.
func SaveSession(path string, session *Session) error {
	path, err := file.ExpandPath(path)
	if err != nil {
		return errors.Wrap(err, "expanding path")
	}
	if err := file.CreateDirectoryIfNotExist(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "creating directory")
	}
	bytes, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling session")
	}
	if err := os.WriteFile(path, bytes, 0600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

// LoadSession returns the cached session, or nil if none exists.
func LoadSession(path string) (*Session, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}
	bytes, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session file")
	}
	session := &Session{}
	if err := json.Unmarshal(bytes, session); err != nil {
		return nil, errors.Wrap(err, "unmarshaling session file")
	}
	if session.AccessToken == "" {
		return nil, nil
	}
	return session, nil
}

// ClearSession removes the cached session.
func ClearSession(path string) error {
	path, err := file.ExpandPath(path)
	if err != nil {
		return errors.Wrap(err, "expanding path")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}

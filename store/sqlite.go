package store

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/ramana-ai/ramana/internal/file"
)

// SQLiteStore persists the collection in an embedded SQLite database.
// It honors the same whole-collection contract as FileStore: every Save
// replaces all prior rows.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) a store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath, err := file.ExpandPath(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}
	if err := file.CreateDirectoryIfNotExist(filepath.Dir(dbPath)); err != nil {
		return nil, errors.Wrap(err, "creating directory")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created INTEGER NOT NULL,
			messages TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating conversations table")
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS collection_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating meta table")
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the full collection. Query or decode failures fall back to
// an empty collection and report the cause as a warning.
func (s *SQLiteStore) Load() (*Collection, error) {
	collection := NewCollection()

	rows, err := s.db.Query(`SELECT id, title, created, messages FROM conversations`)
	if err != nil {
		return NewCollection(), errors.Wrap(err, "querying conversations")
	}
	defer rows.Close()
	for rows.Next() {
		conversation := &Conversation{}
		var created int64
		var messagesJSON string
		if err := rows.Scan(&conversation.ID, &conversation.Title, &created, &messagesJSON); err != nil {
			return NewCollection(), errors.Wrap(err, "scanning conversation row")
		}
		conversation.Created = time.UnixMicro(created).UTC()
		if err := json.Unmarshal([]byte(messagesJSON), &conversation.Messages); err != nil {
			return NewCollection(), errors.Wrap(err, "unmarshaling messages")
		}
		collection.Conversations[conversation.ID] = conversation
	}
	if err := rows.Err(); err != nil {
		return NewCollection(), errors.Wrap(err, "iterating conversation rows")
	}

	var activeChat string
	err = s.db.QueryRow(`SELECT value FROM collection_meta WHERE key = 'active_chat'`).Scan(&activeChat)
	if err != nil && err != sql.ErrNoRows {
		return NewCollection(), errors.Wrap(err, "querying active chat")
	}
	collection.ActiveChat = activeChat
	return collection, nil
}

// Save replaces all persisted rows with the given collection.
func (s *SQLiteStore) Save(collection *Collection) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return errors.Wrap(err, "clearing conversations table")
	}
	for id, conversation := range collection.Conversations {
		messagesJSON, err := json.Marshal(conversation.Messages)
		if err != nil {
			return errors.Wrap(err, "marshaling messages")
		}
		_, err = tx.Exec(`
			INSERT INTO conversations (id, title, created, messages)
			VALUES (?, ?, ?, ?)
		`, id, conversation.Title, conversation.Created.UnixMicro(), string(messagesJSON))
		if err != nil {
			return errors.Wrap(err, "inserting conversation")
		}
	}

	_, err = tx.Exec(`
		REPLACE INTO collection_meta (key, value) VALUES
		('active_chat', ?),
		('saved_at', ?)
	`, collection.ActiveChat, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrap(err, "writing collection meta")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

// Clear removes all persisted state.
func (s *SQLiteStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return errors.Wrap(err, "clearing conversations table")
	}
	if _, err := tx.Exec(`DELETE FROM collection_meta`); err != nil {
		return errors.Wrap(err, "clearing meta table")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

// Close the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

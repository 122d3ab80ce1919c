// Package store holds the durable representation of every conversation
// plus the active-chat pointer, persisted as a single unit.
package store

import (
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is one independent chat thread. Messages are append-only
// and strictly chronological.
type Conversation struct {
	// ID of this conversation. Serialized as the map key, not as a field.
	ID string `json:"-"`
	// Human-readable label. Starts as the sentinel title until derived.
	Title string `json:"title"`
	// Time at which the conversation was created. Immutable.
	Created time.Time `json:"created"`
	// The messages of this conversation.
	Messages []*Message `json:"messages"`
}

// Collection holds every conversation keyed by id, plus the id of the
// conversation currently receiving input ("" when unset).
type Collection struct {
	Conversations map[string]*Conversation
	ActiveChat    string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		Conversations: map[string]*Conversation{},
	}
}

// Active returns the active conversation, or nil if the pointer is unset
// or refers to a conversation that no longer exists.
func (c *Collection) Active() *Conversation {
	if c.ActiveChat == "" {
		return nil
	}
	return c.Conversations[c.ActiveChat]
}

// Store persists the full collection atomically. Save replaces any prior
// persisted state in full; Clear removes persisted state entirely, which
// is distinct from saving an empty collection.
type Store interface {
	// Load returns the prior persisted state. It always returns a usable
	// collection: missing or unparsable state yields an empty collection
	// alongside a non-nil error the caller should treat as a warning.
	Load() (*Collection, error)
	Save(*Collection) error
	Clear() error
}

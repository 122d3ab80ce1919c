// Package session drives one request/response turn against the model and
// keeps persistence consistent along the way.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/chat"
	"github.com/ramana-ai/ramana/internal/debug"
	"github.com/ramana-ai/ramana/internal/llm"
	"github.com/ramana-ai/ramana/store"
)

// State of the per-turn state machine.
type State int

const (
	StateIdle State = iota
	StateUserMessageAppended
	StateAwaitingReply
	StateReplyAppended
	StateFailed
)

// ErrEmptyInput marks a rejected empty user message. It is a validation
// condition, not a user-visible error: callers skip the turn silently.
var ErrEmptyInput = errors.New("empty input")

// Options for a session.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
	TopP        float32
	Timeout     time.Duration
}

// Session orchestrates turns for one user against the active
// conversation. One turn runs to completion before the next is accepted;
// there is never more than one inference call in flight.
//
// The manager-owned collection is only ever touched from the caller's
// goroutine, in Begin and Complete. Generate works off a snapshot taken
// by Begin, so an interactive caller may run it in the background while
// it keeps reading the collection to render.
type Session struct {
	manager *chat.Manager
	client  llm.Client
	opts    Options
	state   State

	// Turn in flight, set by Begin and consumed by Complete.
	pendingChatID   string
	pendingMessages []*llm.Message
}

// New session over the given manager and inference client.
func New(manager *chat.Manager, client llm.Client, opts Options) *Session {
	return &Session{
		manager: manager,
		client:  client,
		opts:    opts,
		state:   StateIdle,
	}
}

// Manager backing this session.
func (s *Session) Manager() *chat.Manager { return s.manager }

// Model currently selected.
func (s *Session) Model() string { return s.opts.Model }

// SetModel switches the model used for subsequent turns.
func (s *Session) SetModel(model string) { s.opts.Model = model }

// State of the last turn. Idle between turns.
func (s *Session) State() State { return s.state }

// Send runs one turn: append the user message, call the model with the
// full conversation, append the reply, persist. The reply comes back as
// one complete unit.
//
// On inference failure no assistant message is appended and the user's
// message is retained. If persisting the finished turn fails, the reply
// is still returned alongside the error so the caller can render it and
// warn that history may not survive a restart.
func (s *Session) Send(ctx context.Context, input string) (string, error) {
	if err := s.Begin(input); err != nil {
		return "", err
	}
	reply, err := s.Generate(ctx)
	return s.Complete(reply, err)
}

// Begin opens a turn: validates the input, repairs the active chat,
// appends the user message, and snapshots the conversation for the
// inference call.
func (s *Session) Begin(input string) error {
	if input == "" {
		return ErrEmptyInput
	}
	conversation, err := s.manager.EnsureActiveChat()
	if err != nil {
		return err
	}

	userMessage := &store.Message{Role: store.RoleUser, Content: input}
	if err := s.manager.AppendMessage(conversation.ID, userMessage); err != nil {
		// The message is in memory; the save after the reply retries the
		// flush, so the turn carries on.
		debug.GetLogger().Warn("persisting user message failed", "error", err)
	}
	s.state = StateUserMessageAppended

	s.pendingChatID = conversation.ID
	s.pendingMessages = make([]*llm.Message, 0, len(conversation.Messages))
	for _, message := range conversation.Messages {
		s.pendingMessages = append(s.pendingMessages, &llm.Message{Role: message.Role, Content: message.Content})
	}
	s.state = StateAwaitingReply
	return nil
}

// Generate calls the model over the snapshot taken by Begin. It reads no
// shared state, so it may run off the caller's goroutine while the
// conversation keeps being read for display.
func (s *Session) Generate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	request := &llm.CreateChatCompletionRequest{
		Model:       s.opts.Model,
		Messages:    s.pendingMessages,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
		TopP:        s.opts.TopP,
	}
	return s.client.CreateChatCompletion(ctx, request)
}

// Complete closes the turn Begin opened, recording the inference
// outcome. On success the assistant reply is appended and persisted; on
// failure nothing is appended and the user's message is retained.
func (s *Session) Complete(reply string, err error) (string, error) {
	defer func() { s.state = StateIdle }()
	chatID := s.pendingChatID
	s.pendingChatID = ""
	s.pendingMessages = nil

	if err != nil {
		s.state = StateFailed
		return "", errors.Wrap(err, "querying model")
	}

	assistantMessage := &store.Message{Role: store.RoleAssistant, Content: reply}
	s.state = StateReplyAppended
	if err := s.manager.AppendMessage(chatID, assistantMessage); err != nil {
		return reply, err
	}
	return reply, nil
}

// Attach appends a file's content to the active conversation verbatim as
// a system message.
func (s *Session) Attach(path, content string) error {
	conversation, err := s.manager.EnsureActiveChat()
	if err != nil {
		return err
	}
	message := &store.Message{
		Role:    store.RoleSystem,
		Content: fmt.Sprintf("file %s: `%s`", path, content),
	}
	return s.manager.AppendMessage(conversation.ID, message)
}

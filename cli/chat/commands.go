package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramana-ai/ramana/chat/session"
)

// replyMsg carries the outcome of one turn.
type replyMsg struct {
	reply string
	err   error
}

// typeTickMsg advances the cosmetic typing effect.
type typeTickMsg struct{}

func (m *Model) sendMessage() tea.Cmd {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil
	}

	m.history.Add(input)
	m.historyNavigating = false
	m.textarea.Reset()
	m.err = nil

	// The user message is appended here, on the event-loop goroutine;
	// only the inference call over the snapshot runs in the background.
	if err := m.session.Begin(input); err != nil {
		if !errors.Is(err, session.ErrEmptyInput) {
			m.err = err
		}
		m.refreshViewport()
		return nil
	}
	m.sending = true
	m.refreshViewport()

	s := m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := s.Generate(context.Background())
		return replyMsg{reply: reply, err: err}
	})
}

func (m *Model) handleReply(msg replyMsg) tea.Cmd {
	m.sending = false
	reply, err := m.session.Complete(msg.reply, msg.err)
	if reply == "" {
		m.err = err
		m.refreshViewport()
		return nil
	}
	// A reply alongside an error means the turn finished but history may
	// not have been flushed; show both.
	m.err = err
	m.typing = true
	m.pendingReply = reply
	m.typedRunes = 0
	m.refreshViewport()
	return typeTick()
}

func (m *Model) advanceTyping() tea.Cmd {
	if !m.typing {
		return nil
	}
	m.typedRunes++
	if m.typedRunes >= len([]rune(m.pendingReply)) {
		m.typing = false
		m.pendingReply = ""
		m.typedRunes = 0
		m.refreshViewport()
		return nil
	}
	m.refreshViewport()
	return typeTick()
}

func typeTick() tea.Cmd {
	return tea.Tick(typingInterval, func(time.Time) tea.Msg {
		return typeTickMsg{}
	})
}

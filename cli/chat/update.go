package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()
		return m, nil

	case replyMsg:
		return m, m.handleReply(msg)

	case typeTickMsg:
		return m, m.advanceTyping()

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	if !m.sending {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

		// Grow the input with its content, within bounds.
		height := m.textarea.LineCount()
		if height < minTextareaHeight {
			height = minTextareaHeight
		}
		if height > maxTextareaHeight {
			height = maxTextareaHeight
		}
		if height != m.textarea.Height() {
			m.textarea.SetHeight(height)
			m.recalculateLayout()
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey handles the key bindings the textarea must not swallow.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return tea.Quit, true

	case "ctrl+j":
		if !m.sending && !m.typing {
			return m.sendMessage(), true
		}
		return nil, true

	case "ctrl+n":
		if m.sending {
			return nil, true
		}
		if _, err := m.manager.NewChat(); err != nil {
			m.err = err
			log.Warn("creating chat failed", "error", err)
		}
		m.refreshViewport()
		return nil, true

	case "ctrl+x":
		if m.sending {
			return nil, true
		}
		if conversation := m.manager.ActiveChat(); conversation != nil {
			if err := m.manager.DeleteChat(conversation.ID); err != nil {
				m.err = err
			}
		}
		// Deleting the active chat leaves the pointer unset; repair it
		// right away so the screen always shows a conversation.
		if _, err := m.manager.EnsureActiveChat(); err != nil {
			m.err = err
		}
		m.refreshViewport()
		return nil, true

	case "alt+j":
		if !m.sending {
			m.selectAdjacentChat(1)
		}
		return nil, true

	case "alt+k":
		if !m.sending {
			m.selectAdjacentChat(-1)
		}
		return nil, true

	case "ctrl+p":
		if !m.sending {
			m.cycleModel()
		}
		return nil, true

	case "alt+p":
		if entry, ok := m.history.Previous(m.textarea.Value()); ok {
			m.textarea.SetValue(entry)
			m.historyNavigating = true
		}
		return nil, true

	case "alt+n":
		if entry, ok := m.history.Next(); ok {
			m.textarea.SetValue(entry)
			m.historyNavigating = true
		}
		return nil, true

	case "enter":
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}
		return nil, false
	}
	return nil, false
}

// selectAdjacentChat moves the active pointer through the display order.
func (m *Model) selectAdjacentChat(offset int) {
	summaries := m.manager.ListChatsForDisplay()
	if len(summaries) == 0 {
		return
	}
	active := m.manager.ActiveChat()
	index := 0
	if active != nil {
		for i, summary := range summaries {
			if summary.ID == active.ID {
				index = i
				break
			}
		}
	}
	index += offset
	if index < 0 || index >= len(summaries) {
		return
	}
	if err := m.manager.SelectChat(summaries[index].ID); err != nil {
		m.err = err
	}
	m.refreshViewport()
}

func (m *Model) cycleModel() {
	models := m.config.Models
	if len(models) == 0 {
		return
	}
	next := 0
	for i, model := range models {
		if model == m.session.Model() {
			next = (i + 1) % len(models)
			break
		}
	}
	m.session.SetModel(models[next])
}

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramana-ai/ramana/store"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.viewport.View())
	b.WriteString(body)
	b.WriteString("\n")

	if m.sending {
		b.WriteString(fmt.Sprintf("%s Generating...\n", m.spinner.View()))
	} else {
		b.WriteString(textAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("ctrl+j send │ ctrl+n new │ ctrl+x delete │ alt+j/k switch chat │ ctrl+p model │ ctrl+c quit"))
	return b.String()
}

func (m *Model) renderTitle() string {
	chatID := ""
	if conversation := m.manager.ActiveChat(); conversation != nil {
		chatID = conversation.ID
	}
	title := fmt.Sprintf(" 🤖 %s │ 👤 %s │ 💬 %s ", m.session.Model(), m.user, chatID)
	return titleStyle.Width(m.width).Render(title)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(sidebarHeaderStyle.Render("Chats"))
	b.WriteString("\n\n")

	active := m.manager.ActiveChat()
	for _, summary := range m.manager.ListChatsForDisplay() {
		entry := truncate(summary.Title, sidebarTitleLength)
		if active != nil && summary.ID == active.ID {
			b.WriteString(activeChatEntryStyle.Render("▸ " + entry))
		} else {
			b.WriteString(chatEntryStyle.Render("  " + entry))
		}
		b.WriteString("\n")
	}
	return sidebarStyle.Height(m.viewport.Height).Render(b.String())
}

// renderMessages renders the active conversation.
func (m *Model) renderMessages() string {
	conversation := m.manager.ActiveChat()
	if conversation == nil {
		return ""
	}

	var b strings.Builder
	messages := conversation.Messages
	for i, message := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		content := message.Content
		// The newest assistant message is revealed gradually while the
		// typing effect runs.
		if m.typing && i == len(messages)-1 && message.Role == store.RoleAssistant {
			runes := []rune(content)
			if m.typedRunes < len(runes) {
				content = string(runes[:m.typedRunes]) + "▌"
			}
		}
		b.WriteString(m.renderMessage(message.Role, content))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(role, content string) string {
	switch role {
	case store.RoleUser:
		return userMessageStyle.Render(content)
	case store.RoleAssistant:
		return aiMessageStyle.Render(m.renderer.Render(content))
	default:
		return systemMessageStyle.Render("system: " + truncate(content, 80))
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// recalculateLayout adjusts viewport and textarea dimensions.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	viewportHeight := m.height - headerHeight - 1
	if !m.sending {
		viewportHeight -= m.textarea.Height() + inputBorderHeight
	}
	if m.err != nil {
		viewportHeight--
	}
	if viewportHeight < minViewportHeight {
		viewportHeight = minViewportHeight
	}
	viewportWidth := m.width - sidebarWidth - sidebarStyle.GetHorizontalFrameSize()
	m.renderer.SetWidth(viewportWidth - aiMessageStyle.GetHorizontalFrameSize())

	if !m.ready {
		m.viewport = viewport.New(viewportWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
	}
	m.textarea.SetWidth(m.width - textAreaStyle.GetHorizontalFrameSize())
	m.refreshViewport()
}

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramana-ai/ramana/chat"
	"github.com/ramana-ai/ramana/chat/session"
	"github.com/ramana-ai/ramana/configuration"
	"github.com/ramana-ai/ramana/internal/debug"
	"github.com/ramana-ai/ramana/internal/history"
	"github.com/ramana-ai/ramana/internal/markdown"
)

var log = debug.GetLogger()

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	// Core dependencies
	config  *configuration.Config
	manager *chat.Manager
	session *session.Session
	user    string

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer

	// UI state
	width    int
	height   int
	ready    bool
	sending  bool
	err      error
	quitting bool

	// Typing effect over the already-complete reply.
	typing       bool
	pendingReply string
	typedRunes   int

	// Input history
	history           *history.History
	historyNavigating bool
}

// NewModel creates the chat screen over an existing manager and session.
func NewModel(config *configuration.Config, manager *chat.Manager, s *session.Session, user string) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Say something to Ramana..."
	ta.Prompt = "┃ "
	ta.SetHeight(minTextareaHeight)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, err := markdown.NewRenderer(80)
	if err != nil {
		return nil, err
	}

	return &Model{
		config:   config,
		manager:  manager,
		session:  s,
		user:     user,
		textarea: ta,
		spinner:  sp,
		renderer: renderer,
		history:  history.NewHistory(),
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

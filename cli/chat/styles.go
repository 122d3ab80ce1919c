package chat

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	minTextareaHeight = 1
	maxTextareaHeight = 6
	minViewportHeight = 1

	inputBorderHeight = 2
	headerHeight      = 2
	sidebarWidth      = 28

	sidebarTitleLength = 22
	truncateSuffix     = "..."

	// The reply is fully received before the first character is shown;
	// this pacing is purely cosmetic.
	typingInterval = 5 * time.Millisecond
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#00BFFF")
	secondaryColor = lipgloss.Color("#06B6D4")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	textColor      = lipgloss.Color("#F9FAFB")
	dimTextColor   = lipgloss.Color("#9CA3AF")
	borderColor    = lipgloss.Color("#4B5563")
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(textColor).
			Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(borderColor)

	sidebarHeaderStyle = lipgloss.NewStyle().
				Foreground(dimTextColor).
				Bold(true)

	chatEntryStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	activeChatEntryStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	userMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(primaryColor).
				MarginLeft(6)

	aiMessageStyle = lipgloss.NewStyle().
			Inherit(messageStyle).
			BorderForeground(secondaryColor).
			MarginRight(6)

	systemMessageStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)

	textAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

func truncate(text string, length int) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length-len(truncateSuffix)]) + truncateSuffix
}

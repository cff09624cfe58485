// Package tui is the interactive terminal chat for support agents.
package tui

import (
	"tutorbot/internal/bot"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is the top-level Bubble Tea model wrapping the chat screen.
type Model struct {
	chat chatModel
}

// New creates the TUI model over a wired bot.
func New(b *bot.Bot) Model {
	return Model{chat: newChatModel(b)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.chat.View()
}

// Run starts the TUI program.
func Run(b *bot.Bot) error {
	p := tea.NewProgram(New(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

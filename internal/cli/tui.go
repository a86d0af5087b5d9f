package cli

import (
	"context"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/grapher/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PromptModel - Slow layout prompt
// =============================================================================

// promptChoices are listed in cursor order.
var promptChoices = []struct {
	label    string
	decision layout.Decision
}{
	{"Keep waiting", layout.DecisionWait},
	{"Cancel layout", layout.DecisionCancel},
}

// PromptModel is the bubbletea model asking whether a slow layout should
// continue.
type PromptModel struct {
	Message  string
	Cursor   int
	Decision layout.Decision
	Answered bool
}

// NewPromptModel creates a prompt for message with "Keep waiting" selected.
func NewPromptModel(message string) PromptModel {
	return PromptModel{Message: message}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q", "c":
		m.Decision, m.Answered = layout.DecisionCancel, true
		return m, tea.Quit
	case "w":
		m.Decision, m.Answered = layout.DecisionWait, true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j", "tab":
		if m.Cursor < len(promptChoices)-1 {
			m.Cursor++
		}
	case "enter":
		m.Decision, m.Answered = promptChoices[m.Cursor].decision, true
		return m, tea.Quit
	}
	return m, nil
}

func (m PromptModel) View() string {
	if m.Answered {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleWarning.Render(iconWarning + " " + m.Message))
	b.WriteString("\n\n")
	for i, choice := range promptChoices {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + choice.label))
		} else {
			b.WriteString(listNormalStyle.Render("  " + choice.label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  w wait  c cancel"))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Prompter
// =============================================================================

// teaPrompter asks on the terminal with a PromptModel. The program is torn
// down when ctx ends, which happens once the layout finishes on its own.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
	// before runs ahead of each prompt, e.g. to stop a spinner.
	before func()
}

func (p teaPrompter) Prompt(ctx context.Context, message string) (layout.Decision, error) {
	if p.before != nil {
		p.before()
	}
	prog := tea.NewProgram(NewPromptModel(message),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if ctx.Err() != nil {
		return layout.DecisionWait, ctx.Err()
	}
	if err != nil {
		return layout.DecisionCancel, err
	}
	m, ok := final.(PromptModel)
	if !ok || !m.Answered {
		return layout.DecisionCancel, nil
	}
	return m.Decision, nil
}

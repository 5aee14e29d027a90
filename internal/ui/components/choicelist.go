package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyansetu/internal/ui/theme"
)

// ChoiceList presents a question's options for selection. Unlike a graded
// reveal, it only marks the chosen option; correctness is not disclosed
// until the whole quiz is submitted.
type ChoiceList struct {
	Options []string
	// Cursor is the highlighted option.
	Cursor int
	// Chosen is the index of the committed answer, -1 when unanswered.
	Chosen int
}

// NewChoiceList creates a choice list. chosen is the previously stored
// answer index, or -1.
func NewChoiceList(options []string, chosen int) ChoiceList {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return ChoiceList{
		Options: options,
		Cursor:  cursor,
		Chosen:  chosen,
	}
}

// Init returns nil.
func (c ChoiceList) Init() tea.Cmd {
	return nil
}

// Update handles navigation and selection. It returns true when the chosen
// option changed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", " ":
		if c.Chosen != c.Cursor {
			c.Chosen = c.Cursor
			return c, true
		}
	}

	return c, false
}

// View renders the options with A/B/C/... labels.
func (c ChoiceList) View() string {
	var s string
	for i, opt := range c.Options {
		label := string(rune('A' + i))
		marker := " "
		if i == c.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s %s)  %s", marker, label, opt)

		switch {
		case i == c.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸ "+line) + "\n"
		case i == c.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render("  "+line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render("  "+line) + "\n"
		}
	}
	return s
}

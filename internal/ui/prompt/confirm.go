package prompt

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raphi011/fleet/internal/ui/styles"
)

// ErrCancelled is returned when the prompt is dismissed with ctrl+c, q or esc
// instead of being answered.
var ErrCancelled = errors.New("cancelled")

// Item is one entry listed under a confirmation question.
type Item struct {
	Name    string
	Warning string // shown after the name, e.g. "uncommitted changes"
}

type answer int

const (
	pending answer = iota
	yes
	no
	dismissed
)

type confirmModel struct {
	question string
	items    []Item
	answer   answer
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = yes
	case "n", "N", "enter":
		m.answer = no
	case "ctrl+c", "q", "esc":
		m.answer = dismissed
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.answer != pending {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.question)
	b.WriteString("\n")
	for _, it := range m.items {
		b.WriteString("  ")
		b.WriteString(it.Name)
		if it.Warning != "" {
			b.WriteString(" ")
			b.WriteString(styles.WarningStyle.Render("(" + it.Warning + ")"))
		}
		b.WriteString("\n")
	}
	b.WriteString("[y/N] ")
	return b.String()
}

// Confirm asks question on out, listing items below it, and reports whether
// the user answered yes. Enter answers no. Dismissing the prompt returns
// ErrCancelled.
func Confirm(ctx context.Context, out io.Writer, question string, items []Item) (bool, error) {
	p := tea.NewProgram(confirmModel{question: question, items: items},
		tea.WithContext(ctx),
		tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	switch final.(confirmModel).answer {
	case yes:
		return true, nil
	case dismissed:
		return false, ErrCancelled
	}
	return false, nil
}

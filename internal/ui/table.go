package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mynd/internal/todo"
)

// TableOptions control RenderTodos.
type TableOptions struct {
	Width int  // terminal width; <= 0 means 80
	Color bool // false renders plain text
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const dateLayout = "2006-01-02 15:04"

// RenderTodos lays records out as a table: index, short id, state, creation
// date and the first line of the message, truncated to fit Width.
func RenderTodos(records []todo.Record, opts TableOptions) string {
	if len(records) == 0 {
		return "no todos\n"
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := func(s lipgloss.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Render(text)
	}

	numWidth := len(fmt.Sprint(len(records)))
	// "N  xxxxxxxx  [ ]  2006-01-02 15:04  "
	fixed := numWidth + 2 + 8 + 2 + 3 + 2 + len(dateLayout) + 2
	msgWidth := max(width-fixed, 10)

	var b strings.Builder
	head := fmt.Sprintf("%*s  %-8s  %-3s  %-*s  %s", numWidth, "#", "id", "", len(dateLayout), "created", "message")
	b.WriteString(style(headerStyle, strings.TrimRight(head, " ")))
	b.WriteString("\n")

	for i, rec := range records {
		mark := "[ ]"
		if rec.Done {
			mark = "[x]"
		}
		msg := firstLine(rec.Message)
		msg = truncate(msg, msgWidth)
		if rec.Done {
			msg = style(doneStyle, msg)
		}
		fmt.Fprintf(&b, "%*d  %s  %s  %s  %s\n",
			numWidth, i+1,
			style(idStyle, rec.ID.Short()),
			mark,
			style(dateStyle, rec.CreatedAt.Local().Format(dateLayout)),
			msg)
	}
	return b.String()
}

// firstLine collapses a multiline message to its first non-empty line,
// appending "..." when more text follows.
func firstLine(msg string) string {
	msg = strings.TrimSpace(msg)
	line, rest, more := strings.Cut(msg, "\n")
	line = strings.TrimSpace(line)
	if more && strings.TrimSpace(rest) != "" {
		return line + " ..."
	}
	return line
}

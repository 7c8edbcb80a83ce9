package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/sprintdeck/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	var tabs []string
	for i := range m.board.Sprints {
		sp := &m.board.Sprints[i]
		label := fmt.Sprintf("%s (%d)", sp.Name, len(sp.Stories))
		if i == m.sprintIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	sp := m.currentSprint()
	if sp == nil || len(sp.Stories) == 0 {
		b.WriteString(inactiveTabStyle.Render("No stories. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		for i := range sp.Stories {
			st := &sp.Stories[i]
			line := fmt.Sprintf("%-10s %-12s %-6s %s", st.Number, st.Status, st.Priority, st.Title)
			switch {
			case i == m.storyIdx:
				line = selectedStyle.Render(line)
			case st.Status == models.StatusCompleted:
				line = completedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(statusBarStyle.Render(fmt.Sprintf("%d%% complete", m.board.SprintProgress(sp.ID))))
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

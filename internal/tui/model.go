// Package tui is the interactive board view. Edits are applied to the
// in-memory board and handed to the syncer, which debounces them into saves.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/syncer"
)

type tickMsg time.Time

type Model struct {
	board *board.Board
	sync  *syncer.Syncer
	keys  KeyMap
	help  help.Model
	input textinput.Model

	adding    bool
	sprintIdx int
	storyIdx  int
	width     int
	height    int
	statusMsg string
	quitting  bool
}

func NewModel(b *board.Board, sync *syncer.Syncer) Model {
	input := textinput.New()
	input.Placeholder = "Story title"
	input.CharLimit = 200
	return Model{
		board: b,
		sync:  sync,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		input: input,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := m.input.Value()
		m.adding = false
		m.input.Reset()
		if title == "" {
			return m, nil
		}
		sp := m.currentSprint()
		if sp == nil {
			return m, nil
		}
		story, err := m.board.AddStory(sp.ID, board.StoryInput{Title: title})
		if err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.sync.NotifyChange()
		m.statusMsg = "Created " + story.Number
		return m, nil
	case "esc":
		m.adding = false
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.sync.Close(); err != nil {
			m.statusMsg = err.Error()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if m.sprintIdx > 0 {
			m.sprintIdx--
			m.storyIdx = 0
		}

	case key.Matches(msg, m.keys.Right):
		if m.sprintIdx < len(m.board.Sprints)-1 {
			m.sprintIdx++
			m.storyIdx = 0
		}

	case key.Matches(msg, m.keys.Up):
		if m.storyIdx > 0 {
			m.storyIdx--
		}

	case key.Matches(msg, m.keys.Down):
		if sp := m.currentSprint(); sp != nil && m.storyIdx < len(sp.Stories)-1 {
			m.storyIdx++
		}

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Status):
		if st := m.currentStory(); st != nil {
			next := nextStatus(st.Status)
			if _, err := m.board.UpdateStory(st.ID, board.SetStatus{Status: next}); err == nil {
				m.sync.NotifyChange()
			}
		}

	case key.Matches(msg, m.keys.Move):
		if st := m.currentStory(); st != nil && len(m.board.Sprints) > 1 {
			target := m.board.Sprints[(m.sprintIdx+1)%len(m.board.Sprints)].ID
			if err := m.board.MoveStory(st.ID, target); err == nil {
				m.sync.NotifyChange()
				m.clampStoryIdx()
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if st := m.currentStory(); st != nil {
			if err := m.board.DeleteStory(st.ID); err == nil {
				m.sync.NotifyChange()
				m.statusMsg = "Deleted " + st.Number
				m.clampStoryIdx()
			}
		}

	case key.Matches(msg, m.keys.Archive):
		if sp := m.currentSprint(); sp != nil {
			if err := m.board.ArchiveSprint(sp.ID); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.sync.NotifyChange()
				m.statusMsg = "Archived " + sp.Name
				if m.sprintIdx >= len(m.board.Sprints) {
					m.sprintIdx = len(m.board.Sprints) - 1
				}
				m.storyIdx = 0
			}
		}

	case key.Matches(msg, m.keys.Save):
		if err := m.sync.ForceSave(); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = "Saved"
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) currentSprint() *models.Sprint {
	if m.sprintIdx < 0 || m.sprintIdx >= len(m.board.Sprints) {
		return nil
	}
	return &m.board.Sprints[m.sprintIdx]
}

func (m *Model) currentStory() *models.Story {
	sp := m.currentSprint()
	if sp == nil || m.storyIdx < 0 || m.storyIdx >= len(sp.Stories) {
		return nil
	}
	return &sp.Stories[m.storyIdx]
}

func (m *Model) clampStoryIdx() {
	sp := m.currentSprint()
	if sp == nil {
		m.storyIdx = 0
		return
	}
	if m.storyIdx >= len(sp.Stories) {
		m.storyIdx = len(sp.Stories) - 1
	}
	if m.storyIdx < 0 {
		m.storyIdx = 0
	}
}

func nextStatus(s models.Status) models.Status {
	switch s {
	case models.StatusOpen:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusCompleted
	default:
		return models.StatusOpen
	}
}

func (m Model) statusBar() string {
	st := m.sync.Status()
	saved := "never"
	if !st.LastSaved.IsZero() {
		saved = st.LastSaved.Format("15:04:05")
	}
	bar := fmt.Sprintf("saved %s", saved)
	if st.Dirty {
		bar = "unsaved changes, " + bar
	}
	if st.QueueLen > 0 {
		bar += fmt.Sprintf(" | %d queued for remote", st.QueueLen)
	} else if st.Online {
		bar += " | remote in sync"
	}
	if st.LastError != nil {
		bar += " | " + dangerStyle.Render(st.LastError.Error())
	}
	if m.statusMsg != "" {
		bar += " | " + m.statusMsg
	}
	return statusBarStyle.Render(bar)
}

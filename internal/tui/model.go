package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-record-sync/internal/notes"
)

var copyToClipboard = clipboard.WriteAll

type model struct {
	ctx    context.Context
	store  *notes.Store
	engine Syncer

	items []*notes.Note
	idx   int

	adding  bool
	input   textinput.Model
	syncing bool
	spinner spinner.Model

	status string
	err    error
}

func newModel(ctx context.Context, store *notes.Store, engine Syncer) model {
	in := textinput.New()
	in.Placeholder = "note title"
	in.CharLimit = 120

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return model{
		ctx:     ctx,
		store:   store,
		engine:  engine,
		items:   store.Notes(),
		input:   in,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.spinner.Tick)
}

// waitForChange delivers the next change signal of the local store.
func (m model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.store.Changes():
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.reload()
		return m, m.waitForChange()

	case syncDoneMsg:
		m.syncing = false
		m.err = msg.err
		if msg.err == nil {
			m.status = "synced"
		}
		m.reload()
		return m, nil

	case deletedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("deleted %q", msg.title)
		}
		m.reload()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.enter):
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		if title == "" {
			return m, nil
		}

		n := m.store.AddNote(title, "", nil)
		m.engine.SaveAsync(m.ctx, n)
		m.status = fmt.Sprintf("saving %q", title)
		m.reload()
		m.idx = len(m.items) - 1
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit

	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}

	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}

	case key.Matches(msg, keys.newItem):
		m.adding = true
		m.status, m.err = "", nil
		return m, m.input.Focus()

	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status, m.err = "", nil
		return m, m.syncAll()

	case key.Matches(msg, keys.delete):
		n, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.deleteNote(n)

	case key.Matches(msg, keys.copy):
		n, ok := m.current()
		if !ok || n.SyncID == "" {
			m.status = "nothing to copy"
			return m, nil
		}
		if err := copyToClipboard(n.SyncID); err != nil {
			m.err = fmt.Errorf("copy sync id: %w", err)
			return m, nil
		}
		m.status = "sync id copied"
	}

	return m, nil
}

func (m model) syncAll() tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{err: m.engine.SyncAll(m.ctx, false)}
	}
}

func (m model) deleteNote(n *notes.Note) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.Delete(m.ctx, n); err != nil {
			return deletedMsg{title: n.Title, err: fmt.Errorf("delete %q: %w", n.Title, err)}
		}
		m.store.Remove(n)
		if err := m.store.Flush(); err != nil {
			return deletedMsg{title: n.Title, err: err}
		}
		return deletedMsg{title: n.Title}
	}
}

func (m *model) reload() {
	m.items = m.store.Notes()
	if m.idx >= len(m.items) {
		m.idx = max(len(m.items)-1, 0)
	}
}

func (m model) current() (*notes.Note, bool) {
	if m.idx < 0 || m.idx >= len(m.items) {
		return nil, false
	}
	return m.items[m.idx], true
}

func (m model) View() string {
	var b strings.Builder

	header := "notes · " + m.engine.State().String()
	if m.syncing {
		header += "  " + m.spinner.View()
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	if len(m.items) == 0 {
		b.WriteString("no notes yet\n")
	}
	for i, n := range m.items {
		cursor := "  "
		if i == m.idx {
			cursor = cursorStyle.Render("> ")
		}
		line := cursor + n.Title
		if folder := n.FolderName(); folder != "" {
			line += " " + folderStyle.Render("["+folder+"]")
		}
		if n.SyncID == "" {
			line += folderStyle.Render(" (local)")
		}
		b.WriteString(line + "\n")
	}

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("n new  d delete  s sync  c copy id  q quit"))
	return appStyle.Render(b.String())
}

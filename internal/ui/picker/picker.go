// Package picker is the interactive workflow pick-list shown when a
// command that needs a workflow name is run without one.
package picker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dagimg-dot/floww/internal/log"
	"github.com/dagimg-dot/floww/internal/watcher"
	"github.com/dagimg-dot/floww/internal/workflow"
)

// ErrNoWorkflows indicates the workflows directory has nothing to pick.
var ErrNoWorkflows = errors.New("no workflows found")

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// item is one selectable workflow.
type item struct {
	name        string
	description string
}

func (i item) Title() string       { return i.name }
func (i item) Description() string { return i.description }
func (i item) FilterValue() string { return i.name }

// refreshMsg asks the model to re-read the workflows directory.
type refreshMsg struct{}

// Model is the bubbletea model for the pick-list.
type Model struct {
	list    list.Model
	store   *workflow.Store
	changes <-chan struct{}
	choice  string
}

// NewModel builds a picker over the store's current workflows. changes
// may be nil; when set, each signal triggers a reload of the list.
func NewModel(store *workflow.Store, title string, changes <-chan struct{}) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(loadItems(store), delegate, 48, 16)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	return Model{list: l, store: store, changes: changes}
}

// Choice returns the selected workflow name, or "" when the user quit
// without choosing.
func (m Model) Choice() string { return m.choice }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(item); ok {
				m.choice = selected.name
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)

	case refreshMsg:
		return m, tea.Batch(
			m.list.SetItems(loadItems(m.store)),
			waitForChange(m.changes),
		)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	return m.list.View()
}

// Pick shows the pick-list and blocks until the user chooses or quits.
// The list refreshes live while the workflows directory changes.
func Pick(store *workflow.Store, title string) (string, error) {
	names, err := store.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoWorkflows, store.Dir())
	}

	var changes <-chan struct{}
	if w, err := watcher.New(store.Dir(), watcher.DefaultDebounce); err == nil {
		if ch, err := w.Start(); err == nil {
			changes = ch
			defer func() { _ = w.Stop() }()
		}
	} else {
		log.Debug(log.CatWatcher, "Live refresh unavailable", "error", err)
	}

	program := tea.NewProgram(NewModel(store, title, changes))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("running picker: %w", err)
	}
	return final.(Model).Choice(), nil
}

// loadItems reads the pick-list entries, including each workflow's
// description when its file parses.
func loadItems(store *workflow.Store) []list.Item {
	names, err := store.List()
	if err != nil {
		log.Warn(log.CatWorkflow, "Listing workflows failed", "error", err)
		return nil
	}

	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		entry := item{name: name}
		if doc, _, err := store.Load(name); err == nil {
			if root, ok := doc.(map[string]any); ok {
				if desc, ok := root["description"].(string); ok {
					entry.description = desc
				}
			}
		}
		items = append(items, entry)
	}
	return items
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

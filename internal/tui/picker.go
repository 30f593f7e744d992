// Package tui holds the terminal picker used when a command needs the
// operator to choose from a short list, like selecting a generated title.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Option is one selectable entry.
type Option struct {
	Label string
	Desc  string
}

type optionItem struct {
	opt   Option
	index int
}

func (i optionItem) Title() string       { return i.opt.Label }
func (i optionItem) Description() string { return i.opt.Desc }
func (i optionItem) FilterValue() string { return i.opt.Label }

type pickerModel struct {
	list     list.Model
	selected int
	done     bool
}

func newPickerModel(title string, options []Option) pickerModel {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = optionItem{opt: opt, index: i}
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 60, 2*len(options)+6)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	return pickerModel{list: l, selected: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.selected = item.index
			}
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.done {
		return ""
	}
	return "\n" + m.list.View()
}

// Pick shows an interactive list and returns the chosen index, or -1 if
// the operator cancelled.
func Pick(title string, options []Option) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options to pick from")
	}

	p := tea.NewProgram(newPickerModel(title, options))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok {
		return -1, fmt.Errorf("unexpected picker state")
	}
	return m.selected, nil
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dipview/internal/dipole"
	"github.com/san-kum/dipview/internal/termplot"
	"github.com/san-kum/dipview/internal/view"
)

// model browses the trials of a DipoleView one panel at a time. Index 0
// is the average view, index k is trial k-1.
type model struct {
	view    *view.DipoleView
	channel int
	theme   int
	err     error

	width  int
	height int
}

func New(v *view.DipoleView) model {
	return model{view: v, width: 80, height: 24}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	n := len(m.view.Trials()) + 1
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		m.setIndex((m.view.Index() + 1) % n)
	case "left", "h":
		m.setIndex((m.view.Index() + n - 1) % n)
	case "a", "0":
		m.setIndex(0)
	case "tab", "down", "j":
		m.channel = (m.channel + 1) % len(dipole.Channels)
	case "shift+tab", "up", "k":
		m.channel = (m.channel + len(dipole.Channels) - 1) % len(dipole.Channels)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	}
	return m, nil
}

func (m *model) setIndex(i int) {
	m.err = m.view.SetIndex(i)
}

func (m model) selection() string {
	if m.view.Index() == 0 {
		return fmt.Sprintf("average of %d trials", len(m.view.Trials()))
	}
	return fmt.Sprintf("trial %d/%d", m.view.Index(), len(m.view.Trials()))
}

func (m model) View() string {
	var b strings.Builder
	st := Themes[m.theme].styles()

	b.WriteString(st.primary.Render("dipview"))
	b.WriteString(st.muted.Render(" · "))
	b.WriteString(st.text.Render(m.view.Params().SimPrefix))
	b.WriteString(st.muted.Render(" · "))
	b.WriteString(st.accent.Render(m.selection()))
	b.WriteString("\n\n")

	panels := m.view.Panels()
	if m.channel < len(panels) {
		b.WriteString(termplot.Panel(panels[m.channel], termplot.Options{
			Width:  max(m.width-14, 20),
			Height: max(m.height-8, 5),
			Color:  true,
		}))
	}

	if m.err != nil {
		b.WriteString(st.err.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.muted.Render("←/→ trial  a average  tab channel  t theme  q quit"))
	return b.String()
}

func Run(v *view.DipoleView) error {
	_, err := tea.NewProgram(New(v), tea.WithAltScreen()).Run()
	return err
}

package main

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/musilife/pkg/engine"
)

const PlaceHolderText = "Your stage name..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	session     *engine.Session
	sink        *snapshotSink
	nameInput   textinput.Model
	logViewport viewport.Model
	ready       bool
	width       int
	height      int
	err         error
	status      string

	// Name entry state
	naming bool

	// Quit confirmation state
	showQuitModal bool
}

var (
	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2)

	mainPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	victoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Strikethrough(true)

	ageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(session *engine.Session, sink *snapshotSink) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Focus()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 40
	ti.Width = 40

	logVp := viewport.New(50, 10)
	logVp.MouseWheelEnabled = true

	sink.latest = session.Snapshot()

	return ConsoleUI{
		session:     session,
		sink:        sink,
		nameInput:   ti,
		logViewport: logVp,
		naming:      true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ConsoleUI) layout() (sideWidth, mainWidth int) {
	sideWidth = 40
	mainWidth = m.width - sideWidth - 4
	if mainWidth < 30 {
		mainWidth = 30
	}
	return sideWidth, mainWidth
}

// refreshLog rewrites the log viewport from the latest snapshot.
func (m *ConsoleUI) refreshLog() {
	_, mainWidth := m.layout()
	m.logViewport.Width = mainWidth
	m.logViewport.SetContent(formatLog(m.sink.latest.Player, mainWidth))
	m.logViewport.GotoTop()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Height = max(5, m.height/2-2)
		m.ready = true
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.showQuitModal = true
			return m, nil
		}
		if m.naming {
			return m.updateNaming(msg)
		}
		return m.updateGame(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if err := m.session.Start(m.nameInput.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.naming = false
		m.nameInput.Blur()
		m.refreshLog()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	key := msg.String()

	switch {
	case key == "q":
		m.showQuitModal = true
		return m, nil

	case key == "r":
		m.session.Reset()
		m.err = nil
		m.naming = true
		m.nameInput.Reset()
		m.nameInput.Focus()
		m.refreshLog()
		return m, textinput.Blink

	case key == "c":
		if err := clipboard.WriteAll(plainLog(m.sink.latest.Player)); err != nil {
			m.err = err
		} else {
			m.status = "Career log copied to clipboard."
		}
		return m, nil

	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		if _, err := m.session.Choose(int(key[0] - '1')); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		m.refreshLog()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to walk away from the music?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderNameModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("A New Life in Music"))
	content.WriteString("\n\n")
	content.WriteString("What name will the world know you by?")
	content.WriteString("\n\n")
	content.WriteString(m.nameInput.View())
	if m.err != nil {
		content.WriteString("\n\n" + errorStyle.Render(m.err.Error()))
	}
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Enter to begin, Esc to quit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.naming {
		return m.renderNameModal()
	}

	snap := m.sink.latest
	sideWidth, mainWidth := m.layout()

	sidePanel := sidePanelStyle.Width(sideWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			writeHeader(snap),
			writeStats(snap.Player),
		),
	)

	footer := promptStyle.Render("1-9 choose • r restart • c copy log • q quit")
	if m.err != nil {
		footer = errorStyle.Render(m.err.Error())
	} else if m.status != "" {
		footer = phaseStyle.Render(m.status)
	}

	mainPanel := mainPanelStyle.Width(mainWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			writePrompt(snap, mainWidth),
			"",
			footer,
			separatorStyle.Render(strings.Repeat("─", mainWidth)),
			sectionStyle.Render("Career Log"),
			m.logViewport.View(),
		),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidePanel, mainPanel)
}

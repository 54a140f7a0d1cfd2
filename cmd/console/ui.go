package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

const (
	AgentName       = "Game Master"
	PlaceHolderText = "Issue your orders here..."
)

// Transcript entry types. Only user and gm entries are sent back as history.
const (
	entryUser  = chat.ChatRoleUser
	entryGM    = "gm"
	entryInfo  = "info"
	entryError = "error"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	faction    world.FactionID
	transcript []chat.HistoryEntry
	stats      chat.FinalStats
	hasStats   bool
	lastEvent  *chat.Event

	// Faction selection state
	showFactionModal bool
	selectedFaction  int

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type briefingMsg struct {
	response *chat.TurnResponse
	err      error
}

type turnMsg struct {
	response *chat.TurnResponse
	err      error
}

type forcesMsg struct {
	state *StateResponse
	err   error
}

type resetMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")) // light grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

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

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:           cfg,
		client:           client,
		textarea:         ta,
		chatViewport:     chatVp,
		metaViewport:     metaVp,
		showFactionModal: true,
		faction:          world.FactionUSA,
	}
}

// defconStyle colours the DEFCON level by severity.
func defconStyle(level int) lipgloss.Style {
	switch {
	case level <= 2:
		return errorStyle
	case level == 3:
		return loadingStyle
	default:
		return narratorStyle
	}
}

func writeMetadata(faction world.FactionID, stats chat.FinalStats, hasStats bool, event *chat.Event) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SITUATION ROOM") + "\n\n")

	content.WriteString("Faction:\n")
	content.WriteString(world.FactionDisplayName(faction) + "\n\n")

	if !hasStats {
		content.WriteString("Awaiting briefing...\n\n")
	} else {
		content.WriteString(fmt.Sprintf("Year: %d\n", stats.Year))
		content.WriteString("DEFCON: " + defconStyle(stats.Defcon).Render(fmt.Sprintf("%d", stats.Defcon)) + "\n")
		content.WriteString(fmt.Sprintf("Turn: %d\n\n", stats.TurnCount))
		content.WriteString(fmt.Sprintf("Budget: $%s\n", humanize.Comma(int64(stats.Budget))))
		content.WriteString(fmt.Sprintf("Oil: %s bbl\n", humanize.Comma(int64(stats.Oil))))
		content.WriteString(fmt.Sprintf("Tech: %s pts\n", humanize.Comma(int64(stats.Tech))))
		content.WriteString(fmt.Sprintf("Influence: %d%%\n", stats.Influence))
		content.WriteString(fmt.Sprintf("Intel: %d/100\n\n", stats.Intel))
	}

	if event != nil && event.Triggered && event.Title != "" {
		content.WriteString("Last Event:\n")
		content.WriteString(event.Title + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /forces: Forces\n")
	content.WriteString("• /reset: New game\n")

	return content.String()
}

// formatForces renders the grouped military table for the /forces command.
func formatForces(groups []state.FactionForces) string {
	if len(groups) == 0 {
		return "No military data available."
	}
	var b strings.Builder
	b.WriteString("Military forces by current owner (troops/navy/airforce):\n")
	for _, g := range groups {
		var troops, navy, air int
		for _, e := range g.Countries {
			troops += e.Force.Troops
			navy += e.Force.Navy
			air += e.Force.Airforce
		}
		fmt.Fprintf(&b, "\n%s (%d countries, %s troops, %s ships, %s jets)\n",
			world.FactionDisplayName(g.Faction), len(g.Countries),
			humanize.Comma(int64(troops)), humanize.Comma(int64(navy)), humanize.Comma(int64(air)))
		for _, e := range g.Countries {
			fmt.Fprintf(&b, "  %s %d/%d/%d\n", e.Code, e.Force.Troops, e.Force.Navy, e.Force.Airforce)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatEvent renders a triggered world event as a transcript note.
func formatEvent(ev *chat.Event) string {
	if ev == nil || !ev.Triggered || ev.Type != chat.EventRandom {
		return ""
	}
	text := "WORLD EVENT"
	if ev.Title != "" {
		text += ": " + ev.Title
	}
	if ev.Description != "" {
		text += " - " + ev.Description
	}
	return text
}

// turnHistory returns the exchanges the game master should see.
func (m ConsoleUI) turnHistory() []chat.HistoryEntry {
	var out []chat.HistoryEntry
	for _, e := range m.transcript {
		if e.Type == entryUser || e.Type == entryGM {
			out = append(out, e)
		}
	}
	return out
}

func (m *ConsoleUI) appendEntry(kind, text string) {
	m.transcript = append(m.transcript, chat.HistoryEntry{Type: kind, Text: text})
}

func (m *ConsoleUI) applyStats(stats chat.FinalStats) {
	m.stats = stats
	m.hasStats = true
	m.metaViewport.SetContent(writeMetadata(m.faction, m.stats, m.hasStats, m.lastEvent))
}

// layout sizes the viewports for the current window.
func (m *ConsoleUI) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

// writeChatContent renders the transcript for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("AGE OF TENSION") + "\n\n")
	content.WriteString("Issue orders to your government below. Type /help for commands.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, e := range m.transcript {
		switch e.Type {
		case entryUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(e.Text, chatWidth-6) + "\n\n")
		case entryGM:
			content.WriteString(narratorStyle.Render(AgentName+":") + "\n" + wordwrap.String(e.Text, chatWidth) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render("Error: "+e.Text) + "\n\n")
		default:
			content.WriteString(infoStyle.Render(wordwrap.String(e.Text, chatWidth)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showFactionModal {
		return m.updateFactionModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.faction, m.stats, m.hasStats, m.lastEvent))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			history := m.turnHistory()
			m.appendEntry(entryUser, input)
			m.loading = true
			m.progressTick = 0
			m.writeChatContent()

			return m, tea.Batch(m.sendTurn(input, history), progressTick())
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.appendEntry(entryError, msg.err.Error())
		} else {
			m.err = nil
			m.appendEntry(entryGM, msg.response.Narrative)
			m.lastEvent = msg.response.Event
			if note := formatEvent(msg.response.Event); note != "" {
				m.appendEntry(entryInfo, note)
			}
			if n := len(msg.response.Rejections); n > 0 {
				m.appendEntry(entryInfo, fmt.Sprintf("%d proposed change(s) were rejected by the world model.", n))
			}
			m.applyStats(msg.response.Stats)
		}
		m.writeChatContent()
		return m, nil

	case forcesMsg:
		m.loading = false
		if msg.err != nil {
			m.appendEntry(entryError, msg.err.Error())
		} else {
			m.appendEntry(entryInfo, formatForces(msg.state.MilitaryByFaction))
			if msg.state.State != nil {
				m.applyStats(chat.NewFinalStats(msg.state.State, msg.state.IntelStrength))
			}
		}
		m.writeChatContent()
		return m, nil

	case resetMsg:
		m.loading = false
		if msg.err != nil {
			m.appendEntry(entryError, msg.err.Error())
			m.writeChatContent()
			return m, nil
		}
		m.transcript = nil
		m.hasStats = false
		m.stats = chat.FinalStats{}
		m.lastEvent = nil
		m.err = nil
		m.showFactionModal = true
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

const helpText = `Commands:
• /help - Show this help
• /forces - Show military forces by current owner
• /reset - Start a new game with fresh world state
• /quit - Quit game

How to play:
• Type diplomatic, economic or military orders and press Enter
• Ask questions to receive intelligence reports
• Your intelligence network limits how accurate reports are`

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		m.appendEntry(entryInfo, helpText)
	case "/forces":
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		return m, tea.Batch(m.fetchForces(), progressTick())
	case "/reset":
		m.loading = true
		m.progressTick = 0
		m.appendEntry(entryInfo, "Resetting the world...")
		m.writeChatContent()
		return m, tea.Batch(m.resetWorld(), progressTick())
	case "/quit", "/exit":
		m.showQuitModal = true
		return m, nil
	default:
		m.appendEntry(entryError, fmt.Sprintf("Unknown command %q. Type /help for commands.", cmd))
	}

	m.writeChatContent()
	return m, nil
}

func (m ConsoleUI) sendTurn(input string, history []chat.HistoryEntry) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendTurn(m.client, m.config.APIBaseURL, chat.TurnRequest{
			Input:   input,
			History: history,
			Faction: m.faction,
		})
		return turnMsg{resp, err}
	}
}

func (m ConsoleUI) fetchBriefing() tea.Cmd {
	return func() tea.Msg {
		resp, err := requestBriefing(m.client, m.config.APIBaseURL, m.faction)
		return briefingMsg{resp, err}
	}
}

func (m ConsoleUI) fetchForces() tea.Cmd {
	return func() tea.Msg {
		sr, err := getState(m.client, m.config.APIBaseURL, m.faction)
		return forcesMsg{sr, err}
	}
}

func (m ConsoleUI) resetWorld() tea.Cmd {
	return func() tea.Msg {
		return resetMsg{resetGame(m.client, m.config.APIBaseURL)}
	}
}

func (m ConsoleUI) updateFactionModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case briefingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.showFactionModal = false
		m.layout()
		m.appendEntry(entryGM, msg.response.Narrative)
		m.applyStats(msg.response.Stats)
		m.writeChatContent()
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}
		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyUp:
			if m.selectedFaction > 0 {
				m.selectedFaction--
			}
		case tea.KeyDown:
			if m.selectedFaction < len(world.PlayableFactions)-1 {
				m.selectedFaction++
			}
		case tea.KeyEnter:
			m.faction = world.PlayableFactions[m.selectedFaction]
			m.err = nil
			m.loading = true
			return m, m.fetchBriefing()
		}
	}

	return m, nil
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
				if m.showFactionModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("The world will be waiting when you return.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderFactionModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Preparing Briefing..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Your advisors are assembling the intelligence picture..."))
	default:
		content.WriteString(modalTitleStyle.Render("Choose Your Faction"))
		content.WriteString("\n\n")

		for i, f := range world.PlayableFactions {
			if i == m.selectedFaction {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", world.FactionDisplayName(f))))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", world.FactionDisplayName(f))))
			}
			content.WriteString("\n")
		}

		if m.err != nil {
			content.WriteString("\n")
			content.WriteString(errorStyle.Render(fmt.Sprintf("Briefing failed: %v", m.err)))
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showFactionModal {
		return m.renderFactionModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

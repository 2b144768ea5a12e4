package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/story-graph/internal/storage"
	"github.com/jwebster45206/story-graph/pkg/story"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	Title           = "STORY GRAPH"
	PlaceHolderText = "Type a choice number..."
)

type entryKind int

const (
	entryScene entryKind = iota
	entryChoice
	entryInfo
	entryError
	entryBanner
)

// entry is one block of the transcript. Scene entries hold the index of
// the node they show.
type entry struct {
	kind entryKind
	text string
	node int
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	store     storage.Storage
	limits    story.Limits
	logger    *slog.Logger
	sessionID uuid.UUID

	story     *story.Story
	storyName string
	entries   []entry

	storyViewport viewport.Model
	metaViewport  viewport.Model
	input         textinput.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Story selection state
	showStoryModal bool
	stories        []string
	selectedStory  int
	loadingStories bool

	// Quit confirmation state
	showQuitModal bool

	writeClipboard func(string) error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
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

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	wonBannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("86")).
			Bold(true).
			Padding(0, 2)

	failedBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("196")).
				Bold(true).
				Padding(0, 2)

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

var titleCaser = cases.Title(language.English)

func NewConsoleUI(store storage.Storage, limits story.Limits, logger *slog.Logger, sessionID uuid.UUID) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Focus()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 64
	ti.Width = 50

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		store:          store,
		limits:         limits,
		logger:         logger,
		sessionID:      sessionID,
		input:          ti,
		storyViewport:  storyVp,
		metaViewport:   metaVp,
		showStoryModal: true,
		loadingStories: true,
		writeClipboard: clipboard.WriteAll,
	}
}

// outcomeBanner returns the banner for a finished session, or "" while the
// session can still move.
func outcomeBanner(state story.State) string {
	word := titleCaser.String(strings.ToLower(state.String()))
	switch state {
	case story.StateWon:
		return wonBannerStyle.Render("★ You " + word + " ★")
	case story.StateFailed:
		return failedBannerStyle.Render("✗ You " + word + " ✗")
	default:
		return ""
	}
}

// formatScene renders a scene for the story panel: the text wrapped to
// width, then one line per choice.
func formatScene(scene *story.Scene, width int) string {
	if scene == nil {
		return ""
	}
	var content strings.Builder
	content.WriteString(sceneStyle.Render(wordwrap.String(scene.Text(), width)))
	content.WriteString("\n")
	for _, label := range scene.Choices() {
		content.WriteString("\n")
		content.WriteString(choiceStyle.Render("› ") + wordwrap.String(label, width-2))
	}
	return content.String()
}

func writeMetadata(m *ConsoleUI) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(m.sessionID.String()[:8] + "...\n\n")

	content.WriteString("Story:\n")
	content.WriteString(m.storyName + "\n\n")

	if m.story != nil {
		content.WriteString("Scene:\n")
		content.WriteString(fmt.Sprintf("%d of %d\n\n", m.story.ActiveIndex()+1, m.story.Len()))

		content.WriteString("State:\n")
		content.WriteString(m.story.State().String() + "\n\n")

		content.WriteString("Choices made:\n")
		content.WriteString(fmt.Sprintf("%d\n", len(m.story.Path())-1))
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Choose\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /scene: Raw scene\n")
	content.WriteString("• /restart: Restart\n")
	content.WriteString("• /copy: Copy transcript\n")

	return content.String()
}

// writeStoryContent rebuilds the story panel for the current viewport width
func (m *ConsoleUI) writeStoryContent() {
	width := m.storyViewport.Width - 6 // Account for left(3) + right(3) padding
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n\n")
	content.WriteString("Pick a choice by typing its number.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range m.entries {
		switch e.kind {
		case entryScene:
			content.WriteString(formatScene(m.story.Node(e.node).Scene(), width))
		case entryChoice:
			content.WriteString(userStyle.Render("You: ") + e.text)
		case entryInfo:
			content.WriteString(wordwrap.String(e.text, width))
		case entryError:
			content.WriteString(errorStyle.Render(wordwrap.String(e.text, width)))
		case entryBanner:
			content.WriteString(e.text)
		}
		content.WriteString("\n\n")
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoBottom()
}

func (m *ConsoleUI) refresh() {
	m.writeStoryContent()
	m.metaViewport.SetContent(writeMetadata(m))
}

func (m *ConsoleUI) appendEntry(kind entryKind, text string) {
	m.entries = append(m.entries, entry{kind: kind, text: text})
}

// showActive appends the active scene and, when the session is over, the
// outcome banner.
func (m *ConsoleUI) showActive() {
	m.entries = append(m.entries, entry{kind: entryScene, node: m.story.ActiveIndex()})
	if banner := outcomeBanner(m.story.State()); banner != "" {
		m.appendEntry(entryBanner, banner)
		m.appendEntry(entryInfo, "Type /restart to play again.")
	}
}

// plainTranscript is the session as text: each scene in its story file
// form followed by the choice made.
func (m ConsoleUI) plainTranscript() string {
	var b strings.Builder
	for _, e := range m.entries {
		switch e.kind {
		case entryScene:
			b.WriteString(m.story.Node(e.node).Scene().String())
		case entryChoice:
			b.WriteString(e.text + "\n")
		}
	}
	if m.story != nil {
		b.WriteString(m.story.State().String() + "\n")
	}
	return b.String()
}

func (m *ConsoleUI) resize() {
	storyWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - storyWidth - 6
	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.input.Width = storyWidth - 8
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showStoryModal {
		return m.loadStories()
	}
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle story modal first
	if m.showStoryModal {
		return m.updateStoryModal(msg)
	}

	// Handle quit modal second
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.input.Value())
			if input == "" {
				return m, nil
			}
			m.input.Reset()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			m.choose(input)
			return m, nil
		}

	case clipboardMsg:
		if msg.err != nil {
			m.appendEntry(entryError, "Copy failed: "+msg.err.Error())
		} else {
			m.appendEntry(entryInfo, "Transcript copied to the clipboard.")
		}
		m.writeStoryContent()
		return m, nil
	}

	// Update components for non-mouse events
	m.input, tiCmd = m.input.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// choose applies a typed choice id. Unlike a piped session, an id the
// scene does not offer is reported and the session keeps going.
func (m *ConsoleUI) choose(input string) {
	if m.story.State().Terminal() {
		m.appendEntry(entryInfo, "The story is over. Type /restart to play again.")
		m.writeStoryContent()
		return
	}

	id, err := strconv.Atoi(input)
	if err != nil {
		m.appendEntry(entryError, fmt.Sprintf("%q is not a choice number.", input))
		m.writeStoryContent()
		return
	}
	if !m.story.Offers(id) {
		m.appendEntry(entryError, fmt.Sprintf("No choice here has the number %d.", id))
		m.writeStoryContent()
		return
	}

	m.appendEntry(entryChoice, input)
	state := m.story.ApplyChoice(id)
	m.logger.Debug("Choice applied", "story", m.storyName, "choice", id, "node", m.story.ActiveIndex(), "state", state.String())
	m.showActive()
	m.refresh()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		m.appendEntry(entryInfo, `Commands:
• /help - Show this help
• /scene - Show the current scene as written in the story file
• /restart - Start the story again
• /copy - Copy the transcript to the clipboard
• Ctrl+C - Quit

How to play:
• Each choice starts with its number
• Type the number and press Enter`)

	case "/scene":
		m.appendEntry(entryInfo, strings.TrimSuffix(m.story.Active().Scene().String(), "\n"))

	case "/restart":
		m.story.Reset()
		m.entries = nil
		m.showActive()
		m.logger.Debug("Story restarted", "story", m.storyName)
		m.refresh()
		return m, nil

	case "/copy":
		return m, m.copyTranscript()

	default:
		m.appendEntry(entryError, fmt.Sprintf("Unknown command %s. Type /help for the list.", cmd))
	}

	m.writeStoryContent()
	return m, nil
}

func (m ConsoleUI) updateStoryModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case storiesLoadedMsg:
		m.loadingStories = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.stories = msg.names
		}

	case storyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Warn("Failed to load story", "story", msg.name, "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.story = msg.story
		m.storyName = msg.name
		m.showStoryModal = false
		m.err = nil
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.logger.Info("Story started", "story", msg.name, "nodes", m.story.Len())
		m.entries = nil
		m.showActive()
		m.refresh()
		m.input.Focus()
		m.ready = true
		return m, textinput.Blink

	case tea.KeyMsg:
		if m.loadingStories {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			m.showStoryModal = false
			return m, nil
		case tea.KeyUp:
			if m.selectedStory > 0 {
				m.selectedStory--
			}
		case tea.KeyDown:
			if m.selectedStory < len(m.stories)-1 {
				m.selectedStory++
			}
		case tea.KeyEnter:
			if len(m.stories) > 0 && !m.loading {
				m.loading = true
				m.err = nil
				return m, m.loadStory(m.stories[m.selectedStory])
			}
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
				if m.story == nil {
					// Back to story selection
					m.showStoryModal = true
					return m, nil
				}
				m.input.Focus()
				return m, textinput.Blink
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
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the story?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStoryModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingStories:
		content.WriteString(modalTitleStyle.Render("Loading Stories..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available stories..."))
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Opening Story..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Building the story graph..."))
	case len(m.stories) == 0 && m.err == nil:
		content.WriteString(modalTitleStyle.Render("No Stories"))
		content.WriteString("\n\n")
		content.WriteString("Add .txt story files to the data directory or publish one with validate -publish.")
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Press Ctrl+C to exit"))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Story"))
		content.WriteString("\n\n")

		for i, name := range m.stories {
			if i == m.selectedStory {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		if m.err != nil {
			content.WriteString("\n")
			content.WriteString(errorStyle.Render(wordwrap.String(fmt.Sprintf("Error: %v", m.err), 50)))
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showStoryModal {
		return m.renderStoryModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"", // Add empty line for spacing
			separatorStyle.Render(strings.Repeat("─", max(storyWidth-4, 0))),
			m.input.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

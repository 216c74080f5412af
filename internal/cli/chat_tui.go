package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/kaimana/makeke/internal/chat"
	"github.com/kaimana/makeke/internal/intent"
	"github.com/kaimana/makeke/internal/listings"
	"github.com/kaimana/makeke/internal/models"
)

// tuiTurnTimeout bounds one assistant turn, tool rounds included.
const tuiTurnTimeout = 2 * time.Minute

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Action    lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Action:    lipgloss.Color("#FFAF00"), // amber
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) actionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Action).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// turnDoneMsg carries the assistant reply for a submitted turn.
type turnDoneMsg struct {
	reply *models.ChatMessage
	err   error
}

// dispatchDoneMsg carries the effect of a confirmed action.
type dispatchDoneMsg struct {
	dispatch *chat.Dispatch
	err      error
}

// searchResultsMsg carries listings fetched after a confirmed search.
type searchResultsMsg struct {
	results []models.Listing
	err     error
}

// chatModel is the bubbletea model for the conversation.
type chatModel struct {
	convo *chat.Orchestrator
	store listings.Store

	input   textinput.Model
	spin    spinner.Model
	theme   Theme
	lines   []string
	width   int
	waiting bool

	// lastActionable is the id of the newest reply carrying an action.
	lastActionable string
	pendingImage   *models.PendingImage
}

func newChatModel(convo *chat.Orchestrator, store listings.Store) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask for an item, or describe one to sell..."
	ti.CharLimit = 2000
	ti.Focus()

	m := chatModel{
		convo: convo,
		store: store,
		input: ti,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme: defaultTheme,
		width: 80,
	}

	for _, msg := range convo.History() {
		m.appendMessage(&msg)
	}
	m.lines = append(m.lines, m.theme.hintStyle().Render(
		"Commands: /confirm runs the proposed action, /photo <path> attaches an image, /reset starts over, /quit exits."))
	return m
}

// Init starts the spinner; it only renders while a turn is in flight.
func (m chatModel) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			return m.handleInput(strings.TrimSpace(m.input.Value()))
		}

	case turnDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, m.theme.errorStyle().Render(fmt.Sprintf("Turn skipped: %v", msg.err)))
			return m, nil
		}
		m.appendMessage(msg.reply)
		return m, nil

	case dispatchDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, m.theme.errorStyle().Render(fmt.Sprintf("Confirm failed: %v", msg.err)))
			return m, nil
		}
		m.lines = append(m.lines, m.theme.actionStyle().Render("✓ "+describeDispatch(msg.dispatch)))
		if msg.dispatch.Kind == intent.KindSearch {
			m.waiting = true
			return m, m.runSearch(*msg.dispatch.Filters)
		}
		return m, nil

	case searchResultsMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, m.theme.errorStyle().Render(fmt.Sprintf("Search failed: %v", msg.err)))
			return m, nil
		}
		m.appendResults(msg.results)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleInput routes one submitted line: slash commands or a chat turn.
func (m chatModel) handleInput(line string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	switch {
	case line == "":
		return m, nil

	case line == "/quit":
		return m, tea.Quit

	case line == "/reset":
		m.convo.Reset()
		m.lastActionable = ""
		m.pendingImage = nil
		m.lines = nil
		for _, msg := range m.convo.History() {
			m.appendMessage(&msg)
		}
		return m, nil

	case line == "/confirm":
		if m.lastActionable == "" {
			m.lines = append(m.lines, m.theme.hintStyle().Render("Nothing to confirm yet."))
			return m, nil
		}
		m.waiting = true
		return m, m.confirm(m.lastActionable)

	case strings.HasPrefix(line, "/photo "):
		return m.attachPhoto(strings.TrimSpace(strings.TrimPrefix(line, "/photo")))

	default:
		m.lines = append(m.lines, m.theme.userStyle().Render("You: ")+line)
		if m.pendingImage != nil {
			m.lines = append(m.lines, m.theme.hintStyle().Render("  (with photo "+m.pendingImage.Preview+")"))
		}
		m.waiting = true
		image := m.pendingImage
		m.pendingImage = nil
		return m, m.submit(line, image)
	}
}

// attachPhoto loads an image file to send with the next turn.
func (m chatModel) attachPhoto(path string) (tea.Model, tea.Cmd) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.lines = append(m.lines, m.theme.errorStyle().Render(fmt.Sprintf("Cannot read photo: %v", err)))
		return m, nil
	}
	m.pendingImage = &models.PendingImage{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: http.DetectContentType(data),
		Preview:  filepath.Base(path),
	}
	m.lines = append(m.lines, m.theme.hintStyle().Render("Photo attached to your next message: "+path))
	return m, nil
}

// submit runs the turn in a command goroutine to keep Update responsive.
func (m chatModel) submit(text string, image *models.PendingImage) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), tuiTurnTimeout)
		defer cancel()

		reply, err := m.convo.Submit(ctx, text, image)
		return turnDoneMsg{reply: reply, err: err}
	}
}

func (m chatModel) confirm(messageID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), tuiTurnTimeout)
		defer cancel()

		dispatch, err := m.convo.Confirm(ctx, messageID)
		return dispatchDoneMsg{dispatch: dispatch, err: err}
	}
}

func (m chatModel) runSearch(filters models.SearchFilters) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		results, err := m.store.List(ctx, filters)
		return searchResultsMsg{results: results, err: err}
	}
}

// appendMessage renders a chat message into the transcript.
func (m *chatModel) appendMessage(msg *models.ChatMessage) {
	switch msg.Role {
	case models.RoleUser:
		m.lines = append(m.lines, m.theme.userStyle().Render("You: ")+msg.Text)
	default:
		m.lines = append(m.lines, m.theme.assistantStyle().Render("Mākeke: ")+msg.Text)
	}

	if msg.Intent != nil {
		m.lastActionable = msg.ID
		m.lines = append(m.lines,
			m.theme.actionStyle().Render("→ "+describeIntent(msg.Intent)),
			m.theme.hintStyle().Render("  Type /confirm to run it."))
	}
}

// appendResults renders confirmed search results into the transcript.
func (m *chatModel) appendResults(results []models.Listing) {
	if len(results) == 0 {
		m.lines = append(m.lines, m.theme.hintStyle().Render("No listings match."))
		return
	}
	now := time.Now()
	for _, l := range results {
		line := fmt.Sprintf("  $%.2f  %s (%s, %s)", l.Price, l.Title, l.Category, l.Location)
		if l.Boosted(now) {
			line += " ★"
		}
		m.lines = append(m.lines, line)
	}
}

// View renders the transcript and prompt.
func (m chatModel) View() tea.View {
	var b strings.Builder

	wrap := lipgloss.NewStyle().Width(m.width)
	for _, line := range m.lines {
		b.WriteString(wrap.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.waiting {
		b.WriteString(m.spin.View() + " thinking...\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}

	return tea.NewView(b.String())
}

// describeIntent summarizes a proposed action for display.
func describeIntent(in *intent.Intent) string {
	switch in.Kind {
	case intent.KindSearch:
		s := in.Search
		desc := "search"
		if s.SearchQuery != "" {
			desc += fmt.Sprintf(" for %q", s.SearchQuery)
		}
		if s.Filters.Location != "" {
			desc += " in " + s.Filters.Location
		}
		return desc
	case intent.KindListingDraft:
		d := in.ListingDraft
		return fmt.Sprintf("create listing %q at $%s in %s", d.Title, d.Price, d.Location)
	case intent.KindMessageDraft:
		return fmt.Sprintf("send to seller: %q", in.MessageDraft.MessageToSeller)
	}
	return string(in.Kind)
}

// describeDispatch summarizes a dispatched action's effect.
func describeDispatch(d *chat.Dispatch) string {
	switch d.Kind {
	case intent.KindSearch:
		return "Searching listings"
	case intent.KindListingDraft:
		return fmt.Sprintf("Listing created: %s ($%.2f)", d.Listing.Title, d.Listing.Price)
	case intent.KindMessageDraft:
		return "Message sent to the seller"
	}
	return string(d.Kind)
}

// RunChatTUI runs the interactive conversation UI.
func RunChatTUI(convo *chat.Orchestrator, store listings.Store) error {
	p := tea.NewProgram(newChatModel(convo, store))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

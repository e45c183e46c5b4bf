package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/prmon/internal/event"
	"github.com/mattjoyce/prmon/internal/events"
)

const headerHeight = 3

// Model is the main BubbleTea model for the monitor TUI.
type Model struct {
	repo string
	pr   int

	width  int
	height int
	ready  bool

	theme    Theme
	viewport viewport.Model
	lines    []string
	counts   map[event.Kind]int

	sub    <-chan events.Envelope
	cancel func()
}

// New creates a monitor TUI model subscribed to the session hub.
func New(repo string, pr int, hub *events.Hub) Model {
	sub, cancel := hub.Subscribe()
	return Model{
		repo:   repo,
		pr:     pr,
		theme:  NewDefaultTheme(),
		counts: make(map[event.Kind]int),
		sub:    sub,
		cancel: cancel,
	}
}

type envelopeMsg events.Envelope

func receiveNextEvent(sub <-chan events.Envelope) tea.Cmd {
	return func() tea.Msg {
		env, ok := <-sub
		if !ok {
			return nil
		}
		return envelopeMsg(env)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		receiveNextEvent(m.sub),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight
		m.ready = true
		m.viewport.SetContent(strings.Join(m.lines, "\n"))

	case envelopeMsg:
		env := events.Envelope(msg)
		m.counts[env.Event.Kind()]++
		m.lines = append(m.lines, m.formatEvent(env))
		if m.ready {
			m.viewport.SetContent(strings.Join(m.lines, "\n"))
			m.viewport.GotoBottom()
		}
		return m, receiveNextEvent(m.sub)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	title := m.theme.Title.Render(fmt.Sprintf("%s#%d", m.repo, m.pr))
	stats := m.theme.Dim.Render(fmt.Sprintf("ci:%d review:%d comment:%d  (q to quit)",
		m.counts[event.KindCI],
		m.counts[event.KindReview],
		m.counts[event.KindComment],
	))
	header := m.theme.Header.Render("prmon") + " " + title + "  " + stats

	return header + "\n\n" + m.viewport.View()
}

func (m Model) formatEvent(env events.Envelope) string {
	ts := m.theme.Dim.Render(env.At.Format("15:04:05"))

	switch ev := env.Event.(type) {
	case event.CIEvent:
		style := m.theme.CIPending
		label := string(ev.Status)
		if ev.Status == event.CheckCompleted {
			label = string(ev.Conclusion)
			switch ev.Conclusion {
			case event.ConclusionSuccess, event.ConclusionSkipped, event.ConclusionNeutral:
				style = m.theme.CISuccess
			default:
				style = m.theme.CIFailure
			}
		}
		return fmt.Sprintf("%s %s %s %s", ts, style.Render("ci"), ev.Check, style.Render(label))

	case event.ReviewEvent:
		return fmt.Sprintf("%s %s %s %s", ts, m.theme.Review.Render("review"),
			ev.User, m.theme.Highlight.Render(string(ev.Action)))

	case event.CommentEvent:
		target := ""
		if ev.PR != nil {
			target = fmt.Sprintf("pr#%d", *ev.PR)
		} else if ev.Issue != nil {
			target = fmt.Sprintf("issue#%d", *ev.Issue)
		}
		body := ev.Body
		if len(body) > 80 {
			body = body[:77] + "..."
		}
		return fmt.Sprintf("%s %s %s %s: %s", ts, m.theme.Comment.Render("comment"),
			target, ev.User, body)
	}

	return fmt.Sprintf("%s %s", ts, m.theme.Dim.Render(string(env.Event.Kind())))
}

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const (
	tickInterval = 150 * time.Millisecond
	// DefaultTailLines is how many output lines the build view keeps visible.
	DefaultTailLines = 12
	lineWidth        = 120
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner and the elapsed clock.
type tickMsg time.Time

type tailLine struct {
	text   string
	stderr bool
}

// BuildModel is a bubbletea model that shows a running build: a spinner with
// elapsed time, the current state and a tail of the most recent output.
// Pressing q or ctrl+c calls the cancel function once; the model keeps
// running until the build reports completion.
type BuildModel struct {
	title   string
	target  string
	cancel  func()
	started time.Time
	now     func() time.Time

	state     string
	tail      []tailLine
	tailLines int
	lines     int

	cancelling bool
	done       bool
	status     string
	detail     string
	err        error

	tick int
}

// NewBuildModel creates a build view. cancel may be nil.
func NewBuildModel(title, target string, cancel func()) BuildModel {
	return BuildModel{
		title:     title,
		target:    target,
		cancel:    cancel,
		started:   time.Now(),
		now:       time.Now,
		state:     "launching",
		tailLines: DefaultTailLines,
	}
}

// WithTailLines sets how many output lines stay visible.
func (m BuildModel) WithTailLines(n int) BuildModel {
	if n > 0 {
		m.tailLines = n
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m BuildModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m BuildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case OutputMsg:
		m.appendLine(msg)
		return m, nil

	case StateMsg:
		m.state = msg.State
		return m, nil

	case BuildDoneMsg:
		m.done = true
		m.status = msg.Status
		m.detail = msg.Detail
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.cancelling && m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
			if m.cancel == nil {
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *BuildModel) appendLine(msg OutputMsg) {
	m.lines++
	m.tail = append(m.tail, tailLine{text: msg.Line, stderr: msg.Stderr})
	if over := len(m.tail) - m.tailLines; over > 0 {
		m.tail = append(m.tail[:0:0], m.tail[over:]...)
	}
}

// View satisfies the tea.Model interface.
func (m BuildModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	if m.target != "" {
		b.WriteString(FaintStyle.Render("  target: " + m.target))
	}
	b.WriteString("\n\n")

	for _, line := range m.tail {
		text := TruncateWithEllipsis(line.text, lineWidth)
		if line.stderr {
			text = ErrorLineStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	if len(m.tail) > 0 {
		b.WriteByte('\n')
	}

	elapsed := formatElapsed(m.now().Sub(m.started))
	if m.done {
		line := fmt.Sprintf("%s in %s", m.status, elapsed)
		if m.detail != "" {
			line += " (" + m.detail + ")"
		}
		b.WriteString(StatusStyle(m.status).Render(line))
		b.WriteByte('\n')
		return b.String()
	}

	spinner := spinnerFrames[m.tick%len(spinnerFrames)]
	state := m.state
	if m.cancelling {
		state = "cancelling"
	}
	fmt.Fprintf(&b, "%s %s %s, %d lines\n", spinner, StatusStyle(m.state).Render(state), elapsed, m.lines)
	if !m.cancelling && m.cancel != nil {
		b.WriteString(FaintStyle.Render("press q to cancel"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Done returns whether the model has finished.
func (m BuildModel) Done() bool {
	return m.done
}

// Status returns the terminal status reported by BuildDoneMsg.
func (m BuildModel) Status() string {
	return m.status
}

// Cancelling reports whether the user asked to stop the build.
func (m BuildModel) Cancelling() bool {
	return m.cancelling
}

// Err returns any fatal error that occurred.
func (m BuildModel) Err() error {
	return m.err
}

// formatElapsed formats a duration for the status line.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis truncates a string to max terminal cells and adds
// "..." when it does not fit. Wide runes and ANSI sequences are measured by
// display width.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimRight(value, " \t\r")
	if ansi.StringWidth(value) <= max {
		return value
	}
	if max <= 3 {
		return ansi.Truncate(value, max, "")
	}
	return ansi.Truncate(value, max, "...")
}

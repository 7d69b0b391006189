package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/macca-core/core"
	"github.com/koscakluka/macca-core/core/capture"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
	"github.com/koscakluka/macca-core/core/transport"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	coachStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	feedbackStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

const (
	headerHeight = 4
	footerHeight = 3
)

type turnDoneMsg struct{ err error }

type practiceDoneMsg struct {
	result coaching.PronunciationResult
	passed bool
	err    error
}

type recordingMsg struct{ err error }

type model struct {
	ctx     context.Context
	session *orchestration.Session
	stream  *eventStream

	input    textinput.Model
	viewport viewport.Model
	width    int
	ready    bool

	notice string
}

func newModel(ctx context.Context, session *orchestration.Session, stream *eventStream) model {
	input := textinput.New()
	input.Placeholder = "Type a message, or /rec to speak"
	input.CharLimit = 500
	input.Focus()

	return model{ctx: ctx, session: session, stream: stream, input: input}
}

func runUI(ctx context.Context, session *orchestration.Session, stream *eventStream) error {
	_, err := tea.NewProgram(newModel(ctx, session, stream), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if dropped := stream.Dropped(); dropped > 0 {
		slog.Warn("some session events never reached the screen", "dropped", dropped)
	}
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.stream.wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-headerHeight-footerHeight, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = msg.Width, height
		}
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.notice = ""
			return m, m.handleLine(line)
		}

	case eventMsg:
		m.onEvent(msg.event)
		m.refresh()
		return m, m.stream.wait()

	case turnDoneMsg:
		m.notice = describeError(msg.err)
		m.refresh()

	case recordingMsg:
		m.notice = describeError(msg.err)

	case practiceDoneMsg:
		if msg.err != nil {
			m.notice = describeError(msg.err)
		} else if msg.result.Word != "" {
			m.notice = ""
		}
		m.refresh()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleLine(line string) tea.Cmd {
	ctx, session := m.ctx, m.session
	drill := session.Mode() == coaching.ModePronunciation

	switch line {
	case "/quit", "/exit":
		return tea.Quit
	case "/rec":
		return func() tea.Msg { return recordingMsg{err: session.StartRecording(ctx)} }
	case "/cancel":
		return func() tea.Msg { return recordingMsg{err: session.CancelRecording(ctx)} }
	case "/stop":
		if drill {
			return func() tea.Msg {
				result, passed, err := session.StopPracticeRecording(ctx)
				return practiceDoneMsg{result: result, passed: passed, err: err}
			}
		}
		return func() tea.Msg {
			_, err := session.StopRecording(ctx)
			return turnDoneMsg{err: err}
		}
	}

	if drill {
		if line != "/say" {
			m.notice = "Use /say to check the word by text, or /rec and /stop to say it."
			return nil
		}
		return func() tea.Msg {
			result, passed, err := session.PracticeWord(ctx, nil)
			return practiceDoneMsg{result: result, passed: passed, err: err}
		}
	}
	if strings.HasPrefix(line, "/") {
		m.notice = fmt.Sprintf("Unknown command %s", line)
		return nil
	}
	return func() tea.Msg {
		_, err := session.Submit(ctx, line)
		return turnDoneMsg{err: err}
	}
}

func (m *model) onEvent(event events.Event) {
	switch e := event.(type) {
	case events.CaptureFailed:
		if !errors.Is(e.Err, capture.ErrCaptureCancelled) {
			m.notice = describeError(e.Err)
		}
	case events.LessonCompleted:
		m.notice = "Lesson complete! Keep practising as long as you like."
	case events.DrillCompleted:
		m.notice = "Every word mastered! Pick another sound with macca drill <sound>."
	}
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("status: %s · /rec /stop /cancel /quit", m.session.Status())))
	return b.String()
}

func (m model) renderHeader() string {
	switch m.session.Mode() {
	case coaching.ModeGuided:
		lesson := m.session.Lesson()
		info := lesson.Lesson()
		return titleStyle.Render(info.Title) + "\n" +
			wordwrap.String(info.Subtitle, m.width) + "\n" +
			fmt.Sprintf("Step %d/%d: %s %s", lesson.CurrentStep(), lesson.TotalSteps(), lesson.StepTitle(), progressBar(lesson.Progress(), 20))

	case coaching.ModePronunciation:
		drill := m.session.Drill()
		target, ok := drill.Target()
		if !ok {
			return titleStyle.Render("Pronunciation drill") + "\nNo sound selected.\n"
		}
		word, _ := drill.CurrentWord()
		line := fmt.Sprintf("Say: %s (%d/%d)", titleStyle.Render(word), drill.WordIndex()+1, len(target.Examples))
		if done := drill.CompletedWords(); len(done) > 0 {
			line += "  " + doneStyle.Render("✓ "+strings.Join(done, " ✓ "))
		}
		return titleStyle.Render(fmt.Sprintf("%s %s · %s", target.Name, target.Sound, target.Difficulty)) + "\n" +
			line + "\n" + m.renderLastResult()
	}
	return titleStyle.Render("Live conversation with Macca") + "\n\n"
}

func (m model) renderLastResult() string {
	result, ok := m.session.Drill().LastResult()
	if !ok {
		return ""
	}
	tip := result.TipFor(m.session.Profile().ExplanationLanguage)
	return wordwrap.String(fmt.Sprintf("Score %d/100 (%s) %s", result.Score, result.Status, tip), m.width)
}

func (m model) renderTranscript() string {
	width := max(m.width-2, 20)

	var b strings.Builder
	for turn := range m.session.Transcript().Values {
		speaker := coachStyle.Render("Macca")
		if turn.Role == coaching.RoleUser {
			speaker = userStyle.Render("You")
		}
		b.WriteString(wordwrap.String(speaker+": "+turn.Text, width))
		b.WriteString("\n")
		if line := renderFeedback(turn.Feedback); line != "" {
			b.WriteString(feedbackStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderFeedback(fb *coaching.Feedback) string {
	if fb.IsZero() {
		return ""
	}

	var parts []string
	if fb.GrammarOK != nil {
		if *fb.GrammarOK {
			parts = append(parts, "grammar ✓")
		} else {
			parts = append(parts, "grammar ✗")
		}
	}
	if fb.FluencyScore != nil {
		parts = append(parts, fmt.Sprintf("fluency %d/100", *fb.FluencyScore))
	}
	if fb.TipID != nil {
		parts = append(parts, "tip: "+*fb.TipID)
	}
	if fb.EncouragementID != nil {
		parts = append(parts, *fb.EncouragementID)
	}
	if fb.IsStepComplete() {
		parts = append(parts, "step complete")
	}
	return strings.Join(parts, " · ")
}

func progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	return doneStyle.Render(strings.Repeat("█", filled)) + statusStyle.Render(strings.Repeat("░", width-filled))
}

func describeError(err error) string {
	var transportErr *transport.TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, capture.ErrPermissionDenied):
		return "Microphone access was denied."
	case errors.Is(err, capture.ErrDeviceUnavailable):
		return "No microphone is available."
	case errors.Is(err, capture.ErrNoAudioCaptured):
		return "No audio was captured. Try again."
	case errors.Is(err, capture.ErrRecordingTooShort):
		return "That recording was too short. Speak a little longer before /stop."
	case errors.Is(err, capture.ErrCaptureActive):
		return "Already recording."
	case errors.Is(err, capture.ErrNotRecording):
		return "Not recording. Start with /rec."
	case errors.Is(err, orchestration.ErrTurnInFlight):
		return "Macca is still thinking about your last message."
	case errors.As(err, &transportErr):
		return fmt.Sprintf("Could not reach Macca (%s).", transportErr.Cause)
	}
	return err.Error()
}

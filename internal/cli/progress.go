package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/service"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// Messages fed into the UI by the pipeline's progress sink.
type runStartedMsg struct {
	course string
	total  int
}

type topicDoneMsg struct {
	result models.TopicResult
	done   int
	total  int
}

type runDoneMsg struct {
	report *models.RunReport
	err    error
}

// tuiSink forwards pipeline events into the bubbletea program.
type tuiSink struct {
	p *tea.Program
}

var _ service.ProgressSink = (*tuiSink)(nil)

func (s *tuiSink) RunStarted(courseName string, totalTopics int) {
	s.p.Send(runStartedMsg{course: courseName, total: totalTopics})
}

func (s *tuiSink) TopicFinished(result models.TopicResult, done, total int) {
	s.p.Send(topicDoneMsg{result: result, done: done, total: total})
}

func (s *tuiSink) RunFinished(*models.RunReport) {}

// generateModel is the bubbletea model for a generation run.
type generateModel struct {
	course   string
	total    int
	done     int
	failed   []models.TopicResult
	last     string
	progress progress.Model
	theme    Theme

	report   *models.RunReport
	err      error
	finished bool
	quitting bool
}

func newGenerateModel() generateModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return generateModel{
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command.
func (m generateModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case runStartedMsg:
		m.course = msg.course
		m.total = msg.total
		return m, nil

	case topicDoneMsg:
		m.done = msg.done
		m.total = msg.total
		if msg.result.Status == models.TopicFailed {
			m.failed = append(m.failed, msg.result)
			m.last = fmt.Sprintf("✗ %s %s", msg.result.TopicNumber, msg.result.TopicName)
		} else {
			m.last = fmt.Sprintf("✓ %s %s", msg.result.TopicNumber, msg.result.TopicName)
		}
		return m, nil

	case runDoneMsg:
		m.report = msg.report
		m.err = msg.err
		m.finished = true
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m generateModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m generateModel) renderContent() string {
	if m.finished {
		return m.finalView()
	}

	if m.total == 0 {
		return "Preparing course structure...\n"
	}

	pct := float64(m.done) / float64(m.total)
	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.course))
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d topics", m.done, m.total)
	hint := m.theme.hintStyle().Render(m.last)

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// finalView renders the completion message.
func (m generateModel) finalView() string {
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Run failed: %s\n", m.err))
	}
	if m.report == nil {
		return ""
	}

	r := m.report
	var output string
	if r.FailedTopics > 0 {
		output += m.theme.errorStyle().Render(fmt.Sprintf("✗ Completed with failures (%d/%d)", r.CompletedTopics, r.TotalTopics)) + "\n\n"
	} else {
		output += m.theme.completedStyle().Render(fmt.Sprintf("✓ Completed (%d/%d)", r.CompletedTopics, r.TotalTopics)) + "\n\n"
	}
	output += fmt.Sprintf("  Course: %s\n", r.CourseName)
	output += fmt.Sprintf("  Run:    %s\n", r.RunID)
	for _, f := range m.failed {
		output += m.theme.errorStyle().Render(fmt.Sprintf("  • %s %s: %s\n", f.TopicNumber, f.TopicName, f.Error))
	}
	return output
}

// runGenerateTUI runs the pipeline behind the interactive progress UI. The
// run callback executes on its own goroutine and reports through the sink it
// is handed.
func runGenerateTUI(run func(service.ProgressSink) (*models.RunReport, error)) (*models.RunReport, error) {
	p := tea.NewProgram(newGenerateModel())

	go func() {
		report, err := run(&tuiSink{p: p})
		p.Send(runDoneMsg{report: report, err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	m, ok := finalModel.(generateModel)
	if !ok {
		return nil, fmt.Errorf("unexpected UI model state")
	}
	if m.quitting {
		return m.report, fmt.Errorf("interrupted")
	}
	return m.report, m.err
}

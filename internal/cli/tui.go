package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive decision console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(h *localHistory) error {
			m := newTUIModel(cmd.Context(), newClient(), h)
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		})
	},
}

type decisionAPI interface {
	Evaluate(ctx context.Context, input models.DecisionInput) (*models.HistoryItem, error)
}

type historyRecorder interface {
	Save(ctx context.Context, item *models.HistoryItem) error
	List(ctx context.Context) ([]*models.HistoryItem, error)
}

type tuiState int

const (
	stateForm tuiState = iota
	stateRunning
	stateResult
	stateHistory
)

const (
	fieldQuestion = iota
	fieldContext
	fieldConstraints
	fieldCount
)

type evalDoneMsg struct {
	item *models.HistoryItem
	err  error
}

// stepTickMsg carries the run it was scheduled for so ticks left over from
// an earlier run are dropped.
type stepTickMsg struct{ run int }

type historyLoadedMsg struct {
	items []*models.HistoryItem
	err   error
}

type tuiModel struct {
	ctx     context.Context
	api     decisionAPI
	history historyRecorder
	theme   uiTheme

	state  tuiState
	inputs []textinput.Model
	focus  int
	roles  map[models.Role]bool
	depth  int
	level  int
	lang   int

	spinner spinner.Model
	step    int
	run     int

	result   viewport.Model
	item     *models.HistoryItem
	items    []*models.HistoryItem
	selected int

	errMsg string
	width  int
	height int
}

func newTUIModel(ctx context.Context, api decisionAPI, history historyRecorder) tuiModel {
	placeholders := []string{
		"What are you deciding?",
		"Context: situation, stakes, options",
		"Constraints (optional)",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 4000
		in.Width = 72
		inputs[i] = in
	}
	inputs[fieldQuestion].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#22d3ee"))

	roles := make(map[models.Role]bool, len(models.Roles))
	for _, r := range models.DefaultRoles {
		roles[r] = true
	}

	return tuiModel{
		ctx:     ctx,
		api:     api,
		history: history,
		theme:   newTheme(),
		inputs:  inputs,
		roles:   roles,
		depth:   indexOf(models.Depths, models.DefaultDepth),
		level:   indexOf(models.Levels, models.DefaultLevel),
		lang:    indexOf(models.Languages, models.DefaultLanguage),
		spinner: sp,
		result:  viewport.New(80, 20),
		width:   80,
		height:  24,
	}
}

func indexOf[T comparable](vals []T, v T) int {
	for i, x := range vals {
		if x == v {
			return i
		}
	}
	return 0
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.result.Width = msg.Width
		m.result.Height = max(msg.Height-4, 5)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateForm:
			return m.updateForm(msg)
		case stateResult:
			return m.updateResult(msg)
		case stateHistory:
			return m.updateHistory(msg)
		}
		return m, nil
	case stepTickMsg:
		if m.state != stateRunning || msg.run != m.run {
			return m, nil
		}
		m.step = models.NextStep(m.step)
		return m, stepTick(m.run)
	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case evalDoneMsg:
		if msg.err != nil {
			m.state = stateForm
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.showResult(msg.item)
		return m, nil
	case historyLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.items = msg.items
		m.selected = 0
		m.state = stateHistory
		return m, nil
	}
	return m, nil
}

func (m tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		if m.focus < fieldCount-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	case "ctrl+t":
		m.depth = (m.depth + 1) % len(models.Depths)
		return m, nil
	case "ctrl+l":
		m.level = (m.level + 1) % len(models.Levels)
		return m, nil
	case "ctrl+g":
		m.lang = (m.lang + 1) % len(models.Languages)
		return m, nil
	case "ctrl+r":
		return m, m.loadHistory()
	}
	if msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		if i := int(msg.Runes[0] - '1'); i < len(models.Roles) {
			r := models.Roles[i]
			m.roles[r] = !m.roles[r]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *tuiModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m tuiModel) input() models.DecisionInput {
	roles := make([]models.Role, 0, len(models.Roles))
	for _, r := range models.Roles {
		if m.roles[r] {
			roles = append(roles, r)
		}
	}
	return models.DecisionInput{
		Question:     strings.TrimSpace(m.inputs[fieldQuestion].Value()),
		Context:      strings.TrimSpace(m.inputs[fieldContext].Value()),
		Constraints:  strings.TrimSpace(m.inputs[fieldConstraints].Value()),
		EnabledRoles: roles,
		Depth:        models.Depths[m.depth],
		Level:        models.Levels[m.level],
		Language:     models.Languages[m.lang],
	}
}

func (m tuiModel) submit() (tea.Model, tea.Cmd) {
	input := m.input()
	if err := input.Validate(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.state = stateRunning
	m.step = 0
	m.run++
	return m, tea.Batch(m.spinner.Tick, stepTick(m.run), m.evaluate(input))
}

func stepTick(run int) tea.Cmd {
	return tea.Tick(models.StepInterval, func(time.Time) tea.Msg { return stepTickMsg{run: run} })
}

func (m tuiModel) evaluate(input models.DecisionInput) tea.Cmd {
	ctx, api, history := m.ctx, m.api, m.history
	return func() tea.Msg {
		item, err := api.Evaluate(ctx, input)
		if err != nil {
			return evalDoneMsg{err: err}
		}
		if history != nil {
			if err := history.Save(ctx, item); err != nil {
				logger.FromContext(ctx).Warn("local history save failed", "error", err)
			}
		}
		return evalDoneMsg{item: item}
	}
}

func (m tuiModel) loadHistory() tea.Cmd {
	ctx, history := m.ctx, m.history
	return func() tea.Msg {
		if history == nil {
			return historyLoadedMsg{}
		}
		items, err := history.List(ctx)
		return historyLoadedMsg{items: items, err: err}
	}
}

func (m *tuiModel) showResult(item *models.HistoryItem) {
	m.item = item
	m.state = stateResult
	m.result.SetContent(renderResult(m.theme, item))
	m.result.GotoTop()
}

func (m tuiModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.state = stateForm
		return m, nil
	case "q":
		return m, tea.Quit
	case "ctrl+r":
		return m, m.loadHistory()
	}
	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m tuiModel) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateForm
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.items)-1 {
			m.selected++
		}
	case "enter":
		if m.selected < len(m.items) {
			m.showResult(m.items[m.selected])
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.title.Render("DECIDO") + th.muted.Render("  decision stress test") + "\n\n")

	switch m.state {
	case stateForm:
		b.WriteString(m.formView())
	case stateRunning:
		s := models.LoadingSteps[m.step]
		fmt.Fprintf(&b, "%s %s %s\n", m.spinner.View(), th.label.Render(s.Agent), s.Task)
		fmt.Fprintf(&b, "%s\n", th.muted.Render(fmt.Sprintf("%d%%", s.Progress)))
	case stateResult:
		b.WriteString(m.result.View() + "\n")
		b.WriteString(th.muted.Render("↑/↓ scroll · n new decision · ctrl+r history · q quit"))
	case stateHistory:
		if len(m.items) == 0 {
			b.WriteString(th.muted.Render("no history yet") + "\n")
		}
		for i, item := range m.items {
			cursor := "  "
			if i == m.selected {
				cursor = th.status.Render("▸ ")
			}
			b.WriteString(cursor + historyLine(th, item) + "\n")
		}
		b.WriteString("\n" + th.muted.Render("enter open · esc back"))
	}
	return b.String()
}

func (m tuiModel) formView() string {
	th := m.theme
	labels := []string{"Question", "Context", "Constraints"}
	var b strings.Builder
	for i, in := range m.inputs {
		style := th.panel
		if i == m.focus {
			style = th.focused
		}
		b.WriteString(th.label.Render(labels[i]) + "\n" + style.Render(in.View()) + "\n")
	}

	var roles []string
	for i, r := range models.Roles {
		style := th.roleOff
		if m.roles[r] {
			style = th.roleOn
		}
		roles = append(roles, style.Render(fmt.Sprintf("%d %s", i+1, r)))
	}
	b.WriteString("\n" + th.label.Render("Roles ") + strings.Join(roles, " ") + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		th.label.Render("Depth"), models.Depths[m.depth],
		th.label.Render("Level"), models.Levels[m.level],
		th.label.Render("Language"), models.Languages[m.lang])

	if m.errMsg != "" {
		b.WriteString("\n" + th.errStatus.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + th.muted.Render("tab next · alt+1-5 roles · ctrl+t depth · ctrl+l level · ctrl+g language · ctrl+s evaluate · ctrl+r history · esc quit"))
	return b.String()
}

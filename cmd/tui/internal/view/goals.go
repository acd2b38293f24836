package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunks/kharcha/internal/apiclient"
	"github.com/arjunks/kharcha/internal/goal"
	"github.com/arjunks/kharcha/internal/money"
)

type goalState int

const (
	goalStateBrowse goalState = iota
	goalStateAmount
	goalStateConfirm
)

// GoalsModel lists savings goals and adds money to them. An addition is
// previewed first; the stored goal only changes when the server call
// succeeds.
type GoalsModel struct {
	CommonModel
	client *apiclient.Client

	state goalState
	table table.Model
	goals []*goal.SavingsGoal
	form  *huh.Form

	selected   *goal.SavingsGoal
	delta      int64
	preview    goal.AddPreview
	formAmount string

	loading bool
	err     error
	status  string
}

func NewGoalsModel(client *apiclient.Client) GoalsModel {
	columns := []table.Column{
		{Title: "Goal", Width: 24},
		{Title: "Saved", Width: 14},
		{Title: "Target", Width: 14},
		{Title: "Progress", Width: 10},
		{Title: "Deadline", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return GoalsModel{client: client, table: t, loading: true}
}

func (m GoalsModel) Title() string { return "Savings Goals" }
func (m GoalsModel) ShortHelp() string {
	switch m.state {
	case goalStateAmount:
		return "Enter amount | Esc: cancel"
	case goalStateConfirm:
		return "y: confirm | n: cancel"
	default:
		return "Esc: back | a: add amount | r: refresh"
	}
}

func (m GoalsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type goalsLoadedMsg struct {
	goals []*goal.SavingsGoal
	err   error
}

func (m GoalsModel) loadCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		goals, err := client.ListGoals(ctx)

		return goalsLoadedMsg{goals: goals, err: err}
	}
}

type goalAddedMsg struct {
	updated *goal.SavingsGoal
	err     error
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case goalsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.goals = msg.goals
		m.refreshTable()

		return m, nil

	case goalAddedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("add failed: %v", msg.err))
			return m, nil
		}

		if msg.updated.IsReached() {
			m.status = incomeStyle.Render(fmt.Sprintf("Goal %q reached!", msg.updated.Name))
		} else {
			m.status = faintStyle.Render("amount added")
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case goalStateBrowse:
		return m.updateBrowse(msg)
	case goalStateAmount:
		return m.updateAmount(msg)
	case goalStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m GoalsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAmountMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m GoalsModel) enterAmountMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.goals) {
		return m, nil
	}

	m.selected = m.goals[idx]
	m.formAmount = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Add to %q (₹)", m.selected.Name)).
				Placeholder("500.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					return validateAddition(m.selected, s)
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = goalStateAmount
	m.table.Blur()

	return m, m.form.Init()
}

// validateAddition gates the add-amount input: the saved amount can
// never pass the target, so an addition is capped at what is left.
func validateAddition(g *goal.SavingsGoal, input string) error {
	paise, err := money.ParseAmount(input)
	if err != nil {
		return fmt.Errorf("enter a number")
	}

	if paise <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	if preview := g.PreviewAdd(paise); preview.NewTotal > g.TargetAmount {
		return fmt.Errorf("only %s left to reach the target", money.FormatINR(g.RemainingAmount(), true))
	}

	return nil
}

func (m GoalsModel) updateAmount(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m.backToBrowse(), nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	delta, err := money.ParseAmount(m.formAmount)
	if err != nil {
		return m.backToBrowse(), nil
	}

	// Project the addition before committing anything.
	m.delta = delta
	m.preview = m.selected.PreviewAdd(delta)
	m.state = goalStateConfirm
	m.form = nil

	return m, nil
}

func (m GoalsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		selected, delta := m.selected, m.delta
		client := m.client

		next := m.backToBrowse()
		next.status = faintStyle.Render("Saving...")

		return next, func() tea.Msg {
			ctx, cancel := ApiCtx()
			defer cancel()

			updated, err := client.AddToGoal(ctx, selected.ID, delta)

			return goalAddedMsg{updated: updated, err: err}
		}
	case "n", "esc":
		return m.backToBrowse(), nil
	}

	return m, nil
}

func (m GoalsModel) backToBrowse() GoalsModel {
	m.state = goalStateBrowse
	m.form = nil
	m.selected = nil
	m.table.Focus()

	return m
}

func (m *GoalsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.goals))

	for _, g := range m.goals {
		deadline := "-"
		if g.Deadline != nil {
			deadline = g.Deadline.Format(time.DateOnly)
			if g.IsOverdue(time.Now()) {
				deadline += " !"
			}
		}

		rows = append(rows, table.Row{
			g.Name,
			money.FormatINR(g.CurrentAmount, true),
			money.FormatINR(g.TargetAmount, true),
			money.FormatPercent(g.ProgressPercentage()),
			deadline,
		})
	}

	m.table.SetRows(rows)
}

func (m GoalsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading goals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	switch {
	case m.state == goalStateAmount && m.form != nil:
		panel := panelStyle.Width(48).Render("Add Amount\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	case m.state == goalStateConfirm && m.selected != nil:
		reach := ""
		if m.preview.WouldReach {
			reach = "\n" + incomeStyle.Render("This reaches the target!")
		}

		panel := panelStyle.Width(48).Render(fmt.Sprintf(
			"Confirm addition to %q\n\nAdding:    %s\nNew total: %s\nProgress:  %s%s\n\ny: confirm  n: cancel",
			m.selected.Name,
			money.FormatINR(m.delta, true),
			money.FormatINR(m.preview.NewTotal, true),
			money.FormatPercent(m.preview.NewProgress),
			reach,
		))
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

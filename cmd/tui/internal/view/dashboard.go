package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/apiclient"
	"github.com/arjunks/kharcha/internal/budget"
	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/summary"
)

// DashboardModel shows the current month at a glance: totals with
// month-over-month changes, the monthly budget gauge, and upcoming
// recurring transactions.
type DashboardModel struct {
	CommonModel
	client  *apiclient.Client
	tracker *budget.MonthlyTracker

	view     summary.DerivedView
	upcoming []api.UpcomingItem
	alerts   int

	loading bool
	err     error
}

func NewDashboardModel(client *apiclient.Client, tracker *budget.MonthlyTracker) DashboardModel {
	return DashboardModel{client: client, tracker: tracker, loading: true}
}

func (m DashboardModel) Title() string { return "Dashboard" }
func (m DashboardModel) ShortHelp() string {
	return "Esc: back | r: refresh | x: dismiss alert"
}

type dashboardLoadedMsg struct {
	current  summary.PeriodSummary
	previous summary.PeriodSummary
	upcoming []api.UpcomingItem
	alerts   int
	err      error
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) loadCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		now := time.Now().UTC()
		curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		curEnd := curStart.AddDate(0, 1, -1)
		prevStart := curStart.AddDate(0, -1, 0)
		prevEnd := curStart.AddDate(0, 0, -1)

		current, err := client.Summary(ctx, curStart, curEnd)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		previous, err := client.Summary(ctx, prevStart, prevEnd)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		upcoming, err := client.UpcomingRecurring(ctx, 7)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		alerts, err := client.BudgetAlerts(ctx, true)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{
			current:  current,
			previous: previous,
			upcoming: upcoming,
			alerts:   len(alerts),
		}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.tracker.ApplySummary(msg.current)
		m.view = summary.Aggregate(msg.current, msg.previous, m.tracker.Snapshot().Amount)
		m.upcoming = msg.upcoming
		m.alerts = msg.alerts

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "x":
			m.tracker.DismissAlert()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("This Month") + "\n\n")
	b.WriteString(fmt.Sprintf("Income    %12s  %s\n",
		incomeStyle.Render(money.FormatINR(m.view.Current.TotalIncome, true)),
		faintStyle.Render(money.FormatSignedPercent(m.view.IncomeChange))))
	b.WriteString(fmt.Sprintf("Expenses  %12s  %s\n",
		money.FormatINR(m.view.Current.TotalExpenses, true),
		faintStyle.Render(money.FormatSignedPercent(m.view.ExpenseChange))))
	b.WriteString(fmt.Sprintf("Balance   %12s  %s\n",
		money.FormatINR(m.view.Current.Balance, true),
		faintStyle.Render(money.FormatSignedPercent(m.view.BalanceChange))))
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d transactions", m.view.Current.TransactionCount)) + "\n")

	b.WriteString("\n" + m.budgetGauge() + "\n")

	if len(m.upcoming) > 0 {
		b.WriteString("\n" + titleStyle.Render("Upcoming (7 days)") + "\n")

		for _, item := range m.upcoming {
			label := fmt.Sprintf("in %d days", item.DaysLeft)
			if item.DaysLeft == 0 {
				label = "today"
			} else if item.DaysLeft == 1 {
				label = "tomorrow"
			}

			b.WriteString(fmt.Sprintf("  %s  %s  %s (%s)\n",
				item.DueDate,
				item.Recurring.Description,
				money.FormatINR(item.Recurring.Amount.Paise(), true),
				label))
		}
	}

	if m.alerts > 0 {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("%d unread budget alerts", m.alerts)) + "\n")
	}

	return lipgloss.NewStyle().Padding(1).Render(panelStyle.Render(b.String()))
}

func (m DashboardModel) budgetGauge() string {
	snap := m.tracker.Snapshot()

	line := fmt.Sprintf("%s of %s monthly budget (%s)",
		money.FormatINR(snap.TotalExpense, true),
		money.FormatINR(snap.Amount, false),
		money.FormatPercent(snap.UsagePercentage))

	switch snap.AlertLevel {
	case budget.AlertCritical:
		line = dangerStyle.Render(line)
	case budget.AlertWarning:
		line = warnStyle.Render(line)
	}

	if snap.AlertMessage != "" {
		line += "\n" + warnStyle.Render(snap.AlertMessage) + "\n" +
			faintStyle.Render("x: dismiss")
	}

	return line
}

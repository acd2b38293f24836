package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunks/kharcha/cmd/tui/internal/view"
	"github.com/arjunks/kharcha/internal/apiclient"
	"github.com/arjunks/kharcha/internal/budget"
	"github.com/arjunks/kharcha/internal/config"
	"github.com/arjunks/kharcha/internal/events"
	"github.com/arjunks/kharcha/internal/optimistic"
	"github.com/arjunks/kharcha/internal/session"
)

type model struct {
	client  *apiclient.Client
	session *session.Store
	tracker *budget.MonthlyTracker

	currentView View
	signedIn    bool

	loginView        view.LoginModel
	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	goalsView        view.GoalsModel
}

type View int

const (
	ViewLogin        View = 0
	ViewMenu         View = 1
	ViewDashboard    View = 2
	ViewTransactions View = 3
	ViewGoals        View = 4
)

func statePath(cfg *config.Config) string {
	if cfg.Client.StatePath != "" {
		return cfg.Client.StatePath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "kharcha-session.json"
	}

	return filepath.Join(home, ".config", "kharcha", "session.json")
}

func initialModel() model {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sess, err := session.Open(statePath(cfg))
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}

	client := apiclient.New(cfg.Client.APIBaseURL, sess,
		apiclient.WithTimeout(cfg.Client.Timeout))

	bus := events.NewBus()
	store := optimistic.NewStore(bus)
	tracker := budget.NewMonthlyTracker(sess.MonthlyLimit(cfg.DefaultMonthlyLimitPaise()), bus)

	m := model{
		client:           client,
		session:          sess,
		tracker:          tracker,
		currentView:      ViewLogin,
		loginView:        view.NewLoginModel(client, sess),
		dashboardView:    view.NewDashboardModel(client, tracker),
		transactionsView: view.NewTransactionsModel(client, store),
		goalsView:        view.NewGoalsModel(client),
	}

	if sess.HasLiveSession(time.Now()) {
		m.signedIn = true
		m.currentView = ViewMenu
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.SignedInMsg:
		m.signedIn = true
		m.currentView = ViewMenu

		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.client, m.tracker)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewTransactions
				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewGoals
				m.goalsView = view.NewGoalsModel(m.client)

				return m, m.goalsView.Init()
			case "l":
				ctx, cancel := view.ApiCtx()
				if err := m.client.Logout(ctx); err != nil {
					slog.Error("failed to clear session", "error", err)
				}
				cancel()

				m.signedIn = false
				m.currentView = ViewLogin
				m.loginView = view.NewLoginModel(m.client, m.session)

				return m, m.loginView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewGoals:
		var newModel tea.Model
		newModel, cmd = m.goalsView.Update(msg)
		m.goalsView = newModel.(view.GoalsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		greeting := "Kharcha"
		if profile, ok := m.session.Profile(); ok && profile.Name != "" {
			greeting = "Kharcha | namaste, " + profile.Name
		}

		return lipgloss.NewStyle().Padding(2).Render(
			greeting + "\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Savings Goals\n\n" +
				"l. Log out\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewGoals:
		return m.goalsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunks/kharcha/internal/apiclient"
	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/optimistic"
	"github.com/arjunks/kharcha/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateAdd
)

// TransactionsModel lists transactions and applies every mutation
// optimistically: the table updates before the server answers, and a
// failed call rolls the staged patch back.
type TransactionsModel struct {
	CommonModel
	client *apiclient.Client
	store  *optimistic.Store

	state txState
	table table.Model
	form  *huh.Form

	loading bool
	err     error
	status  string

	formType     string
	formAmount   string
	formDesc     string
	formCategory string
	formDate     string
	formNotes    string
}

func NewTransactionsModel(client *apiclient.Client, store *optimistic.Store) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: 32},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return TransactionsModel{client: client, store: store, table: t, loading: true}
}

func (m TransactionsModel) Title() string { return "Transactions" }
func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | d: delete | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type txLoadedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		txs, err := client.ListTransactions(ctx, apiclient.TransactionFilter{})

		return txLoadedMsg{txs: txs, err: err}
	}
}

// txMutationMsg reports the server's verdict on a staged patch.
type txMutationMsg struct {
	patch     *optimistic.Patch
	confirmed *transaction.Transaction
	action    string
	err       error
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.store.Replace(msg.txs)
		m.refreshTable()

		return m, nil

	case txMutationMsg:
		if msg.err != nil {
			m.store.Rollback(msg.patch)
			m.status = errorStyle.Render(fmt.Sprintf("%s failed: %v (undone)", msg.action, msg.err))
		} else {
			if msg.confirmed != nil {
				m.store.ConfirmCreate(msg.patch, msg.confirmed)
			} else {
				m.store.Commit(msg.patch)
			}

			m.status = faintStyle.Render(msg.action + " saved")
		}

		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "d":
			return m.deleteSelected()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formType = string(transaction.TypeExpense)
	m.formAmount = ""
	m.formDesc = ""
	m.formCategory = ""
	m.formDate = time.Now().Format(time.DateOnly)
	m.formNotes = ""

	categoryOptions := make([]huh.Option[string], 0, len(transaction.Categories))
	for _, c := range transaction.Categories {
		categoryOptions = append(categoryOptions, huh.NewOption(c, c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("amount").
				Title("Amount (₹)").
				Placeholder("1250.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					paise, err := money.ParseAmount(s)
					if err != nil {
						return fmt.Errorf("enter a number")
					}

					if paise <= 0 {
						return fmt.Errorf("amount must be positive")
					}

					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.formCategory),

			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}

					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = txStateBrowse
	m.form = nil
	m.table.Focus()

	return m.submitAdd()
}

func (m TransactionsModel) submitAdd() (tea.Model, tea.Cmd) {
	paise, err := money.ParseAmount(m.formAmount)
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}

	date, _ := time.Parse(time.DateOnly, m.formDate)

	params := transaction.CreateParams{
		Type:        transaction.Type(m.formType),
		Amount:      paise,
		Description: m.formDesc,
		Category:    m.formCategory,
		Date:        date,
		Notes:       m.formNotes,
	}

	// The table shows the new row immediately; the server call decides
	// whether it stays.
	patch := m.store.StageCreate(params)
	m.refreshTable()
	m.status = faintStyle.Render("Saving...")

	client := m.client

	return m, func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		confirmed, err := client.CreateTransaction(ctx, params)

		return txMutationMsg{patch: patch, confirmed: confirmed, action: "create", err: err}
	}
}

func (m TransactionsModel) deleteSelected() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	txs := m.store.All()

	if idx < 0 || idx >= len(txs) {
		return m, nil
	}

	id := txs[idx].ID

	patch, err := m.store.StageDelete(id)
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}

	m.refreshTable()
	m.status = faintStyle.Render("Deleting...")

	client := m.client

	return m, func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		err := client.DeleteTransaction(ctx, id)

		return txMutationMsg{patch: patch, action: "delete", err: err}
	}
}

func (m *TransactionsModel) refreshTable() {
	txs := m.store.All()

	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			FormatAmount(tx),
			tx.Category,
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == txStateAdd && m.form != nil {
		panel := panelStyle.Width(48).Render("Add Transaction\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	if n := m.store.Pending(); n > 0 {
		content = faintStyle.Render(fmt.Sprintf("%d pending", n)) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	UpdateBudget(ctx context.Context, b *Budget) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error
	ListBudgets(ctx context.Context, onlyActive bool) ([]*Budget, error)

	// SpentForCategory sums expense amounts in the category over [start, end].
	SpentForCategory(ctx context.Context, category string, start, end time.Time) (int64, error)

	CreateAlert(ctx context.Context, a *Alert) error
	ListAlerts(ctx context.Context, unreadOnly bool) ([]*Alert, error)
	MarkAlertRead(ctx context.Context, budgetID, alertID uuid.UUID) error
	AcknowledgeAlert(ctx context.Context, budgetID, alertID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Category  string
	Amount    int64
	Period    Period
	StartDate *time.Time // defaults to today
	EndDate   *time.Time
}

func (p CreateParams) validate() error {
	if p.Amount <= 0 {
		return fmt.Errorf("budget ceiling must be positive")
	}

	if p.Category == "" {
		return fmt.Errorf("budget category is required")
	}

	switch p.Period {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return nil
	default:
		return fmt.Errorf("unknown budget period %q", p.Period)
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if params.StartDate != nil {
		start = *params.StartDate
	}

	b := &Budget{
		Category:  params.Category,
		Amount:    params.Amount,
		Period:    params.Period,
		Remaining: params.Amount,
		IsActive:  true,
		StartDate: start,
		EndDate:   params.EndDate,
	}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

// Update replaces a budget's definition and rebases the derived usage
// fields on the new ceiling.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Budget, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Category = params.Category
	b.Amount = params.Amount
	b.Period = params.Period
	b.EndDate = params.EndDate

	if params.StartDate != nil {
		b.StartDate = *params.StartDate
	}

	b.Recompute(b.Spent)

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, id)
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, onlyActive)
}

// Summary is the roll-up of all active budgets.
type Summary struct {
	TotalBudget    int64
	TotalSpent     int64
	TotalRemaining int64
	OverBudget     int
	Budgets        []*Budget
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	budgets, err := s.repo.ListBudgets(ctx, true)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Budgets: budgets}

	for _, b := range budgets {
		sum.TotalBudget += b.Amount
		sum.TotalSpent += b.Spent
		sum.TotalRemaining += b.Remaining

		if b.Remaining < 0 {
			sum.OverBudget++
		}
	}

	return sum, nil
}

// Refresh recomputes spent/remaining/percentage for every active
// budget from the transaction set and raises an alert row for each
// budget sitting at warning or critical.
func (s *Service) Refresh(ctx context.Context, now time.Time) ([]*Budget, error) {
	budgets, err := s.repo.ListBudgets(ctx, true)
	if err != nil {
		return nil, err
	}

	for _, b := range budgets {
		start, end := periodWindow(b.Period, now)

		spent, err := s.repo.SpentForCategory(ctx, b.Category, start, end)
		if err != nil {
			return nil, fmt.Errorf("computing spend for %s: %w", b.Category, err)
		}

		prevLevel := Classify(b.PercentageUsed)

		b.Recompute(spent)

		if err := s.repo.UpdateBudget(ctx, b); err != nil {
			return nil, fmt.Errorf("saving budget %s: %w", b.ID, err)
		}

		level := Classify(b.PercentageUsed)
		if level == AlertNone || level == prevLevel {
			continue
		}

		alert := &Alert{
			BudgetID: b.ID,
			Level:    level,
			Message:  AlertMessage(level, b.PercentageUsed, b.Amount),
		}
		if err := s.repo.CreateAlert(ctx, alert); err != nil {
			return nil, fmt.Errorf("raising alert for %s: %w", b.ID, err)
		}

		slog.Info("budget alert raised", "budget", b.ID, "category", b.Category, "level", level)
	}

	return budgets, nil
}

func (s *Service) Alerts(ctx context.Context, unreadOnly bool) ([]*Alert, error) {
	return s.repo.ListAlerts(ctx, unreadOnly)
}

func (s *Service) MarkAlertRead(ctx context.Context, budgetID, alertID uuid.UUID) error {
	return s.repo.MarkAlertRead(ctx, budgetID, alertID)
}

func (s *Service) AcknowledgeAlert(ctx context.Context, budgetID, alertID uuid.UUID) error {
	return s.repo.AcknowledgeAlert(ctx, budgetID, alertID)
}

// periodWindow returns the window of the budget period containing now.
// Weeks run Monday through Sunday.
func periodWindow(p Period, now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodWeekly:
		offset := int(day.Weekday())
		if offset == 0 {
			offset = 7 // Sunday belongs to the week that started 6 days ago
		}

		start := day.AddDate(0, 0, -offset+1)

		return start, start.AddDate(0, 0, 6)
	case PeriodYearly:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

		return start, time.Date(day.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	default: // monthly
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(0, 1, -1)
	}
}

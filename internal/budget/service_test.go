package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arjunks/kharcha/internal/budget"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params budget.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *budget.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: budget.CreateParams{
				Category: "Food & Dining",
				Amount:   1500000,
				Period:   budget.PeriodMonthly,
			}},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().
					CreateBudget(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						b.ID = uuid.New()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "ZeroCeilingRejected",
			args: args{params: budget.CreateParams{
				Category: "Food & Dining",
				Amount:   0,
				Period:   budget.PeriodMonthly,
			}},
			wantErr: true,
		},
		{
			name: "UnknownPeriodRejected",
			args: args{params: budget.CreateParams{
				Category: "Food & Dining",
				Amount:   100,
				Period:   budget.Period("fortnightly"),
			}},
			wantErr: true,
		},
		{
			name: "MissingCategoryRejected",
			args: args{params: budget.CreateParams{
				Amount: 100,
				Period: budget.PeriodWeekly,
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := budget.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.IsActive)
			assert.Equal(t, got.Amount, got.Remaining, "nothing spent yet")
		})
	}
}

func TestService_Update_RebasesUsageOnNewCeiling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo)

	id := uuid.New()
	b := &budget.Budget{
		ID:             id,
		Category:       "Food & Dining",
		Amount:         1000000,
		Period:         budget.PeriodMonthly,
		Spent:          800000,
		Remaining:      200000,
		PercentageUsed: 80.0,
		IsActive:       true,
	}

	repo.EXPECT().GetBudget(gomock.Any(), id).Return(b, nil)
	repo.EXPECT().UpdateBudget(gomock.Any(), b).Return(nil)

	got, err := svc.Update(context.Background(), id, budget.CreateParams{
		Category: "Food & Dining",
		Amount:   2000000,
		Period:   budget.PeriodMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000000), got.Amount)
	assert.Equal(t, int64(1200000), got.Remaining)
	assert.Equal(t, 40.0, got.PercentageUsed)
}

func TestService_Update_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := budget.NewService(budget.NewMockRepository(ctrl))

	_, err := svc.Update(context.Background(), uuid.New(), budget.CreateParams{
		Category: "Travel",
		Amount:   100,
		Period:   budget.Period("fortnightly"),
	})
	assert.Error(t, err)
}

func TestService_Summarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo)

	repo.EXPECT().ListBudgets(gomock.Any(), true).Return([]*budget.Budget{
		{Amount: 1000000, Spent: 400000, Remaining: 600000},
		{Amount: 500000, Spent: 700000, Remaining: -200000},
	}, nil)

	sum, err := svc.Summarize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1500000), sum.TotalBudget)
	assert.Equal(t, int64(1100000), sum.TotalSpent)
	assert.Equal(t, int64(400000), sum.TotalRemaining)
	assert.Equal(t, 1, sum.OverBudget)
}

// Crossing into warning raises exactly one alert; staying at the same
// level on the next refresh raises none.
func TestService_Refresh_AlertsOnLevelTransitionOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	b := &budget.Budget{
		ID:       uuid.New(),
		Category: "Food & Dining",
		Amount:   1000000,
		Period:   budget.PeriodMonthly,
		IsActive: true,
	}

	// First refresh: 85% -> warning alert raised.
	repo.EXPECT().ListBudgets(gomock.Any(), true).Return([]*budget.Budget{b}, nil)
	repo.EXPECT().SpentForCategory(gomock.Any(), "Food & Dining", monthStart, monthEnd).Return(int64(850000), nil)
	repo.EXPECT().UpdateBudget(gomock.Any(), b).Return(nil)
	repo.EXPECT().
		CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *budget.Alert) error {
			assert.Equal(t, budget.AlertWarning, a.Level)
			assert.Contains(t, a.Message, "85.0%")
			return nil
		})

	_, err := svc.Refresh(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 85.0, b.PercentageUsed)

	// Second refresh at the same level: no new alert.
	repo.EXPECT().ListBudgets(gomock.Any(), true).Return([]*budget.Budget{b}, nil)
	repo.EXPECT().SpentForCategory(gomock.Any(), "Food & Dining", monthStart, monthEnd).Return(int64(900000), nil)
	repo.EXPECT().UpdateBudget(gomock.Any(), b).Return(nil)

	_, err = svc.Refresh(context.Background(), now)
	require.NoError(t, err)

	// Third refresh crosses into critical: one more alert.
	repo.EXPECT().ListBudgets(gomock.Any(), true).Return([]*budget.Budget{b}, nil)
	repo.EXPECT().SpentForCategory(gomock.Any(), "Food & Dining", monthStart, monthEnd).Return(int64(1100000), nil)
	repo.EXPECT().UpdateBudget(gomock.Any(), b).Return(nil)
	repo.EXPECT().
		CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *budget.Alert) error {
			assert.Equal(t, budget.AlertCritical, a.Level)
			return nil
		})

	_, err = svc.Refresh(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, b.Remaining < 0)
}

func TestService_Refresh_WeeklyWindowIsMondayBased(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo)

	// 2024-03-17 is a Sunday; its week started Monday the 11th.
	now := time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)
	weekStart := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	weekEnd := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)

	b := &budget.Budget{
		ID:       uuid.New(),
		Category: "Travel",
		Amount:   500000,
		Period:   budget.PeriodWeekly,
		IsActive: true,
	}

	repo.EXPECT().ListBudgets(gomock.Any(), true).Return([]*budget.Budget{b}, nil)
	repo.EXPECT().SpentForCategory(gomock.Any(), "Travel", weekStart, weekEnd).Return(int64(100000), nil)
	repo.EXPECT().UpdateBudget(gomock.Any(), b).Return(nil)

	_, err := svc.Refresh(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 20.0, b.PercentageUsed)
}

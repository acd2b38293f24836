package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arjunks/kharcha/internal/summary"
	"github.com/arjunks/kharcha/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
	}

	validParams := transaction.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      125000,
		Description: "Groceries",
		Category:    "Food & Dining",
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: validParams},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "NegativeAmountRejected",
			args: args{params: transaction.CreateParams{
				Type:        transaction.TypeExpense,
				Amount:      -100,
				Description: "bad",
				Category:    "Other",
				Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			}},
			wantErr: true,
		},
		{
			name: "FutureDateRejected",
			args: args{params: transaction.CreateParams{
				Type:        transaction.TypeExpense,
				Amount:      100,
				Description: "time travel",
				Category:    "Other",
				Date:        time.Now().AddDate(0, 0, 2),
			}},
			wantErr: true,
		},
		{
			name: "RepoError",
			args: args{params: validParams},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_CreateFromSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	recurringID := uuid.New()

	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), transaction.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      2500000,
		Description: "Rent",
		Category:    "Rent",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RecurringID: &recurringID,
	})
	require.NoError(t, err)

	assert.True(t, got.IsRecurring)
	require.NotNil(t, got.RecurringID)
	assert.Equal(t, recurringID, *got.RecurringID)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	existing := &transaction.Transaction{
		ID:          id,
		Type:        transaction.TypeExpense,
		Amount:      5000,
		Description: "Chai",
		Category:    "Food & Dining",
	}

	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateTransaction(gomock.Any(), existing).Return(nil)

	newAmount := int64(7500)

	got, err := svc.Update(context.Background(), id, transaction.UpdateParams{Amount: &newAmount})
	require.NoError(t, err)

	assert.Equal(t, int64(7500), got.Amount)
	assert.Equal(t, "Chai", got.Description, "unset fields untouched")
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	_, err := svc.Update(context.Background(), id, transaction.UpdateParams{})
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_BulkDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	repo.EXPECT().DeleteTransactions(gomock.Any(), ids).Return(3, nil)

	n, err := svc.BulkDelete(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestService_BulkDelete_EmptySkipsRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	n, err := svc.BulkDelete(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Summarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		SummarizeTransactions(gomock.Any(), start, end).
		Return(summary.PeriodSummary{
			TotalIncome:      10000000,
			TotalExpenses:    6500000,
			Balance:          3500000,
			TransactionCount: 42,
		}, nil)

	got, err := svc.Summarize(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(3500000), got.Balance)
	assert.Equal(t, 42, got.TransactionCount)
}

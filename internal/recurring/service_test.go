package recurring_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arjunks/kharcha/internal/recurring"
	"github.com/arjunks/kharcha/internal/transaction"
)

func TestService_Create_SeedsFirstOccurrence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockTransactionCreator(ctrl))

	repo.EXPECT().
		CreateRecurring(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *recurring.RecurringTransaction) error {
			r.ID = uuid.New()
			return nil
		})

	got, err := svc.Create(context.Background(), recurring.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      250000,
		Description: "Rent",
		Category:    "Housing",
		Schedule:    recurring.Schedule{Frequency: recurring.FrequencyMonthly, DayOfMonth: 5},
		StartDate:   date(2024, 3, 10),
	})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, date(2024, 4, 5), got.NextOccurrence)
}

func TestService_Create_Invalid(t *testing.T) {
	type testCase struct {
		name   string
		params recurring.CreateParams
	}

	end := date(2024, 1, 1)
	tests := []testCase{
		{
			name: "NonPositiveAmount",
			params: recurring.CreateParams{
				Schedule:  recurring.Schedule{Frequency: recurring.FrequencyDaily},
				StartDate: date(2024, 3, 1),
			},
		},
		{
			name: "EndBeforeStart",
			params: recurring.CreateParams{
				Amount:    1000,
				Schedule:  recurring.Schedule{Frequency: recurring.FrequencyDaily},
				StartDate: date(2024, 3, 1),
				EndDate:   &end,
			},
		},
		{
			name: "MissingAnchor",
			params: recurring.CreateParams{
				Amount:    1000,
				Schedule:  recurring.Schedule{Frequency: recurring.FrequencyMonthly},
				StartDate: date(2024, 3, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := recurring.NewService(recurring.NewMockRepository(ctrl), recurring.NewMockTransactionCreator(ctrl))

			_, err := svc.Create(context.Background(), tt.params)
			assert.Error(t, err)
		})
	}
}

func TestService_Toggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockTransactionCreator(ctrl))

	id := uuid.New()
	r := &recurring.RecurringTransaction{ID: id, IsActive: true}

	repo.EXPECT().GetRecurring(gomock.Any(), id).Return(r, nil)
	repo.EXPECT().UpdateRecurring(gomock.Any(), r).Return(nil)

	active, err := svc.Toggle(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestService_Update_ReprojectsNextOccurrence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockTransactionCreator(ctrl))

	id := uuid.New()
	r := &recurring.RecurringTransaction{
		ID:             id,
		Type:           transaction.TypeExpense,
		Amount:         250000,
		Description:    "Rent",
		Category:       "Housing",
		Schedule:       recurring.Schedule{Frequency: recurring.FrequencyMonthly, DayOfMonth: 5},
		StartDate:      date(2024, 3, 10),
		NextOccurrence: date(2024, 4, 5),
		IsActive:       true,
	}

	repo.EXPECT().GetRecurring(gomock.Any(), id).Return(r, nil)
	repo.EXPECT().UpdateRecurring(gomock.Any(), r).Return(nil)

	got, err := svc.Update(context.Background(), id, recurring.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      275000,
		Description: "Rent",
		Category:    "Housing",
		Schedule:    recurring.Schedule{Frequency: recurring.FrequencyMonthly, DayOfMonth: 20},
		StartDate:   date(2024, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(275000), got.Amount)
	assert.Equal(t, date(2024, 3, 20), got.NextOccurrence, "cache follows the new anchor day")
	assert.True(t, got.IsActive)
}

func TestService_Update_ExhaustedScheduleDeactivates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockTransactionCreator(ctrl))

	id := uuid.New()
	r := &recurring.RecurringTransaction{
		ID:             id,
		Amount:         99900,
		Schedule:       recurring.Schedule{Frequency: recurring.FrequencyMonthly, DayOfMonth: 5},
		StartDate:      date(2024, 3, 10),
		NextOccurrence: date(2024, 4, 5),
		IsActive:       true,
	}

	repo.EXPECT().GetRecurring(gomock.Any(), id).Return(r, nil)
	repo.EXPECT().UpdateRecurring(gomock.Any(), r).Return(nil)

	// The new end date lands before the next day-20 occurrence.
	end := date(2024, 3, 15)
	got, err := svc.Update(context.Background(), id, recurring.CreateParams{
		Amount:    99900,
		Schedule:  recurring.Schedule{Frequency: recurring.FrequencyMonthly, DayOfMonth: 20},
		StartDate: date(2024, 3, 10),
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.True(t, got.NextOccurrence.IsZero())
}

func TestService_Update_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := recurring.NewService(recurring.NewMockRepository(ctrl), recurring.NewMockTransactionCreator(ctrl))

	_, err := svc.Update(context.Background(), uuid.New(), recurring.CreateParams{
		Schedule:  recurring.Schedule{Frequency: recurring.FrequencyDaily},
		StartDate: date(2024, 3, 1),
	})
	assert.Error(t, err, "non-positive amount never reaches the repository")
}

func TestService_ProcessDue_CatchesUpOverduePeriods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	creator := recurring.NewMockTransactionCreator(ctrl)
	svc := recurring.NewService(repo, creator)

	id := uuid.New()
	r := &recurring.RecurringTransaction{
		ID:             id,
		Type:           transaction.TypeExpense,
		Amount:         99900,
		Description:    "Gym membership",
		Category:       "Healthcare",
		Schedule:       recurring.Schedule{Frequency: recurring.FrequencyMonthly, DayOfMonth: 10},
		StartDate:      date(2024, 1, 1),
		NextOccurrence: date(2024, 1, 10),
		IsActive:       true,
	}

	asOf := date(2024, 3, 15)

	repo.EXPECT().ListDue(gomock.Any(), asOf).Return([]*recurring.RecurringTransaction{r}, nil)

	var createdDates []time.Time

	creator.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Times(3).
		DoAndReturn(func(_ context.Context, p transaction.CreateParams) (*transaction.Transaction, error) {
			createdDates = append(createdDates, p.Date)
			require.NotNil(t, p.RecurringID)
			assert.Equal(t, id, *p.RecurringID)

			return &transaction.Transaction{
				ID:          uuid.New(),
				Type:        p.Type,
				Amount:      p.Amount,
				Date:        p.Date,
				RecurringID: p.RecurringID,
				IsRecurring: true,
			}, nil
		})

	repo.EXPECT().UpdateRecurring(gomock.Any(), r).Return(nil)

	result, err := svc.ProcessDue(context.Background(), asOf)
	require.NoError(t, err)

	assert.Len(t, result.Created, 3)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, []time.Time{date(2024, 1, 10), date(2024, 2, 10), date(2024, 3, 10)}, createdDates)
	assert.Equal(t, date(2024, 4, 10), r.NextOccurrence)
	require.NotNil(t, r.LastProcessed)
	assert.Equal(t, date(2024, 3, 10), *r.LastProcessed)
}

func TestService_Upcoming(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	svc := recurring.NewService(repo, recurring.NewMockTransactionCreator(ctrl))

	asOf := date(2024, 3, 15)
	soon := &recurring.RecurringTransaction{ID: uuid.New(), NextOccurrence: date(2024, 3, 18), IsActive: true}
	today := &recurring.RecurringTransaction{ID: uuid.New(), NextOccurrence: date(2024, 3, 15), IsActive: true}
	far := &recurring.RecurringTransaction{ID: uuid.New(), NextOccurrence: date(2024, 5, 1), IsActive: true}
	exhausted := &recurring.RecurringTransaction{ID: uuid.New(), IsActive: true}

	repo.EXPECT().ListRecurring(gomock.Any(), true).
		Return([]*recurring.RecurringTransaction{soon, today, far, exhausted}, nil)

	items, err := svc.Upcoming(context.Background(), asOf, 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].DaysLeft)
	assert.Equal(t, 0, items[1].DaysLeft)
}

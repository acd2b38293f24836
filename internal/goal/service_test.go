package goal_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arjunks/kharcha/internal/goal"
)

func TestService_Update(t *testing.T) {
	type args struct {
		params goal.UpdateParams
	}

	type testCase struct {
		name       string
		args       args
		current    *goal.SavingsGoal
		setupMock  func(m *goal.MockRepository, g *goal.SavingsGoal)
		wantErr    string
		wantStatus goal.Status
	}

	id := uuid.New()

	tests := []testCase{
		{
			name: "ReplacesDefinition",
			args: args{params: goal.UpdateParams{
				Name:         "Emergency Fund v2",
				TargetAmount: 20000000,
			}},
			current: &goal.SavingsGoal{
				ID:            id,
				Name:          "Emergency Fund",
				TargetAmount:  10000000,
				CurrentAmount: 4000000,
				Status:        goal.StatusActive,
			},
			setupMock: func(m *goal.MockRepository, g *goal.SavingsGoal) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)
				m.EXPECT().UpdateGoal(gomock.Any(), g).Return(nil)
			},
			wantStatus: goal.StatusActive,
		},
		{
			name: "LoweredTargetCompletesReachedGoal",
			args: args{params: goal.UpdateParams{
				Name:         "Vacation",
				TargetAmount: 5000000,
			}},
			current: &goal.SavingsGoal{
				ID:            id,
				Name:          "Vacation",
				TargetAmount:  8000000,
				CurrentAmount: 5000000,
				Status:        goal.StatusActive,
			},
			setupMock: func(m *goal.MockRepository, g *goal.SavingsGoal) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)
				m.EXPECT().UpdateGoal(gomock.Any(), g).Return(nil)
			},
			wantStatus: goal.StatusCompleted,
		},
		{
			name: "TargetBelowSavedRejected",
			args: args{params: goal.UpdateParams{
				Name:         "Vacation",
				TargetAmount: 3000000,
			}},
			current: &goal.SavingsGoal{
				ID:            id,
				Name:          "Vacation",
				TargetAmount:  8000000,
				CurrentAmount: 5000000,
				Status:        goal.StatusActive,
			},
			setupMock: func(m *goal.MockRepository, g *goal.SavingsGoal) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)
			},
			wantErr: "target cannot be below the amount already saved",
		},
		{
			name: "UnknownStatusRejected",
			args: args{params: goal.UpdateParams{
				Name:         "Vacation",
				TargetAmount: 8000000,
				Status:       goal.Status("archived"),
			}},
			current: &goal.SavingsGoal{
				ID:           id,
				Name:         "Vacation",
				TargetAmount: 8000000,
				Status:       goal.StatusActive,
			},
			setupMock: func(m *goal.MockRepository, g *goal.SavingsGoal) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)
			},
			wantErr: "unknown goal status",
		},
		{
			name: "EmptyNameRejected",
			args: args{params: goal.UpdateParams{
				TargetAmount: 8000000,
			}},
			wantErr: "goal name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := goal.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tt.current)
			}

			svc := goal.NewService(repo)
			got, err := svc.Update(context.Background(), id, tt.args.params)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.args.params.Name, got.Name)
			assert.Equal(t, tt.args.params.TargetAmount, got.TargetAmount)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.False(t, got.UpdatedAt.IsZero())
		})
	}
}

func TestService_AddAmount_ReachingTargetCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := goal.NewMockRepository(ctrl)
	svc := goal.NewService(repo)

	id := uuid.New()
	g := &goal.SavingsGoal{
		ID:            id,
		Name:          "New Laptop",
		TargetAmount:  10000000,
		CurrentAmount: 9000000,
		Status:        goal.StatusActive,
	}

	repo.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)
	repo.EXPECT().UpdateGoal(gomock.Any(), g).Return(nil)

	got, err := svc.AddAmount(context.Background(), id, 1000000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000000), got.CurrentAmount)
	assert.Equal(t, goal.StatusCompleted, got.Status)
}

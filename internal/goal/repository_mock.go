// Code generated by MockGen. DO NOT EDIT.
// Source: service.go
//
// Generated by this command:
//
//	mockgen -source=service.go -destination=repository_mock.go -package=goal
//

// Package goal is a generated GoMock package.
package goal

import (
	context "context"
	reflect "reflect"

	uuid "github.com/google/uuid"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// CreateGoal mocks base method.
func (m *MockRepository) CreateGoal(ctx context.Context, g *SavingsGoal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateGoal", ctx, g)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateGoal indicates an expected call of CreateGoal.
func (mr *MockRepositoryMockRecorder) CreateGoal(ctx, g any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateGoal", reflect.TypeOf((*MockRepository)(nil).CreateGoal), ctx, g)
}

// DeleteGoal mocks base method.
func (m *MockRepository) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteGoal", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteGoal indicates an expected call of DeleteGoal.
func (mr *MockRepositoryMockRecorder) DeleteGoal(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteGoal", reflect.TypeOf((*MockRepository)(nil).DeleteGoal), ctx, id)
}

// GetGoal mocks base method.
func (m *MockRepository) GetGoal(ctx context.Context, id uuid.UUID) (*SavingsGoal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetGoal", ctx, id)
	ret0, _ := ret[0].(*SavingsGoal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetGoal indicates an expected call of GetGoal.
func (mr *MockRepositoryMockRecorder) GetGoal(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetGoal", reflect.TypeOf((*MockRepository)(nil).GetGoal), ctx, id)
}

// ListGoals mocks base method.
func (m *MockRepository) ListGoals(ctx context.Context) ([]*SavingsGoal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListGoals", ctx)
	ret0, _ := ret[0].([]*SavingsGoal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListGoals indicates an expected call of ListGoals.
func (mr *MockRepositoryMockRecorder) ListGoals(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListGoals", reflect.TypeOf((*MockRepository)(nil).ListGoals), ctx)
}

// UpdateGoal mocks base method.
func (m *MockRepository) UpdateGoal(ctx context.Context, g *SavingsGoal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateGoal", ctx, g)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateGoal indicates an expected call of UpdateGoal.
func (mr *MockRepositoryMockRecorder) UpdateGoal(ctx, g any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateGoal", reflect.TypeOf((*MockRepository)(nil).UpdateGoal), ctx, g)
}

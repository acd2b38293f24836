// Code generated by MockGen. DO NOT EDIT.
// Source: service.go
//
// Generated by this command:
//
//	mockgen -source=service.go -destination=repository_mock.go -package=budget
//

// Package budget is a generated GoMock package.
package budget

import (
	context "context"
	reflect "reflect"
	time "time"

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

// AcknowledgeAlert mocks base method.
func (m *MockRepository) AcknowledgeAlert(ctx context.Context, budgetID, alertID uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AcknowledgeAlert", ctx, budgetID, alertID)
	ret0, _ := ret[0].(error)
	return ret0
}

// AcknowledgeAlert indicates an expected call of AcknowledgeAlert.
func (mr *MockRepositoryMockRecorder) AcknowledgeAlert(ctx, budgetID, alertID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AcknowledgeAlert", reflect.TypeOf((*MockRepository)(nil).AcknowledgeAlert), ctx, budgetID, alertID)
}

// CreateAlert mocks base method.
func (m *MockRepository) CreateAlert(ctx context.Context, a *Alert) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateAlert", ctx, a)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateAlert indicates an expected call of CreateAlert.
func (mr *MockRepositoryMockRecorder) CreateAlert(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateAlert", reflect.TypeOf((*MockRepository)(nil).CreateAlert), ctx, a)
}

// CreateBudget mocks base method.
func (m *MockRepository) CreateBudget(ctx context.Context, b *Budget) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateBudget", ctx, b)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateBudget indicates an expected call of CreateBudget.
func (mr *MockRepositoryMockRecorder) CreateBudget(ctx, b any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateBudget", reflect.TypeOf((*MockRepository)(nil).CreateBudget), ctx, b)
}

// DeleteBudget mocks base method.
func (m *MockRepository) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteBudget", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteBudget indicates an expected call of DeleteBudget.
func (mr *MockRepositoryMockRecorder) DeleteBudget(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteBudget", reflect.TypeOf((*MockRepository)(nil).DeleteBudget), ctx, id)
}

// GetBudget mocks base method.
func (m *MockRepository) GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBudget", ctx, id)
	ret0, _ := ret[0].(*Budget)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBudget indicates an expected call of GetBudget.
func (mr *MockRepositoryMockRecorder) GetBudget(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBudget", reflect.TypeOf((*MockRepository)(nil).GetBudget), ctx, id)
}

// ListAlerts mocks base method.
func (m *MockRepository) ListAlerts(ctx context.Context, unreadOnly bool) ([]*Alert, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListAlerts", ctx, unreadOnly)
	ret0, _ := ret[0].([]*Alert)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListAlerts indicates an expected call of ListAlerts.
func (mr *MockRepositoryMockRecorder) ListAlerts(ctx, unreadOnly any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListAlerts", reflect.TypeOf((*MockRepository)(nil).ListAlerts), ctx, unreadOnly)
}

// ListBudgets mocks base method.
func (m *MockRepository) ListBudgets(ctx context.Context, onlyActive bool) ([]*Budget, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBudgets", ctx, onlyActive)
	ret0, _ := ret[0].([]*Budget)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListBudgets indicates an expected call of ListBudgets.
func (mr *MockRepositoryMockRecorder) ListBudgets(ctx, onlyActive any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBudgets", reflect.TypeOf((*MockRepository)(nil).ListBudgets), ctx, onlyActive)
}

// MarkAlertRead mocks base method.
func (m *MockRepository) MarkAlertRead(ctx context.Context, budgetID, alertID uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkAlertRead", ctx, budgetID, alertID)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkAlertRead indicates an expected call of MarkAlertRead.
func (mr *MockRepositoryMockRecorder) MarkAlertRead(ctx, budgetID, alertID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkAlertRead", reflect.TypeOf((*MockRepository)(nil).MarkAlertRead), ctx, budgetID, alertID)
}

// SpentForCategory mocks base method.
func (m *MockRepository) SpentForCategory(ctx context.Context, category string, start, end time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SpentForCategory", ctx, category, start, end)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SpentForCategory indicates an expected call of SpentForCategory.
func (mr *MockRepositoryMockRecorder) SpentForCategory(ctx, category, start, end any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SpentForCategory", reflect.TypeOf((*MockRepository)(nil).SpentForCategory), ctx, category, start, end)
}

// UpdateBudget mocks base method.
func (m *MockRepository) UpdateBudget(ctx context.Context, b *Budget) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateBudget", ctx, b)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateBudget indicates an expected call of UpdateBudget.
func (mr *MockRepositoryMockRecorder) UpdateBudget(ctx, b any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateBudget", reflect.TypeOf((*MockRepository)(nil).UpdateBudget), ctx, b)
}

// Code generated by MockGen. DO NOT EDIT.
// Source: service.go
//
// Generated by this command:
//
//	mockgen -source=service.go -destination=repository_mock.go -package=recurring
//

// Package recurring is a generated GoMock package.
package recurring

import (
	context "context"
	reflect "reflect"
	time "time"

	transaction "github.com/arjunks/kharcha/internal/transaction"
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

// CreateRecurring mocks base method.
func (m *MockRepository) CreateRecurring(ctx context.Context, r *RecurringTransaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateRecurring", ctx, r)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateRecurring indicates an expected call of CreateRecurring.
func (mr *MockRepositoryMockRecorder) CreateRecurring(ctx, r any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateRecurring", reflect.TypeOf((*MockRepository)(nil).CreateRecurring), ctx, r)
}

// DeleteRecurring mocks base method.
func (m *MockRepository) DeleteRecurring(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteRecurring", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteRecurring indicates an expected call of DeleteRecurring.
func (mr *MockRepositoryMockRecorder) DeleteRecurring(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteRecurring", reflect.TypeOf((*MockRepository)(nil).DeleteRecurring), ctx, id)
}

// GetRecurring mocks base method.
func (m *MockRepository) GetRecurring(ctx context.Context, id uuid.UUID) (*RecurringTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetRecurring", ctx, id)
	ret0, _ := ret[0].(*RecurringTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetRecurring indicates an expected call of GetRecurring.
func (mr *MockRepositoryMockRecorder) GetRecurring(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetRecurring", reflect.TypeOf((*MockRepository)(nil).GetRecurring), ctx, id)
}

// ListDue mocks base method.
func (m *MockRepository) ListDue(ctx context.Context, asOf time.Time) ([]*RecurringTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDue", ctx, asOf)
	ret0, _ := ret[0].([]*RecurringTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListDue indicates an expected call of ListDue.
func (mr *MockRepositoryMockRecorder) ListDue(ctx, asOf any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDue", reflect.TypeOf((*MockRepository)(nil).ListDue), ctx, asOf)
}

// ListRecurring mocks base method.
func (m *MockRepository) ListRecurring(ctx context.Context, onlyActive bool) ([]*RecurringTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecurring", ctx, onlyActive)
	ret0, _ := ret[0].([]*RecurringTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRecurring indicates an expected call of ListRecurring.
func (mr *MockRepositoryMockRecorder) ListRecurring(ctx, onlyActive any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecurring", reflect.TypeOf((*MockRepository)(nil).ListRecurring), ctx, onlyActive)
}

// UpdateRecurring mocks base method.
func (m *MockRepository) UpdateRecurring(ctx context.Context, r *RecurringTransaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateRecurring", ctx, r)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateRecurring indicates an expected call of UpdateRecurring.
func (mr *MockRepositoryMockRecorder) UpdateRecurring(ctx, r any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateRecurring", reflect.TypeOf((*MockRepository)(nil).UpdateRecurring), ctx, r)
}

// MockTransactionCreator is a mock of TransactionCreator interface.
type MockTransactionCreator struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionCreatorMockRecorder
	isgomock struct{}
}

// MockTransactionCreatorMockRecorder is the mock recorder for MockTransactionCreator.
type MockTransactionCreatorMockRecorder struct {
	mock *MockTransactionCreator
}

// NewMockTransactionCreator creates a new mock instance.
func NewMockTransactionCreator(ctrl *gomock.Controller) *MockTransactionCreator {
	mock := &MockTransactionCreator{ctrl: ctrl}
	mock.recorder = &MockTransactionCreatorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTransactionCreator) EXPECT() *MockTransactionCreatorMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockTransactionCreator) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, params)
	ret0, _ := ret[0].(*transaction.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Create indicates an expected call of Create.
func (mr *MockTransactionCreatorMockRecorder) Create(ctx, params any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockTransactionCreator)(nil).Create), ctx, params)
}

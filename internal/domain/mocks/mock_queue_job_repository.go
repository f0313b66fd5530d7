package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/golang/mock/gomock"
)

// MockQueueJobRepository is a mock of QueueJobRepository interface
type MockQueueJobRepository struct {
	ctrl     *gomock.Controller
	recorder *MockQueueJobRepositoryMockRecorder
}

// MockQueueJobRepositoryMockRecorder is the mock recorder for MockQueueJobRepository
type MockQueueJobRepositoryMockRecorder struct {
	mock *MockQueueJobRepository
}

// NewMockQueueJobRepository creates a new mock instance
func NewMockQueueJobRepository(ctrl *gomock.Controller) *MockQueueJobRepository {
	mock := &MockQueueJobRepository{ctrl: ctrl}
	mock.recorder = &MockQueueJobRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockQueueJobRepository) EXPECT() *MockQueueJobRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockQueueJobRepository) Create(ctx context.Context, job *domain.QueueJob) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, job)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockQueueJobRepositoryMockRecorder) Create(ctx, job interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockQueueJobRepository)(nil).Create), ctx, job)
}

// PickDue mocks base method
func (m *MockQueueJobRepository) PickDue(ctx context.Context, workspaceID string, limit int, now time.Time) ([]*domain.QueueJob, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PickDue", ctx, workspaceID, limit, now)
	ret0, _ := ret[0].([]*domain.QueueJob)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockQueueJobRepositoryMockRecorder) PickDue(ctx, workspaceID, limit, now interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PickDue", reflect.TypeOf((*MockQueueJobRepository)(nil).PickDue), ctx, workspaceID, limit, now)
}

// ResetStuckProcessing mocks base method
func (m *MockQueueJobRepository) ResetStuckProcessing(ctx context.Context, workspaceID string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResetStuckProcessing", ctx, workspaceID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockQueueJobRepositoryMockRecorder) ResetStuckProcessing(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResetStuckProcessing", reflect.TypeOf((*MockQueueJobRepository)(nil).ResetStuckProcessing), ctx, workspaceID)
}

// Finalize mocks base method
func (m *MockQueueJobRepository) Finalize(ctx context.Context, job *domain.QueueJob) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Finalize", ctx, job)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockQueueJobRepositoryMockRecorder) Finalize(ctx, job interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Finalize", reflect.TypeOf((*MockQueueJobRepository)(nil).Finalize), ctx, job)
}

// RetryAllFailed mocks base method
func (m *MockQueueJobRepository) RetryAllFailed(ctx context.Context, workspaceID string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RetryAllFailed", ctx, workspaceID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockQueueJobRepositoryMockRecorder) RetryAllFailed(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RetryAllFailed", reflect.TypeOf((*MockQueueJobRepository)(nil).RetryAllFailed), ctx, workspaceID)
}

// Status mocks base method
func (m *MockQueueJobRepository) Status(ctx context.Context, workspaceID string) (domain.QueueStatusCounts, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Status", ctx, workspaceID)
	ret0, _ := ret[0].(domain.QueueStatusCounts)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockQueueJobRepositoryMockRecorder) Status(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Status", reflect.TypeOf((*MockQueueJobRepository)(nil).Status), ctx, workspaceID)
}

// Cleanup mocks base method
func (m *MockQueueJobRepository) Cleanup(ctx context.Context, workspaceID string, olderThan time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Cleanup", ctx, workspaceID, olderThan)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockQueueJobRepositoryMockRecorder) Cleanup(ctx, workspaceID, olderThan interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Cleanup", reflect.TypeOf((*MockQueueJobRepository)(nil).Cleanup), ctx, workspaceID, olderThan)
}

// EarliestScheduled mocks base method
func (m *MockQueueJobRepository) EarliestScheduled(ctx context.Context, workspaceID string) (*time.Time, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EarliestScheduled", ctx, workspaceID)
	ret0, _ := ret[0].(*time.Time)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockQueueJobRepositoryMockRecorder) EarliestScheduled(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EarliestScheduled", reflect.TypeOf((*MockQueueJobRepository)(nil).EarliestScheduled), ctx, workspaceID)
}

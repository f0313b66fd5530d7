package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/golang/mock/gomock"
)

// MockDeliveryLogRepository is a mock of DeliveryLogRepository interface
type MockDeliveryLogRepository struct {
	ctrl     *gomock.Controller
	recorder *MockDeliveryLogRepositoryMockRecorder
}

// MockDeliveryLogRepositoryMockRecorder is the mock recorder for MockDeliveryLogRepository
type MockDeliveryLogRepositoryMockRecorder struct {
	mock *MockDeliveryLogRepository
}

// NewMockDeliveryLogRepository creates a new mock instance
func NewMockDeliveryLogRepository(ctrl *gomock.Controller) *MockDeliveryLogRepository {
	mock := &MockDeliveryLogRepository{ctrl: ctrl}
	mock.recorder = &MockDeliveryLogRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockDeliveryLogRepository) EXPECT() *MockDeliveryLogRepositoryMockRecorder {
	return m.recorder
}

// Append mocks base method
func (m *MockDeliveryLogRepository) Append(ctx context.Context, entry *domain.DeliveryLog) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Append", ctx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockDeliveryLogRepositoryMockRecorder) Append(ctx, entry interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Append", reflect.TypeOf((*MockDeliveryLogRepository)(nil).Append), ctx, entry)
}

// GetByID mocks base method
func (m *MockDeliveryLogRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.DeliveryLog, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, workspaceID, id)
	ret0, _ := ret[0].(*domain.DeliveryLog)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockDeliveryLogRepositoryMockRecorder) GetByID(ctx, workspaceID, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockDeliveryLogRepository)(nil).GetByID), ctx, workspaceID, id)
}

// ListByWebhook mocks base method
func (m *MockDeliveryLogRepository) ListByWebhook(ctx context.Context, workspaceID string, webhookID *string, limit, offset int, successFilter *bool) ([]*domain.DeliveryLog, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByWebhook", ctx, workspaceID, webhookID, limit, offset, successFilter)
	ret0, _ := ret[0].([]*domain.DeliveryLog)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockDeliveryLogRepositoryMockRecorder) ListByWebhook(ctx, workspaceID, webhookID, limit, offset, successFilter interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByWebhook", reflect.TypeOf((*MockDeliveryLogRepository)(nil).ListByWebhook), ctx, workspaceID, webhookID, limit, offset, successFilter)
}

// RecentFailures mocks base method
func (m *MockDeliveryLogRepository) RecentFailures(ctx context.Context, workspaceID, webhookID string, limit int) ([]*domain.DeliveryLog, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecentFailures", ctx, workspaceID, webhookID, limit)
	ret0, _ := ret[0].([]*domain.DeliveryLog)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockDeliveryLogRepositoryMockRecorder) RecentFailures(ctx, workspaceID, webhookID, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecentFailures", reflect.TypeOf((*MockDeliveryLogRepository)(nil).RecentFailures), ctx, workspaceID, webhookID, limit)
}

// DeleteOlderThan mocks base method
func (m *MockDeliveryLogRepository) DeleteOlderThan(ctx context.Context, workspaceID string, olderThan time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteOlderThan", ctx, workspaceID, olderThan)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockDeliveryLogRepositoryMockRecorder) DeleteOlderThan(ctx, workspaceID, olderThan interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteOlderThan", reflect.TypeOf((*MockDeliveryLogRepository)(nil).DeleteOlderThan), ctx, workspaceID, olderThan)
}

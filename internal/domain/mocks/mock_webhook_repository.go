package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/golang/mock/gomock"
)

// MockWebhookRepository is a mock of WebhookRepository interface
type MockWebhookRepository struct {
	ctrl     *gomock.Controller
	recorder *MockWebhookRepositoryMockRecorder
}

// MockWebhookRepositoryMockRecorder is the mock recorder for MockWebhookRepository
type MockWebhookRepositoryMockRecorder struct {
	mock *MockWebhookRepository
}

// NewMockWebhookRepository creates a new mock instance
func NewMockWebhookRepository(ctrl *gomock.Controller) *MockWebhookRepository {
	mock := &MockWebhookRepository{ctrl: ctrl}
	mock.recorder = &MockWebhookRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockWebhookRepository) EXPECT() *MockWebhookRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockWebhookRepository) Create(ctx context.Context, workspaceID string, webhook *domain.Webhook) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, workspaceID, webhook)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWebhookRepositoryMockRecorder) Create(ctx, workspaceID, webhook interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockWebhookRepository)(nil).Create), ctx, workspaceID, webhook)
}

// GetByID mocks base method
func (m *MockWebhookRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Webhook, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, workspaceID, id)
	ret0, _ := ret[0].(*domain.Webhook)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWebhookRepositoryMockRecorder) GetByID(ctx, workspaceID, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockWebhookRepository)(nil).GetByID), ctx, workspaceID, id)
}

// List mocks base method
func (m *MockWebhookRepository) List(ctx context.Context, workspaceID string, activeOnly bool) ([]*domain.Webhook, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, workspaceID, activeOnly)
	ret0, _ := ret[0].([]*domain.Webhook)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWebhookRepositoryMockRecorder) List(ctx, workspaceID, activeOnly interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockWebhookRepository)(nil).List), ctx, workspaceID, activeOnly)
}

// ByOwnerAndEvent mocks base method
func (m *MockWebhookRepository) ByOwnerAndEvent(ctx context.Context, workspaceID string, kind domain.EventKind) ([]*domain.Webhook, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ByOwnerAndEvent", ctx, workspaceID, kind)
	ret0, _ := ret[0].([]*domain.Webhook)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWebhookRepositoryMockRecorder) ByOwnerAndEvent(ctx, workspaceID, kind interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ByOwnerAndEvent", reflect.TypeOf((*MockWebhookRepository)(nil).ByOwnerAndEvent), ctx, workspaceID, kind)
}

// Update mocks base method
func (m *MockWebhookRepository) Update(ctx context.Context, workspaceID string, webhook *domain.Webhook) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, workspaceID, webhook)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWebhookRepositoryMockRecorder) Update(ctx, workspaceID, webhook interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockWebhookRepository)(nil).Update), ctx, workspaceID, webhook)
}

// Delete mocks base method
func (m *MockWebhookRepository) Delete(ctx context.Context, workspaceID, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, workspaceID, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWebhookRepositoryMockRecorder) Delete(ctx, workspaceID, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockWebhookRepository)(nil).Delete), ctx, workspaceID, id)
}

// RecordAttempt mocks base method
func (m *MockWebhookRepository) RecordAttempt(ctx context.Context, workspaceID, id string, success bool, at time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordAttempt", ctx, workspaceID, id, success, at)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWebhookRepositoryMockRecorder) RecordAttempt(ctx, workspaceID, id, success, at interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordAttempt", reflect.TypeOf((*MockWebhookRepository)(nil).RecordAttempt), ctx, workspaceID, id, success, at)
}

// RegenerateSecret mocks base method
func (m *MockWebhookRepository) RegenerateSecret(ctx context.Context, workspaceID, id, newSecret string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RegenerateSecret", ctx, workspaceID, id, newSecret)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWebhookRepositoryMockRecorder) RegenerateSecret(ctx, workspaceID, id, newSecret interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RegenerateSecret", reflect.TypeOf((*MockWebhookRepository)(nil).RegenerateSecret), ctx, workspaceID, id, newSecret)
}

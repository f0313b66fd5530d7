package mocks

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/golang/mock/gomock"
)

// MockWorkspaceRepository is a mock of WorkspaceRepository interface
type MockWorkspaceRepository struct {
	ctrl     *gomock.Controller
	recorder *MockWorkspaceRepositoryMockRecorder
}

// MockWorkspaceRepositoryMockRecorder is the mock recorder for MockWorkspaceRepository
type MockWorkspaceRepositoryMockRecorder struct {
	mock *MockWorkspaceRepository
}

// NewMockWorkspaceRepository creates a new mock instance
func NewMockWorkspaceRepository(ctrl *gomock.Controller) *MockWorkspaceRepository {
	mock := &MockWorkspaceRepository{ctrl: ctrl}
	mock.recorder = &MockWorkspaceRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockWorkspaceRepository) EXPECT() *MockWorkspaceRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, workspace)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) Create(ctx, workspace interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockWorkspaceRepository)(nil).Create), ctx, workspace)
}

// GetByID mocks base method
func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.Workspace)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetByID), ctx, id)
}

// List mocks base method
func (m *MockWorkspaceRepository) List(ctx context.Context) ([]*domain.Workspace, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx)
	ret0, _ := ret[0].([]*domain.Workspace)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) List(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockWorkspaceRepository)(nil).List), ctx)
}

// Update mocks base method
func (m *MockWorkspaceRepository) Update(ctx context.Context, workspace *domain.Workspace) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, workspace)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) Update(ctx, workspace interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockWorkspaceRepository)(nil).Update), ctx, workspace)
}

// Delete mocks base method
func (m *MockWorkspaceRepository) Delete(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) Delete(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockWorkspaceRepository)(nil).Delete), ctx, id)
}

// AddUserToWorkspace mocks base method
func (m *MockWorkspaceRepository) AddUserToWorkspace(ctx context.Context, userWorkspace *domain.UserWorkspace) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddUserToWorkspace", ctx, userWorkspace)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) AddUserToWorkspace(ctx, userWorkspace interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddUserToWorkspace", reflect.TypeOf((*MockWorkspaceRepository)(nil).AddUserToWorkspace), ctx, userWorkspace)
}

// RemoveUserFromWorkspace mocks base method
func (m *MockWorkspaceRepository) RemoveUserFromWorkspace(ctx context.Context, userID string, workspaceID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveUserFromWorkspace", ctx, userID, workspaceID)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) RemoveUserFromWorkspace(ctx, userID, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveUserFromWorkspace", reflect.TypeOf((*MockWorkspaceRepository)(nil).RemoveUserFromWorkspace), ctx, userID, workspaceID)
}

// GetUserWorkspaces mocks base method
func (m *MockWorkspaceRepository) GetUserWorkspaces(ctx context.Context, userID string) ([]*domain.UserWorkspace, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetUserWorkspaces", ctx, userID)
	ret0, _ := ret[0].([]*domain.UserWorkspace)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetUserWorkspaces(ctx, userID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUserWorkspaces", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetUserWorkspaces), ctx, userID)
}

// GetWorkspaceUsersWithEmail mocks base method
func (m *MockWorkspaceRepository) GetWorkspaceUsersWithEmail(ctx context.Context, workspaceID string) ([]*domain.UserWorkspaceWithEmail, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetWorkspaceUsersWithEmail", ctx, workspaceID)
	ret0, _ := ret[0].([]*domain.UserWorkspaceWithEmail)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetWorkspaceUsersWithEmail(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetWorkspaceUsersWithEmail", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetWorkspaceUsersWithEmail), ctx, workspaceID)
}

// GetUserWorkspace mocks base method
func (m *MockWorkspaceRepository) GetUserWorkspace(ctx context.Context, userID string, workspaceID string) (*domain.UserWorkspace, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetUserWorkspace", ctx, userID, workspaceID)
	ret0, _ := ret[0].(*domain.UserWorkspace)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetUserWorkspace(ctx, userID, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUserWorkspace", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetUserWorkspace), ctx, userID, workspaceID)
}

// CreateInvitation mocks base method
func (m *MockWorkspaceRepository) CreateInvitation(ctx context.Context, invitation *domain.WorkspaceInvitation) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateInvitation", ctx, invitation)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) CreateInvitation(ctx, invitation interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateInvitation", reflect.TypeOf((*MockWorkspaceRepository)(nil).CreateInvitation), ctx, invitation)
}

// GetInvitationByID mocks base method
func (m *MockWorkspaceRepository) GetInvitationByID(ctx context.Context, id string) (*domain.WorkspaceInvitation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetInvitationByID", ctx, id)
	ret0, _ := ret[0].(*domain.WorkspaceInvitation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetInvitationByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetInvitationByID", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetInvitationByID), ctx, id)
}

// GetInvitationByEmail mocks base method
func (m *MockWorkspaceRepository) GetInvitationByEmail(ctx context.Context, workspaceID, email string) (*domain.WorkspaceInvitation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetInvitationByEmail", ctx, workspaceID, email)
	ret0, _ := ret[0].(*domain.WorkspaceInvitation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetInvitationByEmail(ctx, workspaceID, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetInvitationByEmail", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetInvitationByEmail), ctx, workspaceID, email)
}

// IsUserWorkspaceMember mocks base method
func (m *MockWorkspaceRepository) IsUserWorkspaceMember(ctx context.Context, userID, workspaceID string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsUserWorkspaceMember", ctx, userID, workspaceID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) IsUserWorkspaceMember(ctx, userID, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsUserWorkspaceMember", reflect.TypeOf((*MockWorkspaceRepository)(nil).IsUserWorkspaceMember), ctx, userID, workspaceID)
}

// GetConnection mocks base method
func (m *MockWorkspaceRepository) GetConnection(ctx context.Context, workspaceID string) (*sql.DB, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetConnection", ctx, workspaceID)
	ret0, _ := ret[0].(*sql.DB)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetConnection(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetConnection", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetConnection), ctx, workspaceID)
}

// GetSystemConnection mocks base method
func (m *MockWorkspaceRepository) GetSystemConnection(ctx context.Context) (*sql.DB, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSystemConnection", ctx)
	ret0, _ := ret[0].(*sql.DB)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockWorkspaceRepositoryMockRecorder) GetSystemConnection(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSystemConnection", reflect.TypeOf((*MockWorkspaceRepository)(nil).GetSystemConnection), ctx)
}

// CreateDatabase mocks base method
func (m *MockWorkspaceRepository) CreateDatabase(ctx context.Context, workspaceID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateDatabase", ctx, workspaceID)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) CreateDatabase(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateDatabase", reflect.TypeOf((*MockWorkspaceRepository)(nil).CreateDatabase), ctx, workspaceID)
}

// DeleteDatabase mocks base method
func (m *MockWorkspaceRepository) DeleteDatabase(ctx context.Context, workspaceID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteDatabase", ctx, workspaceID)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) DeleteDatabase(ctx, workspaceID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteDatabase", reflect.TypeOf((*MockWorkspaceRepository)(nil).DeleteDatabase), ctx, workspaceID)
}

// WithWorkspaceTransaction mocks base method
func (m *MockWorkspaceRepository) WithWorkspaceTransaction(ctx context.Context, workspaceID string, fn func(*sql.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithWorkspaceTransaction", ctx, workspaceID, fn)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockWorkspaceRepositoryMockRecorder) WithWorkspaceTransaction(ctx, workspaceID, fn interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithWorkspaceTransaction", reflect.TypeOf((*MockWorkspaceRepository)(nil).WithWorkspaceTransaction), ctx, workspaceID, fn)
}

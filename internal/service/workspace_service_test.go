package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Notifuse/notifuse/config"
	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogger is a testify mock implementation of logger.Logger shared across
// this package's test files.
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string) { m.Called(msg) }
func (m *MockLogger) Info(msg string)  { m.Called(msg) }
func (m *MockLogger) Warn(msg string)  { m.Called(msg) }
func (m *MockLogger) Error(msg string) { m.Called(msg) }
func (m *MockLogger) Fatal(msg string) { m.Called(msg) }

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) List(ctx context.Context) ([]*domain.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) AddUserToWorkspace(ctx context.Context, userWorkspace *domain.UserWorkspace) error {
	args := m.Called(ctx, userWorkspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) RemoveUserFromWorkspace(ctx context.Context, userID string, workspaceID string) error {
	args := m.Called(ctx, userID, workspaceID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetUserWorkspaces(ctx context.Context, userID string) ([]*domain.UserWorkspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserWorkspace), args.Error(1)
}

func (m *MockWorkspaceRepository) GetWorkspaceUsersWithEmail(ctx context.Context, workspaceID string) ([]*domain.UserWorkspaceWithEmail, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserWorkspaceWithEmail), args.Error(1)
}

func (m *MockWorkspaceRepository) GetUserWorkspace(ctx context.Context, userID string, workspaceID string) (*domain.UserWorkspace, error) {
	args := m.Called(ctx, userID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserWorkspace), args.Error(1)
}

func (m *MockWorkspaceRepository) CreateInvitation(ctx context.Context, invitation *domain.WorkspaceInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetInvitationByID(ctx context.Context, id string) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}

func (m *MockWorkspaceRepository) GetInvitationByEmail(ctx context.Context, workspaceID, email string) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}

func (m *MockWorkspaceRepository) IsUserWorkspaceMember(ctx context.Context, userID, workspaceID string) (bool, error) {
	args := m.Called(ctx, userID, workspaceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkspaceRepository) GetConnection(ctx context.Context, workspaceID string) (*sql.DB, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.DB), args.Error(1)
}

func (m *MockWorkspaceRepository) GetSystemConnection(ctx context.Context) (*sql.DB, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.DB), args.Error(1)
}

func (m *MockWorkspaceRepository) CreateDatabase(ctx context.Context, workspaceID string) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) DeleteDatabase(ctx context.Context, workspaceID string) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) WithWorkspaceTransaction(ctx context.Context, workspaceID string, fn func(*sql.Tx) error) error {
	args := m.Called(ctx, workspaceID, fn)
	return args.Error(0)
}

// MockAuthServiceForWorkspace is a mock implementation of domain.AuthService
type MockAuthServiceForWorkspace struct {
	mock.Mock
}

func (m *MockAuthServiceForWorkspace) AuthenticateUserFromContext(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthServiceForWorkspace) AuthenticateUserForWorkspace(ctx context.Context, workspaceID string) (context.Context, *domain.User, *domain.UserWorkspace, error) {
	args := m.Called(ctx, workspaceID)
	var user *domain.User
	var uw *domain.UserWorkspace
	if args.Get(1) != nil {
		user = args.Get(1).(*domain.User)
	}
	if args.Get(2) != nil {
		uw = args.Get(2).(*domain.UserWorkspace)
	}
	return ctx, user, uw, args.Error(3)
}

func (m *MockAuthServiceForWorkspace) VerifyUserSession(ctx context.Context, userID, sessionID string) (*domain.User, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthServiceForWorkspace) GenerateUserAuthToken(user *domain.User, sessionID string, expiresAt time.Time) string {
	args := m.Called(user, sessionID, expiresAt)
	return args.String(0)
}

func (m *MockAuthServiceForWorkspace) GenerateAPIAuthToken(user *domain.User) string {
	args := m.Called(user)
	return args.String(0)
}

func (m *MockAuthServiceForWorkspace) GenerateInvitationToken(invitation *domain.WorkspaceInvitation) string {
	args := m.Called(invitation)
	return args.String(0)
}

// MockUserServiceForWorkspace is a mock implementation of domain.UserServiceInterface
type MockUserServiceForWorkspace struct {
	mock.Mock
}

func (m *MockUserServiceForWorkspace) SignIn(ctx context.Context, input domain.SignInInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockUserServiceForWorkspace) VerifyCode(ctx context.Context, input domain.VerifyCodeInput) (*domain.AuthResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockUserServiceForWorkspace) VerifyUserSession(ctx context.Context, userID string, sessionID string) (*domain.User, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserServiceForWorkspace) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserServiceForWorkspace) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserServiceForWorkspace) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestWorkspaceService(repo *MockWorkspaceRepository, authSvc *MockAuthServiceForWorkspace, userSvc *MockUserServiceForWorkspace, cfg *config.Config) *WorkspaceService {
	mockLogger := new(MockLogger)
	mockLogger.On("WithField", mock.Anything, mock.Anything).Return(mockLogger)
	mockLogger.On("Error", mock.Anything).Return()
	mockLogger.On("Warn", mock.Anything).Return()
	return NewWorkspaceService(repo, mockLogger, userSvc, authSvc, cfg)
}

func TestWorkspaceService_ListWorkspaces(t *testing.T) {
	ctx := context.Background()
	userID := "test-user"

	t.Run("successful list with workspaces", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID, Email: "user@example.com"}
		authSvc.On("AuthenticateUserFromContext", ctx).Return(user, nil)

		userWorkspaces := []*domain.UserWorkspace{
			{UserID: userID, WorkspaceID: "1", Role: "owner"},
			{UserID: userID, WorkspaceID: "2", Role: "member"},
		}
		workspaces := []*domain.Workspace{
			{ID: "1", Name: "Test Workspace 1"},
			{ID: "2", Name: "Test Workspace 2"},
		}

		repo.On("GetUserWorkspaces", ctx, userID).Return(userWorkspaces, nil)
		repo.On("GetByID", ctx, "1").Return(workspaces[0], nil)
		repo.On("GetByID", ctx, "2").Return(workspaces[1], nil)

		result, err := service.ListWorkspaces(ctx)
		require.NoError(t, err)
		assert.Equal(t, workspaces, result)
		repo.AssertExpectations(t)
		authSvc.AssertExpectations(t)
	})

	t.Run("empty list when user has no workspaces", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		authSvc.On("AuthenticateUserFromContext", ctx).Return(user, nil)
		repo.On("GetUserWorkspaces", ctx, userID).Return([]*domain.UserWorkspace{}, nil)

		result, err := service.ListWorkspaces(ctx)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("authentication failure", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		authSvc.On("AuthenticateUserFromContext", ctx).Return(nil, assert.AnError)

		result, err := service.ListWorkspaces(ctx)
		require.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("error getting a specific workspace", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		authSvc.On("AuthenticateUserFromContext", ctx).Return(user, nil)

		userWorkspaces := []*domain.UserWorkspace{{UserID: userID, WorkspaceID: "1", Role: "owner"}}
		repo.On("GetUserWorkspaces", ctx, userID).Return(userWorkspaces, nil)
		repo.On("GetByID", ctx, "1").Return(nil, assert.AnError)

		result, err := service.ListWorkspaces(ctx)
		require.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestWorkspaceService_GetWorkspace(t *testing.T) {
	ctx := context.Background()
	userID := "test-user"
	workspaceID := "workspace1"

	t.Run("successful retrieval", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)

		workspace := &domain.Workspace{ID: workspaceID, Name: "Test Workspace"}
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)
		repo.On("GetByID", ctx, workspaceID).Return(workspace, nil)

		result, err := service.GetWorkspace(ctx, workspaceID)
		require.NoError(t, err)
		assert.Equal(t, workspace, result)
	})

	t.Run("system call bypasses membership check", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		systemCtx := context.WithValue(ctx, domain.SystemCallKey, true)
		workspace := &domain.Workspace{ID: workspaceID, Name: "Test Workspace"}
		repo.On("GetByID", systemCtx, workspaceID).Return(workspace, nil)

		result, err := service.GetWorkspace(systemCtx, workspaceID)
		require.NoError(t, err)
		assert.Equal(t, workspace, result)
		authSvc.AssertNotCalled(t, "AuthenticateUserForWorkspace")
	})

	t.Run("error getting workspace by ID", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)
		repo.On("GetByID", ctx, workspaceID).Return(nil, assert.AnError)

		result, err := service.GetWorkspace(ctx, workspaceID)
		require.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestWorkspaceService_CreateWorkspace(t *testing.T) {
	ctx := context.Background()
	workspaceID := "workspace1"
	fm := domain.FileManagerSettings{}

	t.Run("root user creates workspace", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		cfg := &config.Config{Environment: "development", RootEmail: "root@example.com"}
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), cfg)

		user := &domain.User{ID: "root-user", Email: "root@example.com"}
		authSvc.On("AuthenticateUserFromContext", ctx).Return(user, nil)

		repo.On("GetByID", ctx, workspaceID).Return(nil, assert.AnError)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)
		repo.On("AddUserToWorkspace", ctx, mock.AnythingOfType("*domain.UserWorkspace")).Return(nil)
		repo.On("CreateDatabase", ctx, workspaceID).Return(nil)

		workspace, err := service.CreateWorkspace(ctx, workspaceID, "My Workspace", "https://example.com", "", "", "UTC", fm)
		require.NoError(t, err)
		assert.Equal(t, workspaceID, workspace.ID)
		assert.Equal(t, "secret_key_for_dev_env", workspace.Settings.SecretKey)
		repo.AssertExpectations(t)
	})

	t.Run("non-root user rejected", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		cfg := &config.Config{Environment: "production", RootEmail: "root@example.com"}
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), cfg)

		user := &domain.User{ID: "someone", Email: "someone@example.com"}
		authSvc.On("AuthenticateUserFromContext", ctx).Return(user, nil)

		workspace, err := service.CreateWorkspace(ctx, workspaceID, "My Workspace", "https://example.com", "", "", "UTC", fm)
		require.Error(t, err)
		assert.Nil(t, workspace)
		var unauthorized *domain.ErrUnauthorized
		assert.ErrorAs(t, err, &unauthorized)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("workspace already exists", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		cfg := &config.Config{Environment: "development", RootEmail: "root@example.com"}
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), cfg)

		user := &domain.User{ID: "root-user", Email: "root@example.com"}
		authSvc.On("AuthenticateUserFromContext", ctx).Return(user, nil)
		repo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID}, nil)

		workspace, err := service.CreateWorkspace(ctx, workspaceID, "My Workspace", "https://example.com", "", "", "UTC", fm)
		require.Error(t, err)
		assert.Nil(t, workspace)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestWorkspaceService_UpdateWorkspace(t *testing.T) {
	ctx := context.Background()
	userID := "test-user"
	workspaceID := "workspace1"
	settings := domain.WorkspaceSettings{WebsiteURL: "https://new.example.com", Timezone: "UTC"}

	t.Run("owner updates workspace", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)

		existing := &domain.Workspace{ID: workspaceID, Name: "Old Name", Settings: domain.WorkspaceSettings{SecretKey: "k", Timezone: "UTC"}}
		repo.On("GetByID", ctx, workspaceID).Return(existing, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)

		result, err := service.UpdateWorkspace(ctx, workspaceID, "New Name", settings)
		require.NoError(t, err)
		assert.Equal(t, "New Name", result.Name)
		assert.Equal(t, "https://new.example.com", result.Settings.WebsiteURL)
	})

	t.Run("member is rejected", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "member"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)

		result, err := service.UpdateWorkspace(ctx, workspaceID, "New Name", settings)
		require.Error(t, err)
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "Update")
	})
}

func TestWorkspaceService_DeleteWorkspace(t *testing.T) {
	ctx := context.Background()
	userID := "test-user"
	workspaceID := "workspace1"

	t.Run("owner deletes workspace", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)
		repo.On("DeleteDatabase", ctx, workspaceID).Return(nil)
		repo.On("Delete", ctx, workspaceID).Return(nil)

		err := service.DeleteWorkspace(ctx, workspaceID)
		require.NoError(t, err)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "member"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)

		err := service.DeleteWorkspace(ctx, workspaceID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("database deletion error is non-fatal", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)
		repo.On("DeleteDatabase", ctx, workspaceID).Return(assert.AnError)
		repo.On("Delete", ctx, workspaceID).Return(nil)

		err := service.DeleteWorkspace(ctx, workspaceID)
		require.NoError(t, err)
	})
}

func TestWorkspaceService_AddUserToWorkspace(t *testing.T) {
	ctx := context.Background()
	ownerID := "owner1"
	newUserID := "newuser1"
	workspaceID := "workspace1"

	t.Run("owner adds member", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: ownerID}
		requesterWs := &domain.UserWorkspace{UserID: ownerID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, requesterWs, nil)
		repo.On("GetUserWorkspace", ctx, ownerID, workspaceID).Return(requesterWs, nil)
		repo.On("AddUserToWorkspace", ctx, mock.AnythingOfType("*domain.UserWorkspace")).Return(nil)

		err := service.AddUserToWorkspace(ctx, workspaceID, newUserID, "member")
		require.NoError(t, err)
	})

	t.Run("non-owner requester is rejected", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: ownerID}
		requesterWs := &domain.UserWorkspace{UserID: ownerID, WorkspaceID: workspaceID, Role: "member"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, requesterWs, nil)
		repo.On("GetUserWorkspace", ctx, ownerID, workspaceID).Return(requesterWs, nil)

		err := service.AddUserToWorkspace(ctx, workspaceID, newUserID, "member")
		require.Error(t, err)
		repo.AssertNotCalled(t, "AddUserToWorkspace")
	})
}

func TestWorkspaceService_RemoveUserFromWorkspace(t *testing.T) {
	ctx := context.Background()
	ownerID := "owner1"
	memberID := "member1"
	workspaceID := "workspace1"

	t.Run("owner removes member", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		owner := &domain.User{ID: ownerID}
		requesterWs := &domain.UserWorkspace{UserID: ownerID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, owner, requesterWs, nil)
		repo.On("GetUserWorkspace", ctx, ownerID, workspaceID).Return(requesterWs, nil)
		repo.On("RemoveUserFromWorkspace", ctx, memberID, workspaceID).Return(nil)

		err := service.RemoveUserFromWorkspace(ctx, workspaceID, memberID)
		require.NoError(t, err)
	})

	t.Run("owner cannot remove self", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		owner := &domain.User{ID: ownerID}
		requesterWs := &domain.UserWorkspace{UserID: ownerID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, owner, requesterWs, nil)
		repo.On("GetUserWorkspace", ctx, ownerID, workspaceID).Return(requesterWs, nil)

		err := service.RemoveUserFromWorkspace(ctx, workspaceID, ownerID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "RemoveUserFromWorkspace")
	})

	t.Run("RemoveMember delegates to RemoveUserFromWorkspace", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		owner := &domain.User{ID: ownerID}
		requesterWs := &domain.UserWorkspace{UserID: ownerID, WorkspaceID: workspaceID, Role: "owner"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, owner, requesterWs, nil)
		repo.On("GetUserWorkspace", ctx, ownerID, workspaceID).Return(requesterWs, nil)
		repo.On("RemoveUserFromWorkspace", ctx, memberID, workspaceID).Return(nil)

		err := service.RemoveMember(ctx, workspaceID, memberID)
		require.NoError(t, err)
	})
}

func TestWorkspaceService_TransferOwnership(t *testing.T) {
	ctx := context.Background()
	currentOwnerID := "owner1"
	newOwnerID := "member1"
	workspaceID := "workspace1"

	t.Run("successful transfer", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		caller := &domain.User{ID: currentOwnerID}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, caller, &domain.UserWorkspace{Role: "owner"}, nil)

		currentOwnerWs := &domain.UserWorkspace{UserID: currentOwnerID, WorkspaceID: workspaceID, Role: "owner"}
		newOwnerWs := &domain.UserWorkspace{UserID: newOwnerID, WorkspaceID: workspaceID, Role: "member"}
		repo.On("GetUserWorkspace", ctx, currentOwnerID, workspaceID).Return(currentOwnerWs, nil)
		repo.On("GetUserWorkspace", ctx, newOwnerID, workspaceID).Return(newOwnerWs, nil)
		repo.On("AddUserToWorkspace", ctx, mock.AnythingOfType("*domain.UserWorkspace")).Return(nil).Twice()

		err := service.TransferOwnership(ctx, workspaceID, newOwnerID, currentOwnerID)
		require.NoError(t, err)
	})

	t.Run("new owner must be a member", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		caller := &domain.User{ID: currentOwnerID}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, caller, &domain.UserWorkspace{Role: "owner"}, nil)

		currentOwnerWs := &domain.UserWorkspace{UserID: currentOwnerID, WorkspaceID: workspaceID, Role: "owner"}
		outsiderWs := &domain.UserWorkspace{UserID: newOwnerID, WorkspaceID: workspaceID, Role: "owner"}
		repo.On("GetUserWorkspace", ctx, currentOwnerID, workspaceID).Return(currentOwnerWs, nil)
		repo.On("GetUserWorkspace", ctx, newOwnerID, workspaceID).Return(outsiderWs, nil)

		err := service.TransferOwnership(ctx, workspaceID, newOwnerID, currentOwnerID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "AddUserToWorkspace")
	})
}

func TestWorkspaceService_InviteMember(t *testing.T) {
	ctx := context.Background()
	inviterID := "inviter1"
	workspaceID := "workspace1"
	email := "invitee@example.com"

	t.Run("development mode returns token for new invitee", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		userSvc := new(MockUserServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, userSvc, &config.Config{Environment: "development"})

		inviter := &domain.User{ID: inviterID}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, inviter, &domain.UserWorkspace{Role: "owner"}, nil)
		repo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID}, nil)
		repo.On("IsUserWorkspaceMember", ctx, inviterID, workspaceID).Return(true, nil)
		userSvc.On("GetUserByEmail", ctx, email).Return(nil, assert.AnError)
		repo.On("CreateInvitation", ctx, mock.AnythingOfType("*domain.WorkspaceInvitation")).Return(nil)
		authSvc.On("GenerateInvitationToken", mock.AnythingOfType("*domain.WorkspaceInvitation")).Return("invite-token")

		invitation, token, err := service.InviteMember(ctx, workspaceID, email)
		require.NoError(t, err)
		require.NotNil(t, invitation)
		assert.Equal(t, "invite-token", token)
	})

	t.Run("production mode does not leak token", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		userSvc := new(MockUserServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, userSvc, &config.Config{Environment: "production"})

		inviter := &domain.User{ID: inviterID}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, inviter, &domain.UserWorkspace{Role: "owner"}, nil)
		repo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID}, nil)
		repo.On("IsUserWorkspaceMember", ctx, inviterID, workspaceID).Return(true, nil)
		userSvc.On("GetUserByEmail", ctx, email).Return(nil, assert.AnError)
		repo.On("CreateInvitation", ctx, mock.AnythingOfType("*domain.WorkspaceInvitation")).Return(nil)
		authSvc.On("GenerateInvitationToken", mock.AnythingOfType("*domain.WorkspaceInvitation")).Return("invite-token")

		invitation, token, err := service.InviteMember(ctx, workspaceID, email)
		require.NoError(t, err)
		require.NotNil(t, invitation)
		assert.Empty(t, token)
	})

	t.Run("existing user is added directly", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		userSvc := new(MockUserServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, userSvc, &config.Config{Environment: "development"})

		inviter := &domain.User{ID: inviterID}
		existingUser := &domain.User{ID: "existing-user", Email: email}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, inviter, &domain.UserWorkspace{Role: "owner"}, nil)
		repo.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID}, nil)
		repo.On("IsUserWorkspaceMember", ctx, inviterID, workspaceID).Return(true, nil)
		userSvc.On("GetUserByEmail", ctx, email).Return(existingUser, nil)
		repo.On("IsUserWorkspaceMember", ctx, existingUser.ID, workspaceID).Return(false, nil)
		repo.On("AddUserToWorkspace", ctx, mock.AnythingOfType("*domain.UserWorkspace")).Return(nil)

		invitation, token, err := service.InviteMember(ctx, workspaceID, email)
		require.NoError(t, err)
		assert.Nil(t, invitation)
		assert.Empty(t, token)
		repo.AssertNotCalled(t, "CreateInvitation")
	})

	t.Run("invalid email format is rejected", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		userSvc := new(MockUserServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, userSvc, &config.Config{Environment: "development"})

		inviter := &domain.User{ID: inviterID}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, inviter, &domain.UserWorkspace{Role: "owner"}, nil)

		invitation, token, err := service.InviteMember(ctx, workspaceID, "not-an-email")
		require.Error(t, err)
		assert.Nil(t, invitation)
		assert.Empty(t, token)
		repo.AssertNotCalled(t, "GetByID")
	})
}

func TestWorkspaceService_GetWorkspaceMembersWithEmail(t *testing.T) {
	ctx := context.Background()
	userID := "user1"
	workspaceID := "workspace1"

	t.Run("successful retrieval", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		uw := &domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "member"}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, uw, nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(uw, nil)

		members := []*domain.UserWorkspaceWithEmail{
			{UserWorkspace: domain.UserWorkspace{UserID: userID, WorkspaceID: workspaceID, Role: "owner"}, Email: "owner@example.com"},
		}
		repo.On("GetWorkspaceUsersWithEmail", ctx, workspaceID).Return(members, nil)

		result, err := service.GetWorkspaceMembersWithEmail(ctx, workspaceID)
		require.NoError(t, err)
		assert.Equal(t, members, result)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		repo := new(MockWorkspaceRepository)
		authSvc := new(MockAuthServiceForWorkspace)
		service := newTestWorkspaceService(repo, authSvc, new(MockUserServiceForWorkspace), &config.Config{Environment: "development"})

		user := &domain.User{ID: userID}
		authSvc.On("AuthenticateUserForWorkspace", ctx, workspaceID).Return(ctx, user, (*domain.UserWorkspace)(nil), nil)
		repo.On("GetUserWorkspace", ctx, userID, workspaceID).Return(nil, assert.AnError)

		result, err := service.GetWorkspaceMembersWithEmail(ctx, workspaceID)
		require.Error(t, err)
		assert.Nil(t, result)
		var unauthorized *domain.ErrUnauthorized
		assert.ErrorAs(t, err, &unauthorized)
	})
}

func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(32)
	require.NoError(t, err)
	assert.Len(t, key, 64) // hex-encoded, 2 chars per byte

	key2, err := GenerateSecureKey(32)
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Notifuse/notifuse/config"
	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/pkg/logger"
	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
)

// WorkspaceService implements domain.WorkspaceServiceInterface. It is the
// authorization boundary every webhook operation sits behind: a webhook
// belongs to exactly one workspace, and every admin-surface call first
// establishes that the caller is a member (or owner) of that workspace.
type WorkspaceService struct {
	repo        domain.WorkspaceRepository
	logger      logger.Logger
	userService domain.UserServiceInterface
	authService domain.AuthService
	config      *config.Config
}

func NewWorkspaceService(
	repo domain.WorkspaceRepository,
	logger logger.Logger,
	userService domain.UserServiceInterface,
	authService domain.AuthService,
	config *config.Config,
) *WorkspaceService {
	return &WorkspaceService{
		repo:        repo,
		logger:      logger,
		userService: userService,
		authService: authService,
		config:      config,
	}
}

// ListWorkspaces returns all workspaces for the caller.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context) ([]*domain.Workspace, error) {
	user, err := s.authService.AuthenticateUserFromContext(ctx)
	if err != nil {
		return nil, err
	}

	userWorkspaces, err := s.repo.GetUserWorkspaces(ctx, user.ID)
	if err != nil {
		s.logger.WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to get user workspaces")
		return nil, err
	}

	if len(userWorkspaces) == 0 {
		return []*domain.Workspace{}, nil
	}

	workspaces := make([]*domain.Workspace, 0, len(userWorkspaces))
	for _, uw := range userWorkspaces {
		workspace, err := s.repo.GetByID(ctx, uw.WorkspaceID)
		if err != nil {
			s.logger.WithField("workspace_id", uw.WorkspaceID).WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to get workspace by ID")
			return nil, err
		}
		workspaces = append(workspaces, workspace)
	}

	return workspaces, nil
}

// GetWorkspace returns a workspace by ID if the caller has access.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	if ctx.Value(domain.SystemCallKey) == nil {
		var user *domain.User
		var err error
		ctx, user, _, err = s.authService.AuthenticateUserForWorkspace(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate user: %w", err)
		}

		if _, err := s.repo.GetUserWorkspace(ctx, user.ID, id); err != nil {
			s.logger.WithField("workspace_id", id).WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to get user workspace")
			return nil, err
		}
	}

	workspace, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to get workspace by ID")
		return nil, err
	}

	return workspace, nil
}

// CreateWorkspace creates a new workspace and adds the creator as owner.
// Only the configured root user may create workspaces.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, id string, name string, websiteURL string, logoURL string, coverURL string, timezone string, fileManager domain.FileManagerSettings) (*domain.Workspace, error) {
	user, err := s.authService.AuthenticateUserFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if user.Email != s.config.RootEmail {
		s.logger.WithField("user_email", user.Email).WithField("root_email", s.config.RootEmail).Error("Non-root user attempted to create workspace")
		return nil, &domain.ErrUnauthorized{Message: "only root user can create workspaces"}
	}

	secretKey, err := GenerateSecureKey(32)
	if err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to generate secure key")
		return nil, err
	}
	if s.config.IsDevelopment() {
		secretKey = "secret_key_for_dev_env"
	}

	workspace := &domain.Workspace{
		ID:   id,
		Name: name,
		Settings: domain.WorkspaceSettings{
			WebsiteURL:           websiteURL,
			LogoURL:              logoURL,
			CoverURL:             coverURL,
			Timezone:             timezone,
			FileManager:          fileManager,
			SecretKey:            secretKey,
			EmailTrackingEnabled: true,
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := workspace.Validate(secretKey); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to validate workspace")
		return nil, err
	}

	if existing, _ := s.repo.GetByID(ctx, id); existing != nil {
		s.logger.WithField("workspace_id", id).Error("Workspace already exists")
		return nil, fmt.Errorf("workspace already exists")
	}

	if err := s.repo.Create(ctx, workspace); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to create workspace")
		return nil, err
	}

	userWorkspace := &domain.UserWorkspace{
		UserID:      user.ID,
		WorkspaceID: id,
		Role:        "owner",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := userWorkspace.Validate(); err != nil {
		s.logger.WithField("workspace_id", id).WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to validate user workspace")
		return nil, err
	}

	if err := s.repo.AddUserToWorkspace(ctx, userWorkspace); err != nil {
		s.logger.WithField("workspace_id", id).WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to add user to workspace")
		return nil, err
	}

	if err := s.repo.CreateDatabase(ctx, id); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to provision workspace database")
		return nil, err
	}

	return workspace, nil
}

// UpdateWorkspace updates a workspace's mutable settings if the caller is an owner.
func (s *WorkspaceService) UpdateWorkspace(ctx context.Context, id string, name string, settings domain.WorkspaceSettings) (*domain.Workspace, error) {
	var user *domain.User
	var err error
	ctx, user, _, err = s.authService.AuthenticateUserForWorkspace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	userWorkspace, err := s.repo.GetUserWorkspace(ctx, user.ID, id)
	if err != nil {
		s.logger.WithField("workspace_id", id).WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to get user workspace")
		return nil, err
	}
	if userWorkspace.Role != "owner" {
		return nil, &domain.ErrUnauthorized{Message: "user is not an owner of the workspace"}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to get existing workspace")
		return nil, err
	}

	existing.Name = name
	existing.Settings.WebsiteURL = settings.WebsiteURL
	existing.Settings.LogoURL = settings.LogoURL
	existing.Settings.CoverURL = settings.CoverURL
	existing.Settings.Timezone = settings.Timezone
	existing.Settings.FileManager = settings.FileManager
	existing.Settings.EmailTrackingEnabled = settings.EmailTrackingEnabled
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(existing.Settings.SecretKey); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to validate workspace")
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to update workspace")
		return nil, err
	}

	return existing, nil
}

// DeleteWorkspace deletes a workspace and its database if the caller is an owner.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	var user *domain.User
	var err error
	ctx, user, _, err = s.authService.AuthenticateUserForWorkspace(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}

	userWorkspace, err := s.repo.GetUserWorkspace(ctx, user.ID, id)
	if err != nil {
		s.logger.WithField("workspace_id", id).WithField("user_id", user.ID).WithField("error", err.Error()).Error("Failed to get user workspace")
		return err
	}
	if userWorkspace.Role != "owner" {
		return &domain.ErrUnauthorized{Message: "user is not an owner of the workspace"}
	}

	if err := s.repo.DeleteDatabase(ctx, id); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Warn("Failed to delete workspace database")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to delete workspace")
		return err
	}

	return nil
}

// AddUserToWorkspace adds a member to a workspace if the requester is an owner.
func (s *WorkspaceService) AddUserToWorkspace(ctx context.Context, workspaceID string, userID string, role string) error {
	var user *domain.User
	var err error
	ctx, user, _, err = s.authService.AuthenticateUserForWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}

	requester, err := s.repo.GetUserWorkspace(ctx, user.ID, workspaceID)
	if err != nil {
		s.logger.WithField("workspace_id", workspaceID).WithField("user_id", userID).WithField("error", err.Error()).Error("Failed to get requester workspace")
		return err
	}
	if requester.Role != "owner" {
		return &domain.ErrUnauthorized{Message: "user is not an owner of the workspace"}
	}

	userWorkspace := &domain.UserWorkspace{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := userWorkspace.Validate(); err != nil {
		s.logger.WithField("workspace_id", workspaceID).WithField("user_id", userID).WithField("error", err.Error()).Error("Failed to validate user workspace")
		return err
	}

	return s.repo.AddUserToWorkspace(ctx, userWorkspace)
}

// RemoveUserFromWorkspace removes a member if the requester is an owner.
func (s *WorkspaceService) RemoveUserFromWorkspace(ctx context.Context, workspaceID string, userID string) error {
	var owner *domain.User
	var err error
	ctx, owner, _, err = s.authService.AuthenticateUserForWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}

	requester, err := s.repo.GetUserWorkspace(ctx, owner.ID, workspaceID)
	if err != nil {
		return err
	}
	if requester.Role != "owner" {
		return &domain.ErrUnauthorized{Message: "user is not an owner of the workspace"}
	}
	if userID == owner.ID {
		return fmt.Errorf("cannot remove yourself from the workspace")
	}

	return s.repo.RemoveUserFromWorkspace(ctx, userID, workspaceID)
}

// RemoveMember is an alias surfaced on the admin handler; owners only.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID string, userIDToRemove string) error {
	return s.RemoveUserFromWorkspace(ctx, workspaceID, userIDToRemove)
}

// TransferOwnership moves ownership of a workspace from the current owner to an existing member.
func (s *WorkspaceService) TransferOwnership(ctx context.Context, workspaceID string, newOwnerID string, currentOwnerID string) error {
	var err error
	ctx, _, _, err = s.authService.AuthenticateUserForWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}

	currentOwnerWorkspace, err := s.repo.GetUserWorkspace(ctx, currentOwnerID, workspaceID)
	if err != nil {
		return err
	}
	if currentOwnerWorkspace.Role != "owner" {
		return &domain.ErrUnauthorized{Message: "user is not an owner of the workspace"}
	}

	newOwnerWorkspace, err := s.repo.GetUserWorkspace(ctx, newOwnerID, workspaceID)
	if err != nil {
		return err
	}
	if newOwnerWorkspace.Role != "member" {
		return fmt.Errorf("new owner must be a current member of the workspace")
	}

	newOwnerWorkspace.Role = "owner"
	newOwnerWorkspace.UpdatedAt = time.Now().UTC()
	if err := s.repo.AddUserToWorkspace(ctx, newOwnerWorkspace); err != nil {
		return err
	}

	currentOwnerWorkspace.Role = "member"
	currentOwnerWorkspace.UpdatedAt = time.Now().UTC()
	return s.repo.AddUserToWorkspace(ctx, currentOwnerWorkspace)
}

// InviteMember creates an invitation for a new user, or adds an existing user directly.
func (s *WorkspaceService) InviteMember(ctx context.Context, workspaceID, email string) (*domain.WorkspaceInvitation, string, error) {
	var inviter *domain.User
	var err error
	ctx, inviter, _, err = s.authService.AuthenticateUserForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to authenticate user: %w", err)
	}

	if !govalidator.IsEmail(email) {
		return nil, "", fmt.Errorf("invalid email format")
	}

	workspace, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, "", err
	}
	if workspace == nil {
		return nil, "", fmt.Errorf("workspace not found")
	}

	isMember, err := s.repo.IsUserWorkspaceMember(ctx, inviter.ID, workspaceID)
	if err != nil {
		return nil, "", err
	}
	if !isMember {
		return nil, "", fmt.Errorf("inviter is not a member of the workspace")
	}

	if existingUser, err := s.userService.GetUserByEmail(ctx, email); err == nil && existingUser != nil {
		alreadyMember, err := s.repo.IsUserWorkspaceMember(ctx, existingUser.ID, workspaceID)
		if err != nil {
			return nil, "", err
		}
		if alreadyMember {
			return nil, "", fmt.Errorf("user is already a member of the workspace")
		}

		userWorkspace := &domain.UserWorkspace{
			UserID:      existingUser.ID,
			WorkspaceID: workspaceID,
			Role:        "member",
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := s.repo.AddUserToWorkspace(ctx, userWorkspace); err != nil {
			return nil, "", err
		}
		return nil, "", nil
	}

	invitation := &domain.WorkspaceInvitation{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		InviterID:   inviter.ID,
		Email:       email,
		ExpiresAt:   time.Now().UTC().Add(15 * 24 * time.Hour),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateInvitation(ctx, invitation); err != nil {
		s.logger.WithField("workspace_id", workspaceID).WithField("email", email).WithField("error", err.Error()).Error("Failed to create workspace invitation")
		return nil, "", err
	}

	token := s.authService.GenerateInvitationToken(invitation)

	if s.config.IsDevelopment() {
		return invitation, token, nil
	}
	return invitation, "", nil
}

// GetWorkspaceMembersWithEmail returns members and pending invitations for a workspace.
func (s *WorkspaceService) GetWorkspaceMembersWithEmail(ctx context.Context, id string) ([]*domain.UserWorkspaceWithEmail, error) {
	var user *domain.User
	var err error
	ctx, user, _, err = s.authService.AuthenticateUserForWorkspace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if _, err := s.repo.GetUserWorkspace(ctx, user.ID, id); err != nil {
		return nil, &domain.ErrUnauthorized{Message: "you do not have access to this workspace"}
	}

	members, err := s.repo.GetWorkspaceUsersWithEmail(ctx, id)
	if err != nil {
		s.logger.WithField("workspace_id", id).WithField("error", err.Error()).Error("Failed to get workspace users with email")
		return nil, err
	}

	return members, nil
}

// GenerateSecureKey returns a cryptographically random hex-encoded key.
func GenerateSecureKey(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

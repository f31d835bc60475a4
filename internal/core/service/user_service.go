package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	recentUsersLimit = 5
)

// UserService implements ports.UserService on top of the user repository.
type UserService struct {
	repo   ports.UserRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, audit: audit, logger: logger}
}

// EnsureUser resolves a verified identity to a directory record. Unseen
// subjects are provisioned with role "user"; known subjects get a last-login
// stamp. Called on every authenticated request, so both paths are idempotent
// in effect.
func (s *UserService) EnsureUser(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	user, err := s.repo.FindBySubject(ctx, identity.Subject)
	if err == nil {
		if stampErr := s.repo.UpdateLastLogin(ctx, identity.Subject, time.Now().UTC()); stampErr != nil {
			s.logger.Warn().Err(stampErr).Str("subject", identity.Subject).Msg("failed to stamp last login")
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		SubjectID:   identity.Subject,
		Email:       identity.Email,
		DisplayName: displayNameFor(identity),
		Role:        domain.RoleUser,
		Active:      true,
		LastLogin:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		// Lost a first-login race with a concurrent request; the record exists now.
		return s.repo.FindBySubject(ctx, identity.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	s.logger.Info().Str("subject", created.SubjectID).Str("email", created.Email).Msg("user provisioned")
	return created, nil
}

// displayNameFor falls back to the local part of the email when the identity
// provider supplied no name.
func displayNameFor(identity *domain.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	if at := strings.Index(identity.Email, "@"); at > 0 {
		return identity.Email[:at]
	}
	return identity.Email
}

func (s *UserService) GetProfile(ctx context.Context, subject string) (*domain.User, error) {
	return s.repo.FindBySubject(ctx, subject)
}

func (s *UserService) UpdateProfile(ctx context.Context, subject string, input ports.ProfileUpdateInput) (*domain.User, error) {
	if input.DisplayName == nil && input.Profile == nil {
		return nil, fmt.Errorf("%w: no valid updates provided", domain.ErrInvalidInput)
	}
	if input.DisplayName != nil && strings.TrimSpace(*input.DisplayName) == "" {
		return nil, fmt.Errorf("%w: display name cannot be empty", domain.ErrInvalidInput)
	}
	return s.repo.UpdateProfile(ctx, subject, input.DisplayName, input.Profile)
}

func (s *UserService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ports.ListUsersResult{
		Users: users,
		Page:  ports.NewPage(filter.Page, filter.Limit, total),
	}, nil
}

// ChangeRole sets the target's role. The acting admin may never retarget
// themselves, whatever the payload.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.User, targetSubject, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: must be user, manager, or admin", domain.ErrInvalidRole)
	}
	if targetSubject == actor.SubjectID {
		return nil, fmt.Errorf("%w: role", domain.ErrSelfModification)
	}

	updated, err := s.repo.UpdateRole(ctx, targetSubject, role)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Actor:  actor.SubjectID,
		Action: domain.AuditUserRoleChange,
		Target: targetSubject,
		Detail: role,
		At:     time.Now().UTC(),
	})
	return updated, nil
}

// ToggleStatus flips the target's active flag. Self-targeting is forbidden so
// an admin cannot lock themselves out (or keep themselves in) via this surface.
func (s *UserService) ToggleStatus(ctx context.Context, actor *domain.User, targetSubject string) (*domain.User, error) {
	if targetSubject == actor.SubjectID {
		return nil, fmt.Errorf("%w: status", domain.ErrSelfModification)
	}

	target, err := s.repo.FindBySubject(ctx, targetSubject)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetActive(ctx, targetSubject, !target.Active)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Actor:  actor.SubjectID,
		Action: domain.AuditUserStatusToggle,
		Target: targetSubject,
		Detail: fmt.Sprintf("active=%t", updated.Active),
		At:     time.Now().UTC(),
	})
	return updated, nil
}

// DeleteUser removes the directory record. Tasks created by or assigned to
// the deleted user are preserved; their subject references simply no longer
// resolve.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, targetSubject string) error {
	if targetSubject == actor.SubjectID {
		return fmt.Errorf("%w: delete", domain.ErrSelfModification)
	}

	if err := s.repo.Delete(ctx, targetSubject); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEntry{
		Actor:  actor.SubjectID,
		Action: domain.AuditUserDelete,
		Target: targetSubject,
		At:     time.Now().UTC(),
	})
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*ports.UserStatsResult, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	recent, err := s.repo.Recent(ctx, recentUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	return &ports.UserStatsResult{Stats: *stats, Recent: recent}, nil
}

// normalizePage applies the shared pagination defaults and cap.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/coderr-backend/internal/auth"
	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	in auth.NewUser,
) (*auth.UserInfo, error) {
	if !ValidType(in.Type) {
		return nil, core.InvalidField("type", "must be one of: customer business")
	}

	user := &User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: in.PasswordHash,
		Type:         in.Type,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var dup *DuplicateField
		if errors.As(err, &dup) {
			return nil, core.DuplicateError(dup.Field)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "type", user.Type)
	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID int64) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// UserType resolves an account's role; unknown ids yield ErrNotFound.
func (s *Service) UserType(ctx context.Context, id int64) (string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Type, nil
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update. Username, type and staff status
// are not editable through this path.
func (s *Service) UpdateProfile(
	ctx context.Context,
	caller authz.Caller,
	id int64,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.CanEditProfile(caller, user.ID); err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.File != nil {
		user.File = req.File
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Tel != nil {
		user.Tel = req.Tel
	}
	if req.Description != nil {
		user.Description = req.Description
	}
	if req.WorkingHours != nil {
		user.WorkingHours = req.WorkingHours
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		var dup *DuplicateField
		if errors.As(err, &dup) {
			return nil, core.DuplicateError(dup.Field)
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) ListProfiles(ctx context.Context, userType string) ([]User, error) {
	if !ValidType(userType) {
		return nil, fmt.Errorf("list profiles: type %q: %w", userType, core.ErrInvalidInput)
	}
	return s.repo.ListByType(ctx, userType)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Type:         u.Type,
		Staff:        u.IsStaff,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)

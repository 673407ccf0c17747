// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/coderr-backend/internal/core"
	"github.com/carterperez-dev/coderr-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
)

type UserInfo struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Type         string
	Staff        bool
	TokenVersion int
}

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Type         string
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(ctx context.Context, in NewUser) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	repo       Repository
	jwt        *JWTManager
	users      UserProvider
	blacklist  Blacklist
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	blacklist Blacklist,
) *Service {
	return &Service{
		repo:       repo,
		jwt:        jwt,
		users:      users,
		blacklist:  blacklist,
		refreshTTL: jwt.config.RefreshTokenExpire,
		now:        time.Now,
	}
}

type clientInfo struct {
	userAgent string
	ipAddress string
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	client clientInfo,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Type:         req.Type,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, user, client, "", nil)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	client clientInfo,
) (*AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalise timing for unknown usernames
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, rehash, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if rehash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, rehash); err != nil {
			slog.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return s.issue(ctx, user, client, "", nil)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
	client clientInfo,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if stored.IsUsed {
		if err := s.repo.RevokeByFamilyID(ctx, stored.FamilyID); err != nil {
			slog.ErrorContext(ctx, "revoke token family", "family_id", stored.FamilyID, "error", err)
		}
		slog.WarnContext(ctx, "refresh token reuse detected", "user_id", stored.UserID)
		return nil, ErrTokenReuse
	}

	now := s.now()
	if !stored.IsValid(now) {
		if stored.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issue(ctx, user, client, stored.FamilyID, &stored.ID)
}

// Logout revokes the given refresh token and blacklists the access token
// the request was made with.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if refreshToken != "" {
		stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("find token: %w", err)
		case stored.UserID != claims.UserID:
			return core.ForbiddenError("cannot revoke another user's token")
		default:
			if err := s.repo.RevokeByID(ctx, stored.ID); err != nil {
				return fmt.Errorf("revoke token: %w", err)
			}
		}
	}

	if claims.JTI != "" {
		if err := s.blacklist.Add(ctx, claims.JTI, claims.ExpiresAt.Sub(s.now())); err != nil {
			return err
		}
	}

	return nil
}

// LogoutAll revokes every refresh token and invalidates outstanding
// access tokens by bumping the token version.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}
	return nil
}

// VerifyAccessToken implements middleware.TokenVerifier.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	if claims.JTI != "" {
		revoked, err := s.blacklist.Contains(ctx, claims.JTI)
		if err != nil {
			slog.WarnContext(ctx, "blacklist lookup failed", "error", err)
		} else if revoked {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	claims.Role = user.Type
	claims.Staff = user.Staff
	return claims, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Type:     user.Type,
		IsStaff:  user.Staff,
	}, nil
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	client clientInfo,
	familyID string,
	previousID *string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Type:         user.Type,
		Staff:        user.Staff,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if familyID == "" {
		familyID = uuid.NewString()
	}

	entity := &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: core.HashToken(refresh),
		FamilyID:  familyID,
		ExpiresAt: s.now().Add(s.refreshTTL),
		UserAgent: client.userAgent,
		IPAddress: client.ipAddress,
	}

	if previousID != nil {
		if err := s.repo.MarkAsUsed(ctx, *previousID, entity.ID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, ErrTokenReuse
			}
			return nil, fmt.Errorf("rotate refresh token: %w", err)
		}
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.jwt.AccessTokenTTL().Seconds()),
		Username:     user.Username,
		Email:        user.Email,
		UserID:       user.ID,
		Type:         user.Type,
	}, nil
}

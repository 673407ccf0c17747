// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
)

const duplicateMessage = "you have already reviewed this business profile"

// UserLookup resolves an account's role.
type UserLookup interface {
	UserType(ctx context.Context, id int64) (string, error)
}

type Service struct {
	repo  Repository
	users UserLookup
}

func NewService(repo Repository, users UserLookup) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) Create(
	ctx context.Context,
	caller authz.Caller,
	req CreateReviewRequest,
) (*Review, error) {
	if err := authz.CanCreateReview(caller); err != nil {
		return nil, err
	}
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	userType, err := s.users.UserType(ctx, req.BusinessUser)
	if err != nil {
		return nil, err
	}
	if userType != authz.RoleBusiness {
		return nil, core.InvalidField("business_user", "must reference a business user")
	}

	exists, err := s.repo.Exists(ctx, caller.UserID, req.BusinessUser)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ConflictError(duplicateMessage)
	}

	rev := &Review{
		BusinessUserID: req.BusinessUser,
		ReviewerID:     caller.UserID,
		Rating:         req.Rating,
		Description:    strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		// a concurrent create can pass the pre-check
		if errors.Is(err, ErrDuplicateReview) {
			return nil, core.ConflictError(duplicateMessage)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "review created",
		"review_id", rev.ID,
		"business_user_id", rev.BusinessUserID,
		"reviewer_id", rev.ReviewerID,
	)
	return rev, nil
}

// Update changes rating and description only.
func (s *Service) Update(
	ctx context.Context,
	caller authz.Caller,
	id int64,
	req UpdateReviewRequest,
) (*Review, error) {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanModifyReview(caller, rev.ReviewerID); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if err := checkRating(*req.Rating); err != nil {
			return nil, err
		}
		rev.Rating = *req.Rating
	}
	if req.Description != nil {
		rev.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *Service) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanModifyReview(caller, rev.ReviewerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Review, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// Summarize reports a business's review count and its average rating
// rounded to one decimal. A business with no reviews averages 0.
func (s *Service) Summarize(ctx context.Context, businessUserID int64) (*SummaryResponse, error) {
	if _, err := s.users.UserType(ctx, businessUserID); err != nil {
		return nil, err
	}

	sum, err := s.repo.Summary(ctx, businessUserID)
	if err != nil {
		return nil, err
	}

	avg := 0.0
	if sum.Count > 0 {
		avg = RoundRating(sum.Average)
	}
	return &SummaryResponse{
		BusinessUserID: businessUserID,
		ReviewCount:    sum.Count,
		AverageRating:  avg,
	}, nil
}

func checkRating(r int) error {
	if r < MinRating || r > MaxRating {
		return core.InvalidField("rating", "must be between 1 and 5")
	}
	return nil
}

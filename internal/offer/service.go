// AngelaMos | 2026
// service.go

package offer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores an offer with its three tiers and the derived
// aggregates in one transaction.
func (s *Service) Create(
	ctx context.Context,
	caller authz.Caller,
	req CreateOfferRequest,
) (*Offer, error) {
	if err := authz.CanCreateOffer(caller); err != nil {
		return nil, err
	}
	if err := ValidateCreate(req); err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "offer.create")
	defer span.End()

	offer := &Offer{
		UserID:      caller.UserID,
		Title:       strings.TrimSpace(req.Title),
		Image:       req.Image,
		Description: req.Description,
		Details:     BuildDetails(req.Details),
	}
	ApplyAggregates(offer)

	err := s.repo.InTx(ctx, func(st Store) error {
		if err := st.Create(ctx, offer); err != nil {
			return err
		}
		for i := range offer.Details {
			offer.Details[i].OfferID = offer.ID
			if err := st.CreateDetail(ctx, &offer.Details[i]); err != nil {
				return err
			}
		}
		if err := st.UpdateOffer(ctx, offer); err != nil {
			return err
		}

		stored, err := st.GetByID(ctx, offer.ID)
		if err != nil {
			return err
		}
		offer = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "offer created", "offer_id", offer.ID, "user_id", caller.UserID)
	return offer, nil
}

// Update applies a partial update. Detail patches are matched to the
// existing rows by offer_type and the aggregates are recomputed before
// commit.
func (s *Service) Update(
	ctx context.Context,
	caller authz.Caller,
	id int64,
	req UpdateOfferRequest,
) (*Offer, error) {
	ctx, span := core.StartSpan(ctx, "offer.update")
	defer span.End()

	var offer *Offer
	err := s.repo.InTx(ctx, func(st Store) error {
		current, err := st.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authz.CanModifyOffer(caller, current.UserID); err != nil {
			return err
		}
		if err := ValidateUpdate(req); err != nil {
			return err
		}

		updated, created, err := MergeDetails(current.Details, req.Details)
		if err != nil {
			return err
		}

		all := make([]Detail, 0, len(current.Details)+len(created))
		all = append(all, current.Details...)
		for _, d := range updated {
			for i := range all {
				if all[i].ID == d.ID {
					all[i] = d
				}
			}
		}
		all = append(all, created...)
		if err := CheckTierSet(all); err != nil {
			return err
		}

		for i := range updated {
			if err := st.UpdateDetail(ctx, &updated[i]); err != nil {
				return err
			}
		}
		for i := range created {
			created[i].OfferID = current.ID
			if err := st.CreateDetail(ctx, &created[i]); err != nil {
				return err
			}
		}

		if req.Title != nil {
			current.Title = strings.TrimSpace(*req.Title)
		}
		if req.Image != nil {
			current.Image = req.Image
		}
		if req.Description != nil {
			current.Description = *req.Description
		}
		current.Details = all
		ApplyAggregates(current)

		if err := st.UpdateOffer(ctx, current); err != nil {
			return err
		}

		offer, err = st.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return offer, nil
}

func (s *Service) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	err := s.repo.InTx(ctx, func(st Store) error {
		current, err := st.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authz.CanModifyOffer(caller, current.UserID); err != nil {
			return err
		}
		return st.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "offer deleted", "offer_id", id, "user_id", caller.UserID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Offer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Offer, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// AngelaMos | 2026
// service_test.go

package review

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type fakeRepo struct {
	reviews  map[int64]Review
	nextID   int64
	skipScan bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reviews: make(map[int64]Review)}
}

func (f *fakeRepo) Create(_ context.Context, r *Review) error {
	for _, existing := range f.reviews {
		if existing.ReviewerID == r.ReviewerID && existing.BusinessUserID == r.BusinessUserID {
			return ErrDuplicateReview
		}
	}
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.reviews[r.ID] = *r
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &r, nil
}

// Exists can be told to miss, simulating a create racing the pre-check.
func (f *fakeRepo) Exists(_ context.Context, reviewerID, businessUserID int64) (bool, error) {
	if f.skipScan {
		return false, nil
	}
	for _, r := range f.reviews {
		if r.ReviewerID == reviewerID && r.BusinessUserID == businessUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Update(_ context.Context, r *Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return core.ErrNotFound
	}
	r.UpdatedAt = time.Now().Add(time.Second)
	f.reviews[r.ID] = *r
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.reviews[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Review, error) {
	out := []Review{}
	for _, r := range f.reviews {
		if params.BusinessUserID != nil && r.BusinessUserID != *params.BusinessUserID {
			continue
		}
		if params.ReviewerID != nil && r.ReviewerID != *params.ReviewerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) Summary(_ context.Context, businessUserID int64) (Summary, error) {
	var s Summary
	total := 0
	for _, r := range f.reviews {
		if r.BusinessUserID == businessUserID {
			s.Count++
			total += r.Rating
		}
	}
	if s.Count > 0 {
		s.Average = float64(total) / float64(s.Count)
	}
	return s, nil
}

type fakeUsers map[int64]string

func (u fakeUsers) UserType(_ context.Context, id int64) (string, error) {
	t, ok := u[id]
	if !ok {
		return "", core.ErrNotFound
	}
	return t, nil
}

var (
	alice    = authz.Caller{UserID: 1, Role: authz.RoleCustomer}
	bob      = authz.Caller{UserID: 3, Role: authz.RoleCustomer}
	biz      = authz.Caller{UserID: 2, Role: authz.RoleBusiness}
	admin    = authz.Caller{UserID: 9, Role: authz.RoleCustomer, Staff: true}
	accounts = fakeUsers{1: authz.RoleCustomer, 2: authz.RoleBusiness, 3: authz.RoleCustomer, 4: authz.RoleBusiness}
)

func createReview(t *testing.T, svc *Service, c authz.Caller, business int64, rating int) *Review {
	t.Helper()
	r, err := svc.Create(context.Background(), c, CreateReviewRequest{
		BusinessUser: business,
		Rating:       rating,
		Description:  "Alles war toll!",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return r
}

func isConflict(err error) bool {
	var appErr *core.AppError
	return errors.As(err, &appErr) && appErr.StatusCode == http.StatusConflict
}

func TestSecondReviewConflicts(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, accounts)
	first := createReview(t, svc, alice, 2, 4)

	_, err := svc.Create(context.Background(), alice, CreateReviewRequest{BusinessUser: 2, Rating: 1})
	if !isConflict(err) {
		t.Fatalf("got %v, want conflict", err)
	}
	if errors.Is(err, core.ErrInvalidInput) {
		t.Error("conflict must not be reported as a validation error")
	}
	if got := repo.reviews[first.ID]; got.Rating != 4 {
		t.Errorf("original review changed: rating = %d", got.Rating)
	}
}

func TestConcurrentDuplicateStillConflicts(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, accounts)
	createReview(t, svc, alice, 2, 4)

	repo.skipScan = true
	_, err := svc.Create(context.Background(), alice, CreateReviewRequest{BusinessUser: 2, Rating: 5})
	if !isConflict(err) {
		t.Fatalf("got %v, want conflict from store constraint", err)
	}
	if len(repo.reviews) != 1 {
		t.Errorf("%d reviews stored, want 1", len(repo.reviews))
	}
}

func TestCreateReviewRules(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), accounts)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller authz.Caller
		req    CreateReviewRequest
		want   error
	}{
		{"business reviewer", biz, CreateReviewRequest{BusinessUser: 4, Rating: 3}, core.ErrForbidden},
		{"anonymous", authz.Anonymous(), CreateReviewRequest{BusinessUser: 2, Rating: 3}, core.ErrUnauthorized},
		{"rating zero", alice, CreateReviewRequest{BusinessUser: 2, Rating: 0}, core.ErrInvalidInput},
		{"rating six", alice, CreateReviewRequest{BusinessUser: 2, Rating: 6}, core.ErrInvalidInput},
		{"unknown business", alice, CreateReviewRequest{BusinessUser: 404, Rating: 3}, core.ErrNotFound},
		{"target is customer", alice, CreateReviewRequest{BusinessUser: 3, Rating: 3}, core.ErrInvalidInput},
	}

	for _, tt := range tests {
		if _, err := svc.Create(ctx, tt.caller, tt.req); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestUpdateReview(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), accounts)
	ctx := context.Background()
	rev := createReview(t, svc, alice, 2, 4)
	rating := 2
	desc := "Doch nicht so gut"

	if _, err := svc.Update(ctx, bob, rev.ID, UpdateReviewRequest{Rating: &rating}); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("other customer: got %v, want forbidden", err)
	}

	got, err := svc.Update(ctx, alice, rev.ID, UpdateReviewRequest{Rating: &rating, Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Rating != 2 || got.Description != desc {
		t.Errorf("review = %+v", got)
	}
	if !got.UpdatedAt.After(rev.UpdatedAt) {
		t.Error("updated_at not bumped")
	}
	if got.BusinessUserID != 2 || got.ReviewerID != alice.UserID {
		t.Error("identity fields changed")
	}

	bad := 7
	if _, err := svc.Update(ctx, alice, rev.ID, UpdateReviewRequest{Rating: &bad}); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("rating 7: got %v, want invalid input", err)
	}
}

func TestDeleteReview(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), accounts)
	ctx := context.Background()
	rev := createReview(t, svc, alice, 2, 4)

	if err := svc.Delete(ctx, bob, rev.ID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("other customer: got %v, want forbidden", err)
	}
	if err := svc.Delete(ctx, admin, rev.ID); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
	if _, err := svc.Get(ctx, rev.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("review still present: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), accounts)
	ctx := context.Background()

	empty, err := svc.Summarize(ctx, 2)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if empty.ReviewCount != 0 || empty.AverageRating != 0 {
		t.Errorf("empty summary = %+v", empty)
	}

	createReview(t, svc, alice, 2, 5)
	createReview(t, svc, bob, 2, 4)
	createReview(t, svc, alice, 4, 1)

	got, err := svc.Summarize(ctx, 2)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.ReviewCount != 2 || got.AverageRating != 4.5 {
		t.Errorf("summary = %+v, want 2 reviews averaging 4.5", got)
	}

	if _, err := svc.Summarize(ctx, 404); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown user: got %v, want not found", err)
	}
}

func TestRoundRating(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct{ in, want float64 }{
		{0, 0},
		{4.0, 4.0},
		{4.25, 4.3},
		{3.333333, 3.3},
		{4.66666, 4.7},
	} {
		if got := RoundRating(tt.in); got != tt.want {
			t.Errorf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestListFiltersAndOrdering(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), accounts)
	createReview(t, svc, alice, 2, 5)
	createReview(t, svc, alice, 4, 3)

	p := ParseListParams(map[string][]string{
		"business_user_id": {"4"},
		"reviewer_id":      {"undefined"},
		"ordering":         {"title"},
	})
	got, err := svc.List(context.Background(), p)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].BusinessUserID != 4 {
		t.Errorf("filtered = %+v", got)
	}

	p.Normalize()
	if p.Ordering != defaultOrdering || p.ReviewerID != nil {
		t.Errorf("params = %+v", p)
	}
}

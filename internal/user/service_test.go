// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coderr-backend/internal/auth"
	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
	"github.com/carterperez-dev/coderr-backend/internal/middleware"
)

type fakeRepo struct {
	users  map[int64]User
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]User)}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return &DuplicateField{Field: "username"}
		}
		if existing.Email == u.Email {
			return &DuplicateField{Field: "email"}
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdateProfile(_ context.Context, u *User) error {
	for id, existing := range f.users {
		if id != u.ID && existing.Email == u.Email {
			return &DuplicateField{Field: "email"}
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	f.users[id] = u
	return nil
}

func (f *fakeRepo) ListByType(_ context.Context, userType string) ([]User, error) {
	out := []User{}
	for _, u := range f.users {
		if u.Type == userType {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func register(t *testing.T, svc *Service, username, userType string) *auth.UserInfo {
	t.Helper()
	u, err := svc.Create(context.Background(), auth.NewUser{
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: "hash",
		Type:         userType,
	})
	if err != nil {
		t.Fatalf("Create %s: %v", username, err)
	}
	return u
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := svc.Create(ctx, auth.NewUser{
		Username: "  andrey ",
		Email:    "Andrey@Example.TEST",
		Type:     TypeBusiness,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "andrey" || u.Email != "andrey@example.test" {
		t.Errorf("user = %+v", u)
	}

	_, err = svc.Create(ctx, auth.NewUser{Username: "andrey", Email: "x@example.test", Type: TypeCustomer})
	var appErr *core.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != http.StatusConflict {
		t.Errorf("duplicate username: got %v", err)
	}

	_, err = svc.Create(ctx, auth.NewUser{Username: "admin", Email: "a@example.test", Type: "admin"})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("bad type: got %v", err)
	}
}

func TestUpdateProfileOwnership(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())
	ctx := context.Background()
	owner := register(t, svc, "biz", TypeBusiness)
	other := register(t, svc, "cust", TypeCustomer)

	loc := "Berlin"
	req := UpdateProfileRequest{Location: &loc}

	_, err := svc.UpdateProfile(ctx, authz.Caller{UserID: other.ID, Role: TypeCustomer}, owner.ID, req)
	if !errors.Is(err, core.ErrForbidden) {
		t.Errorf("other user: got %v, want forbidden", err)
	}

	got, err := svc.UpdateProfile(ctx, authz.Caller{UserID: owner.ID, Role: TypeBusiness}, owner.ID, req)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if got.Location == nil || *got.Location != "Berlin" || got.Type != TypeBusiness {
		t.Errorf("profile = %+v", got)
	}

	staff := authz.Caller{UserID: 99, Role: TypeCustomer, Staff: true}
	if _, err := svc.UpdateProfile(ctx, staff, owner.ID, req); err != nil {
		t.Errorf("staff update: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, staff, 404, req); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown profile: got %v, want not found", err)
	}
}

func TestProfilePlaceholders(t *testing.T) {
	t.Parallel()

	empty := ""
	u := &User{ID: 1, Username: "max", Type: TypeBusiness, Tel: &empty}
	p := ToProfileResponse(u)

	if p.File != NoFile || p.Location != NoAddress || p.Description != NoDescription {
		t.Errorf("placeholders = %+v", p)
	}
	if p.WorkingHours != NoWorkingHours {
		t.Errorf("working hours = %q", p.WorkingHours)
	}
	if p.Tel != "" {
		t.Errorf("explicit empty tel replaced with %q", p.Tel)
	}
}

func TestListProfiles(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())
	register(t, svc, "b1", TypeBusiness)
	register(t, svc, "c1", TypeCustomer)
	register(t, svc, "b2", TypeBusiness)

	got, err := svc.ListProfiles(context.Background(), TypeBusiness)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("%d business profiles, want 2", len(got))
	}

	out := ToCustomerProfiles([]User{{ID: 3, Username: "c1", Type: TypeCustomer}})
	if out[0].File != NoFile {
		t.Errorf("customer file = %q", out[0].File)
	}
}

func asCaller(c authz.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &middleware.AccessTokenClaims{UserID: c.UserID, Role: c.Role, Staff: c.Staff}
			next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(), claims)))
		})
	}
}

func TestProfileHandler(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())
	owner := register(t, svc, "biz", TypeBusiness)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, asCaller(authz.Caller{UserID: owner.ID, Role: TypeBusiness}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var body struct {
		Data ProfileResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Location != NoAddress || body.Data.Type != TypeBusiness {
		t.Errorf("profile = %+v", body.Data)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/profile/1",
		strings.NewReader(`{"email":"not-an-email"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad email status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/abc", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

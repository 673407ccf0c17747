// AngelaMos | 2026
// stats_test.go

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakeReader struct {
	counts Counts
	err    error
}

func (f fakeReader) Counts(context.Context) (Counts, error) {
	return f.counts, f.err
}

func TestBaseInfoEmptyStore(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	NewHandler(NewService(fakeReader{})).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/base-info", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Data map[string]json.Number `json:"data"`
	}
	dec := json.NewDecoder(rec.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, key := range []string{"review_count", "average_rating", "business_profile_count", "offer_count"} {
		v, ok := body.Data[key]
		if !ok {
			t.Errorf("missing %s", key)
			continue
		}
		if v.String() != "0" {
			t.Errorf("%s = %s, want 0", key, v)
		}
	}
}

func TestBaseInfoRounding(t *testing.T) {
	t.Parallel()

	svc := NewService(fakeReader{counts: Counts{
		ReviewCount:          3,
		AverageRating:        13.0 / 3.0,
		BusinessProfileCount: 2,
		OfferCount:           5,
	}})

	got, err := svc.BaseInfo(context.Background())
	if err != nil {
		t.Fatalf("BaseInfo: %v", err)
	}
	if got.AverageRating != 4.3 {
		t.Errorf("average_rating = %v, want 4.3", got.AverageRating)
	}
	if got.ReviewCount != 3 || got.BusinessProfileCount != 2 || got.OfferCount != 5 {
		t.Errorf("counts = %+v", got)
	}
}

func TestBaseInfoError(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	NewHandler(NewService(fakeReader{err: errors.New("db down")})).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/base-info", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

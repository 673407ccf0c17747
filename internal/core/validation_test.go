// AngelaMos | 2026
// validation_test.go

package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type tierPayload struct {
	Price *int `json:"price" validate:"required,gte=0"`
}

type offerPayload struct {
	Title   string        `json:"title"   validate:"required,max=10"`
	Email   string        `json:"email"   validate:"omitempty,email"`
	Details []tierPayload `json:"details" validate:"dive"`
}

func TestFromValidatorUsesJSONPaths(t *testing.T) {
	t.Parallel()

	neg := -1
	err := NewValidator().Struct(offerPayload{
		Title:   "",
		Email:   "nope",
		Details: []tierPayload{{Price: &neg}, {}},
	})
	if err == nil {
		t.Fatal("invalid payload accepted")
	}

	var verr *ValidationError
	if !errors.As(FromValidator(err), &verr) {
		t.Fatalf("FromValidator returned %T", FromValidator(err))
	}

	want := map[string]string{
		"title":            "this field is required",
		"email":            "enter a valid email address",
		"details[0].price": "must be greater than or equal to 0",
		"details[1].price": "this field is required",
	}
	for field, msg := range want {
		if verr.Fields[field] != msg {
			t.Errorf("%s = %q, want %q", field, verr.Fields[field], msg)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst offerPayload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Grafik"}`))
	if err := DecodeJSON(req, &dst); err != nil || dst.Title != "Grafik" {
		t.Fatalf("DecodeJSON = %v, %+v", err, dst)
	}

	for _, body := range []string{"", "{", `{"title":5}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if err := DecodeJSON(req, &dst); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("body %q: got %v, want invalid input", body, err)
		}
	}
}

// AngelaMos | 2026
// types_test.go

package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalsTwoDecimals(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct{ in, want string }{
		{"100", "100.00"},
		{"49.5", "49.50"},
		{"0", "0.00"},
		{"1234.56", "1234.56"},
	} {
		b, err := json.Marshal(Money(decimal.RequireFromString(tt.in)))
		if err != nil {
			t.Fatalf("marshal %s: %v", tt.in, err)
		}
		if string(b) != tt.want {
			t.Errorf("Money(%s) = %s, want %s", tt.in, b, tt.want)
		}
	}
}

func TestMoneyPtr(t *testing.T) {
	t.Parallel()

	if MoneyPtr(decimal.NullDecimal{}) != nil {
		t.Error("null decimal produced a value")
	}

	got := MoneyPtr(decimal.NewNullDecimal(decimal.RequireFromString("50")))
	b, err := json.Marshal(struct {
		Min *Money `json:"min_price"`
	}{got})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"min_price":50.00}` {
		t.Errorf("json = %s", b)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := StringList{"Logo Design", "Flyer"}.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var got StringList
	if err := got.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 2 || got[0] != "Logo Design" || got[1] != "Flyer" {
		t.Errorf("round trip = %v", got)
	}
}

func TestStringListEmptyForms(t *testing.T) {
	t.Parallel()

	v, err := StringList(nil).Value()
	if err != nil || v != "[]" {
		t.Errorf("nil Value = %v, %v", v, err)
	}

	var l StringList
	if err := l.Scan(nil); err != nil || l == nil || len(l) != 0 {
		t.Errorf("Scan(nil) = %v, %v", l, err)
	}
	if err := l.Scan("null"); err != nil || l == nil {
		t.Errorf("Scan(null) = %v, %v", l, err)
	}
	if err := l.Scan(42); err == nil {
		t.Error("Scan(int) succeeded")
	}
}

func TestStringListClone(t *testing.T) {
	t.Parallel()

	orig := StringList{"a", "b"}
	c := orig.Clone()
	c[0] = "z"
	if orig[0] != "a" {
		t.Error("clone shares backing array")
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	if got := EscapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("EscapeLike = %q", got)
	}
}

func TestSchemaStatements(t *testing.T) {
	t.Parallel()

	stmts := SchemaStatements()
	if len(stmts) == 0 {
		t.Fatal("no statements")
	}

	var tables []string
	for _, s := range stmts {
		if !strings.HasPrefix(s, "CREATE") {
			t.Errorf("unexpected statement: %.40q", s)
		}
		if strings.Contains(s, "--") {
			t.Errorf("comment left in statement: %.40q", s)
		}
		if name, ok := strings.CutPrefix(s, "CREATE TABLE IF NOT EXISTS "); ok {
			tables = append(tables, strings.Fields(name)[0])
		}
	}

	want := []string{"users", "refresh_tokens", "offers", "offer_details", "orders", "reviews"}
	if strings.Join(tables, ",") != strings.Join(want, ",") {
		t.Errorf("tables = %v, want %v", tables, want)
	}
}

// AngelaMos | 2026
// testdb.go

// Package testdb opens the integration database for repository tests.
package testdb

import (
	"context"
	"os"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

const envURL = "TEST_DATABASE_URL"

var (
	once    sync.Once
	shared  *sqlx.DB
	openErr error
)

// Tx returns a transaction against TEST_DATABASE_URL that is rolled back
// when the test ends. The test is skipped when the variable is unset.
func Tx(t *testing.T) *sqlx.Tx {
	t.Helper()

	url := os.Getenv(envURL)
	if url == "" {
		t.Skip(envURL + " not set")
	}

	once.Do(func() {
		shared, openErr = sqlx.Connect("pgx", url)
		if openErr == nil {
			openErr = core.Migrate(context.Background(), shared)
		}
	})
	if openErr != nil {
		t.Fatalf("open test database: %v", openErr)
	}

	tx, err := shared.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	t.Cleanup(func() {
		_ = tx.Rollback() //nolint:errcheck // rollback discards test writes
	})

	return tx
}

// User inserts a user row and returns its id.
func User(t *testing.T, tx *sqlx.Tx, username, userType string) int64 {
	t.Helper()

	var id int64
	err := tx.Get(&id, `
		INSERT INTO users (username, email, password_hash, type, first_name, last_name)
		VALUES ($1, $2, 'x', $3, 'Test', 'User')
		RETURNING id`, username, username+"@example.test", userType)
	if err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
	return id
}

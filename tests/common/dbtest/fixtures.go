//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123", shared by every fixture user.
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db Conn, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, name, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, "Test "+role, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

// CreateTestTour inserts a scheduled public tour three days out with the given
// capacity and price.
func CreateTestTour(t *testing.T, db Conn, guideID uuid.UUID, title string, capacity int32, priceCents int64) uuid.UUID {
	t.Helper()

	tourID := uuid.New()
	ctx := context.Background()
	startsAt := time.Now().UTC().Add(72 * time.Hour)

	_, err := db.Exec(ctx,
		`INSERT INTO tours (id, guide_id, title, capacity, price_cents, currency, starts_at, ends_at, status, kind, booking_deadline_hours)
		 VALUES ($1, $2, $3, $4, $5, 'USD', $6, $7, 'scheduled', 'public', 24)`,
		tourID, guideID, title, capacity, priceCents, startsAt, startsAt.Add(4*time.Hour))
	require.NoError(t, err)

	return tourID
}

func CreateTestAddOn(t *testing.T, db Conn, tourID uuid.UUID, name string, priceCents int64, pricingMode string) uuid.UUID {
	t.Helper()

	addOnID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO tour_add_ons (id, tour_id, name, price_cents, pricing_mode, active, position, kind_tag)
		 VALUES ($1, $2, $3, $4, $5, true, 0, '')`,
		addOnID, tourID, name, priceCents, pricingMode)
	require.NoError(t, err)

	return addOnID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})

	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}
	return nil
}

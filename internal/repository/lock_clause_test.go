package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// These tests open GORM in dry-run mode, so the generated SQL can be inspected
// without a live database. The locked reads must emit FOR UPDATE; a plain read
// must not. Catches a regression where the locking clause is dropped and every
// capacity check silently runs unlocked.

func newDryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=dryrun sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var captured string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	require.NoError(t, err)

	return db, &captured
}

func TestEventFindByIDForUpdate_EmitsRowLock(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewEventRepository(db)

	_, err := repo.FindByIDForUpdate(context.Background(), db, 1)

	assert.NoError(t, err)
	assert.Contains(t, *captured, "FOR UPDATE")
}

func TestEventFindByID_PlainRead(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewEventRepository(db)

	_, err := repo.FindByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotContains(t, *captured, "FOR UPDATE")
}

func TestReservationFindByIDForUpdate_EmitsRowLock(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewReservationRepository(db)

	_, err := repo.FindByIDForUpdate(context.Background(), db, 1)

	assert.NoError(t, err)
	assert.Contains(t, *captured, "FOR UPDATE")
}

package sqlc

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "seminar-reminder/internal/db"
	db "seminar-reminder/internal/db/sqlc"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/repositories"
)

// openLedger connects to TEST_DATABASE_URL. Each call opens a fresh pool so a
// second call behaves like a restarted process.
func openLedger(t *testing.T) (*SeminarLedger, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := dbpkg.NewPool(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, dbpkg.EnsureSchema(ctx, pool, "."))
	return NewSeminarLedger(db.New(pool)), pool
}

func testRecord() model.NotificationRecord {
	id := "https://example.org/s/" + uuid.NewString()
	return model.NotificationRecord{
		SeminarID:  id,
		SeminarURL: id,
		Title:      "Seminarie: Test",
		NotifiedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRecordIfAbsentAcrossRestart(t *testing.T) {
	ctx := context.Background()
	rec := testRecord()

	first, pool := openLedger(t)
	exists, err := first.Exists(ctx, rec.SeminarID)
	require.NoError(t, err)
	assert.False(t, exists)

	created, err := first.RecordIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = first.RecordIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)
	pool.Close()

	restarted, pool2 := openLedger(t)
	defer pool2.Close()

	created, err = restarted.RecordIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created, "record must survive a new connection pool")

	exists, err = restarted.Exists(ctx, rec.SeminarID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRecordIfAbsentConcurrent(t *testing.T) {
	ledger, pool := openLedger(t)
	defer pool.Close()

	rec := testRecord()
	var inserted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := ledger.RecordIfAbsent(context.Background(), rec)
			assert.NoError(t, err)
			if created {
				inserted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inserted.Load())
}

func TestListAndCount(t *testing.T) {
	ledger, pool := openLedger(t)
	defer pool.Close()
	ctx := context.Background()

	before, err := ledger.Count(ctx)
	require.NoError(t, err)

	rec := testRecord()
	_, err = ledger.RecordIfAbsent(ctx, rec)
	require.NoError(t, err)

	after, err := ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	records, err := ledger.List(ctx)
	require.NoError(t, err)
	var found *model.NotificationRecord
	for i := range records {
		if records[i].SeminarID == rec.SeminarID {
			found = &records[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, rec.Title, found.Title)
	assert.True(t, rec.NotifiedAt.Equal(found.NotifiedAt))
}

func TestState(t *testing.T) {
	ledger, pool := openLedger(t)
	defer pool.Close()
	ctx := context.Background()

	key := "test_" + uuid.NewString()
	_, err := ledger.GetState(ctx, key)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, ledger.SetState(ctx, key, "111"))
	require.NoError(t, ledger.SetState(ctx, key, "222"))

	value, err := ledger.GetState(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "222", value)
}

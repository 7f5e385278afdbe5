package services

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
	})
	return db, mock
}

func idRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

// expectLedgerApply queues the statements of one Ledger.apply call.
func expectLedgerApply(mock sqlmock.Sqlmock, userID uint, balance, delta int, action string) {
	mock.ExpectQuery(`SELECT "id","points" FROM "users" WHERE id = \$1 (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points"}).AddRow(userID, balance))
	mock.ExpectExec(`UPDATE "users" SET "points"=points \+ \$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(delta, sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "point_history"`).
		WithArgs(userID, action, delta, sqlmock.AnyArg()).
		WillReturnRows(idRows(99))
}

type sentNotice struct {
	from, to uint
	text     string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, from, to uint, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotice{from: from, to: to, text: text})
	return f.err
}

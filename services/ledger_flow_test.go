package services

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/date-course/api-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointBook plays the users.points column and the point_history table. It
// is fed only from the arguments the services actually send.
type pointBook struct {
	balance map[uint]int
	entries map[uint][]int
}

func newPointBook() *pointBook {
	return &pointBook{balance: map[uint]int{}, entries: map[uint][]int{}}
}

func (b *pointBook) sum(userID uint) int {
	total := 0
	for _, p := range b.entries[userID] {
		total += p
	}
	return total
}

type intArg func(n int)

func (f intArg) Match(v driver.Value) bool {
	n, ok := v.(int64)
	if ok {
		f(int(n))
	}
	return ok
}

// expectBookedApply queues one Ledger.apply against the book's current
// balance and records whatever delta the code writes.
func (b *pointBook) expectBookedApply(mock sqlmock.Sqlmock, userID uint, action string) {
	mock.ExpectQuery(`SELECT "id","points" FROM "users" WHERE id = \$1 (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points"}).AddRow(userID, b.balance[userID]))
	mock.ExpectExec(`UPDATE "users" SET "points"=points \+ \$1`).
		WithArgs(intArg(func(n int) { b.balance[userID] += n }), sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "point_history"`).
		WithArgs(userID, action, intArg(func(n int) { b.entries[userID] = append(b.entries[userID], n) }), sqlmock.AnyArg()).
		WillReturnRows(idRows(int64(len(b.entries[userID]) + 1)))
}

func TestBalanceMatchesLedgerAcrossFlow(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedger(db, nil)
	moderation := NewModerationService(db, ledger, &fakeNotifier{}, nil)
	collections := NewCollectionService(db, ledger, nil)
	shop := NewShopService(db, ledger)
	ctx := context.Background()
	book := newPointBook()

	const submitter, fan uint = 4, 1

	// approval of place 7 submitted by user 4
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "places" SET "is_approved"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "places" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "place_name", "is_approved"}).
			AddRow(7, submitter, "카페 A", true))
	book.expectBookedApply(mock, submitter, types.PlaceApprovalRewardAction)
	mock.ExpectCommit()
	_, err := moderation.ApprovePlace(ctx, 7)
	require.NoError(t, err)

	// user 1 favorites it
	expectCollection(mock, 2, fan, "데이트")
	mock.ExpectQuery(`INSERT INTO "collection_places"`).WillReturnRows(idRows(50))
	expectPlaceOwner(mock, 7, submitter)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "collection_places" SET "reward_status"`).WillReturnResult(sqlmock.NewResult(0, 1))
	book.expectBookedApply(mock, submitter, types.FavoriteRewardAction)
	mock.ExpectCommit()
	_, err = collections.AddPlace(ctx, Actor{UserID: fan}, 2, 7)
	require.NoError(t, err)

	// user 4 spends some of it
	mock.ExpectBegin()
	expectShopItem(mock, 3, "커피 쿠폰", 40)
	book.expectBookedApply(mock, submitter, types.PurchaseAction+": 커피 쿠폰")
	mock.ExpectQuery(`INSERT INTO "shop_purchases"`).WillReturnRows(idRows(11))
	mock.ExpectCommit()
	_, err = shop.Purchase(ctx, Actor{UserID: submitter}, submitter, 3)
	require.NoError(t, err)

	// an overdraft leaves both sides untouched
	mock.ExpectBegin()
	expectShopItem(mock, 5, "향수", 100)
	mock.ExpectQuery(`SELECT "id","points" FROM "users" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points"}).AddRow(submitter, book.balance[submitter]))
	mock.ExpectRollback()
	_, err = shop.Purchase(ctx, Actor{UserID: submitter}, submitter, 5)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	mock.ExpectQuery(`SELECT "id","points" FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points"}).AddRow(submitter, book.balance[submitter]))
	balance, err := ledger.Balance(ctx, submitter)
	require.NoError(t, err)

	assert.Equal(t, []int{types.PLACE_APPROVAL_REWARD_POINTS, types.FAVORITE_REWARD_POINTS, -40}, book.entries[submitter])
	assert.Equal(t, book.sum(submitter), balance)
	assert.Equal(t, types.PLACE_APPROVAL_REWARD_POINTS+types.FAVORITE_REWARD_POINTS-40, balance)
	assert.Equal(t, book.sum(fan), book.balance[fan])
	assert.Empty(t, book.entries[fan])
}

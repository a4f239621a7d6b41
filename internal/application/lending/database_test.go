package lending_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/lock"
	"github.com/xiebiao/library/internal/infrastructure/persistence"
)

// 借书、预约、还书、兑现在gorm事务(sqlite)上走通一遍
func TestLendingFlow_Database(t *testing.T) {
	ctx := context.Background()
	repos, err := persistence.New(&config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Storage:  config.StorageConfig{Backend: config.BackendDatabase},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	now := time.Date(2024, 3, 10, 10, 30, 0, 0, time.Local)
	svc := lending.NewService(
		repos.Books, repos.Members, repos.Loans, repos.Reservations, repos.Tx, lock.NewLocal(),
		lending.WithClock(func() time.Time { return now }),
	)

	b, err := catalog.NewBook("Dune", 1, 1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, repos.Books.Create(ctx, b))
	ann := member.NewMember("Ann", "ann@example.com", "")
	bob := member.NewMember("Bob", "bob@example.com", "")
	require.NoError(t, repos.Members.Create(ctx, ann))
	require.NoError(t, repos.Members.Create(ctx, bob))

	first, err := svc.BorrowBook(ctx, ann.ID, b.ID)
	require.NoError(t, err)
	require.False(t, first.Reserved())

	second, err := svc.BorrowBook(ctx, bob.ID, b.ID)
	require.NoError(t, err)
	require.True(t, second.Reserved())

	stored, err := repos.Books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CopiesAvailable)
	assert.False(t, stored.Available)

	ret, err := svc.ReturnBook(ctx, first.Loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusReturned, ret.Returned.Status)
	require.NotNil(t, ret.Fulfilled)
	assert.Equal(t, bob.ID, ret.Fulfilled.MemberID)
	assert.Equal(t, second.Reservation.ID, ret.Reservation.ID)

	t.Run("兑现后副本仍为0且预约已删除", func(t *testing.T) {
		stored, err := repos.Books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.CopiesAvailable)

		reservations, err := svc.GetAllReservations(ctx)
		require.NoError(t, err)
		assert.Empty(t, reservations)
	})

	t.Run("借阅状态已持久化", func(t *testing.T) {
		returned, err := repos.Loans.FindByID(ctx, first.Loan.ID)
		require.NoError(t, err)
		assert.Equal(t, loan.StatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)

		active, err := svc.GetActiveLoansForMember(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, ret.Fulfilled.ID, active[0].ID)
	})

	t.Run("重复归还", func(t *testing.T) {
		_, err := svc.ReturnBook(ctx, first.Loan.ID)
		assert.ErrorIs(t, err, loan.ErrLoanNotActive)
	})
}

package discovery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/discovery"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/review"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

func addBook(t *testing.T, store *memory.Store, title string, categoryID uint, copies int) *catalog.Book {
	t.Helper()
	b, err := catalog.NewBook(title, 1, categoryID, 1, copies)
	require.NoError(t, err)
	require.NoError(t, store.Books.Create(context.Background(), b))
	return b
}

func addReview(t *testing.T, store *memory.Store, bookID uint, rating int) {
	t.Helper()
	r, err := review.NewReview(bookID, 1, rating, "")
	require.NoError(t, err)
	require.NoError(t, store.Reviews.Create(context.Background(), r))
}

func TestRecommendBooksForMember(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := discovery.NewService(store.Books, store.Members, store.Loans, store.Reviews)

	scifi := uint(1)
	romance := uint(2)
	dune := addBook(t, store, "Dune", scifi, 1)
	foundation := addBook(t, store, "Foundation", scifi, 2)
	addBook(t, store, "Hyperion", scifi, 0) // 无可借副本
	addBook(t, store, "Emma", romance, 3)   // 分类不匹配
	solaris := addBook(t, store, "Solaris", scifi, 1)

	m := member.NewMember("Ann", "ann@example.com", "")
	require.NoError(t, store.Members.Create(ctx, m))

	t.Run("没有借阅历史时为空", func(t *testing.T) {
		books, err := svc.RecommendBooksForMember(ctx, m.ID)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("同分类、可借、未借过", func(t *testing.T) {
		l := loan.NewLoan(dune.ID, m.ID, time.Now())
		require.NoError(t, l.MarkReturned(time.Now()))
		require.NoError(t, store.Loans.Create(ctx, l))

		books, err := svc.RecommendBooksForMember(ctx, m.ID)
		require.NoError(t, err)

		titles := make([]string, len(books))
		for i, b := range books {
			titles[i] = b.Title
		}
		assert.Equal(t, []string{"Foundation", "Solaris"}, titles)
	})

	t.Run("借过的书不再推荐", func(t *testing.T) {
		require.NoError(t, store.Loans.Create(ctx, loan.NewLoan(foundation.ID, m.ID, time.Now())))

		books, err := svc.RecommendBooksForMember(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, solaris.ID, books[0].ID)
	})

	t.Run("会员不存在", func(t *testing.T) {
		_, err := svc.RecommendBooksForMember(ctx, 99)
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
	})
}

func TestSortBooksByAvgRating(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := discovery.NewService(store.Books, store.Members, store.Loans, store.Reviews)

	a := addBook(t, store, "A", 1, 1) // 无书评
	b := addBook(t, store, "B", 1, 1) // 4.0
	c := addBook(t, store, "C", 1, 1) // 5.0
	d := addBook(t, store, "D", 1, 1) // 4.0

	addReview(t, store, b.ID, 5)
	addReview(t, store, b.ID, 3)
	addReview(t, store, c.ID, 5)
	addReview(t, store, d.ID, 4)

	rated, err := svc.SortBooksByAvgRating(ctx)
	require.NoError(t, err)
	require.Len(t, rated, 4)

	ids := []uint{rated[0].Book.ID, rated[1].Book.ID, rated[2].Book.ID, rated[3].Book.ID}
	assert.Equal(t, []uint{c.ID, b.ID, d.ID, a.ID}, ids)
	assert.Equal(t, 4.0, rated[1].AverageRating)
	assert.Equal(t, 2, rated[1].ReviewCount)
	assert.Equal(t, 0.0, rated[3].AverageRating)
}

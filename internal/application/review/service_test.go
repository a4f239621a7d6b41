package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reviewapp "github.com/xiebiao/library/internal/application/review"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/review"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func setup(t *testing.T) (*memory.Store, *reviewapp.Service, *catalog.Book, *member.Member) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	b, err := catalog.NewBook("Dune", 1, 1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, store.Books.Create(ctx, b))

	m := member.NewMember("Ann", "ann@example.com", "")
	require.NoError(t, store.Members.Create(ctx, m))

	svc := reviewapp.NewService(store.Reviews, store.Books, store.Members, store.Loans, nil)
	return store, svc, b, m
}

func TestAddReviewToBook(t *testing.T) {
	ctx := context.Background()

	t.Run("场景E:借阅前拒绝,借阅后成功", func(t *testing.T) {
		store, svc, b, m := setup(t)

		_, err := svc.AddReviewToBook(ctx, m.ID, b.ID, 5, "great")
		assert.ErrorIs(t, err, review.ErrBookNotBorrowed)
		assert.True(t, apperrors.IsBusinessRule(err))

		require.NoError(t, store.Loans.Create(ctx, loan.NewLoan(b.ID, m.ID, time.Now())))

		r, err := svc.AddReviewToBook(ctx, m.ID, b.ID, 5, "great")
		require.NoError(t, err)
		assert.NotZero(t, r.ID)

		reviews, err := svc.GetAllReviewsOfBook(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, "great", reviews[0].Comment)
	})

	t.Run("已归还的借阅也算借过", func(t *testing.T) {
		store, svc, b, m := setup(t)
		l := loan.NewLoan(b.ID, m.ID, time.Now())
		require.NoError(t, l.MarkReturned(time.Now()))
		require.NoError(t, store.Loans.Create(ctx, l))

		_, err := svc.AddReviewToBook(ctx, m.ID, b.ID, 4, "")
		assert.NoError(t, err)
	})

	t.Run("允许重复评论", func(t *testing.T) {
		store, svc, b, m := setup(t)
		require.NoError(t, store.Loans.Create(ctx, loan.NewLoan(b.ID, m.ID, time.Now())))

		_, err := svc.AddReviewToBook(ctx, m.ID, b.ID, 4, "first")
		require.NoError(t, err)
		_, err = svc.AddReviewToBook(ctx, m.ID, b.ID, 2, "second")
		require.NoError(t, err)

		reviews, err := svc.GetAllReviewsOfBook(ctx, b.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})

	t.Run("评分越界", func(t *testing.T) {
		store, svc, b, m := setup(t)
		require.NoError(t, store.Loans.Create(ctx, loan.NewLoan(b.ID, m.ID, time.Now())))

		for _, rating := range []int{0, 6} {
			_, err := svc.AddReviewToBook(ctx, m.ID, b.ID, rating, "")
			assert.ErrorIs(t, err, review.ErrInvalidRating)
		}
	})

	t.Run("会员或图书不存在", func(t *testing.T) {
		_, svc, b, m := setup(t)

		_, err := svc.AddReviewToBook(ctx, 99, b.ID, 5, "")
		assert.ErrorIs(t, err, member.ErrMemberNotFound)
		var opErr *apperrors.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, uint(99), opErr.ID)

		_, err = svc.AddReviewToBook(ctx, m.ID, 99, 5, "")
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
		assert.True(t, apperrors.IsNotFound(err))
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, uint(99), opErr.ID)
	})

	t.Run("先校验图书再校验会员", func(t *testing.T) {
		_, svc, _, _ := setup(t)

		_, err := svc.AddReviewToBook(ctx, 98, 99, 5, "")
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
		assert.NotErrorIs(t, err, member.ErrMemberNotFound)
	})
}

func TestDeleteReviewFromBook(t *testing.T) {
	ctx := context.Background()
	store, svc, b, m := setup(t)
	require.NoError(t, store.Loans.Create(ctx, loan.NewLoan(b.ID, m.ID, time.Now())))

	r, err := svc.AddReviewToBook(ctx, m.ID, b.ID, 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReviewFromBook(ctx, r.ID))

	reviews, err := svc.GetAllReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	err = svc.DeleteReviewFromBook(ctx, r.ID)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCalculateAverageRating(t *testing.T) {
	ctx := context.Background()
	store, svc, b, m := setup(t)

	t.Run("场景F:没有书评时为0", func(t *testing.T) {
		avg, err := svc.CalculateAverageRating(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
	})

	t.Run("场景F:5和3的平均为4", func(t *testing.T) {
		require.NoError(t, store.Loans.Create(ctx, loan.NewLoan(b.ID, m.ID, time.Now())))
		_, err := svc.AddReviewToBook(ctx, m.ID, b.ID, 5, "")
		require.NoError(t, err)
		_, err = svc.AddReviewToBook(ctx, m.ID, b.ID, 3, "")
		require.NoError(t, err)

		avg, err := svc.CalculateAverageRating(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, avg)
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, err := svc.CalculateAverageRating(ctx, 99)
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
	})
}

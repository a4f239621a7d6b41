package book_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/infrastructure/lock"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// hookedBooks 在第一次LockByID时回调,用于在修改进行中插入并发借书
type hookedBooks struct {
	catalog.BookRepository

	once   sync.Once
	onLock func()
}

func (h *hookedBooks) LockByID(ctx context.Context, id uint) (*catalog.Book, error) {
	if h.onLock != nil {
		h.once.Do(h.onLock)
	}
	return h.BookRepository.LockByID(ctx, id)
}

type fixture struct {
	store   *memory.Store
	books   *hookedBooks
	svc     *bookapp.Service
	lending *lending.Service
	book    *catalog.Book
	member  *member.Member
}

func newFixture(t *testing.T, copies int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Authors.Create(ctx, &catalog.Author{Name: "Frank Herbert"}))
	require.NoError(t, store.Categories.Create(ctx, &catalog.Category{Name: "Science Fiction"}))
	require.NoError(t, store.Publishers.Create(ctx, &catalog.Publisher{Name: "Chilton"}))

	b, err := catalog.NewBook("Dune", 1, 1, 1, copies)
	require.NoError(t, err)
	require.NoError(t, store.Books.Create(ctx, b))
	m := member.NewMember("Ann", "ann@example.com", "")
	require.NoError(t, store.Members.Create(ctx, m))

	locker := lock.NewLocal()
	books := &hookedBooks{BookRepository: store.Books}
	catalogService := catalog.NewService(books, store.Authors, store.Publishers, store.Categories)

	return &fixture{
		store:   store,
		books:   books,
		svc:     bookapp.NewService(catalogService, store.Tx, locker, nil),
		lending: lending.NewService(store.Books, store.Members, store.Loans, store.Reservations, store.Tx, locker),
		book:    b,
		member:  m,
	}
}

func copies(n int) catalog.UpdateBookParams {
	return catalog.UpdateBookParams{Copies: &n}
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("修改副本数", func(t *testing.T) {
		f := newFixture(t, 1)

		got, err := f.svc.UpdateBook(ctx, f.book.ID, copies(0))
		require.NoError(t, err)
		assert.Equal(t, 0, got.CopiesAvailable)
		assert.False(t, got.Available)
	})

	t.Run("修改期间借书等待,副本数不被覆盖", func(t *testing.T) {
		f := newFixture(t, 1)

		done := make(chan error, 1)
		f.books.onLock = func() {
			go func() {
				_, err := f.lending.BorrowBook(ctx, f.member.ID, f.book.ID)
				done <- err
			}()
			// 借书必须等到修改提交后才能进入
			select {
			case err := <-done:
				t.Errorf("修改未完成时借书已结束: %v", err)
			case <-time.After(50 * time.Millisecond):
			}
		}

		_, err := f.svc.UpdateBook(ctx, f.book.ID, copies(3))
		require.NoError(t, err)

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("借书一直没有完成")
		}

		got, err := f.store.Books.FindByID(ctx, f.book.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CopiesAvailable)

		active, err := f.lending.GetActiveLoansForMember(ctx, f.member.ID)
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})

	t.Run("校验失败不产生修改", func(t *testing.T) {
		f := newFixture(t, 2)
		title := "Dune Messiah"
		author := uint(99)

		_, err := f.svc.UpdateBook(ctx, f.book.ID, catalog.UpdateBookParams{Title: &title, AuthorID: &author})
		assert.Error(t, err)

		got, err := f.store.Books.FindByID(ctx, f.book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, 2, got.CopiesAvailable)
	})

	t.Run("图书不存在", func(t *testing.T) {
		f := newFixture(t, 1)

		_, err := f.svc.UpdateBook(ctx, 99, copies(1))
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("删除后借阅仍可归还", func(t *testing.T) {
		f := newFixture(t, 1)
		res, err := f.lending.BorrowBook(ctx, f.member.ID, f.book.ID)
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteBook(ctx, f.book.ID))
		_, err = f.store.Books.FindByID(ctx, f.book.ID)
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)

		ret, err := f.lending.ReturnBook(ctx, res.Loan.ID)
		require.NoError(t, err)
		assert.Equal(t, loan.StatusReturned, ret.Returned.Status)
	})

	t.Run("图书不存在", func(t *testing.T) {
		f := newFixture(t, 1)

		err := f.svc.DeleteBook(ctx, 99)
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
	})
}

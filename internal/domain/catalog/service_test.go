package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type refs struct {
	author, category, publisher uint
}

func setup(t *testing.T) (catalog.Service, refs) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	svc := catalog.NewService(store.Books, store.Authors, store.Publishers, store.Categories)

	a, err := svc.AddAuthor(ctx, "Frank Herbert", "", "")
	require.NoError(t, err)
	c, err := svc.AddCategory(ctx, "Science Fiction", "")
	require.NoError(t, err)
	p, err := svc.AddPublisher(ctx, "Chilton", "", "")
	require.NoError(t, err)

	return svc, refs{author: a.ID, category: c.ID, publisher: p.ID}
}

func TestAddBook(t *testing.T) {
	ctx := context.Background()

	t.Run("引用均存在", func(t *testing.T) {
		svc, r := setup(t)
		b, err := svc.AddBook(ctx, catalog.AddBookParams{
			Title: "Dune", AuthorID: r.author, CategoryID: r.category, PublisherID: r.publisher, Copies: 0,
		})
		require.NoError(t, err)
		assert.NotZero(t, b.ID)
		assert.False(t, b.Available)
	})

	t.Run("引用不存在", func(t *testing.T) {
		svc, r := setup(t)
		_, err := svc.AddBook(ctx, catalog.AddBookParams{
			Title: "Dune", AuthorID: 99, CategoryID: r.category, PublisherID: r.publisher, Copies: 1,
		})
		assert.ErrorIs(t, err, catalog.ErrAuthorNotFound)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = svc.AddBook(ctx, catalog.AddBookParams{
			Title: "Dune", AuthorID: r.author, CategoryID: 99, PublisherID: r.publisher, Copies: 1,
		})
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})

	t.Run("副本数为负", func(t *testing.T) {
		svc, r := setup(t)
		_, err := svc.AddBook(ctx, catalog.AddBookParams{
			Title: "Dune", AuthorID: r.author, CategoryID: r.category, PublisherID: r.publisher, Copies: -1,
		})
		assert.ErrorIs(t, err, catalog.ErrInvalidCopies)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	svc, r := setup(t)
	b, err := svc.AddBook(ctx, catalog.AddBookParams{
		Title: "Dune", AuthorID: r.author, CategoryID: r.category, PublisherID: r.publisher, Copies: 1,
	})
	require.NoError(t, err)

	title := "Dune Messiah"
	copies := 0
	updated, err := svc.UpdateBook(ctx, b.ID, catalog.UpdateBookParams{Title: &title, Copies: &copies})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.False(t, updated.Available)

	got, err := svc.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, r.author, got.AuthorID)

	missing := uint(99)
	_, err = svc.UpdateBook(ctx, b.ID, catalog.UpdateBookParams{PublisherID: &missing})
	assert.ErrorIs(t, err, catalog.ErrPublisherNotFound)

	_, err = svc.UpdateBook(ctx, 99, catalog.UpdateBookParams{Title: &title})
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestSearchAndListing(t *testing.T) {
	ctx := context.Background()
	svc, r := setup(t)
	for _, title := range []string{"Foundation", "Dune", "Dune Messiah"} {
		_, err := svc.AddBook(ctx, catalog.AddBookParams{
			Title: title, AuthorID: r.author, CategoryID: r.category, PublisherID: r.publisher, Copies: 1,
		})
		require.NoError(t, err)
	}

	t.Run("书名包含,忽略大小写", func(t *testing.T) {
		books, err := svc.SearchBooks(ctx, "dune")
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("空查询按书名排序", func(t *testing.T) {
		books, err := svc.SearchBooks(ctx, "  ")
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, "Dune", books[0].Title)
		assert.Equal(t, "Foundation", books[2].Title)
	})

	t.Run("按分类", func(t *testing.T) {
		books, err := svc.GetBooksByCategory(ctx, r.category)
		require.NoError(t, err)
		assert.Len(t, books, 3)

		_, err = svc.GetBooksByCategory(ctx, 99)
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})

	t.Run("删除", func(t *testing.T) {
		books, err := svc.GetAllBooks(ctx)
		require.NoError(t, err)
		require.NoError(t, svc.DeleteBook(ctx, books[0].ID))
		assert.ErrorIs(t, svc.DeleteBook(ctx, books[0].ID), catalog.ErrBookNotFound)
	})
}

func TestAddAuthor_EmptyName(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.AddAuthor(context.Background(), " ", "", "")
	assert.ErrorIs(t, err, catalog.ErrInvalidName)
}

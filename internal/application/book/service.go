// Package book 图书维护用例:修改和删除图书与借还共用同一把图书锁
package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/repository"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/book"

// Locker 键锁,由infrastructure/lock实现
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Service 图书维护用例
// 修改副本数与借书扣减副本都是"读-改-写",
// 因此修改、删除先获取catalog.LockKey再开事务,事务内通过LockByID读取。
type Service struct {
	catalog catalog.Service
	tx      repository.Transactor
	locker  Locker
	log     *zap.Logger
}

// NewService 创建图书维护用例
func NewService(catalogService catalog.Service, tx repository.Transactor, locker Locker, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog: catalogService,
		tx:      tx,
		locker:  locker,
		log:     log,
	}
}

// UpdateBook 修改图书,与同一本书的借还串行执行
func (s *Service) UpdateBook(ctx context.Context, id uint, params catalog.UpdateBookParams) (result *catalog.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.UpdateBook")
	defer func() { tracing.EndSpan(span, err) }()

	err = s.locked(ctx, id, func(ctx context.Context) error {
		book, err := s.catalog.UpdateBook(ctx, id, params)
		if err != nil {
			return err
		}
		result = book
		return nil
	})
	if err != nil {
		return nil, apperrors.Annotate(err, "update book", id)
	}

	s.log.Info("图书已修改",
		zap.Uint("book_id", id),
		zap.Int("copies_available", result.CopiesAvailable),
	)
	return result, nil
}

// DeleteBook 删除图书
// 借出中的记录不受影响,之后仍可归还
func (s *Service) DeleteBook(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.DeleteBook")
	defer func() { tracing.EndSpan(span, err) }()

	err = s.locked(ctx, id, func(ctx context.Context) error {
		return s.catalog.DeleteBook(ctx, id)
	})
	if err != nil {
		return apperrors.Annotate(err, "delete book", id)
	}

	s.log.Info("图书已删除", zap.Uint("book_id", id))
	return nil
}

func (s *Service) locked(ctx context.Context, id uint, fn func(ctx context.Context) error) error {
	release, err := s.locker.Acquire(ctx, catalog.LockKey(id))
	if err != nil {
		return err
	}
	defer release()

	return s.tx.Transaction(ctx, fn)
}

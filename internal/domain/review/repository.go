package review

import (
	"context"

	"github.com/xiebiao/library/internal/domain/repository"
)

// Repository 书评仓储接口
type Repository interface {
	repository.Repository[Review]

	// FindByBook 图书的全部书评,按创建顺序
	FindByBook(ctx context.Context, bookID uint) ([]*Review, error)
}

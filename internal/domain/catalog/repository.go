package catalog

import (
	"context"
	"fmt"

	"github.com/xiebiao/library/internal/domain/repository"
)

// BookRepository 图书仓储接口(依赖倒置原则)
// 由domain层定义,infrastructure层实现(memory/file/database)
type BookRepository interface {
	repository.Repository[Book]

	// LockByID 在事务内锁定图书行(SELECT ... FOR UPDATE)
	// 非数据库实现等价于FindByID,串行化由应用层的锁保证
	LockByID(ctx context.Context, id uint) (*Book, error)

	FindByAuthor(ctx context.Context, authorID uint) ([]*Book, error)
	FindByPublisher(ctx context.Context, publisherID uint) ([]*Book, error)
	FindByCategory(ctx context.Context, categoryID uint) ([]*Book, error)
}

// AuthorRepository 作者仓储
type AuthorRepository interface {
	repository.Repository[Author]
}

// PublisherRepository 出版社仓储
type PublisherRepository interface {
	repository.Repository[Publisher]
}

// CategoryRepository 分类仓储
type CategoryRepository interface {
	repository.Repository[Category]
}

// LockKey 图书的键锁名,修改同一图书的用例共用这把锁
func LockKey(id uint) string {
	return fmt.Sprintf("book:%d", id)
}

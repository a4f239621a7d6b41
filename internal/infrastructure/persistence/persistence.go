// Package persistence 按配置组装仓储后端
package persistence

import (
	"fmt"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/repository"
	"github.com/xiebiao/library/internal/domain/review"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/file"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

// Repositories 领域层看到的全部仓储
type Repositories struct {
	Books        catalog.BookRepository
	Authors      catalog.AuthorRepository
	Publishers   catalog.PublisherRepository
	Categories   catalog.CategoryRepository
	Members      member.Repository
	Staff        member.StaffRepository
	Loans        loan.Repository
	Reservations loan.ReservationRepository
	Reviews      review.Repository
	Tx           repository.Transactor

	close func() error
}

// Close 释放后端资源
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// New 按storage.backend创建仓储
func New(cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return FromMemory(memory.NewStore()), nil
	case config.BackendFile:
		store, err := file.Open(cfg.Storage.FileDir)
		if err != nil {
			return nil, err
		}
		return FromMemory(store), nil
	case config.BackendDatabase:
		db, err := database.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		return FromDatabase(database.NewStore(db)), nil
	default:
		return nil, fmt.Errorf("不支持的存储后端: %s", cfg.Storage.Backend)
	}
}

// FromMemory 包装内存(或文件)存储
func FromMemory(s *memory.Store) *Repositories {
	return &Repositories{
		Books:        s.Books,
		Authors:      s.Authors,
		Publishers:   s.Publishers,
		Categories:   s.Categories,
		Members:      s.Members,
		Staff:        s.Staff,
		Loans:        s.Loans,
		Reservations: s.Reservations,
		Reviews:      s.Reviews,
		Tx:           s.Tx,
	}
}

// FromDatabase 包装数据库存储
func FromDatabase(s *database.Store) *Repositories {
	return &Repositories{
		Books:        s.Books,
		Authors:      s.Authors,
		Publishers:   s.Publishers,
		Categories:   s.Categories,
		Members:      s.Members,
		Staff:        s.Staff,
		Loans:        s.Loans,
		Reservations: s.Reservations,
		Reviews:      s.Reviews,
		Tx:           s.Tx,
		close:        s.Close,
	}
}

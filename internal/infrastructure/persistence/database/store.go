package database

import "gorm.io/gorm"

// Store 数据库后端的全部仓储
type Store struct {
	DB           *gorm.DB
	Books        *BookRepository
	Authors      *AuthorRepository
	Publishers   *PublisherRepository
	Categories   *CategoryRepository
	Members      *MemberRepository
	Staff        *StaffRepository
	Loans        *LoanRepository
	Reservations *ReservationRepository
	Reviews      *ReviewRepository
	Tx           *TxManager
}

// NewStore 基于已连接的DB创建全部仓储
func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:           db,
		Books:        NewBookRepository(db),
		Authors:      NewAuthorRepository(db),
		Publishers:   NewPublisherRepository(db),
		Categories:   NewCategoryRepository(db),
		Members:      NewMemberRepository(db),
		Staff:        NewStaffRepository(db),
		Loans:        NewLoanRepository(db),
		Reservations: NewReservationRepository(db),
		Reviews:      NewReviewRepository(db),
		Tx:           NewTxManager(db),
	}
}

// Close 关闭底层连接池
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package memory

import "github.com/xiebiao/library/internal/domain/catalog"

// Store 全部内存表
// memory后端直接使用;file后端在其上挂载落盘回调
type Store struct {
	Books        *BookRepository
	Authors      *Table[catalog.Author, *catalog.Author]
	Publishers   *Table[catalog.Publisher, *catalog.Publisher]
	Categories   *Table[catalog.Category, *catalog.Category]
	Members      *MemberRepository
	Staff        *StaffRepository
	Loans        *LoanRepository
	Reservations *ReservationRepository
	Reviews      *ReviewRepository
	Tx           *TxManager
}

// NewStore 创建空的内存存储
func NewStore() *Store {
	return &Store{
		Books:        NewBookRepository(),
		Authors:      NewAuthorRepository(),
		Publishers:   NewPublisherRepository(),
		Categories:   NewCategoryRepository(),
		Members:      NewMemberRepository(),
		Staff:        NewStaffRepository(),
		Loans:        NewLoanRepository(),
		Reservations: NewReservationRepository(),
		Reviews:      NewReviewRepository(),
		Tx:           NewTxManager(),
	}
}

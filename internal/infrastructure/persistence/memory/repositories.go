package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/review"
)

// BookRepository 图书仓储的内存实现
type BookRepository struct {
	*Table[catalog.Book, *catalog.Book]
}

// NewBookRepository 创建图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{NewTable[catalog.Book](catalog.ErrBookNotFound)}
}

// LockByID 内存实现无行锁,互斥由应用层的锁提供
func (r *BookRepository) LockByID(ctx context.Context, id uint) (*catalog.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *BookRepository) FindByAuthor(ctx context.Context, authorID uint) ([]*catalog.Book, error) {
	return r.Filter(ctx, func(b *catalog.Book) bool { return b.AuthorID == authorID })
}

func (r *BookRepository) FindByPublisher(ctx context.Context, publisherID uint) ([]*catalog.Book, error) {
	return r.Filter(ctx, func(b *catalog.Book) bool { return b.PublisherID == publisherID })
}

func (r *BookRepository) FindByCategory(ctx context.Context, categoryID uint) ([]*catalog.Book, error) {
	return r.Filter(ctx, func(b *catalog.Book) bool { return b.CategoryID == categoryID })
}

// NewAuthorRepository 作者仓储
func NewAuthorRepository() *Table[catalog.Author, *catalog.Author] {
	return NewTable[catalog.Author](catalog.ErrAuthorNotFound)
}

// NewPublisherRepository 出版社仓储
func NewPublisherRepository() *Table[catalog.Publisher, *catalog.Publisher] {
	return NewTable[catalog.Publisher](catalog.ErrPublisherNotFound)
}

// NewCategoryRepository 分类仓储
func NewCategoryRepository() *Table[catalog.Category, *catalog.Category] {
	return NewTable[catalog.Category](catalog.ErrCategoryNotFound)
}

// MemberRepository 会员仓储的内存实现
type MemberRepository struct {
	*Table[member.Member, *member.Member]
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository() *MemberRepository {
	return &MemberRepository{NewTable[member.Member](member.ErrMemberNotFound)}
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	found, err := r.Filter(ctx, func(m *member.Member) bool { return m.Email == email })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, member.ErrMemberNotFound
	}
	return found[0], nil
}

// StaffRepository 馆员仓储的内存实现
type StaffRepository struct {
	*Table[member.Staff, *member.Staff]
}

// NewStaffRepository 创建馆员仓储
func NewStaffRepository() *StaffRepository {
	return &StaffRepository{NewTable[member.Staff](member.ErrStaffNotFound)}
}

func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*member.Staff, error) {
	found, err := r.Filter(ctx, func(s *member.Staff) bool { return s.Email == email })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, member.ErrStaffNotFound
	}
	return found[0], nil
}

// LoanRepository 借阅仓储的内存实现
type LoanRepository struct {
	*Table[loan.Loan, *loan.Loan]
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository() *LoanRepository {
	return &LoanRepository{NewTable[loan.Loan](loan.ErrLoanNotFound)}
}

func (r *LoanRepository) FindByMember(ctx context.Context, memberID uint) ([]*loan.Loan, error) {
	return r.Filter(ctx, func(l *loan.Loan) bool { return l.MemberID == memberID })
}

// ReservationRepository 预约仓储的内存实现
type ReservationRepository struct {
	*Table[loan.Reservation, *loan.Reservation]
}

// NewReservationRepository 创建预约仓储
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{NewTable[loan.Reservation](loan.ErrReservationNotFound)}
}

func (r *ReservationRepository) FindByBook(ctx context.Context, bookID uint) ([]*loan.Reservation, error) {
	found, err := r.Filter(ctx, func(res *loan.Reservation) bool { return res.BookID == bookID })
	if err != nil {
		return nil, err
	}
	sortFIFO(found)
	return found, nil
}

func (r *ReservationRepository) FindByMember(ctx context.Context, memberID uint) ([]*loan.Reservation, error) {
	found, err := r.Filter(ctx, func(res *loan.Reservation) bool { return res.MemberID == memberID })
	if err != nil {
		return nil, err
	}
	sortFIFO(found)
	return found, nil
}

// sortFIFO 按预约时间升序,同一时间按ID升序
func sortFIFO(reservations []*loan.Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if !a.ReservedAt.Equal(b.ReservedAt) {
			return a.ReservedAt.Before(b.ReservedAt)
		}
		return a.ID < b.ID
	})
}

// ReviewRepository 书评仓储的内存实现
type ReviewRepository struct {
	*Table[review.Review, *review.Review]
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{NewTable[review.Review](review.ErrReviewNotFound)}
}

func (r *ReviewRepository) FindByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	return r.Filter(ctx, func(rv *review.Review) bool { return rv.BookID == bookID })
}

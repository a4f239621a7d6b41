package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/review"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// BookRepository 图书仓储
type BookRepository struct {
	*table[catalog.Book, *catalog.Book, BookModel]
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{&table[catalog.Book, *catalog.Book, BookModel]{
		db:       db,
		name:     "图书",
		notFound: catalog.ErrBookNotFound,
		toModel:  toBookModel,
		toEntity: toBookEntity,
	}}
}

// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
// 必须在事务内调用才有意义;sqlite不支持行锁,退化为普通查询
func (r *BookRepository) LockByID(ctx context.Context, id uint) (*catalog.Book, error) {
	db := getDB(ctx, r.db)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.WrapStorage(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *BookRepository) FindByAuthor(ctx context.Context, authorID uint) ([]*catalog.Book, error) {
	return r.find(ctx, "id", "author_id = ?", authorID)
}

func (r *BookRepository) FindByPublisher(ctx context.Context, publisherID uint) ([]*catalog.Book, error) {
	return r.find(ctx, "id", "publisher_id = ?", publisherID)
}

func (r *BookRepository) FindByCategory(ctx context.Context, categoryID uint) ([]*catalog.Book, error) {
	return r.find(ctx, "id", "category_id = ?", categoryID)
}

// AuthorRepository 作者仓储
type AuthorRepository struct {
	*table[catalog.Author, *catalog.Author, AuthorModel]
}

func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{&table[catalog.Author, *catalog.Author, AuthorModel]{
		db:       db,
		name:     "作者",
		notFound: catalog.ErrAuthorNotFound,
		toModel: func(a *catalog.Author) *AuthorModel {
			return &AuthorModel{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone}
		},
		toEntity: func(m *AuthorModel) *catalog.Author {
			return &catalog.Author{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone}
		},
	}}
}

// PublisherRepository 出版社仓储
type PublisherRepository struct {
	*table[catalog.Publisher, *catalog.Publisher, PublisherModel]
}

func NewPublisherRepository(db *gorm.DB) *PublisherRepository {
	return &PublisherRepository{&table[catalog.Publisher, *catalog.Publisher, PublisherModel]{
		db:       db,
		name:     "出版社",
		notFound: catalog.ErrPublisherNotFound,
		toModel: func(p *catalog.Publisher) *PublisherModel {
			return &PublisherModel{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
		},
		toEntity: func(m *PublisherModel) *catalog.Publisher {
			return &catalog.Publisher{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone}
		},
	}}
}

// CategoryRepository 分类仓储
type CategoryRepository struct {
	*table[catalog.Category, *catalog.Category, CategoryModel]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{&table[catalog.Category, *catalog.Category, CategoryModel]{
		db:       db,
		name:     "分类",
		notFound: catalog.ErrCategoryNotFound,
		toModel: func(c *catalog.Category) *CategoryModel {
			return &CategoryModel{ID: c.ID, Name: c.Name, Description: c.Description}
		},
		toEntity: func(m *CategoryModel) *catalog.Category {
			return &catalog.Category{ID: m.ID, Name: m.Name, Description: m.Description}
		},
	}}
}

// MemberRepository 会员仓储
// 邮箱唯一索引冲突转换为ErrEmailDuplicate
type MemberRepository struct {
	*table[member.Member, *member.Member, MemberModel]
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{&table[member.Member, *member.Member, MemberModel]{
		db:        db,
		name:      "会员",
		notFound:  member.ErrMemberNotFound,
		duplicate: member.ErrEmailDuplicate,
		toModel: func(m *member.Member) *MemberModel {
			return &MemberModel{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, CreatedAt: m.CreatedAt}
		},
		toEntity: func(m *MemberModel) *member.Member {
			return &member.Member{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, CreatedAt: m.CreatedAt}
		},
	}}
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	return r.first(ctx, "email = ?", email)
}

// StaffRepository 馆员仓储
type StaffRepository struct {
	*table[member.Staff, *member.Staff, StaffModel]
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{&table[member.Staff, *member.Staff, StaffModel]{
		db:        db,
		name:      "馆员",
		notFound:  member.ErrStaffNotFound,
		duplicate: member.ErrEmailDuplicate,
		toModel: func(s *member.Staff) *StaffModel {
			return &StaffModel{ID: s.ID, Name: s.Name, Email: s.Email, Phone: s.Phone, Position: s.Position, CreatedAt: s.CreatedAt}
		},
		toEntity: func(m *StaffModel) *member.Staff {
			return &member.Staff{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, Position: m.Position, CreatedAt: m.CreatedAt}
		},
	}}
}

func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*member.Staff, error) {
	return r.first(ctx, "email = ?", email)
}

// LoanRepository 借阅仓储
type LoanRepository struct {
	*table[loan.Loan, *loan.Loan, LoanModel]
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{&table[loan.Loan, *loan.Loan, LoanModel]{
		db:       db,
		name:     "借阅记录",
		notFound: loan.ErrLoanNotFound,
		toModel:  toLoanModel,
		toEntity: toLoanEntity,
	}}
}

func (r *LoanRepository) FindByMember(ctx context.Context, memberID uint) ([]*loan.Loan, error) {
	return r.find(ctx, "id", "member_id = ?", memberID)
}

// ReservationRepository 预约仓储
type ReservationRepository struct {
	*table[loan.Reservation, *loan.Reservation, ReservationModel]
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{&table[loan.Reservation, *loan.Reservation, ReservationModel]{
		db:       db,
		name:     "预约",
		notFound: loan.ErrReservationNotFound,
		toModel: func(r *loan.Reservation) *ReservationModel {
			return &ReservationModel{ID: r.ID, BookID: r.BookID, MemberID: r.MemberID, ReservedAt: r.ReservedAt}
		},
		toEntity: func(m *ReservationModel) *loan.Reservation {
			return &loan.Reservation{ID: m.ID, BookID: m.BookID, MemberID: m.MemberID, ReservedAt: m.ReservedAt.Local()}
		},
	}}
}

// FindByBook 预约队列,先到先得
func (r *ReservationRepository) FindByBook(ctx context.Context, bookID uint) ([]*loan.Reservation, error) {
	return r.find(ctx, "reserved_at, id", "book_id = ?", bookID)
}

func (r *ReservationRepository) FindByMember(ctx context.Context, memberID uint) ([]*loan.Reservation, error) {
	return r.find(ctx, "reserved_at, id", "member_id = ?", memberID)
}

// ReviewRepository 书评仓储
type ReviewRepository struct {
	*table[review.Review, *review.Review, ReviewModel]
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{&table[review.Review, *review.Review, ReviewModel]{
		db:       db,
		name:     "书评",
		notFound: review.ErrReviewNotFound,
		toModel: func(r *review.Review) *ReviewModel {
			return &ReviewModel{ID: r.ID, BookID: r.BookID, MemberID: r.MemberID, Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt}
		},
		toEntity: func(m *ReviewModel) *review.Review {
			return &review.Review{ID: m.ID, BookID: m.BookID, MemberID: m.MemberID, Rating: m.Rating, Comment: m.Comment, CreatedAt: m.CreatedAt}
		},
	}}
}

func (r *ReviewRepository) FindByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	return r.find(ctx, "id", "book_id = ?", bookID)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *catalog.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		PublisherID:     b.PublisherID,
		CopiesAvailable: b.CopiesAvailable,
		Available:       b.Available,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *catalog.Book {
	return &catalog.Book{
		ID:              m.ID,
		Title:           m.Title,
		AuthorID:        m.AuthorID,
		CategoryID:      m.CategoryID,
		PublisherID:     m.PublisherID,
		CopiesAvailable: m.CopiesAvailable,
		Available:       m.Available,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toLoanModel(l *loan.Loan) *LoanModel {
	return &LoanModel{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Status:     l.Status.String(),
	}
}

// toLoanEntity 日期统一转回本地时区,驱动读出的可能是UTC
func toLoanEntity(m *LoanModel) *loan.Loan {
	l := &loan.Loan{
		ID:       m.ID,
		BookID:   m.BookID,
		MemberID: m.MemberID,
		LoanDate: m.LoanDate.Local(),
		DueDate:  m.DueDate.Local(),
		Status:   loan.Status(m.Status),
	}
	if m.ReturnDate != nil {
		returned := m.ReturnDate.Local()
		l.ReturnDate = &returned
	}
	return l
}

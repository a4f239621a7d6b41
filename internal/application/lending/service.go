// Package lending 借阅用例:借书、还书、预约兑现以及会员借阅视图
package lending

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/repository"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/lending"

// Locker 键锁,由infrastructure/lock实现
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// EventPublisher 事件发布,尽力而为,不返回错误
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{})
}

// BorrowResult 借书结果,Loan与Reservation二者恰有一个非nil
type BorrowResult struct {
	Loan        *loan.Loan
	Reservation *loan.Reservation
}

// Reserved 是否转为了预约
func (r *BorrowResult) Reserved() bool {
	return r.Reservation != nil
}

// ReturnResult 还书结果
type ReturnResult struct {
	Returned *loan.Loan

	// 归还后按预约兑现的新借阅,没有等待中的预约时为nil
	Fulfilled   *loan.Loan
	Reservation *loan.Reservation
}

// Service 借阅用例
// 设计说明:
// 1. 借书/还书(含预约兑现)整体是一个临界区:先按book、member顺序加键锁,再开事务
// 2. 全部前置校验在第一次写入之前完成,校验失败不产生任何修改
// 3. 写入中途失败由事务回滚
// 4. 事件在提交之后发布
type Service struct {
	books        catalog.BookRepository
	members      member.Repository
	loans        loan.Repository
	reservations loan.ReservationRepository
	tx           repository.Transactor
	locker       Locker

	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// Option 可选配置
type Option func(*Service)

// WithClock 替换时钟(测试用)
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEventPublisher 设置事件发布者
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithLogger 设置日志
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService 创建借阅用例
func NewService(
	books catalog.BookRepository,
	members member.Repository,
	loans loan.Repository,
	reservations loan.ReservationRepository,
	tx repository.Transactor,
	locker Locker,
	opts ...Option,
) *Service {
	s := &Service{
		books:        books,
		members:      members,
		loans:        loans,
		reservations: reservations,
		tx:           tx,
		locker:       locker,
		events:       noopPublisher{},
		log:          zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BorrowBook 借书
// 前置校验依次为:图书存在、会员存在、无逾期借阅、在借数量未达上限。
// 有可借副本时创建借阅并扣减副本,否则转为预约(借书从不阻塞)。
func (s *Service) BorrowBook(ctx context.Context, memberID, bookID uint) (result *BorrowResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "lending.BorrowBook")
	defer s.observe("borrow", time.Now())
	defer func() { tracing.EndSpan(span, err) }()

	release, err := s.acquire(ctx, bookKey(bookID), memberKey(memberID))
	if err != nil {
		return nil, apperrors.Annotate(err, "borrow book", bookID)
	}
	defer release()

	now := s.now()
	today := loan.Today(now)

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		book, err := s.books.LockByID(ctx, bookID)
		if err != nil {
			return err
		}
		if _, err := s.members.FindByID(ctx, memberID); err != nil {
			return err
		}

		loans, err := s.loans.FindByMember(ctx, memberID)
		if err != nil {
			return err
		}
		if loan.HasOverdue(loans, today) {
			return loan.ErrOverdueLoans
		}
		if len(loan.ActiveOnly(loans)) >= loan.MaxActiveLoans {
			return loan.ErrLoanLimitReached
		}

		if !book.IsAvailable() {
			r := loan.NewReservation(bookID, memberID, now)
			if err := s.reservations.Create(ctx, r); err != nil {
				return err
			}
			result = &BorrowResult{Reservation: r}
			return nil
		}

		l, err := s.lend(ctx, book, memberID, today)
		if err != nil {
			return err
		}
		result = &BorrowResult{Loan: l}
		return nil
	})
	if err != nil {
		s.reject(err)
		return nil, apperrors.Annotate(err, "borrow book", bookID)
	}

	if result.Reserved() {
		r := result.Reservation
		s.log.Info("无可借副本,已转为预约",
			zap.Uint("reservation_id", r.ID),
			zap.Uint("book_id", bookID),
			zap.Uint("member_id", memberID),
		)
		metrics.IncCounter(metrics.ReservationsCreatedTotal)
		s.events.Publish(ctx, EventReservationCreated, ReservationEvent{
			ReservationID: r.ID,
			BookID:        r.BookID,
			MemberID:      r.MemberID,
			OccurredAt:    now,
		})
		return result, nil
	}

	s.log.Info("借书成功",
		zap.Uint("loan_id", result.Loan.ID),
		zap.Uint("book_id", bookID),
		zap.Uint("member_id", memberID),
		zap.Time("due_date", result.Loan.DueDate),
	)
	s.loanCreated(ctx, result.Loan, SourceBorrow, now)
	return result, nil
}

// ReturnBook 还书
// 只有借出中的记录可以归还,重复归还返回ErrLoanNotActive。
// 归还后若该书有预约,立即为队首预约创建借阅并删除预约;
// 兑现不再校验该会员的逾期与借阅上限。
// 图书已被删除时借阅仍标记为已归还,只跳过副本与预约处理。
func (s *Service) ReturnBook(ctx context.Context, loanID uint) (result *ReturnResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "lending.ReturnBook")
	defer s.observe("return", time.Now())
	defer func() { tracing.EndSpan(span, err) }()

	// 先无锁读取以确定要锁的图书和会员,加锁后在事务内重新读取
	current, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, apperrors.Annotate(err, "return book", loanID)
	}

	release, err := s.acquire(ctx, bookKey(current.BookID), memberKey(current.MemberID))
	if err != nil {
		return nil, apperrors.Annotate(err, "return book", loanID)
	}
	defer release()

	now := s.now()
	today := loan.Today(now)

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		l, err := s.loans.FindByID(ctx, loanID)
		if err != nil {
			return err
		}
		if !l.IsActive() {
			return loan.ErrLoanNotActive
		}
		book, err := s.books.LockByID(ctx, l.BookID)
		if err != nil && !errors.Is(err, catalog.ErrBookNotFound) {
			return err
		}

		if err := l.MarkReturned(today); err != nil {
			return err
		}
		if err := s.loans.Update(ctx, l); err != nil {
			return err
		}
		result = &ReturnResult{Returned: l}

		// 图书已被删除:借阅照常结清,没有副本可退也没有预约可兑现
		if book == nil {
			return nil
		}
		book.ReturnCopy()
		if err := s.books.Update(ctx, book); err != nil {
			return err
		}

		queue, err := s.reservations.FindByBook(ctx, book.ID)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			return nil
		}

		next := queue[0]
		fulfilled, err := s.lend(ctx, book, next.MemberID, today)
		if err != nil {
			return err
		}
		if err := s.reservations.Delete(ctx, next.ID); err != nil {
			return err
		}
		result.Fulfilled = fulfilled
		result.Reservation = next
		return nil
	})
	if err != nil {
		return nil, apperrors.Annotate(err, "return book", loanID)
	}

	s.log.Info("还书成功",
		zap.Uint("loan_id", loanID),
		zap.Uint("book_id", result.Returned.BookID),
		zap.Uint("member_id", result.Returned.MemberID),
	)
	metrics.IncCounter(metrics.LoansReturnedTotal)
	s.events.Publish(ctx, EventLoanReturned, toLoanEvent(result.Returned, "", now))

	if result.Fulfilled != nil {
		s.log.Info("预约已兑现",
			zap.Uint("reservation_id", result.Reservation.ID),
			zap.Uint("loan_id", result.Fulfilled.ID),
			zap.Uint("member_id", result.Fulfilled.MemberID),
		)
		metrics.IncCounter(metrics.ReservationsFulfilledTotal)
		s.events.Publish(ctx, EventReservationFulfilled, ReservationEvent{
			ReservationID: result.Reservation.ID,
			BookID:        result.Reservation.BookID,
			MemberID:      result.Reservation.MemberID,
			LoanID:        result.Fulfilled.ID,
			OccurredAt:    now,
		})
		s.loanCreated(ctx, result.Fulfilled, SourceReservation, now)
	}
	return result, nil
}

// CheckMemberHasOverdueLoans 会员是否有逾期未还的借阅
func (s *Service) CheckMemberHasOverdueLoans(ctx context.Context, memberID uint) (bool, error) {
	loans, err := s.memberLoans(ctx, memberID)
	if err != nil {
		return false, err
	}
	return loan.HasOverdue(loans, s.now()), nil
}

// GetActiveLoansForMember 会员借出中的记录
func (s *Service) GetActiveLoansForMember(ctx context.Context, memberID uint) ([]*loan.Loan, error) {
	loans, err := s.memberLoans(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return loan.ActiveOnly(loans), nil
}

// GetLoanHistoryForMember 会员的全部借阅记录(含已归还)
func (s *Service) GetLoanHistoryForMember(ctx context.Context, memberID uint) ([]*loan.Loan, error) {
	return s.memberLoans(ctx, memberID)
}

// GetActiveReservationsForMember 会员等待中的预约
func (s *Service) GetActiveReservationsForMember(ctx context.Context, memberID uint) ([]*loan.Reservation, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, apperrors.Annotate(err, "get reservations", memberID)
	}
	return s.reservations.FindByMember(ctx, memberID)
}

// GetMemberBorrowedBooks 会员借过的图书,按借阅记录创建顺序投影全部历史(含已归还),
// 同一本书借过多次会出现多次,已删除的图书跳过
func (s *Service) GetMemberBorrowedBooks(ctx context.Context, memberID uint) ([]*catalog.Book, error) {
	history, err := s.memberLoans(ctx, memberID)
	if err != nil {
		return nil, err
	}

	books := make([]*catalog.Book, 0, len(history))
	for _, l := range history {
		b, err := s.books.FindByID(ctx, l.BookID)
		if errors.Is(err, catalog.ErrBookNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

// GetAllLoans 全部借阅记录
func (s *Service) GetAllLoans(ctx context.Context) ([]*loan.Loan, error) {
	return s.loans.FindAll(ctx)
}

// GetAllReservations 全部预约
func (s *Service) GetAllReservations(ctx context.Context) ([]*loan.Reservation, error) {
	return s.reservations.FindAll(ctx)
}

// CalculateDueDate 今天借出时的应还日期
func (s *Service) CalculateDueDate() time.Time {
	return loan.DueDateFrom(s.now())
}

// lend 扣减副本并创建借阅,调用方已完成校验并持有锁
func (s *Service) lend(ctx context.Context, book *catalog.Book, memberID uint, today time.Time) (*loan.Loan, error) {
	if err := book.LendCopy(); err != nil {
		return nil, err
	}
	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	l := loan.NewLoan(book.ID, memberID, today)
	if err := s.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) memberLoans(ctx context.Context, memberID uint) ([]*loan.Loan, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, apperrors.Annotate(err, "get loans", memberID)
	}
	return s.loans.FindByMember(ctx, memberID)
}

// acquire 依次获取多把锁,任一失败时释放已获得的锁
func (s *Service) acquire(ctx context.Context, keys ...string) (func(), error) {
	releases := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range keys {
		release, err := s.locker.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

func (s *Service) loanCreated(ctx context.Context, l *loan.Loan, source string, now time.Time) {
	metrics.IncCounterVec(metrics.LoansCreatedTotal, map[string]string{"source": source})
	s.events.Publish(ctx, EventLoanCreated, toLoanEvent(l, source, now))
}

// reject 记录借书被拒原因
func (s *Service) reject(err error) {
	reason := ""
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		reason = "book_not_found"
	case errors.Is(err, member.ErrMemberNotFound):
		reason = "member_not_found"
	case errors.Is(err, loan.ErrOverdueLoans):
		reason = "overdue"
	case errors.Is(err, loan.ErrLoanLimitReached):
		reason = "loan_limit"
	default:
		s.log.Error("借书失败", zap.Error(err))
		return
	}
	metrics.IncCounterVec(metrics.BorrowRejectedTotal, map[string]string{"reason": reason})
}

func (s *Service) observe(operation string, start time.Time) {
	metrics.ObserveHistogramVec(metrics.LendingOperationDuration,
		map[string]string{"operation": operation}, time.Since(start).Seconds())
}

func toLoanEvent(l *loan.Loan, source string, now time.Time) LoanEvent {
	return LoanEvent{
		LoanID:     l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		Source:     source,
		OccurredAt: now,
	}
}

func bookKey(id uint) string {
	return catalog.LockKey(id)
}

func memberKey(id uint) string {
	return member.LockKey(id)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) {}

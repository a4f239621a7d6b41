package loan

import (
	"time"
)

// Status 借阅状态
// 只有一种流转: ACTIVE → RETURNED
type Status string

const (
	StatusActive   Status = "ACTIVE"   // 借出中
	StatusReturned Status = "RETURNED" // 已归还
)

func (s Status) String() string {
	return string(s)
}

// Valid 是否为已知状态
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusReturned
}

// Loan 借阅记录(聚合根)
// 设计说明:
// 1. BookID/MemberID只保存引用,不持有对象
// 2. 借阅记录从不删除,会员的借阅历史 = 该会员的全部借阅记录
// 3. 日期均为本地日期(零点),逾期按日比较
type Loan struct {
	ID         uint
	BookID     uint
	MemberID   uint
	LoanDate   time.Time  // 借出日期
	DueDate    time.Time  // 应还日期 = LoanDate + LoanPeriodDays
	ReturnDate *time.Time // 归还日期,未归还为nil
	Status     Status
}

// NewLoan 创建借阅记录(工厂方法)
// today会被截断到零点
func NewLoan(bookID, memberID uint, today time.Time) *Loan {
	loanDate := Today(today)
	return &Loan{
		BookID:   bookID,
		MemberID: memberID,
		LoanDate: loanDate,
		DueDate:  DueDateFrom(loanDate),
		Status:   StatusActive,
	}
}

func (l *Loan) GetID() uint   { return l.ID }
func (l *Loan) SetID(id uint) { l.ID = id }

// IsActive 是否借出中
func (l *Loan) IsActive() bool {
	return l.Status == StatusActive
}

// IsOverdue 借出中且应还日期早于今天
func (l *Loan) IsOverdue(today time.Time) bool {
	return l.IsActive() && l.DueDate.Before(Today(today))
}

// CanTransitionTo 检查是否可以流转到目标状态
func (l *Loan) CanTransitionTo(target Status) bool {
	return l.Status == StatusActive && target == StatusReturned
}

// MarkReturned 归还(领域行为)
// 业务规则:只有借出中的记录可以归还
func (l *Loan) MarkReturned(today time.Time) error {
	if !l.CanTransitionTo(StatusReturned) {
		return ErrLoanNotActive
	}
	returned := Today(today)
	l.ReturnDate = &returned
	l.Status = StatusReturned
	return nil
}

// Reservation 预约记录
// 无可借副本时借阅请求转为预约,归还时按ReservedAt先到先得兑现
type Reservation struct {
	ID         uint
	BookID     uint
	MemberID   uint
	ReservedAt time.Time // 预约时间(保留时分秒,用于同日排序)
}

// NewReservation 创建预约
func NewReservation(bookID, memberID uint, now time.Time) *Reservation {
	return &Reservation{
		BookID:     bookID,
		MemberID:   memberID,
		ReservedAt: now,
	}
}

func (r *Reservation) GetID() uint   { return r.ID }
func (r *Reservation) SetID(id uint) { r.ID = id }

// ReservationDate 预约日期
func (r *Reservation) ReservationDate() time.Time {
	return Today(r.ReservedAt)
}

package lending

import "time"

// 借阅事件routing key,发布到topic交换机
const (
	EventLoanCreated          = "loan.created"
	EventLoanReturned         = "loan.returned"
	EventReservationCreated   = "reservation.created"
	EventReservationFulfilled = "reservation.fulfilled"
)

// loan.created的来源
const (
	SourceBorrow      = "borrow"
	SourceReservation = "reservation"
)

// LoanEvent 借阅事件
type LoanEvent struct {
	LoanID     uint      `json:"loan_id"`
	BookID     uint      `json:"book_id"`
	MemberID   uint      `json:"member_id"`
	LoanDate   time.Time `json:"loan_date"`
	DueDate    time.Time `json:"due_date"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReservationEvent 预约事件,兑现时LoanID为新建的借阅
type ReservationEvent struct {
	ReservationID uint      `json:"reservation_id"`
	BookID        uint      `json:"book_id"`
	MemberID      uint      `json:"member_id"`
	LoanID        uint      `json:"loan_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

package dto

import (
	"github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/loan"
)

// BorrowRequest 借书请求
type BorrowRequest struct {
	MemberID uint `json:"member_id" binding:"required" example:"1"`
	BookID   uint `json:"book_id" binding:"required" example:"1"`
}

// LoanResponse 借阅记录
type LoanResponse struct {
	ID         uint   `json:"id" example:"1"`
	BookID     uint   `json:"book_id" example:"1"`
	MemberID   uint   `json:"member_id" example:"1"`
	LoanDate   string `json:"loan_date" example:"2024-03-10"`
	DueDate    string `json:"due_date" example:"2024-03-24"`
	ReturnDate string `json:"return_date,omitempty" example:"2024-03-20"`
	Status     string `json:"status" example:"ACTIVE"`
}

func ToLoanResponse(l *loan.Loan) *LoanResponse {
	resp := &LoanResponse{
		ID:       l.ID,
		BookID:   l.BookID,
		MemberID: l.MemberID,
		LoanDate: formatDate(l.LoanDate),
		DueDate:  formatDate(l.DueDate),
		Status:   l.Status.String(),
	}
	if l.ReturnDate != nil {
		resp.ReturnDate = formatDate(*l.ReturnDate)
	}
	return resp
}

func ToLoanResponses(loans []*loan.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = ToLoanResponse(l)
	}
	return result
}

// ReservationResponse 预约
type ReservationResponse struct {
	ID              uint   `json:"id" example:"1"`
	BookID          uint   `json:"book_id" example:"1"`
	MemberID        uint   `json:"member_id" example:"2"`
	ReservationDate string `json:"reservation_date" example:"2024-03-10"`
	ReservedAt      string `json:"reserved_at" example:"2024-03-10 10:30:00"`
}

func ToReservationResponse(r *loan.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:              r.ID,
		BookID:          r.BookID,
		MemberID:        r.MemberID,
		ReservationDate: formatDate(r.ReservationDate()),
		ReservedAt:      formatTime(r.ReservedAt),
	}
}

func ToReservationResponses(reservations []*loan.Reservation) []*ReservationResponse {
	result := make([]*ReservationResponse, len(reservations))
	for i, r := range reservations {
		result[i] = ToReservationResponse(r)
	}
	return result
}

// BorrowResponse 借书结果,无可借副本时返回预约
type BorrowResponse struct {
	Reserved    bool                 `json:"reserved" example:"false"`
	Loan        *LoanResponse        `json:"loan,omitempty"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}

func ToBorrowResponse(r *lending.BorrowResult) *BorrowResponse {
	if r.Reserved() {
		return &BorrowResponse{Reserved: true, Reservation: ToReservationResponse(r.Reservation)}
	}
	return &BorrowResponse{Loan: ToLoanResponse(r.Loan)}
}

// ReturnResponse 还书结果
type ReturnResponse struct {
	Returned    *LoanResponse        `json:"returned"`
	Fulfilled   *LoanResponse        `json:"fulfilled,omitempty"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}

func ToReturnResponse(r *lending.ReturnResult) *ReturnResponse {
	resp := &ReturnResponse{Returned: ToLoanResponse(r.Returned)}
	if r.Fulfilled != nil {
		resp.Fulfilled = ToLoanResponse(r.Fulfilled)
		resp.Reservation = ToReservationResponse(r.Reservation)
	}
	return resp
}

// OverdueResponse 逾期检查
type OverdueResponse struct {
	MemberID uint `json:"member_id" example:"1"`
	Overdue  bool `json:"overdue" example:"false"`
}

// DueDateResponse 今天借出的应还日期
type DueDateResponse struct {
	DueDate string `json:"due_date" example:"2024-03-24"`
}

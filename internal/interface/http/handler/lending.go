package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// LendingHandler 借书、还书、预约
type LendingHandler struct {
	lending *lending.Service
}

// NewLendingHandler 创建借阅处理器
func NewLendingHandler(lendingService *lending.Service) *LendingHandler {
	return &LendingHandler{lending: lendingService}
}

// Borrow 借书
// @Summary      借书
// @Description  有可借副本时借出;无副本时为会员创建预约(reserved=true)
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        request body dto.BorrowRequest true "借书请求"
// @Success      200 {object} response.Response{data=dto.BorrowResponse}
// @Failure      200 {object} response.Response "40001 存在逾期, 40002 达到借阅上限, 40401/40402 会员或图书不存在"
// @Router       /api/v1/loans [post]
func (h *LendingHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.lending.BorrowBook(c.Request.Context(), req.MemberID, req.BookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBorrowResponse(result))
}

// Return 还书
// @Summary      还书
// @Description  归还后若该书有预约,自动借给最早预约的会员
// @Tags         借阅
// @Produce      json
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.ReturnResponse}
// @Failure      200 {object} response.Response "40003 已归还, 40403 借阅记录不存在"
// @Router       /api/v1/loans/{id}/return [post]
func (h *LendingHandler) Return(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.lending.ReturnBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReturnResponse(result))
}

// ListLoans 全部借阅记录
// @Summary      借阅记录
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.LoanResponse}}
// @Router       /api/v1/loans [get]
func (h *LendingHandler) ListLoans(c *gin.Context) {
	loans, err := h.lending.GetAllLoans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToLoanResponses(loans), len(loans))
}

// DueDate 今天借出的应还日期
// @Summary      应还日期
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=dto.DueDateResponse}
// @Router       /api/v1/loans/due-date [get]
func (h *LendingHandler) DueDate(c *gin.Context) {
	response.Success(c, &dto.DueDateResponse{
		DueDate: h.lending.CalculateDueDate().Format("2006-01-02"),
	})
}

// ListReservations 全部预约
// @Summary      预约列表
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.ReservationResponse}}
// @Router       /api/v1/reservations [get]
func (h *LendingHandler) ListReservations(c *gin.Context) {
	reservations, err := h.lending.GetAllReservations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToReservationResponses(reservations), len(reservations))
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/discovery"
	"github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// MemberHandler 会员、馆员以及会员视角的借阅查询
type MemberHandler struct {
	members   member.Service
	lending   *lending.Service
	discovery *discovery.Service
}

// NewMemberHandler 创建会员处理器
func NewMemberHandler(members member.Service, lendingService *lending.Service, discoveryService *discovery.Service) *MemberHandler {
	return &MemberHandler{
		members:   members,
		lending:   lendingService,
		discovery: discoveryService,
	}
}

// AddMember 注册会员
// @Summary      注册会员
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateMemberRequest true "会员信息"
// @Success      200 {object} response.Response{data=dto.MemberResponse}
// @Failure      200 {object} response.Response "40007 邮箱已存在, 40011 邮箱格式不正确"
// @Router       /api/v1/members [post]
func (h *MemberHandler) AddMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.members.AddMember(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMemberResponse(m))
}

// ListMembers 会员列表
// @Summary      会员列表
// @Tags         会员
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.MemberResponse}}
// @Router       /api/v1/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.members.GetAllMembers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToMemberResponses(members), len(members))
}

// GetMember 会员详情
// @Summary      会员详情
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=dto.MemberResponse}
// @Failure      200 {object} response.Response "40401 会员不存在"
// @Router       /api/v1/members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	m, err := h.members.GetMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToMemberResponse(m))
}

// ActiveLoans 会员当前借阅
// @Summary      当前借阅
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.LoanResponse}}
// @Router       /api/v1/members/{id}/loans [get]
func (h *MemberHandler) ActiveLoans(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	loans, err := h.lending.GetActiveLoansForMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToLoanResponses(loans), len(loans))
}

// LoanHistory 会员借阅历史(含已归还)
// @Summary      借阅历史
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.LoanResponse}}
// @Router       /api/v1/members/{id}/loans/history [get]
func (h *MemberHandler) LoanHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	loans, err := h.lending.GetLoanHistoryForMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToLoanResponses(loans), len(loans))
}

// Reservations 会员的有效预约
// @Summary      会员预约
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.ReservationResponse}}
// @Router       /api/v1/members/{id}/reservations [get]
func (h *MemberHandler) Reservations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservations, err := h.lending.GetActiveReservationsForMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToReservationResponses(reservations), len(reservations))
}

// Overdue 是否有逾期借阅
// @Summary      逾期检查
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=dto.OverdueResponse}
// @Router       /api/v1/members/{id}/overdue [get]
func (h *MemberHandler) Overdue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	overdue, err := h.lending.CheckMemberHasOverdueLoans(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.OverdueResponse{MemberID: id, Overdue: overdue})
}

// Recommendations 图书推荐
// @Summary      图书推荐
// @Description  按借阅历史中的分类推荐当前可借且未借过的图书
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/members/{id}/recommendations [get]
func (h *MemberHandler) Recommendations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	books, err := h.discovery.RecommendBooksForMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToBookResponses(books), len(books))
}

// BorrowedBooks 会员借过的图书
// @Summary      借阅过的图书
// @Description  按借阅记录创建顺序列出全部历史(含已归还),同一本书借过多次会重复出现,已删除的图书不返回
// @Tags         会员
// @Produce      json
// @Param        id path int true "会员ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/members/{id}/borrowed-books [get]
func (h *MemberHandler) BorrowedBooks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	books, err := h.lending.GetMemberBorrowedBooks(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToBookResponses(books), len(books))
}

// AddStaff 注册馆员
// @Summary      注册馆员
// @Tags         馆员
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateStaffRequest true "馆员信息"
// @Success      200 {object} response.Response{data=dto.StaffResponse}
// @Router       /api/v1/staff [post]
func (h *MemberHandler) AddStaff(c *gin.Context) {
	var req dto.CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	st, err := h.members.AddStaff(c.Request.Context(), req.Name, req.Email, req.Phone, req.Position)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToStaffResponse(st))
}

// ListStaff 馆员列表
// @Summary      馆员列表
// @Tags         馆员
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.StaffResponse}}
// @Router       /api/v1/staff [get]
func (h *MemberHandler) ListStaff(c *gin.Context) {
	staff, err := h.members.GetAllStaff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToStaffResponses(staff), len(staff))
}

// CheckStaff 邮箱是否属于馆员
// @Summary      馆员检查
// @Tags         馆员
// @Produce      json
// @Param        email query string true "邮箱"
// @Success      200 {object} response.Response{data=bool}
// @Router       /api/v1/staff/check [get]
func (h *MemberHandler) CheckStaff(c *gin.Context) {
	var q dto.EmailQuery
	if !bindQuery(c, &q) {
		return
	}

	isStaff, err := h.members.IsStaff(c.Request.Context(), q.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, isStaff)
}

// Identity 按邮箱查身份
// @Summary      邮箱查ID
// @Description  先查会员再查馆员
// @Tags         馆员
// @Produce      json
// @Param        email query string true "邮箱"
// @Success      200 {object} response.Response{data=dto.IdentityResponse}
// @Failure      200 {object} response.Response "40400 邮箱未注册"
// @Router       /api/v1/identities [get]
func (h *MemberHandler) Identity(c *gin.Context) {
	var q dto.EmailQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx := c.Request.Context()
	id, err := h.members.GetIDByEmail(ctx, q.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	isStaff, err := h.members.IsStaff(ctx, q.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.IdentityResponse{ID: id, IsStaff: isStaff})
}

package dto

import "github.com/xiebiao/library/internal/domain/member"

// CreateMemberRequest 注册会员请求
// 邮箱格式由领域层校验,以统一错误码
type CreateMemberRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Ann"`
	Email string `json:"email" binding:"required,max=100" example:"ann@example.com"`
	Phone string `json:"phone" binding:"max=30" example:"555-0101"`
}

// CreateStaffRequest 注册馆员请求
type CreateStaffRequest struct {
	CreateMemberRequest
	Position string `json:"position" binding:"max=50" example:"librarian"`
}

// EmailQuery 按邮箱查询
type EmailQuery struct {
	Email string `form:"email" binding:"required" example:"ann@example.com"`
}

// MemberResponse 会员
type MemberResponse struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"Ann"`
	Email     string `json:"email" example:"ann@example.com"`
	Phone     string `json:"phone,omitempty" example:"555-0101"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

func ToMemberResponse(m *member.Member) *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		CreatedAt: formatTime(m.CreatedAt),
	}
}

func ToMemberResponses(members []*member.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = ToMemberResponse(m)
	}
	return result
}

// StaffResponse 馆员
type StaffResponse struct {
	MemberResponse
	Position string `json:"position,omitempty" example:"librarian"`
}

func ToStaffResponse(s *member.Staff) *StaffResponse {
	return &StaffResponse{
		MemberResponse: MemberResponse{
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Phone:     s.Phone,
			CreatedAt: formatTime(s.CreatedAt),
		},
		Position: s.Position,
	}
}

func ToStaffResponses(staff []*member.Staff) []*StaffResponse {
	result := make([]*StaffResponse, len(staff))
	for i, s := range staff {
		result[i] = ToStaffResponse(s)
	}
	return result
}

// IdentityResponse 邮箱对应的身份
type IdentityResponse struct {
	ID      uint `json:"id" example:"1"`
	IsStaff bool `json:"is_staff" example:"false"`
}

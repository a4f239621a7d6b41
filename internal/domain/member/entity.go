package member

import (
	"strings"
	"time"
)

// Member 会员实体
// 借阅、预约、借阅历史不保存在会员上,由借阅仓储按MemberID查询
type Member struct {
	ID        uint
	Name      string
	Email     string // 唯一
	Phone     string
	CreatedAt time.Time
}

// NewMember 创建会员
func NewMember(name, email, phone string) *Member {
	return &Member{
		Name:      strings.TrimSpace(name),
		Email:     normalizeEmail(email),
		Phone:     phone,
		CreatedAt: time.Now(),
	}
}

func (m *Member) GetID() uint   { return m.ID }
func (m *Member) SetID(id uint) { m.ID = id }

// Staff 馆员
type Staff struct {
	ID        uint
	Name      string
	Email     string
	Phone     string
	Position  string // 职位
	CreatedAt time.Time
}

// NewStaff 创建馆员
func NewStaff(name, email, phone, position string) *Staff {
	return &Staff{
		Name:      strings.TrimSpace(name),
		Email:     normalizeEmail(email),
		Phone:     phone,
		Position:  position,
		CreatedAt: time.Now(),
	}
}

func (s *Staff) GetID() uint   { return s.ID }
func (s *Staff) SetID(id uint) { s.ID = id }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

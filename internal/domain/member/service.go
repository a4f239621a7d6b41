package member

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Service 会员领域服务
// 设计说明:
// 1. 会员与馆员的注册、身份查询
// 2. 邮箱在各自表内唯一(数据库实现另有UNIQUE索引兜底)
type Service interface {
	AddMember(ctx context.Context, name, email, phone string) (*Member, error)
	GetMember(ctx context.Context, id uint) (*Member, error)
	GetAllMembers(ctx context.Context) ([]*Member, error)

	AddStaff(ctx context.Context, name, email, phone, position string) (*Staff, error)
	GetAllStaff(ctx context.Context) ([]*Staff, error)

	// IsStaff 邮箱是否属于馆员
	IsStaff(ctx context.Context, email string) (bool, error)

	// GetIDByEmail 按邮箱查ID,先查会员再查馆员
	GetIDByEmail(ctx context.Context, email string) (uint, error)
}

type service struct {
	members Repository
	staff   StaffRepository
}

// NewService 创建会员服务
func NewService(members Repository, staff StaffRepository) Service {
	return &service{members: members, staff: staff}
}

// AddMember 注册会员
// 业务规则:
// 1. 姓名不能为空
// 2. 邮箱格式校验
// 3. 邮箱不能重复
func (s *service) AddMember(ctx context.Context, name, email, phone string) (*Member, error) {
	m := NewMember(name, email, phone)
	if err := validate(m.Name, m.Email); err != nil {
		return nil, err
	}

	existing, err := s.members.FindByEmail(ctx, m.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailDuplicate
	}
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) GetMember(ctx context.Context, id uint) (*Member, error) {
	return s.members.FindByID(ctx, id)
}

func (s *service) GetAllMembers(ctx context.Context) ([]*Member, error) {
	return s.members.FindAll(ctx)
}

// AddStaff 注册馆员,规则同AddMember
func (s *service) AddStaff(ctx context.Context, name, email, phone, position string) (*Staff, error) {
	st := NewStaff(name, email, phone, position)
	if err := validate(st.Name, st.Email); err != nil {
		return nil, err
	}

	existing, err := s.staff.FindByEmail(ctx, st.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailDuplicate
	}
	if err != nil && !errors.Is(err, ErrStaffNotFound) {
		return nil, err
	}

	if err := s.staff.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetAllStaff(ctx context.Context) ([]*Staff, error) {
	return s.staff.FindAll(ctx)
}

func (s *service) IsStaff(ctx context.Context, email string) (bool, error) {
	_, err := s.staff.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrStaffNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) GetIDByEmail(ctx context.Context, email string) (uint, error) {
	email = normalizeEmail(email)

	m, err := s.members.FindByEmail(ctx, email)
	if err == nil {
		return m.ID, nil
	}
	if !errors.Is(err, ErrMemberNotFound) {
		return 0, err
	}

	st, err := s.staff.FindByEmail(ctx, email)
	if err == nil {
		return st.ID, nil
	}
	if errors.Is(err, ErrStaffNotFound) {
		return 0, ErrEmailNotRegistered
	}
	return 0, err
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validate(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

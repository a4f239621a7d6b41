package member

import (
	"context"
	"fmt"

	"github.com/xiebiao/library/internal/domain/repository"
)

// Repository 会员仓储接口
type Repository interface {
	repository.Repository[Member]

	// FindByEmail 根据邮箱查找会员
	// 如果不存在,返回ErrMemberNotFound
	FindByEmail(ctx context.Context, email string) (*Member, error)
}

// StaffRepository 馆员仓储接口
type StaffRepository interface {
	repository.Repository[Staff]

	// FindByEmail 如果不存在,返回ErrStaffNotFound
	FindByEmail(ctx context.Context, email string) (*Staff, error)
}

// LockKey 会员的键锁名,修改同一会员的用例共用这把锁
func LockKey(id uint) string {
	return fmt.Sprintf("member:%d", id)
}

package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/repository"
)

// Repository 借阅仓储接口
type Repository interface {
	repository.Repository[Loan]

	// FindByMember 会员的全部借阅记录(借阅历史),按创建顺序
	FindByMember(ctx context.Context, memberID uint) ([]*Loan, error)
}

// ReservationRepository 预约仓储接口
type ReservationRepository interface {
	repository.Repository[Reservation]

	// FindByBook 图书的预约队列,按ReservedAt升序,相同时按ID升序
	FindByBook(ctx context.Context, bookID uint) ([]*Reservation, error)

	// FindByMember 会员的预约,按ReservedAt升序
	FindByMember(ctx context.Context, memberID uint) ([]*Reservation, error)
}

// Package repository 定义各实体仓储共用的CRUD契约
//
// 标识由仓储分配（Create时回填ID），领域层从不自行生成ID。
// FindAll按ID升序返回，即插入顺序。
package repository

import "context"

// Entity 可被仓储存取的实体
type Entity interface {
	GetID() uint
	SetID(id uint)
}

// Repository 通用仓储接口
// 不存在的实体由各实现返回对应领域的NotFound错误
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	FindAll(ctx context.Context) ([]*T, error)
}

// Transactor 事务执行器
// fn内的仓储调用处于同一事务；fn返回error时回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

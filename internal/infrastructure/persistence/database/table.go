package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/repository"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type entityPtr[E any] interface {
	*E
	repository.Entity
}

// table 通用仓储实现
// E是领域实体,M是GORM模型,二者通过toModel/toEntity转换
type table[E any, P entityPtr[E], M any] struct {
	db        *gorm.DB
	name      string
	notFound  error
	duplicate error
	toModel   func(*E) *M
	toEntity  func(*M) *E
}

// Create 插入并回填自增ID与时间戳
func (t *table[E, P, M]) Create(ctx context.Context, entity *E) error {
	model := t.toModel(entity)
	if err := getDB(ctx, t.db).Create(model).Error; err != nil {
		return t.writeError(err, "创建")
	}
	*entity = *t.toEntity(model)
	return nil
}

// FindByID 根据ID查找
func (t *table[E, P, M]) FindByID(ctx context.Context, id uint) (*E, error) {
	return t.first(ctx, "id = ?", id)
}

// Update 整行更新,记录不存在时返回notFound
// 不使用RowsAffected判断存在性:MySQL在值未变化时返回0
func (t *table[E, P, M]) Update(ctx context.Context, entity *E) error {
	db := getDB(ctx, t.db)

	var n int64
	if err := db.Model(new(M)).Where("id = ?", P(entity).GetID()).Count(&n).Error; err != nil {
		return apperrors.WrapStorage(err, "查询"+t.name+"失败")
	}
	if n == 0 {
		return t.notFound
	}

	model := t.toModel(entity)
	if err := db.Save(model).Error; err != nil {
		return t.writeError(err, "更新")
	}
	*entity = *t.toEntity(model)
	return nil
}

// Delete 物理删除
func (t *table[E, P, M]) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, t.db).Delete(new(M), id)
	if result.Error != nil {
		return apperrors.WrapStorage(result.Error, "删除"+t.name+"失败")
	}
	if result.RowsAffected == 0 {
		return t.notFound
	}
	return nil
}

// FindAll 按ID升序返回全部
func (t *table[E, P, M]) FindAll(ctx context.Context) ([]*E, error) {
	return t.find(ctx, "id", "")
}

func (t *table[E, P, M]) first(ctx context.Context, query string, args ...any) (*E, error) {
	var model M
	err := getDB(ctx, t.db).Where(query, args...).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, t.notFound
		}
		return nil, apperrors.WrapStorage(err, "查询"+t.name+"失败")
	}
	return t.toEntity(&model), nil
}

// find 条件查询,query为空时不加过滤
func (t *table[E, P, M]) find(ctx context.Context, order, query string, args ...any) ([]*E, error) {
	db := getDB(ctx, t.db).Order(order)
	if query != "" {
		db = db.Where(query, args...)
	}

	var models []M
	if err := db.Find(&models).Error; err != nil {
		return nil, apperrors.WrapStorage(err, "查询"+t.name+"列表失败")
	}

	result := make([]*E, len(models))
	for i := range models {
		result[i] = t.toEntity(&models[i])
	}
	return result, nil
}

func (t *table[E, P, M]) writeError(err error, action string) error {
	if t.duplicate != nil && isDuplicateError(err) {
		return t.duplicate
	}
	return apperrors.WrapStorage(err, action+t.name+"失败")
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xiebiao/library/internal/domain/repository"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// EntityPtr 约束*T实现repository.Entity
type EntityPtr[T any] interface {
	*T
	repository.Entity
}

// Table 内存表
// 设计说明:
// 1. 存取都复制值,调用方拿到的实体修改后必须Update才生效(与数据库实现语义一致)
// 2. ID自增分配,从1开始
// 3. onChange在写锁内以全量快照调用,供file后端落盘;返回错误时本次修改回滚
// 4. ctx中携带事务undo日志时,每次修改都登记撤销操作
type Table[T any, P EntityPtr[T]] struct {
	mu       sync.RWMutex
	rows     map[uint]T
	seq      uint
	notFound error
	onChange func(rows []T) error
}

// NewTable 创建内存表,notFound为记录不存在时返回的领域错误
func NewTable[T any, P EntityPtr[T]](notFound error) *Table[T, P] {
	return &Table[T, P]{
		rows:     make(map[uint]T),
		notFound: notFound,
	}
}

// OnChange 设置变更回调
func (t *Table[T, P]) OnChange(fn func(rows []T) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Load 批量装载已有记录(保留ID),序列号从最大ID继续
func (t *Table[T, P]) Load(rows []T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range rows {
		id := P(&row).GetID()
		t.rows[id] = row
		if id > t.seq {
			t.seq = id
		}
	}
}

// Create 插入并回填ID
func (t *Table[T, P]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	id := t.seq
	row := *entity
	P(&row).SetID(id)
	t.rows[id] = row

	if err := t.persist(); err != nil {
		delete(t.rows, id)
		return apperrors.WrapStorage(err, "保存记录失败")
	}

	P(entity).SetID(id)
	t.logUndo(ctx, func() { delete(t.rows, id) })
	return nil
}

// FindByID 按ID查询
func (t *Table[T, P]) FindByID(ctx context.Context, id uint) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, t.notFound
	}
	return &row, nil
}

// Update 整行覆盖
func (t *Table[T, P]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := P(entity).GetID()
	old, ok := t.rows[id]
	if !ok {
		return t.notFound
	}

	t.rows[id] = *entity
	if err := t.persist(); err != nil {
		t.rows[id] = old
		return apperrors.WrapStorage(err, "更新记录失败")
	}

	t.logUndo(ctx, func() { t.rows[id] = old })
	return nil
}

// Delete 删除
func (t *Table[T, P]) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	old, ok := t.rows[id]
	if !ok {
		return t.notFound
	}

	delete(t.rows, id)
	if err := t.persist(); err != nil {
		t.rows[id] = old
		return apperrors.WrapStorage(err, "删除记录失败")
	}

	t.logUndo(ctx, func() { t.rows[id] = old })
	return nil
}

// FindAll 按ID升序返回全部记录
func (t *Table[T, P]) FindAll(ctx context.Context) ([]*T, error) {
	return t.Filter(ctx, nil)
}

// Filter 按ID升序返回满足match的记录,match为nil时返回全部
func (t *Table[T, P]) Filter(ctx context.Context, match func(*T) bool) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*T, 0, len(t.rows))
	for _, id := range t.sortedIDs() {
		row := t.rows[id]
		if match == nil || match(&row) {
			result = append(result, &row)
		}
	}
	return result, nil
}

// Len 记录数
func (t *Table[T, P]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[T, P]) sortedIDs() []uint {
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// persist 调用方持有写锁
func (t *Table[T, P]) persist() error {
	if t.onChange == nil {
		return nil
	}
	ids := t.sortedIDs()
	rows := make([]T, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, t.rows[id])
	}
	return t.onChange(rows)
}

// logUndo 在事务中登记撤销操作,调用方持有写锁
func (t *Table[T, P]) logUndo(ctx context.Context, restore func()) {
	log, ok := ctx.Value(txKey{}).(*undoLog)
	if !ok {
		return
	}
	log.add(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		restore()
		// 回滚后重新落盘,失败时内存状态仍以回滚结果为准
		_ = t.persist()
	})
}

package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// undoLog 事务内的撤销操作,回滚时逆序执行
type undoLog struct {
	mu    sync.Mutex
	undos []func()
}

func (l *undoLog) add(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undos = append(l.undos, fn)
}

func (l *undoLog) rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.undos) - 1; i >= 0; i-- {
		l.undos[i]()
	}
	l.undos = nil
}

// TxManager 内存事务管理器
// 设计说明:
// 1. 不提供隔离性,并发的借还由应用层按图书/会员加锁串行化
// 2. fn返回error时逆序撤销fn内的全部修改,保证不出现部分写入
// 3. 嵌套调用复用外层事务
type TxManager struct{}

// NewTxManager 创建内存事务管理器
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		log.rollback()
		return err
	}
	return nil
}

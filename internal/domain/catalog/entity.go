package catalog

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 作者、分类、出版社通过ID引用,不持有对象(规范化模型)
// 2. CopiesAvailable是可借副本数,永不为负
// 3. Available由CopiesAvailable派生,每次副本变动后重新计算,
//    持久化只是为了方便查询
type Book struct {
	ID              uint
	Title           string // 书名
	AuthorID        uint
	CategoryID      uint
	PublisherID     uint
	CopiesAvailable int  // 可借副本数
	Available       bool // 是否可借(= CopiesAvailable > 0)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(title string, authorID, categoryID, publisherID uint, copies int) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if copies < 0 {
		return nil, ErrInvalidCopies
	}

	now := time.Now()
	b := &Book{
		Title:           title,
		AuthorID:        authorID,
		CategoryID:      categoryID,
		PublisherID:     publisherID,
		CopiesAvailable: copies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.refreshAvailability()
	return b, nil
}

func (b *Book) GetID() uint   { return b.ID }
func (b *Book) SetID(id uint) { b.ID = id }

// IsAvailable 是否有可借副本
func (b *Book) IsAvailable() bool {
	return b.CopiesAvailable > 0
}

// LendCopy 借出一本(领域行为)
// 业务规则:无可借副本时拒绝
func (b *Book) LendCopy() error {
	if b.CopiesAvailable <= 0 {
		return ErrNoCopiesAvailable
	}
	b.CopiesAvailable--
	b.touch()
	return nil
}

// ReturnCopy 归还一本
func (b *Book) ReturnCopy() {
	b.CopiesAvailable++
	b.touch()
}

// SetCopies 调整馆藏副本数(管理员操作)
func (b *Book) SetCopies(copies int) error {
	if copies < 0 {
		return ErrInvalidCopies
	}
	b.CopiesAvailable = copies
	b.touch()
	return nil
}

// Rename 修改书名
func (b *Book) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	b.Title = title
	b.touch()
	return nil
}

func (b *Book) touch() {
	b.refreshAvailability()
	b.UpdatedAt = time.Now()
}

func (b *Book) refreshAvailability() {
	b.Available = b.CopiesAvailable > 0
}

// Author 作者
type Author struct {
	ID    uint
	Name  string
	Email string
	Phone string
}

func (a *Author) GetID() uint   { return a.ID }
func (a *Author) SetID(id uint) { a.ID = id }

// Publisher 出版社
type Publisher struct {
	ID    uint
	Name  string
	Email string
	Phone string
}

func (p *Publisher) GetID() uint   { return p.ID }
func (p *Publisher) SetID(id uint) { p.ID = id }

// Category 图书分类
type Category struct {
	ID          uint
	Name        string
	Description string
}

func (c *Category) GetID() uint   { return c.ID }
func (c *Category) SetID(id uint) { c.ID = id }

package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/catalog"
)

// 时间统一格式
const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// CreateBookRequest 新增图书请求
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Dune"`
	AuthorID    uint   `json:"author_id" binding:"required" example:"1"`
	CategoryID  uint   `json:"category_id" binding:"required" example:"1"`
	PublisherID uint   `json:"publisher_id" binding:"required" example:"1"`
	Copies      int    `json:"copies" binding:"min=0" example:"3"`
}

// UpdateBookRequest 修改图书请求,未传字段保持不变
type UpdateBookRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200" example:"Dune Messiah"`
	AuthorID    *uint   `json:"author_id" example:"1"`
	CategoryID  *uint   `json:"category_id" example:"1"`
	PublisherID *uint   `json:"publisher_id" example:"1"`
	Copies      *int    `json:"copies" binding:"omitempty,min=0" example:"2"`
}

// ToParams 转换为领域参数
func (r UpdateBookRequest) ToParams() catalog.UpdateBookParams {
	return catalog.UpdateBookParams{
		Title:       r.Title,
		AuthorID:    r.AuthorID,
		CategoryID:  r.CategoryID,
		PublisherID: r.PublisherID,
		Copies:      r.Copies,
	}
}

// SearchBooksRequest 图书查询参数
type SearchBooksRequest struct {
	Title string `form:"title" binding:"omitempty,max=200" example:"dune"`
}

// BookResponse 图书
type BookResponse struct {
	ID              uint   `json:"id" example:"1"`
	Title           string `json:"title" example:"Dune"`
	AuthorID        uint   `json:"author_id" example:"1"`
	CategoryID      uint   `json:"category_id" example:"1"`
	PublisherID     uint   `json:"publisher_id" example:"1"`
	CopiesAvailable int    `json:"copies_available" example:"3"`
	Available       bool   `json:"available" example:"true"`
	CreatedAt       string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt       string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// ToBookResponse 领域实体 → 响应
func ToBookResponse(b *catalog.Book) *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		PublisherID:     b.PublisherID,
		CopiesAvailable: b.CopiesAvailable,
		Available:       b.Available,
		CreatedAt:       formatTime(b.CreatedAt),
		UpdatedAt:       formatTime(b.UpdatedAt),
	}
}

// ToBookResponses 批量转换
func ToBookResponses(books []*catalog.Book) []*BookResponse {
	result := make([]*BookResponse, len(books))
	for i, b := range books {
		result[i] = ToBookResponse(b)
	}
	return result
}

// ContactRequest 作者/出版社
type ContactRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Frank Herbert"`
	Email string `json:"email" binding:"omitempty,email,max=100" example:"frank@example.com"`
	Phone string `json:"phone" binding:"max=30" example:"555-0100"`
}

// ContactResponse 作者/出版社
type ContactResponse struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"Frank Herbert"`
	Email string `json:"email,omitempty" example:"frank@example.com"`
	Phone string `json:"phone,omitempty" example:"555-0100"`
}

func ToAuthorResponse(a *catalog.Author) *ContactResponse {
	return &ContactResponse{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone}
}

func ToAuthorResponses(authors []*catalog.Author) []*ContactResponse {
	result := make([]*ContactResponse, len(authors))
	for i, a := range authors {
		result[i] = ToAuthorResponse(a)
	}
	return result
}

func ToPublisherResponse(p *catalog.Publisher) *ContactResponse {
	return &ContactResponse{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
}

func ToPublisherResponses(publishers []*catalog.Publisher) []*ContactResponse {
	result := make([]*ContactResponse, len(publishers))
	for i, p := range publishers {
		result[i] = ToPublisherResponse(p)
	}
	return result
}

// CategoryRequest 分类
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Science Fiction"`
	Description string `json:"description" binding:"max=1000" example:"Speculative fiction"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	ID          uint   `json:"id" example:"1"`
	Name        string `json:"name" example:"Science Fiction"`
	Description string `json:"description,omitempty" example:"Speculative fiction"`
}

func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func ToCategoryResponses(categories []*catalog.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = ToCategoryResponse(c)
	}
	return result
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

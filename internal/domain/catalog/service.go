package catalog

import (
	"context"
	"sort"
	"strings"
)

// Service 馆藏领域服务接口
// 设计说明:
// 1. 负责图书及其作者、分类、出版社的维护与查询
// 2. 借还书对副本数的修改不经过这里,由借阅用例在锁和事务内直接操作Book
type Service interface {
	// AddBook 新增图书
	// 业务规则:作者、分类、出版社必须已存在;副本数>=0
	AddBook(ctx context.Context, params AddBookParams) (*Book, error)

	// UpdateBook 修改图书,nil字段保持不变
	// 可借状态始终由副本数派生,不接受单独设置
	// 通过LockByID读取,需要与借还互斥时由调用方持有LockKey并开启事务
	UpdateBook(ctx context.Context, id uint, params UpdateBookParams) (*Book, error)

	DeleteBook(ctx context.Context, id uint) error
	GetBook(ctx context.Context, id uint) (*Book, error)
	GetAllBooks(ctx context.Context) ([]*Book, error)

	// SearchBooks 书名包含query(忽略大小写);query为空时按书名排序返回全部
	SearchBooks(ctx context.Context, query string) ([]*Book, error)
	GetAllBooksSortedByTitle(ctx context.Context) ([]*Book, error)

	GetBooksByAuthor(ctx context.Context, authorID uint) ([]*Book, error)
	GetBooksByPublisher(ctx context.Context, publisherID uint) ([]*Book, error)
	GetBooksByCategory(ctx context.Context, categoryID uint) ([]*Book, error)

	AddAuthor(ctx context.Context, name, email, phone string) (*Author, error)
	AddPublisher(ctx context.Context, name, email, phone string) (*Publisher, error)
	AddCategory(ctx context.Context, name, description string) (*Category, error)
	GetAllAuthors(ctx context.Context) ([]*Author, error)
	GetAllPublishers(ctx context.Context) ([]*Publisher, error)
	GetAllCategories(ctx context.Context) ([]*Category, error)
}

// AddBookParams 新增图书参数
type AddBookParams struct {
	Title       string
	AuthorID    uint
	CategoryID  uint
	PublisherID uint
	Copies      int
}

// UpdateBookParams 修改图书参数
type UpdateBookParams struct {
	Title       *string
	AuthorID    *uint
	CategoryID  *uint
	PublisherID *uint
	Copies      *int
}

type service struct {
	books      BookRepository
	authors    AuthorRepository
	publishers PublisherRepository
	categories CategoryRepository
}

// NewService 创建馆藏领域服务
func NewService(books BookRepository, authors AuthorRepository, publishers PublisherRepository, categories CategoryRepository) Service {
	return &service{
		books:      books,
		authors:    authors,
		publishers: publishers,
		categories: categories,
	}
}

func (s *service) AddBook(ctx context.Context, params AddBookParams) (*Book, error) {
	if err := s.checkRefs(ctx, params.AuthorID, params.CategoryID, params.PublisherID); err != nil {
		return nil, err
	}

	book, err := NewBook(params.Title, params.AuthorID, params.CategoryID, params.PublisherID, params.Copies)
	if err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) UpdateBook(ctx context.Context, id uint, params UpdateBookParams) (*Book, error) {
	book, err := s.books.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	authorID, categoryID, publisherID := book.AuthorID, book.CategoryID, book.PublisherID
	if params.AuthorID != nil {
		authorID = *params.AuthorID
	}
	if params.CategoryID != nil {
		categoryID = *params.CategoryID
	}
	if params.PublisherID != nil {
		publisherID = *params.PublisherID
	}
	if err := s.checkRefs(ctx, authorID, categoryID, publisherID); err != nil {
		return nil, err
	}
	book.AuthorID, book.CategoryID, book.PublisherID = authorID, categoryID, publisherID

	if params.Title != nil {
		if err := book.Rename(*params.Title); err != nil {
			return nil, err
		}
	}
	if params.Copies != nil {
		if err := book.SetCopies(*params.Copies); err != nil {
			return nil, err
		}
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.books.Delete(ctx, id)
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *service) GetAllBooks(ctx context.Context) ([]*Book, error) {
	return s.books.FindAll(ctx)
}

func (s *service) SearchBooks(ctx context.Context, query string) ([]*Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetAllBooksSortedByTitle(ctx)
	}

	books, err := s.books.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	result := make([]*Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), query) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (s *service) GetAllBooksSortedByTitle(ctx context.Context) ([]*Book, error) {
	books, err := s.books.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Title < books[j].Title
	})
	return books, nil
}

func (s *service) GetBooksByAuthor(ctx context.Context, authorID uint) ([]*Book, error) {
	if _, err := s.authors.FindByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.books.FindByAuthor(ctx, authorID)
}

func (s *service) GetBooksByPublisher(ctx context.Context, publisherID uint) ([]*Book, error) {
	if _, err := s.publishers.FindByID(ctx, publisherID); err != nil {
		return nil, err
	}
	return s.books.FindByPublisher(ctx, publisherID)
}

func (s *service) GetBooksByCategory(ctx context.Context, categoryID uint) ([]*Book, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.books.FindByCategory(ctx, categoryID)
}

func (s *service) AddAuthor(ctx context.Context, name, email, phone string) (*Author, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	author := &Author{Name: strings.TrimSpace(name), Email: email, Phone: phone}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *service) AddPublisher(ctx context.Context, name, email, phone string) (*Publisher, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	publisher := &Publisher{Name: strings.TrimSpace(name), Email: email, Phone: phone}
	if err := s.publishers.Create(ctx, publisher); err != nil {
		return nil, err
	}
	return publisher, nil
}

func (s *service) AddCategory(ctx context.Context, name, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	category := &Category{Name: strings.TrimSpace(name), Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) GetAllAuthors(ctx context.Context) ([]*Author, error) {
	return s.authors.FindAll(ctx)
}

func (s *service) GetAllPublishers(ctx context.Context) ([]*Publisher, error) {
	return s.publishers.FindAll(ctx)
}

func (s *service) GetAllCategories(ctx context.Context) ([]*Category, error) {
	return s.categories.FindAll(ctx)
}

// checkRefs 校验图书引用的作者、分类、出版社存在
func (s *service) checkRefs(ctx context.Context, authorID, categoryID, publisherID uint) error {
	if _, err := s.authors.FindByID(ctx, authorID); err != nil {
		return err
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return err
	}
	if _, err := s.publishers.FindByID(ctx, publisherID); err != nil {
		return err
	}
	return nil
}

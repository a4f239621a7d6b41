package handler

import (
	"github.com/gin-gonic/gin"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
// 修改和删除经由bookapp.Service,与借还共用图书锁
type BookHandler struct {
	catalog catalog.Service
	books   *bookapp.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(catalogService catalog.Service, bookService *bookapp.Service) *BookHandler {
	return &BookHandler{catalog: catalogService, books: bookService}
}

// AddBook 新增图书
// @Summary      新增图书
// @Description  作者、分类、出版社必须已存在
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "40406/40407/40408 引用不存在, 40008 副本数非法"
// @Router       /api/v1/books [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.catalog.AddBook(c.Request.Context(), catalog.AddBookParams{
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		PublisherID: req.PublisherID,
		Copies:      req.Copies,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(book))
}

// ListBooks 图书列表
// @Summary      图书列表/搜索
// @Description  title为空时按书名排序返回全部,否则按书名模糊匹配(忽略大小写)
// @Tags         图书
// @Produce      json
// @Param        title query string false "书名关键字"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.SearchBooksRequest
	if !bindQuery(c, &req) {
		return
	}

	books, err := h.catalog.SearchBooks(c.Request.Context(), req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithList(c, dto.ToBookResponses(books), len(books))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "40402 图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	book, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(book))
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  未传字段保持不变,可借状态由副本数重新计算
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.books.UpdateBook(c.Request.Context(), id, req.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookResponse(book))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.books.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

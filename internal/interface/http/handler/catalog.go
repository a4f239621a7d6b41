package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// CatalogHandler 作者、出版社、分类
type CatalogHandler struct {
	catalog catalog.Service
}

func NewCatalogHandler(catalogService catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// AddAuthor 新增作者
// @Summary      新增作者
// @Tags         馆藏
// @Accept       json
// @Produce      json
// @Param        request body dto.ContactRequest true "作者信息"
// @Success      200 {object} response.Response{data=dto.ContactResponse}
// @Router       /api/v1/authors [post]
func (h *CatalogHandler) AddAuthor(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	author, err := h.catalog.AddAuthor(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToAuthorResponse(author))
}

// ListAuthors 作者列表
// @Summary      作者列表
// @Tags         馆藏
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.ContactResponse}}
// @Router       /api/v1/authors [get]
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	authors, err := h.catalog.GetAllAuthors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToAuthorResponses(authors), len(authors))
}

// BooksByAuthor 作者的图书
// @Summary      作者的图书
// @Tags         馆藏
// @Produce      json
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Failure      200 {object} response.Response "40406 作者不存在"
// @Router       /api/v1/authors/{id}/books [get]
func (h *CatalogHandler) BooksByAuthor(c *gin.Context) {
	h.booksBy(c, h.catalog.GetBooksByAuthor)
}

// AddPublisher 新增出版社
// @Summary      新增出版社
// @Tags         馆藏
// @Accept       json
// @Produce      json
// @Param        request body dto.ContactRequest true "出版社信息"
// @Success      200 {object} response.Response{data=dto.ContactResponse}
// @Router       /api/v1/publishers [post]
func (h *CatalogHandler) AddPublisher(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	publisher, err := h.catalog.AddPublisher(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPublisherResponse(publisher))
}

// ListPublishers 出版社列表
// @Summary      出版社列表
// @Tags         馆藏
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.ContactResponse}}
// @Router       /api/v1/publishers [get]
func (h *CatalogHandler) ListPublishers(c *gin.Context) {
	publishers, err := h.catalog.GetAllPublishers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToPublisherResponses(publishers), len(publishers))
}

// BooksByPublisher 出版社的图书
// @Summary      出版社的图书
// @Tags         馆藏
// @Produce      json
// @Param        id path int true "出版社ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/publishers/{id}/books [get]
func (h *CatalogHandler) BooksByPublisher(c *gin.Context) {
	h.booksBy(c, h.catalog.GetBooksByPublisher)
}

// AddCategory 新增分类
// @Summary      新增分类
// @Tags         馆藏
// @Accept       json
// @Produce      json
// @Param        request body dto.CategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Router       /api/v1/categories [post]
func (h *CatalogHandler) AddCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalog.AddCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCategoryResponse(category))
}

// ListCategories 分类列表
// @Summary      分类列表
// @Tags         馆藏
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.CategoryResponse}}
// @Router       /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.GetAllCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToCategoryResponses(categories), len(categories))
}

// BooksByCategory 分类下的图书
// @Summary      分类下的图书
// @Tags         馆藏
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.BookResponse}}
// @Router       /api/v1/categories/{id}/books [get]
func (h *CatalogHandler) BooksByCategory(c *gin.Context) {
	h.booksBy(c, h.catalog.GetBooksByCategory)
}

func (h *CatalogHandler) booksBy(c *gin.Context, find func(context.Context, uint) ([]*catalog.Book, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	books, err := find(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToBookResponses(books), len(books))
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/discovery"
	appreview "github.com/xiebiao/library/internal/application/review"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// ReviewHandler 书评与评分排行
type ReviewHandler struct {
	reviews   *appreview.Service
	discovery *discovery.Service
}

func NewReviewHandler(reviews *appreview.Service, discoveryService *discovery.Service) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, discovery: discoveryService}
}

// AddReview 添加书评
// @Summary      添加书评
// @Description  只有借阅过该书的会员可以评论
// @Tags         书评
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.AddReviewRequest true "书评"
// @Success      200 {object} response.Response{data=dto.ReviewResponse}
// @Failure      200 {object} response.Response "40005 未借阅过, 40006 评分超出范围"
// @Router       /api/v1/books/{id}/reviews [post]
func (h *ReviewHandler) AddReview(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.reviews.AddReviewToBook(c.Request.Context(), req.MemberID, bookID, req.Rating, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToReviewResponse(r))
}

// BookReviews 图书的书评
// @Summary      图书书评
// @Tags         书评
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.ReviewResponse}}
// @Router       /api/v1/books/{id}/reviews [get]
func (h *ReviewHandler) BookReviews(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.GetAllReviewsOfBook(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToReviewResponses(reviews), len(reviews))
}

// Rating 平均评分
// @Summary      平均评分
// @Description  没有书评时为0
// @Tags         书评
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.RatingResponse}
// @Router       /api/v1/books/{id}/rating [get]
func (h *ReviewHandler) Rating(c *gin.Context) {
	bookID, ok := parseID(c, "id")
	if !ok {
		return
	}

	avg, err := h.reviews.CalculateAverageRating(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.RatingResponse{BookID: bookID, AverageRating: avg})
}

// Rankings 评分排行
// @Summary      评分排行
// @Description  全部图书按平均评分降序,同分保持图书ID顺序
// @Tags         书评
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.RankedBookResponse}}
// @Router       /api/v1/rankings/books [get]
func (h *ReviewHandler) Rankings(c *gin.Context) {
	rated, err := h.discovery.SortBooksByAvgRating(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToRankedBookResponses(rated), len(rated))
}

// ListReviews 全部书评
// @Summary      书评列表
// @Tags         书评
// @Produce      json
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.ReviewResponse}}
// @Router       /api/v1/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.GetAllReviews(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.ToReviewResponses(reviews), len(reviews))
}

// DeleteReview 删除书评
// @Summary      删除书评
// @Tags         书评
// @Produce      json
// @Param        id path int true "书评ID"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40405 书评不存在"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.DeleteReviewFromBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

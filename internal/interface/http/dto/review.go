package dto

import (
	"github.com/xiebiao/library/internal/application/discovery"
	"github.com/xiebiao/library/internal/domain/review"
)

// AddReviewRequest 添加书评请求
type AddReviewRequest struct {
	MemberID uint   `json:"member_id" binding:"required" example:"1"`
	Rating   int    `json:"rating" example:"5"` // 范围由领域层校验
	Comment  string `json:"comment" binding:"max=2000" example:"A classic."`
}

// ReviewResponse 书评
type ReviewResponse struct {
	ID        uint   `json:"id" example:"1"`
	BookID    uint   `json:"book_id" example:"1"`
	MemberID  uint   `json:"member_id" example:"1"`
	Rating    int    `json:"rating" example:"5"`
	Comment   string `json:"comment" example:"A classic."`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

func ToReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		BookID:    r.BookID,
		MemberID:  r.MemberID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

func ToReviewResponses(reviews []*review.Review) []*ReviewResponse {
	result := make([]*ReviewResponse, len(reviews))
	for i, r := range reviews {
		result[i] = ToReviewResponse(r)
	}
	return result
}

// RatingResponse 平均评分
type RatingResponse struct {
	BookID        uint    `json:"book_id" example:"1"`
	AverageRating float64 `json:"average_rating" example:"4"`
}

// RankedBookResponse 评分排行项
type RankedBookResponse struct {
	Book          *BookResponse `json:"book"`
	AverageRating float64       `json:"average_rating" example:"4.5"`
	ReviewCount   int           `json:"review_count" example:"2"`
}

func ToRankedBookResponses(rated []discovery.RatedBook) []*RankedBookResponse {
	result := make([]*RankedBookResponse, len(rated))
	for i, r := range rated {
		result[i] = &RankedBookResponse{
			Book:          ToBookResponse(r.Book),
			AverageRating: r.AverageRating,
			ReviewCount:   r.ReviewCount,
		}
	}
	return result
}

package review

import (
	"strings"
	"time"
)

// 评分范围
const (
	MinRating = 1
	MaxRating = 5
)

// Review 书评
// 同一会员可对同一本书多次评论
type Review struct {
	ID        uint
	BookID    uint
	MemberID  uint
	Rating    int    // 1-5
	Comment   string // 评论内容
	CreatedAt time.Time
}

// NewReview 创建书评(工厂方法)
func NewReview(bookID, memberID uint, rating int, comment string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	return &Review{
		BookID:    bookID,
		MemberID:  memberID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	}, nil
}

func (r *Review) GetID() uint   { return r.ID }
func (r *Review) SetID(id uint) { r.ID = id }

// AverageRating 平均分,没有书评时为0
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// Package review 书评用例
package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/review"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/review"

// Service 书评用例
// 业务规则:
// 1. 只有借阅历史(含已归还)中有这本书的会员可以评论
// 2. 同一会员可对同一本书多次评论
// 3. 删除不校验评论人
type Service struct {
	reviews review.Repository
	books   catalog.BookRepository
	members member.Repository
	loans   loan.Repository
	log     *zap.Logger
}

// NewService 创建书评用例
func NewService(
	reviews review.Repository,
	books catalog.BookRepository,
	members member.Repository,
	loans loan.Repository,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		reviews: reviews,
		books:   books,
		members: members,
		loans:   loans,
		log:     log,
	}
}

// AddReviewToBook 添加书评
func (s *Service) AddReviewToBook(ctx context.Context, memberID, bookID uint, rating int, comment string) (result *review.Review, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "review.AddReviewToBook")
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, apperrors.Annotate(err, "add review", bookID)
	}
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, apperrors.Annotate(err, "add review", memberID)
	}

	history, err := s.loans.FindByMember(ctx, memberID)
	if err != nil {
		return nil, apperrors.Annotate(err, "add review", bookID)
	}
	if !borrowed(history, bookID) {
		return nil, apperrors.Annotate(review.ErrBookNotBorrowed, "add review", bookID)
	}

	r, err := review.NewReview(bookID, memberID, rating, comment)
	if err != nil {
		return nil, apperrors.Annotate(err, "add review", bookID)
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, apperrors.Annotate(err, "add review", bookID)
	}

	s.log.Info("书评已添加",
		zap.Uint("review_id", r.ID),
		zap.Uint("book_id", bookID),
		zap.Uint("member_id", memberID),
		zap.Int("rating", rating),
	)
	return r, nil
}

// DeleteReviewFromBook 删除书评
func (s *Service) DeleteReviewFromBook(ctx context.Context, reviewID uint) error {
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return apperrors.Annotate(err, "delete review", reviewID)
	}
	s.log.Info("书评已删除", zap.Uint("review_id", reviewID))
	return nil
}

// GetAllReviewsOfBook 图书的全部书评
func (s *Service) GetAllReviewsOfBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, apperrors.Annotate(err, "get reviews", bookID)
	}
	return s.reviews.FindByBook(ctx, bookID)
}

// CalculateAverageRating 平均评分,没有书评时为0
func (s *Service) CalculateAverageRating(ctx context.Context, bookID uint) (float64, error) {
	reviews, err := s.GetAllReviewsOfBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return review.AverageRating(reviews), nil
}

// GetAllReviews 全部书评
func (s *Service) GetAllReviews(ctx context.Context) ([]*review.Review, error) {
	return s.reviews.FindAll(ctx)
}

func borrowed(history []*loan.Loan, bookID uint) bool {
	for _, l := range history {
		if l.BookID == bookID {
			return true
		}
	}
	return false
}

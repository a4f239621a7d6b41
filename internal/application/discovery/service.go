// Package discovery 基于借阅历史与评分的派生查询
package discovery

import (
	"context"
	"sort"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/review"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/discovery"

// RatedBook 图书及其平均评分
type RatedBook struct {
	Book          *catalog.Book
	AverageRating float64
	ReviewCount   int
}

// Service 推荐与排序
type Service struct {
	books   catalog.BookRepository
	members member.Repository
	loans   loan.Repository
	reviews review.Repository
}

// NewService 创建查询服务
func NewService(books catalog.BookRepository, members member.Repository, loans loan.Repository, reviews review.Repository) *Service {
	return &Service{
		books:   books,
		members: members,
		loans:   loans,
		reviews: reviews,
	}
}

// RecommendBooksForMember 按会员借过的分类推荐
// 候选:同分类、有可借副本、且不在会员借阅历史中的图书,按图书ID顺序。
// 没有借阅历史时返回空列表。
func (s *Service) RecommendBooksForMember(ctx context.Context, memberID uint) (result []*catalog.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "discovery.RecommendBooksForMember")
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, apperrors.Annotate(err, "recommend books", memberID)
	}

	history, err := s.loans.FindByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return []*catalog.Book{}, nil
	}

	seen := make(map[uint]bool, len(history))
	categories := make(map[uint]bool)
	for _, l := range history {
		if seen[l.BookID] {
			continue
		}
		seen[l.BookID] = true

		b, err := s.books.FindByID(ctx, l.BookID)
		if err != nil {
			// 借过但已下架的图书不参与分类统计
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		categories[b.CategoryID] = true
	}

	books, err := s.books.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result = make([]*catalog.Book, 0)
	for _, b := range books {
		if categories[b.CategoryID] && b.IsAvailable() && !seen[b.ID] {
			result = append(result, b)
		}
	}
	return result, nil
}

// SortBooksByAvgRating 全部图书按平均评分降序,评分相同保持图书ID顺序
func (s *Service) SortBooksByAvgRating(ctx context.Context) (result []RatedBook, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "discovery.SortBooksByAvgRating")
	defer func() { tracing.EndSpan(span, err) }()

	books, err := s.books.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byBook := make(map[uint][]*review.Review)
	for _, r := range reviews {
		byBook[r.BookID] = append(byBook[r.BookID], r)
	}

	result = make([]RatedBook, len(books))
	for i, b := range books {
		result[i] = RatedBook{
			Book:          b,
			AverageRating: review.AverageRating(byBook[b.ID]),
			ReviewCount:   len(byBook[b.ID]),
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AverageRating > result[j].AverageRating
	})
	return result, nil
}

package review

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 书评领域错误定义
var (
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "书评不存在")

	// ErrInvalidRating 评分超出1-5
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidRating, "评分必须在1到5之间")

	// ErrBookNotBorrowed 会员没有借过这本书
	ErrBookNotBorrowed = apperrors.New(apperrors.ErrCodeReviewNotAllowed, "只能评论借阅过的图书")
)

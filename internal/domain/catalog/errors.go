package catalog

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 馆藏领域错误定义
var (
	ErrBookNotFound      = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrAuthorNotFound    = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")
	ErrPublisherNotFound = apperrors.New(apperrors.ErrCodePublisherNotFound, "出版社不存在")
	ErrCategoryNotFound  = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrNoCopiesAvailable 无可借副本
	ErrNoCopiesAvailable = apperrors.New(apperrors.ErrCodeNoCopiesAvailable, "该书暂无可借副本")

	// ErrInvalidCopies 副本数不能为负
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidCopies, "副本数不能为负数")

	// ErrInvalidTitle 书名为空
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidName 名称为空
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "名称不能为空")
)

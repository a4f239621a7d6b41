package member

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 会员领域错误定义
var (
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "会员不存在")
	ErrStaffNotFound  = apperrors.New(apperrors.ErrCodeStaffNotFound, "馆员不存在")

	// ErrEmailNotRegistered 邮箱既不属于会员也不属于馆员
	ErrEmailNotRegistered = apperrors.New(apperrors.ErrCodeNotFound, "该邮箱未注册")

	ErrEmailDuplicate     = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrInvalidEmailFormat = apperrors.New(apperrors.ErrCodeInvalidEmailFormat, "邮箱格式不正确")
	ErrInvalidName        = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名不能为空")
)

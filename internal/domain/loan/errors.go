package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	ErrLoanNotFound        = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")
	ErrReservationNotFound = apperrors.New(apperrors.ErrCodeReservationNotFound, "预约不存在")

	// ErrLoanNotActive 借阅记录已归还
	ErrLoanNotActive = apperrors.New(apperrors.ErrCodeLoanNotActive, "该借阅记录不是借出状态")

	// ErrOverdueLoans 会员有逾期未还的借阅
	ErrOverdueLoans = apperrors.New(apperrors.ErrCodeOverdueLoans, "存在逾期未还的图书,请先归还")

	// ErrLoanLimitReached 会员借出数量达到上限
	ErrLoanLimitReached = apperrors.New(apperrors.ErrCodeLoanLimitReached, "借阅数量已达上限")
)

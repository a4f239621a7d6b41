package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapStorage 包装存储层错误（数据库、文件、缓存）
// 仓储实现遇到底层失败时统一使用，调用方通过IsStorage识别
func WrapStorage(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（资源不存在、业务规则校验失败、参数错误）
// - 5xxxx: 服务端错误（存储异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeStorage       = 50001 // 存储错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeLockFailed    = 50003 // 获取锁失败
	ErrCodeMessageBroker = 50004 // 消息队列错误

	// 资源错误（40400-40499）
	ErrCodeNotFound            = 40400 // 资源不存在(通用)
	ErrCodeMemberNotFound      = 40401 // 会员不存在
	ErrCodeBookNotFound        = 40402 // 图书不存在
	ErrCodeLoanNotFound        = 40403 // 借阅记录不存在
	ErrCodeReservationNotFound = 40404 // 预约不存在
	ErrCodeReviewNotFound      = 40405 // 书评不存在
	ErrCodeAuthorNotFound      = 40406 // 作者不存在
	ErrCodePublisherNotFound   = 40407 // 出版社不存在
	ErrCodeCategoryNotFound    = 40408 // 分类不存在
	ErrCodeStaffNotFound       = 40409 // 馆员不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeOverdueLoans       = 40001 // 存在逾期借阅
	ErrCodeLoanLimitReached   = 40002 // 借阅数量达到上限
	ErrCodeLoanNotActive      = 40003 // 借阅记录不是借出状态
	ErrCodeNoCopiesAvailable  = 40004 // 无可借副本
	ErrCodeReviewNotAllowed   = 40005 // 未借阅过不能评论
	ErrCodeInvalidRating      = 40006 // 评分超出范围
	ErrCodeEmailDuplicate     = 40007 // 邮箱已存在
	ErrCodeInvalidCopies      = 40008 // 副本数非法
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)
	ErrCodeInvalidLoanStatus  = 40010 // 借阅状态流转非法
	ErrCodeInvalidEmailFormat = 40011 // 邮箱格式不正确

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal   = New(ErrCodeInternal, "系统内部错误")
	ErrStorage    = New(ErrCodeStorage, "存储服务错误")
	ErrRedisError = New(ErrCodeRedisError, "缓存服务错误")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 错误分类
// =========================================

// Kind 错误分类，对应调用方需要区分处理的三类失败
type Kind int

const (
	KindUnknown      Kind = iota
	KindNotFound          // 引用的实体不存在
	KindBusinessRule      // 业务规则拒绝
	KindStorage           // 存储层失败
	KindInvalidParams     // 参数错误
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindBusinessRule:
		return "BUSINESS_RULE"
	case KindStorage:
		return "STORAGE"
	case KindInvalidParams:
		return "INVALID_PARAMS"
	default:
		return "UNKNOWN"
	}
}

// KindOf 根据错误码区间判断错误分类
func KindOf(err error) Kind {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return KindUnknown
	}
	switch {
	case appErr.Code >= 40400 && appErr.Code < 40500:
		return KindNotFound
	case appErr.Code >= 40000 && appErr.Code < 40100:
		return KindBusinessRule
	case appErr.Code >= 40900 && appErr.Code < 41000:
		return KindInvalidParams
	case appErr.Code >= 50000:
		return KindStorage
	default:
		return KindUnknown
	}
}

// IsNotFound 是否为实体不存在错误
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsBusinessRule 是否为业务规则错误
func IsBusinessRule(err error) bool { return KindOf(err) == KindBusinessRule }

// IsStorage 是否为存储错误
func IsStorage(err error) bool { return KindOf(err) == KindStorage }

// =========================================
// 操作上下文
// =========================================

// OpError 为错误附加操作名与实体标识
// errors.Is / errors.As 仍可穿透到原始错误
type OpError struct {
	Op  string
	ID  uint
	Err error
}

func (e *OpError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s(id=%d): %v", e.Op, e.ID, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Annotate 附加操作上下文，err为nil时返回nil
func Annotate(err error, op string, id uint) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, ID: id, Err: err}
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

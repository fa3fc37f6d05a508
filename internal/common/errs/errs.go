package errs

import (
	"errors"
	"fmt"
)

// 统一的业务错误分类（跨领域包共用）。
// 约定：
// - repo/service 层返回这里的哨兵错误（或用 %w 包装后返回）
// - handler 层用 errors.Is 判断并映射为 HTTP 状态码
var (
	// ErrNotFound 目标记录不存在（按 id 查找、restore/purge 等）。
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists 唯一约束冲突（如手机号、邮箱重复）。
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidTransition 状态机不允许的状态流转。
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError 入参校验失败（缺少必填字段等）。
// 校验在任何写库操作之前完成，失败时不会有部分写入。
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Msg)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// NewValidation 构造校验错误。
func NewValidation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation 判断是否为校验错误。
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

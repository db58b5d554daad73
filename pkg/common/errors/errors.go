// pkg/common/errors/errors.go

/*
  - 使用实例
    // 业务层返回哨兵错误或 *ValidationError:
    if errors.Is(err, apperrors.ErrNotFound) { ... }

    // 处理层按类型映射状态码:
    status := apperrors.StatusCode(err)
*/
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 定义原始错误
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("resource not found")
	ErrDuplicateEntry   = errors.New("duplicate entry")
	ErrConfiguration    = errors.New("configuration incomplete")
	ErrInternal         = errors.New("internal error")
	ErrDatabaseInternal = errors.New("database internal error")
)

// ValidationError 字段级校验错误，渲染为 422
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// FieldError builds a ValidationError holding a single message.
func FieldError(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when nothing was collected so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, ", ")
}

// Configuration 结构性配置错误，需要告警运维
func Configuration(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Internal 包装意外错误，细节只写日志不返回客户端
func Internal(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}

func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

// StatusCode 错误到 HTTP 状态码的映射
func StatusCode(err error) int {
	if _, ok := AsValidation(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsExpected 校验、鉴权与未找到错误属于请求级预期错误
func IsExpected(err error) bool {
	return StatusCode(err) < http.StatusInternalServerError
}

// ToHertz 包装成 Hertz 错误类型；预期错误标记为 public，其余为 private
func ToHertz(err error, meta interface{}) *hzte.Error {
	errType := hzte.ErrorTypePrivate
	if IsExpected(err) {
		errType = hzte.ErrorTypePublic
	}
	return hzte.New(err, errType, meta)
}

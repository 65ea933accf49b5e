package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode 错误码类型
type ErrorCode int

const (
	// Kafka相关错误 1xxx
	ErrCodeKafkaConnect ErrorCode = 1001
	ErrCodeKafkaConsume ErrorCode = 1002
	ErrCodeKafkaCommit  ErrorCode = 1003

	// 序列化相关错误 2xxx
	ErrCodeSerialize   ErrorCode = 2001
	ErrCodeDeserialize ErrorCode = 2002

	// 回调相关错误 3xxx
	ErrCodeCallback ErrorCode = 3001

	// 配置相关错误 5xxx
	ErrCodeConfigLoad     ErrorCode = 5001
	ErrCodeConfigValidate ErrorCode = 5002
)

// DispatchError 自定义错误类型
type DispatchError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *DispatchError {
	return &DispatchError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code ErrorCode, message string, err error) *DispatchError {
	return &DispatchError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf 返回错误链中最外层DispatchError的错误码，没有则返回0
func CodeOf(err error) ErrorCode {
	var de *DispatchError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return 0
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeKafkaConnect, ErrCodeKafkaCommit:
		return true
	default:
		return false
	}
}

package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration 批配置不合法，在任何调用之前返回。
	ErrConfiguration = errors.New("batch: invalid configuration")
	// ErrParameterNotFound 目标参数无法在参数表中解析。
	ErrParameterNotFound = errors.New("batch: parameter not found")
	// ErrUnknownOperation Registry 中没有该操作。
	ErrUnknownOperation = errors.New("batch: unknown operation")
)

// ConfigError 描述具体哪一项配置不合法。
type ConfigError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("batch: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("batch: invalid %s for %s(): %s", e.Field, e.Operation, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// ParamNotFoundError 表示 TargetParameter 与操作签名不匹配。
type ParamNotFoundError struct {
	Param     string
	Operation string
}

func (e *ParamNotFoundError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("batch: parameter '%s' not found", e.Param)
	}
	return fmt.Sprintf("batch: parameter '%s' not found in operation %s()", e.Param, e.Operation)
}

func (e *ParamNotFoundError) Unwrap() error { return ErrParameterNotFound }

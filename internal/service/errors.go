package service

import "errors"

// 业务层哨兵错误，handler 用 errors.Is 映射为 HTTP 状态码。
var (
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("storage failure")
	ErrNotFound        = errors.New("not found")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrUnauthenticated = errors.New("unauthenticated")
)

package service

import "errors"

// 错误分类，handler 通过 errors.Is 映射 HTTP 状态码；
// 不属于任何分类的错误一律视为内部错误
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error 业务错误，Error() 是可以直接返回给调用方的文案
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error { return &Error{kind: kind, msg: msg} }

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

var (
	ErrMissingCredentials = newError(ErrValidation, "Username and password are required")
	ErrPasswordTooShort   = newError(ErrValidation, "Password must be at least 6 characters")
	ErrPasswordTooLong    = newError(ErrValidation, "Password must be at most 72 bytes")
	ErrUsernameTaken      = newError(ErrConflict, "Username already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid credentials")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")

	ErrMissingPostFields = newError(ErrValidation, "Title, content, and category are required")
	ErrInvalidCategory   = newError(ErrValidation, "Invalid category")
	ErrPostNotFound      = newError(ErrNotFound, "Post not found")

	ErrTokenMalformed        = newError(ErrUnauthorized, "token is malformed")
	ErrTokenExpired          = newError(ErrUnauthorized, "token is expired")
	ErrTokenInvalidSignature = newError(ErrUnauthorized, "token signature is invalid")
)

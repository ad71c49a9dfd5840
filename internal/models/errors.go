package models

import "errors"

// Domain errors. Services return these so handlers can pick the status code
// and response shape without string matching.
var (
	// ErrUserNotFound: 존재하지 않는 이메일. 최상위 message로 내려간다.
	ErrUserNotFound = errors.New("해당 이메일로 가입된 사용자가 없습니다.")

	// ErrInvalidCredentials: 비밀번호 불일치. 필드 에러(errors.email)로 내려간다.
	ErrInvalidCredentials = errors.New("이메일 또는 비밀번호가 올바르지 않습니다.")

	ErrEmailTaken          = errors.New("이미 가입된 이메일입니다.")
	ErrInvalidRefreshToken = errors.New("유효하지 않은 refresh token입니다.")
	ErrTaskNotFound        = errors.New("할 일을 찾을 수 없습니다.")
)

// ValidationError is malformed input: empty title, unknown status, bad date.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

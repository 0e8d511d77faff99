package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode код ошибки конвейера диагностики.
type ErrorCode string

const (
	ErrPermissionDenied     ErrorCode = "PERMISSION_DENIED"     // нет доступа к камере
	ErrCaptureFailure       ErrorCode = "CAPTURE_FAILURE"       // камера не отдала кадр
	ErrNetworkFailure       ErrorCode = "NETWORK_FAILURE"       // нет ответа от сервиса распознавания
	ErrServiceError         ErrorCode = "SERVICE_ERROR"         // сервис ответил ошибкой
	ErrIdentificationFailed ErrorCode = "IDENTIFICATION_FAILED" // общее сообщение для пользователя
	ErrWriteFailure         ErrorCode = "WRITE_FAILURE"         // не удалось сохранить запись
	ErrReadFailure          ErrorCode = "READ_FAILURE"          // не удалось прочитать записи
	ErrUnauthenticated      ErrorCode = "UNAUTHENTICATED"       // нет текущей сессии
	ErrInvalidState         ErrorCode = "INVALID_STATE"         // переход запрещён в текущем состоянии
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrInternal             ErrorCode = "INTERNAL"
)

// Error структурированная ошибка с кодом и деталями.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает исходную ошибку.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewPermissionDenied создаёт ошибку для съёмки без разрешения на камеру.
func NewPermissionDenied() *Error {
	return &Error{
		Code:    ErrPermissionDenied,
		Message: "camera permission is not granted",
	}
}

// NewCaptureFailure создаёт ошибку, когда камера не смогла отдать кадр.
func NewCaptureFailure(err error) *Error {
	return &Error{
		Code:    ErrCaptureFailure,
		Message: "camera did not produce a frame",
		Err:     err,
	}
}

// NewNetworkFailure создаёт ошибку транспорта при обращении к сервису распознавания.
func NewNetworkFailure(err error) *Error {
	return &Error{
		Code:    ErrNetworkFailure,
		Message: "inference service is unreachable",
		Err:     err,
	}
}

// NewServiceError создаёт ошибку для неуспешного статуса сервиса распознавания.
func NewServiceError(status int, body string) *Error {
	return &Error{
		Code:    ErrServiceError,
		Message: fmt.Sprintf("inference service returned status %d", status),
		Details: map[string]any{"status": status, "body": body},
	}
}

// NewIdentificationFailed сворачивает NETWORK_FAILURE и SERVICE_ERROR в одно сообщение.
func NewIdentificationFailed(cause error) *Error {
	return &Error{
		Code:    ErrIdentificationFailed,
		Message: "identification failed",
		Err:     cause,
	}
}

// NewWriteFailure создаёт ошибку записи в хранилище.
func NewWriteFailure(err error) *Error {
	return &Error{
		Code:    ErrWriteFailure,
		Message: "failed to write record",
		Err:     err,
	}
}

// NewReadFailure создаёт ошибку чтения из хранилища.
func NewReadFailure(err error) *Error {
	return &Error{
		Code:    ErrReadFailure,
		Message: "failed to read records",
		Err:     err,
	}
}

// NewUnauthenticated создаёт ошибку для операции без текущей личности.
func NewUnauthenticated() *Error {
	return &Error{
		Code:    ErrUnauthenticated,
		Message: "no authenticated identity",
	}
}

// NewInvalidState создаёт ошибку запрещённого перехода.
func NewInvalidState(op, state string) *Error {
	return &Error{
		Code:    ErrInvalidState,
		Message: fmt.Sprintf("%s is not allowed in state %s", op, state),
		Details: map[string]any{"operation": op, "state": state},
	}
}

// NewInvalidRequest создаёт ошибку для неверных параметров.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewInternal создаёт ошибку для непредвиденных сбоев.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is проверяет, что в цепочке err есть *Error с данным кодом.
func Is(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// CodeOf возвращает код первой *Error в цепочке или пустую строку.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

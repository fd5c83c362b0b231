package serverutils

import "github.com/gofiber/fiber/v2"

// AppError carries an HTTP status alongside a user-facing message. Services
// return these; the error handler middleware turns them into the response
// envelope.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(fiber.StatusUnauthorized, message)
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(fiber.StatusNotFound, message)
}

func NewInternalError(message string) *AppError {
	return NewAppError(fiber.StatusInternalServerError, message)
}

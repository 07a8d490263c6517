package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

// ForbiddenError means the entity exists but belongs to another user.
type ForbiddenError struct {
	ErrorMessage
}

type UnauthorizedError struct {
	ErrorMessage
}

// InvalidReferenceError is returned when a referenced entity (account, currency)
// cannot be resolved for the caller.
type InvalidReferenceError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type InsufficientFundsError struct {
	ErrorMessage
	AccountNumber string
	Balance       float64
	Requested     float64
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Cause     error
}

func (e *DatabaseError) Unwrap() error { return e.Cause }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Cause     error
}

func (e *ExternalServiceError) Unwrap() error { return e.Cause }

type EncryptionError struct {
	ErrorMessage
	Cause error
}

func (e *EncryptionError) Unwrap() error { return e.Cause }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInvalidReferenceError(message string) *InvalidReferenceError {
	return &InvalidReferenceError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInsufficientFundsError(accountNumber string, balance, requested float64) *InsufficientFundsError {
	return &InsufficientFundsError{
		ErrorMessage:  ErrorMessage{Message: "insufficient funds in source account"},
		AccountNumber: accountNumber,
		Balance:       balance,
		Requested:     requested,
	}
}

func NewDatabaseError(operation, message string, cause error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Cause:        cause,
	}
}

func NewExternalServiceError(service string, transient bool, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s request failed: %v", service, cause)},
		Service:      service,
		Transient:    transient,
		Cause:        cause,
	}
}

func NewEncryptionError(message string, cause error) *EncryptionError {
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: message},
		Cause:        cause,
	}
}

package server

import (
	"fmt"
	"log"
	"time"
)

// ErrorType classifies server-side failures for logging and HTTP responses.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeDatabase      ErrorType = "database"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
	ErrorTypeNotFound      ErrorType = "not_found"
)

// ServerError is a structured error carried through the catalog management
// layers.
type ServerError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Error implements the error interface
func (e *ServerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewError creates a new ServerError
func NewError(errType ErrorType, message string, details string) *ServerError {
	return &ServerError{
		Type:      errType,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Unix(),
	}
}

// Wrap wraps a standard error as a ServerError
func Wrap(err error, errType ErrorType, message string) *ServerError {
	if err == nil {
		return nil
	}
	return NewError(errType, message, err.Error())
}

// LogError logs the error with a type-specific prefix
func (e *ServerError) LogError() {
	switch e.Type {
	case ErrorTypeValidation:
		log.Printf("VALIDATION ERROR: %s", e.Error())
	case ErrorTypeDatabase:
		log.Printf("DATABASE ERROR: %s", e.Error())
	case ErrorTypeConfiguration:
		log.Printf("CONFIGURATION ERROR: %s", e.Error())
	case ErrorTypeNotFound:
		log.Printf("NOT FOUND: %s", e.Error())
	default:
		log.Printf("ERROR: %s", e.Error())
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errType ErrorType) bool {
	if serverErr, ok := err.(*ServerError); ok {
		return serverErr.Type == errType
	}
	return false
}

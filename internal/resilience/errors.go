// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // Temporary network issues
	ErrorTypePermanent                    // Invalid input, unsupported formats
	ErrorTypeTimeout                      // Request timeouts
	ErrorTypeServiceUnavailable           // Extraction service downtime
	ErrorTypeResourceNotFound             // Missing resources
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeServiceUnavailable:
		return "ServiceUnavailable"
	case ErrorTypeResourceNotFound:
		return "ResourceNotFound"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// NewTransientError creates a retryable classified error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a non-retryable classified error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}

// ClassifyError categorizes an error for appropriate handling
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	// Check if already classified
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	errStr := strings.ToLower(err.Error())

	// Connection refused means the service endpoint is down, which is
	// handled differently from a flaky connection.
	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "service unavailable") {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeServiceUnavailable,
			Message:   fmt.Sprintf("Service unavailable: %v", err),
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("Network error: %v", err),
			Retryable: true,
		}
	}

	if isTimeoutError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTimeout,
			Message:   fmt.Sprintf("Timeout error: %v", err),
			Retryable: true,
		}
	}

	switch {
	case strings.Contains(errStr, "internal server error"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeServiceUnavailable,
			Message:   fmt.Sprintf("Service unavailable: %v", err),
			Retryable: true,
		}

	case strings.Contains(errStr, "not found") || strings.Contains(errStr, "does not exist"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeResourceNotFound,
			Message:   fmt.Sprintf("Resource not found: %v", err),
			Retryable: false,
		}

	case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "malformed") ||
		strings.Contains(errStr, "unsupported"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypePermanent,
			Message:   fmt.Sprintf("Invalid input: %v", err),
			Retryable: false,
		}
	}

	// Default to unknown, non-retryable
	return &ClassifiedError{
		Original:  err,
		Type:      ErrorTypeUnknown,
		Message:   fmt.Sprintf("Unknown error: %v", err),
		Retryable: false,
	}
}

// isNetworkError checks if an error is network-related
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// isTimeoutError checks if an error is timeout-related
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

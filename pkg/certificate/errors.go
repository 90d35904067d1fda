// Copyright 2025 The Nextcloud App Store Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package certificate

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of validation error.
type ErrorType int

const (
	// ErrTypeUnknown indicates an unclassified error.
	ErrTypeUnknown ErrorType = iota

	// ErrTypeInvalidCertificate indicates an unparsable certificate, chain or
	// CRL, or a certificate that failed path validation (untrusted, expired
	// or revoked). These causes are deliberately not distinguished further;
	// only the message text differs.
	ErrTypeInvalidCertificate

	// ErrTypeInvalidSignature indicates a detached-signature verification
	// failure (malformed payload or digest mismatch).
	ErrTypeInvalidSignature

	// ErrTypeAppIDMismatch indicates the certificate CN neither equals the
	// expected app id nor appears on the master allowlist.
	ErrTypeAppIDMismatch
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeInvalidCertificate:
		return "InvalidCertificate"
	case ErrTypeInvalidSignature:
		return "InvalidSignature"
	case ErrTypeAppIDMismatch:
		return "AppIdMismatch"
	default:
		return "UnknownError"
	}
}

// ValidationError is the structured error type for all validation failures.
//
// Message carries the caller-facing diagnostic (e.g. "Certificate is
// invalid"); Cause carries the underlying parser or verifier error whose
// text is appended to the rendered message. Callers that need to branch on
// the failure kind should use IsType rather than matching message text.
//
// Example usage:
//
//	if err := validator.ValidateCertificate(cert, chain, ""); err != nil {
//	    if certificate.IsType(err, certificate.ErrTypeInvalidCertificate) {
//	        // reject the upload
//	    }
//	}
type ValidationError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType

	// Message is the human-readable description of what went wrong.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error.
func NewValidationError(errType ErrorType, message string, cause error) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error is a ValidationError of a specific type.
//
// Example:
//
//	if IsType(err, ErrTypeInvalidSignature) {
//	    // handle invalid signature
//	}
func IsType(err error, errType ErrorType) bool {
	var validationErr *ValidationError
	if As(err, &validationErr) {
		return validationErr.Type == errType
	}
	return false
}

// As is a helper that extracts a *ValidationError from err, traversing
// wrapped error chains.
func As(err error, target **ValidationError) bool {
	if err == nil {
		return false
	}
	return errors.As(err, target)
}

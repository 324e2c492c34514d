// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"fmt"
	"net/http"
)

// InvalidTargetError represents a malformed request target.
// A request with an invalid target is rejected before any network attempt.
type InvalidTargetError struct {
	// Target is the offending base URL or path
	Target string

	// Reason explains why the target could not be used
	Reason string
}

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("invalid request target %q: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("invalid request target: %s", e.Reason)
}

// NetworkError represents a transport-level failure: connection refused,
// DNS resolution, or timeout. Network errors are retryable.
type NetworkError struct {
	// Operation describes the attempted call (e.g., "search", "content")
	Operation string

	// URL is the sanitized request URL
	URL string

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("network error during %s (%s): %v", e.Operation, e.URL, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// HTTPError represents a non-2xx response from the remote provider,
// reported after the retry budget is exhausted.
type HTTPError struct {
	// StatusCode is the HTTP status code of the final response
	StatusCode int

	// URL is the sanitized request URL
	URL string

	// Body is a truncated excerpt of the response body, if captured
	Body string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	status := http.StatusText(e.StatusCode)
	if status == "" {
		status = "unknown status"
	}
	if e.URL != "" {
		return fmt.Sprintf("provider returned HTTP %d %s for %s", e.StatusCode, status, e.URL)
	}
	return fmt.Sprintf("provider returned HTTP %d %s", e.StatusCode, status)
}

// Retryable reports whether the status code warrants another attempt.
// Only 5xx responses and 429 Too Many Requests are retryable.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ParseError represents a malformed markup payload. A parse failure is
// always fatal for the request that produced it: an empty tree downstream
// would be indistinguishable from "zero results found".
type ParseError struct {
	// Message describes the structural problem
	Message string

	// Cause is the underlying decoder error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed payload: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed payload: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// MappingError represents a well-formed payload that is missing the
// expected root envelope. It is fatal for the single record that produced
// it, never for the whole batch.
type MappingError struct {
	// Identifier is the record identifier being mapped, if known
	Identifier string

	// Missing names the absent envelope element
	Missing string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("cannot map record %s: missing %s envelope", e.Identifier, e.Missing)
	}
	return fmt.Sprintf("cannot map record: missing %s envelope", e.Missing)
}

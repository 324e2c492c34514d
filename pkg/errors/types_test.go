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

package errors_test

import (
	"errors"
	"fmt"
	"testing"

	rberrors "github.com/tombee/rechtsbron/pkg/errors"
)

func TestInvalidTargetError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *rberrors.InvalidTargetError
		wantMsg string
	}{
		{
			name: "with target",
			err: &rberrors.InvalidTargetError{
				Target: "://bad",
				Reason: "missing scheme",
			},
			wantMsg: `invalid request target "://bad": missing scheme`,
		},
		{
			name: "without target",
			err: &rberrors.InvalidTargetError{
				Reason: "empty base URL",
			},
			wantMsg: "invalid request target: empty base URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("InvalidTargetError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &rberrors.NetworkError{
		Operation: "search",
		Cause:     cause,
	}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the underlying cause")
	}

	wrapped := fmt.Errorf("fetching: %w", err)
	var netErr *rberrors.NetworkError
	if !errors.As(wrapped, &netErr) {
		t.Fatal("expected errors.As to find NetworkError through wrapping")
	}
	if netErr.Operation != "search" {
		t.Errorf("expected operation %q, got %q", "search", netErr.Operation)
	}
}

func TestHTTPError_Retryable(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{500, true},
		{502, true},
		{503, true},
		{429, true},
		{404, false},
		{400, false},
		{403, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := &rberrors.HTTPError{StatusCode: tt.status}
			if got := err.Retryable(); got != tt.retryable {
				t.Errorf("Retryable() for %d = %v, want %v", tt.status, got, tt.retryable)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "network error",
			err:  &rberrors.NetworkError{Operation: "content", Cause: errors.New("timeout")},
			want: true,
		},
		{
			name: "wrapped network error",
			err:  fmt.Errorf("detail fetch: %w", &rberrors.NetworkError{Cause: errors.New("eof")}),
			want: true,
		},
		{
			name: "http 503",
			err:  &rberrors.HTTPError{StatusCode: 503},
			want: true,
		},
		{
			name: "http 404",
			err:  &rberrors.HTTPError{StatusCode: 404},
			want: false,
		},
		{
			name: "parse error",
			err:  &rberrors.ParseError{Message: "unexpected EOF"},
			want: false,
		},
		{
			name: "invalid target",
			err:  &rberrors.InvalidTargetError{Reason: "empty base"},
			want: false,
		},
		{
			name: "mapping error",
			err:  &rberrors.MappingError{Identifier: "ECLI:NL:HR:2023:1", Missing: "RDF"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rberrors.Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("after retries: %w", &rberrors.HTTPError{StatusCode: 502})
	if got := rberrors.StatusCode(err); got != 502 {
		t.Errorf("StatusCode() = %d, want 502", got)
	}
	if got := rberrors.StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("StatusCode() for non-HTTP error = %d, want 0", got)
	}
}

func TestMappingError_Error(t *testing.T) {
	err := &rberrors.MappingError{Identifier: "ECLI:NL:HR:2023:123", Missing: "RDF"}
	want := "cannot map record ECLI:NL:HR:2023:123: missing RDF envelope"
	if got := err.Error(); got != want {
		t.Errorf("MappingError.Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	if rberrors.Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := errors.New("boom")
	wrapped := rberrors.Wrap(base, "doing thing")
	if wrapped.Error() != "doing thing: boom" {
		t.Errorf("unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base via errors.Is")
	}
}

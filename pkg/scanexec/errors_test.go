package scanexec

import (
	"errors"
	"fmt"
	"testing"
)

func TestScanexecError_WithErrorCodeAndMethods(t *testing.T) {
	// nil input
	if WithErrorCode(nil, "X") != nil {
		t.Errorf("expected nil for nil input")
	}

	base := errors.New("base")
	wrapped := WithErrorCode(base, "CODE123").(*codedError)
	if wrapped.Code() != "CODE123" {
		t.Errorf("expected CODE123")
	}
	if wrapped.Error() != "base" {
		t.Errorf("unexpected message")
	}
	if !errors.Is(wrapped, base) {
		t.Errorf("unwrap mismatch")
	}
}

func TestScanexecError_ErrorCodeBranches(t *testing.T) {
	if ErrorCode(nil) != "" {
		t.Errorf("expected empty for nil")
	}

	coded := WithErrorCode(errors.New("x"), "CUSTOM")
	if ErrorCode(coded) != "CUSTOM" {
		t.Errorf("expected CUSTOM")
	}

	tests := []struct {
		err  error
		code string
	}{
		{ErrMissingAPIKey, CodeMissingAPIKey},
		{fmt.Errorf("scan: %w", ErrInvalidFilter), CodeInvalidFilter},
		{ErrConnectionFailed, CodeConnectionFailed},
		{errors.New("random"), CodeScanFailure},
	}
	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.code {
			t.Errorf("ErrorCode(%v)=%s, want %s", tt.err, got, tt.code)
		}
	}
}

func TestScanexecError_ExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, 0},
		{WithErrorCode(errors.New("x"), CodeMissingAPIKey), 2},
		{WithErrorCode(errors.New("x"), CodeInvalidConfig), 2},
		{WithErrorCode(errors.New("x"), CodeInvalidFilter), 2},
		{WithErrorCode(errors.New("x"), CodeConnectionFailed), 1},
		{WithErrorCode(errors.New("x"), CodeExportFailed), 1},
		{WithErrorCode(errors.New("x"), "UNKNOWN"), 1}, // default
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.expected {
			t.Errorf("ExitCode(%v)=%d, want %d", tt.err, got, tt.expected)
		}
	}
}

func TestScanexecError_Suggestions(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeMissingAPIKey, 2},
		{CodeInvalidConfig, 2},
		{CodeInvalidFilter, 3},
		{CodeConnectionFailed, 2},
		{CodeExportFailed, 2},
		{CodeScanFailure, 2}, // default suggestions
	}
	for _, tt := range tests {
		err := WithErrorCode(errors.New("x"), tt.code)
		sugs := Suggestions(err)
		if len(sugs) != tt.want {
			t.Errorf("expected %d suggestions for %v, got %d", tt.want, tt.code, len(sugs))
		}
	}
	if Suggestions(nil) != nil {
		t.Errorf("expected nil for nil err")
	}
}

func TestScanexecError_Constructors(t *testing.T) {
	err := NewInvalidFilterError("category", "printer")
	if ErrorCode(err) != CodeInvalidFilter {
		t.Errorf("expected invalid filter code")
	}
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter")
	}
	if err.Error() != `invalid filter value: category "printer"` {
		t.Errorf("unexpected message %q", err.Error())
	}

	cause := errors.New("refused")
	err = NewConnectionError("http://localhost:2501", cause)
	if !errors.Is(err, cause) || !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("expected both the sentinel and the cause")
	}
	if ExitCode(err) != 1 {
		t.Errorf("expected exit code 1")
	}
}

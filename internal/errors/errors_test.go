package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeNotFound,
				Message: "stock price.xlsx not found",
				Cause:   nil,
			},
			wantMessage: "[NOT_FOUND] stock price.xlsx not found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to open workbook",
				Cause:   fmt.Errorf("zip: not a valid zip file"),
			},
			wantMessage: "[PARSING] failed to open workbook: zip: not a valid zip file",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			assert.Equal(t, tt.wantMessage, got)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	t.Run("unwrap with cause", func(t *testing.T) {
		cause := fmt.Errorf("original error")
		appErr := NewParsingError("parse failed", cause)

		assert.Equal(t, cause, appErr.Unwrap())
	})

	t.Run("unwrap without cause", func(t *testing.T) {
		appErr := NewNotFoundError("tv.xlsx")

		assert.Nil(t, appErr.Unwrap())
	})
}

func TestAppError_WithContext(t *testing.T) {
	tests := []struct {
		name          string
		appError      *AppError
		key           string
		value         interface{}
		expectedValue interface{}
	}{
		{
			name:          "add file context",
			appError:      NewParsingError("read failed", nil),
			key:           "file",
			value:         "book value.xlsx",
			expectedValue: "book value.xlsx",
		},
		{
			name:          "add column count context",
			appError:      NewValidationError("header row invalid", nil),
			key:           "columns",
			value:         3,
			expectedValue: 3,
		},
		{
			name: "add context to error with existing context",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "write failed",
				Context: map[string]interface{}{"path": "out.csv"},
			},
			key:           "rows",
			value:         120,
			expectedValue: 120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.WithContext(tt.key, tt.value)

			// Should return the same instance
			assert.Same(t, tt.appError, result)

			require.Contains(t, result.Context, tt.key)
			assert.Equal(t, tt.expectedValue, result.Context[tt.key])
			assert.NotNil(t, result.Context)
		})
	}
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	appErr := &AppError{
		Type:    ErrTypeConfig,
		Message: "bad config",
		Context: nil,
	}

	result := appErr.WithContext("key", "value")

	assert.NotNil(t, result.Context)
	assert.Equal(t, "value", result.Context["key"])
}

func TestNewAppError(t *testing.T) {
	tests := []struct {
		name      string
		errType   ErrorType
		message   string
		cause     error
		wantCause error
	}{
		{
			name:      "create parsing error with cause",
			errType:   ErrTypeParsing,
			message:   "workbook has no sheets",
			cause:     fmt.Errorf("empty file"),
			wantCause: fmt.Errorf("empty file"),
		},
		{
			name:      "create error without cause",
			errType:   ErrTypeStorage,
			message:   "write failed",
			cause:     nil,
			wantCause: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAppError(tt.errType, tt.message, tt.cause)

			assert.Equal(t, tt.errType, got.Type)
			assert.Equal(t, tt.message, got.Message)

			if tt.wantCause != nil {
				require.NotNil(t, got.Cause)
				assert.Equal(t, tt.wantCause.Error(), got.Cause.Error())
			} else {
				assert.Nil(t, got.Cause)
			}

			assert.NotNil(t, got.Context)
			assert.Empty(t, got.Context)
		})
	}
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "parsing error",
			build:    func() *AppError { return NewParsingError("bad sheet", nil) },
			wantType: ErrTypeParsing,
			wantMsg:  "bad sheet",
		},
		{
			name:     "storage error",
			build:    func() *AppError { return NewStorageError("cannot create output", nil) },
			wantType: ErrTypeStorage,
			wantMsg:  "cannot create output",
		},
		{
			name:     "validation error",
			build:    func() *AppError { return NewValidationError("value label required", nil) },
			wantType: ErrTypeValidation,
			wantMsg:  "value label required",
		},
		{
			name:     "not found error formats resource",
			build:    func() *AppError { return NewNotFoundError("mkt cap.xlsx") },
			wantType: ErrTypeNotFound,
			wantMsg:  "mkt cap.xlsx not found",
		},
		{
			name:     "config error",
			build:    func() *AppError { return NewConfigError("invalid output format", nil) },
			wantType: ErrTypeConfig,
			wantMsg:  "invalid output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.NotNil(t, got.Context)
		})
	}
}

func TestIsType(t *testing.T) {
	t.Run("matches direct AppError", func(t *testing.T) {
		err := NewNotFoundError("stock price.xlsx")

		assert.True(t, IsType(err, ErrTypeNotFound))
		assert.False(t, IsType(err, ErrTypeParsing))
	})

	t.Run("matches wrapped AppError", func(t *testing.T) {
		inner := NewParsingError("failed to open workbook", fmt.Errorf("corrupt"))
		wrapped := fmt.Errorf("converting tv.xlsx: %w", inner)

		assert.True(t, IsType(wrapped, ErrTypeParsing))
	})

	t.Run("plain error matches nothing", func(t *testing.T) {
		assert.False(t, IsType(errors.New("plain"), ErrTypeNotFound))
	})
}

func TestAppError_ErrorsIntegration(t *testing.T) {
	t.Run("errors.Is works with AppError", func(t *testing.T) {
		originalErr := fmt.Errorf("original error")
		appErr := NewParsingError("read failed", originalErr)

		assert.True(t, errors.Is(appErr, originalErr))

		otherErr := fmt.Errorf("other error")
		assert.False(t, errors.Is(appErr, otherErr))
	})

	t.Run("errors.As works with AppError", func(t *testing.T) {
		originalErr := &AppError{
			Type:    ErrTypeStorage,
			Message: "write failed",
		}
		wrappedErr := fmt.Errorf("wrapped: %w", originalErr)

		var appErr *AppError
		assert.True(t, errors.As(wrappedErr, &appErr))
		assert.Equal(t, ErrTypeStorage, appErr.Type)
		assert.Equal(t, "write failed", appErr.Message)
	})

	t.Run("nested error unwrapping", func(t *testing.T) {
		rootErr := fmt.Errorf("root cause")
		parseErr := NewParsingError("sheet unreadable", rootErr)
		storageErr := NewStorageError("conversion aborted", parseErr)

		assert.True(t, errors.Is(storageErr, parseErr))
		assert.True(t, errors.Is(storageErr, rootErr))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("file not found survives AppError wrapping", func(t *testing.T) {
		appErr := NewAppError(ErrTypeNotFound, "input workbook tv.xlsx", ErrFileNotFound)
		wrapped := fmt.Errorf("converting: %w", appErr)

		assert.True(t, errors.Is(wrapped, ErrFileNotFound))
		assert.False(t, errors.Is(wrapped, ErrEmptyWorkbook))
	})

	t.Run("empty workbook survives AppError wrapping", func(t *testing.T) {
		appErr := NewParsingError("sheet \"工作表1\" is empty", ErrEmptyWorkbook)

		assert.True(t, errors.Is(appErr, ErrEmptyWorkbook))
	})

	t.Run("sentinel renders as the cause", func(t *testing.T) {
		appErr := NewAppError(ErrTypeNotFound, "input workbook tv.xlsx", ErrFileNotFound)

		assert.Equal(t, "[NOT_FOUND] input workbook tv.xlsx: file not found", appErr.Error())
	})
}

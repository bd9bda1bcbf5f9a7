package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "SolverFailed",
			code:    SolverFailed,
			message: "solver returned no result",
		},
		{
			name:    "SuiteError",
			code:    SuiteError,
			message: "unknown suite",
		},
		{
			name:    "BudgetExhausted",
			code:    BudgetExhausted,
			message: "no evaluations left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())

			// New errors carry no wrapped original
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

// TestWrapError tests error wrapping functionality.
func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("original error")

	tests := []struct {
		name       string
		err        error
		code       ErrorCode
		wrapMsg    string
		expectNil  bool
		expectCode ErrorCode
	}{
		{
			name:       "Wrap normal error",
			err:        originalErr,
			code:       IOFailed,
			wrapMsg:    "writing stopping conditions",
			expectNil:  false,
			expectCode: IOFailed,
		},
		{
			name:      "Wrap nil error",
			err:       nil,
			code:      IOFailed,
			wrapMsg:   "writing stopping conditions",
			expectNil: true,
		},
		{
			name:       "Wrap custom error",
			err:        New(ResourceNotFound, "not found"),
			code:       SuiteError,
			wrapMsg:    "building suite",
			expectNil:  false,
			expectCode: SuiteError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.code, tt.wrapMsg)

			if tt.expectNil {
				assert.Nil(t, wrapped)
				return
			}

			assert.NotNil(t, wrapped)

			ourErr := wrapped.(*Error)
			assert.Equal(t, tt.expectCode, ourErr.Code())
			assert.Contains(t, ourErr.Error(), tt.wrapMsg)
			assert.Equal(t, tt.err, ourErr.Unwrap())
		})
	}
}

func TestWithFields(t *testing.T) {
	base := New(SolverFailed, "minimize failed")
	withCtx := WithFields(base, Fields{"problem": "f001_i01_d02", "restart": 3})

	var e *Error
	require.True(t, stderrors.As(withCtx, &e))
	assert.Equal(t, SolverFailed, e.Code())
	assert.Equal(t, "f001_i01_d02", e.Fields()["problem"])
	assert.Equal(t, 3, e.Fields()["restart"])

	// Merging keeps existing fields and overrides duplicates
	merged := WithFields(withCtx, Fields{"restart": 4})
	require.True(t, stderrors.As(merged, &e))
	assert.Equal(t, "f001_i01_d02", e.Fields()["problem"])
	assert.Equal(t, 4, e.Fields()["restart"])

	// Plain errors are promoted to Unknown
	plain := WithFields(stderrors.New("boom"), Fields{"k": "v"})
	require.True(t, stderrors.As(plain, &e))
	assert.Equal(t, Unknown, e.Code())

	assert.Nil(t, WithFields(nil, Fields{"k": "v"}))
}

func TestErrorIs(t *testing.T) {
	err := Wrap(New(BudgetExhausted, "budget"), SolverFailed, "outer")

	assert.True(t, stderrors.Is(err, New(SolverFailed, "any message")))
	assert.False(t, stderrors.Is(err, New(SuiteError, "any message")))
}

func TestCheckContext(t *testing.T) {
	assert.NoError(t, CheckContext(context.Background(), "run"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CheckContext(ctx, "run")
	require.Error(t, err)
	assert.Equal(t, Canceled, CodeOf(err))
	assert.Contains(t, err.Error(), "run canceled")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ParseFailed, CodeOf(New(ParseFailed, "bad literal")))
	assert.Equal(t, Unknown, CodeOf(stderrors.New("plain")))
}

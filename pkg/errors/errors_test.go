package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidOption, "bad value: %s", "item_width")

	if err.Code != ErrCodeInvalidOption {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidOption)
	}

	if err.Message != "bad value: item_width" {
		t.Errorf("Message = %v, want %v", err.Message, "bad value: item_width")
	}

	expected := "INVALID_OPTION: bad value: item_width"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFeed, cause, "decode feed")

	if err.Code != ErrCodeInvalidFeed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFeed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "INVALID_FEED: decode feed: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidConfig, "test"),
			code:     ErrCodeInvalidConfig,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInvalidConfig, "test"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInvalidConfig,
			expected: false,
		},
		{
			name:     "wrapped with fmt",
			err:      wrapf(New(ErrCodeInvalidOption, "inner")),
			code:     ErrCodeInvalidOption,
			expected: true,
		},
		{
			name:     "nil",
			err:      nil,
			code:     ErrCodeInvalidOption,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "feed %s missing", "a.json")
	if GetCode(err) != ErrCodeNotFound {
		t.Errorf("GetCode = %v, want %v", GetCode(err), ErrCodeNotFound)
	}
	if UserMessage(err) != "feed a.json missing" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}

	plain := errors.New("boom")
	if GetCode(plain) != "" {
		t.Errorf("GetCode(plain) = %q, want empty", GetCode(plain))
	}
	if UserMessage(plain) != "boom" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestIsConfig(t *testing.T) {
	if !IsConfig(New(ErrCodeInvalidConfig, "x")) {
		t.Error("INVALID_CONFIG should be a config error")
	}
	if !IsConfig(New(ErrCodeInvalidOption, "x")) {
		t.Error("INVALID_OPTION should be a config error")
	}
	if IsConfig(New(ErrCodeInvalidFeed, "x")) {
		t.Error("INVALID_FEED is not a config error")
	}
}

func wrapf(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "outer: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }

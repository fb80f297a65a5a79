// Package errors provides the structured error type used across Baymax.
//
// Errors raised at construction time (configuration, model artifacts) are
// fatal and surface to the CLI through FormatUserMessage. Errors raised while
// serving a message never reach the caller: they are logged and converted to
// fixed reply strings by the component that observed them.
package errors

import (
	"errors"
	"strings"
)

// ============================================================
// Error Categories
// ============================================================

// Category classifies an error for logging and reporting.
type Category int

const (
	// CategoryTemporary errors may succeed on a later request (network, backend busy)
	CategoryTemporary Category = iota

	// CategoryPermanent errors will not succeed without a change (missing artifact)
	CategoryPermanent

	// CategoryUser errors are caused by user input or user configuration
	CategoryUser

	// CategorySystem errors come from the host (process launch, filesystem)
	CategorySystem
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTemporary:
		return "temporary"
	case CategoryPermanent:
		return "permanent"
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// ============================================================
// AppError
// ============================================================

// AppError is the error type returned by Baymax packages.
type AppError struct {
	// Code is a stable identifier for programmatic handling
	Code string

	// Message is a human readable description
	Message string

	Category Category

	// Inner is the underlying error
	Inner error

	// Suggestions are recovery hints printed by the CLI
	Suggestions []string

	// Context carries debugging fields (paths, model names)
	Context map[string]interface{}
}

// Error returns the error message.
func (e *AppError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}

	sb.WriteString(e.Message)

	if e.Inner != nil {
		innerMsg := e.Inner.Error()
		if innerMsg != "" && innerMsg != e.Message {
			sb.WriteString(": ")
			sb.WriteString(innerMsg)
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Inner
}

// Is reports whether target is an AppError with the same code, or matches
// the wrapped error.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) && t.Code != "" {
		return t.Code == e.Code
	}
	return errors.Is(e.Inner, target)
}

// ============================================================
// Constructors
// ============================================================

// New creates a new AppError.
func New(code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// Wrap wraps err with a code and message. Returns nil when err is nil.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}

	wrapped := &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Inner:    err,
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		wrapped.Suggestions = appErr.Suggestions
		wrapped.Context = appErr.Context
	}
	return wrapped
}

// Temporary creates a temporary error.
func Temporary(code, message string) *AppError {
	return New(code, message, CategoryTemporary)
}

// Permanent creates a permanent error.
func Permanent(code, message string) *AppError {
	return New(code, message, CategoryPermanent)
}

// User creates a user input error.
func User(code, message string) *AppError {
	return New(code, message, CategoryUser)
}

// System creates a system-level error.
func System(code, message string) *AppError {
	return New(code, message, CategorySystem)
}

// ============================================================
// Builder
// ============================================================

// Builder provides fluent error construction.
type Builder struct {
	err *AppError
}

// NewBuilder starts building a new error. The category defaults to temporary.
func NewBuilder(code, message string) *Builder {
	return &Builder{
		err: &AppError{
			Code:     code,
			Message:  message,
			Category: CategoryTemporary,
			Context:  make(map[string]interface{}),
		},
	}
}

func (b *Builder) Temporary() *Builder {
	b.err.Category = CategoryTemporary
	return b
}

func (b *Builder) Permanent() *Builder {
	b.err.Category = CategoryPermanent
	return b
}

func (b *Builder) User() *Builder {
	b.err.Category = CategoryUser
	return b
}

func (b *Builder) System() *Builder {
	b.err.Category = CategorySystem
	return b
}

// Wrap sets the underlying error.
func (b *Builder) Wrap(err error) *Builder {
	b.err.Inner = err
	return b
}

// WithSuggestion adds a recovery suggestion.
func (b *Builder) WithSuggestion(suggestion string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, suggestion)
	return b
}

// WithContext adds a debugging field.
func (b *Builder) WithContext(key string, value interface{}) *Builder {
	b.err.Context[key] = value
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *AppError {
	return b.err
}

// ============================================================
// Error Codes
// ============================================================

const (
	// Model errors
	CodeUnknownModel      = "UNKNOWN_MODEL"
	CodeModelNotFound     = "MODEL_NOT_FOUND"
	CodeModelLoadFailed   = "MODEL_LOAD_FAILED"
	CodeModelUnavailable  = "MODEL_UNAVAILABLE"
	CodeUnknownChatFormat = "UNKNOWN_CHAT_FORMAT"
	CodeGenerationFailed  = "GENERATION_FAILED"

	// Capability errors
	CodeCapabilityFailed      = "CAPABILITY_FAILED"
	CodeCapabilityUnavailable = "CAPABILITY_UNAVAILABLE"

	// Network errors
	CodeNetworkUnavailable = "NETWORK_UNAVAILABLE"
	CodeNetworkTimeout     = "NETWORK_TIMEOUT"

	// Config errors
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeConfigNotFound = "CONFIG_NOT_FOUND"

	CodeInvalidInput = "INVALID_INPUT"
)

// ============================================================
// Helpers
// ============================================================

// GetCategory extracts the category from an error.
// Returns CategoryTemporary for non-AppError errors.
func GetCategory(err error) Category {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryTemporary
}

// GetCode returns the code of the outermost AppError in err's chain.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	return errors.Is(err, &AppError{Code: code})
}

// GetSuggestions returns recovery suggestions for an error.
func GetSuggestions(err error) []string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Suggestions
	}
	return nil
}

// FormatUserMessage formats an error for terminal output, with suggestions.
func FormatUserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(appErr.Error())
	if len(appErr.Suggestions) > 0 {
		sb.WriteString("\n\nSuggestions:")
		for _, s := range appErr.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

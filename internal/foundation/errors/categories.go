package errors

import "maps"

// ErrorCategory decides how a failure is reported and which exit code it maps to.
type ErrorCategory string

const (
	// CategoryConfig: unreadable or invalid configuration, missing category folders.
	CategoryConfig ErrorCategory = "config"
	// CategoryValidation: bad command line input or a check run with error findings.
	CategoryValidation ErrorCategory = "validation"
	// CategoryFileSystem: a document could not be read or written.
	CategoryFileSystem ErrorCategory = "filesystem"
	// CategoryDocument: a document whose structure cannot be processed safely.
	CategoryDocument ErrorCategory = "document"
	// CategoryInternal: bugs and unexpected states.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity selects the log level of a reported error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal" // nothing was processed
	SeverityError   ErrorSeverity = "error" // one file or folder failed
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// contextKeyPath names the document or folder an error is about.
const contextKeyPath = "path"

// ErrorContext holds structured fields logged alongside an error.
type ErrorContext map[string]any

// Set stores value under key, allocating the map on first use.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext, 1)
	}
	c[key] = value
	return c
}

// Get returns the value stored under key.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Merge returns a new context with the fields of both; other wins on conflicts.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if len(c) == 0 {
		return other
	}
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

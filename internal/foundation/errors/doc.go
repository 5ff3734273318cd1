// Package errors provides the classified error type used across apidocfm.
//
// A ClassifiedError carries a category (config, validation, filesystem,
// document, internal), a severity and structured context. The CLI adapter maps
// categories to process exit codes so scripted callers can tell a missing
// category folder from an unreadable file.
//
// Example usage:
//
//	err := errors.FileSystemError("write document").
//		WithPath(path).
//		WithCause(ioErr).
//		Build()
package errors

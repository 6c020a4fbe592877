// Package errors provides the classified error primitives used across llmstxt.
//
// Every error raised by the pipeline carries an ErrorCategory (the
// machine-checkable kind), an ErrorSeverity and an optional ErrorContext
// holding structured details such as the offending file path or the content
// selectors that were tried.
//
// Example usage:
//
//	err := errors.ProcessingError("no content matched").
//		WithContext(errors.CtxFilePath, "docs/intro.html").
//		WithContext(errors.CtxContentSelectors, selectors).
//		Build()
package errors

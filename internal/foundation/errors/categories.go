package errors

import "maps"

// ErrorCategory is the machine-checkable kind of an error.
type ErrorCategory string

const (
	// CategoryConfig covers invalid or conflicting user options.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryProcessing covers per-route conversion failures.
	CategoryProcessing ErrorCategory = "processing"
	CategoryCache      ErrorCategory = "cache"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategorySection    ErrorCategory = "section"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Fails the current route or stage
	SeverityWarning ErrorSeverity = "warning" // Run continues
	SeverityInfo    ErrorSeverity = "info"
)

// Well-known context keys.
const (
	CtxFilePath         = "filePath"
	CtxContentSelectors = "contentSelectors"
	CtxCachePath        = "cachePath"
	CtxSectionID        = "sectionId"
	CtxRoutePattern     = "routePattern"
	CtxRoute            = "route"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts into a new one, other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}

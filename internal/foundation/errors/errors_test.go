package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext(CtxSectionID, "api").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		id, ok := err.Context().GetString(CtxSectionID)
		require.True(t, ok)
		assert.Equal(t, "api", id)
	})

	t.Run("Wrapped chain detection", func(t *testing.T) {
		inner := CacheError("write failed").WithContext(CtxCachePath, "/tmp/cache.json").Build()
		err := fmt.Errorf("save: %w", inner)

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryCache))
		assert.Equal(t, CategoryCache, GetCategory(err))
		path, _ := GetContext(err).GetString(CtxCachePath)
		assert.Equal(t, "/tmp/cache.json", path)
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Empty(t, GetContext(err))
	})

	t.Run("Error string includes cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := WrapError(cause, CategoryFileSystem, "write markdown").Build()
		assert.Equal(t, "[filesystem] write markdown: disk full", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := ProcessingError("x").Build()
		derived := base.WithContext("k", "v")
		_, inBase := base.Context().Get("k")
		assert.False(t, inBase)
		v, _ := derived.Context().GetString("k")
		assert.Equal(t, "v", v)
	})
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "left"}
	b := ErrorContext{"b": 2, "shared": "right"}

	merged := a.Merge(b)

	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, 2, merged["b"])
	assert.Equal(t, "right", merged["shared"])
	assert.Equal(t, "left", a["shared"])
}

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "xrefsync.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		assert.Equal(t, ErrorContext{"file": "xrefsync.yaml"}, err.Context())
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ConfigError("test error").Build())

		classified, ok := AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, CategoryConfig, classified.Category())
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.False(t, HasCategory(err, CategoryRuntime))

		_, ok = AsClassified(stderrors.New("plain"))
		assert.False(t, ok)
	})
}

func TestErrorBuilder(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := WrapError(sentinel, CategoryNetwork, "network failure").
		WithContext("source", "https://example.com").
		Build()

	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, SeverityFatal, NetworkError("fetch").Build().Severity())
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "[network] network failure source=https://example.com: sentinel", err.Error())
}

func TestClassifiedError_Is(t *testing.T) {
	a := FileSystemError("read document").Build()
	b := FileSystemError("read document").WithContext("path", "x.md").Build()
	c := FileSystemError("write document").Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

package otp

import (
	"errors"
	"testing"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeGenerator(t *testing.T) {
	g, err := NewCodeGenerator(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultCodeLength, g.Length())

	g, err = NewCodeGenerator(10)
	require.NoError(t, err)
	assert.Equal(t, 10, g.Length())

	g, err = NewCodeGenerator(-1)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, goerror.ErrInvalidArgument)
}

func TestCodeGenerator_Generate(t *testing.T) {
	for _, length := range []int{1, 6, 8, 32} {
		g, err := NewCodeGenerator(length)
		require.NoError(t, err)

		code, err := g.Generate()
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.Regexp(t, `^[0-9]+$`, code)
	}
}

func TestCodeGenerator_Varies(t *testing.T) {
	g, err := NewCodeGenerator(16)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestCodeGenerator_RandomFailure(t *testing.T) {
	g, err := NewCodeGenerator(6)
	require.NoError(t, err)
	g.random = failingReader{}

	_, err = g.Generate()
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInternal, goerror.CodeOf(err))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

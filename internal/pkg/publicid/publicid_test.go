package publicid_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-marketplace/internal/pkg/apperrors"
	"loan-marketplace/internal/pkg/publicid"
)

type sequenceSource struct {
	values []int
	pos    int
	err    error
}

func (s *sequenceSource) Intn(max int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	v := s.values[s.pos%len(s.values)] % max
	s.pos++
	return v, nil
}

func TestGenerate(t *testing.T) {
	t.Run("Well formed ids", func(t *testing.T) {
		g := publicid.NewGenerator()
		for i := 0; i < 50; i++ {
			id, err := g.Generate()
			require.NoError(t, err)
			assert.True(t, publicid.Valid(id), "generated id %q must be valid", id)
			assert.Len(t, id, 7)
			assert.Equal(t, byte('#'), id[0])
		}
	})

	t.Run("Deterministic with fixed source", func(t *testing.T) {
		g := publicid.NewGeneratorWithSource(&sequenceSource{values: []int{0, 1, 2, 3, 4, 5}})
		id, err := g.Generate()
		require.NoError(t, err)
		assert.Equal(t, "#ABCDEF", id)
	})

	t.Run("Error - Source failure", func(t *testing.T) {
		g := publicid.NewGeneratorWithSource(&sequenceSource{err: errors.New("entropy exhausted")})
		_, err := g.Generate()
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}

func TestGenerateUnique(t *testing.T) {
	t.Run("First candidate free", func(t *testing.T) {
		g := publicid.NewGenerator()
		calls := 0
		id, err := g.GenerateUnique(func(string) (bool, error) {
			calls++
			return false, nil
		})
		require.NoError(t, err)
		assert.True(t, publicid.Valid(id))
		assert.Equal(t, 1, calls)
	})

	t.Run("Retries past collisions", func(t *testing.T) {
		g := publicid.NewGenerator()
		calls := 0
		id, err := g.GenerateUnique(func(string) (bool, error) {
			calls++
			return calls < 3, nil
		})
		require.NoError(t, err)
		assert.True(t, publicid.Valid(id))
		assert.Equal(t, 3, calls)
	})

	t.Run("Error - Budget exhausted", func(t *testing.T) {
		g := publicid.NewGenerator()
		_, err := g.GenerateUnique(func(string) (bool, error) {
			return true, nil
		})
		assert.ErrorIs(t, err, apperrors.ErrResourceExhausted)
	})

	t.Run("Error - Exists check fails", func(t *testing.T) {
		g := publicid.NewGenerator()
		checkErr := errors.New("db unavailable")
		_, err := g.GenerateUnique(func(string) (bool, error) {
			return false, checkErr
		})
		assert.ErrorIs(t, err, checkErr)
	})
}

func TestValid(t *testing.T) {
	assert.True(t, publicid.Valid("#ABC123"))
	assert.True(t, publicid.Valid("#000000"))
	assert.False(t, publicid.Valid("ABC123"))
	assert.False(t, publicid.Valid("#abc123"))
	assert.False(t, publicid.Valid("#ABC12"))
	assert.False(t, publicid.Valid("#ABC1234"))
	assert.False(t, publicid.Valid(""))
}

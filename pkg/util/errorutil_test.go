package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes through wrapped domain errors", func(t *testing.T) {
		err := fmt.Errorf("update: %w", NewNotFound("missing", nil))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, CodeNotFound, de.Code)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("maps no rows to not found", func(t *testing.T) {
		de := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("hides unknown errors behind internal error", func(t *testing.T) {
		de := ToDomainError(errors.New("connection reset by peer"))
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.NotContains(t, de.Message, "connection reset")
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}

func TestConfigErrorDoesNotLeakVariableNames(t *testing.T) {
	de := ToDomainError(NewConfigError("JWT_SECRET"))
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.NotContains(t, de.Message, "JWT_SECRET")
	assert.Contains(t, de.Error(), "JWT_SECRET")
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewInvalidStatus("bad", "X"), CodeInvalidStatus))
	assert.False(t, IsCode(NewInvalidStatus("bad", "X"), CodeMissingField))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
}

package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbort(t *testing.T) {
	cause := fmt.Errorf("%w: disk full", ErrSink)
	err := Abort("emit", cause)

	assert.ErrorIs(t, err, ErrSink)

	var stage *StageError
	require.True(t, errors.As(err, &stage))
	assert.Equal(t, "emit", stage.Stage)
	assert.Contains(t, err.Error(), "stage emit")
}

func TestUserError(t *testing.T) {
	cause := fmt.Errorf("%w: status 503", ErrSourceRead)
	err := NewUserError("Could not read the product catalog", cause)

	assert.Contains(t, err.Error(), "Could not read the product catalog")
	assert.Contains(t, err.Error(), "status 503")
	assert.ErrorIs(t, err, ErrSourceRead)

	var userErr *UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "Could not read the product catalog", userErr.UserMessage)

	bare := NewUserError("Nothing to do", nil)
	assert.Equal(t, "Nothing to do", bare.Error())
}

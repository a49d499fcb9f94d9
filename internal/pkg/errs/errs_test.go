package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "ORD-2041")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "ORD-2041", err.ID)
		assert.Equal(t, "object not found: ORD-2041", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with_cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := errs.NewObjectNotFoundErrorWithCause("variantId", "V-9", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: variantId, ID is: V-9 (cause: connection refused)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("quantity")

		assert.Equal(t, "value is invalid: quantity", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with_cause", func(t *testing.T) {
		cause := errors.New("must be positive")
		err := errs.NewValueIsInvalidErrorWithCause("quantity", cause)

		assert.Equal(t, "value is invalid: quantity (cause: must be positive)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("upsell tier", 7, 1, 4)

	assert.Equal(t, 7, err.Value)
	assert.Equal(t, "value is invalid: 7 is upsell tier, min value is 1, max value is 4", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("cancellation reason")

	assert.Equal(t, "value is required: cancellation reason", err.Error())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSanitizeStripsNewlines(t *testing.T) {
	err := errs.NewValueIsInvalidErrorWithCause("comment", errors.New("line one\nline two"))

	assert.NotContains(t, err.Error(), "\n")
	assert.Contains(t, err.Error(), "line one line two")
}

package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entity not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedUsage(t *testing.T) {
	errNotConstructed := errors.New("ReturnSlip must be created via NewReturnSlip")

	type ReturnSlip struct {
		quantity int
		guard    guard.ConstructorGuard
	}

	newReturnSlip := func(quantity int) (ReturnSlip, error) {
		if quantity <= 0 {
			return ReturnSlip{}, errors.New("quantity must be positive")
		}
		return ReturnSlip{quantity: quantity, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_instance_passes", func(t *testing.T) {
		slip, err := newReturnSlip(3)
		require.NoError(t, err)
		require.NoError(t, slip.guard.Validate(errNotConstructed))
		assert.Equal(t, 3, slip.quantity)
	})

	t.Run("zero_value_instance_fails", func(t *testing.T) {
		var slip ReturnSlip
		err := slip.guard.Validate(errNotConstructed)
		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})
}

package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	price, err := kernel.NewMoneyFromString("1290.50")
	require.NoError(t, err)

	subTotal := price.MulInt(3)
	assert.Equal(t, "3871.5", subTotal.String())

	total := subTotal.Add(kernel.NewMoneyFromInt(600))
	assert.Equal(t, "4471.5", total.String())

	assert.True(t, total.Sub(total).IsZero())
}

func TestMoney_NoDriftAcrossRepeatedRecomputation(t *testing.T) {
	unit, err := kernel.NewMoneyFromString("0.1")
	require.NoError(t, err)

	// 0.1 * 3 repeated many times must stay exactly 0.3.
	for range 1000 {
		assert.Equal(t, "0.3", unit.MulInt(3).String())
	}
}

func TestMoney_Validate(t *testing.T) {
	t.Run("negative_is_rejected", func(t *testing.T) {
		m, err := kernel.NewMoneyFromString("-1")
		require.NoError(t, err)
		require.ErrorIs(t, m.Validate(), kernel.ErrMoneyIsNegative)
		assert.True(t, m.IsNegative())
	})

	t.Run("zero_and_positive_pass", func(t *testing.T) {
		require.NoError(t, kernel.ZeroMoney().Validate())
		require.NoError(t, kernel.NewMoneyFromInt(10).Validate())
	})
}

func TestMoney_ZeroMeansUnset(t *testing.T) {
	assert.True(t, kernel.ZeroMoney().IsZero())
	assert.False(t, kernel.NewMoneyFromInt(1).IsZero())
}

func TestNewMoneyFromString_Invalid(t *testing.T) {
	_, err := kernel.NewMoneyFromString("12,90")
	require.Error(t, err)
}

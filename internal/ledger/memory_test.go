package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTransferFrom(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Mint("owner", decimal.NewFromInt(1000)))

	t.Run("without allowance", func(t *testing.T) {
		err := m.TransferFrom(ctx, "fund", "owner", "fund", decimal.NewFromInt(1))
		require.ErrorIs(t, err, ErrInsufficientAllowance)
	})

	t.Run("within allowance", func(t *testing.T) {
		require.NoError(t, m.Approve(ctx, "owner", "fund", decimal.NewFromInt(200)))
		require.NoError(t, m.TransferFrom(ctx, "fund", "owner", "fund", decimal.NewFromInt(150)))

		fund, _ := m.BalanceOf(ctx, "fund")
		owner, _ := m.BalanceOf(ctx, "owner")
		assert.True(t, fund.Equal(decimal.NewFromInt(150)))
		assert.True(t, owner.Equal(decimal.NewFromInt(850)))
		assert.True(t, m.Allowance("owner", "fund").Equal(decimal.NewFromInt(50)))
	})

	t.Run("exceeding remaining allowance", func(t *testing.T) {
		err := m.TransferFrom(ctx, "fund", "owner", "fund", decimal.NewFromInt(51))
		require.ErrorIs(t, err, ErrInsufficientAllowance)
		assert.True(t, m.Allowance("owner", "fund").Equal(decimal.NewFromInt(50)))
	})
}

func TestMemoryTransfer(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Mint("a", decimal.NewFromInt(10)))

	require.ErrorIs(t, m.Transfer(ctx, "a", "b", decimal.NewFromInt(11)), ErrInsufficientBalance)
	require.ErrorIs(t, m.Transfer(ctx, "a", "b", decimal.NewFromInt(-1)), ErrInvalidAmount)

	a, _ := m.BalanceOf(ctx, "a")
	assert.True(t, a.Equal(decimal.NewFromInt(10)), "failed transfers must not move funds")

	require.NoError(t, m.Transfer(ctx, "a", "b", decimal.NewFromInt(4)))
	b, _ := m.BalanceOf(ctx, "b")
	assert.True(t, b.Equal(decimal.NewFromInt(4)))
}

func TestAssets(t *testing.T) {
	m := NewMemory()
	assets := Assets{"BTK": m}

	got, err := assets.Ledger("BTK")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = assets.Ledger("XYZ")
	require.ErrorIs(t, err, ErrUnknownAsset)
}

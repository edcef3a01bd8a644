package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorenoc/retail-pos-platform/internal/cart"
	appErrors "github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
)

func product(id int64, suggested, min string, stock int) models.Product {
	return models.Product{
		ID:             id,
		Code:           "SKU",
		Description:    "Producto de prueba",
		SuggestedPrice: decimal.RequireFromString(suggested),
		MinPrice:       decimal.RequireFromString(min),
		Stock:          stock,
	}
}

func snapshotOf(products ...models.Product) cart.Snapshot {
	snap := cart.Snapshot{}
	for _, p := range products {
		snap[p.ID] = p
	}

	return snap
}

func TestAddLine(t *testing.T) {

	t.Run("Success - New Line At Quantity One", func(t *testing.T) {
		c := cart.New()
		p := product(1, "100.00", "90.00", 10)

		err := c.AddLine(p)

		require.NoError(t, err)
		require.Len(t, c.Lines, 1)
		line := c.Lines[0]
		assert.Equal(t, int64(1), line.ProductID)
		assert.Equal(t, 1, line.Quantity)
		assert.False(t, line.DiscountEnabled)
		assert.True(t, line.UnitSuggestedPrice.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, line.UnitMinPrice.Equal(decimal.RequireFromString("90.00")))
	})

	t.Run("Idempotent Add - Same Product Increments, Never Duplicates", func(t *testing.T) {
		c := cart.New()
		p := product(1, "100.00", "90.00", 10)

		require.NoError(t, c.AddLine(p))
		require.NoError(t, c.AddLine(p))
		require.NoError(t, c.AddLine(p))

		require.Len(t, c.Lines, 1)
		assert.Equal(t, 3, c.Lines[0].Quantity)
	})

	t.Run("Failure - Out Of Stock Leaves Cart Unchanged", func(t *testing.T) {
		c := cart.New()
		p := product(2, "15.00", "12.00", 0)

		err := c.AddLine(p)

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeOutOfStock, appErr.Code)
		assert.Empty(t, c.Lines)
	})

	t.Run("Failure - Increment Beyond Stock Ceiling", func(t *testing.T) {
		c := cart.New()
		p := product(3, "20.00", "18.00", 2)

		require.NoError(t, c.AddLine(p))
		require.NoError(t, c.AddLine(p))

		err := c.AddLine(p)

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeStockInsufficient, appErr.Code)
		assert.Equal(t, 2, c.Lines[0].Quantity)
	})
}

func TestRemoveLine(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddLine(product(1, "10.00", "9.00", 5)))
	require.NoError(t, c.AddLine(product(2, "20.00", "18.00", 5)))

	c.RemoveLine(1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(2), c.Lines[0].ProductID)

	// removing an absent product is a no-op
	c.RemoveLine(99)
	assert.Len(t, c.Lines, 1)
}

func TestSetQuantity(t *testing.T) {
	p := product(1, "100.00", "90.00", 4)
	snap := snapshotOf(p)

	newCart := func(t *testing.T) *cart.Cart {
		t.Helper()

		c := cart.New()
		require.NoError(t, c.AddLine(p))

		return c
	}

	t.Run("Success", func(t *testing.T) {
		c := newCart(t)

		err := c.SetQuantity(1, 4, snap)

		require.NoError(t, err)
		assert.Equal(t, 4, c.Lines[0].Quantity)
	})

	t.Run("Failure - Below One Is Rejected Unchanged", func(t *testing.T) {
		c := newCart(t)

		err := c.SetQuantity(1, 0, snap)

		require.Error(t, err)
		assert.Equal(t, 1, c.Lines[0].Quantity)
	})

	t.Run("Failure - Above Snapshot Stock", func(t *testing.T) {
		c := newCart(t)

		err := c.SetQuantity(1, 5, snap)

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeStockInsufficient, appErr.Code)
		assert.Equal(t, 1, c.Lines[0].Quantity)
	})

	t.Run("Failure - Product Not In Cart", func(t *testing.T) {
		c := newCart(t)

		err := c.SetQuantity(42, 2, snap)

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestSetDiscountEligible(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddLine(product(1, "100.00", "90.00", 10)))

	require.NoError(t, c.SetDiscountEligible(1, true))
	assert.True(t, c.Lines[0].DiscountEnabled)

	require.NoError(t, c.SetDiscountEligible(1, false))
	assert.False(t, c.Lines[0].DiscountEnabled)

	err := c.SetDiscountEligible(42, true)
	require.Error(t, err)
}

func TestValidateStock(t *testing.T) {

	t.Run("Empty Result When Stock Suffices", func(t *testing.T) {
		p := product(1, "10.00", "9.00", 10)
		c := cart.New()
		require.NoError(t, c.AddLine(p))

		shortages := c.ValidateStock(snapshotOf(p))

		assert.Empty(t, shortages)
	})

	t.Run("Collects Every Offending Line Without Mutating", func(t *testing.T) {
		p1 := product(1, "10.00", "9.00", 10)
		p2 := product(2, "20.00", "18.00", 10)
		c := cart.New()
		require.NoError(t, c.AddLine(p1))
		require.NoError(t, c.AddLine(p2))
		snap := snapshotOf(p1, p2)
		require.NoError(t, c.SetQuantity(1, 5, snap))
		require.NoError(t, c.SetQuantity(2, 8, snap))

		// stock moved under us between mutation and submission
		stale := snapshotOf(product(1, "10.00", "9.00", 3), product(2, "20.00", "18.00", 4))

		shortages := c.ValidateStock(stale)

		require.Len(t, shortages, 2)
		assert.Equal(t, cart.StockShortage{ProductID: 1, Description: "Producto de prueba", Requested: 5, Available: 3}, shortages[0])
		assert.Equal(t, cart.StockShortage{ProductID: 2, Description: "Producto de prueba", Requested: 8, Available: 4}, shortages[1])
		assert.Equal(t, 5, c.Lines[0].Quantity)
		assert.Equal(t, 8, c.Lines[1].Quantity)
	})

	t.Run("Product Dropped From Catalog Counts As Zero Stock", func(t *testing.T) {
		p := product(1, "10.00", "9.00", 10)
		c := cart.New()
		require.NoError(t, c.AddLine(p))

		shortages := c.ValidateStock(cart.Snapshot{})

		require.Len(t, shortages, 1)
		assert.Equal(t, 0, shortages[0].Available)
	})
}

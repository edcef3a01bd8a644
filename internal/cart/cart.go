// Package cart implements the working-order pricing engine: line items,
// the quantity-gated discount rule, totals, and the submission payload.
// All stock checks here are advisory against a catalog snapshot; the
// database remains the final authority at submission time.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
)

// Snapshot is the engine's read-only view of the product catalog, keyed by
// product id. It may be stale; that is by contract, not a defect.
type Snapshot map[int64]models.Product

// Line is one product entry in the working order. Effective unit price and
// line total are derived, never stored.
type Line struct {
	ProductID          int64           `json:"product_id"`
	Description        string          `json:"description"`
	UnitSuggestedPrice decimal.Decimal `json:"unit_suggested_price"`
	UnitMinPrice       decimal.Decimal `json:"unit_min_price"`
	Quantity           int             `json:"quantity"`
	DiscountEnabled    bool            `json:"discount_enabled"`
}

// Cart is an ordered collection of lines keyed by product id. Adding a
// product already present increments its quantity instead of inserting a
// duplicate line.
type Cart struct {
	Lines []Line `json:"lines"`
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}

	return -1
}

func (c *Cart) Line(productID int64) (Line, bool) {
	if i := c.find(productID); i >= 0 {
		return c.Lines[i], true
	}

	return Line{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// AddLine inserts the product at quantity 1, or increments the existing
// line. The mutation is rejected, state unchanged, when the snapshot says
// the stock ceiling would be exceeded.
func (c *Cart) AddLine(product models.Product) error {

	if i := c.find(product.ID); i >= 0 {
		if c.Lines[i].Quantity+1 > product.Stock {
			return errors.StockInsufficientError(
				fmt.Sprintf("Only %d units of %s available", product.Stock, product.Description))
		}

		c.Lines[i].Quantity++

		return nil
	}

	if product.Stock <= 0 {
		return errors.OutOfStockError(fmt.Sprintf("%s is out of stock", product.Description))
	}

	c.Lines = append(c.Lines, Line{
		ProductID:          product.ID,
		Description:        product.Description,
		UnitSuggestedPrice: product.SuggestedPrice,
		UnitMinPrice:       product.MinPrice,
		Quantity:           1,
	})

	return nil
}

// RemoveLine deletes the line unconditionally. Removing an absent product
// is not an error.
func (c *Cart) RemoveLine(productID int64) {
	if i := c.find(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// SetQuantity replaces the line's quantity. Quantities below 1 and
// quantities above the snapshot stock are rejected with the line unchanged.
func (c *Cart) SetQuantity(productID int64, quantity int, snapshot Snapshot) error {

	i := c.find(productID)
	if i < 0 {
		return errors.NotFoundError("Product is not in the cart")
	}

	if quantity < 1 {
		return errors.ValidationError("Quantity must be at least 1")
	}

	product, ok := snapshot[productID]
	if !ok {
		return errors.NotFoundError("Product is no longer in the catalog")
	}

	if quantity > product.Stock {
		return errors.StockInsufficientError(
			fmt.Sprintf("Only %d units of %s available", product.Stock, product.Description))
	}

	c.Lines[i].Quantity = quantity

	return nil
}

// SetDiscountEligible sets the per-line flag. The flag alone does not
// guarantee the minimum price applies; see the pricing rules.
func (c *Cart) SetDiscountEligible(productID int64, enabled bool) error {

	i := c.find(productID)
	if i < 0 {
		return errors.NotFoundError("Product is not in the cart")
	}

	c.Lines[i].DiscountEnabled = enabled

	return nil
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// StockShortage describes one line whose quantity exceeds the snapshot's
// known stock at pre-submission time.
type StockShortage struct {
	ProductID   int64  `json:"product_id"`
	Description string `json:"description"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// ValidateStock is the pre-submission gate. It collects every offending
// line and mutates nothing; an empty result means the cart may be
// submitted.
func (c *Cart) ValidateStock(snapshot Snapshot) []StockShortage {

	var shortages []StockShortage

	for _, line := range c.Lines {
		product, ok := snapshot[line.ProductID]

		available := 0
		if ok {
			available = product.Stock
		}

		if available < line.Quantity {
			shortages = append(shortages, StockShortage{
				ProductID:   line.ProductID,
				Description: line.Description,
				Requested:   line.Quantity,
				Available:   available,
			})
		}
	}

	return shortages
}

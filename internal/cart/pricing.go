package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// The discount-eligibility quantity gate is applied with two different
// thresholds in the observed system: the live cart display uses 2, the
// final submission computation uses 5. The pair is kept as named constants
// so the discrepancy stays explicit until a product owner unifies them.
const (
	DisplayDiscountMinQty = 2
	SubmitDiscountMinQty  = 5
)

// DiscountRule selects which threshold gates the minimum price.
type DiscountRule int

const (
	DisplayRule DiscountRule = iota
	SubmitRule
)

func (r DiscountRule) minQty() int {
	if r == SubmitRule {
		return SubmitDiscountMinQty
	}

	return DisplayDiscountMinQty
}

// TaxRate is the fixed 18% IGV applied on the submission subtotal.
var TaxRate = decimal.NewFromFloat(0.18)

// EffectiveUnitPrice returns the minimum price iff the line is
// discount-enabled and its quantity meets the rule's gate; otherwise the
// suggested price. The result is always one of the two stored price points.
func EffectiveUnitPrice(line Line, rule DiscountRule) decimal.Decimal {
	if line.DiscountEnabled && line.Quantity >= rule.minQty() {
		return line.UnitMinPrice
	}

	return line.UnitSuggestedPrice
}

func LineTotal(line Line, rule DiscountRule) decimal.Decimal {
	return EffectiveUnitPrice(line, rule).
		Mul(decimal.NewFromInt(int64(line.Quantity))).
		Round(2)
}

// Total is the live total shown while the order is being edited. It uses
// the display threshold rule.
func (c *Cart) Total() decimal.Decimal {

	total := decimal.Zero

	for _, line := range c.Lines {
		total = total.Add(LineTotal(line, DisplayRule))
	}

	return total
}

// Savings is the display-rule difference against suggested pricing.
func (c *Cart) Savings() decimal.Decimal {

	savings := decimal.Zero

	for _, line := range c.Lines {
		full := line.UnitSuggestedPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		savings = savings.Add(full.Sub(LineTotal(line, DisplayRule)))
	}

	return savings
}

type PayloadLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SubmissionPayload is the flattened, write-only view of the cart sent to
// order creation or update. Its totals are a proposal; persisted totals
// are whatever the orders store accepts.
type SubmissionPayload struct {
	Lines    []PayloadLine   `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Notes    string          `json:"notes"`
}

// Meta is the free-text metadata encoded into the payload's notes field.
type Meta struct {
	PaymentMethod string
	PointOfSale   string
}

// BuildSubmissionPayload prices every line under the submission threshold
// rule, sums the subtotal, and derives tax and total. Stock is not checked
// here; ValidateStock gates submission separately.
func (c *Cart) BuildSubmissionPayload(meta Meta) SubmissionPayload {

	payload := SubmissionPayload{
		Subtotal: decimal.Zero,
		Notes:    fmt.Sprintf("Pago: %s | POS: %s", meta.PaymentMethod, meta.PointOfSale),
	}

	for _, line := range c.Lines {
		pl := PayloadLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: EffectiveUnitPrice(line, SubmitRule),
			Subtotal:  LineTotal(line, SubmitRule),
		}

		payload.Lines = append(payload.Lines, pl)
		payload.Subtotal = payload.Subtotal.Add(pl.Subtotal)
	}

	payload.Tax = payload.Subtotal.Mul(TaxRate).Round(2)
	payload.Total = payload.Subtotal.Add(payload.Tax)

	return payload
}

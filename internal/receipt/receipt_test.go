package receipt_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/receipt"
)

func sampleOrder() *models.Order {
	return &models.Order{
		Number:    "PED-260830-A1B2",
		Subtotal:  decimal.RequireFromString("37.50"),
		Tax:       decimal.RequireFromString("6.75"),
		Total:     decimal.RequireFromString("44.25"),
		Notes:     "Pago: efectivo | POS: Caja 1",
		CreatedAt: time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{
				ProductID:   7,
				Description: "Detergente 500g",
				Quantity:    5,
				UnitPrice:   decimal.RequireFromString("7.50"),
				Subtotal:    decimal.RequireFromString("37.50"),
			},
		},
	}
}

func TestRender(t *testing.T) {
	t.Run("Lines Fit Forty Columns", func(t *testing.T) {
		ticket := receipt.Render(sampleOrder(), receipt.Options{
			StoreName: "Comercial San Martín",
			Footer:    "Gracias por su compra",
		})

		for _, line := range strings.Split(strings.TrimRight(ticket, "\n"), "\n") {
			assert.LessOrEqual(t, utf8.RuneCountInString(line), 40, "line too wide: %q", line)
		}
	})

	t.Run("Totals Right-Aligned", func(t *testing.T) {
		ticket := receipt.Render(sampleOrder(), receipt.Options{})

		assert.Contains(t, ticket, "SUBTOTAL")
		assert.Contains(t, ticket, "IGV 18%")

		for _, line := range strings.Split(ticket, "\n") {
			if strings.HasPrefix(line, "TOTAL") {
				assert.Equal(t, 40, len(line))
				assert.True(t, strings.HasSuffix(line, "44.25"))
			}
		}
	})

	t.Run("Item Quantity On Its Own Line", func(t *testing.T) {
		ticket := receipt.Render(sampleOrder(), receipt.Options{})

		assert.Contains(t, ticket, "Detergente 500g\n")
		assert.Contains(t, ticket, " 5 x 7.50")
		assert.Contains(t, ticket, "30/08/2026 14:05")
	})

	t.Run("Missing Description Falls Back To Product ID", func(t *testing.T) {
		order := sampleOrder()
		order.Items[0].Description = ""

		ticket := receipt.Render(order, receipt.Options{})

		assert.Contains(t, ticket, "#7\n")
	})

	t.Run("Notes And Footer Sections Are Optional", func(t *testing.T) {
		order := sampleOrder()
		order.Notes = ""

		plain := receipt.Render(order, receipt.Options{})
		assert.NotContains(t, plain, "Pago:")

		withFooter := receipt.Render(order, receipt.Options{Footer: "Gracias por su compra"})
		assert.Contains(t, withFooter, "Gracias por su compra")
	})

	t.Run("Long Description Truncated", func(t *testing.T) {
		order := sampleOrder()
		order.Items[0].Description = strings.Repeat("Detergente industrial ", 4)

		ticket := receipt.Render(order, receipt.Options{})

		for _, line := range strings.Split(strings.TrimRight(ticket, "\n"), "\n") {
			assert.LessOrEqual(t, utf8.RuneCountInString(line), 40)
		}
	})

	t.Run("Accented Text Measured In Runes", func(t *testing.T) {
		order := sampleOrder()
		order.Items[0].Description = "Limón x kg"

		ticket := receipt.Render(order, receipt.Options{StoreName: "Bodega Limón"})

		// 12 runes centered on 40 columns leaves 14 leading spaces.
		assert.Contains(t, ticket, strings.Repeat(" ", 14)+"Bodega Limón\n")
		assert.Contains(t, ticket, "Limón x kg\n")
	})

	t.Run("Truncation Never Splits A Rune", func(t *testing.T) {
		order := sampleOrder()
		order.Items[0].Description = strings.Repeat("Añejo ", 10)

		ticket := receipt.Render(order, receipt.Options{})

		assert.True(t, utf8.ValidString(ticket))

		for _, line := range strings.Split(strings.TrimRight(ticket, "\n"), "\n") {
			assert.LessOrEqual(t, utf8.RuneCountInString(line), 40)
		}
	})
}

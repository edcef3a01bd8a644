// Package receipt renders orders as plain-text tickets sized for 40-column
// thermal printers.
package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
)

const width = 40

type Options struct {
	StoreName string
	Footer    string
}

// Widths are counted in runes, not bytes. Descriptions carry accented
// Spanish text and byte counts would shift the amount column.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}

	return string([]rune(s)[:width])
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return truncate(s)
	}

	pad := (width - n) / 2

	return strings.Repeat(" ", pad) + s
}

func row(left, right string) string {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}

func rule() string {
	return strings.Repeat("-", width)
}

// Render formats the order as a ticket. Quantities go on their own line so
// long descriptions never collide with amounts.
func Render(order *models.Order, opts Options) string {

	var b strings.Builder

	if opts.StoreName != "" {
		b.WriteString(center(opts.StoreName) + "\n")
	}

	b.WriteString(center(order.Number) + "\n")
	b.WriteString(center(order.CreatedAt.Format("02/01/2006 15:04")) + "\n")
	b.WriteString(rule() + "\n")

	for _, item := range order.Items {
		desc := item.Description
		if desc == "" {
			desc = fmt.Sprintf("#%d", item.ProductID)
		}

		desc = truncate(desc)

		b.WriteString(desc + "\n")
		b.WriteString(row(
			fmt.Sprintf(" %d x %s", item.Quantity, item.UnitPrice.StringFixed(2)),
			item.Subtotal.StringFixed(2)) + "\n")
	}

	b.WriteString(rule() + "\n")
	b.WriteString(row("SUBTOTAL", order.Subtotal.StringFixed(2)) + "\n")
	b.WriteString(row("IGV 18%", order.Tax.StringFixed(2)) + "\n")
	b.WriteString(row("TOTAL", order.Total.StringFixed(2)) + "\n")

	if order.Notes != "" {
		b.WriteString(rule() + "\n")
		b.WriteString(order.Notes + "\n")
	}

	if opts.Footer != "" {
		b.WriteString(rule() + "\n")
		b.WriteString(center(opts.Footer) + "\n")
	}

	return b.String()
}

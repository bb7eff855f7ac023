package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"servitrack/internal/core/types"
)

func line(qty, price, tax string) InvoiceLine {
	return InvoiceLine{
		Quantity:  types.MustMoney(qty),
		UnitPrice: types.MustMoney(price),
		TaxRate:   types.MustMoney(tax),
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		price     string
		tax       string
		wantTotal string
	}{
		{"with tax", "2", "100", "16", "232"},
		{"zero tax", "1", "50", "0", "50"},
		{"zero quantity", "0", "100", "16", "0"},
		{"zero price", "3", "0", "16", "0"},
		{"fractional quantity", "1.5", "200", "16", "348"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(types.MustMoney(tt.qty), types.MustMoney(tt.price), types.MustMoney(tt.tax))
			assert.True(t, got.Equal(types.MustMoney(tt.wantTotal)),
				"LineTotal = %s, want %s", got, tt.wantTotal)
		})
	}
}

func TestLineTotal_Deterministic(t *testing.T) {
	a := LineTotal(types.MustMoney("3"), types.MustMoney("19.99"), types.MustMoney("16"))
	b := LineTotal(types.MustMoney("3"), types.MustMoney("19.99"), types.MustMoney("16"))
	assert.True(t, a.Equal(b))
}

func TestAggregates(t *testing.T) {
	lines := []InvoiceLine{
		line("2", "100", "16"),
		line("1", "50", "0"),
	}

	subtotal := AggregateSubtotal(lines)
	tax := AggregateTax(lines)
	total := AggregateTotal(lines)

	assert.True(t, subtotal.Equal(types.MustMoney("250")), "subtotal = %s", subtotal)
	assert.True(t, tax.Equal(types.MustMoney("32")), "tax = %s", tax)
	assert.True(t, total.Equal(types.MustMoney("282")), "total = %s", total)

	// Total is always subtotal + tax, and line totals sum to the aggregate.
	assert.True(t, total.Equal(subtotal.Add(tax)))
	sum := types.Zero()
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	assert.True(t, sum.Equal(total))
}

func TestAggregates_Empty(t *testing.T) {
	assert.True(t, AggregateSubtotal(nil).IsZero())
	assert.True(t, AggregateTax(nil).IsZero())
	assert.True(t, AggregateTotal(nil).IsZero())
}

func TestRequestTotals(t *testing.T) {
	r := ServiceRequest{Lines: []InvoiceLine{
		line("2", "100", "16"),
		line("1", "50", "0"),
	}}

	assert.True(t, r.Subtotal().Equal(types.MustMoney("250")))
	assert.True(t, r.Tax().Equal(types.MustMoney("32")))
	assert.True(t, r.Total().Equal(types.MustMoney("282")))
}

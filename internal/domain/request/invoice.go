package request

import (
	"servitrack/internal/core/types"
)

// InvoiceLine is one billable row of a request's quote or invoice. Lines
// exist only inside their parent request; they have no independent identity
// beyond it.
type InvoiceLine struct {
	Description string      `json:"description"`
	Quantity    types.Money `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	// TaxRate is the per-line tax percentage (IVA), 0-100.
	TaxRate types.Money `json:"taxRate"`
}

// Subtotal returns quantity * unitPrice for this line.
func (l InvoiceLine) Subtotal() types.Money {
	return l.Quantity.Mul(l.UnitPrice)
}

// Tax returns the tax amount for this line.
func (l InvoiceLine) Tax() types.Money {
	return l.Subtotal().Mul(l.TaxRate).Div(types.Hundred)
}

// Total returns subtotal plus tax. Never hand-edited; always recomputed.
func (l InvoiceLine) Total() types.Money {
	return l.Subtotal().Add(l.Tax())
}

// LineTotal computes quantity*unitPrice*(1+taxPercent/100). Zero-valued
// inputs contribute zero; negative inputs are a caller precondition and are
// not checked here. The computation is referentially transparent: identical
// inputs always produce the identical decimal.
func LineTotal(quantity, unitPrice, taxPercent types.Money) types.Money {
	return InvoiceLine{Quantity: quantity, UnitPrice: unitPrice, TaxRate: taxPercent}.Total()
}

// AggregateSubtotal sums quantity*unitPrice over all lines.
func AggregateSubtotal(lines []InvoiceLine) types.Money {
	sum := types.Zero()
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// AggregateTax sums each line's tax amount.
func AggregateTax(lines []InvoiceLine) types.Money {
	sum := types.Zero()
	for _, l := range lines {
		sum = sum.Add(l.Tax())
	}
	return sum
}

// AggregateTotal returns AggregateSubtotal + AggregateTax.
func AggregateTotal(lines []InvoiceLine) types.Money {
	return AggregateSubtotal(lines).Add(AggregateTax(lines))
}

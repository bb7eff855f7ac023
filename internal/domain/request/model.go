// Package request holds the service-request ("solicitud") domain:
// the entity, its invoice lines and totals, the status lifecycle and the
// in-memory store that orchestrates the external repository.
package request

import (
	"time"

	"servitrack/internal/core/types"
)

// DisplayDateFormat is the locale form dates take in listings. Wire dates
// stay ISO-8601; this form exists only for display.
const DisplayDateFormat = "02/01/2006 15:04"

// ServiceRequest is a maintenance/service ticket tracked through its
// lifecycle. The numeric ID is assigned by the repository and immutable.
type ServiceRequest struct {
	ID int `json:"id"`

	// Kind distinguishes quote requests from invoice requests ("cotización",
	// "factura"). It only steers which issue transition the UI offers.
	Kind string `json:"kind,omitempty"`

	Client    string `json:"client"`
	Requester string `json:"requester"`

	Representative string `json:"representative,omitempty"`
	Supplier       string `json:"supplier,omitempty"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	Contact        string `json:"contact,omitempty"`
	WorkType       string `json:"workType,omitempty"`
	MachineType    string `json:"machineType,omitempty"`
	MachineModel   string `json:"machineModel,omitempty"`
	SerialNumber   string `json:"serialNumber,omitempty"`
	Description    string `json:"description,omitempty"`
	Comments       string `json:"comments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`

	// CreatedAtDisplay is derived from CreatedAt on load; never written back.
	CreatedAtDisplay string `json:"createdAtDisplay,omitempty"`

	Status Status `json:"status"`

	// Selected mirrors the listing checkbox state. Reset on every load.
	Selected bool `json:"selected"`

	// Delivery receipt: both fields present or both absent.
	ReceivedBy string     `json:"receivedBy,omitempty"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`

	Acknowledgement *Note `json:"acknowledgement,omitempty"`
	WorkOrder       *Note `json:"workOrder,omitempty"`

	Lines []InvoiceLine `json:"invoiceLines"`
}

// Note is a dated free-text record attached by a transition
// (acknowledgement, work order).
type Note struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Normalize fills defaults for optional fields the repository may omit and
// derives display values. It is the single normalization step applied once
// per fetch; after it, the entity is fully populated.
func (r *ServiceRequest) Normalize() {
	if r.Lines == nil {
		r.Lines = make([]InvoiceLine, 0)
	}
	if r.Status == "" {
		r.Status = StatusCaptured
	}
	if !r.CreatedAt.IsZero() {
		r.CreatedAtDisplay = r.CreatedAt.Format(DisplayDateFormat)
	}
	r.Selected = false
}

// HasReceipt reports whether a delivery receipt is attached. The receipt
// invariant (both fields or neither) is enforced at the transition, so a
// non-empty ReceivedBy implies ReceivedAt is set.
func (r *ServiceRequest) HasReceipt() bool {
	return r.ReceivedBy != "" && r.ReceivedAt != nil
}

// Subtotal returns the tax-free sum over all invoice lines.
func (r *ServiceRequest) Subtotal() types.Money {
	return AggregateSubtotal(r.Lines)
}

// Tax returns the summed tax over all invoice lines.
func (r *ServiceRequest) Tax() types.Money {
	return AggregateTax(r.Lines)
}

// Total returns subtotal plus tax. Totals are always recomputed from the
// lines; they are never stored independently.
func (r *ServiceRequest) Total() types.Money {
	return AggregateTotal(r.Lines)
}

package request

import "fmt"

// Status is the workflow state of a service request. The string values are
// the canonical wire values used by the legacy repository, so they survive
// round-trips unchanged.
type Status string

const (
	StatusCaptured       Status = "Capturado"
	StatusPendingQuote   Status = "Pendiente de cotización"
	StatusPendingInvoice Status = "Pendiente de factura"
	StatusQuoted         Status = "Cotizado"
	StatusInvoiced       Status = "Facturado"
	StatusAcknowledged   Status = "Enterado"
	StatusInProcess      Status = "En proceso"
	StatusDelivered      Status = "Entregado"
	StatusCancelled      Status = "Cancelado"
)

// AllStatuses lists every valid status, in workflow order.
var AllStatuses = []Status{
	StatusCaptured,
	StatusPendingQuote,
	StatusPendingInvoice,
	StatusQuoted,
	StatusInvoiced,
	StatusAcknowledged,
	StatusInProcess,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of the closed set of statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// ParseStatus validates a wire status value.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", v)
	}
	return s, nil
}

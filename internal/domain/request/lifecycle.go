package request

import (
	"strings"
	"time"

	"servitrack/internal/core/apperror"
)

// Event names the lifecycle transitions a selected request can take.
type Event string

const (
	EventMarkPendingQuote   Event = "markPendingQuote"
	EventMarkPendingInvoice Event = "markPendingInvoice"
	EventIssueQuote         Event = "issueQuote"
	EventIssueInvoice       Event = "issueInvoice"
	EventAcknowledge        Event = "acknowledge"
	EventMarkInProcess      Event = "markInProcess"
	EventDeliver            Event = "deliver"
	EventCancel             Event = "cancel"
)

// Payload carries the data a transition attaches to the request. Fields are
// read only by the transitions that require them.
type Payload struct {
	// Acknowledge / markInProcess
	Note string
	At   time.Time

	// Deliver
	ReceivedBy string
}

// target maps each event to its resulting status.
var target = map[Event]Status{
	EventMarkPendingQuote:   StatusPendingQuote,
	EventMarkPendingInvoice: StatusPendingInvoice,
	EventIssueQuote:         StatusQuoted,
	EventIssueInvoice:       StatusInvoiced,
	EventAcknowledge:        StatusAcknowledged,
	EventMarkInProcess:      StatusInProcess,
	EventDeliver:            StatusDelivered,
	EventCancel:             StatusCancelled,
}

// Transition validates the event against the request's current state and,
// when allowed, applies the new status and payload in place. On rejection
// the request is left untouched and a ValidationError (precondition) or
// invalid-transition error is returned; nothing must be sent to the
// repository in that case.
func Transition(r *ServiceRequest, ev Event, p Payload) error {
	if r == nil {
		return apperror.NewValidation("no request selected")
	}

	to, ok := target[ev]
	if !ok {
		return apperror.NewValidation("unknown lifecycle event").WithDetail("event", string(ev))
	}

	// Terminal states admit no transitions, including cancel-after-deliver.
	if r.Status.Terminal() {
		return apperror.NewInvalidTransition(r.Status.String(), string(ev))
	}

	switch ev {
	case EventIssueQuote, EventIssueInvoice:
		if len(r.Lines) == 0 {
			return apperror.NewValidation("at least one invoice line is required").
				WithDetail("field", "invoiceLines")
		}
	case EventAcknowledge, EventMarkInProcess:
		if p.At.IsZero() {
			p.At = time.Now()
		}
	case EventDeliver:
		if strings.TrimSpace(p.ReceivedBy) == "" {
			return apperror.NewValidation("receivedBy is required to deliver").
				WithDetail("field", "receivedBy")
		}
	}

	r.Status = to
	switch ev {
	case EventAcknowledge:
		r.Acknowledgement = &Note{Text: p.Note, At: p.At}
	case EventMarkInProcess:
		r.WorkOrder = &Note{Text: p.Note, At: p.At}
	case EventDeliver:
		now := time.Now()
		r.ReceivedBy = strings.TrimSpace(p.ReceivedBy)
		r.ReceivedAt = &now
	}

	return nil
}

// changesFor builds the partial-update payload the repository receives for a
// transition. Every transition writes the status; payload-carrying
// transitions add their fields, and issuing a quote or invoice sends the
// lines with recomputed aggregate totals.
func changesFor(r *ServiceRequest, ev Event) Changes {
	ch := Changes{"status": r.Status.String()}

	switch ev {
	case EventIssueQuote, EventIssueInvoice:
		ch["invoiceLines"] = r.Lines
		ch["subtotal"] = r.Subtotal()
		ch["tax"] = r.Tax()
		ch["total"] = r.Total()
	case EventAcknowledge:
		ch["acknowledgement"] = *r.Acknowledgement
	case EventMarkInProcess:
		ch["workOrder"] = *r.WorkOrder
	case EventDeliver:
		ch["receivedBy"] = r.ReceivedBy
		ch["receivedAt"] = *r.ReceivedAt
	}

	return ch
}

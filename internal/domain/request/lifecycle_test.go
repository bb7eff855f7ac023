package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servitrack/internal/core/apperror"
	"servitrack/internal/core/types"
)

func TestTransition_Targets(t *testing.T) {
	tests := []struct {
		event Event
		want  Status
	}{
		{EventMarkPendingQuote, StatusPendingQuote},
		{EventMarkPendingInvoice, StatusPendingInvoice},
		{EventAcknowledge, StatusAcknowledged},
		{EventMarkInProcess, StatusInProcess},
		{EventCancel, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			r := &ServiceRequest{ID: 1, Status: StatusCaptured}
			err := Transition(r, tt.event, Payload{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Status)
		})
	}
}

func TestTransition_NilRequest(t *testing.T) {
	err := Transition(nil, EventCancel, Payload{})
	assert.True(t, apperror.IsValidation(err))
}

func TestTransition_UnknownEvent(t *testing.T) {
	r := &ServiceRequest{Status: StatusCaptured}
	err := Transition(r, Event("teleport"), Payload{})
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, StatusCaptured, r.Status)
}

func TestTransition_TerminalStates(t *testing.T) {
	for _, status := range []Status{StatusDelivered, StatusCancelled} {
		r := &ServiceRequest{Status: status}
		err := Transition(r, EventCancel, Payload{})

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok, "expected AppError from terminal %s", status)
		assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
		assert.Equal(t, status, r.Status, "terminal state must not change")
	}
}

func TestTransition_IssueRequiresLines(t *testing.T) {
	for _, ev := range []Event{EventIssueQuote, EventIssueInvoice} {
		r := &ServiceRequest{Status: StatusCaptured}
		err := Transition(r, ev, Payload{})
		assert.True(t, apperror.IsValidation(err), "%s without lines must be rejected", ev)
		assert.Equal(t, StatusCaptured, r.Status)
	}

	r := &ServiceRequest{
		Status: StatusCaptured,
		Lines: []InvoiceLine{{
			Quantity:  types.MustMoney("1"),
			UnitPrice: types.MustMoney("100"),
			TaxRate:   types.MustMoney("16"),
		}},
	}
	require.NoError(t, Transition(r, EventIssueQuote, Payload{}))
	assert.Equal(t, StatusQuoted, r.Status)
}

func TestTransition_AcknowledgeAttachesNote(t *testing.T) {
	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	r := &ServiceRequest{Status: StatusInvoiced}

	require.NoError(t, Transition(r, EventAcknowledge, Payload{Note: "recibido conforme", At: at}))

	require.NotNil(t, r.Acknowledgement)
	assert.Equal(t, "recibido conforme", r.Acknowledgement.Text)
	assert.Equal(t, at, r.Acknowledgement.At)
	assert.Equal(t, StatusAcknowledged, r.Status)
}

func TestTransition_AcknowledgeDefaultsDate(t *testing.T) {
	r := &ServiceRequest{Status: StatusInvoiced}
	require.NoError(t, Transition(r, EventAcknowledge, Payload{Note: "ok"}))
	require.NotNil(t, r.Acknowledgement)
	assert.False(t, r.Acknowledgement.At.IsZero())
}

func TestTransition_MarkInProcessOpensWorkOrder(t *testing.T) {
	r := &ServiceRequest{Status: StatusAcknowledged}
	require.NoError(t, Transition(r, EventMarkInProcess, Payload{Note: "OT-442"}))
	require.NotNil(t, r.WorkOrder)
	assert.Equal(t, "OT-442", r.WorkOrder.Text)
}

func TestTransition_Deliver(t *testing.T) {
	t.Run("blank receivedBy rejected", func(t *testing.T) {
		r := &ServiceRequest{Status: StatusInProcess}
		err := Transition(r, EventDeliver, Payload{ReceivedBy: "   "})
		assert.True(t, apperror.IsValidation(err))
		assert.Equal(t, StatusInProcess, r.Status)
		assert.False(t, r.HasReceipt())
	})

	t.Run("receipt attached on success", func(t *testing.T) {
		r := &ServiceRequest{Status: StatusInProcess}
		require.NoError(t, Transition(r, EventDeliver, Payload{ReceivedBy: " Carlos Diaz "}))
		assert.Equal(t, StatusDelivered, r.Status)
		assert.Equal(t, "Carlos Diaz", r.ReceivedBy)
		require.NotNil(t, r.ReceivedAt)
		assert.True(t, r.HasReceipt())
	})

	t.Run("cancel after deliver rejected", func(t *testing.T) {
		r := &ServiceRequest{Status: StatusInProcess}
		require.NoError(t, Transition(r, EventDeliver, Payload{ReceivedBy: "Carlos"}))

		err := Transition(r, EventCancel, Payload{})
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
		assert.Equal(t, StatusDelivered, r.Status)
	})
}

func TestChangesFor(t *testing.T) {
	t.Run("issue includes lines and totals", func(t *testing.T) {
		r := &ServiceRequest{
			Status: StatusCaptured,
			Lines: []InvoiceLine{
				{Quantity: types.MustMoney("2"), UnitPrice: types.MustMoney("100"), TaxRate: types.MustMoney("16")},
				{Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("50"), TaxRate: types.MustMoney("0")},
			},
		}
		require.NoError(t, Transition(r, EventIssueQuote, Payload{}))

		ch := changesFor(r, EventIssueQuote)
		assert.Equal(t, StatusQuoted.String(), ch["status"])
		assert.True(t, ch["subtotal"].(types.Money).Equal(types.MustMoney("250")))
		assert.True(t, ch["tax"].(types.Money).Equal(types.MustMoney("32")))
		assert.True(t, ch["total"].(types.Money).Equal(types.MustMoney("282")))
		assert.Len(t, ch["invoiceLines"], 2)
	})

	t.Run("plain transition sends only status", func(t *testing.T) {
		r := &ServiceRequest{Status: StatusCaptured}
		require.NoError(t, Transition(r, EventMarkPendingQuote, Payload{}))

		ch := changesFor(r, EventMarkPendingQuote)
		assert.Equal(t, Changes{"status": StatusPendingQuote.String()}, ch)
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servitrack/internal/core/apperror"
	"servitrack/internal/domain/audit"
	"servitrack/internal/domain/request"
	"servitrack/internal/infrastructure/http/v1/dto"
)

// RequestHandler serves the service-request listing, detail, edit and
// lifecycle endpoints on top of the request store.
type RequestHandler struct {
	*BaseHandler
	store *request.Store
	trail *audit.Trail
}

// NewRequestHandler creates a request handler.
func NewRequestHandler(store *request.Store, trail *audit.Trail) *RequestHandler {
	return &RequestHandler{
		BaseHandler: NewBaseHandler(),
		store:       store,
		trail:       trail,
	}
}

// List applies the query parameters to the store and returns the derived
// page. Parameters are sticky on the store, matching the behavior of a
// stateful back-office screen.
func (h *RequestHandler) List(c *gin.Context) {
	h.store.SetSearchTerm(c.Query("search"))

	if raw := c.Query("status"); raw != "" {
		status, err := request.ParseStatus(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("unknown status filter").WithDetail("status", raw))
			return
		}
		h.store.SetStatusFilter(status)
	} else {
		h.store.SetStatusFilter("")
	}

	if size := h.ParseIntQuery(c, "pageSize", 0); size > 0 {
		h.store.SetPageSize(size)
	}
	h.store.SetPage(h.ParseIntQuery(c, "page", 1))
	h.store.SetSort(c.Query("sort"), c.Query("order") == "desc")

	c.JSON(http.StatusOK, dto.FromRequestView(h.store.View()))
}

// Refresh reloads the collection from the repository.
func (h *RequestHandler) Refresh(c *gin.Context) {
	if err := h.store.Load(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRequestView(h.store.View()))
}

// Get returns the full record, fetched fresh for the detail view.
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	r, err := h.store.OpenDetail(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// OpenEdit fetches the record and opens it for editing.
func (h *RequestHandler) OpenEdit(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	r, err := h.store.OpenEdit(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRequest(r))
}

// Save applies the edit payload to the open edit record and persists it.
// On failure the edit stays open so the user can retry.
func (h *RequestHandler) Save(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}

	var req dto.EditRequest
	if !h.BindJSON(c, &req) {
		return
	}

	editing := h.store.Editing()
	if editing == nil || editing.ID != id {
		if _, err := h.store.OpenEdit(c.Request.Context(), id); err != nil {
			h.Error(c, err)
			return
		}
		editing = h.store.Editing()
	}

	req.ApplyTo(editing)
	h.store.SetEditing(editing)

	if err := h.store.Save(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "request saved"})
}

// CloseEdit discards the open edit without saving.
func (h *RequestHandler) CloseEdit(c *gin.Context) {
	h.store.CloseEdit()
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Delete removes the request.
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "request deleted"})
}

// --- Lifecycle transitions ---

// transition selects the target request and runs fn against it.
func (h *RequestHandler) transition(c *gin.Context, fn func(*gin.Context) error) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.Select(id); err != nil {
		h.Error(c, err)
		return
	}
	if err := fn(c); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// MarkPendingQuote moves the request to the pending-quote state.
func (h *RequestHandler) MarkPendingQuote(c *gin.Context) {
	h.transition(c, func(c *gin.Context) error {
		return h.store.MarkPendingQuote(c.Request.Context())
	})
}

// MarkPendingInvoice moves the request to the pending-invoice state.
func (h *RequestHandler) MarkPendingInvoice(c *gin.Context) {
	h.transition(c, func(c *gin.Context) error {
		return h.store.MarkPendingInvoice(c.Request.Context())
	})
}

// IssueQuote issues the quote from the current invoice lines.
func (h *RequestHandler) IssueQuote(c *gin.Context) {
	h.transition(c, func(c *gin.Context) error {
		return h.store.IssueQuote(c.Request.Context())
	})
}

// IssueInvoice issues the invoice from the current invoice lines.
func (h *RequestHandler) IssueInvoice(c *gin.Context) {
	h.transition(c, func(c *gin.Context) error {
		return h.store.IssueInvoice(c.Request.Context())
	})
}

// Acknowledge records the client acknowledgement note.
func (h *RequestHandler) Acknowledge(c *gin.Context) {
	var req dto.AcknowledgeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.transition(c, func(c *gin.Context) error {
		p := request.Payload{Note: req.Note}
		if req.At != nil {
			p.At = *req.At
		}
		return h.store.Acknowledge(c.Request.Context(), p)
	})
}

// MarkInProcess opens the work order and moves the request to in-process.
func (h *RequestHandler) MarkInProcess(c *gin.Context) {
	var req dto.WorkOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.transition(c, func(c *gin.Context) error {
		p := request.Payload{Note: req.Note}
		if req.At != nil {
			p.At = *req.At
		}
		return h.store.MarkInProcess(c.Request.Context(), p)
	})
}

// Deliver closes the request with a delivery receipt.
func (h *RequestHandler) Deliver(c *gin.Context) {
	var req dto.DeliverRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.transition(c, func(c *gin.Context) error {
		return h.store.Deliver(c.Request.Context(), req.ReceivedBy)
	})
}

// Cancel cancels the request.
func (h *RequestHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context) error {
		return h.store.Cancel(c.Request.Context())
	})
}

// History returns the recorded lifecycle transitions for the request,
// newest first.
func (h *RequestHandler) History(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	if h.trail == nil {
		h.Error(c, apperror.NewNotFound("audit trail", id))
		return
	}
	entries, err := h.trail.History(id, h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

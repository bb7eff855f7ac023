package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servitrack/internal/domain/parts"
	"servitrack/internal/infrastructure/http/v1/dto"
)

// PartsHandler serves the spare-parts inventory endpoints.
type PartsHandler struct {
	*BaseHandler
	store *parts.Store
}

// NewPartsHandler creates a parts handler.
func NewPartsHandler(store *parts.Store) *PartsHandler {
	return &PartsHandler{
		BaseHandler: NewBaseHandler(),
		store:       store,
	}
}

// List applies the query parameters to the store and returns the derived
// page. The status filter matches the derived stock status.
func (h *PartsHandler) List(c *gin.Context) {
	h.store.SetSearchTerm(c.Query("search"))
	h.store.SetStatusFilter(parts.StockStatus(c.Query("status")))
	if size := h.ParseIntQuery(c, "pageSize", 0); size > 0 {
		h.store.SetPageSize(size)
	}
	h.store.SetPage(h.ParseIntQuery(c, "page", 1))

	c.JSON(http.StatusOK, dto.FromPartView(h.store.View()))
}

// Refresh reloads the inventory from the repository.
func (h *PartsHandler) Refresh(c *gin.Context) {
	if err := h.store.Load(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPartView(h.store.View()))
}

// Get returns one part with its derived stock status.
func (h *PartsHandler) Get(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPart(p))
}

// Create registers a new part.
func (h *PartsHandler) Create(c *gin.Context) {
	var req dto.PartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	part := req.ToDomain(0)
	if err := h.store.Create(c.Request.Context(), part); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true, Message: "part created"})
}

// Update saves the full edited part.
func (h *PartsHandler) Update(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	var req dto.PartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.store.Save(c.Request.Context(), req.ToDomain(id)); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "part saved"})
}

// Delete removes the part.
func (h *PartsHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "part deleted"})
}

// RegisterMovement records a stock entry or withdrawal. Withdrawals beyond
// the available stock are rejected.
func (h *PartsHandler) RegisterMovement(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}
	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.store.RegisterMovement(c.Request.Context(), req.ToDomain(id)); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "movement registered"})
}

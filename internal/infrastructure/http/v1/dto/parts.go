package dto

import (
	"time"

	"servitrack/internal/domain/parts"
)

// PartResponse is the API shape of a spare part, with its derived
// availability status.
type PartResponse struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Supplier    string `json:"supplier,omitempty"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"minStock"`
	Price       string `json:"price"`
	Location    string `json:"location,omitempty"`
	StockStatus string `json:"stockStatus"`
}

// FromPart maps the domain entity to its API shape.
func FromPart(p *parts.SparePart) *PartResponse {
	return &PartResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Supplier:    p.Supplier,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Price:       p.Price.String(),
		Location:    p.Location,
		StockStatus: string(p.StockStatus()),
	}
}

// PartListResponse is one derived page of the parts listing.
type PartListResponse struct {
	Items []*PartResponse `json:"items"`
	PageMeta
}

// FromPartView maps the store's derived view.
func FromPartView(v parts.View) PartListResponse {
	items := make([]*PartResponse, 0, len(v.Items))
	for i := range v.Items {
		items = append(items, FromPart(&v.Items[i]))
	}
	return PartListResponse{
		Items: items,
		PageMeta: PageMeta{
			Page:         v.Page,
			PageSize:     v.PageSize,
			TotalItems:   v.TotalItems,
			TotalPages:   v.TotalPages,
			VisiblePages: v.VisiblePages,
		},
	}
}

// PartRequest carries a part to create or save.
type PartRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Supplier    string  `json:"supplier"`
	Stock       int     `json:"stock" binding:"gte=0"`
	MinStock    int     `json:"minStock" binding:"gte=0"`
	Price       float64 `json:"price" binding:"gte=0"`
	Location    string  `json:"location"`
}

// ToDomain maps the payload onto a domain part with the given id.
func (p PartRequest) ToDomain(id int) *parts.SparePart {
	return &parts.SparePart{
		ID:          id,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Supplier:    p.Supplier,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Price:       floatToMoney(p.Price),
		Location:    p.Location,
	}
}

// MovementRequest carries a stock entry or withdrawal.
type MovementRequest struct {
	Kind        string     `json:"kind" binding:"required,oneof=entrada salida"`
	Quantity    int        `json:"quantity" binding:"gt=0"`
	Responsible string     `json:"responsible"`
	Notes       string     `json:"notes"`
	At          *time.Time `json:"at"`
}

// ToDomain maps the payload onto a domain movement for the given part.
func (m MovementRequest) ToDomain(partID int) parts.Movement {
	mv := parts.Movement{
		PartID:      partID,
		Kind:        parts.MovementKind(m.Kind),
		Quantity:    m.Quantity,
		Responsible: m.Responsible,
		Notes:       m.Notes,
	}
	if m.At != nil {
		mv.At = *m.At
	}
	return mv
}

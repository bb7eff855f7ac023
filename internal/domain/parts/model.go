// Package parts holds the spare-parts ("refacciones") inventory domain:
// the part entity with its derived stock status, stock movements, and the
// store that orchestrates the external repository.
package parts

import (
	"strings"
	"time"

	"servitrack/internal/core/apperror"
	"servitrack/internal/core/types"
)

// StockStatus is derived from stock levels; it is never stored.
type StockStatus string

const (
	StockAvailable StockStatus = "Disponible"
	StockLow       StockStatus = "Bajo stock"
	StockDepleted  StockStatus = "Agotado"
)

// AllStockStatuses lists the derivable statuses, for filter dropdowns.
var AllStockStatuses = []StockStatus{StockAvailable, StockLow, StockDepleted}

// SparePart is one inventory article.
type SparePart struct {
	ID          int         `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Supplier    string      `json:"supplier,omitempty"`
	Stock       int         `json:"stock"`
	MinStock    int         `json:"minStock"`
	Price       types.Money `json:"price"`
	Location    string      `json:"location,omitempty"`
}

// StockStatus derives the part's availability from its stock levels.
func (p SparePart) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockDepleted
	case p.MinStock > 0 && p.Stock < p.MinStock:
		return StockLow
	default:
		return StockAvailable
	}
}

// Validate checks the fields required before a part may be created or saved.
func (p SparePart) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.Stock < 0 || p.MinStock < 0 {
		return apperror.NewValidation("stock levels must not be negative")
	}
	return nil
}

// MovementKind distinguishes incoming from outgoing stock.
type MovementKind string

const (
	MovementIn  MovementKind = "entrada"
	MovementOut MovementKind = "salida"
)

// Movement is one stock entry or withdrawal.
type Movement struct {
	PartID      int          `json:"partId"`
	Kind        MovementKind `json:"kind"`
	Quantity    int          `json:"quantity"`
	Responsible string       `json:"responsible,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	At          time.Time    `json:"at"`
}

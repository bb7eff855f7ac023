package parts

import (
	"testing"

	"servitrack/internal/core/apperror"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minStock int
		want     StockStatus
	}{
		{"above minimum", 10, 5, StockAvailable},
		{"at minimum", 5, 5, StockAvailable},
		{"below minimum", 3, 5, StockLow},
		{"zero stock", 0, 5, StockDepleted},
		{"negative stock", -1, 5, StockDepleted},
		{"no minimum configured", 2, 0, StockAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SparePart{Stock: tt.stock, MinStock: tt.minStock}
			if got := p.StockStatus(); got != tt.want {
				t.Errorf("StockStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSparePartValidate(t *testing.T) {
	valid := SparePart{Code: "RF-100", Name: "Balero 6204", Stock: 4, MinStock: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid part rejected: %v", err)
	}

	tests := []struct {
		name string
		part SparePart
	}{
		{"missing code", SparePart{Name: "Balero"}},
		{"blank code", SparePart{Code: "   ", Name: "Balero"}},
		{"missing name", SparePart{Code: "RF-100"}},
		{"negative stock", SparePart{Code: "RF-100", Name: "Balero", Stock: -1}},
		{"negative minimum", SparePart{Code: "RF-100", Name: "Balero", MinStock: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.part.Validate()
			if !apperror.IsValidation(err) {
				t.Errorf("Validate() = %v, want validation error", err)
			}
		})
	}
}

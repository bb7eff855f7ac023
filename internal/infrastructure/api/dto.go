// Package api implements the request and spare-parts repositories over the
// legacy HTTP endpoints (solicitudes.php, solicitudes_detalles.php,
// refacciones.php). Wire payloads use snake_case fields and ISO-8601 dates;
// everything is validated and mapped to the domain model at this boundary,
// failing fast with a format error on mismatch.
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"servitrack/internal/core/apperror"
	"servitrack/internal/domain/parts"
	"servitrack/internal/domain/request"
)

// solicitudDTO is the wire shape of a service request.
type solicitudDTO struct {
	ID             int      `json:"id"`
	Tipo           string   `json:"tipo,omitempty"`
	Cliente        string   `json:"cliente"`
	Solicitante    string   `json:"solicitante"`
	Representante  string   `json:"representante,omitempty"`
	Proveedor      string   `json:"proveedor,omitempty"`
	Empresa        string   `json:"empresa,omitempty"`
	Ubicacion      string   `json:"ubicacion,omitempty"`
	Contacto       string   `json:"contacto,omitempty"`
	TipoTrabajo    string   `json:"tipo_trabajo,omitempty"`
	TipoMaquina    string   `json:"tipo_maquina,omitempty"`
	ModeloMaquina  string   `json:"modelo_maquina,omitempty"`
	NumeroSerie    string   `json:"numero_serie,omitempty"`
	Descripcion    string   `json:"descripcion,omitempty"`
	Comentarios    string   `json:"comentarios,omitempty"`
	FechaSolicitud string   `json:"fecha_solicitud,omitempty"`
	CreadoPor      string   `json:"creado_por,omitempty"`
	Estado         string   `json:"estado,omitempty"`
	RecibidoPor    string   `json:"recibido_por,omitempty"`
	RecibidoEn     string   `json:"recibido_en,omitempty"`
	Enterado       *notaDTO `json:"enterado,omitempty"`
	Orden          *notaDTO `json:"orden,omitempty"`
}

// notaDTO is a dated free-text record (acknowledgement, work order).
type notaDTO struct {
	Observaciones string `json:"observaciones"`
	Fecha         string `json:"fecha"`
}

// detalleDTO is one invoice line on the wire. decimal.Decimal accepts both
// JSON numbers and strings, which the legacy endpoint mixes freely.
type detalleDTO struct {
	SolicitudID    int             `json:"solicitud_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	IVA            decimal.Decimal `json:"iva"`
}

// refaccionDTO is the wire shape of a spare part.
type refaccionDTO struct {
	ID          int             `json:"id,omitempty"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Proveedor   string          `json:"proveedor,omitempty"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stock_minimo"`
	Precio      decimal.Decimal `json:"precio"`
	Ubicacion   string          `json:"ubicacion,omitempty"`
}

// movimientoDTO is one stock movement on the wire.
type movimientoDTO struct {
	RefaccionID int    `json:"refaccion_id"`
	Tipo        string `json:"tipo"`
	Cantidad    int    `json:"cantidad"`
	Responsable string `json:"responsable,omitempty"`
	Notas       string `json:"notas,omitempty"`
	Fecha       string `json:"fecha"`
}

// wireDateFormats are the date shapes the legacy endpoint emits, tried in
// order. Writes always use RFC 3339.
var wireDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseWireDate(v string) (time.Time, error) {
	for _, layout := range wireDateFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", v)
}

// --- solicitud mapping ---

func (d solicitudDTO) toDomain() (request.ServiceRequest, error) {
	if d.ID <= 0 {
		return request.ServiceRequest{}, apperror.NewFormat("request payload missing id")
	}

	r := request.ServiceRequest{
		ID:             d.ID,
		Kind:           d.Tipo,
		Client:         d.Cliente,
		Requester:      d.Solicitante,
		Representative: d.Representante,
		Supplier:       d.Proveedor,
		Company:        d.Empresa,
		Location:       d.Ubicacion,
		Contact:        d.Contacto,
		WorkType:       d.TipoTrabajo,
		MachineType:    d.TipoMaquina,
		MachineModel:   d.ModeloMaquina,
		SerialNumber:   d.NumeroSerie,
		Description:    d.Descripcion,
		Comments:       d.Comentarios,
		CreatedBy:      d.CreadoPor,
	}

	if d.FechaSolicitud != "" {
		t, err := parseWireDate(d.FechaSolicitud)
		if err != nil {
			return request.ServiceRequest{}, apperror.NewFormat("bad fecha_solicitud").
				WithDetail("id", d.ID).WithCause(err)
		}
		r.CreatedAt = t
	}

	if d.Estado != "" {
		status, err := request.ParseStatus(d.Estado)
		if err != nil {
			return request.ServiceRequest{}, apperror.NewFormat("unknown estado").
				WithDetail("id", d.ID).WithDetail("estado", d.Estado)
		}
		r.Status = status
	}

	if d.RecibidoPor != "" && d.RecibidoEn != "" {
		t, err := parseWireDate(d.RecibidoEn)
		if err != nil {
			return request.ServiceRequest{}, apperror.NewFormat("bad recibido_en").
				WithDetail("id", d.ID).WithCause(err)
		}
		r.ReceivedBy = d.RecibidoPor
		r.ReceivedAt = &t
	}

	if d.Enterado != nil {
		n, err := d.Enterado.toDomain()
		if err != nil {
			return request.ServiceRequest{}, apperror.NewFormat("bad enterado").
				WithDetail("id", d.ID).WithCause(err)
		}
		r.Acknowledgement = n
	}
	if d.Orden != nil {
		n, err := d.Orden.toDomain()
		if err != nil {
			return request.ServiceRequest{}, apperror.NewFormat("bad orden").
				WithDetail("id", d.ID).WithCause(err)
		}
		r.WorkOrder = n
	}

	return r, nil
}

func (n notaDTO) toDomain() (*request.Note, error) {
	note := &request.Note{Text: n.Observaciones}
	if n.Fecha != "" {
		t, err := parseWireDate(n.Fecha)
		if err != nil {
			return nil, err
		}
		note.At = t
	}
	return note, nil
}

func notaFromDomain(n request.Note) notaDTO {
	return notaDTO{
		Observaciones: n.Text,
		Fecha:         n.At.Format(time.RFC3339),
	}
}

func (d detalleDTO) toDomain() request.InvoiceLine {
	return request.InvoiceLine{
		Description: d.Descripcion,
		Quantity:    d.Cantidad,
		UnitPrice:   d.PrecioUnitario,
		TaxRate:     d.IVA,
	}
}

func detalleFromDomain(requestID int, l request.InvoiceLine) detalleDTO {
	return detalleDTO{
		SolicitudID:    requestID,
		Descripcion:    l.Description,
		Cantidad:       l.Quantity,
		PrecioUnitario: l.UnitPrice,
		IVA:            l.TaxRate,
	}
}

// wireNames maps the semantic change keys to wire field names.
var wireNames = map[string]string{
	"kind":            "tipo",
	"client":          "cliente",
	"requester":       "solicitante",
	"representative":  "representante",
	"supplier":        "proveedor",
	"company":         "empresa",
	"location":        "ubicacion",
	"contact":         "contacto",
	"workType":        "tipo_trabajo",
	"machineType":     "tipo_maquina",
	"machineModel":    "modelo_maquina",
	"serialNumber":    "numero_serie",
	"description":     "descripcion",
	"comments":        "comentarios",
	"status":          "estado",
	"receivedBy":      "recibido_por",
	"receivedAt":      "recibido_en",
	"acknowledgement": "enterado",
	"workOrder":       "orden",
	"subtotal":        "subtotal",
	"tax":             "iva_total",
	"total":           "total",
}

// changesToWire converts a partial update to the wire representation.
// Invoice lines are not part of the solicitud body; the client writes them
// through solicitudes_detalles.php separately.
func changesToWire(changes request.Changes) (map[string]any, error) {
	body := make(map[string]any, len(changes))
	for key, value := range changes {
		if key == "invoiceLines" {
			continue
		}
		wire, ok := wireNames[key]
		if !ok {
			return nil, fmt.Errorf("no wire mapping for field %q", key)
		}
		switch v := value.(type) {
		case time.Time:
			body[wire] = v.Format(time.RFC3339)
		case request.Note:
			body[wire] = notaFromDomain(v)
		case decimal.Decimal:
			body[wire] = v.String()
		default:
			body[wire] = v
		}
	}
	return body, nil
}

// --- refaccion mapping ---

func (d refaccionDTO) toDomain() (parts.SparePart, error) {
	if d.ID <= 0 {
		return parts.SparePart{}, apperror.NewFormat("part payload missing id")
	}
	return parts.SparePart{
		ID:          d.ID,
		Code:        d.Codigo,
		Name:        d.Nombre,
		Description: d.Descripcion,
		Supplier:    d.Proveedor,
		Stock:       d.Stock,
		MinStock:    d.StockMinimo,
		Price:       d.Precio,
		Location:    d.Ubicacion,
	}, nil
}

func refaccionFromDomain(p *parts.SparePart) refaccionDTO {
	return refaccionDTO{
		ID:          p.ID,
		Codigo:      p.Code,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Proveedor:   p.Supplier,
		Stock:       p.Stock,
		StockMinimo: p.MinStock,
		Precio:      p.Price,
		Ubicacion:   p.Location,
	}
}

func movimientoFromDomain(m parts.Movement) movimientoDTO {
	return movimientoDTO{
		RefaccionID: m.PartID,
		Tipo:        string(m.Kind),
		Cantidad:    m.Quantity,
		Responsable: m.Responsible,
		Notas:       m.Notes,
		Fecha:       m.At.Format(time.RFC3339),
	}
}

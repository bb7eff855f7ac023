package dto

import (
	"time"

	"servitrack/internal/domain/request"
)

// InvoiceLineDTO is one billable row in API payloads. Monetary values are
// decimal strings to keep full precision across the JSON boundary.
type InvoiceLineDTO struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TaxRate     string `json:"taxRate"`
	LineTotal   string `json:"lineTotal"`
}

// NoteDTO is a dated free-text record.
type NoteDTO struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// RequestResponse is the API shape of a service request.
type RequestResponse struct {
	ID               int              `json:"id"`
	Kind             string           `json:"kind,omitempty"`
	Client           string           `json:"client"`
	Requester        string           `json:"requester"`
	Representative   string           `json:"representative,omitempty"`
	Supplier         string           `json:"supplier,omitempty"`
	Company          string           `json:"company,omitempty"`
	Location         string           `json:"location,omitempty"`
	Contact          string           `json:"contact,omitempty"`
	WorkType         string           `json:"workType,omitempty"`
	MachineType      string           `json:"machineType,omitempty"`
	MachineModel     string           `json:"machineModel,omitempty"`
	SerialNumber     string           `json:"serialNumber,omitempty"`
	Description      string           `json:"description,omitempty"`
	Comments         string           `json:"comments,omitempty"`
	CreatedAt        *time.Time       `json:"createdAt,omitempty"`
	CreatedAtDisplay string           `json:"createdAtDisplay,omitempty"`
	CreatedBy        string           `json:"createdBy,omitempty"`
	Status           string           `json:"status"`
	Selected         bool             `json:"selected"`
	ReceivedBy       string           `json:"receivedBy,omitempty"`
	ReceivedAt       *time.Time       `json:"receivedAt,omitempty"`
	Acknowledgement  *NoteDTO         `json:"acknowledgement,omitempty"`
	WorkOrder        *NoteDTO         `json:"workOrder,omitempty"`
	InvoiceLines     []InvoiceLineDTO `json:"invoiceLines"`
	Subtotal         string           `json:"subtotal"`
	Tax              string           `json:"tax"`
	Total            string           `json:"total"`
}

// FromRequest maps the domain entity to its API shape, recomputing totals.
func FromRequest(r *request.ServiceRequest) *RequestResponse {
	resp := &RequestResponse{
		ID:               r.ID,
		Kind:             r.Kind,
		Client:           r.Client,
		Requester:        r.Requester,
		Representative:   r.Representative,
		Supplier:         r.Supplier,
		Company:          r.Company,
		Location:         r.Location,
		Contact:          r.Contact,
		WorkType:         r.WorkType,
		MachineType:      r.MachineType,
		MachineModel:     r.MachineModel,
		SerialNumber:     r.SerialNumber,
		Description:      r.Description,
		Comments:         r.Comments,
		CreatedAtDisplay: r.CreatedAtDisplay,
		CreatedBy:        r.CreatedBy,
		Status:           r.Status.String(),
		Selected:         r.Selected,
		ReceivedBy:       r.ReceivedBy,
		ReceivedAt:       r.ReceivedAt,
		InvoiceLines:     make([]InvoiceLineDTO, 0, len(r.Lines)),
		Subtotal:         r.Subtotal().String(),
		Tax:              r.Tax().String(),
		Total:            r.Total().String(),
	}
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt
		resp.CreatedAt = &t
	}
	if r.Acknowledgement != nil {
		resp.Acknowledgement = &NoteDTO{Text: r.Acknowledgement.Text, At: r.Acknowledgement.At}
	}
	if r.WorkOrder != nil {
		resp.WorkOrder = &NoteDTO{Text: r.WorkOrder.Text, At: r.WorkOrder.At}
	}
	for _, l := range r.Lines {
		resp.InvoiceLines = append(resp.InvoiceLines, InvoiceLineDTO{
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   l.UnitPrice.String(),
			TaxRate:     l.TaxRate.String(),
			LineTotal:   l.Total().String(),
		})
	}
	return resp
}

// RequestListResponse is one derived page of the request listing.
type RequestListResponse struct {
	Items []*RequestResponse `json:"items"`
	PageMeta
}

// FromRequestView maps the store's derived view.
func FromRequestView(v request.View) RequestListResponse {
	items := make([]*RequestResponse, 0, len(v.Items))
	for i := range v.Items {
		items = append(items, FromRequest(&v.Items[i]))
	}
	return RequestListResponse{
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

// --- Write requests ---

// EditLineRequest is one invoice line in an edit payload.
type EditLineRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"gte=0"`
	TaxRate     float64 `json:"taxRate" binding:"gte=0,lte=100"`
}

// EditRequest carries the user's edited record for save.
type EditRequest struct {
	Kind           string            `json:"kind"`
	Client         string            `json:"client" binding:"required"`
	Requester      string            `json:"requester" binding:"required"`
	Representative string            `json:"representative"`
	Supplier       string            `json:"supplier"`
	Company        string            `json:"company"`
	Location       string            `json:"location"`
	Contact        string            `json:"contact"`
	WorkType       string            `json:"workType"`
	MachineType    string            `json:"machineType"`
	MachineModel   string            `json:"machineModel"`
	SerialNumber   string            `json:"serialNumber"`
	Description    string            `json:"description"`
	Comments       string            `json:"comments"`
	InvoiceLines   []EditLineRequest `json:"invoiceLines"`
}

// ApplyTo overwrites the editable fields of the open edit record.
func (e EditRequest) ApplyTo(r *request.ServiceRequest) {
	r.Kind = e.Kind
	r.Client = e.Client
	r.Requester = e.Requester
	r.Representative = e.Representative
	r.Supplier = e.Supplier
	r.Company = e.Company
	r.Location = e.Location
	r.Contact = e.Contact
	r.WorkType = e.WorkType
	r.MachineType = e.MachineType
	r.MachineModel = e.MachineModel
	r.SerialNumber = e.SerialNumber
	r.Description = e.Description
	r.Comments = e.Comments

	r.Lines = make([]request.InvoiceLine, 0, len(e.InvoiceLines))
	for _, l := range e.InvoiceLines {
		r.Lines = append(r.Lines, l.toDomain())
	}
}

func (l EditLineRequest) toDomain() request.InvoiceLine {
	return request.InvoiceLine{
		Description: l.Description,
		Quantity:    floatToMoney(l.Quantity),
		UnitPrice:   floatToMoney(l.UnitPrice),
		TaxRate:     floatToMoney(l.TaxRate),
	}
}

// AcknowledgeRequest is the payload for the acknowledge transition.
type AcknowledgeRequest struct {
	Note string     `json:"note"`
	At   *time.Time `json:"at"`
}

// WorkOrderRequest is the payload for the mark-in-process transition.
type WorkOrderRequest struct {
	Note string     `json:"note"`
	At   *time.Time `json:"at"`
}

// DeliverRequest is the payload for the deliver transition.
type DeliverRequest struct {
	ReceivedBy string `json:"receivedBy" binding:"required"`
}

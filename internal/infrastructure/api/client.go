package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"servitrack/internal/core/apperror"
	"servitrack/internal/domain/parts"
	"servitrack/internal/domain/request"
)

var tracer = otel.Tracer("servitrack/api")

// Client is the shared HTTP transport for the legacy repository endpoints.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Requests returns the request.Repository implementation.
func (c *Client) Requests() *RequestRepo { return &RequestRepo{c: c} }

// Parts returns the parts.Repository implementation.
func (c *Client) Parts() *PartsRepo { return &PartsRepo{c: c} }

// Ping reports whether the upstream endpoint is reachable. Any HTTP status
// counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return apperror.NewInternal(err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperror.NewTransport(err)
	}
	resp.Body.Close()
	return nil
}

// do performs one HTTP exchange: network failures become transport errors,
// error statuses map onto the apperror taxonomy, and an undecodable success
// body becomes a format error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "repository.call", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperror.NewInternal(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		span.RecordError(err)
		return apperror.NewTransport(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperror.NewFormat("undecodable repository payload").WithCause(err)
		}
	}
	return nil
}

// statusError maps an HTTP error response to the error taxonomy. The legacy
// endpoint reports failures as {"message": ...} or {"error": ...}.
func statusError(resp *http.Response) error {
	message := "repository rejected the request"
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.Error != "" {
			message = payload.Error
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.NewNotFound("resource", nil)
	case resp.StatusCode == http.StatusConflict:
		return apperror.NewConflict(message)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return apperror.NewValidation(message)
	default:
		return apperror.NewTransport(fmt.Errorf("repository returned status %d: %s", resp.StatusCode, message))
	}
}

// --- Requests ---

// RequestRepo implements request.Repository over solicitudes.php and
// solicitudes_detalles.php.
type RequestRepo struct {
	c *Client
}

var _ request.Repository = (*RequestRepo)(nil)

// List fetches all requests. Lines are not included in listings; they are
// loaded with Get.
func (r *RequestRepo) List(ctx context.Context) ([]request.ServiceRequest, error) {
	var dtos []solicitudDTO
	if err := r.c.do(ctx, http.MethodGet, "solicitudes.php", nil, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]request.ServiceRequest, 0, len(dtos))
	for _, d := range dtos {
		mapped, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// Get fetches one request with its invoice lines.
func (r *RequestRepo) Get(ctx context.Context, id int) (*request.ServiceRequest, error) {
	var dto solicitudDTO
	err := r.c.do(ctx, http.MethodGet, "solicitudes.php", idQuery(id), nil, &dto)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("request", id)
		}
		return nil, err
	}

	mapped, err := dto.toDomain()
	if err != nil {
		return nil, err
	}

	var detalles []detalleDTO
	query := url.Values{"solicitud_id": {strconv.Itoa(id)}}
	if err := r.c.do(ctx, http.MethodGet, "solicitudes_detalles.php", query, nil, &detalles); err != nil {
		return nil, err
	}
	mapped.Lines = make([]request.InvoiceLine, 0, len(detalles))
	for _, d := range detalles {
		mapped.Lines = append(mapped.Lines, d.toDomain())
	}

	return &mapped, nil
}

// Update applies a partial update. Invoice lines, when present in the
// changes, replace the stored lines through solicitudes_detalles.php.
func (r *RequestRepo) Update(ctx context.Context, id int, changes request.Changes) error {
	body, err := changesToWire(changes)
	if err != nil {
		return apperror.NewInternal(err)
	}

	if len(body) > 0 {
		if err := r.c.do(ctx, http.MethodPut, "solicitudes.php", idQuery(id), body, nil); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("request", id)
			}
			return err
		}
	}

	lines, ok := changes["invoiceLines"].([]request.InvoiceLine)
	if !ok {
		return nil
	}
	return r.replaceLines(ctx, id, lines)
}

func (r *RequestRepo) replaceLines(ctx context.Context, id int, lines []request.InvoiceLine) error {
	query := url.Values{"solicitud_id": {strconv.Itoa(id)}}
	if err := r.c.do(ctx, http.MethodDelete, "solicitudes_detalles.php", query, nil, nil); err != nil {
		// A request without stored lines yet has nothing to delete.
		if !apperror.IsNotFound(err) {
			return err
		}
	}
	for _, l := range lines {
		dto := detalleFromDomain(id, l)
		if err := r.c.do(ctx, http.MethodPost, "solicitudes_detalles.php", nil, dto, nil); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the request.
func (r *RequestRepo) Delete(ctx context.Context, id int) error {
	err := r.c.do(ctx, http.MethodDelete, "solicitudes.php", idQuery(id), nil, nil)
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("request", id)
	}
	return err
}

// --- Parts ---

// PartsRepo implements parts.Repository over refacciones.php.
type PartsRepo struct {
	c *Client
}

var _ parts.Repository = (*PartsRepo)(nil)

// List fetches all spare parts.
func (p *PartsRepo) List(ctx context.Context) ([]parts.SparePart, error) {
	var dtos []refaccionDTO
	if err := p.c.do(ctx, http.MethodGet, "refacciones.php", nil, nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]parts.SparePart, 0, len(dtos))
	for _, d := range dtos {
		mapped, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// Get fetches one spare part.
func (p *PartsRepo) Get(ctx context.Context, id int) (*parts.SparePart, error) {
	var dto refaccionDTO
	err := p.c.do(ctx, http.MethodGet, "refacciones.php", idQuery(id), nil, &dto)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("part", id)
		}
		return nil, err
	}
	mapped, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	return &mapped, nil
}

// Create registers a new spare part.
func (p *PartsRepo) Create(ctx context.Context, part *parts.SparePart) error {
	return p.c.do(ctx, http.MethodPost, "refacciones.php", nil, refaccionFromDomain(part), nil)
}

// Update saves the full part record.
func (p *PartsRepo) Update(ctx context.Context, id int, part *parts.SparePart) error {
	err := p.c.do(ctx, http.MethodPut, "refacciones.php", idQuery(id), refaccionFromDomain(part), nil)
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("part", id)
	}
	return err
}

// Delete removes the part.
func (p *PartsRepo) Delete(ctx context.Context, id int) error {
	err := p.c.do(ctx, http.MethodDelete, "refacciones.php", idQuery(id), nil, nil)
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("part", id)
	}
	return err
}

// RegisterMovement records a stock entry or withdrawal.
func (p *PartsRepo) RegisterMovement(ctx context.Context, m parts.Movement) error {
	return p.c.do(ctx, http.MethodPost, "refacciones.php/movimientos", nil, movimientoFromDomain(m), nil)
}

func idQuery(id int) url.Values {
	return url.Values{"id": {strconv.Itoa(id)}}
}

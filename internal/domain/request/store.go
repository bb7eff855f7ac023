package request

import (
	"context"
	"fmt"
	"sync"

	"servitrack/internal/core/apperror"
	"servitrack/internal/core/session"
	"servitrack/internal/domain/audit"
	"servitrack/pkg/logger"
)

// Store owns the in-memory view of the loaded requests: the full collection,
// the current selection, the record open for editing and the filter and
// pagination parameters. It is the only component that talks to the
// Repository.
//
// All operations serialize on an internal mutex held across the repository
// round-trip and the state application, so at most one load or save is in
// flight per store and a slow stale response can never overwrite fresher
// state.
type Store struct {
	mu   sync.Mutex
	repo Repository

	// trail records successful lifecycle transitions; optional.
	trail *audit.Trail
	log   *logger.Logger

	all        []ServiceRequest
	selectedID int // 0 = no selection
	editing    *ServiceRequest

	searchTerm   string
	statusFilter Status
	page         int
	pageSize     int
	sortField    string
	sortDesc     bool

	view View
}

// View is the derived, display-ready page of the listing.
type View struct {
	Items        []ServiceRequest `json:"items"`
	Page         int              `json:"page"`
	PageSize     int              `json:"pageSize"`
	TotalItems   int              `json:"totalItems"`
	TotalPages   int              `json:"totalPages"`
	VisiblePages []int            `json:"visiblePages"`
}

// Option configures a Store.
type Option func(*Store)

// WithAuditTrail attaches a transition audit trail.
func WithAuditTrail(trail *audit.Trail) Option {
	return func(s *Store) { s.trail = trail }
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.log = log.WithComponent("request.store") }
}

// NewStore creates a store over the given repository.
func NewStore(repo Repository, pageSize int, opts ...Option) *Store {
	if pageSize < 1 {
		pageSize = 10
	}
	s := &Store{
		repo:     repo,
		log:      logger.Default().WithComponent("request.store"),
		all:      make([]ServiceRequest, 0),
		page:     1,
		pageSize: pageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.applyFiltersLocked()
	return s
}

// Load fetches all requests from the repository, normalizes them and
// re-derives the visible page. On failure the previously loaded data stays
// intact and the (retryable) error is returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	fetched, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithContext(ctx).Warnw("load failed, keeping previous data",
			"error", err, "retryable", apperror.IsRetryable(err))
		return fmt.Errorf("load requests: %w", err)
	}

	for i := range fetched {
		fetched[i].Normalize()
	}

	s.all = fetched
	s.selectedID = 0
	s.applyFiltersLocked()

	s.log.WithContext(ctx).Debugw("requests loaded", "count", len(fetched))
	return nil
}

// Select marks the request with the given ID as the current selection.
func (s *Store) Select(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return apperror.NewNotFound("request", id)
	}
	for i := range s.all {
		s.all[i].Selected = s.all[i].ID == id
	}
	s.selectedID = id
	s.applyFiltersLocked()
	return nil
}

// Selected returns a copy of the currently selected request, or nil.
func (s *Store) Selected() *ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		cp := s.all[idx]
		return &cp
	}
	return nil
}

// OpenDetail fetches a single request by ID and returns it normalized for
// the detail view. The listing state is not touched.
func (s *Store) OpenDetail(ctx context.Context, id int) (*ServiceRequest, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Normalize()
	return r, nil
}

// OpenEdit fetches a single request and opens it for editing. Server
// payloads are not guaranteed complete, so the record is normalized before
// the edit view sees it.
func (s *Store) OpenEdit(ctx context.Context, id int) (*ServiceRequest, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Normalize()

	s.mu.Lock()
	s.editing = r
	s.mu.Unlock()

	cp := *r
	return &cp, nil
}

// Editing returns a copy of the record currently open for editing, or nil.
func (s *Store) Editing() *ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return nil
	}
	cp := *s.editing
	return &cp
}

// SetEditing replaces the open edit record with the user's current input.
func (s *Store) SetEditing(r *ServiceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = r
}

// CloseEdit discards the open edit record without saving.
func (s *Store) CloseEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// Save sends the full edited record to the repository. On success the
// collection is reloaded and the edit view closes; on failure the edit
// record is retained so no input is lost.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return apperror.NewValidation("no record open for editing")
	}

	if err := s.repo.Update(ctx, s.editing.ID, fullChanges(s.editing)); err != nil {
		s.log.WithContext(ctx).Warnw("save failed, keeping edit open",
			"id", s.editing.ID, "error", err)
		return err
	}

	s.editing = nil
	return s.loadLocked(ctx)
}

// Remove asks the repository to delete the request and, only on success,
// removes it from the local collection (optimistic removal, no reload
// needed). On failure the list is left untouched.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	idx := s.indexLocked(id)
	if idx >= 0 {
		s.all = append(s.all[:idx], s.all[idx+1:]...)
	}
	if s.selectedID == id {
		s.selectedID = 0
	}
	s.applyFiltersLocked()
	return nil
}

// --- Filter & pagination parameters ---

// SetSearchTerm updates the search term and resets to the first page.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchTerm != term {
		s.searchTerm = term
		s.page = 1
	}
	s.applyFiltersLocked()
}

// SetStatusFilter updates the status filter and resets to the first page.
func (s *Store) SetStatusFilter(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusFilter != status {
		s.statusFilter = status
		s.page = 1
	}
	s.applyFiltersLocked()
}

// SetPage moves to the given page (clamped during derivation).
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.applyFiltersLocked()
}

// SetPageSize changes the page size and resets to the first page.
func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size >= 1 && size != s.pageSize {
		s.pageSize = size
		s.page = 1
	}
	s.applyFiltersLocked()
}

// SetSort sets the explicit sort field ("" keeps collection order).
func (s *Store) SetSort(field string, desc bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortField = field
	s.sortDesc = desc
	s.applyFiltersLocked()
}

// View returns the current derived page.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// applyFiltersLocked re-derives the visible page. Must be called after every
// mutation of the collection or the filter parameters.
func (s *Store) applyFiltersLocked() {
	filtered := Filter(s.all, s.searchTerm, s.statusFilter)
	if s.sortField != "" {
		Sort(filtered, s.sortField, s.sortDesc)
	}

	items, page, totalPages := Paginate(filtered, s.page, s.pageSize)
	s.page = page

	s.view = View{
		Items:        items,
		Page:         page,
		PageSize:     s.pageSize,
		TotalItems:   len(filtered),
		TotalPages:   totalPages,
		VisiblePages: VisiblePageNumbers(totalPages, page),
	}
}

// --- Lifecycle transitions ---

// Apply runs a lifecycle transition on the currently selected request. The
// transition runs against the freshly fetched record, not the listing copy:
// listings do not carry invoice lines, so the line precondition and the
// issue payload must see the stored lines. The transition is validated
// before anything is written; on a precondition failure no update reaches
// the repository. After a repository success the whole collection is
// reloaded, because local state is never assumed authoritative after a
// write.
func (s *Store) Apply(ctx context.Context, ev Event, p Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(s.selectedID) < 0 {
		return apperror.NewValidation("no request selected")
	}

	fetched, err := s.repo.Get(ctx, s.selectedID)
	if err != nil {
		return err
	}
	fetched.Normalize()

	// Transition a copy so a repository failure leaves local state untouched.
	work := *fetched
	from := work.Status
	if err := Transition(&work, ev, p); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, work.ID, changesFor(&work, ev)); err != nil {
		return err
	}

	s.recordTransition(ctx, &work, ev, from)
	return s.loadLocked(ctx)
}

func (s *Store) recordTransition(ctx context.Context, r *ServiceRequest, ev Event, from Status) {
	if s.trail == nil {
		return
	}
	err := s.trail.Record(ctx, audit.Entry{
		RequestID:  r.ID,
		Event:      string(ev),
		FromStatus: from.String(),
		ToStatus:   r.Status.String(),
		Actor:      session.Actor(ctx),
		Payload:    r,
	})
	if err != nil {
		s.log.WithContext(ctx).Warnw("audit record failed", "id", r.ID, "error", err)
	}
}

// MarkPendingQuote moves the selected request to PendingQuote.
func (s *Store) MarkPendingQuote(ctx context.Context) error {
	return s.Apply(ctx, EventMarkPendingQuote, Payload{})
}

// MarkPendingInvoice moves the selected request to PendingInvoice.
func (s *Store) MarkPendingInvoice(ctx context.Context) error {
	return s.Apply(ctx, EventMarkPendingInvoice, Payload{})
}

// IssueQuote issues the quote for the selected request. Requires at least
// one invoice line; sends the lines and aggregate totals.
func (s *Store) IssueQuote(ctx context.Context) error {
	return s.Apply(ctx, EventIssueQuote, Payload{})
}

// IssueInvoice issues the invoice for the selected request.
func (s *Store) IssueInvoice(ctx context.Context) error {
	return s.Apply(ctx, EventIssueInvoice, Payload{})
}

// Acknowledge records the client acknowledgement ("enterado").
func (s *Store) Acknowledge(ctx context.Context, p Payload) error {
	return s.Apply(ctx, EventAcknowledge, p)
}

// MarkInProcess opens the work order and moves the request to InProcess.
func (s *Store) MarkInProcess(ctx context.Context, p Payload) error {
	return s.Apply(ctx, EventMarkInProcess, p)
}

// Deliver closes the request with a delivery receipt. Rejected when
// receivedBy is blank.
func (s *Store) Deliver(ctx context.Context, receivedBy string) error {
	return s.Apply(ctx, EventDeliver, Payload{ReceivedBy: receivedBy})
}

// Cancel cancels the request. Rejected once delivered.
func (s *Store) Cancel(ctx context.Context) error {
	return s.Apply(ctx, EventCancel, Payload{})
}

// --- helpers ---

func (s *Store) indexLocked(id int) int {
	if id == 0 {
		return -1
	}
	for i := range s.all {
		if s.all[i].ID == id {
			return i
		}
	}
	return -1
}

// fullChanges maps every editable field of the record into a partial-update
// payload. The repository implementation translates the semantic names to
// wire names.
func fullChanges(r *ServiceRequest) Changes {
	ch := Changes{
		"kind":           r.Kind,
		"client":         r.Client,
		"requester":      r.Requester,
		"representative": r.Representative,
		"supplier":       r.Supplier,
		"company":        r.Company,
		"location":       r.Location,
		"contact":        r.Contact,
		"workType":       r.WorkType,
		"machineType":    r.MachineType,
		"machineModel":   r.MachineModel,
		"serialNumber":   r.SerialNumber,
		"description":    r.Description,
		"comments":       r.Comments,
		"status":         r.Status.String(),
		"invoiceLines":   r.Lines,
	}
	if r.HasReceipt() {
		ch["receivedBy"] = r.ReceivedBy
		ch["receivedAt"] = *r.ReceivedAt
	}
	return ch
}

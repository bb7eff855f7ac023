package parts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"servitrack/internal/core/apperror"
	"servitrack/internal/domain/listview"
	"servitrack/pkg/logger"
)

// Store owns the in-memory view of the loaded parts and the filter and
// pagination parameters, following the same discipline as the request
// store: serialized operations, repository success before any local
// amendment, previous data intact on failure.
type Store struct {
	mu   sync.Mutex
	repo Repository
	log  *logger.Logger

	all []SparePart

	searchTerm   string
	statusFilter StockStatus
	page         int
	pageSize     int

	view View
}

// View is the derived, display-ready page of the parts listing.
type View struct {
	Items        []SparePart `json:"items"`
	Page         int         `json:"page"`
	PageSize     int         `json:"pageSize"`
	TotalItems   int         `json:"totalItems"`
	TotalPages   int         `json:"totalPages"`
	VisiblePages []int       `json:"visiblePages"`
}

// NewStore creates a parts store over the given repository.
func NewStore(repo Repository, pageSize int, log *logger.Logger) *Store {
	if pageSize < 1 {
		pageSize = 10
	}
	if log == nil {
		log = logger.Default()
	}
	s := &Store{
		repo:     repo,
		log:      log.WithComponent("parts.store"),
		all:      make([]SparePart, 0),
		page:     1,
		pageSize: pageSize,
	}
	s.applyFiltersLocked()
	return s
}

// Load fetches all parts. On failure the previous data stays intact.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	fetched, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithContext(ctx).Warnw("load failed, keeping previous data", "error", err)
		return fmt.Errorf("load parts: %w", err)
	}
	s.all = fetched
	s.applyFiltersLocked()
	return nil
}

// Get fetches a single part for the detail or edit view.
func (s *Store) Get(ctx context.Context, id int) (*SparePart, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and creates a new part, then reloads.
func (s *Store) Create(ctx context.Context, part *SparePart) error {
	if err := part.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Create(ctx, part); err != nil {
		return err
	}
	return s.loadLocked(ctx)
}

// Save sends the full edited part to the repository, then reloads.
func (s *Store) Save(ctx context.Context, part *SparePart) error {
	if err := part.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Update(ctx, part.ID, part); err != nil {
		return err
	}
	return s.loadLocked(ctx)
}

// Remove deletes the part and, only on success, removes it locally.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for i := range s.all {
		if s.all[i].ID == id {
			s.all = append(s.all[:i], s.all[i+1:]...)
			break
		}
	}
	s.applyFiltersLocked()
	return nil
}

// RegisterMovement validates and records a stock movement, then reloads so
// the local stock reflects the repository's view. Withdrawals exceeding the
// available stock are rejected before anything is sent.
func (s *Store) RegisterMovement(ctx context.Context, m Movement) error {
	if m.Quantity <= 0 {
		return apperror.NewValidation("quantity must be greater than zero").
			WithDetail("field", "quantity")
	}
	if m.Kind != MovementIn && m.Kind != MovementOut {
		return apperror.NewValidation("unknown movement kind").
			WithDetail("kind", string(m.Kind))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	part := s.findLocked(m.PartID)
	if part == nil {
		return apperror.NewNotFound("part", m.PartID)
	}
	if m.Kind == MovementOut && m.Quantity > part.Stock {
		return apperror.NewInsufficientStock(part.Code, m.Quantity, part.Stock)
	}

	if m.At.IsZero() {
		m.At = time.Now()
	}
	if err := s.repo.RegisterMovement(ctx, m); err != nil {
		return err
	}
	return s.loadLocked(ctx)
}

// --- Filter & pagination parameters ---

// SetSearchTerm filters by code, name or supplier and resets to page 1.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchTerm != term {
		s.searchTerm = term
		s.page = 1
	}
	s.applyFiltersLocked()
}

// SetStatusFilter filters by derived stock status and resets to page 1.
func (s *Store) SetStatusFilter(status StockStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusFilter != status {
		s.statusFilter = status
		s.page = 1
	}
	s.applyFiltersLocked()
}

// SetPage moves to the given page.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.applyFiltersLocked()
}

// SetPageSize changes the page size and resets to page 1.
func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size >= 1 && size != s.pageSize {
		s.pageSize = size
		s.page = 1
	}
	s.applyFiltersLocked()
}

// View returns the current derived page.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Store) applyFiltersLocked() {
	filtered := filter(s.all, s.searchTerm, s.statusFilter)

	totalPages := listview.TotalPages(len(filtered), s.pageSize)
	s.page = listview.ClampPage(s.page, totalPages)

	s.view = View{
		Items:        listview.Page(filtered, s.page, s.pageSize),
		Page:         s.page,
		PageSize:     s.pageSize,
		TotalItems:   len(filtered),
		TotalPages:   totalPages,
		VisiblePages: listview.VisiblePages(totalPages, s.page, listview.DefaultPageWindow),
	}
}

func (s *Store) findLocked(id int) *SparePart {
	for i := range s.all {
		if s.all[i].ID == id {
			return &s.all[i]
		}
	}
	return nil
}

// filter matches the term (case-insensitive) against code, name and
// supplier, ANDed with the derived stock-status filter.
func filter(all []SparePart, term string, status StockStatus) []SparePart {
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]SparePart, 0, len(all))
	for _, p := range all {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Code), term) &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Supplier), term) {
			continue
		}
		if status != "" && p.StockStatus() != status {
			continue
		}
		out = append(out, p)
	}
	return out
}

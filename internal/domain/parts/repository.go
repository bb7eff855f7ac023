package parts

import "context"

// Repository is the external collaborator holding the spare-parts records.
// Implementations map failures onto the apperror taxonomy the same way the
// request repository does.
type Repository interface {
	List(ctx context.Context) ([]SparePart, error)
	Get(ctx context.Context, id int) (*SparePart, error)
	Create(ctx context.Context, part *SparePart) error
	Update(ctx context.Context, id int, part *SparePart) error
	Delete(ctx context.Context, id int) error

	// RegisterMovement records a stock entry or withdrawal. The stock
	// precondition for withdrawals is checked by the store before calling.
	RegisterMovement(ctx context.Context, m Movement) error
}

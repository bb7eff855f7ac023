package parts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servitrack/internal/core/apperror"
)

type fakeRepo struct {
	parts []SparePart

	listErr     error
	movementErr error

	movements []Movement
}

func (f *fakeRepo) List(ctx context.Context) ([]SparePart, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]SparePart, len(f.parts))
	copy(out, f.parts)
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int) (*SparePart, error) {
	for _, p := range f.parts {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("part", id)
}

func (f *fakeRepo) Create(ctx context.Context, part *SparePart) error {
	part.ID = len(f.parts) + 1
	f.parts = append(f.parts, *part)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id int, part *SparePart) error {
	for i := range f.parts {
		if f.parts[i].ID == id {
			f.parts[i] = *part
			f.parts[i].ID = id
			return nil
		}
	}
	return apperror.NewNotFound("part", id)
}

func (f *fakeRepo) Delete(ctx context.Context, id int) error {
	for i := range f.parts {
		if f.parts[i].ID == id {
			f.parts = append(f.parts[:i], f.parts[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("part", id)
}

func (f *fakeRepo) RegisterMovement(ctx context.Context, m Movement) error {
	if f.movementErr != nil {
		return f.movementErr
	}
	f.movements = append(f.movements, m)
	for i := range f.parts {
		if f.parts[i].ID == m.PartID {
			switch m.Kind {
			case MovementIn:
				f.parts[i].Stock += m.Quantity
			case MovementOut:
				f.parts[i].Stock -= m.Quantity
			}
		}
	}
	return nil
}

func newTestStore(t *testing.T, repo *fakeRepo) *Store {
	t.Helper()
	s := NewStore(repo, 10, nil)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStore_RegisterMovement(t *testing.T) {
	repo := &fakeRepo{parts: []SparePart{
		{ID: 1, Code: "RF-100", Name: "Balero 6204", Stock: 5, MinStock: 2},
	}}
	s := newTestStore(t, repo)

	t.Run("withdrawal beyond stock rejected", func(t *testing.T) {
		err := s.RegisterMovement(context.Background(), Movement{
			PartID: 1, Kind: MovementOut, Quantity: 8,
		})
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
		assert.Empty(t, repo.movements, "nothing reaches the repository")
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		err := s.RegisterMovement(context.Background(), Movement{
			PartID: 1, Kind: MovementIn, Quantity: 0,
		})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		err := s.RegisterMovement(context.Background(), Movement{
			PartID: 1, Kind: MovementKind("prestamo"), Quantity: 1,
		})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("unknown part rejected", func(t *testing.T) {
		err := s.RegisterMovement(context.Background(), Movement{
			PartID: 99, Kind: MovementIn, Quantity: 1,
		})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("withdrawal within stock succeeds and reloads", func(t *testing.T) {
		err := s.RegisterMovement(context.Background(), Movement{
			PartID: 1, Kind: MovementOut, Quantity: 4, Responsible: "Carlos",
		})
		require.NoError(t, err)
		require.Len(t, repo.movements, 1)
		assert.False(t, repo.movements[0].At.IsZero(), "missing date defaults to now")

		items := s.View().Items
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Stock)
		assert.Equal(t, StockLow, items[0].StockStatus())
	})

	t.Run("entry raises stock back", func(t *testing.T) {
		err := s.RegisterMovement(context.Background(), Movement{
			PartID: 1, Kind: MovementIn, Quantity: 9,
		})
		require.NoError(t, err)
		items := s.View().Items
		assert.Equal(t, 10, items[0].Stock)
		assert.Equal(t, StockAvailable, items[0].StockStatus())
	})
}

func TestStore_CreateValidates(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(t, repo)

	err := s.Create(context.Background(), &SparePart{Name: "sin codigo"})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.parts)

	require.NoError(t, s.Create(context.Background(), &SparePart{Code: "RF-1", Name: "Filtro"}))
	assert.Equal(t, 1, s.View().TotalItems)
}

func TestStore_FilterBySearchAndStatus(t *testing.T) {
	repo := &fakeRepo{parts: []SparePart{
		{ID: 1, Code: "RF-100", Name: "Balero 6204", Supplier: "SKF", Stock: 10, MinStock: 2},
		{ID: 2, Code: "RF-200", Name: "Banda A32", Supplier: "Gates", Stock: 1, MinStock: 3},
		{ID: 3, Code: "RF-300", Name: "Filtro aceite", Supplier: "SKF", Stock: 0, MinStock: 1},
	}}
	s := newTestStore(t, repo)

	s.SetSearchTerm("skf")
	v := s.View()
	assert.Equal(t, 2, v.TotalItems)

	s.SetSearchTerm("")
	s.SetStatusFilter(StockLow)
	v = s.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].ID)

	s.SetStatusFilter(StockDepleted)
	v = s.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 3, v.Items[0].ID)
}

func TestStore_LoadFailureKeepsData(t *testing.T) {
	repo := &fakeRepo{parts: []SparePart{
		{ID: 1, Code: "RF-100", Name: "Balero", Stock: 5},
	}}
	s := newTestStore(t, repo)

	repo.listErr = apperror.NewTransport(assert.AnError)
	require.Error(t, s.Load(context.Background()))
	assert.Equal(t, 1, s.View().TotalItems)
}

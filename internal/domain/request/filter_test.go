package request

import (
	"reflect"
	"testing"
	"time"
)

func sampleRequests() []ServiceRequest {
	return []ServiceRequest{
		{ID: 101, Client: "Aceros Gomez", Requester: "Luis Perez", Status: StatusCaptured},
		{ID: 102, Client: "Textiles Norte", Requester: "Maria Gomez", Status: StatusQuoted},
		{ID: 103, Client: "Maquinados SA", Requester: "Juan Soto", Status: StatusCaptured},
		{ID: 210, Client: "Cartones MX", Requester: "Ana Ruiz", Status: StatusInvoiced},
	}
}

func ids(requests []ServiceRequest) []int {
	out := make([]int, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	all := sampleRequests()

	tests := []struct {
		name    string
		term    string
		status  Status
		wantIDs []int
	}{
		{"no filters", "", "", []int{101, 102, 103, 210}},
		{"term matches client and requester", "gomez", "", []int{101, 102}},
		{"term is case-insensitive", "GOMEZ", "", []int{101, 102}},
		{"term matches id substring", "10", "", []int{101, 102, 103, 210}},
		{"status only", "", StatusCaptured, []int{101, 103}},
		{"term and status are ANDed", "gomez", StatusQuoted, []int{102}},
		{"no match", "zzz", "", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(all, tt.term, tt.status)
			if !reflect.DeepEqual(ids(got), tt.wantIDs) {
				t.Errorf("Filter(%q, %q) ids = %v, want %v", tt.term, tt.status, ids(got), tt.wantIDs)
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	all := sampleRequests()
	first := Filter(all, "gomez", "")
	second := Filter(all, "gomez", "")
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("repeated filter diverged: %v vs %v", ids(first), ids(second))
	}
	// Input order and contents survive.
	if !reflect.DeepEqual(ids(all), []int{101, 102, 103, 210}) {
		t.Errorf("input mutated: %v", ids(all))
	}
}

func TestSort(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	all := []ServiceRequest{
		{ID: 3, Client: "Beta", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 1, Client: "Alfa", CreatedAt: base.Add(time.Hour)},
		{ID: 2, Client: "Alfa", CreatedAt: base},
	}

	t.Run("by client ascending is stable", func(t *testing.T) {
		in := append([]ServiceRequest(nil), all...)
		Sort(in, SortByClient, false)
		if !reflect.DeepEqual(ids(in), []int{1, 2, 3}) {
			t.Errorf("ids = %v, want [1 2 3]", ids(in))
		}
	})

	t.Run("by created descending", func(t *testing.T) {
		in := append([]ServiceRequest(nil), all...)
		Sort(in, SortByCreatedAt, true)
		if !reflect.DeepEqual(ids(in), []int{3, 1, 2}) {
			t.Errorf("ids = %v, want [3 1 2]", ids(in))
		}
	})

	t.Run("unknown field keeps order", func(t *testing.T) {
		in := append([]ServiceRequest(nil), all...)
		Sort(in, "unknown", false)
		if !reflect.DeepEqual(ids(in), []int{3, 1, 2}) {
			t.Errorf("ids = %v, want original order", ids(in))
		}
	})
}

func TestPaginate(t *testing.T) {
	all := make([]ServiceRequest, 23)
	for i := range all {
		all[i] = ServiceRequest{ID: i + 1}
	}

	t.Run("last partial page", func(t *testing.T) {
		items, page, totalPages := Paginate(all, 3, 10)
		if totalPages != 3 || page != 3 {
			t.Fatalf("page=%d totalPages=%d, want 3/3", page, totalPages)
		}
		if len(items) != 3 || items[0].ID != 21 {
			t.Errorf("items = %v", ids(items))
		}
	})

	t.Run("out-of-range page clamps", func(t *testing.T) {
		items, page, _ := Paginate(all, 99, 10)
		if page != 3 || len(items) != 3 {
			t.Errorf("page=%d len=%d, want 3/3", page, len(items))
		}
	})

	t.Run("empty input yields one empty page", func(t *testing.T) {
		items, page, totalPages := Paginate(nil, 1, 10)
		if len(items) != 0 || page != 1 || totalPages != 1 {
			t.Errorf("items=%v page=%d totalPages=%d", ids(items), page, totalPages)
		}
	})
}

func TestVisiblePageNumbers(t *testing.T) {
	if got := VisiblePageNumbers(20, 1); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("at left edge = %v", got)
	}
	if got := VisiblePageNumbers(20, 20); !reflect.DeepEqual(got, []int{16, 17, 18, 19, 20}) {
		t.Errorf("at right edge = %v", got)
	}
}

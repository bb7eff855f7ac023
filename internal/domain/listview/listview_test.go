package listview

import (
	"reflect"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pageSize int
		want     int
	}{
		{"exact multiple", 20, 10, 2},
		{"remainder adds a page", 23, 10, 3},
		{"empty still one page", 0, 10, 1},
		{"fewer items than page", 3, 10, 1},
		{"page size one", 5, 1, 5},
		{"invalid page size", 5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.n, tt.pageSize); got != tt.want {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"in range", 2, 3, 2},
		{"below range", 0, 3, 1},
		{"negative", -4, 3, 1},
		{"above range", 9, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPage(tt.page, tt.totalPages); got != tt.want {
				t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestPage(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	t.Run("last partial page", func(t *testing.T) {
		got := Page(items, 3, 10)
		if len(got) != 3 {
			t.Fatalf("page 3 length = %d, want 3", len(got))
		}
		if got[0] != 21 || got[2] != 23 {
			t.Errorf("page 3 = %v, want [21 22 23]", got)
		}
	})

	t.Run("stale page clamps instead of panicking", func(t *testing.T) {
		got := Page(items, 99, 10)
		if len(got) != 3 {
			t.Errorf("clamped page length = %d, want 3", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := Page([]int{}, 1, 10)
		if len(got) != 0 {
			t.Errorf("empty input page = %v, want empty", got)
		}
	})
}

func TestVisiblePages(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		current    int
		want       []int
	}{
		{"left boundary", 20, 1, []int{1, 2, 3, 4, 5}},
		{"near left boundary", 20, 2, []int{1, 2, 3, 4, 5}},
		{"centered", 20, 10, []int{8, 9, 10, 11, 12}},
		{"right boundary", 20, 20, []int{16, 17, 18, 19, 20}},
		{"near right boundary", 20, 19, []int{16, 17, 18, 19, 20}},
		{"fewer pages than window", 3, 2, []int{1, 2, 3}},
		{"single page", 1, 1, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisiblePages(tt.totalPages, tt.current, DefaultPageWindow)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VisiblePages(%d, %d) = %v, want %v", tt.totalPages, tt.current, got, tt.want)
			}
		})
	}
}

package request

import (
	"sort"
	"strconv"
	"strings"

	"servitrack/internal/domain/listview"
)

// Filter returns the requests matching searchTerm and statusFilter, in the
// original collection order. A request matches the term (case-insensitive)
// when it is a substring of the client name, requester name, or the decimal
// form of the ID; an empty term matches everything. A non-empty status
// filter requires exact equality. Both predicates are ANDed.
//
// Filter never mutates its input and is idempotent: identical arguments
// yield identical contents and ordering.
func Filter(requests []ServiceRequest, searchTerm string, statusFilter Status) []ServiceRequest {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]ServiceRequest, 0, len(requests))
	for _, r := range requests {
		if term != "" && !matchesTerm(r, term) {
			continue
		}
		if statusFilter != "" && r.Status != statusFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesTerm(r ServiceRequest, term string) bool {
	return strings.Contains(strings.ToLower(r.Client), term) ||
		strings.Contains(strings.ToLower(r.Requester), term) ||
		strings.Contains(strconv.Itoa(r.ID), term)
}

// Sortable fields for explicit sorting. Anything else keeps collection order.
const (
	SortByClient    = "client"
	SortByRequester = "requester"
	SortByCreatedAt = "createdAt"
	SortByID        = "id"
)

// Sort orders requests by the given field, ascending unless desc. String
// fields compare lexicographically, dates by instant. The sort is stable so
// ties keep their original order. The input slice is sorted in place.
func Sort(requests []ServiceRequest, field string, desc bool) {
	var less func(a, b ServiceRequest) bool
	switch field {
	case SortByClient:
		less = func(a, b ServiceRequest) bool { return a.Client < b.Client }
	case SortByRequester:
		less = func(a, b ServiceRequest) bool { return a.Requester < b.Requester }
	case SortByCreatedAt:
		less = func(a, b ServiceRequest) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByID:
		less = func(a, b ServiceRequest) bool { return a.ID < b.ID }
	default:
		return
	}

	sort.SliceStable(requests, func(i, j int) bool {
		if desc {
			return less(requests[j], requests[i])
		}
		return less(requests[i], requests[j])
	})
}

// Paginate slices the filtered collection for the given 1-based page,
// clamping the page number, and returns the slice together with the clamped
// page and total page count.
func Paginate(filtered []ServiceRequest, page, pageSize int) (items []ServiceRequest, clampedPage, totalPages int) {
	totalPages = listview.TotalPages(len(filtered), pageSize)
	clampedPage = listview.ClampPage(page, totalPages)
	return listview.Page(filtered, clampedPage, pageSize), clampedPage, totalPages
}

// VisiblePageNumbers returns the page-link window for the listing footer.
func VisiblePageNumbers(totalPages, currentPage int) []int {
	return listview.VisiblePages(totalPages, currentPage, listview.DefaultPageWindow)
}

package galleria

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

const (
	// PageSize is the number of slots on a gallery page.
	PageSize = 9
	// GridColumns is the number of slots per grid row.
	GridColumns = 3
	// GridRows is the number of rows per page.
	GridRows = PageSize / GridColumns
)

// Grid is a page laid out row-major. An empty string is an empty slot.
type Grid [GridRows][GridColumns]string

// Page is one window over the sorted content ids.
type Page struct {
	Grid       Grid
	Number     int
	TotalPages int
	Total      int
}

// IDs returns the filled slots of the page in display order.
func (p Page) IDs() []string {
	ids := make([]string, 0, PageSize)
	for _, row := range p.Grid {
		for _, id := range row {
			if id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// TotalPages returns the number of pages needed for total ids. An empty
// gallery still has one (empty) page.
func TotalPages(total int) int {
	return max(1, (total+PageSize-1)/PageSize)
}

// ParsePage turns a raw page query value into a page number >= 1.
// Anything that is not a plain decimal number becomes 1. Numbers too large
// for an int become math.MaxInt so they clamp to the last page.
func ParsePage(raw string) int {
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 1
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		// only digits, so the sole failure is overflow
		return math.MaxInt
	}

	return max(1, n)
}

// Paginate sorts ids and lays out page requested of them. requested is
// clamped into [1, TotalPages(len(ids))].
func Paginate(ids []string, requested int) Page {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	total := len(sorted)
	totalPages := TotalPages(total)
	page := min(max(1, requested), totalPages)

	start := (page - 1) * PageSize
	end := min(start+PageSize, total)

	var grid Grid
	for i, id := range sorted[start:end] {
		grid[i/GridColumns][i%GridColumns] = id
	}

	return Page{
		Grid:       grid,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}

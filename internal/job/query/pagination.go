package query

// PageItem is one entry of the page-number control: a page button or an ellipsis.
type PageItem struct {
	Page     int // 0 for an ellipsis
	Ellipsis bool
	Current  bool
}

// Controls is the pagination bar for a result page.
type Controls struct {
	Visible     bool // false when there is at most one page
	Items       []PageItem
	PrevEnabled bool
	NextEnabled bool
	PrevPage    int
	NextPage    int
}

// Pagination returns the controls for currentPage of totalPages.
// Page 1, totalPages and every page within 1 of currentPage are shown; each gap collapses into one ellipsis.
func Pagination(currentPage, totalPages int) Controls {
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	c := Controls{
		Visible:     totalPages > 1,
		PrevEnabled: currentPage > 1,
		NextEnabled: currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
	}
	if !c.PrevEnabled {
		c.PrevPage = 0
	}
	if !c.NextEnabled {
		c.NextPage = 0
	}

	last := 0
	for p := 1; p <= totalPages; p++ {
		if p != 1 && p != totalPages && (p < currentPage-1 || p > currentPage+1) {
			continue
		}
		if last != 0 && p-last > 1 {
			c.Items = append(c.Items, PageItem{Ellipsis: true})
		}
		c.Items = append(c.Items, PageItem{Page: p, Current: p == currentPage})
		last = p
	}
	return c
}

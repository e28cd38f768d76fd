package pagination

// DefaultItemsPerPage is used when a page size below one is requested.
const DefaultItemsPerPage = 10

// Page describes one window over a list of items. StartIndex and EndIndex
// form the half-open range [StartIndex, EndIndex).
type Page struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	StartIndex  int  `json:"startIndex"`
	EndIndex    int  `json:"endIndex"`
	HasPrev     bool `json:"hasPrev"`
	HasNext     bool `json:"hasNext"`
}

// Paginate computes the window for currentPage, clamping it into [1, totalPages].
func Paginate(totalItems, itemsPerPage, currentPage int) Page {
	if totalItems < 0 {
		totalItems = 0
	}
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}
	totalPages := TotalPages(totalItems, itemsPerPage)
	currentPage = clamp(currentPage, 1, totalPages)

	start := min((currentPage-1)*itemsPerPage, totalItems)
	end := start + min(itemsPerPage, totalItems-start)
	return Page{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		StartIndex:  start,
		EndIndex:    end,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}

// TotalPages is ceil(totalItems/itemsPerPage), never less than one.
func TotalPages(totalItems, itemsPerPage int) int {
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}
	pages := totalItems / itemsPerPage
	if totalItems%itemsPerPage > 0 {
		pages++
	}
	return max(1, pages)
}

// Window returns the items covered by p.
func Window[T any](items []T, p Page) []T {
	start := clamp(p.StartIndex, 0, len(items))
	end := clamp(p.EndIndex, start, len(items))
	return items[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Paginator tracks the current page of a list whose length may change.
// Every navigation call funnels through GoToPage.
type Paginator struct {
	totalItems   int
	itemsPerPage int
	currentPage  int
}

func NewPaginator(totalItems, itemsPerPage, initialPage int) *Paginator {
	p := &Paginator{totalItems: totalItems, itemsPerPage: itemsPerPage}
	p.GoToPage(initialPage)
	return p
}

// SetTotal updates the item count and re-clamps the current page.
func (p *Paginator) SetTotal(totalItems int) Page {
	p.totalItems = totalItems
	return p.GoToPage(p.currentPage)
}

func (p *Paginator) GoToPage(page int) Page {
	current := Paginate(p.totalItems, p.itemsPerPage, page)
	p.currentPage = current.CurrentPage
	return current
}

func (p *Paginator) Next() Page  { return p.GoToPage(p.currentPage + 1) }
func (p *Paginator) Prev() Page  { return p.GoToPage(p.currentPage - 1) }
func (p *Paginator) First() Page { return p.GoToPage(1) }
func (p *Paginator) Last() Page  { return p.GoToPage(TotalPages(p.totalItems, p.itemsPerPage)) }

// Page returns the current window.
func (p *Paginator) Page() Page {
	return Paginate(p.totalItems, p.itemsPerPage, p.currentPage)
}

package state

// PageSize is the fixed page size for every list view.
const PageSize = 8

// Pager tracks a 1-based page index. The invariant: after Clamp the
// page is always within [1, Pages(total)], even when the collection
// shrank under it (e.g. after a delete).
type Pager struct {
	page int
}

// Pages returns the page count for a collection of the given size,
// never less than 1.
func Pages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

func (p *Pager) Current() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// SetPage jumps to a 1-based page; Clamp on the next load keeps it
// within range.
func (p *Pager) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	p.page = n
}

func (p *Pager) Clamp(total int) {
	if p.page < 1 {
		p.page = 1
	}
	if max := Pages(total); p.page > max {
		p.page = max
	}
}

// Next advances one page; reports whether the page changed.
func (p *Pager) Next(total int) bool {
	p.Clamp(total)
	if p.page >= Pages(total) {
		return false
	}
	p.page++
	return true
}

// Prev steps one page back; reports whether the page changed.
func (p *Pager) Prev() bool {
	if p.Current() <= 1 {
		p.page = 1
		return false
	}
	p.page--
	return true
}

// Paginate clamps the pager against the collection and returns the
// page count together with the active page's slice.
func Paginate[T any](p *Pager, items []T) (pages int, page []T) {
	p.Clamp(len(items))
	pages = Pages(len(items))
	start := (p.Current() - 1) * PageSize
	if start >= len(items) {
		return pages, nil
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return pages, items[start:end]
}

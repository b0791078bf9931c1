// AngelaMos | 2026
// pagination.go

package core

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPageIndex    = 1_000_000
)

// PageRequest addresses a page by zero-based index.
type PageRequest struct {
	PageIndex int `json:"page_index" validate:"gte=0,lte=1000000"`
	PageSize  int `json:"page_size"  validate:"gte=0,lte=100"`
}

func (p *PageRequest) Normalize() {
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	if p.PageIndex > MaxPageIndex {
		p.PageIndex = MaxPageIndex
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

func (p PageRequest) Offset() int {
	return p.PageIndex * p.PageSize
}

type Page[T any] struct {
	Items []T `json:"items"`
	Index int `json:"index"`
	Size  int `json:"size"`
	Count int `json:"count"`
	Pages int `json:"pages"`
}

func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}

	pages := 0
	if req.PageSize > 0 {
		pages = (total + req.PageSize - 1) / req.PageSize
	}

	return Page[T]{
		Items: items,
		Index: req.PageIndex,
		Size:  req.PageSize,
		Count: total,
		Pages: pages,
	}
}

func (p Page[T]) HasPrevious() bool {
	return p.Index > 0
}

func (p Page[T]) HasNext() bool {
	return p.Index+1 < p.Pages
}

// MapPage converts the items of a page while keeping its paging metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}

	return Page[U]{
		Items: items,
		Index: p.Index,
		Size:  p.Size,
		Count: p.Count,
		Pages: p.Pages,
	}
}

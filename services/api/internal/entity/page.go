package entity

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize clamps the limit to (0, MaxPageLimit] and the offset to >= 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type PageResult[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func NewPageResult[T any](items []T, total int64, page Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{
		Items:   items,
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: int64(page.Offset+len(items)) < total,
	}
}

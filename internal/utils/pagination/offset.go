package pagination

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is an offset-based page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// WithDefaults fills zero values with DefaultPage/DefaultLimit.
func (p Params) WithDefaults() Params {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// MaxPage is the largest page whose offset fits in an int for limit.
func MaxPage(limit int) int {
	if limit < 1 {
		return math.MaxInt
	}
	return math.MaxInt/limit + 1
}

// Offset is the number of rows to skip: (page-1)*limit. Pages past
// MaxPage saturate at math.MaxInt.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	if p.Page > MaxPage(p.Limit) {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Info is the pagination block returned alongside a page of results.
type Info struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewInfo computes page metadata: pages = ceil(total/limit).
func NewInfo(p Params, total int64) Info {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Info{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}

package pagination

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta is echoed back on every list endpoint.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
}

// MaxLimit caps how many rows any list query can request.
const MaxLimit = 100

// Normalize enforces the caller-supplied default limit, a minimum page of 1,
// and the global maximum limit.
func Normalize(p Params, defaultLimit int) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor builds the response metadata for a total row count.
func (p Params) MetaFor(totalItems int64) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((totalItems + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		CurrentPage:  p.Page,
		ItemsPerPage: p.Limit,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
	}
}

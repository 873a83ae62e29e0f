// Package pagination defines the paginated search contract shared by the
// console and the backend.
package pagination

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrNegativePage = errors.New("pagina and quantidadePorPagina must not be negative")

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// UnmarshalJSON accepts "ASC", "DESC", their lower-case forms, and 1 / -1
// either as numbers or strings.
func (d *Direction) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = fmt.Sprint(int(v))
	default:
		return fmt.Errorf("pagination: invalid direction %s", b)
	}
	switch strings.ToUpper(s) {
	case "ASC", "1":
		*d = Asc
	case "DESC", "-1":
		*d = Desc
	default:
		return fmt.Errorf("pagination: invalid direction %q", s)
	}
	return nil
}

// OrderBy maps a field name to its sort direction.
type OrderBy map[string]Direction

// Fields returns the ordered field names in a stable order.
func (o OrderBy) Fields() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PageRequest asks for one page of results filtered by an arbitrary filter
// object. Page is zero-based.
type PageRequest[T any] struct {
	Page     int     `json:"pagina" validate:"min=0"`
	PageSize int     `json:"quantidadePorPagina" validate:"min=0"`
	OrderBy  OrderBy `json:"ordenarPor"`
	Filter   T       `json:"object"`
}

// NewPageRequest builds a normalized request.
func NewPageRequest[T any](page, size int, orderBy OrderBy, filter T) PageRequest[T] {
	r := PageRequest[T]{Page: page, PageSize: size, OrderBy: orderBy, Filter: filter}
	r.Normalize()
	return r
}

// Normalize applies the page size defaults: 0 becomes DefaultPageSize and
// anything above MaxPageSize is capped. Negative sizes are left untouched.
func (r *PageRequest[T]) Normalize() {
	switch {
	case r.PageSize == 0:
		r.PageSize = DefaultPageSize
	case r.PageSize > MaxPageSize:
		r.PageSize = MaxPageSize
	}
	if r.OrderBy == nil {
		r.OrderBy = OrderBy{}
	}
}

// CheckBounds rejects a negative page or page size.
func (r PageRequest[T]) CheckBounds() error {
	if r.Page < 0 || r.PageSize < 0 {
		return fmt.Errorf("%w: pagina=%d quantidadePorPagina=%d", ErrNegativePage, r.Page, r.PageSize)
	}
	return nil
}

// PageResponse is one page of results.
type PageResponse[T any] struct {
	Count    int `json:"quantidadeNaPagina"`
	Total    int `json:"quantidadeTotal"`
	Page     int `json:"pagina"`
	LastPage int `json:"ultimaPagina"`
	PageSize int `json:"quantidadePorPagina"`
	Records  []T `json:"registros"`
}

// NewPageResponse assembles a response for records taken at page of a
// result set holding total rows.
func NewPageResponse[T any](records []T, total, page, size int) PageResponse[T] {
	if records == nil {
		records = []T{}
	}
	return PageResponse[T]{
		Count:    len(records),
		Total:    total,
		Page:     page,
		LastPage: LastPage(total, size),
		PageSize: size,
		Records:  records,
	}
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

// ComputeSkip clamps page to the last existing page and returns it together
// with the number of rows to skip. When total is zero the requested page is
// kept so callers still see the page they asked for.
func ComputeSkip(total, page, size int) (int, int) {
	if size <= 0 {
		return page, 0
	}
	totalPages := page + 1
	if total > 0 {
		totalPages = ceilDiv(total, size)
	}
	if totalPages < 1 {
		totalPages = 1
	}
	clamped := min(page, totalPages-1)
	return clamped, clamped * size
}

// LastPage reports the number of pages for total rows, 0 for an empty set.
func LastPage(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return ceilDiv(total, size)
}

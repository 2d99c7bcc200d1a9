// Package pagination slices an ordered collection into numbered pages and
// builds the links a client follows to move between them.
//
// Pages are 1-indexed. A page past the end is not an error: it comes back
// empty with the usual metadata, so clients can stop when Items is empty.
package pagination

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// Query parameter names.
const (
	PageParam     = "page"
	PageSizeParam = "page_size"
)

// Defaults used when a Paginator field is zero.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Errors returned by ParseRequest. Their messages are returned to API clients verbatim.
//
//nolint:staticcheck
var (
	ErrInvalidPage     = errors.New("Invalid page")
	ErrInvalidPageSize = errors.New("Invalid page size")
)

// Paginator holds the page size policy of an endpoint.
type Paginator struct {
	DefaultPageSize int
	MaxPageSize     int
}

// New returns a Paginator, replacing non-positive sizes with the package
// defaults and capping the default at the maximum.
func New(defaultPageSize, maxPageSize int) Paginator {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if defaultPageSize > maxPageSize {
		defaultPageSize = maxPageSize
	}
	return Paginator{DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize}
}

// Request is a validated page selection.
type Request struct {
	Page     int
	PageSize int
}

// ParseRequest reads page and page_size from the query. Both must be positive
// integers when present; page_size above MaxPageSize is capped.
func (p Paginator) ParseRequest(values url.Values) (Request, error) {
	p = New(p.DefaultPageSize, p.MaxPageSize)
	req := Request{Page: 1, PageSize: p.DefaultPageSize}

	if raw := values.Get(PageParam); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Request{}, ErrInvalidPage
		}
		req.Page = page
	}

	if raw := values.Get(PageSizeParam); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return Request{}, ErrInvalidPageSize
		}
		req.PageSize = min(size, p.MaxPageSize)
	}

	return req, nil
}

// Page is one slice of a collection plus the metadata describing it.
type Page[T any] struct {
	Items       []T
	Count       int
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// HasNext reports whether a later page holds items.
func (pg Page[T]) HasNext() bool {
	return pg.CurrentPage < pg.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (pg Page[T]) HasPrevious() bool {
	return pg.CurrentPage > 1
}

// Paginate returns the requested page of items. An empty collection has one
// empty page. Items is never nil.
func Paginate[T any](items []T, req Request) Page[T] {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}

	count := len(items)
	totalPages := max(1, (count+req.PageSize-1)/req.PageSize)

	pg := Page[T]{
		Items:       []T{},
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
		PageSize:    req.PageSize,
	}

	start := (req.Page - 1) * req.PageSize
	if start >= count {
		return pg
	}
	end := min(start+req.PageSize, count)
	pg.Items = items[start:end:end]
	return pg
}

// Map converts every item of a page, keeping the metadata.
func Map[T, U any](pg Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(pg.Items))
	for i, item := range pg.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:       out,
		Count:       pg.Count,
		TotalPages:  pg.TotalPages,
		CurrentPage: pg.CurrentPage,
		PageSize:    pg.PageSize,
	}
}

// Links returns the absolute URLs of the neighbouring pages of pg, or nil
// where there is none. Other query parameters of u are preserved; the link to
// the first page drops the page parameter.
func Links[T any](u *url.URL, pg Page[T]) (next, previous *string) {
	if pg.HasNext() {
		s := withPage(u, pg.CurrentPage+1)
		next = &s
	}
	if pg.HasPrevious() {
		s := withPage(u, min(pg.CurrentPage-1, pg.TotalPages))
		previous = &s
	}
	return next, previous
}

func withPage(u *url.URL, page int) string {
	link := *u
	q := link.Query()
	if page <= 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(page))
	}
	link.RawQuery = q.Encode()
	link.Fragment = ""
	return link.String()
}

// RequestURL reconstructs the absolute URL of r, honouring X-Forwarded-Proto
// and X-Forwarded-Host set by a reverse proxy.
func RequestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}

// Package listquery turns the raw query parameters of a shopping list request
// into a validated, tagged Query and runs it against a ShoppingItemStore.
//
// Parameter rules, checked in order with the first failure reported:
//
//  1. sort_by, when present, must be "asc" or "desc".
//  2. start_date requires end_date.
//  3. end_date requires start_date.
//  4. Both dates must be YYYY-MM-DD.
//
// A valid date range takes precedence over a search term; without either the
// whole list is selected. Sorting by item ID is applied after selection.
package listquery

import (
	"errors"
	"time"
)

// DateLayout is the accepted format of start_date and end_date.
const DateLayout = "2006-01-02"

// Validation errors. Their messages are returned to API clients verbatim.
//
//nolint:staticcheck
var (
	ErrInvalidSortOption = errors.New("Invalid sort option")
	ErrEndDateRequired   = errors.New("End date is required")
	ErrStartDateRequired = errors.New("Start date is required")
	ErrInvalidDateFormat = errors.New("Invalid date format. Date format should be YYYY-MM-DD")
)

// IsValidationError reports whether err is one of this package's parameter errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSortOption) ||
		errors.Is(err, ErrEndDateRequired) ||
		errors.Is(err, ErrStartDateRequired) ||
		errors.Is(err, ErrInvalidDateFormat)
}

// Params holds the raw request parameters. Empty strings mean absent.
type Params struct {
	SortBy    string
	Search    string
	StartDate string
	EndDate   string
}

// Selection identifies which subset of a user's items a Query selects.
type Selection int

// Selection modes.
const (
	SelectAll Selection = iota
	SelectSearch
	SelectDateRange
)

func (s Selection) String() string {
	switch s {
	case SelectSearch:
		return "search"
	case SelectDateRange:
		return "date_range"
	default:
		return "all"
	}
}

// SortOrder is the ordering applied to the selected items.
type SortOrder int

// Sort orders. SortNone keeps the store's order.
const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Query is a validated list request. Only the fields relevant to Selection
// are set: Term for SelectSearch, Start and End for SelectDateRange.
type Query struct {
	Selection Selection
	Sort      SortOrder
	Term      string
	Start     time.Time
	End       time.Time
}

// Parse validates p and resolves it into a Query.
func Parse(p Params) (Query, error) {
	var q Query

	switch p.SortBy {
	case "":
		q.Sort = SortNone
	case "asc":
		q.Sort = SortAsc
	case "desc":
		q.Sort = SortDesc
	default:
		return Query{}, ErrInvalidSortOption
	}

	hasStart, hasEnd := p.StartDate != "", p.EndDate != ""
	switch {
	case hasStart && !hasEnd:
		return Query{}, ErrEndDateRequired
	case hasEnd && !hasStart:
		return Query{}, ErrStartDateRequired
	case hasStart && hasEnd:
		start, err := time.Parse(DateLayout, p.StartDate)
		if err != nil {
			return Query{}, ErrInvalidDateFormat
		}
		end, err := time.Parse(DateLayout, p.EndDate)
		if err != nil {
			return Query{}, ErrInvalidDateFormat
		}
		q.Selection = SelectDateRange
		q.Start, q.End = start, end
		return q, nil
	}

	if p.Search != "" {
		q.Selection = SelectSearch
		q.Term = p.Search
		return q, nil
	}

	q.Selection = SelectAll
	return q, nil
}

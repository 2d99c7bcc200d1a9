package listquery_test

import (
	"testing"
	"time"

	"github.com/phrazzld/shopping-list-api/internal/listquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  listquery.Params
		wantErr error
	}{
		{
			name:    "unknown sort option",
			params:  listquery.Params{SortBy: "newest"},
			wantErr: listquery.ErrInvalidSortOption,
		},
		{
			name:    "sort option is case-sensitive",
			params:  listquery.Params{SortBy: "ASC"},
			wantErr: listquery.ErrInvalidSortOption,
		},
		{
			name:    "start date without end date",
			params:  listquery.Params{StartDate: "2024-01-01"},
			wantErr: listquery.ErrEndDateRequired,
		},
		{
			name:    "end date without start date",
			params:  listquery.Params{EndDate: "2024-01-31"},
			wantErr: listquery.ErrStartDateRequired,
		},
		{
			name:    "malformed start date",
			params:  listquery.Params{StartDate: "2024-13-40", EndDate: "2024-01-31"},
			wantErr: listquery.ErrInvalidDateFormat,
		},
		{
			name:    "malformed end date",
			params:  listquery.Params{StartDate: "2024-01-01", EndDate: "31/01/2024"},
			wantErr: listquery.ErrInvalidDateFormat,
		},
		{
			name:    "sort is checked before dates",
			params:  listquery.Params{SortBy: "sideways", StartDate: "2024-01-01"},
			wantErr: listquery.ErrInvalidSortOption,
		},
		{
			name:    "missing end date wins over malformed start date",
			params:  listquery.Params{StartDate: "nope"},
			wantErr: listquery.ErrEndDateRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := listquery.Parse(tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, listquery.IsValidationError(err))
		})
	}
}

func TestParse_Selection(t *testing.T) {
	t.Run("nothing selects all", func(t *testing.T) {
		q, err := listquery.Parse(listquery.Params{})
		require.NoError(t, err)
		assert.Equal(t, listquery.SelectAll, q.Selection)
		assert.Equal(t, listquery.SortNone, q.Sort)
	})

	t.Run("search", func(t *testing.T) {
		q, err := listquery.Parse(listquery.Params{Search: "milk", SortBy: "desc"})
		require.NoError(t, err)
		assert.Equal(t, listquery.SelectSearch, q.Selection)
		assert.Equal(t, "milk", q.Term)
		assert.Equal(t, listquery.SortDesc, q.Sort)
	})

	t.Run("date range", func(t *testing.T) {
		q, err := listquery.Parse(listquery.Params{StartDate: "2024-01-01", EndDate: "2024-01-31", SortBy: "asc"})
		require.NoError(t, err)
		assert.Equal(t, listquery.SelectDateRange, q.Selection)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.Start)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), q.End)
		assert.Equal(t, listquery.SortAsc, q.Sort)
	})

	t.Run("date range wins over search", func(t *testing.T) {
		q, err := listquery.Parse(listquery.Params{
			Search:    "milk",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
		})
		require.NoError(t, err)
		assert.Equal(t, listquery.SelectDateRange, q.Selection)
		assert.Empty(t, q.Term)
	})
}

func TestValidationMessages(t *testing.T) {
	assert.Equal(t, "Invalid sort option", listquery.ErrInvalidSortOption.Error())
	assert.Equal(t, "End date is required", listquery.ErrEndDateRequired.Error())
	assert.Equal(t, "Start date is required", listquery.ErrStartDateRequired.Error())
	assert.Equal(t, "Invalid date format. Date format should be YYYY-MM-DD",
		listquery.ErrInvalidDateFormat.Error())
}

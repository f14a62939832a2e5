package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

// PathID parses a positive integer path parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Field(name, "must be a positive integer")
	}

	return id, nil
}

// ListFilter reads start_date, end_date (YYYY-MM-DD, inclusive) and category
// from the query string. The end date covers the whole day.
func ListFilter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, validation.Field("start_date", "must be a date (YYYY-MM-DD)")
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, validation.Field("end_date", "must be a date (YYYY-MM-DD)")
		}

		filter.EndDate = new(t.Add(24*time.Hour - time.Nanosecond))
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, validation.Field("end_date", "must not be before start_date")
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(s)
	}

	return filter, nil
}

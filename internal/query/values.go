package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/erazemk/izposoja/internal/model"
)

// URL parameter names used to carry a State.
const (
	ParamSearch   = "search"
	ParamType     = "type"
	ParamFrom     = "from"
	ParamTo       = "to"
	ParamStatus   = "status"
	ParamSort     = "sort"
	ParamDir      = "dir"
	ParamPage     = "page"
	ParamPageSize = "page_size"

	// ParamFiltered marks a submitted filter form, so that unchecking every
	// status is distinguishable from not sending the form at all.
	ParamFiltered = "filtered"
)

// FromValues reads a State from URL parameters, starting from DefaultState.
// Malformed values are ignored.
func FromValues(v url.Values) State {
	s := DefaultState()

	s.Search = v.Get(ParamSearch)
	s.Type = v.Get(ParamType)
	if d, err := model.ParseDate(v.Get(ParamFrom)); err == nil {
		s.DateFrom = d
	}
	if d, err := model.ParseDate(v.Get(ParamTo)); err == nil {
		s.DateTo = d
	}

	if statuses, ok := v[ParamStatus]; ok || v.Has(ParamFiltered) {
		s.Statuses = nil
		for _, st := range statuses {
			if st = strings.TrimSpace(st); st != "" {
				s.Statuses = append(s.Statuses, model.Status(st))
			}
		}
	}

	if key := v.Get(ParamSort); key != "" {
		s.SortKey = SortKey(key)
	}
	switch Direction(v.Get(ParamDir)) {
	case Asc:
		s.SortDir = Asc
	case Desc:
		s.SortDir = Desc
	}

	if n, err := strconv.Atoi(v.Get(ParamPage)); err == nil && n > 0 {
		s.Page = n
	}
	if n, err := strconv.Atoi(v.Get(ParamPageSize)); err == nil && n > 0 {
		s.PageSize = n
	}
	return s
}

// Values encodes s as URL parameters. FromValues(s.Values()) reproduces s
// when its page and page size are positive.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	if s.Type != "" {
		v.Set(ParamType, s.Type)
	}
	if !s.DateFrom.IsZero() {
		v.Set(ParamFrom, s.DateFrom.Key())
	}
	if !s.DateTo.IsZero() {
		v.Set(ParamTo, s.DateTo.Key())
	}
	v.Set(ParamFiltered, "1")
	for _, st := range s.Statuses {
		v.Add(ParamStatus, string(st))
	}
	v.Set(ParamSort, string(s.SortKey))
	v.Set(ParamDir, string(s.SortDir))
	v.Set(ParamPage, strconv.Itoa(s.Page))
	v.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	return v
}

// HasStatus reports whether st is selected in s.
func (s State) HasStatus(st model.Status) bool {
	return slices.Contains(s.Statuses, st)
}

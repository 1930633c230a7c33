// Package query turns raw, stringly-typed filter input from the HTTP
// boundary into a strictly-typed FilterSpec. Normalization is total: no
// input, however malformed, produces an error. Unusable values degrade
// to "no constraint" so list endpoints stay available.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort fields accepted by list operations. Anything else falls back to
// SortName.
const (
	SortName    = "name"
	SortCost    = "cost"
	SortBrand   = "brand"
	SortCreated = "created"
)

// Sort directions.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

var sortFields = map[string]bool{
	SortName:    true,
	SortCost:    true,
	SortBrand:   true,
	SortCreated: true,
}

// FilterSpec is the typed result of normalizing raw filter input. Nil
// pointer fields mean "no constraint". It is the only filter input the
// store accepts.
type FilterSpec struct {
	Search          string
	VendorID        *int64
	PieceID         *int64
	CostMin         *int64
	CostMax         *int64
	IncludeInactive bool
	FlaggedOnly     bool
	SortBy          string
	SortDir         string
}

// Normalize converts raw query values into a FilterSpec. It never fails;
// empty, whitespace-only, non-numeric, or negative numeric inputs are
// treated as absent, and unknown sort values fall back to name ascending.
func Normalize(values url.Values) FilterSpec {
	spec := FilterSpec{
		Search:          strings.TrimSpace(values.Get("q")),
		VendorID:        parseID(values.Get("vendor_id")),
		PieceID:         parseID(values.Get("piece_id")),
		CostMin:         parseAmount(values.Get("cost_min")),
		CostMax:         parseAmount(values.Get("cost_max")),
		IncludeInactive: parseBool(values.Get("include_inactive")),
		FlaggedOnly:     parseBool(values.Get("flagged")),
		SortBy:          SortName,
		SortDir:         DirAsc,
	}

	if sort := strings.ToLower(strings.TrimSpace(values.Get("sort"))); sortFields[sort] {
		spec.SortBy = sort
	}
	if dir := strings.ToLower(strings.TrimSpace(values.Get("dir"))); dir == DirDesc {
		spec.SortDir = DirDesc
	}

	return spec
}

// parseID parses a positive integer id, returning nil for anything that
// isn't one.
func parseID(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// parseAmount parses a non-negative integer amount in cents.
func parseAmount(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// parseBool interprets the usual HTML form truthy values.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Package sqlbuild assembles parameterized SELECT statements over the
// wines table. User-supplied values are always bound parameters; the only
// identifiers that reach query text come from closed whitelist lookups.
package sqlbuild

import (
	"strings"

	"winebuddy/internal/domain"
)

// Filters holds the optional, independent query predicates. A nil field
// (or false flag) omits its clause entirely. Present predicates are
// combined with AND in the fixed order Build appends them.
type Filters struct {
	Color      *string  // exact match, case-sensitive
	Producer   *string  // substring containment, case-insensitive
	Varietal   *string  // substring containment, case-insensitive
	Country    *string  // exact match
	Region     *string  // substring containment, case-insensitive
	Vintage    *int64   // exact vintage year
	VintageMin *int64   // inclusive lower bound
	VintageMax *int64   // inclusive upper bound
	ScoreMin   *float64 // professional_score >= value
	InStock    bool     // quantity > 0
	Ready      bool     // drinking window contains the given year
}

// Build produces a parameterized query and its bound parameters from the
// filter set. Clause order is fixed, so identical inputs yield
// byte-identical output. year supplies "today" for the Ready predicate.
func Build(f Filters, sortKey SortKey, desc bool, limit *int64, year int64) (string, []any, error) {
	if _, ok := sortColumns[sortKey]; !ok {
		return "", nil, domain.ErrValidation("unknown sort key %q: valid keys are %s", string(sortKey), keyList(sortKeys()))
	}
	if limit != nil && *limit <= 0 {
		return "", nil, domain.ErrValidation("limit must be a positive integer, got %d", *limit)
	}

	var conds []string
	var args []any

	if f.Color != nil {
		conds = append(conds, "color = ?")
		args = append(args, *f.Color)
	}
	if f.Producer != nil {
		conds = append(conds, "LOWER(producer) LIKE ?")
		args = append(args, containsPattern(*f.Producer))
	}
	if f.Varietal != nil {
		conds = append(conds, "LOWER(varietal) LIKE ?")
		args = append(args, containsPattern(*f.Varietal))
	}
	if f.Country != nil {
		conds = append(conds, "country = ?")
		args = append(args, *f.Country)
	}
	if f.Region != nil {
		conds = append(conds, "LOWER(region) LIKE ?")
		args = append(args, containsPattern(*f.Region))
	}
	if f.Vintage != nil {
		conds = append(conds, "vintage = ?")
		args = append(args, *f.Vintage)
	}
	if f.VintageMin != nil {
		conds = append(conds, "vintage >= ?")
		args = append(args, *f.VintageMin)
	}
	if f.VintageMax != nil {
		conds = append(conds, "vintage <= ?")
		args = append(args, *f.VintageMax)
	}
	if f.ScoreMin != nil {
		conds = append(conds, "professional_score >= ?")
		args = append(args, *f.ScoreMin)
	}
	if f.InStock {
		conds = append(conds, "quantity > 0")
	}
	if f.Ready {
		// A 9999 bound means "unknown"; such rows are never ready even
		// when the numeric comparison would admit them.
		conds = append(conds, "begin_consume <= ?")
		conds = append(conds, "end_consume >= ?")
		conds = append(conds, "begin_consume != 9999")
		conds = append(conds, "end_consume != 9999")
		args = append(args, year, year)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(QueryColumns, ", "))
	sb.WriteString(" FROM wines")

	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(sortKey.Column())
	if desc {
		sb.WriteString(" DESC")
	} else {
		sb.WriteString(" ASC")
	}

	if limit != nil {
		sb.WriteString(" LIMIT ?")
		args = append(args, *limit)
	}

	return sb.String(), args, nil
}

// containsPattern builds a case-insensitive LIKE pattern for substring
// containment.
func containsPattern(v string) string {
	return "%" + strings.ToLower(v) + "%"
}

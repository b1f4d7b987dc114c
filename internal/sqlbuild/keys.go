package sqlbuild

import (
	"sort"
	"strings"

	"winebuddy/internal/domain"
)

// QueryColumns are the columns every wine query selects, in scan order.
// The repository and the output formatters both rely on this order.
var QueryColumns = []string{
	"id",
	"wine_name",
	"vintage",
	"producer",
	"varietal",
	"color",
	"country",
	"region",
	"subregion",
	"quantity",
	"value",
	"professional_score",
	"begin_consume",
	"end_consume",
}

// SortKey is a request-level sort identifier. Only the values below are
// valid; the key itself never appears in generated SQL, it is resolved
// through sortColumns first.
type SortKey string

const (
	SortVintage  SortKey = "vintage"
	SortProducer SortKey = "producer"
	SortScore    SortKey = "score"
	SortValue    SortKey = "value"
	SortName     SortKey = "name"
)

// sortColumns maps sort keys to schema column names. This mapping is the
// injection boundary: only its values are ever interpolated into SQL.
var sortColumns = map[SortKey]string{
	SortVintage:  "vintage",
	SortProducer: "producer",
	SortScore:    "professional_score",
	SortValue:    "value",
	SortName:     "wine_name",
}

// ParseSortKey validates a raw sort key string. Unknown keys are a
// ValidationError; the raw string is never used as an identifier.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(s))
	if _, ok := sortColumns[key]; !ok {
		return "", domain.ErrValidation("unknown sort key %q: valid keys are %s", s, keyList(sortKeys()))
	}
	return key, nil
}

// Column returns the schema column a sort key resolves to.
func (k SortKey) Column() string {
	return sortColumns[k]
}

func sortKeys() []string {
	keys := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		keys = append(keys, string(k))
	}
	return keys
}

// DiscoverColumn is a column whose distinct values may be listed. The
// whitelist is separate from (and smaller than) the sort whitelist.
type DiscoverColumn string

const (
	DiscoverColor    DiscoverColumn = "color"
	DiscoverProducer DiscoverColumn = "producer"
	DiscoverVarietal DiscoverColumn = "varietal"
	DiscoverCountry  DiscoverColumn = "country"
	DiscoverRegion   DiscoverColumn = "region"
	DiscoverVintage  DiscoverColumn = "vintage"
)

// discoverColumns maps discoverable request identifiers to schema columns.
// The names happen to coincide today; the indirection keeps the schema
// name the only thing that reaches SQL text.
var discoverColumns = map[DiscoverColumn]string{
	DiscoverColor:    "color",
	DiscoverProducer: "producer",
	DiscoverVarietal: "varietal",
	DiscoverCountry:  "country",
	DiscoverRegion:   "region",
	DiscoverVintage:  "vintage",
}

// ParseDiscoverColumn validates a raw discover column name.
func ParseDiscoverColumn(s string) (DiscoverColumn, error) {
	col := DiscoverColumn(strings.ToLower(s))
	if _, ok := discoverColumns[col]; !ok {
		return "", domain.ErrValidation("unknown discover column %q: valid columns are %s", s, keyList(discoverKeys()))
	}
	return col, nil
}

// Column returns the schema column a discover column resolves to.
func (c DiscoverColumn) Column() string {
	return discoverColumns[c]
}

func discoverKeys() []string {
	keys := make([]string, 0, len(discoverColumns))
	for k := range discoverColumns {
		keys = append(keys, string(k))
	}
	return keys
}

func keyList(keys []string) string {
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

package sqlbuild

import (
	"fmt"

	"winebuddy/internal/domain"
)

// BuildDiscovery produces a query listing the distinct, non-NULL values of
// one whitelisted column in ascending order. The column identifier is
// resolved through the discover whitelist before it touches query text;
// an unknown column is rejected here, before anything executes.
func BuildDiscovery(col DiscoverColumn) (string, error) {
	schemaCol, ok := discoverColumns[col]
	if !ok {
		return "", domain.ErrValidation("unknown discover column %q: valid columns are %s", string(col), keyList(discoverKeys()))
	}
	return fmt.Sprintf(
		"SELECT DISTINCT %s FROM wines WHERE %s IS NOT NULL ORDER BY %s",
		schemaCol, schemaCol, schemaCol,
	), nil
}

// Package domain defines core types and errors for the wine cellar tool.
package domain

// Wine is one row of the wines table: a distinct wine/vintage/lot.
// Nullable columns are pointers; nil means SQL NULL. Quantity counters
// default to zero when the source omits them, so they stay plain ints.
type Wine struct {
	ID                int64    `json:"id"`
	WineName          *string  `json:"wine_name"`
	Vintage           *int64   `json:"vintage"`
	Producer          *string  `json:"producer"`
	Varietal          *string  `json:"varietal"`
	Color             *string  `json:"color"`
	Category          *string  `json:"category"`
	Size              *string  `json:"size"`
	Currency          *string  `json:"currency"`
	Country           *string  `json:"country"`
	Region            *string  `json:"region"`
	Subregion         *string  `json:"subregion"`
	Locale            *string  `json:"locale"`
	TotalQuantity     int64    `json:"total_quantity"`
	Quantity          int64    `json:"quantity"`
	Pending           int64    `json:"pending"`
	Value             *float64 `json:"value"`
	Price             *float64 `json:"price"`
	BeginConsume      *int64   `json:"begin_consume"`
	EndConsume        *int64   `json:"end_consume"`
	ProfessionalScore *float64 `json:"professional_score"`
	CommunityScore    *float64 `json:"community_score"`
}

// Sentinel values used by the CellarTracker export format.
const (
	// NonVintageSentinel marks a wine with no harvest-year identity in the
	// source data. It is normalized to NULL on import and must never be
	// stored.
	NonVintageSentinel = 1001

	// UnknownBoundSentinel marks an unset drinking-window bound. Unlike the
	// vintage sentinel it is stored verbatim; "ready to drink" predicates
	// must treat it as unknown, the same as NULL.
	UnknownBoundSentinel = 9999
)

// NonVintage reports whether the wine has no single harvest year.
func (w *Wine) NonVintage() bool {
	return w.Vintage == nil
}

// InStock reports whether any bottles are currently held.
func (w *Wine) InStock() bool {
	return w.Quantity > 0
}

// ReadyIn reports whether the given year falls inside the drinking window.
// A missing or unknown (9999) bound on either side means not ready.
func (w *Wine) ReadyIn(year int64) bool {
	if w.BeginConsume == nil || w.EndConsume == nil {
		return false
	}
	if *w.BeginConsume == UnknownBoundSentinel || *w.EndConsume == UnknownBoundSentinel {
		return false
	}
	return *w.BeginConsume <= year && year <= *w.EndConsume
}

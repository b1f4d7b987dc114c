package importer

import (
	"strconv"

	"winebuddy/internal/domain"
)

// RawRecord is one CSV record keyed by header name, already decoded from
// the export's Latin-1 encoding.
type RawRecord map[string]string

// Source column names. Exact names are an external contract with the
// CellarTracker export format.
const (
	colColor         = "Color"
	colCategory      = "Category"
	colSize          = "Size"
	colCurrency      = "Currency"
	colValue         = "Value"
	colPrice         = "Price"
	colTotalQuantity = "TotalQuantity"
	colQuantity      = "Quantity"
	colPending       = "Pending"
	colVintage       = "Vintage"
	colWine          = "Wine"
	colLocale        = "Locale"
	colProducer      = "Producer"
	colVarietal      = "Varietal"
	colCountry       = "Country"
	colRegion        = "Region"
	colSubRegion     = "SubRegion"
	colBeginConsume  = "BeginConsume"
	colEndConsume    = "EndConsume"
	colPScore        = "PScore"
	colCScore        = "CScore"
)

// NormalizeRecord converts one raw record into a typed wine row.
//
// Sentinel handling is domain policy and lives only here: a vintage of
// 1001 (non-vintage) becomes NULL, while 9999 drinking-window bounds pass
// through verbatim as "unknown". Empty or unparseable numerics become
// NULL except the quantity counters, which default to 0. A record with no
// wine name column at all is a per-record error, not a fatal one.
func NormalizeRecord(rec RawRecord) (domain.Wine, error) {
	if _, ok := rec[colWine]; !ok {
		return domain.Wine{}, domain.ErrValidation("record is missing required column %q", colWine)
	}

	return domain.Wine{
		Color:             parseText(rec[colColor]),
		Category:          parseText(rec[colCategory]),
		Size:              parseText(rec[colSize]),
		Currency:          parseText(rec[colCurrency]),
		Value:             parseFloat(rec[colValue]),
		Price:             parseFloat(rec[colPrice]),
		TotalQuantity:     parseCount(rec[colTotalQuantity]),
		Quantity:          parseCount(rec[colQuantity]),
		Pending:           parseCount(rec[colPending]),
		Vintage:           parseVintage(rec[colVintage]),
		WineName:          parseText(rec[colWine]),
		Locale:            parseText(rec[colLocale]),
		Producer:          parseText(rec[colProducer]),
		Varietal:          parseText(rec[colVarietal]),
		Country:           parseText(rec[colCountry]),
		Region:            parseText(rec[colRegion]),
		Subregion:         parseText(rec[colSubRegion]),
		BeginConsume:      parseInt(rec[colBeginConsume]),
		EndConsume:        parseInt(rec[colEndConsume]),
		ProfessionalScore: parseFloat(rec[colPScore]),
		CommunityScore:    parseFloat(rec[colCScore]),
	}, nil
}

// parseText passes text through verbatim; an empty source value means NULL.
func parseText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseFloat parses a decimal value; empty or unparseable means NULL.
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseInt parses an integer value; empty or unparseable means NULL.
// The 9999 drinking-window sentinel passes through unchanged.
func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parseCount parses a bottle count, defaulting to 0 when absent.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseVintage parses a vintage year, converting the 1001 non-vintage
// sentinel to NULL so it never reaches storage.
func parseVintage(s string) *int64 {
	n := parseInt(s)
	if n != nil && *n == domain.NonVintageSentinel {
		return nil
	}
	return n
}

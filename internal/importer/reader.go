package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// readRecords reads all CSV records from src, decoding the export's fixed
// Latin-1 encoding and keying each record by the header row's names.
func readRecords(src io.Reader) ([]RawRecord, error) {
	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(src))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("source has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	var records []RawRecord
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(records)+1, err)
		}

		rec := make(RawRecord, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

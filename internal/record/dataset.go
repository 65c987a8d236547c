package record

import "strings"

// Dataset is the ordered list of records read from one spreadsheet tab.
type Dataset struct {
	Tab     string   `json:"tab"`
	Headers []string `json:"headers"`
	Records []Record `json:"records"`
}

// Len returns the number of records in the dataset.
func (d Dataset) Len() int {
	return len(d.Records)
}

// IsEmpty reports whether the dataset has no records.
func (d Dataset) IsEmpty() bool {
	return len(d.Records) == 0
}

// FromRows converts a rectangular cell range into a dataset.
//
// Row 0 holds the headers, trimmed of surrounding whitespace. Every later row
// becomes one record; a row shorter than the header list yields empty values
// for the missing trailing fields and cells past the last header are dropped.
// A range with no rows produces an empty dataset.
func FromRows(tab string, rows [][]string) Dataset {
	ds := Dataset{Tab: tab}
	if len(rows) == 0 {
		return ds
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	ds.Headers = headers

	ds.Records = make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		pairs := make([]Pair, len(headers))
		for i, h := range headers {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pairs[i] = Pair{Header: h, Value: cell}
		}
		ds.Records = append(ds.Records, New(pairs...))
	}
	return ds
}

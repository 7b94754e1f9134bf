package csv

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// ParseRecords splits delimited content into a header and data records.
//
// The first non-blank record is the header; header cells are trimmed and a
// leading UTF-8 byte order mark is dropped. Blank lines are skipped; any
// read error aborts the parse. Record lengths are left as found so callers
// can tell missing cells from empty ones. Empty content yields a nil header
// and no records.
func ParseRecords(content []byte, separator rune) ([]string, [][]string, error) {
	return parseRecords(bytes.NewReader(bytes.TrimPrefix(content, []byte(utf8BOM))), separator)
}

func parseRecords(r io.Reader, separator rune) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	records := make([][]string, 0)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		if isEmpty(record) {
			continue
		}

		if header == nil {
			header = make([]string, len(record))
			for i, field := range record {
				header[i] = strings.TrimSpace(field)
			}
			continue
		}

		records = append(records, record)
	}

	return header, records, nil
}

func isEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

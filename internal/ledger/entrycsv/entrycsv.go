// Package entrycsv reads and writes the ledger's CSV interchange format:
//
//	Date,Devotee Name,Mangla Arti,Japa,Lecture,Temple Visit
//
// Dates are yyyy-MM-dd, scores are 0, 0.5 or 1, the boolean is the literal
// true/false. Export output fed back into import reproduces the entries.
package entrycsv

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/sadhanahub/sadhana/internal/ledger/domain"
)

var Header = []string{"Date", "Devotee Name", "Mangla Arti", "Japa", "Lecture", "Temple Visit"}

// Read parses CSV text into raw rows. The header row and blank lines are
// excluded, so the returned slice holds exactly the data rows a bulk import
// must account for.
func Read(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]domain.RawRow, 0, len(records))
	for i, record := range records {
		if i == 0 && isHeader(record) {
			continue
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, toRawRow(record))
	}
	return rows, nil
}

// Write renders raw rows with the interchange header.
func Write(w io.Writer, rows []domain.RawRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Date, row.DevoteeName, row.Mangla, row.Japa, row.Lecture, row.TempleVisit}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func toRawRow(record []string) domain.RawRow {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return domain.RawRow{
		Date:        field(0),
		DevoteeName: field(1),
		Mangla:      field(2),
		Japa:        field(3),
		Lecture:     field(4),
		TempleVisit: field(5),
	}
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "date")
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

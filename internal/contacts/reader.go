package contacts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xuri/excelize/v2"
)

var skippedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "contacts_skipped_total",
	Help: "Spreadsheet rows excluded for an empty phone cell",
})

// Contact is one recipient row from the spreadsheet. Only Phone is
// mandatory; the rest is carried for the report and the confirmation mail.
type Contact struct {
	Name    string
	Surname string
	Phone   string
	Email   string
}

func (c Contact) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", c.Name, c.Surname, c.Phone))
}

var ErrNoPhoneColumn = errors.New("spreadsheet has no Phone column")

// Read loads the first sheet of the xlsx file at path. The first row is a
// header; a Phone column is required, Name/Surname/Email are optional. Rows
// whose phone cell is empty after trimming are not returned but counted in
// skipped. Row order is preserved.
func Read(path string) ([]Contact, int, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("spreadsheet %s: %w", path, ErrNoPhoneColumn)
	}

	columns := headerIndex(rows[0])
	phoneCol := columns.lookup("phone")
	if phoneCol < 0 {
		return nil, 0, fmt.Errorf("spreadsheet %s: %w", path, ErrNoPhoneColumn)
	}

	var list []Contact
	skipped := 0
	for _, row := range rows[1:] {
		phone := strings.TrimSpace(cell(row, phoneCol))
		if phone == "" {
			skipped++
			skippedCounter.Inc()
			continue
		}
		list = append(list, Contact{
			Name:    strings.TrimSpace(cell(row, columns.lookup("name"))),
			Surname: strings.TrimSpace(cell(row, columns.lookup("surname"))),
			Phone:   phone,
			Email:   strings.TrimSpace(cell(row, columns.lookup("email"))),
		})
	}
	return list, skipped, nil
}

type columnIndex map[string]int

func headerIndex(header []string) columnIndex {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func (c columnIndex) lookup(name string) int {
	idx, ok := c[name]
	if !ok {
		return -1
	}
	return idx
}

// cell tolerates the short rows excelize returns when trailing cells are
// empty, and the -1 index of an absent optional column.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

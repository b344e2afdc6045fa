package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts accepted in CSV input, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// LoadCSV reads a closing-price series from CSV data. The date column
// is whichever header equals "date", "datetime" or "time" and the price
// column is the first header containing "close", "price" or "last",
// both case-insensitive. Currency symbols and thousands separators are
// stripped from prices; rows whose date or price fail to parse are
// dropped, matching the tolerant ingestion the desktop data loaders do.
func LoadCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	dateCol, closeCol, err := sniffColumns(header)
	if err != nil {
		return nil, err
	}

	var points []Point
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if dateCol >= len(record) || closeCol >= len(record) {
			continue
		}

		date, ok := parseDate(strings.TrimSpace(record[dateCol]))
		if !ok {
			continue
		}
		price, ok := parsePrice(strings.TrimSpace(record[closeCol]))
		if !ok {
			continue
		}
		points = append(points, Point{Date: date, Close: price})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no usable rows in CSV input")
	}
	return NewSeries(points)
}

// LoadFile reads a closing-price series from a CSV file.
func LoadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}

func sniffColumns(header []string) (dateCol, closeCol int, err error) {
	dateCol, closeCol = -1, -1
	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		if dateCol < 0 {
			switch lower {
			case "date", "datetime", "time":
				dateCol = i
			}
		}
		if closeCol < 0 {
			for _, keyword := range []string{"close", "price", "last"} {
				if strings.Contains(lower, keyword) {
					closeCol = i
					break
				}
			}
		}
	}
	if dateCol < 0 {
		return 0, 0, fmt.Errorf("no date column found, headers: %s", strings.Join(header, ", "))
	}
	if closeCol < 0 {
		return 0, 0, fmt.Errorf("no close/price column found, headers: %s", strings.Join(header, ", "))
	}
	return dateCol, closeCol, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

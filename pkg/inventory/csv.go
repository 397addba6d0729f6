package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVHeader is the column order of the generator output.
var CSVHeader = []string{"item_id", "name", "barcode", "face_id", "description", "price", "unit", "category", "brand", "image_url"}

// WriteCSV writes the header and one row per item.
func WriteCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.ID,
			item.Name,
			item.Barcode,
			item.FaceID,
			item.Description,
			item.Price.StringFixed(2),
			string(item.Unit),
			string(item.Category),
			item.Brand,
			item.ImageURL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV. The first malformed row aborts the read.
func ReadCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: 1, Err: errors.New("missing header")}
		}
		return nil, &ParseError{Line: 1, Err: err}
	}
	for i, col := range CSVHeader {
		if strings.TrimPrefix(header[i], "\ufeff") != col {
			return nil, &ParseError{Line: 1, Field: col, Err: fmt.Errorf("unexpected header %q", header[i])}
		}
	}

	var items []Item
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		item, err := parseRow(row, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRow(row []string, line int) (Item, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(row[5]))
	if err != nil {
		return Item{}, &ParseError{Line: line, Field: "price", Err: err}
	}
	unit, err := ParseUnit(row[6])
	if err != nil {
		return Item{}, &ParseError{Line: line, Field: "unit", Err: err}
	}
	category, err := ParseCategory(row[7])
	if err != nil {
		return Item{}, &ParseError{Line: line, Field: "category", Err: err}
	}
	return Item{
		ID:          row[0],
		Name:        row[1],
		Barcode:     row[2],
		FaceID:      row[3],
		Description: row[4],
		Price:       price.Round(2),
		Unit:        unit,
		Category:    category,
		Brand:       row[8],
		ImageURL:    row[9],
	}, nil
}

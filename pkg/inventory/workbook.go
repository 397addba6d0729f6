package inventory

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet = "Items"
	facesSheet = "Faces"
)

// WriteWorkbook exports the document as an xlsx file with an Items and a Faces sheet.
func WriteWorkbook(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(facesSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(CSVHeader))
	for i, col := range CSVHeader {
		header[i] = col
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return err
	}
	perFace := make(map[string]int)
	for i, item := range doc.Items {
		perFace[item.FaceID]++
		row := []interface{}{
			item.ID,
			item.Name,
			item.Barcode,
			item.FaceID,
			item.Description,
			item.Price.InexactFloat64(),
			string(item.Unit),
			string(item.Category),
			item.Brand,
			item.ImageURL,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return err
		}
	}

	faces := make([]string, 0, len(doc.FaceColors))
	for face := range doc.FaceColors {
		faces = append(faces, face)
	}
	sort.Strings(faces)
	if err := f.SetSheetRow(facesSheet, "A1", &[]interface{}{"face_id", "color", "items"}); err != nil {
		return err
	}
	for i, face := range faces {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(facesSheet, cell, &[]interface{}{face, doc.FaceColors[face], perFace[face]}); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// ReadWorkbook loads a workbook produced by WriteWorkbook.
func ReadWorkbook(r io.Reader) (Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Document{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(itemsSheet)
	if err != nil {
		return Document{}, fmt.Errorf("read %s sheet: %w", itemsSheet, err)
	}
	doc := Document{FaceColors: map[string]string{}}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		// GetRows drops trailing empty cells.
		for len(row) < len(CSVHeader) {
			row = append(row, "")
		}
		item, err := parseRow(row, i+1)
		if err != nil {
			return Document{}, err
		}
		doc.Items = append(doc.Items, item)
	}

	faceRows, err := f.GetRows(facesSheet)
	if err != nil {
		return Document{}, fmt.Errorf("read %s sheet: %w", facesSheet, err)
	}
	for i, row := range faceRows {
		if i == 0 || len(row) < 2 {
			continue
		}
		doc.FaceColors[row[0]] = row[1]
	}
	return doc, nil
}

package inventory

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireSameItems compares field by field; prices use decimal equality.
func requireSameItems(t *testing.T, want, got []Item) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Barcode, g.Barcode)
		assert.Equal(t, w.FaceID, g.FaceID)
		assert.Equal(t, w.Description, g.Description)
		assert.True(t, w.Price.Equal(g.Price), "%s price: want %s, got %s", w.ID, w.Price, g.Price)
		assert.Equal(t, w.Price.StringFixed(2), g.Price.StringFixed(2))
		assert.Equal(t, w.Unit, g.Unit)
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Brand, g.Brand)
		assert.Equal(t, w.ImageURL, g.ImageURL)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	items := generateDefault(t, 21)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(CSVHeader, ",")+"\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	requireSameItems(t, items, got)
}

func TestCSVWritesTwoDecimalPrices(t *testing.T) {
	items := []Item{{
		ID: "dai_001_1234", Name: "Whole Milk", Barcode: "301234567", FaceID: "face_001",
		Description: "Premium whole milk, great taste and quality", Price: decimal.RequireFromString("3.5"),
		Unit: UnitEach, Category: CategoryDairy, Brand: "Horizon", ImageURL: ImageURL("Whole Milk"),
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))
	assert.Contains(t, buf.String(), ",3.50,each,Dairy,")
}

func TestReadCSVErrors(t *testing.T) {
	header := strings.Join(CSVHeader, ",") + "\n"
	row := func(price, unit, category string) string {
		return strings.Join([]string{"dai_001_1234", "Whole Milk", "301234567", "face_001", "Premium whole milk", price, unit, category, "Horizon", "x"}, ",") + "\n"
	}

	cases := []struct {
		name  string
		input string
		line  int
		field string
	}{
		{name: "malformed price", input: header + row("3.49", "each", "Dairy") + row("abc", "each", "Dairy"), line: 3, field: "price"},
		{name: "unknown unit", input: header + row("3.49", "gallon", "Dairy"), line: 2, field: "unit"},
		{name: "unknown category", input: header + row("3.49", "each", "Toys"), line: 2, field: "category"},
		{name: "wrong header", input: "id,name\n", line: 1},
		{name: "short row", input: header + "a,b,c\n", line: 2},
		{name: "empty input", input: "", line: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := ReadCSV(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Nil(t, items)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.line, perr.Line)
			if tc.field != "" {
				assert.Equal(t, tc.field, perr.Field)
			}
		})
	}
}

func TestReadCSVAcceptsByteOrderMark(t *testing.T) {
	input := "\ufeff" + strings.Join(CSVHeader, ",") + "\n" +
		"bak_003_1000,Bagels,401234567,face_003,\"Fresh baked bagels, made daily\",4.00,each,bakery,Thomas',x\n"

	items, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, CategoryBakery, items[0].Category)
	assert.Equal(t, "Fresh baked bagels, made daily", items[0].Description)
	assert.Equal(t, "4.00", items[0].Price.StringFixed(2))
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	items := generateDefault(t, 8)
	colors, err := BuildFaceColorMap(DefaultFaceCount, DefaultPalette)
	require.NoError(t, err)
	doc := Document{Items: items, FaceColors: colors}

	var buf bytes.Buffer
	require.NoError(t, EncodeDocument(&buf, doc))

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &wire))
	assert.Contains(t, wire, "items")
	assert.Contains(t, wire, "face_colors")

	got, err := DecodeDocument(&buf)
	require.NoError(t, err)
	requireSameItems(t, items, got.Items)
	assert.Equal(t, colors, got.FaceColors)
}

func TestDocumentPriceIsJSONNumber(t *testing.T) {
	doc := Document{Items: []Item{{ID: "x", Price: decimal.RequireFromString("2.99"), Unit: UnitEach, Category: CategoryPantry}}}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"price":2.99`)
	assert.Contains(t, string(payload), `"face_colors":{}`)
}

func TestDecodeDocumentRejectsUnknownCategory(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{"items":[{"id":"x","unit":"each","category":"Toys"}],"face_colors":{}}`))
	assert.Error(t, err)
}

func TestSaveAndLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	items := generateDefault(t, 13)[:20]
	colors, err := BuildFaceColorMap(4, DefaultPalette)
	require.NoError(t, err)

	require.NoError(t, SaveDocument(path, Document{Items: items, FaceColors: colors}))
	doc, err := LoadDocument(path)
	require.NoError(t, err)
	requireSameItems(t, items, doc.Items)
	assert.Equal(t, colors, doc.FaceColors)

	catalog := doc.Catalog()
	assert.Equal(t, len(items), catalog.Len())

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWorkbookRoundTrip(t *testing.T) {
	items := generateDefault(t, 17)[:40]
	colors, err := BuildFaceColorMap(5, DefaultPalette)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, Document{Items: items, FaceColors: colors}))

	doc, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	requireSameItems(t, items, doc.Items)
	assert.Equal(t, colors, doc.FaceColors)
}

func TestReadWorkbookRejectsGarbage(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

package sheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/warehouse"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	MovementSheet  = "입출고장"
	InventorySheet = "재고현황"
)

// WriteXLSX writes the daily report as a workbook: the movements of the day
// followed by the totals per item.
func WriteXLSX(w io.Writer, r warehouse.DailyReport) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", MovementSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("일일 입출고 상세 내역서 %s", r.Day)
	if err := f.SetCellValue(MovementSheet, "A1", title); err != nil {
		return err
	}
	row := 3
	if err := writeRow(f, MovementSheet, row, bold, toAny(Header)); err != nil {
		return err
	}
	for _, e := range r.Entries {
		row++
		if err := writeRow(f, MovementSheet, row, 0, Row(e)); err != nil {
			return err
		}
	}

	row += 2
	if err := writeRow(f, MovementSheet, row, bold, []any{"품목명", "입고 합계", "출고 합계"}); err != nil {
		return err
	}
	for _, it := range r.Items {
		row++
		if err := writeRow(f, MovementSheet, row, 0, []any{it.ItemName, it.In, it.Out}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(MovementSheet, "A", "D", 18); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteInventoryXLSX writes the reconciled items with their stock value.
func WriteInventoryXLSX(w io.Writer, items []warehouse.Item, currency string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := []any{"품목명", "분류", "수량", "안전재고", "단가", "재고금액"}
	if err := writeRow(f, InventorySheet, 1, bold, header); err != nil {
		return err
	}
	for i, it := range items {
		cells := []any{it.Name, it.Category, it.Quantity, it.SafetyStock, it.Price.InexactFloat64(), it.Value(currency).Amount().InexactFloat64()}
		if err := writeRow(f, InventorySheet, i+2, 0, cells); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(InventorySheet, "A", "F", 14); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row, style int, cells []any) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &cells); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(cells), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// itemColumns maps the accepted header names of an item sheet to fields.
var itemColumns = map[string]string{
	"품목명": "name", "name": "name",
	"분류": "category", "category": "category",
	"수량": "quantity", "quantity": "quantity",
	"안전재고": "safetyStock", "safetystock": "safetyStock", "safety stock": "safetyStock",
	"단가": "price", "price": "price",
}

// ReadItems reads catalog entries from the first sheet of a workbook. The
// first row is a header naming the columns, in Korean or English; only the
// name column is required. Rows with an empty name are skipped.
func ReadItems(r io.Reader) ([]warehouse.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", sheets[0], err)
	}
	if len(rows) < 1 {
		return nil, errors.New("sheet has no header row")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		if field, ok := itemColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[field] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("header %v has no name column (품목명)", rows[0])
	}

	var items []warehouse.Item
	var errs []error
	for n, row := range rows[1:] {
		cell := func(field string) string {
			i, ok := cols[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell("name") == "" {
			continue
		}
		it := warehouse.Item{Name: cell("name"), Category: cell("category")}
		var err error
		if it.Quantity, err = atoi(cell("quantity")); err != nil {
			errs = append(errs, fmt.Errorf("row %d: quantity: %w", n+2, err))
		}
		if it.SafetyStock, err = atoi(cell("safetyStock")); err != nil {
			errs = append(errs, fmt.Errorf("row %d: safety stock: %w", n+2, err))
		}
		if p := strings.ReplaceAll(cell("price"), ",", ""); p != "" {
			if it.Price, err = decimal.NewFromString(p); err != nil {
				errs = append(errs, fmt.Errorf("row %d: price: %w", n+2, err))
			}
		}
		items = append(items, it)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return items, nil
}

func atoi(s string) (int, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
